package sheet

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"resty.dev/v3"

	"golfpos/internal/shop"
)

// Actions understood by the spreadsheet endpoint.
const (
	ActionUpsertProduct  = "UPSERT_PRODUCT"
	ActionDeleteProduct  = "DELETE_PRODUCT"
	ActionAdjustStock    = "ADJUST_STOCK"
	ActionAddTransaction = "ADD_TRANSACTION"
)

// Snapshot is a full remote read. A nil slice with its Has flag false means
// the response did not include that collection at all.
type Snapshot struct {
	Products        []shop.Product
	Transactions    []shop.Transaction
	HasProducts     bool
	HasTransactions bool
}

// Client wraps the spreadsheet HTTP endpoint. It holds no state beyond the
// underlying HTTP client; the endpoint URL is passed per call because it can
// change at runtime.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewClient creates a Client with a bounded request timeout.
func NewClient(logger *zap.Logger) *Client {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	c := resty.New()
	c.SetTimeout(15 * time.Second)
	return &Client{http: c, logger: logger}
}

// Close releases the underlying HTTP client.
func (c *Client) Close() error {
	return c.http.Close()
}

// FetchSnapshot issues a cache-busted read and decodes the full remote
// state. This is the one path whose errors propagate: it returns
// ErrTransport, ErrAccess, ErrRemote or ErrParse wrapped with a
// human-readable message.
func (c *Client) FetchSnapshot(ctx context.Context, endpoint string) (*Snapshot, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("action", "read").
		SetQueryParam("t", strconv.FormatInt(time.Now().UnixMilli(), 10)).
		Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: HTTP %d", ErrTransport, res.StatusCode())
	}

	body := strings.TrimSpace(res.String())
	if strings.HasPrefix(body, "<") {
		return nil, fmt.Errorf("%w: received HTML instead of JSON, the deployment is likely not shared with 'Anyone'", ErrAccess)
	}

	var envelope struct {
		Status       string          `json:"status"`
		Message      string          `json:"message"`
		Products     json.RawMessage `json:"products"`
		Transactions json.RawMessage `json:"transactions"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return nil, fmt.Errorf("%w: the endpoint did not return valid JSON", ErrParse)
	}
	if envelope.Status == "error" {
		return nil, fmt.Errorf("%w: %s", ErrRemote, envelope.Message)
	}

	snap := &Snapshot{}
	if len(envelope.Products) > 0 && string(envelope.Products) != "null" {
		products, err := decodeProducts(envelope.Products)
		if err != nil {
			return nil, fmt.Errorf("%w: bad products payload", ErrParse)
		}
		snap.Products = products
		snap.HasProducts = true
	}
	if len(envelope.Transactions) > 0 && string(envelope.Transactions) != "null" {
		transactions, err := decodeTransactions(envelope.Transactions)
		if err != nil {
			return nil, fmt.Errorf("%w: bad transactions payload", ErrParse)
		}
		snap.Transactions = transactions
		snap.HasTransactions = true
	}
	return snap, nil
}

// Write posts a single mutation to the endpoint. The body is JSON but the
// content type is text/plain so the spreadsheet side never sees a CORS
// preflight it cannot answer.
func (c *Client) Write(ctx context.Context, endpoint, action string, data any) error {
	payload, err := json.Marshal(map[string]any{
		"action": action,
		"data":   data,
	})
	if err != nil {
		return fmt.Errorf("encode %s: %w", action, err)
	}
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/plain;charset=utf-8").
		SetBody(payload).
		Post(endpoint)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if res.IsError() {
		return fmt.Errorf("%w: HTTP %d", ErrTransport, res.StatusCode())
	}
	return nil
}
