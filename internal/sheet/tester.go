package sheet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"golfpos/internal/shop"
)

// TestState is the connection-test state machine:
// IDLE -> TESTING -> {SUCCESS, ERROR}. SUCCESS reverts to IDLE on its own;
// ERROR sticks until the user edits the endpoint or retries.
type TestState string

const (
	StateIdle    TestState = "IDLE"
	StateTesting TestState = "TESTING"
	StateSuccess TestState = "SUCCESS"
	StateError   TestState = "ERROR"
)

const successRevertDelay = 3 * time.Second

// ErrEndpointRequired is returned when the candidate URL is empty.
var ErrEndpointRequired = errors.New("endpoint URL is required")

// ErrEndpointSuffix is returned when the URL does not end with the deployed
// web-app path.
var ErrEndpointSuffix = errors.New("endpoint URL must end with '/exec' (not /edit)")

// EndpointStore persists the committed endpoint URL.
type EndpointStore interface {
	Endpoint() string
	SetEndpoint(url string) error
}

// Tester runs the interactive connection test. The candidate URL is staged
// for the test fetch and committed only after the fetch succeeds, so a
// failed test never loses a working configuration.
type Tester struct {
	client   *Client
	store    EndpointStore
	service  *shop.Service
	poller   *Poller
	logger   *zap.Logger

	mu      sync.Mutex
	state   TestState
	message string
	revert  *time.Timer
}

// NewTester creates a Tester in the IDLE state.
func NewTester(client *Client, store EndpointStore, service *shop.Service, poller *Poller, logger *zap.Logger) *Tester {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Tester{
		client:  client,
		store:   store,
		service: service,
		poller:  poller,
		logger:  logger,
		state:   StateIdle,
	}
}

// State returns the current state and, in ERROR, the diagnostic message.
func (t *Tester) State() (TestState, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state, t.message
}

// Reset moves ERROR back to IDLE, for when the user edits the candidate URL.
func (t *Tester) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = StateIdle
	t.message = ""
}

// Test validates and probes the candidate endpoint. On success the endpoint
// is persisted, the fetched snapshot is applied, and the poll loop is
// restarted against the new URL.
func (t *Tester) Test(ctx context.Context, candidate string) (TestState, string) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return t.fail(ErrEndpointRequired.Error())
	}
	if !strings.HasSuffix(candidate, "/exec") {
		return t.fail(ErrEndpointSuffix.Error())
	}

	t.setState(StateTesting, "")
	snap, err := t.client.FetchSnapshot(ctx, candidate)
	if err != nil {
		t.logger.Warn("connection test failed", zap.String("endpoint", candidate), zap.Error(err))
		return t.fail(err.Error())
	}

	if err := t.store.SetEndpoint(candidate); err != nil {
		t.logger.Error("failed to persist endpoint", zap.Error(err))
		return t.fail(fmt.Sprintf("connected, but saving the endpoint failed: %v", err))
	}
	applySnapshot(t.service, snap)
	t.poller.SetEndpoint(candidate)
	t.logger.Info("endpoint committed", zap.String("endpoint", candidate))

	t.mu.Lock()
	t.state = StateSuccess
	t.message = ""
	if t.revert != nil {
		t.revert.Stop()
	}
	t.revert = time.AfterFunc(successRevertDelay, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.state == StateSuccess {
			t.state = StateIdle
		}
	})
	t.mu.Unlock()
	return StateSuccess, ""
}

func (t *Tester) setState(s TestState, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = s
	t.message = msg
}

func (t *Tester) fail(msg string) (TestState, string) {
	t.setState(StateError, msg)
	return StateError, msg
}
