package sheet

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"golfpos/internal/shop"
)

// DefaultPollInterval is how often the remote snapshot is refreshed.
const DefaultPollInterval = 15 * time.Second

// Poller refreshes local state from the remote snapshot on a fixed
// interval. Poll failures are log-only; a background refresh never surfaces
// an error to the user.
type Poller struct {
	client   *Client
	service  *shop.Service
	interval time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewPoller creates a Poller. interval <= 0 falls back to
// DefaultPollInterval.
func NewPoller(client *Client, service *shop.Service, interval time.Duration, logger *zap.Logger) *Poller {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		client:   client,
		service:  service,
		interval: interval,
		logger:   logger,
	}
}

// SetEndpoint tears down any running poll loop and, if endpoint is
// non-empty, starts a new one against it. In-flight fetches are not
// interrupted beyond context cancellation.
func (p *Poller) SetEndpoint(endpoint string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	if endpoint == "" {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go p.loop(ctx, endpoint)
}

// Stop cancels the poll loop if one is running.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *Poller) loop(ctx context.Context, endpoint string) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx, endpoint)
		}
	}
}

// Refresh fetches the snapshot once and applies it. Used by the poll loop
// and by the silent refresh at startup.
func (p *Poller) Refresh(ctx context.Context, endpoint string) {
	p.refresh(ctx, endpoint)
}

func (p *Poller) refresh(ctx context.Context, endpoint string) {
	snap, err := p.client.FetchSnapshot(ctx, endpoint)
	if err != nil {
		p.logger.Warn("background snapshot refresh failed", zap.Error(err))
		return
	}
	applySnapshot(p.service, snap)
	p.logger.Info("snapshot applied",
		zap.Int("products", len(snap.Products)),
		zap.Int("transactions", len(snap.Transactions)),
	)
}

// applySnapshot maps the per-collection presence flags onto the store's
// replace-or-leave semantics.
func applySnapshot(service *shop.Service, snap *Snapshot) {
	var products []shop.Product
	var transactions []shop.Transaction
	if snap.HasProducts {
		products = snap.Products
		if products == nil {
			products = []shop.Product{}
		}
	}
	if snap.HasTransactions {
		transactions = snap.Transactions
		if transactions == nil {
			transactions = []shop.Transaction{}
		}
	}
	service.ApplySnapshot(products, transactions)
}
