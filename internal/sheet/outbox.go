package sheet

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"golfpos/internal/shop"
)

const (
	outboxBuffer   = 64
	maxAttempts    = 3
	initialBackoff = 500 * time.Millisecond
)

type job struct {
	key    string
	action string
	data   any
}

// Outbox decouples remote writes from the UI mutation path. Mutations
// enqueue and return immediately; a single worker delivers them in order
// with bounded retry. Delivery failures are logged and swallowed — local
// state is the source of truth for the session and is never rolled back.
//
// Jobs carrying an idempotency key (the transaction-scoped ones) are
// delivered at most once per session; a replayed key is dropped at enqueue
// time.
type Outbox struct {
	client   *Client
	endpoint func() string
	logger   *zap.Logger

	jobs chan job
	wg   sync.WaitGroup

	mu      sync.Mutex
	seen    map[string]struct{}
	pending sync.WaitGroup
}

// NewOutbox starts the delivery worker. endpoint is resolved per attempt so
// a reconfigured URL takes effect without restarting the worker; an empty
// endpoint drops the job.
func NewOutbox(client *Client, endpoint func() string, logger *zap.Logger) *Outbox {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	o := &Outbox{
		client:   client,
		endpoint: endpoint,
		logger:   logger,
		jobs:     make(chan job, outboxBuffer),
		seen:     map[string]struct{}{},
	}
	o.wg.Add(1)
	go o.run()
	return o
}

func (o *Outbox) run() {
	defer o.wg.Done()
	for j := range o.jobs {
		o.deliver(j)
		o.pending.Done()
	}
}

func (o *Outbox) deliver(j job) {
	backoff := initialBackoff
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		// Resolved per attempt: a reconfigured endpoint takes over for the
		// retries of a job that was queued against the old one.
		endpoint := o.endpoint()
		if endpoint == "" {
			return
		}
		err := o.client.Write(context.Background(), endpoint, j.action, j.data)
		if err == nil {
			o.logger.Debug("remote write delivered",
				zap.String("action", j.action),
				zap.Int("attempt", attempt),
			)
			return
		}
		o.logger.Warn("remote write failed",
			zap.String("action", j.action),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt < maxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	o.logger.Error("remote write dropped after retries", zap.String("action", j.action))
}

// enqueue adds a job. key is an idempotency key; empty means no
// deduplication (product edits legitimately repeat).
func (o *Outbox) enqueue(key, action string, data any) {
	if key != "" {
		o.mu.Lock()
		if _, dup := o.seen[key]; dup {
			o.mu.Unlock()
			o.logger.Warn("duplicate remote write dropped", zap.String("key", key))
			return
		}
		o.seen[key] = struct{}{}
		o.mu.Unlock()
	}
	o.pending.Add(1)
	select {
	case o.jobs <- job{key: key, action: action, data: data}:
	default:
		// Full queue. Shed the write rather than block a sale.
		o.pending.Done()
		o.logger.Error("outbox full, remote write dropped", zap.String("action", action))
	}
}

// PublishUpsert queues a product create/update.
func (o *Outbox) PublishUpsert(p shop.Product) {
	o.enqueue("", ActionUpsertProduct, p)
}

// PublishDelete queues a product deletion.
func (o *Outbox) PublishDelete(id string) {
	o.enqueue("", ActionDeleteProduct, map[string]string{"id": id})
}

// PublishStockAdjust queues the stock deltas of one sale, keyed by
// transaction ID so a replay can never double-decrement the remote side.
func (o *Outbox) PublishStockAdjust(transactionID string, deltas []shop.StockDelta) {
	o.enqueue("txn:"+transactionID+":adjust", ActionAdjustStock, deltas)
}

// PublishTransaction queues a completed sale, keyed by transaction ID.
func (o *Outbox) PublishTransaction(t shop.Transaction) {
	o.enqueue("txn:"+t.ID+":add", ActionAddTransaction, t)
}

// Flush blocks until every enqueued job has been delivered or dropped.
func (o *Outbox) Flush() {
	o.pending.Wait()
}

// Close drains the queue and stops the worker.
func (o *Outbox) Close() {
	o.pending.Wait()
	close(o.jobs)
	o.wg.Wait()
}
