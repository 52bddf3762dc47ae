package shop

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidProduct is returned when a product is missing a required field.
var ErrInvalidProduct = errors.New("product missing required fields")

// ErrEmptyCart is returned when checkout is attempted with no items.
var ErrEmptyCart = errors.New("cart is empty")

// ErrInvalidPayment is returned for an unknown payment method.
var ErrInvalidPayment = errors.New("invalid payment method")

// Remote receives local mutations for best-effort replication. Calls must
// return immediately; delivery happens in the background and its outcome is
// never reported back here.
type Remote interface {
	PublishUpsert(p Product)
	PublishDelete(id string)
	PublishStockAdjust(transactionID string, deltas []StockDelta)
	PublishTransaction(t Transaction)
}

// Service provides high-level inventory and sales operations on a Storage
// backend. Every mutation applies locally first (optimistic), then hands the
// same payload to the Remote for replication.
type Service struct {
	storage Storage
	remote  Remote
	logger  *zap.Logger

	idMu       sync.Mutex
	lastSaleID int64
}

// NewService creates a new Service. remote may be nil when no replication is
// wanted.
func NewService(storage Storage, remote Remote, logger *zap.Logger) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Service{
		storage: storage,
		remote:  remote,
		logger:  logger,
	}
}

// SaveProduct validates and stores a product. An empty ID means a new
// product: an ID, a default SKU and a DateAdded are filled in. An existing
// ID replaces the stored product wholesale.
func (s *Service) SaveProduct(p Product) (Product, error) {
	if p.Name == "" || p.Category == "" || p.CostPrice <= 0 || p.SellingPrice <= 0 {
		return Product{}, ErrInvalidProduct
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.SKU == "" {
		p.SKU = fmt.Sprintf("SKU-%d", rand.Intn(10000))
	}
	if p.DateAdded.IsZero() {
		p.DateAdded = time.Now()
	}
	if err := s.storage.SaveProduct(p); err != nil {
		s.logger.Error("failed to save product", zap.String("product_id", p.ID), zap.Error(err))
		return Product{}, fmt.Errorf("failed to save product: %w", err)
	}
	if s.remote != nil {
		s.remote.PublishUpsert(p)
	}
	s.logger.Info("product saved", zap.String("product_id", p.ID), zap.String("name", p.Name))
	return p, nil
}

// DeleteProduct removes a product locally and requests remote deletion.
func (s *Service) DeleteProduct(id string) {
	s.storage.DeleteProduct(id)
	if s.remote != nil {
		s.remote.PublishDelete(id)
	}
	s.logger.Info("product deleted", zap.String("product_id", id))
}

// nextSaleID issues time-derived transaction IDs that stay unique within
// the session: two checkouts landing in the same millisecond must not share
// an ID, or the replay guard would reject the second sale.
func (s *Service) nextSaleID() string {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	id := time.Now().UnixMilli()
	if id <= s.lastSaleID {
		id = s.lastSaleID + 1
	}
	s.lastSaleID = id
	return strconv.FormatInt(id, 10)
}

// CartLine is one requested line at checkout.
type CartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Checkout builds a complete transaction from the cart, records it, and
// replicates it. Name and price are captured from the product at this
// moment; the stock deltas applied locally and sent remotely are computed
// once from the same lines.
func (s *Service) Checkout(lines []CartLine, method PaymentMethod, customerName, customerAddress string, date time.Time) (Transaction, error) {
	if len(lines) == 0 {
		return Transaction{}, ErrEmptyCart
	}
	if !ValidPaymentMethod(method) {
		return Transaction{}, fmt.Errorf("%w: %q", ErrInvalidPayment, method)
	}

	items := make([]TransactionItem, 0, len(lines))
	var total float64
	for _, line := range lines {
		if line.Quantity < 1 {
			return Transaction{}, fmt.Errorf("quantity must be at least 1 for product %q", line.ProductID)
		}
		p, err := s.storage.Product(line.ProductID)
		if err != nil {
			return Transaction{}, fmt.Errorf("product %q: %w", line.ProductID, err)
		}
		items = append(items, TransactionItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    line.Quantity,
			PriceAtSale: p.SellingPrice,
		})
		total += p.SellingPrice * float64(line.Quantity)
	}

	if date.IsZero() {
		date = time.Now()
	}
	t := Transaction{
		ID:              s.nextSaleID(),
		Date:            date,
		Items:           items,
		TotalAmount:     total,
		PaymentMethod:   method,
		CustomerName:    customerName,
		CustomerAddress: customerAddress,
	}

	deltas := SaleDeltas(t.Items)
	if err := s.storage.RecordSale(t, deltas); err != nil {
		s.logger.Error("failed to record sale", zap.String("transaction_id", t.ID), zap.Error(err))
		return Transaction{}, fmt.Errorf("failed to record sale: %w", err)
	}
	if s.remote != nil {
		s.remote.PublishTransaction(t)
		s.remote.PublishStockAdjust(t.ID, deltas)
	}

	s.logger.Info("sale recorded",
		zap.String("transaction_id", t.ID),
		zap.Float64("total", t.TotalAmount),
		zap.Int("items", len(t.Items)),
	)
	return t, nil
}

// Products returns the current product collection.
func (s *Service) Products() []Product {
	return s.storage.Products()
}

// Transactions returns the current transaction collection, most recent
// first.
func (s *Service) Transactions() []Transaction {
	return s.storage.Transactions()
}

// ApplySnapshot overwrites local collections with a remote snapshot. Nil
// slices leave the matching collection untouched.
func (s *Service) ApplySnapshot(products []Product, transactions []Transaction) {
	s.storage.ReplaceAll(products, transactions)
}
