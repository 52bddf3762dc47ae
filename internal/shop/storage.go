package shop

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when a product with the given ID is not found.
var ErrNotFound = errors.New("product not found")

// ErrEmptyID is returned when trying to store a record with an empty ID.
var ErrEmptyID = errors.New("empty record ID")

// ErrDuplicateTransaction is returned when a transaction ID has already been
// recorded. Replays are rejected so a sale can never decrement stock twice.
var ErrDuplicateTransaction = errors.New("transaction already recorded")

// Storage is the main interface for the local state layer. It holds the
// authoritative collections for the current session; every view reads from it
// and every mutation lands here before anything is pushed to the remote side.
type Storage interface {
	SaveProduct(p Product) error
	DeleteProduct(id string)
	Product(id string) (Product, error)
	Products() []Product
	RecordSale(t Transaction, deltas []StockDelta) error
	Transactions() []Transaction
	ReplaceAll(products []Product, transactions []Transaction)
}

// LocalStorage provides an in-memory implementation for products and
// transactions. Both collections are ordered: new products and new
// transactions go to the front.
type LocalStorage struct {
	mu           sync.RWMutex
	products     []Product
	transactions []Transaction
	recorded     map[string]struct{}
}

// NewLocalStorage instantiates a LocalStorage with empty collections.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		recorded: map[string]struct{}{},
	}
}

// SaveProduct replaces the product with the same ID in place, or prepends it
// when no such product exists. Returns ErrEmptyID if the product has an
// empty ID.
func (l *LocalStorage) SaveProduct(p Product) error {
	if p.ID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.products {
		if l.products[i].ID == p.ID {
			l.products[i] = p
			return nil
		}
	}
	l.products = append([]Product{p}, l.products...)
	return nil
}

// DeleteProduct removes the matching product. It is a no-op if the ID is
// absent.
func (l *LocalStorage) DeleteProduct(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.products {
		if l.products[i].ID == id {
			l.products = append(l.products[:i], l.products[i+1:]...)
			return
		}
	}
}

// Product retrieves a product by ID. Returns ErrNotFound if absent.
func (l *LocalStorage) Product(id string) (Product, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for i := range l.products {
		if l.products[i].ID == id {
			return l.products[i], nil
		}
	}
	return Product{}, ErrNotFound
}

// Products returns a copy of the product collection, most recently added
// first.
func (l *LocalStorage) Products() []Product {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Product, len(l.products))
	copy(out, l.products)
	return out
}

// RecordSale prepends the transaction and applies the given stock deltas.
// The decrement is plain arithmetic with no floor at zero: overselling
// through a race or a stale cache drives the quantity negative, which is
// kept as a visible signal rather than silently clamped. Deltas for unknown
// product IDs are skipped. A transaction ID that was already recorded
// returns ErrDuplicateTransaction and changes nothing.
func (l *LocalStorage) RecordSale(t Transaction, deltas []StockDelta) error {
	if t.ID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.recorded[t.ID]; ok {
		return ErrDuplicateTransaction
	}
	l.recorded[t.ID] = struct{}{}
	l.transactions = append([]Transaction{t}, l.transactions...)
	for _, d := range deltas {
		for i := range l.products {
			if l.products[i].ID == d.ID {
				l.products[i].Quantity += d.Delta
				break
			}
		}
	}
	return nil
}

// Transactions returns a copy of the transaction collection, most recent
// first.
func (l *LocalStorage) Transactions() []Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}

// ReplaceAll swaps in a full remote snapshot. A nil slice means the snapshot
// did not include that collection and the local one is left untouched.
func (l *LocalStorage) ReplaceAll(products []Product, transactions []Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if products != nil {
		l.products = products
	}
	if transactions != nil {
		l.transactions = transactions
		for _, t := range transactions {
			if t.ID != "" {
				l.recorded[t.ID] = struct{}{}
			}
		}
	}
}
