package shop

import (
	"errors"
	"testing"
)

func product(id, name string, qty int) Product {
	return Product{
		ID: id, Name: name, Category: "Clubs",
		CostPrice: 100, SellingPrice: 200, Quantity: qty,
	}
}

func TestSaveProduct_LastWriteWinsPerID(t *testing.T) {
	s := NewLocalStorage()

	saves := []Product{
		product("a", "first", 1),
		product("b", "second", 2),
		product("a", "first-updated", 5),
		product("c", "third", 3),
		product("b", "second-updated", 9),
	}
	for _, p := range saves {
		if err := s.SaveProduct(p); err != nil {
			t.Fatalf("SaveProduct(%s) returned error: %v", p.ID, err)
		}
	}

	got := s.Products()
	if len(got) != 3 {
		t.Fatalf("expected 3 products, got %d", len(got))
	}
	byID := map[string]Product{}
	for _, p := range got {
		if _, dup := byID[p.ID]; dup {
			t.Fatalf("duplicate id %q in collection", p.ID)
		}
		byID[p.ID] = p
	}
	if byID["a"].Name != "first-updated" || byID["a"].Quantity != 5 {
		t.Errorf("product a not replaced by latest payload: %+v", byID["a"])
	}
	if byID["b"].Name != "second-updated" {
		t.Errorf("product b not replaced by latest payload: %+v", byID["b"])
	}
}

func TestSaveProduct_NewProductsPrepend(t *testing.T) {
	s := NewLocalStorage()
	_ = s.SaveProduct(product("a", "older", 1))
	_ = s.SaveProduct(product("b", "newer", 1))

	got := s.Products()
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("expected newest first, got order %s, %s", got[0].ID, got[1].ID)
	}
}

func TestSaveProduct_ReplacePreservesPosition(t *testing.T) {
	s := NewLocalStorage()
	_ = s.SaveProduct(product("a", "a", 1))
	_ = s.SaveProduct(product("b", "b", 1))
	_ = s.SaveProduct(product("c", "c", 1))

	_ = s.SaveProduct(product("b", "b-edited", 7))

	got := s.Products()
	if got[1].ID != "b" || got[1].Name != "b-edited" {
		t.Errorf("edit moved product b: %+v", got)
	}
}

func TestSaveProduct_EmptyID(t *testing.T) {
	s := NewLocalStorage()
	if err := s.SaveProduct(Product{}); !errors.Is(err, ErrEmptyID) {
		t.Errorf("expected ErrEmptyID, got %v", err)
	}
}

func TestDeleteProduct_NoOpWhenAbsent(t *testing.T) {
	s := NewLocalStorage()
	_ = s.SaveProduct(product("a", "a", 1))

	s.DeleteProduct("missing")
	if len(s.Products()) != 1 {
		t.Error("delete of unknown id changed the collection")
	}

	s.DeleteProduct("a")
	if len(s.Products()) != 0 {
		t.Error("product a was not removed")
	}
}

func TestRecordSale_DecrementsWithoutClamping(t *testing.T) {
	s := NewLocalStorage()
	_ = s.SaveProduct(product("a", "driver", 5))

	sale := Transaction{
		ID:    "t1",
		Items: []TransactionItem{{ProductID: "a", ProductName: "driver", Quantity: 2, PriceAtSale: 200}},
	}
	if err := s.RecordSale(sale, SaleDeltas(sale.Items)); err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
	p, _ := s.Product("a")
	if p.Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", p.Quantity)
	}

	// Overselling must go negative, never clamp to zero.
	oversell := Transaction{
		ID:    "t2",
		Items: []TransactionItem{{ProductID: "a", ProductName: "driver", Quantity: 10, PriceAtSale: 200}},
	}
	if err := s.RecordSale(oversell, SaleDeltas(oversell.Items)); err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
	p, _ = s.Product("a")
	if p.Quantity != -7 {
		t.Errorf("expected quantity -7 (not clamped), got %d", p.Quantity)
	}
}

func TestRecordSale_SkipsUnknownProducts(t *testing.T) {
	s := NewLocalStorage()
	_ = s.SaveProduct(product("a", "driver", 5))

	sale := Transaction{
		ID: "t1",
		Items: []TransactionItem{
			{ProductID: "ghost", Quantity: 3},
			{ProductID: "a", Quantity: 1},
		},
	}
	if err := s.RecordSale(sale, SaleDeltas(sale.Items)); err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
	p, _ := s.Product("a")
	if p.Quantity != 4 {
		t.Errorf("expected quantity 4, got %d", p.Quantity)
	}
	if len(s.Transactions()) != 1 {
		t.Errorf("expected 1 transaction, got %d", len(s.Transactions()))
	}
}

func TestRecordSale_RejectsReplayedTransactionID(t *testing.T) {
	s := NewLocalStorage()
	_ = s.SaveProduct(product("a", "driver", 5))

	sale := Transaction{
		ID:    "t1",
		Items: []TransactionItem{{ProductID: "a", Quantity: 2}},
	}
	deltas := SaleDeltas(sale.Items)
	if err := s.RecordSale(sale, deltas); err != nil {
		t.Fatalf("first RecordSale: %v", err)
	}
	if err := s.RecordSale(sale, deltas); !errors.Is(err, ErrDuplicateTransaction) {
		t.Fatalf("expected ErrDuplicateTransaction, got %v", err)
	}

	p, _ := s.Product("a")
	if p.Quantity != 3 {
		t.Errorf("replay decremented stock twice: quantity %d", p.Quantity)
	}
	if len(s.Transactions()) != 1 {
		t.Errorf("replay added a duplicate transaction")
	}
}

func TestRecordSale_PrependsMostRecentFirst(t *testing.T) {
	s := NewLocalStorage()
	_ = s.RecordSale(Transaction{ID: "t1"}, nil)
	_ = s.RecordSale(Transaction{ID: "t2"}, nil)

	got := s.Transactions()
	if got[0].ID != "t2" || got[1].ID != "t1" {
		t.Errorf("expected most-recent-first, got %s, %s", got[0].ID, got[1].ID)
	}
}

func TestReplaceAll_NilLeavesCollectionUntouched(t *testing.T) {
	s := NewLocalStorage()
	_ = s.SaveProduct(product("a", "a", 1))
	_ = s.RecordSale(Transaction{ID: "t1"}, nil)

	s.ReplaceAll(nil, nil)
	if len(s.Products()) != 1 || len(s.Transactions()) != 1 {
		t.Fatal("nil snapshot slices must leave collections untouched")
	}

	s.ReplaceAll([]Product{product("x", "x", 1), product("y", "y", 2)}, nil)
	if len(s.Products()) != 2 {
		t.Errorf("products not replaced wholesale: %d", len(s.Products()))
	}
	if len(s.Transactions()) != 1 {
		t.Error("transactions should be untouched when snapshot omits them")
	}

	s.ReplaceAll(nil, []Transaction{})
	if len(s.Transactions()) != 0 {
		t.Error("empty (non-nil) transaction snapshot should replace wholesale")
	}
}

func TestSaleDeltas_MergesLinesPerProduct(t *testing.T) {
	deltas := SaleDeltas([]TransactionItem{
		{ProductID: "a", Quantity: 2},
		{ProductID: "b", Quantity: 1},
		{ProductID: "a", Quantity: 3},
	})
	if len(deltas) != 2 {
		t.Fatalf("expected 2 deltas, got %d", len(deltas))
	}
	if deltas[0].ID != "a" || deltas[0].Delta != -5 {
		t.Errorf("expected merged delta -5 for a, got %+v", deltas[0])
	}
	if deltas[1].ID != "b" || deltas[1].Delta != -1 {
		t.Errorf("expected delta -1 for b, got %+v", deltas[1])
	}
}
