package shop

import "time"

// PaymentMethod is how a customer settled a transaction.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "CASH"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentCard         PaymentMethod = "CARD"
	PaymentAccrual      PaymentMethod = "ACCRUAL"
)

// ValidPaymentMethod reports whether m is one of the accepted payment methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentBankTransfer, PaymentCard, PaymentAccrual:
		return true
	}
	return false
}

// DefaultCategories are the categories offered out of the box. Arbitrary
// category strings are still accepted on save.
var DefaultCategories = []string{
	"Clubs",
	"Balls",
	"Apparel",
	"Accessories",
	"Training Aids",
}

// Product is a single inventory item.
type Product struct {
	ID           string    `json:"id"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	CostPrice    float64   `json:"costPrice"`
	SellingPrice float64   `json:"sellingPrice"`
	Quantity     int       `json:"quantity"`
	DateAdded    time.Time `json:"dateAdded"`
}

// TransactionItem is one cart line inside a Transaction. ProductName and
// PriceAtSale are snapshots taken at checkout; they do not track later
// renames or price changes.
type TransactionItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	PriceAtSale float64 `json:"priceAtSale"`
}

// Transaction is a completed sale. It is created whole at checkout and
// immutable afterwards.
type Transaction struct {
	ID              string            `json:"id"`
	Date            time.Time         `json:"date"`
	Items           []TransactionItem `json:"items"`
	TotalAmount     float64           `json:"totalAmount"`
	PaymentMethod   PaymentMethod     `json:"paymentMethod"`
	CustomerName    string            `json:"customerName,omitempty"`
	CustomerAddress string            `json:"customerAddress,omitempty"`
	Notes           string            `json:"notes,omitempty"`
}

// StockDelta is a signed quantity adjustment for one product. Sales produce
// negative deltas.
type StockDelta struct {
	ID    string `json:"id"`
	Delta int    `json:"delta"`
}

// SaleDeltas is the single place stock movement is computed from cart lines.
// The local decrement and the remote ADJUST_STOCK payload both come from
// here, so they can never disagree. Lines for the same product are merged.
func SaleDeltas(items []TransactionItem) []StockDelta {
	deltas := make([]StockDelta, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		if i, ok := index[item.ProductID]; ok {
			deltas[i].Delta -= item.Quantity
			continue
		}
		index[item.ProductID] = len(deltas)
		deltas = append(deltas, StockDelta{ID: item.ProductID, Delta: -item.Quantity})
	}
	return deltas
}
