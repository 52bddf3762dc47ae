package sheet

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golfpos/internal/shop"
)

// Spreadsheet rows are untyped: numbers come back as strings or floats, IDs
// as numbers, and transaction items as a JSON-encoded string column. The
// decoders below coerce whatever the sheet holds into the domain types,
// falling back to zero values so a half-filled row still loads (non-numeric
// cells count as 0 in valuations).

func decodeProducts(raw json.RawMessage) ([]shop.Product, error) {
	var rows []map[string]any
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	products := make([]shop.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, shop.Product{
			ID:           asString(row["id"]),
			SKU:          asString(row["sku"]),
			Name:         asString(row["name"]),
			Category:     asString(row["category"]),
			CostPrice:    asFloat(row["costPrice"]),
			SellingPrice: asFloat(row["sellingPrice"]),
			Quantity:     asInt(row["quantity"]),
			DateAdded:    asTime(row["dateAdded"]),
		})
	}
	return products, nil
}

func decodeTransactions(raw json.RawMessage) ([]shop.Transaction, error) {
	var rows []map[string]any
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	transactions := make([]shop.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, shop.Transaction{
			ID:              asString(row["id"]),
			Date:            asTime(row["date"]),
			Items:           asItems(row["items"]),
			TotalAmount:     asFloat(row["totalAmount"]),
			PaymentMethod:   shop.PaymentMethod(asString(row["paymentMethod"])),
			CustomerName:    asString(row["customerName"]),
			CustomerAddress: asString(row["customerAddress"]),
			Notes:           asString(row["notes"]),
		})
	}
	return transactions, nil
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		// Sheet cells turn numeric-looking IDs into numbers.
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func asInt(v any) int {
	return int(asFloat(v))
}

func asTime(v any) time.Time {
	s := asString(v)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// asItems accepts either a real array or the JSON string the sheet stores in
// its items column.
func asItems(v any) []shop.TransactionItem {
	var raw []byte
	switch items := v.(type) {
	case string:
		if items == "" {
			return nil
		}
		raw = []byte(items)
	case []any:
		b, err := json.Marshal(items)
		if err != nil {
			return nil
		}
		raw = b
	default:
		return nil
	}

	var rows []map[string]any
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil
	}
	out := make([]shop.TransactionItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, shop.TransactionItem{
			ProductID:   asString(row["productId"]),
			ProductName: asString(row["productName"]),
			Quantity:    asInt(row["quantity"]),
			PriceAtSale: asFloat(row["priceAtSale"]),
		})
	}
	return out
}
