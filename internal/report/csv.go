package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golfpos/internal/shop"
)

// Free-text fields are always quoted with doubled inner quotes, matching the
// exact format the importing spreadsheet expects. encoding/csv only quotes
// when forced to, which would change the file byte-for-byte, so the escaping
// is done here.
func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

var inventoryHeaders = []string{
	"ID", "SKU", "Product Name", "Category", "Cost Price (RM)",
	"Selling Price (RM)", "Quantity", "Total Asset Value (RM)",
	"Date Added", "Days in Stock", "Risk Percentage", "Status",
}

// InventoryCSV renders the inventory snapshot with the computed age, risk
// and status columns.
func InventoryCSV(products []shop.Product, threshold int, now time.Time) string {
	lines := make([]string, 0, len(products)+1)
	lines = append(lines, strings.Join(inventoryHeaders, ","))
	for _, p := range products {
		days := DaysInStock(p.DateAdded, now)
		status := "Active"
		if days > threshold {
			status = "Obsolete Risk"
		}
		risk := RiskPercent(days, threshold)
		lines = append(lines, strings.Join([]string{
			p.ID,
			csvQuote(p.SKU),
			csvQuote(p.Name),
			p.Category,
			strconv.FormatFloat(p.CostPrice, 'f', 2, 64),
			strconv.FormatFloat(p.SellingPrice, 'f', 2, 64),
			strconv.Itoa(p.Quantity),
			strconv.FormatFloat(p.CostPrice*float64(p.Quantity), 'f', 2, 64),
			p.DateAdded.Format("2006-01-02"),
			strconv.Itoa(days),
			strconv.FormatFloat(risk, 'f', 0, 64) + "%",
			status,
		}, ","))
	}
	return strings.Join(lines, "\n")
}

var salesHeaders = []string{
	"Date", "Transaction ID", "Customer Name", "Payment Method",
	"Item Name", "Quantity", "Unit Price (RM)", "Line Total (RM)",
}

// SalesCSV renders the sales log exploded one row per line item, the layout
// pivot tables want.
func SalesCSV(transactions []shop.Transaction) string {
	lines := []string{strings.Join(salesHeaders, ",")}
	for _, t := range transactions {
		customer := t.CustomerName
		if customer == "" {
			customer = "Walk-in"
		}
		for _, item := range t.Items {
			lines = append(lines, strings.Join([]string{
				t.Date.Format("2006-01-02"),
				t.ID,
				csvQuote(customer),
				string(t.PaymentMethod),
				csvQuote(item.ProductName),
				strconv.Itoa(item.Quantity),
				strconv.FormatFloat(item.PriceAtSale, 'f', 2, 64),
				strconv.FormatFloat(item.PriceAtSale*float64(item.Quantity), 'f', 2, 64),
			}, ","))
		}
	}
	return strings.Join(lines, "\n")
}

// InventoryCSVFilename is the dated download name for the inventory export.
func InventoryCSVFilename(now time.Time) string {
	return fmt.Sprintf("LKT_Inventory_Report_%s.csv", now.Format("2006-01-02"))
}

// SalesCSVFilename is the dated download name for the sales export.
func SalesCSVFilename(now time.Time) string {
	return fmt.Sprintf("LKT_Sales_Report_%s.csv", now.Format("2006-01-02"))
}
