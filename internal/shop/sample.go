package shop

import "time"

func mustDate(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// SampleProducts seeds the store for a fresh session before the first remote
// snapshot arrives.
func SampleProducts() []Product {
	return []Product{
		{
			ID: "1", SKU: "DRV-TM-SIM2", Name: "TaylorMade SIM2 Driver",
			Category: "Clubs", CostPrice: 300, SellingPrice: 529, Quantity: 2,
			DateAdded: mustDate("2023-10-15T00:00:00Z"),
		},
		{
			ID: "2", SKU: "IRON-MZ-PRO", Name: "Mizuno Pro 223 Irons Set",
			Category: "Clubs", CostPrice: 900, SellingPrice: 1399, Quantity: 1,
			DateAdded: mustDate("2024-01-20T00:00:00Z"),
		},
		{
			ID: "3", SKU: "BALL-PROV1", Name: "Titleist Pro V1 (Dozen)",
			Category: "Balls", CostPrice: 35, SellingPrice: 55, Quantity: 24,
			DateAdded: mustDate("2024-05-01T00:00:00Z"),
		},
		{
			ID: "4", SKU: "GLV-FJ-ST", Name: "FootJoy StaSof Glove",
			Category: "Accessories", CostPrice: 12, SellingPrice: 25, Quantity: 15,
			DateAdded: mustDate("2024-04-10T00:00:00Z"),
		},
		{
			ID: "5", SKU: "PUT-SC-NP2", Name: "Scotty Cameron Newport 2",
			Category: "Clubs", CostPrice: 280, SellingPrice: 450, Quantity: 3,
			DateAdded: mustDate("2023-11-01T00:00:00Z"),
		},
	}
}

// SampleTransactions seeds the sales log for a fresh session.
func SampleTransactions() []Transaction {
	return []Transaction{
		{
			ID:   "101",
			Date: mustDate("2024-05-10T14:30:00Z"),
			Items: []TransactionItem{
				{ProductID: "3", ProductName: "Titleist Pro V1 (Dozen)", Quantity: 2, PriceAtSale: 55},
				{ProductID: "4", ProductName: "FootJoy StaSof Glove", Quantity: 1, PriceAtSale: 25},
			},
			TotalAmount:   135,
			PaymentMethod: PaymentCash,
		},
		{
			ID:   "102",
			Date: mustDate("2024-05-11T10:15:00Z"),
			Items: []TransactionItem{
				{ProductID: "1", ProductName: "TaylorMade SIM2 Driver", Quantity: 1, PriceAtSale: 500},
			},
			TotalAmount:   500,
			PaymentMethod: PaymentBankTransfer,
		},
	}
}
