// Package report holds the pure derivations behind the dashboard, reports
// and inventory views. Nothing here mutates state.
package report

import (
	"math"
	"sort"
	"strings"
	"time"

	"golfpos/internal/shop"
)

// DefaultObsolescenceThreshold is the age in days past which stock counts as
// obsolete. The inventory view lets the user adjust it.
const DefaultObsolescenceThreshold = 120

// AgeBucket classifies stock by days on the shelf.
type AgeBucket string

const (
	BucketFresh    AgeBucket = "FRESH"
	BucketAging    AgeBucket = "AGING"
	BucketObsolete AgeBucket = "OBSOLETE"
)

// DaysInStock is the whole-day age of a product, floored.
func DaysInStock(dateAdded, now time.Time) int {
	if dateAdded.IsZero() {
		return 0
	}
	return int(now.Sub(dateAdded) / (24 * time.Hour))
}

// Bucket applies the dashboard's fixed 90/120 split. Both boundaries are
// exclusive: age 90 is still fresh, age 120 is still aging.
func Bucket(ageDays int) AgeBucket {
	switch {
	case ageDays > DefaultObsolescenceThreshold:
		return BucketObsolete
	case ageDays > 90:
		return BucketAging
	default:
		return BucketFresh
	}
}

// RiskPercent scores a product against a user-adjustable threshold,
// capped at 100.
func RiskPercent(ageDays, threshold int) float64 {
	if threshold < 1 {
		threshold = 1
	}
	return math.Min(100, float64(ageDays)/float64(threshold)*100)
}

// RiskLabel names the risk band the inventory table shows next to the bar.
func RiskLabel(riskPercent float64) string {
	switch {
	case riskPercent >= 100:
		return "Obsolete"
	case riskPercent > 50:
		return "Aging"
	default:
		return "Fresh"
	}
}

// InventoryValuation is the cost basis of everything on hand.
func InventoryValuation(products []shop.Product) float64 {
	var total float64
	for _, p := range products {
		total += p.CostPrice * float64(p.Quantity)
	}
	return total
}

// Revenue sums the stored transaction totals. Totals are taken as recorded
// at checkout, never recomputed from line items.
func Revenue(transactions []shop.Transaction) float64 {
	var total float64
	for _, t := range transactions {
		total += t.TotalAmount
	}
	return total
}

// CategorySlice is one wedge of the category chart.
type CategorySlice struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// CategoryDistribution sums on-hand units per category, largest first.
// Products with zero or negative quantity are excluded.
func CategoryDistribution(products []shop.Product) []CategorySlice {
	byName := map[string]int{}
	for _, p := range products {
		if p.Quantity <= 0 {
			continue
		}
		byName[p.Category] += p.Quantity
	}
	slices := make([]CategorySlice, 0, len(byName))
	for name, qty := range byName {
		slices = append(slices, CategorySlice{Name: name, Quantity: qty})
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Quantity != slices[j].Quantity {
			return slices[i].Quantity > slices[j].Quantity
		}
		return slices[i].Name < slices[j].Name
	})
	return slices
}

// TotalUnits is the unit count the legend percentages are computed against.
func TotalUnits(products []shop.Product) int {
	var total int
	for _, p := range products {
		total += p.Quantity
	}
	return total
}

// LegendPercent rounds a slice's share of totalUnits to a whole percent.
// The rounded shares can fall short of 100 but never exceed it, because
// every share is computed against the same fixed total.
func LegendPercent(quantity, totalUnits int) int {
	if totalUnits <= 0 {
		return 0
	}
	return int(math.Round(float64(quantity) / float64(totalUnits) * 100))
}

// ObsolescenceBuckets groups on-hand units by age band for the dashboard
// chart. Products with no usable date or no stock are skipped.
func ObsolescenceBuckets(products []shop.Product, now time.Time) (fresh, aging, obsolete int) {
	for _, p := range products {
		if p.DateAdded.IsZero() || p.Quantity <= 0 {
			continue
		}
		switch Bucket(DaysInStock(p.DateAdded, now)) {
		case BucketObsolete:
			obsolete += p.Quantity
		case BucketAging:
			aging += p.Quantity
		default:
			fresh += p.Quantity
		}
	}
	return fresh, aging, obsolete
}

// ObsoleteCount counts products older than the threshold, the dashboard's
// "obsolescence risk" KPI.
func ObsoleteCount(products []shop.Product, now time.Time, threshold int) int {
	var count int
	for _, p := range products {
		if p.DateAdded.IsZero() {
			continue
		}
		if DaysInStock(p.DateAdded, now) > threshold {
			count++
		}
	}
	return count
}

// LowStock flags products the inventory table highlights in red.
func LowStock(p shop.Product) bool {
	return p.Quantity < 3
}

// AvailableCategories is the default set merged with whatever categories
// are already in use, sorted.
func AvailableCategories(products []shop.Product) []string {
	set := map[string]struct{}{}
	for _, c := range shop.DefaultCategories {
		set[c] = struct{}{}
	}
	for _, p := range products {
		if p.Category != "" {
			set[p.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// FilterProducts matches name or SKU, case-insensitive.
func FilterProducts(products []shop.Product, query string) []shop.Product {
	if query == "" {
		return products
	}
	q := strings.ToLower(query)
	out := make([]shop.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.SKU), q) {
			out = append(out, p)
		}
	}
	return out
}
