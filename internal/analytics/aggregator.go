// Package analytics computes dashboard aggregates over the loaded sales
// table. All functions are pure: they take the full record set plus a Filter
// and recompute from scratch, so every user interaction is an idempotent
// projection of the immutable source table.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"salesboard/internal/dataset"
)

// MonthFormat is the layout for monthly series labels
const MonthFormat = "2006-01"

// Summary holds the headline KPIs for a filtered record set
type Summary struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	OrderCount   int             `json:"order_count"`
	AverageSale  decimal.Decimal `json:"average_sale"`
	TopProduct   string          `json:"top_product,omitempty"`
}

// Bucket is one bar of a categorical revenue chart
type Bucket struct {
	Label   string          `json:"label"`
	Revenue decimal.Decimal `json:"revenue"`
}

// MonthPoint is one point of the monthly revenue series
type MonthPoint struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Summarize computes the KPIs for the filtered record set. An empty filtered
// set yields zero values, not an error.
func Summarize(sales []dataset.Sale, f Filter) Summary {
	m := f.compile()

	total := decimal.Zero
	records := 0
	orders := make(map[string]struct{})
	productRevenue := make(map[string]decimal.Decimal)

	for _, s := range sales {
		if !m.matches(s) {
			continue
		}
		total = total.Add(s.Amount)
		records++
		if s.OrderID != "" {
			orders[s.OrderID] = struct{}{}
		}
		if s.Product != "" {
			productRevenue[s.Product] = productRevenue[s.Product].Add(s.Amount)
		}
	}

	// Distinct order IDs when the dataset carries them, raw record count
	// otherwise.
	count := records
	if len(orders) > 0 {
		count = len(orders)
	}

	summary := Summary{
		TotalRevenue: total,
		OrderCount:   count,
		AverageSale:  decimal.Zero,
		TopProduct:   topProduct(productRevenue),
	}

	if count > 0 {
		summary.AverageSale = total.DivRound(decimal.NewFromInt(int64(count)), 2)
	}

	return summary
}

// topProduct returns the product with the highest summed revenue.
// Ties break alphabetically for deterministic output.
func topProduct(revenue map[string]decimal.Decimal) string {
	best := ""
	for product, rev := range revenue {
		if best == "" {
			best = product
			continue
		}
		switch rev.Cmp(revenue[best]) {
		case 1:
			best = product
		case 0:
			if product < best {
				best = product
			}
		}
	}
	return best
}

// RevenueByRegion groups revenue by region, sorted by revenue descending
func RevenueByRegion(sales []dataset.Sale, f Filter) []Bucket {
	return revenueBy(sales, f, func(s dataset.Sale) string { return s.Region })
}

// RevenueByCategory groups revenue by category, sorted by revenue descending
func RevenueByCategory(sales []dataset.Sale, f Filter) []Bucket {
	return revenueBy(sales, f, func(s dataset.Sale) string { return s.Category })
}

// revenueBy buckets revenue by an arbitrary record dimension
func revenueBy(sales []dataset.Sale, f Filter, key func(dataset.Sale) string) []Bucket {
	m := f.compile()

	totals := make(map[string]decimal.Decimal)
	for _, s := range sales {
		if !m.matches(s) {
			continue
		}
		k := key(s)
		totals[k] = totals[k].Add(s.Amount)
	}

	buckets := make([]Bucket, 0, len(totals))
	for label, revenue := range totals {
		buckets = append(buckets, Bucket{Label: label, Revenue: revenue})
	}

	// Highest revenue first, matching the chart ordering of the dashboard
	sort.Slice(buckets, func(i, j int) bool {
		if c := buckets[i].Revenue.Cmp(buckets[j].Revenue); c != 0 {
			return c > 0
		}
		return buckets[i].Label < buckets[j].Label
	})

	return buckets
}

// RevenueByMonth groups revenue by calendar month, ordered chronologically
func RevenueByMonth(sales []dataset.Sale, f Filter) []MonthPoint {
	m := f.compile()

	totals := make(map[string]decimal.Decimal)
	for _, s := range sales {
		if !m.matches(s) {
			continue
		}
		month := s.Date.Format(MonthFormat)
		totals[month] = totals[month].Add(s.Amount)
	}

	points := make([]MonthPoint, 0, len(totals))
	for month, revenue := range totals {
		points = append(points, MonthPoint{Month: month, Revenue: revenue})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Month < points[j].Month })

	return points
}
