package dataset

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the calendar date layout used across the dataset
const DateFormat = "2006-01-02"

// Sale represents a single sales transaction loaded from the dataset.
// Records are immutable once loaded; filtered views are derived projections.
type Sale struct {
	OrderID  string          `json:"order_id,omitempty"`
	Date     time.Time       `json:"date"`
	Region   string          `json:"region"`
	Category string          `json:"category"`
	Product  string          `json:"product,omitempty"`
	Quantity int             `json:"quantity,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
}

// Column identifiers used for header mapping
const (
	ColDate     = "date"
	ColRegion   = "region"
	ColCategory = "category"
	ColAmount   = "amount"
	ColOrderID  = "order_id"
	ColProduct  = "product"
	ColQuantity = "quantity"
)

// headerSynonyms maps accepted source column names to canonical columns.
// The original export names its columns order_date/total_sales.
var headerSynonyms = map[string]string{
	"date":        ColDate,
	"order_date":  ColDate,
	"region":      ColRegion,
	"category":    ColCategory,
	"amount":      ColAmount,
	"total_sales": ColAmount,
	"sales":       ColAmount,
	"order_id":    ColOrderID,
	"product":     ColProduct,
	"quantity":    ColQuantity,
}

// requiredColumns must all be present in the header row
var requiredColumns = []string{ColDate, ColRegion, ColCategory, ColAmount}
