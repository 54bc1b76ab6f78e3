package exporter

import (
	"fmt"
	"strconv"
	"time"

	"salesboard/internal/dataset"
)

// salesHeader is the column order of exported spreadsheets
var salesHeader = []string{"order_id", "date", "region", "category", "product", "quantity", "amount"}

// salesRow renders one record as spreadsheet cells
func salesRow(s dataset.Sale) []string {
	return []string{
		s.OrderID,
		s.Date.Format(dataset.DateFormat),
		s.Region,
		s.Category,
		s.Product,
		strconv.Itoa(s.Quantity),
		s.Amount.StringFixed(2),
	}
}

// ExportFilename returns a date-stamped export file name, e.g.
// Sales_Export_20240105.xlsx
func ExportFilename(ext string) string {
	return fmt.Sprintf("Sales_Export_%s.%s", time.Now().Format("20060102"), ext)
}
