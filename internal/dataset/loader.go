package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	apperrors "salesboard/internal/errors"
)

// Loader reads a tabular sales dataset into memory
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new dataset loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With(slog.String("component", "dataset_loader"))}
}

// LoadResult holds the parsed records plus load diagnostics
type LoadResult struct {
	Sales   []Sale
	Skipped int
	Source  string
}

// Load reads the dataset at path. CSV and XLSX sources are supported,
// selected by file extension.
func (l *Loader) Load(ctx context.Context, path string) (*LoadResult, error) {
	start := time.Now()

	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSVRows(path)
	case ".xlsx":
		rows, err = readExcelRows(path)
	default:
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("unsupported dataset format: %s", filepath.Ext(path)), nil)
	}
	if err != nil {
		return nil, err
	}

	result, err := l.parseRows(ctx, rows, path)
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "dataset loaded",
		slog.String("source", path),
		slog.Int("rows", len(result.Sales)),
		slog.Int("skipped", result.Skipped),
		slog.Duration("elapsed", time.Since(start)))

	return result, nil
}

// readCSVRows reads all rows from a CSV file
func readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError(
				fmt.Sprintf("dataset file not found: %s", path), err)
		}
		return nil, apperrors.NewStorageError("failed to open dataset file", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("failed to read CSV row", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// readExcelRows reads the first sheet that carries the expected header row
func readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError(
				fmt.Sprintf("dataset file not found: %s", path), err)
		}
		return nil, apperrors.NewParsingError("failed to open Excel file", err)
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) == 0 {
			continue
		}
		if _, err := mapHeader(rows[0]); err == nil {
			return rows, nil
		}
	}

	return nil, apperrors.NewParsingError("no sheet with sales columns found in workbook", nil)
}

// mapHeader resolves the header row into canonical column indexes.
// Returns a DataFormatError when a required column is missing.
func mapHeader(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if canonical, ok := headerSynonyms[key]; ok {
			if _, dup := cols[canonical]; !dup {
				cols[canonical] = i
			}
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := cols[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")), nil)
	}

	return cols, nil
}

// parseRows converts raw rows into Sale records. Rows whose critical cells do
// not parse are dropped and counted, matching the original pipeline's cleanup.
func (l *Loader) parseRows(ctx context.Context, rows [][]string, source string) (*LoadResult, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewParsingError("dataset is empty", nil)
	}

	cols, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	result := &LoadResult{
		Sales:  make([]Sale, 0, len(rows)-1),
		Source: source,
	}

	for i, row := range rows[1:] {
		sale, err := parseRow(row, cols)
		if err != nil {
			result.Skipped++
			l.logger.DebugContext(ctx, "dropping unparseable row",
				slog.Int("row", i+2),
				slog.String("error", err.Error()))
			continue
		}
		result.Sales = append(result.Sales, sale)
	}

	if len(result.Sales) == 0 {
		return nil, apperrors.NewParsingError("dataset contains no valid rows", nil).
			WithContext("skipped", result.Skipped)
	}

	return result, nil
}

// parseRow parses a single data row against the resolved column indexes
func parseRow(row []string, cols map[string]int) (Sale, error) {
	cell := func(col string) string {
		idx, ok := cols[col]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	date, err := time.Parse(DateFormat, cell(ColDate))
	if err != nil {
		return Sale{}, fmt.Errorf("invalid date %q: %w", cell(ColDate), err)
	}

	region := cell(ColRegion)
	if region == "" {
		return Sale{}, fmt.Errorf("empty region")
	}

	category := cell(ColCategory)
	if category == "" {
		return Sale{}, fmt.Errorf("empty category")
	}

	amount, err := parseAmount(cell(ColAmount))
	if err != nil {
		return Sale{}, err
	}

	sale := Sale{
		OrderID:  cell(ColOrderID),
		Date:     date,
		Region:   region,
		Category: category,
		Product:  cell(ColProduct),
		Amount:   amount,
	}

	if q := cell(ColQuantity); q != "" {
		qty, err := strconv.Atoi(q)
		if err != nil {
			return Sale{}, fmt.Errorf("invalid quantity %q: %w", q, err)
		}
		sale.Quantity = qty
	}

	return sale, nil
}

// parseAmount cleans a currency cell and parses it as a decimal.
// Currency symbols and thousands separators are stripped, mirroring the
// original cleanup of values like "Ksh 1,234.50".
func parseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)

	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount %q", raw)
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if amount.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("negative amount %q", raw)
	}

	return amount, nil
}
