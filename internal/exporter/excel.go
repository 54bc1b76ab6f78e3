package exporter

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"salesboard/internal/dataset"
	apperrors "salesboard/internal/errors"
)

// SheetName is the worksheet holding the exported records
const SheetName = "Filtered_Sales_Data"

// ExcelWriter produces XLSX exports of filtered sales records
type ExcelWriter struct {
	logger *slog.Logger
}

// NewExcelWriter creates a new Excel writer
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger.With(slog.String("component", "excel_exporter"))}
}

// Write renders the records into an in-memory XLSX workbook.
// The sheet holds one header row plus one row per record.
func (w *ExcelWriter) Write(records []dataset.Sale) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, apperrors.NewExportError("failed to name export sheet", err)
	}

	header := make([]interface{}, len(salesHeader))
	for i, h := range salesHeader {
		header[i] = h
	}
	if err := w.setRow(f, 1, header); err != nil {
		return nil, err
	}

	for i, record := range records {
		row := []interface{}{
			record.OrderID,
			record.Date.Format(dataset.DateFormat),
			record.Region,
			record.Category,
			record.Product,
			record.Quantity,
			record.Amount.InexactFloat64(),
		}
		if err := w.setRow(f, i+2, row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, apperrors.NewExportError("failed to serialize workbook", err)
	}

	w.logger.Info("excel export generated",
		slog.Int("records", len(records)),
		slog.Int("bytes", buf.Len()))

	return buf.Bytes(), nil
}

// WriteFile renders the records into an XLSX file on disk
func (w *ExcelWriter) WriteFile(path string, records []dataset.Sale) error {
	data, err := w.Write(records)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create export directory", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write %s", path), err)
	}

	return nil
}

func (w *ExcelWriter) setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return apperrors.NewExportError("failed to compute cell coordinates", err)
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return apperrors.NewExportError(fmt.Sprintf("failed to write row %d", row), err)
	}
	return nil
}
