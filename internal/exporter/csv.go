package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"salesboard/internal/dataset"
	apperrors "salesboard/internal/errors"
)

// CSVWriter produces CSV exports of filtered sales records
type CSVWriter struct {
	logger *slog.Logger

	// BOMPrefix adds a UTF-8 BOM so Excel opens the file correctly
	BOMPrefix bool
}

// NewCSVWriter creates a new CSV writer
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{
		logger:    logger.With(slog.String("component", "csv_exporter")),
		BOMPrefix: true,
	}
}

// Write renders the records as in-memory CSV data
func (w *CSVWriter) Write(records []dataset.Sale) ([]byte, error) {
	var buf bytes.Buffer

	if w.BOMPrefix {
		buf.Write([]byte{0xEF, 0xBB, 0xBF})
	}

	writer := csv.NewWriter(&buf)
	if err := writer.Write(salesHeader); err != nil {
		return nil, apperrors.NewExportError("failed to write CSV header", err)
	}

	for i, record := range records {
		if err := writer.Write(salesRow(record)); err != nil {
			return nil, apperrors.NewExportError(fmt.Sprintf("failed to write record %d", i), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, apperrors.NewExportError("failed to flush CSV data", err)
	}

	w.logger.Info("csv export generated",
		slog.Int("records", len(records)),
		slog.Int("bytes", buf.Len()))

	return buf.Bytes(), nil
}

// WriteFile renders the records into a CSV file on disk
func (w *CSVWriter) WriteFile(path string, records []dataset.Sale) error {
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
