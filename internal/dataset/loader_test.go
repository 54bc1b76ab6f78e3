package dataset

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "salesboard/internal/errors"
)

func testLoader() *Loader {
	return NewLoader(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_CSV(t *testing.T) {
	path := writeCSV(t, `order_id,order_date,region,category,product,quantity,total_sales
ORD-001,2024-01-05,West,Electronics,Laptop,1,100.00
ORD-002,2024-02-10,East,Apparel,Jacket,2,50
`)

	result, err := testLoader().Load(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, result.Sales, 2)
	assert.Equal(t, 0, result.Skipped)

	first := result.Sales[0]
	assert.Equal(t, "ORD-001", first.OrderID)
	assert.Equal(t, "2024-01-05", first.Date.Format(DateFormat))
	assert.Equal(t, "West", first.Region)
	assert.Equal(t, "Electronics", first.Category)
	assert.Equal(t, "Laptop", first.Product)
	assert.Equal(t, 1, first.Quantity)
	assert.Equal(t, "100", first.Amount.String())
}

func TestLoad_CSV_CanonicalHeaders(t *testing.T) {
	path := writeCSV(t, `date,region,category,amount
2024-03-01,North,Grocery,12.50
`)

	result, err := testLoader().Load(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, result.Sales, 1)
	assert.Empty(t, result.Sales[0].OrderID)
	assert.Equal(t, "12.5", result.Sales[0].Amount.String())
}

func TestLoad_CSV_CurrencyCleaning(t *testing.T) {
	path := writeCSV(t, `date,region,category,amount
2024-01-05, West ,Electronics,"Ksh 1,234.50"
`)

	result, err := testLoader().Load(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, result.Sales, 1)
	assert.Equal(t, "West", result.Sales[0].Region)
	assert.Equal(t, "1234.5", result.Sales[0].Amount.String())
}

func TestLoad_CSV_DropsBadRows(t *testing.T) {
	path := writeCSV(t, `date,region,category,amount
2024-01-05,West,Electronics,100
not-a-date,West,Electronics,100
2024-01-06,,Electronics,100
2024-01-07,East,Apparel,not-a-number
2024-01-08,East,Apparel,50
`)

	result, err := testLoader().Load(context.Background(), path)
	require.NoError(t, err)

	assert.Len(t, result.Sales, 2)
	assert.Equal(t, 3, result.Skipped)
}

func TestLoad_CSV_MissingColumns(t *testing.T) {
	path := writeCSV(t, `date,region,amount
2024-01-05,West,100
`)

	_, err := testLoader().Load(context.Background(), path)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
	assert.Contains(t, appErr.Message, "category")
}

func TestLoad_CSV_NoValidRows(t *testing.T) {
	path := writeCSV(t, `date,region,category,amount
nope,West,Electronics,100
`)

	_, err := testLoader().Load(context.Background(), path)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := testLoader().Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeNotFound, appErr.Type)
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	_, err := testLoader().Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported dataset format")
}

func TestLoad_Excel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"order_date", "region", "category", "total_sales"},
		{"2024-01-05", "West", "Electronics", "100"},
		{"2024-02-10", "East", "Apparel", "50"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	result, err := testLoader().Load(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, result.Sales, 2)
	assert.Equal(t, "West", result.Sales[0].Region)
	assert.Equal(t, "50", result.Sales[1].Amount.String())
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"100.00", "100", false},
		{"Ksh 2,500.75", "2500.75", false},
		{"$13", "13", false},
		{"", "", true},
		{"abc", "", true},
		{"-42.50", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseAmount(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
