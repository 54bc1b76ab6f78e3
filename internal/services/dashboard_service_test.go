package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salesboard/internal/analytics"
	"salesboard/internal/dataset"
	"salesboard/internal/exporter"
)

const testCSV = `order_id,date,region,category,product,quantity,amount
ORD-001,2024-01-05,West,Electronics,Laptop,1,100.00
ORD-002,2024-02-10,East,Apparel,Jacket,2,50.00
ORD-003,2024-02-12,West,Apparel,Jacket,1,30.00
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T) (*DashboardService, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0644))

	logger := testLogger()
	store := dataset.NewStore(dataset.NewLoader(logger), path, logger)
	require.NoError(t, store.Load(context.Background()))

	svc := NewDashboardService(
		store,
		exporter.NewExcelWriter(logger),
		exporter.NewCSVWriter(logger),
		nil,
		logger,
	)
	return svc, path
}

func TestDashboardService_Summary(t *testing.T) {
	svc, _ := newTestService(t)

	summary, err := svc.Summary(context.Background(), analytics.Filter{})
	require.NoError(t, err)

	assert.Equal(t, "180", summary.TotalRevenue.String())
	assert.Equal(t, 3, summary.OrderCount)
	assert.Equal(t, "60", summary.AverageSale.String())
	assert.Equal(t, "Laptop", summary.TopProduct)
}

func TestDashboardService_ChartGroupings(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	regions, err := svc.RegionRevenue(ctx, analytics.Filter{})
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, "West", regions[0].Label)
	assert.Equal(t, "130", regions[0].Revenue.String())

	categories, err := svc.CategoryRevenue(ctx, analytics.Filter{})
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Electronics", categories[0].Label)

	months, err := svc.MonthlyRevenue(ctx, analytics.Filter{})
	require.NoError(t, err)
	require.Len(t, months, 2)
	assert.Equal(t, "2024-01", months[0].Month)
	assert.Equal(t, "2024-02", months[1].Month)
}

func TestDashboardService_RecordsLimit(t *testing.T) {
	svc, _ := newTestService(t)

	records, total, err := svc.Records(context.Background(), analytics.Filter{}, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, records, 2)
}

func TestDashboardService_ExportExcel_RowCount(t *testing.T) {
	svc, _ := newTestService(t)

	filter := analytics.Filter{Regions: []string{"West"}}
	data, filename, err := svc.ExportExcel(context.Background(), filter)
	require.NoError(t, err)
	assert.Regexp(t, `^Sales_Export_\d{8}\.xlsx$`, filename)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exporter.SheetName)
	require.NoError(t, err)

	records, _, err := svc.Records(context.Background(), filter, 0)
	require.NoError(t, err)
	assert.Len(t, rows, len(records)+1)
}

func TestDashboardService_ExportCSV(t *testing.T) {
	svc, _ := newTestService(t)

	data, filename, err := svc.ExportCSV(context.Background(), analytics.Filter{})
	require.NoError(t, err)
	assert.Regexp(t, `^Sales_Export_\d{8}\.csv$`, filename)
	assert.Contains(t, string(data), "ORD-001")
}

func TestDashboardService_Reload(t *testing.T) {
	svc, path := newTestService(t)

	extended := testCSV + "ORD-004,2024-03-01,South,Grocery,Rice,1,20.00\n"
	require.NoError(t, os.WriteFile(path, []byte(extended), 0644))

	meta, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, meta.Rows)
}

func TestDashboardService_NotLoaded(t *testing.T) {
	logger := testLogger()
	store := dataset.NewStore(dataset.NewLoader(logger), filepath.Join(t.TempDir(), "missing.csv"), logger)

	svc := NewDashboardService(store, exporter.NewExcelWriter(logger), exporter.NewCSVWriter(logger), nil, logger)

	_, err := svc.Summary(context.Background(), analytics.Filter{})
	assert.ErrorIs(t, err, ErrDatasetNotLoaded)

	_, _, err = svc.ExportExcel(context.Background(), analytics.Filter{})
	assert.ErrorIs(t, err, ErrDatasetNotLoaded)

	_, err = svc.Meta(context.Background())
	assert.ErrorIs(t, err, ErrDatasetNotLoaded)
}

func TestHealthService_Check(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0644))

	logger := testLogger()
	store := dataset.NewStore(dataset.NewLoader(logger), path, logger)

	health := NewHealthService("test", store, logger)

	// Before the dataset loads the service reports degraded
	status := health.Check(context.Background())
	assert.Equal(t, "degraded", status.Status)
	assert.Nil(t, status.Dataset)

	require.NoError(t, store.Load(context.Background()))

	status = health.Check(context.Background())
	assert.Equal(t, "ok", status.Status)
	require.NotNil(t, status.Dataset)
	assert.Equal(t, 3, status.Dataset.Rows)
}
