package services

import (
	"context"
	"log/slog"

	"salesboard/internal/analytics"
	"salesboard/internal/dataset"
	"salesboard/internal/exporter"
	"salesboard/internal/websocket"
)

// DashboardService serves every dashboard interaction: KPIs, chart
// groupings, record previews, exports and dataset reloads. Each call is a
// synchronous recomputation over the store's current snapshot.
type DashboardService struct {
	store  *dataset.Store
	excel  *exporter.ExcelWriter
	csv    *exporter.CSVWriter
	hub    *websocket.Hub
	logger *slog.Logger
}

// NewDashboardService creates a dashboard service with injected dependencies.
// The hub may be nil when running without live refresh (CLI mode).
func NewDashboardService(
	store *dataset.Store,
	excel *exporter.ExcelWriter,
	csv *exporter.CSVWriter,
	hub *websocket.Hub,
	logger *slog.Logger,
) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		store:  store,
		excel:  excel,
		csv:    csv,
		hub:    hub,
		logger: logger.With(slog.String("component", "dashboard_service")),
	}
}

// Summary computes the KPI block for the given filter
func (s *DashboardService) Summary(ctx context.Context, f analytics.Filter) (analytics.Summary, error) {
	if !s.store.Loaded() {
		return analytics.Summary{}, ErrDatasetNotLoaded
	}
	return analytics.Summarize(s.store.Snapshot(), f), nil
}

// RegionRevenue computes the regional revenue breakdown
func (s *DashboardService) RegionRevenue(ctx context.Context, f analytics.Filter) ([]analytics.Bucket, error) {
	if !s.store.Loaded() {
		return nil, ErrDatasetNotLoaded
	}
	return analytics.RevenueByRegion(s.store.Snapshot(), f), nil
}

// CategoryRevenue computes the category revenue breakdown
func (s *DashboardService) CategoryRevenue(ctx context.Context, f analytics.Filter) ([]analytics.Bucket, error) {
	if !s.store.Loaded() {
		return nil, ErrDatasetNotLoaded
	}
	return analytics.RevenueByCategory(s.store.Snapshot(), f), nil
}

// MonthlyRevenue computes the chronological monthly revenue series
func (s *DashboardService) MonthlyRevenue(ctx context.Context, f analytics.Filter) ([]analytics.MonthPoint, error) {
	if !s.store.Loaded() {
		return nil, ErrDatasetNotLoaded
	}
	return analytics.RevenueByMonth(s.store.Snapshot(), f), nil
}

// Records returns the filtered record set, truncated to limit, plus the
// total match count before truncation.
func (s *DashboardService) Records(ctx context.Context, f analytics.Filter, limit int) ([]dataset.Sale, int, error) {
	if !s.store.Loaded() {
		return nil, 0, ErrDatasetNotLoaded
	}

	records := analytics.FilterRecords(s.store.Snapshot(), f)
	total := len(records)
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	return records, total, nil
}

// Meta returns the dataset metadata used to populate the filter controls
func (s *DashboardService) Meta(ctx context.Context) (dataset.Meta, error) {
	if !s.store.Loaded() {
		return dataset.Meta{}, ErrDatasetNotLoaded
	}
	return s.store.Meta(), nil
}

// ExportExcel renders the filtered records as an XLSX download
func (s *DashboardService) ExportExcel(ctx context.Context, f analytics.Filter) ([]byte, string, error) {
	if !s.store.Loaded() {
		return nil, "", ErrDatasetNotLoaded
	}

	records := analytics.FilterRecords(s.store.Snapshot(), f)
	data, err := s.excel.Write(records)
	if err != nil {
		return nil, "", err
	}

	s.logger.InfoContext(ctx, "excel export ready", slog.Int("records", len(records)))
	return data, exporter.ExportFilename("xlsx"), nil
}

// ExportCSV renders the filtered records as a CSV download
func (s *DashboardService) ExportCSV(ctx context.Context, f analytics.Filter) ([]byte, string, error) {
	if !s.store.Loaded() {
		return nil, "", ErrDatasetNotLoaded
	}

	records := analytics.FilterRecords(s.store.Snapshot(), f)
	data, err := s.csv.Write(records)
	if err != nil {
		return nil, "", err
	}

	s.logger.InfoContext(ctx, "csv export ready", slog.Int("records", len(records)))
	return data, exporter.ExportFilename("csv"), nil
}

// Reload re-reads the dataset file and notifies connected dashboards
func (s *DashboardService) Reload(ctx context.Context) (dataset.Meta, error) {
	if err := s.store.Load(ctx); err != nil {
		return dataset.Meta{}, err
	}

	meta := s.store.Meta()
	if s.hub != nil {
		s.hub.Broadcast(websocket.TypeDatasetReloaded, map[string]interface{}{
			"rows":      meta.Rows,
			"loaded_at": meta.LoadedAt,
		})
	}

	s.logger.InfoContext(ctx, "dataset reloaded", slog.Int("rows", meta.Rows))
	return meta, nil
}
