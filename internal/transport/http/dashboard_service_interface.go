package http

import (
	"context"

	"salesboard/internal/analytics"
	"salesboard/internal/dataset"
	"salesboard/internal/services"
)

// DashboardServiceInterface defines the contract the dashboard handlers
// depend on. Implemented by services.DashboardService; test doubles
// implement it in handler tests.
type DashboardServiceInterface interface {
	Summary(ctx context.Context, f analytics.Filter) (analytics.Summary, error)
	RegionRevenue(ctx context.Context, f analytics.Filter) ([]analytics.Bucket, error)
	CategoryRevenue(ctx context.Context, f analytics.Filter) ([]analytics.Bucket, error)
	MonthlyRevenue(ctx context.Context, f analytics.Filter) ([]analytics.MonthPoint, error)
	Records(ctx context.Context, f analytics.Filter, limit int) ([]dataset.Sale, int, error)
	Meta(ctx context.Context) (dataset.Meta, error)
	ExportExcel(ctx context.Context, f analytics.Filter) ([]byte, string, error)
	ExportCSV(ctx context.Context, f analytics.Filter) ([]byte, string, error)
	Reload(ctx context.Context) (dataset.Meta, error)
}

// HealthServiceInterface defines the contract for the health handler
type HealthServiceInterface interface {
	Check(ctx context.Context) services.HealthStatus
}
