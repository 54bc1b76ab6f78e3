package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesboard/internal/dataset"
	apierrors "salesboard/internal/errors"
	"salesboard/internal/services"
)

func newExportRouter(mock *mockDashboardService) chi.Router {
	logger := testLogger()
	handler := NewExportHandler(mock, logger, apierrors.NewErrorHandler(logger, false))

	r := chi.NewRouter()
	r.Mount("/api/export", handler.Routes())
	return r
}

func TestExportHandler_Excel(t *testing.T) {
	mock := &mockDashboardService{
		exportData: []byte("fake-xlsx-bytes"),
		filename:   "Sales_Export_20240115.xlsx",
	}
	router := newExportRouter(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/export/excel?regions=West", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.Equal(t,
		`attachment; filename="Sales_Export_20240115.xlsx"`,
		rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "fake-xlsx-bytes", rec.Body.String())
	assert.Equal(t, []string{"West"}, mock.lastFilter.Regions)
}

func TestExportHandler_CSV(t *testing.T) {
	mock := &mockDashboardService{
		exportData: []byte("order_id,date\n"),
		filename:   "Sales_Export_20240115.csv",
	}
	router := newExportRouter(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/export/csv", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")
}

func TestExportHandler_InvalidFilter(t *testing.T) {
	router := newExportRouter(&mockDashboardService{})

	req := httptest.NewRequest(http.MethodGet, "/api/export/excel?from=not-a-date", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportHandler_DatasetNotLoaded(t *testing.T) {
	router := newExportRouter(&mockDashboardService{err: services.ErrDatasetNotLoaded})

	req := httptest.NewRequest(http.MethodGet, "/api/export/excel", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type stubHealthService struct {
	status services.HealthStatus
}

func (s *stubHealthService) Check(ctx context.Context) services.HealthStatus {
	return s.status
}

func TestHealthHandler_GetHealth(t *testing.T) {
	stub := &stubHealthService{
		status: services.HealthStatus{
			Status:    "ok",
			Version:   "test",
			Timestamp: time.Now().UTC(),
			Dataset:   &dataset.Meta{Rows: 3},
		},
	}
	handler := NewHealthHandler(stub, testLogger())

	r := chi.NewRouter()
	r.Mount("/api/healthz", handler.Routes())

	req := httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got services.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "ok", got.Status)
	require.NotNil(t, got.Dataset)
	assert.Equal(t, 3, got.Dataset.Rows)
}
