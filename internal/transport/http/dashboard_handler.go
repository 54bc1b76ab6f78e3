package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "salesboard/internal/errors"
	"salesboard/internal/services"
)

const (
	defaultRecordLimit = 100
	maxRecordLimit     = 1000
)

// DashboardHandler serves the dashboard JSON API with RFC 7807 errors
type DashboardHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/summary", h.GetSummary)
	r.Get("/region-revenue", h.GetRegionRevenue)
	r.Get("/category-revenue", h.GetCategoryRevenue)
	r.Get("/monthly-revenue", h.GetMonthlyRevenue)
	r.Get("/records", h.GetRecords)
	r.Get("/filters", h.GetFilters)

	return r
}

// DatasetRoutes returns the dataset management routes
func (h *DashboardHandler) DatasetRoutes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/reload", h.ReloadDataset)

	return r
}

// GetSummary handles GET /api/dashboard/summary
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	summary, err := h.service.Summary(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, summary)
}

// GetRegionRevenue handles GET /api/dashboard/region-revenue
func (h *DashboardHandler) GetRegionRevenue(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	buckets, err := h.service.RegionRevenue(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{"buckets": buckets})
}

// GetCategoryRevenue handles GET /api/dashboard/category-revenue
func (h *DashboardHandler) GetCategoryRevenue(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	buckets, err := h.service.CategoryRevenue(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{"buckets": buckets})
}

// GetMonthlyRevenue handles GET /api/dashboard/monthly-revenue
func (h *DashboardHandler) GetMonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	points, err := h.service.MonthlyRevenue(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{"points": points})
}

// GetRecords handles GET /api/dashboard/records with an optional limit
func (h *DashboardHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	limit, err := parseLimit(r, defaultRecordLimit, maxRecordLimit)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	records, total, err := h.service.Records(r.Context(), filter, limit)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"records": records,
		"total":   total,
		"limit":   limit,
	})
}

// GetFilters handles GET /api/dashboard/filters, returning the dataset
// metadata used to populate the filter controls.
func (h *DashboardHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	meta, err := h.service.Meta(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, meta)
}

// ReloadDataset handles POST /api/dataset/reload
func (h *DashboardHandler) ReloadDataset(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "dataset reload requested",
		slog.String("request_id", reqID))

	meta, err := h.service.Reload(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "dataset reload failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":  "reloaded",
		"dataset": meta,
	})
}

// handleServiceError maps service-level errors to API errors
func (h *DashboardHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrDatasetNotLoaded) {
		h.errorHandler.HandleError(w, r, apierrors.New(
			http.StatusServiceUnavailable,
			"DATASET_NOT_LOADED",
			"Dataset has not been loaded yet",
		))
		return
	}

	h.errorHandler.HandleError(w, r, err)
}
