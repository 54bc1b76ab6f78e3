package services

import (
	"context"
	"log/slog"
	"time"

	"salesboard/internal/dataset"
)

// HealthStatus is the payload of the health endpoint
type HealthStatus struct {
	Status    string       `json:"status"`
	Version   string       `json:"version"`
	Uptime    string       `json:"uptime"`
	Timestamp time.Time    `json:"timestamp"`
	Dataset   *dataset.Meta `json:"dataset,omitempty"`
}

// HealthService reports service liveness and dataset readiness
type HealthService struct {
	version   string
	startedAt time.Time
	store     *dataset.Store
	logger    *slog.Logger
}

// NewHealthService creates a health service
func NewHealthService(version string, store *dataset.Store, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		startedAt: time.Now(),
		store:     store,
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// Check returns the current health status. The service is degraded, not
// down, when the dataset failed to load: the API still answers, with the
// load failure surfaced per request.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Version:   s.version,
		Uptime:    time.Since(s.startedAt).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
	}

	if s.store != nil && s.store.Loaded() {
		meta := s.store.Meta()
		status.Dataset = &meta
	} else {
		status.Status = "degraded"
	}

	return status
}
