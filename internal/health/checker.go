// Package health aggregates the readiness of the service's dependencies into
// a single report. The database is authoritative for signups and the Brevo
// connection only affects email delivery, so a sync outage degrades the
// report instead of failing it.
package health

import (
	"context"
	"log/slog"
	"time"

	"github.com/lavoo/waitlist/internal/brevo"
)

// Aggregate health states.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Store is the subset of the entry repository the checker probes.
type Store interface {
	Ping(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}

// BrevoChecker probes the Brevo API connection.
type BrevoChecker interface {
	CheckConnection(ctx context.Context) brevo.ConnectionStatus
}

// DatabaseStatus describes the health of the waitlist store.
type DatabaseStatus struct {
	Status        string `json:"status"`
	WaitlistCount *int64 `json:"waitlist_count,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Services holds the per-dependency health details.
type Services struct {
	Database DatabaseStatus         `json:"database"`
	Brevo    brevo.ConnectionStatus `json:"brevo"`
}

// Report is the aggregate health of the service.
type Report struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Services  Services  `json:"services"`
}

// Checker aggregates dependency probes into a health report.
type Checker struct {
	store   Store
	brevo   BrevoChecker
	version string
	logger  *slog.Logger
}

// NewChecker creates a health checker over the given dependencies.
func NewChecker(store Store, brevoChecker BrevoChecker, version string, logger *slog.Logger) *Checker {
	return &Checker{
		store:   store,
		brevo:   brevoChecker,
		version: version,
		logger:  logger,
	}
}

// Check probes every dependency and aggregates the results. Any dependency
// failure degrades the report; the endpoint itself still answers 200 so that
// orchestrators can read the details.
func (c *Checker) Check(ctx context.Context) Report {
	report := Report{
		Status:    StatusHealthy,
		Timestamp: time.Now().UTC(),
		Version:   c.version,
	}

	report.Services.Database = c.checkDatabase(ctx)
	if report.Services.Database.Status != StatusHealthy {
		report.Status = StatusDegraded
	}

	report.Services.Brevo = c.brevo.CheckConnection(ctx)
	if !report.Services.Brevo.Connected {
		report.Status = StatusDegraded
	}

	return report
}

func (c *Checker) checkDatabase(ctx context.Context) DatabaseStatus {
	if err := c.store.Ping(ctx); err != nil {
		c.logger.ErrorContext(ctx, "database health check failed", slog.String("error", err.Error()))
		return DatabaseStatus{
			Status: StatusUnhealthy,
			Error:  err.Error(),
		}
	}

	count, err := c.store.Count(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "database health check failed", slog.String("error", err.Error()))
		return DatabaseStatus{
			Status: StatusUnhealthy,
			Error:  err.Error(),
		}
	}

	return DatabaseStatus{
		Status:        StatusHealthy,
		WaitlistCount: &count,
	}
}
