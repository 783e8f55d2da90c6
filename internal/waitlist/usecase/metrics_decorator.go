package usecase

import (
	"context"
	"time"

	"github.com/lavoo/waitlist/internal/metrics"
)

// waitlistUseCaseWithMetrics decorates WaitlistUseCase with metrics instrumentation.
type waitlistUseCaseWithMetrics struct {
	next    WaitlistUseCase
	metrics metrics.BusinessMetrics
}

// NewWaitlistUseCaseWithMetrics wraps a WaitlistUseCase with metrics recording.
func NewWaitlistUseCaseWithMetrics(useCase WaitlistUseCase, m metrics.BusinessMetrics) WaitlistUseCase {
	return &waitlistUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Signup records metrics for signup operations and, on success, the outcome
// of the embedded contact sync.
func (u *waitlistUseCaseWithMetrics) Signup(ctx context.Context, input *SignupInput) (*SignupResult, error) {
	start := time.Now()
	result, err := u.next.Signup(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "waitlist", "signup", status)
	u.metrics.RecordDuration(ctx, "waitlist", "signup", time.Since(start), status)

	if err == nil && !result.AlreadyRegistered {
		syncStatus := "success"
		if !result.Sync.Succeeded() {
			syncStatus = "error"
		}
		u.metrics.RecordOperation(ctx, "brevo", "contact_sync", syncStatus)
	}

	return result, err
}

// Count records metrics for count operations.
func (u *waitlistUseCaseWithMetrics) Count(ctx context.Context) (int64, error) {
	start := time.Now()
	count, err := u.next.Count(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "waitlist", "count", status)
	u.metrics.RecordDuration(ctx, "waitlist", "count", time.Since(start), status)

	return count, err
}
