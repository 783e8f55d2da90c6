package health

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lavoo/waitlist/internal/brevo"
	apperrors "github.com/lavoo/waitlist/internal/errors"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type stubBrevoChecker struct {
	status brevo.ConnectionStatus
}

func (s *stubBrevoChecker) CheckConnection(ctx context.Context) brevo.ConnectionStatus {
	return s.status
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestChecker_Check(t *testing.T) {
	ctx := context.Background()

	t.Run("Healthy_AllDependenciesUp", func(t *testing.T) {
		store := &mockStore{}
		store.On("Ping", mock.Anything).Return(nil).Once()
		store.On("Count", mock.Anything).Return(int64(42), nil).Once()

		checker := NewChecker(store, &stubBrevoChecker{
			status: brevo.ConnectionStatus{Connected: true, AccountEmail: "owner@example.com"},
		}, "1.0.0", testLogger())

		report := checker.Check(ctx)

		assert.Equal(t, StatusHealthy, report.Status)
		assert.Equal(t, "1.0.0", report.Version)
		assert.False(t, report.Timestamp.IsZero())

		assert.Equal(t, StatusHealthy, report.Services.Database.Status)
		require.NotNil(t, report.Services.Database.WaitlistCount)
		assert.Equal(t, int64(42), *report.Services.Database.WaitlistCount)
		assert.True(t, report.Services.Brevo.Connected)

		store.AssertExpectations(t)
	})

	t.Run("Degraded_DatabaseUnreachable", func(t *testing.T) {
		store := &mockStore{}
		store.On("Ping", mock.Anything).Return(apperrors.New("connection refused")).Once()

		checker := NewChecker(store, &stubBrevoChecker{
			status: brevo.ConnectionStatus{Connected: true},
		}, "1.0.0", testLogger())

		report := checker.Check(ctx)

		assert.Equal(t, StatusDegraded, report.Status)
		assert.Equal(t, StatusUnhealthy, report.Services.Database.Status)
		assert.Equal(t, "connection refused", report.Services.Database.Error)
		assert.Nil(t, report.Services.Database.WaitlistCount)

		store.AssertNotCalled(t, "Count", mock.Anything)
	})

	t.Run("Degraded_CountFails", func(t *testing.T) {
		store := &mockStore{}
		store.On("Ping", mock.Anything).Return(nil).Once()
		store.On("Count", mock.Anything).Return(int64(0), apperrors.New("relation does not exist")).Once()

		checker := NewChecker(store, &stubBrevoChecker{
			status: brevo.ConnectionStatus{Connected: true},
		}, "1.0.0", testLogger())

		report := checker.Check(ctx)

		assert.Equal(t, StatusDegraded, report.Status)
		assert.Equal(t, StatusUnhealthy, report.Services.Database.Status)
	})

	t.Run("Degraded_BrevoDisconnected", func(t *testing.T) {
		store := &mockStore{}
		store.On("Ping", mock.Anything).Return(nil).Once()
		store.On("Count", mock.Anything).Return(int64(10), nil).Once()

		checker := NewChecker(store, &stubBrevoChecker{
			status: brevo.ConnectionStatus{Connected: false, Error: "401 Unauthorized"},
		}, "1.0.0", testLogger())

		report := checker.Check(ctx)

		assert.Equal(t, StatusDegraded, report.Status)
		assert.Equal(t, StatusHealthy, report.Services.Database.Status)
		assert.False(t, report.Services.Brevo.Connected)
	})
}
