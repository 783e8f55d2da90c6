// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lavoo/waitlist/internal/waitlist/usecase"
)

// MockWaitlistUseCase is a mock implementation of WaitlistUseCase for testing.
type MockWaitlistUseCase struct {
	mock.Mock
}

// Signup mocks the Signup method of WaitlistUseCase.
func (m *MockWaitlistUseCase) Signup(
	ctx context.Context,
	input *usecase.SignupInput,
) (*usecase.SignupResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SignupResult), args.Error(1)
}

// Count mocks the Count method of WaitlistUseCase.
func (m *MockWaitlistUseCase) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
