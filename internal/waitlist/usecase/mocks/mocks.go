// Package mocks provides mock implementations for testing waitlist use cases.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/lavoo/waitlist/internal/waitlist/domain"
)

// MockEntryRepository is a mock implementation of EntryRepository for testing.
type MockEntryRepository struct {
	mock.Mock
}

// Create mocks the Create method of EntryRepository.
func (m *MockEntryRepository) Create(ctx context.Context, entry *domain.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// GetByEmail mocks the GetByEmail method of EntryRepository.
func (m *MockEntryRepository) GetByEmail(ctx context.Context, email string) (*domain.Entry, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entry), args.Error(1)
}

// Count mocks the Count method of EntryRepository.
func (m *MockEntryRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// PositionByCreatedAt mocks the PositionByCreatedAt method of EntryRepository.
func (m *MockEntryRepository) PositionByCreatedAt(ctx context.Context, createdAt time.Time) (int64, error) {
	args := m.Called(ctx, createdAt)
	return args.Get(0).(int64), args.Error(1)
}

// Ping mocks the Ping method of EntryRepository.
func (m *MockEntryRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockContactSyncer is a mock implementation of ContactSyncer for testing.
type MockContactSyncer struct {
	mock.Mock
}

// AddContact mocks the AddContact method of ContactSyncer.
func (m *MockContactSyncer) AddContact(ctx context.Context, contact domain.Contact) domain.SyncOutcome {
	args := m.Called(ctx, contact)
	return args.Get(0).(domain.SyncOutcome)
}

// PanickingContactSyncer always panics, for exercising the sync guard.
type PanickingContactSyncer struct{}

// AddContact panics unconditionally.
func (p *PanickingContactSyncer) AddContact(ctx context.Context, contact domain.Contact) domain.SyncOutcome {
	panic("sync client exploded")
}
