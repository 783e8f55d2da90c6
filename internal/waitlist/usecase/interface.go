// Package usecase implements the business logic for waitlist signups. It
// orchestrates persistence and the external contact sync so that the two
// stay decoupled: a failed sync is recorded on the entry, never surfaced as
// a signup failure.
package usecase

import (
	"context"
	"time"

	"github.com/lavoo/waitlist/internal/waitlist/domain"
)

// EntryRepository defines the interface for waitlist entry persistence operations.
type EntryRepository interface {
	Create(ctx context.Context, entry *domain.Entry) error
	GetByEmail(ctx context.Context, email string) (*domain.Entry, error)
	Count(ctx context.Context) (int64, error)
	PositionByCreatedAt(ctx context.Context, createdAt time.Time) (int64, error)
	Ping(ctx context.Context) error
}

// ContactSyncer pushes new signups to the external marketing system.
// Implementations classify failures into a SyncOutcome instead of returning
// an error so callers can treat the result as data.
type ContactSyncer interface {
	AddContact(ctx context.Context, contact domain.Contact) domain.SyncOutcome
}

// SignupInput carries the validated fields of a signup request. Email may
// arrive in any casing; the use case normalizes it before any lookup or write.
type SignupInput struct {
	Email          string
	Name           string
	ReferralSource string
}

// SignupResult is the outcome of a signup attempt.
//
// AlreadyRegistered marks a duplicate submission: Entry then points at the
// existing record and Position and Sync are zero values.
type SignupResult struct {
	Entry             *domain.Entry
	Position          int64
	AlreadyRegistered bool
	Sync              domain.SyncOutcome
	Message           string
}

// WaitlistUseCase defines the interface for waitlist business logic.
type WaitlistUseCase interface {
	// Signup registers an email on the waitlist. Duplicate submissions are
	// reported via SignupResult.AlreadyRegistered rather than an error; a
	// concurrent insert of the same email surfaces domain.ErrEntryAlreadyExists.
	Signup(ctx context.Context, input *SignupInput) (*SignupResult, error)
	// Count returns the total number of waitlist entries.
	Count(ctx context.Context) (int64, error)
}
