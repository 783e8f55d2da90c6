// Package domain defines the core waitlist domain entities and types.
package domain

import (
	"strings"
	"time"

	"github.com/lavoo/waitlist/internal/errors"
)

// EntryStatus is the lifecycle tag of a waitlist entry.
type EntryStatus string

// Waitlist entry lifecycle statuses. Entries are created as pending;
// the remaining transitions are driven by operational tooling, not this API.
const (
	EntryStatusPending   EntryStatus = "pending"
	EntryStatusConfirmed EntryStatus = "confirmed"
	EntryStatusInvited   EntryStatus = "invited"
	EntryStatusActive    EntryStatus = "active"
)

// SyncStatus records the outcome of the Brevo sync attempt made when the
// entry was created. It is written exactly once, as part of the insert.
type SyncStatus string

const (
	SyncStatusSuccess SyncStatus = "success"
	SyncStatusFailed  SyncStatus = "failed"
	SyncStatusPending SyncStatus = "pending"
)

// Entry represents one waitlist signup record.
type Entry struct {
	// ID is a monotonically increasing surrogate key assigned by the store.
	ID int64
	// Email is the normalized unique identifier of the entry.
	Email string
	// Name is an optional display name.
	Name string
	// ReferralSource is an optional free-text provenance tag.
	ReferralSource string
	// Status is the entry lifecycle tag.
	Status EntryStatus
	// BrevoContactID is the external contact identifier, set when the sync
	// succeeded and returned one.
	BrevoContactID string
	// BrevoSyncStatus is the classified outcome of the creation-time sync.
	BrevoSyncStatus SyncStatus
	// BrevoSyncedAt is the time of a successful sync, zero otherwise.
	BrevoSyncedAt *time.Time
	// CreatedAt is assigned by the store and is the ordering key for
	// position computation.
	CreatedAt time.Time
}

// Domain-specific errors for waitlist operations.
var (
	// ErrEntryNotFound indicates the requested entry does not exist.
	ErrEntryNotFound = errors.Wrap(errors.ErrNotFound, "waitlist entry not found")

	// ErrEntryAlreadyExists indicates an entry with the same email already exists.
	ErrEntryAlreadyExists = errors.Wrap(errors.ErrConflict, "email already registered")
)

// NormalizeEmail trims whitespace and lowercases an email address.
// All comparisons and writes go through this single normalization point so
// that "same email, different case" is always recognized as a duplicate.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
