// Package repository provides data persistence implementations for waitlist entries.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lavoo/waitlist/internal/database"
	"github.com/lavoo/waitlist/internal/waitlist/domain"

	apperrors "github.com/lavoo/waitlist/internal/errors"
)

// PostgreSQLEntryRepository handles waitlist entry persistence for PostgreSQL.
type PostgreSQLEntryRepository struct {
	db *sql.DB
}

// NewPostgreSQLEntryRepository creates a new PostgreSQLEntryRepository.
func NewPostgreSQLEntryRepository(db *sql.DB) *PostgreSQLEntryRepository {
	return &PostgreSQLEntryRepository{
		db: db,
	}
}

// Create inserts a new waitlist entry as a single atomic statement and
// populates the store-assigned id and created_at on the given entry.
// The unique index on email is the serialization point for concurrent
// submissions of the same address: a violation here is reported as
// domain.ErrEntryAlreadyExists so the caller can classify the race.
func (r *PostgreSQLEntryRepository) Create(ctx context.Context, entry *domain.Entry) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO waitlist
			  (email, name, referral_source, status, brevo_contact_id, brevo_sync_status, brevo_synced_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			  RETURNING id, created_at`

	err := querier.QueryRowContext(ctx, query,
		entry.Email,
		nullString(entry.Name),
		nullString(entry.ReferralSource),
		string(entry.Status),
		nullString(entry.BrevoContactID),
		string(entry.BrevoSyncStatus),
		nullTime(entry.BrevoSyncedAt),
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		// Check for unique constraint violation (duplicate email)
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrEntryAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create waitlist entry")
	}
	return nil
}

// GetByEmail retrieves an entry by its normalized email.
func (r *PostgreSQLEntryRepository) GetByEmail(ctx context.Context, email string) (*domain.Entry, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, email, name, referral_source, status, brevo_contact_id, brevo_sync_status, brevo_synced_at, created_at
			  FROM waitlist WHERE email = $1`

	entry, err := scanEntry(querier.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get waitlist entry by email")
	}

	return entry, nil
}

// Count returns the total number of waitlist entries.
func (r *PostgreSQLEntryRepository) Count(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	var count int64
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM waitlist`).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count waitlist entries")
	}

	return count, nil
}

// PositionByCreatedAt returns the 1-based ordinal rank of an entry created at
// the given time: the number of entries with created_at <= createdAt.
func (r *PostgreSQLEntryRepository) PositionByCreatedAt(
	ctx context.Context,
	createdAt time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	var position int64
	query := `SELECT COUNT(*) FROM waitlist WHERE created_at <= $1`
	err := querier.QueryRowContext(ctx, query, createdAt).Scan(&position)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to compute waitlist position")
	}

	return position, nil
}

// Ping reports whether the database is reachable.
func (r *PostgreSQLEntryRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
