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

// MySQLEntryRepository handles waitlist entry persistence for MySQL.
type MySQLEntryRepository struct {
	db *sql.DB
}

// NewMySQLEntryRepository creates a new MySQLEntryRepository.
func NewMySQLEntryRepository(db *sql.DB) *MySQLEntryRepository {
	return &MySQLEntryRepository{
		db: db,
	}
}

// Create inserts a new waitlist entry and populates the store-assigned id
// and created_at on the given entry. MySQL has no RETURNING clause, so the
// assigned row is read back by primary key after the insert.
func (r *MySQLEntryRepository) Create(ctx context.Context, entry *domain.Entry) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO waitlist
			  (email, name, referral_source, status, brevo_contact_id, brevo_sync_status, brevo_synced_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, NOW())`

	result, err := querier.ExecContext(ctx, query,
		entry.Email,
		nullString(entry.Name),
		nullString(entry.ReferralSource),
		string(entry.Status),
		nullString(entry.BrevoContactID),
		string(entry.BrevoSyncStatus),
		nullTime(entry.BrevoSyncedAt),
	)
	if err != nil {
		// Check for unique constraint violation (duplicate email)
		if isMySQLUniqueViolation(err) {
			return domain.ErrEntryAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create waitlist entry")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to read waitlist entry id")
	}
	entry.ID = id

	var createdAt time.Time
	err = querier.QueryRowContext(ctx, `SELECT created_at FROM waitlist WHERE id = ?`, id).
		Scan(&createdAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to read waitlist entry created_at")
	}
	entry.CreatedAt = createdAt

	return nil
}

// GetByEmail retrieves an entry by its normalized email.
func (r *MySQLEntryRepository) GetByEmail(ctx context.Context, email string) (*domain.Entry, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, email, name, referral_source, status, brevo_contact_id, brevo_sync_status, brevo_synced_at, created_at
			  FROM waitlist WHERE email = ?`

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
func (r *MySQLEntryRepository) Count(ctx context.Context) (int64, error) {
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
func (r *MySQLEntryRepository) PositionByCreatedAt(
	ctx context.Context,
	createdAt time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	var position int64
	query := `SELECT COUNT(*) FROM waitlist WHERE created_at <= ?`
	err := querier.QueryRowContext(ctx, query, createdAt).Scan(&position)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to compute waitlist position")
	}

	return position, nil
}

// Ping reports whether the database is reachable.
func (r *MySQLEntryRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062 (23000): Duplicate entry ... for key ..."
	return strings.Contains(errMsg, "error 1062") || strings.Contains(errMsg, "duplicate entry")
}
