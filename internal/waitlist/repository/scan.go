package repository

import (
	"database/sql"
	"time"

	"github.com/lavoo/waitlist/internal/waitlist/domain"
)

// rowScanner abstracts *sql.Row and *sql.Rows for entry scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanEntry scans one waitlist row into a domain entry, folding nullable
// columns into their zero-value representations.
func scanEntry(row rowScanner) (*domain.Entry, error) {
	var (
		entry          domain.Entry
		name           sql.NullString
		referralSource sql.NullString
		status         string
		contactID      sql.NullString
		syncStatus     string
		syncedAt       sql.NullTime
	)

	err := row.Scan(
		&entry.ID,
		&entry.Email,
		&name,
		&referralSource,
		&status,
		&contactID,
		&syncStatus,
		&syncedAt,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Name = name.String
	entry.ReferralSource = referralSource.String
	entry.Status = domain.EntryStatus(status)
	entry.BrevoContactID = contactID.String
	entry.BrevoSyncStatus = domain.SyncStatus(syncStatus)
	if syncedAt.Valid {
		t := syncedAt.Time
		entry.BrevoSyncedAt = &t
	}

	return &entry, nil
}

// nullString maps an empty string to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullTime maps a nil time to SQL NULL.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
