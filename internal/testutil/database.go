// Package testutil provides testing utilities shared across packages.
//
// Repository and transaction tests run against a DATA-DOG/go-sqlmock
// connection instead of a live server, so the suite needs no database
// containers. The helpers here wire the mock and fail the test if any
// declared expectation is left unmet.
package testutil

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

// NewSQLMock creates a mocked *sql.DB for repository tests with ping
// monitoring enabled, so health probes can be asserted with ExpectPing.
// The connection is closed and all expectations are verified via t.Cleanup.
func NewSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err, "failed to create sqlmock connection")

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet(), "unmet sqlmock expectations")
		_ = db.Close()
	})

	return db, mock
}

// NewSQLMockEqual creates a mocked *sql.DB that matches expected queries by
// exact string comparison instead of sqlmock's default regular expressions.
func NewSQLMockEqual(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err, "failed to create sqlmock connection")

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet(), "unmet sqlmock expectations")
		_ = db.Close()
	})

	return db, mock
}
