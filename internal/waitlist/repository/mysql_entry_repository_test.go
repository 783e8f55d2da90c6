package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lavoo/waitlist/internal/errors"
	"github.com/lavoo/waitlist/internal/testutil"
	"github.com/lavoo/waitlist/internal/waitlist/domain"
)

func TestMySQLEntryRepository_Create(t *testing.T) {
	db, mock := testutil.NewSQLMock(t)
	repo := NewMySQLEntryRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()

	entry := &domain.Entry{
		Email:           "user@example.com",
		Name:            "John Doe",
		Status:          domain.EntryStatusPending,
		BrevoSyncStatus: domain.SyncStatusSuccess,
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO waitlist`)).
		WithArgs(
			"user@example.com",
			nullString("John Doe"),
			nullString(""),
			"pending",
			nullString(""),
			"success",
			nullTime(nil),
		).
		WillReturnResult(sqlmock.NewResult(9, 1))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT created_at FROM waitlist WHERE id = ?`)).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	err := repo.Create(ctx, entry)
	require.NoError(t, err)
	assert.Equal(t, int64(9), entry.ID)
	assert.Equal(t, now, entry.CreatedAt)
}

func TestMySQLEntryRepository_Create_DuplicateEmail(t *testing.T) {
	db, mock := testutil.NewSQLMock(t)
	repo := NewMySQLEntryRepository(db)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO waitlist`)).
		WillReturnError(apperrors.New(
			"Error 1062 (23000): Duplicate entry 'user@example.com' for key 'waitlist.email'",
		))

	entry := &domain.Entry{
		Email:           "user@example.com",
		Status:          domain.EntryStatusPending,
		BrevoSyncStatus: domain.SyncStatusSuccess,
	}

	err := repo.Create(ctx, entry)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, domain.ErrEntryAlreadyExists))
}

func TestMySQLEntryRepository_GetByEmail_NotFound(t *testing.T) {
	db, mock := testutil.NewSQLMock(t)
	repo := NewMySQLEntryRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, name`)).
		WithArgs("notfound@example.com").
		WillReturnRows(sqlmock.NewRows(entryColumns))

	entry, err := repo.GetByEmail(ctx, "notfound@example.com")
	require.Error(t, err)
	assert.Nil(t, entry)
	assert.True(t, apperrors.Is(err, domain.ErrEntryNotFound))
}

func TestMySQLEntryRepository_Count(t *testing.T) {
	db, mock := testutil.NewSQLMock(t)
	repo := NewMySQLEntryRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM waitlist`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(5)))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestMySQLEntryRepository_PositionByCreatedAt(t *testing.T) {
	db, mock := testutil.NewSQLMock(t)
	repo := NewMySQLEntryRepository(db)
	ctx := context.Background()

	createdAt := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM waitlist WHERE created_at <= ?`)).
		WithArgs(createdAt).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

	position, err := repo.PositionByCreatedAt(ctx, createdAt)
	require.NoError(t, err)
	assert.Equal(t, int64(1), position)
}

func TestIsMySQLUniqueViolation(t *testing.T) {
	assert.True(t, isMySQLUniqueViolation(apperrors.New("Error 1062 (23000): Duplicate entry")))
	assert.True(t, isMySQLUniqueViolation(apperrors.New("duplicate entry 'x' for key 'waitlist.email'")))
	assert.False(t, isMySQLUniqueViolation(apperrors.New("Error 1045 (28000): Access denied")))
	assert.False(t, isMySQLUniqueViolation(nil))
}
