package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lavoo/waitlist/internal/database"
	"github.com/lavoo/waitlist/internal/waitlist/domain"
)

// User-facing messages returned with signup results.
const (
	signupSuccessMessage = "🎉 You've been added to the waitlist!"
	signupDelayedSuffix  = " (Note: Email confirmation may be delayed)"
	duplicateMessage     = "This email has already been registered!"
)

// waitlistUseCase implements the WaitlistUseCase interface.
type waitlistUseCase struct {
	txManager database.TxManager
	entryRepo EntryRepository
	syncer    ContactSyncer
}

// NewWaitlistUseCase creates a new WaitlistUseCase.
func NewWaitlistUseCase(
	txManager database.TxManager,
	entryRepo EntryRepository,
	syncer ContactSyncer,
) WaitlistUseCase {
	return &waitlistUseCase{
		txManager: txManager,
		entryRepo: entryRepo,
		syncer:    syncer,
	}
}

// Signup registers an email on the waitlist.
//
// The contact is pushed to the marketing system before the row is written, so
// the welcome automation fires even if the insert later fails. The sync
// outcome is embedded in the stored entry either way; only the unique index
// on email decides whether the signup itself succeeds.
func (u *waitlistUseCase) Signup(ctx context.Context, input *SignupInput) (*SignupResult, error) {
	email := domain.NormalizeEmail(input.Email)

	existing, err := u.entryRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrEntryNotFound) {
		return nil, err
	}
	if existing != nil {
		return &SignupResult{
			Entry:             existing,
			AlreadyRegistered: true,
			Message:           duplicateMessage,
		}, nil
	}

	// Advisory position for email personalization. The authoritative value
	// is computed after the insert from the stored created_at.
	count, err := u.entryRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	outcome := u.syncContact(ctx, domain.Contact{
		Email:          email,
		Name:           input.Name,
		ReferralSource: input.ReferralSource,
		Position:       count + 1,
		SignupDate:     time.Now().UTC(),
	})

	entry := &domain.Entry{
		Email:           email,
		Name:            input.Name,
		ReferralSource:  input.ReferralSource,
		Status:          domain.EntryStatusPending,
		BrevoContactID:  outcome.ContactID,
		BrevoSyncStatus: outcome.Status,
	}
	if outcome.Succeeded() {
		now := time.Now().UTC()
		entry.BrevoSyncedAt = &now
	}

	var position int64
	err = u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := u.entryRepo.Create(txCtx, entry); err != nil {
			return err
		}
		pos, err := u.entryRepo.PositionByCreatedAt(txCtx, entry.CreatedAt)
		if err != nil {
			return err
		}
		position = pos
		return nil
	})
	if err != nil {
		// A concurrent insert of the same email between the duplicate check
		// and our insert lands here as domain.ErrEntryAlreadyExists.
		return nil, err
	}

	message := signupSuccessMessage
	if !outcome.Succeeded() {
		message += signupDelayedSuffix
	}

	return &SignupResult{
		Entry:    entry,
		Position: position,
		Sync:     outcome,
		Message:  message,
	}, nil
}

// Count returns the total number of waitlist entries.
func (u *waitlistUseCase) Count(ctx context.Context) (int64, error) {
	return u.entryRepo.Count(ctx)
}

// syncContact calls the contact syncer and converts a panic into a failed
// outcome, keeping the signup path alive no matter what the sync client does.
func (u *waitlistUseCase) syncContact(ctx context.Context, contact domain.Contact) (outcome domain.SyncOutcome) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "contact sync panicked",
				slog.String("email", contact.Email),
				slog.Any("panic", r),
			)
			outcome = domain.SyncOutcome{
				Status:    domain.SyncStatusFailed,
				ErrorCode: domain.SyncErrorUnexpected,
				Message:   fmt.Sprintf("panic: %v", r),
			}
		}
	}()

	return u.syncer.AddContact(ctx, contact)
}
