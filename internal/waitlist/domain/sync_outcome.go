package domain

// SyncErrorCode classifies why a contact sync attempt failed.
type SyncErrorCode string

const (
	// SyncErrorAuthFailed indicates the remote rejected our credentials.
	SyncErrorAuthFailed SyncErrorCode = "BREVO_AUTH_FAILED"
	// SyncErrorListNotFound indicates the configured target list does not exist.
	SyncErrorListNotFound SyncErrorCode = "BREVO_LIST_NOT_FOUND"
	// SyncErrorAPIError covers remote API rejections other than auth and
	// missing-list failures.
	SyncErrorAPIError SyncErrorCode = "BREVO_API_ERROR"
	// SyncErrorUnexpected covers transport failures and anything else that
	// never produced a classified API response.
	SyncErrorUnexpected SyncErrorCode = "BREVO_UNEXPECTED_ERROR"
)

// SyncOutcome is the classified result of attempting to register a contact
// with the external marketing system. Failures are data, not errors: the
// orchestrator embeds the outcome in the stored entry and continues.
type SyncOutcome struct {
	Status    SyncStatus
	ContactID string
	ErrorCode SyncErrorCode
	Message   string
}

// Succeeded reports whether the contact was accepted by the remote system.
func (o SyncOutcome) Succeeded() bool {
	return o.Status == SyncStatusSuccess
}
