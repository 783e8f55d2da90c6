package brevo

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/lavoo/waitlist/internal/waitlist/domain"
)

// duplicateContactMarker is the fragment Brevo puts in the 400 body when the
// contact is already registered. That case is a success for our purposes: the
// contact is on the list and the automation has already run.
var duplicateContactMarker = []byte("Contact already exist")

// classifySyncFailure maps an API failure to a sync outcome. statusCode is
// zero when the request never produced a response.
func classifySyncFailure(statusCode int, body []byte, err error) domain.SyncOutcome {
	switch {
	case statusCode == http.StatusBadRequest && bytes.Contains(body, duplicateContactMarker):
		return domain.SyncOutcome{
			Status:  domain.SyncStatusSuccess,
			Message: "Contact already exists in Brevo",
		}
	case statusCode == http.StatusUnauthorized:
		return domain.SyncOutcome{
			Status:    domain.SyncStatusFailed,
			ErrorCode: domain.SyncErrorAuthFailed,
			Message:   "Authentication failed",
		}
	case statusCode == http.StatusNotFound:
		return domain.SyncOutcome{
			Status:    domain.SyncStatusFailed,
			ErrorCode: domain.SyncErrorListNotFound,
			Message:   "List not found",
		}
	case statusCode > 0:
		return domain.SyncOutcome{
			Status:    domain.SyncStatusFailed,
			ErrorCode: domain.SyncErrorAPIError,
			Message:   fmt.Sprintf("API error: status %d", statusCode),
		}
	default:
		return domain.SyncOutcome{
			Status:    domain.SyncStatusFailed,
			ErrorCode: domain.SyncErrorUnexpected,
			Message:   err.Error(),
		}
	}
}
