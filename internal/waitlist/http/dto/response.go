package dto

import (
	"time"

	"github.com/lavoo/waitlist/internal/waitlist/usecase"
)

// ErrorCodeEmailAlreadyExists marks a duplicate signup in the response body.
const ErrorCodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"

// SignupData is the data payload of a signup response.
type SignupData struct {
	Email           string `json:"email"`
	Name            string `json:"name,omitempty"`
	Position        int64  `json:"position,omitempty"`
	RegisteredAt    string `json:"registered_at,omitempty"`
	BrevoSyncStatus string `json:"brevo_sync_status,omitempty"`
}

// WaitlistResponse is the envelope for signup operations. Success is false
// for duplicate submissions, with ErrorCode explaining why.
type WaitlistResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      *SignupData `json:"data,omitempty"`
	ErrorCode string      `json:"error_code,omitempty"`
}

// MapSignupResultToResponse converts a signup result to an API response.
func MapSignupResultToResponse(result *usecase.SignupResult) WaitlistResponse {
	if result.AlreadyRegistered {
		return WaitlistResponse{
			Success:   false,
			Message:   result.Message,
			ErrorCode: ErrorCodeEmailAlreadyExists,
			Data: &SignupData{
				Email:        result.Entry.Email,
				RegisteredAt: formatTime(result.Entry.CreatedAt),
			},
		}
	}

	return WaitlistResponse{
		Success: true,
		Message: result.Message,
		Data: &SignupData{
			Email:           result.Entry.Email,
			Name:            result.Entry.Name,
			Position:        result.Position,
			RegisteredAt:    formatTime(result.Entry.CreatedAt),
			BrevoSyncStatus: string(result.Sync.Status),
		},
	}
}

// CountResponse is the payload for the waitlist count endpoint.
type CountResponse struct {
	Success   bool      `json:"success"`
	Count     int64     `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// NewCountResponse builds a count response stamped with the current time.
func NewCountResponse(count int64) CountResponse {
	return CountResponse{
		Success:   true,
		Count:     count,
		Timestamp: time.Now().UTC(),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
