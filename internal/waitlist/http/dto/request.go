// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"strings"

	validation "github.com/jellydator/validation"

	customValidation "github.com/lavoo/waitlist/internal/validation"
	"github.com/lavoo/waitlist/internal/waitlist/domain"
)

// SignupRequest contains the parameters for joining the waitlist.
// Name and ReferralSource are optional.
type SignupRequest struct {
	Email          string `json:"email" binding:"required"`
	Name           string `json:"name"`
	ReferralSource string `json:"referral_source"`
}

// Normalize folds the fields into their canonical form: surrounding
// whitespace is stripped everywhere and the email is lowercased. Call it
// before Validate so format checks run against what would be stored.
func (r *SignupRequest) Normalize() {
	r.Email = domain.NormalizeEmail(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	r.ReferralSource = strings.TrimSpace(r.ReferralSource)
}

// Validate checks if the signup request is valid.
func (r *SignupRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required,
			validation.Length(5, 255),
			customValidation.Email,
		),
		validation.Field(&r.Name,
			validation.Length(0, 255),
		),
		validation.Field(&r.ReferralSource,
			validation.Length(0, 100),
		),
	)
}
