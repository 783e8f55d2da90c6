package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/lavoo/waitlist/internal/errors"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"user@example.com", true},
		{"user.name+tag@example.co.uk", true},
		{"UPPER@EXAMPLE.COM", true},
		{"", false},
		{"plainaddress", false},
		{"@example.com", false},
		{"user@", false},
		{"user@example", false},
		{"user @example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := Email.Validate(tt.email)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, NotBlank.Validate("value"))
	assert.Error(t, NotBlank.Validate(""))
	assert.Error(t, NotBlank.Validate("   "))
	assert.Error(t, NotBlank.Validate("\t\n"))
}

func TestNoWhitespace(t *testing.T) {
	assert.NoError(t, NoWhitespace.Validate("value"))
	assert.Error(t, NoWhitespace.Validate(" value"))
	assert.Error(t, NoWhitespace.Validate("value "))
}

func TestWrapValidationError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.Nil(t, WrapValidationError(nil))
	})

	t.Run("wraps as invalid input", func(t *testing.T) {
		err := WrapValidationError(assert.AnError)
		assert.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}
