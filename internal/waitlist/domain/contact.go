package domain

import (
	"strings"
	"time"
)

// Contact carries the fields pushed to the external marketing system when an
// entry signs up. Position is advisory: it is computed before the insert and
// only used for email personalization, never stored.
type Contact struct {
	Email          string
	Name           string
	ReferralSource string
	Position       int64
	SignupDate     time.Time
}

// SplitName splits a display name into first and last parts on the first
// whitespace run. The last part is empty for single-word names.
func SplitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
