package cybersource

import (
	"strings"

	"github.com/google/uuid"
)

// NewClientToken generates the opaque token correlating a payment
// attempt across the redirect round-trip.
func NewClientToken() string {
	return uuid.NewString()
}

// IsClientToken reports whether token is a well-formed client token.
// Strict mode additionally requires the canonical v4 form to round-trip
// unchanged.
func IsClientToken(token string, strict bool) bool {
	if token == "" {
		return false
	}
	u, err := uuid.Parse(token)
	if err != nil {
		return false
	}
	if strict {
		return u.String() == token && u.Version() == 4
	}
	return true
}

// Searchable normalizes a token for searchable transaction keys.
func Searchable(token string) string {
	return strings.ReplaceAll(token, "-", "")
}
