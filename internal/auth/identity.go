package auth

import (
	"strings"

	"github.com/google/uuid"
)

// IsOpaqueIdentifier reports whether s looks like a provider-generated
// identifier (a hyphenated 36 character UUID) rather than a human name.
func IsOpaqueIdentifier(s string) bool {
	return len(s) == 36 && uuid.Validate(s) == nil
}

// EmailLocalPart returns the part of an email address before the '@'.
func EmailLocalPart(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}

// DisplayName picks the username to store for a new identity. The preferred
// username wins unless it is empty or opaque, then the email local part.
func DisplayName(claims *Claims) string {
	preferred := strings.TrimSpace(claims.PreferredUsername)
	if preferred != "" && !IsOpaqueIdentifier(preferred) {
		return preferred
	}
	return EmailLocalPart(claims.Email)
}
