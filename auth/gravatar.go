package auth

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// NormalizeEmail canonicalizes an email address for storage, lookup, and
// avatar derivation: surrounding whitespace is trimmed and the address is
// lower-cased. Every comparison against a stored email goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DeriveAvatar produces a deterministic, hash-addressed avatar URL for an
// email address. The input is normalized first, so " User@Example.COM " and
// "user@example.com" yield the same URL. Pure function; the result is stored
// on the user at sign-up.
func DeriveAvatar(email string) string {
	// Gravatar addresses images by the MD5 hex digest of the normalized
	// email.
	sum := md5.Sum([]byte(NormalizeEmail(email)))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x", sum)
}
