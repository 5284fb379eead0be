// Package entity defines the domain entities for the users feature.
package entity

import "time"

// Credential is the stored form of a user's secret. Its content depends on
// the credential scheme in use and is never exposed through String or JSON.
type Credential struct {
	sealed string
}

// NewCredential wraps an already sealed secret.
func NewCredential(sealed string) Credential {
	return Credential{sealed: sealed}
}

// Sealed returns the stored representation for persistence.
func (c Credential) Sealed() string {
	return c.sealed
}

// IsZero reports whether no credential is set.
func (c Credential) IsZero() bool {
	return c.sealed == ""
}

// String hides the secret from logs and fmt output.
func (c Credential) String() string {
	return "[redacted]"
}

// MarshalJSON hides the secret from JSON output.
func (c Credential) MarshalJSON() ([]byte, error) {
	return []byte(`"[redacted]"`), nil
}

// User represents a registered account.
type User struct {
	// ID is assigned by the storage backend at registration.
	ID int64

	// Name is the display name.
	Name string

	// Email is stored trimmed and lower-cased; unique across users.
	Email string

	// Username is stored trimmed; unique across users.
	Username string

	Credential Credential

	// CreatedAt is the registration time in the service's civil timezone.
	CreatedAt time.Time

	// Optional profile fields.
	Faculty   string
	StudentID string
	Semester  string
}
