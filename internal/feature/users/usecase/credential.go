package usecase

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"cardenal_backend/internal/feature/users/domain/entity"
)

// CredentialScheme seals secrets for storage and verifies login attempts.
// Swapping the scheme does not change the UserUsecase API.
type CredentialScheme interface {
	// Seal converts a secret into its stored form.
	Seal(secret string) (entity.Credential, error)
	// Verify reports whether secret matches the stored credential.
	Verify(stored entity.Credential, secret string) bool
}

// PlainScheme stores secrets as given and compares them verbatim.
type PlainScheme struct{}

// Seal returns the secret unchanged.
func (PlainScheme) Seal(secret string) (entity.Credential, error) {
	return entity.NewCredential(secret), nil
}

// Verify compares in constant time. An unset credential never matches.
func (PlainScheme) Verify(stored entity.Credential, secret string) bool {
	if stored.IsZero() {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored.Sealed()), []byte(secret)) == 1
}

// BcryptScheme stores bcrypt hashes. Opt-in via CREDENTIAL_SCHEME=bcrypt.
type BcryptScheme struct {
	Cost int
}

// Seal hashes the secret with bcrypt.
func (s BcryptScheme) Seal(secret string) (entity.Credential, error) {
	cost := s.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return entity.Credential{}, fmt.Errorf("failed to hash password: %w", err)
	}
	return entity.NewCredential(string(hashed)), nil
}

// Verify compares the secret against the stored bcrypt hash.
func (BcryptScheme) Verify(stored entity.Credential, secret string) bool {
	if stored.IsZero() {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(stored.Sealed()), []byte(secret)) == nil
}
