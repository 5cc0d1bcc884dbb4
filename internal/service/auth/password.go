package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier checks a login password against the stored hash.
// The hashing side lives in the user store, which owns the configured
// bcrypt cost; login only ever needs to compare.
type PasswordVerifier interface {
	// Compare returns nil when the plaintext password matches the
	// stored hash, and an error otherwise.
	Compare(hashedPassword, password string) error
}

// BcryptVerifier implements PasswordVerifier over bcrypt hashes, the
// format the user store writes.
type BcryptVerifier struct{}

// NewBcryptVerifier creates a new BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare implements PasswordVerifier.
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// HashPassword hashes a plaintext password at the given bcrypt cost,
// producing the format Compare verifies. Costs outside bcrypt's range
// are rejected up front so the error names the bad cost instead of
// surfacing from the hasher.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return "", fmt.Errorf("bcrypt cost %d outside valid range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
