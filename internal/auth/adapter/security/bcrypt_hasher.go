package security

import (
	"fmt"

	"zest/internal/auth/domain/repository"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher implements one-way password hashing with a fixed work factor.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher with the given cost. Costs outside the
// bcrypt range fall back to the library default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash transforms a plaintext password into a salted, irreversible hash.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash. The only success
// path is an explicit nil from the comparison; a mismatch, a corrupted hash
// and an internal library failure all deny.
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

var _ repository.PasswordHasher = (*BcryptHasher)(nil)
