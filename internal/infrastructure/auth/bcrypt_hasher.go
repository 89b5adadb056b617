// Package auth provides the password hasher and token service used by the auth workflow.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxCost bounds the bcrypt work factor so a single verification stays well
// under the login latency budget.
const MaxCost = 14

// BcryptHasher implements ports.PasswordHasher. The salt and cost are embedded in
// every hash it produces, so nothing besides the hash string has to be stored.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, falling back to bcrypt.DefaultCost
// when cost is outside [bcrypt.MinCost, MaxCost].
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Cost returns the work factor new hashes are generated with.
func (h *BcryptHasher) Cost() int {
	return h.cost
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify reports whether password matches hash. The comparison cost is set by
// the hash's own embedded parameters, not by h.cost.
func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
