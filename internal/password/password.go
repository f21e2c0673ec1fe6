package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher derives and verifies salted password digests with bcrypt.
type Hasher struct {
	cost int
}

// NewHasher creates a hasher with the given bcrypt cost. Costs below 10 are
// raised to 10.
func NewHasher(cost int) *Hasher {
	if cost < 10 {
		cost = 10
	}
	return &Hasher{cost: cost}
}

// Hash derives a digest from the plaintext. A failure here is a process
// configuration fault, never caused by user input.
func (h *Hasher) Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plain matches the stored digest. bcrypt's comparison
// is constant-time with respect to the derived hash.
func (h *Hasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
