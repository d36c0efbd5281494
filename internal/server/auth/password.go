package auth

import "golang.org/x/crypto/bcrypt"

// Hasher performs one-way salted password hashing. Each Hash call salts
// independently, so equal inputs produce different outputs that all verify.
// The cost factor trades offline brute-force resistance against per-request
// CPU time; hashing is deliberately slow and runs on the caller's goroutine.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost. A non-positive cost
// falls back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the salted hash of plaintext. The result is never equal to
// the plaintext and is safe to persist.
func (h *Hasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plaintext matches the stored hash. bcrypt's
// comparison is constant-time with respect to the derived key.
func (h *Hasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
