package utils

import "golang.org/x/crypto/bcrypt"

// BcryptHasher is the credential verifier: a one-way slow hash with a
// configurable cost factor. The cost floor is enforced at config load.
type BcryptHasher struct{ Cost int }

func NewBcryptHasher(cost int) BcryptHasher { return BcryptHasher{Cost: cost} }

// Hash returns the bcrypt hash of plain using the configured cost.
func (h BcryptHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify safely compares a bcrypt hash and a plain password.
func (h BcryptHasher) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
