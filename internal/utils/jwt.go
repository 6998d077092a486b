package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/sha256" // SHA-256 hashing for opaque tokens at rest
	"encoding/hex"  // hex encoding for digests
	"time"          // expiry computation

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
	"github.com/google/uuid"       // opaque refresh/reset token generation
)

// AccessToken represents a signed JWT access token along with its expiry.
// Access tokens are short-lived and carried in the Authorization header
// when calling protected endpoints.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user. The claims
// embed the subject id, email and role so a refreshed token always
// reflects the owner's current identity. issuedAt is passed in rather
// than read from the wall clock so issuance shares the service's clock.
func NewAccessToken(secret string, userID uint64, email, role string, issuedAt time.Time, ttl time.Duration) (AccessToken, error) {
	exp := issuedAt.UTC().Add(ttl)
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"iat":   issuedAt.UTC().Unix(),
		"exp":   exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewOpaqueToken returns a new opaque bearer secret for refresh and
// password reset tokens: a random v4 UUID string with no embedded
// structure (128-bit randomness from crypto/rand).
func NewOpaqueToken() string {
	return uuid.NewString()
}

// HashTokenRaw returns the SHA-256 hash of a raw opaque token as a hex
// string. Only the hash is persisted, so stolen database rows cannot be
// replayed as tokens; lookups stay exact-match because the digest is
// deterministic.
func HashTokenRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
