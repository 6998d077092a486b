package model

import "time"

// RefreshToken models a row in the `refresh_tokens` table. The plain
// token handed to the client is never stored; only its SHA-256 hex
// digest. A token is single-use: a successful refresh flips Revoked
// atomically with the insertion of its successor.
//
// Lifecycle: issued -> rotated-out (refresh) | revoked (logout, password
// reset) | expired (lazily detected). All terminal states are rejected
// identically.
type RefreshToken struct {
	ID        uint64    // refresh_tokens.id
	UserID    uint64    // refresh_tokens.user_id
	TokenHash string    // refresh_tokens.token_hash
	ExpiresAt time.Time // refresh_tokens.expires_at
	Revoked   bool      // refresh_tokens.revoked
	CreatedAt time.Time // refresh_tokens.created_at
}

// PasswordResetToken models a row in the `password_reset_tokens` table.
// At most one unused token may be live per user; issuing a new one marks
// all prior unused tokens used.
type PasswordResetToken struct {
	ID        uint64    // password_reset_tokens.id
	UserID    uint64    // password_reset_tokens.user_id
	TokenHash string    // password_reset_tokens.token_hash
	ExpiresAt time.Time // password_reset_tokens.expires_at
	Used      bool      // password_reset_tokens.used
	CreatedAt time.Time // password_reset_tokens.created_at
}
