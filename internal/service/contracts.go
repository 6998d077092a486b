// Package service implements the credential lifecycle engine: token
// issuance, rotation, revocation, expiry enforcement and the password
// reset state machine. It consumes its collaborators as interfaces and
// is wired together by explicit constructor injection in cmd/server.
package service

import (
	"context"
	"time"

	"github.com/lfcamara/user-auth-service/internal/model"
)

// UserDirectory owns user records, identity uniqueness and activation
// state. Absent lookups return an error satisfying
// errors.Is(err, repository.ErrNotFound).
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id uint64) (model.User, error)
	Create(ctx context.Context, email, name, passwordHash string, role model.Role) (model.User, error)
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error
}

// TokenStore persists refresh and password reset tokens keyed by the
// hash of the presented token string. The conditional operations
// (RevokeRefreshIfActive, MarkResetUsedIfUnused) must be atomic: under
// concurrent calls for the same hash exactly one caller observes true.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error
	FindRefresh(ctx context.Context, tokenHash string) (model.RefreshToken, error)
	RevokeRefreshIfActive(ctx context.Context, tokenHash string) (bool, error)
	RevokeRefreshByHash(ctx context.Context, tokenHash string) error
	RevokeAllRefreshForUser(ctx context.Context, userID uint64) error

	CreateResetSupersedingPrior(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error
	FindUnusedReset(ctx context.Context, tokenHash string) (model.PasswordResetToken, error)
	MarkResetUsedIfUnused(ctx context.Context, tokenHash string) (bool, error)
}

// PasswordHasher is the one-way verify/hash capability.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

// Notifier delivers messages out-of-band. Send failures must never
// abort the flow that triggered them.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
