package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lfcamara/user-auth-service/internal/model"
)

// TokenRepo is the Token Store: it persists refresh and password reset
// tokens (hash-at-rest, single 'token_hash' column) with their
// revocation/usage flags and expiry timestamps. Expiry is not filtered
// here; the service layer owns the expiry comparison so the boundary
// convention lives in exactly one place.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// ----- refresh tokens -----

// StoreRefresh inserts a refresh token hash row.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, expiresAt)
	return err
}

// FindRefresh returns the non-revoked refresh token row for the hash.
// Revoked rows are indistinguishable from absent ones.
func (r *TokenRepo) FindRefresh(ctx context.Context, tokenHash string) (model.RefreshToken, error) {
	var t model.RefreshToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,token_hash,expires_at,revoked,created_at FROM refresh_tokens WHERE token_hash=? AND revoked=0 LIMIT 1",
		tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.Revoked, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RefreshToken{}, ErrNotFound
	}
	return t, err
}

// RevokeRefreshIfActive flips revoked on a still-active token and
// reports whether this call was the one that flipped it. Concurrent
// refreshes racing on the same token serialize on this conditional
// update: exactly one caller sees claimed=true.
func (r *TokenRepo) RevokeRefreshIfActive(ctx context.Context, tokenHash string) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked=1 WHERE token_hash=? AND revoked=0", tokenHash)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// RevokeRefreshByHash marks a token revoked regardless of its current
// state. Revoking an already-revoked or nonexistent token is a no-op,
// which makes logout idempotent.
func (r *TokenRepo) RevokeRefreshByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked=1 WHERE token_hash=?", tokenHash)
	return err
}

// RevokeAllRefreshForUser revokes every live refresh token the user owns.
func (r *TokenRepo) RevokeAllRefreshForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked=1 WHERE user_id=? AND revoked=0", userID)
	return err
}

// ----- password reset tokens -----

// CreateResetSupersedingPrior marks all unused reset tokens of the user
// used and inserts the new one inside a single transaction, so two
// concurrent recovery requests can never leave two unused tokens live.
func (r *TokenRepo) CreateResetSupersedingPrior(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"UPDATE password_reset_tokens SET used=1 WHERE user_id=? AND used=0", userID); err != nil {
		return fmt.Errorf("supersede reset tokens: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO password_reset_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, expiresAt); err != nil {
		return fmt.Errorf("insert reset token: %w", err)
	}
	return tx.Commit()
}

// FindUnusedReset returns the unused reset token row for the hash.
func (r *TokenRepo) FindUnusedReset(ctx context.Context, tokenHash string) (model.PasswordResetToken, error) {
	var t model.PasswordResetToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,token_hash,expires_at,used,created_at FROM password_reset_tokens WHERE token_hash=? AND used=0 LIMIT 1",
		tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.Used, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PasswordResetToken{}, ErrNotFound
	}
	return t, err
}

// MarkResetUsedIfUnused claims a reset token for redemption. Like
// RevokeRefreshIfActive, the affected-row count picks a single winner
// among racing redemptions.
func (r *TokenRepo) MarkResetUsedIfUnused(ctx context.Context, tokenHash string) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE password_reset_tokens SET used=1 WHERE token_hash=? AND used=0", tokenHash)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
