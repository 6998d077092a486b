package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/lfcamara/user-auth-service/internal/repository"
	"github.com/lfcamara/user-auth-service/internal/utils"
)

// ResetAcknowledgment is the fixed response for every reset request.
// The same bytes go back whether or not the email exists, so responses
// cannot be used to enumerate accounts.
const ResetAcknowledgment = "If the email exists, you will receive a recovery link"

const resetEmailSubject = "Password Recovery"

// RequestReset starts the recovery flow for an email address. For a
// known user it supersedes all prior unused reset tokens and issues a
// new one in a single transaction, then hands the reset link to the
// notifier. Notifier failures are logged and swallowed: the caller
// always receives the generic acknowledgment.
func (s *AuthService) RequestReset(ctx context.Context, email string) (string, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ResetAcknowledgment, nil
		}
		return "", err
	}

	raw := utils.NewOpaqueToken()
	exp := s.now().UTC().Add(s.resetTTL)
	if err := s.tokens.CreateResetSupersedingPrior(ctx, u.ID, utils.HashTokenRaw(raw), exp); err != nil {
		return "", err
	}

	link := s.frontendURL + "/reset-password?token=" + raw
	if err := s.notifier.Send(ctx, u.Email, resetEmailSubject, resetEmailBody(u.Name, link)); err != nil {
		log.Printf("recovery: reset email to %s failed: %v", u.Email, err)
	}
	return ResetAcknowledgment, nil
}

// RedeemReset consumes a reset token and sets a new password. The token
// is claimed first via a conditional update, so racing redemptions of
// the same token produce a single winner. On success every live refresh
// token of the owner is revoked: a password reset logs the user out of
// all sessions.
func (s *AuthService) RedeemReset(ctx context.Context, raw, newPassword string) error {
	hash := utils.HashTokenRaw(raw)

	t, err := s.tokens.FindUnusedReset(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	// Same strictly-before convention as refresh tokens: expiring
	// exactly at the check instant is still valid.
	if t.ExpiresAt.Before(s.now()) {
		return ErrInvalidToken
	}

	claimed, err := s.tokens.MarkResetUsedIfUnused(ctx, hash)
	if err != nil {
		return err
	}
	if !claimed {
		return ErrInvalidToken
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, t.UserID, newHash); err != nil {
		return err
	}
	return s.tokens.RevokeAllRefreshForUser(ctx, t.UserID)
}

// resetEmailBody renders the recovery email. The link must carry the
// raw token as the `token` query parameter of the frontend reset page.
func resetEmailBody(name, link string) string {
	return fmt.Sprintf(`<h2>Password Recovery</h2>
<p>Hello %s,</p>
<p>You requested a password reset. Click the link below to choose a new password:</p>
<a href="%s" style="display: inline-block; padding: 10px 20px; background-color: #007bff; color: white; text-decoration: none; border-radius: 5px;">Reset Password</a>
<p>This link expires in 15 minutes.</p>
<p>If you did not request this, you can safely ignore this email.</p>`, name, link)
}
