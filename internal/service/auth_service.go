package service

import (
	"context"
	"errors"
	"time"

	"github.com/lfcamara/user-auth-service/internal/config"
	"github.com/lfcamara/user-auth-service/internal/model"
	"github.com/lfcamara/user-auth-service/internal/repository"
	"github.com/lfcamara/user-auth-service/internal/utils"
)

// TokenPair is a freshly minted access/refresh pair. The refresh token
// is the raw opaque secret; it is returned to the client once and only
// its hash is persisted.
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	User   model.PublicUser `json:"user"`
	Tokens TokenPair        `json:"tokens"`
}

// AuthService is the session authority. All collaborators are injected
// at construction; the clock is a field so expiry-boundary behavior is
// testable.
type AuthService struct {
	users    UserDirectory
	tokens   TokenStore
	hasher   PasswordHasher
	notifier Notifier

	jwtSecret   string
	accessTTL   time.Duration
	refreshTTL  time.Duration
	resetTTL    time.Duration
	frontendURL string

	now func() time.Time
}

// NewAuthService wires the session authority from its capabilities and
// the loaded configuration.
func NewAuthService(cfg config.Config, users UserDirectory, tokens TokenStore, hasher PasswordHasher, notifier Notifier) *AuthService {
	return &AuthService{
		users:       users,
		tokens:      tokens,
		hasher:      hasher,
		notifier:    notifier,
		jwtSecret:   cfg.JWTSecret,
		accessTTL:   time.Duration(cfg.AccessTTLMin) * time.Minute,
		refreshTTL:  time.Duration(cfg.RefreshTTLDays) * 24 * time.Hour,
		resetTTL:    time.Duration(cfg.ResetTTLMin) * time.Minute,
		frontendURL: cfg.FrontendURL,
		now:         time.Now,
	}
}

// Register creates a user with default role "user" and returns its
// public projection. The email must not already exist in the directory.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (model.PublicUser, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return model.PublicUser{}, ErrEmailExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return model.PublicUser{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return model.PublicUser{}, err
	}
	u, err := s.users.Create(ctx, email, name, hash, model.RoleUser)
	if err != nil {
		// A concurrent registration can still win the insert race;
		// the unique index turns that into the same conflict.
		if errors.Is(err, repository.ErrEmailExists) {
			return model.PublicUser{}, ErrEmailExists
		}
		return model.PublicUser{}, err
	}
	return u.Public(), nil
}

// Authenticate verifies an email/password pair. Unknown email and wrong
// password fail identically; an inactive account is only reported after
// the credentials check out.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (model.PublicUser, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.PublicUser{}, ErrInvalidCredentials
		}
		return model.PublicUser{}, err
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return model.PublicUser{}, ErrInvalidCredentials
	}
	if !u.IsActive {
		return model.PublicUser{}, ErrAccountDisabled
	}
	return u.Public(), nil
}

// Login issues a fresh access/refresh pair for an authenticated user.
// No prior tokens are touched.
func (s *AuthService) Login(ctx context.Context, user model.PublicUser) (LoginResult, error) {
	pair, err := s.issuePair(ctx, user.ID, user.Email, string(user.Role))
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{User: user, Tokens: pair}, nil
}

// Refresh rotates a refresh token: the presented token is revoked
// atomically with the issuance of its successor, and claims are minted
// from the owner's current identity. Reuse of an already-rotated token
// fails; when two requests race on the same token the conditional
// revoke lets exactly one of them win.
func (s *AuthService) Refresh(ctx context.Context, raw string) (TokenPair, error) {
	hash := utils.HashTokenRaw(raw)

	t, err := s.tokens.FindRefresh(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, ErrInvalidToken
		}
		return TokenPair{}, err
	}
	// Strictly-before comparison: a token expiring exactly now is
	// still accepted.
	if t.ExpiresAt.Before(s.now()) {
		return TokenPair{}, ErrInvalidToken
	}

	claimed, err := s.tokens.RevokeRefreshIfActive(ctx, hash)
	if err != nil {
		return TokenPair{}, err
	}
	if !claimed {
		return TokenPair{}, ErrInvalidToken
	}

	u, err := s.users.FindByID(ctx, t.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, ErrInvalidToken
		}
		return TokenPair{}, err
	}
	return s.issuePair(ctx, u.ID, u.Email, string(u.Role))
}

// Logout revokes the presented refresh token regardless of its current
// state. Logging out an already-revoked or unknown token is not an
// error.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	return s.tokens.RevokeRefreshByHash(ctx, utils.HashTokenRaw(raw))
}

// Profile returns the public projection for a direct id lookup.
func (s *AuthService) Profile(ctx context.Context, id uint64) (model.PublicUser, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.PublicUser{}, ErrUserNotFound
		}
		return model.PublicUser{}, err
	}
	return u.Public(), nil
}

// issuePair mints a signed access token and a stored-hashed refresh
// token for the given identity.
func (s *AuthService) issuePair(ctx context.Context, userID uint64, email, role string) (TokenPair, error) {
	now := s.now()
	access, err := utils.NewAccessToken(s.jwtSecret, userID, email, role, now, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	raw := utils.NewOpaqueToken()
	exp := now.UTC().Add(s.refreshTTL)
	if err := s.tokens.StoreRefresh(ctx, userID, utils.HashTokenRaw(raw), exp); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access.Token,
		AccessExpiresAt:  access.Exp,
		RefreshToken:     raw,
		RefreshExpiresAt: exp,
	}, nil
}
