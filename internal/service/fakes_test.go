package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/lfcamara/user-auth-service/internal/config"
	"github.com/lfcamara/user-auth-service/internal/model"
	"github.com/lfcamara/user-auth-service/internal/repository"
	"github.com/lfcamara/user-auth-service/internal/utils"
)

// In-memory fakes for the service's collaborator interfaces. The token
// store reproduces the conditional-update semantics of the SQL store
// under a mutex, so race tests exercise the same single-winner contract.

type fakeDirectory struct {
	mu   sync.Mutex
	seq  uint64
	byID map[uint64]model.User
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{byID: make(map[uint64]model.User)}
}

func (d *fakeDirectory) FindByEmail(_ context.Context, email string) (model.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (d *fakeDirectory) FindByID(_ context.Context, id uint64) (model.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (d *fakeDirectory) Create(_ context.Context, email, name, passwordHash string, role model.Role) (model.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.byID {
		if u.Email == email {
			return model.User{}, repository.ErrEmailExists
		}
	}
	d.seq++
	u := model.User{
		ID:           d.seq,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	d.byID[u.ID] = u
	return u, nil
}

func (d *fakeDirectory) UpdatePassword(_ context.Context, id uint64, passwordHash string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	d.byID[id] = u
	return nil
}

// setActive flips the activation flag directly, for disabled-account tests.
func (d *fakeDirectory) setActive(id uint64, active bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u := d.byID[id]
	u.IsActive = active
	d.byID[id] = u
}

type fakeTokenStore struct {
	mu      sync.Mutex
	refresh map[string]*model.RefreshToken
	resets  map[string]*model.PasswordResetToken
	seq     uint64
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{
		refresh: make(map[string]*model.RefreshToken),
		resets:  make(map[string]*model.PasswordResetToken),
	}
}

func (s *fakeTokenStore) StoreRefresh(_ context.Context, userID uint64, tokenHash string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.refresh[tokenHash] = &model.RefreshToken{
		ID: s.seq, UserID: userID, TokenHash: tokenHash,
		ExpiresAt: expiresAt, CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (s *fakeTokenStore) FindRefresh(_ context.Context, tokenHash string) (model.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.refresh[tokenHash]
	if !ok || t.Revoked {
		return model.RefreshToken{}, repository.ErrNotFound
	}
	return *t, nil
}

func (s *fakeTokenStore) RevokeRefreshIfActive(_ context.Context, tokenHash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.refresh[tokenHash]
	if !ok || t.Revoked {
		return false, nil
	}
	t.Revoked = true
	return true, nil
}

func (s *fakeTokenStore) RevokeRefreshByHash(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.refresh[tokenHash]; ok {
		t.Revoked = true
	}
	return nil
}

func (s *fakeTokenStore) RevokeAllRefreshForUser(_ context.Context, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.refresh {
		if t.UserID == userID {
			t.Revoked = true
		}
	}
	return nil
}

func (s *fakeTokenStore) CreateResetSupersedingPrior(_ context.Context, userID uint64, tokenHash string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.resets {
		if t.UserID == userID && !t.Used {
			t.Used = true
		}
	}
	s.seq++
	s.resets[tokenHash] = &model.PasswordResetToken{
		ID: s.seq, UserID: userID, TokenHash: tokenHash,
		ExpiresAt: expiresAt, CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (s *fakeTokenStore) FindUnusedReset(_ context.Context, tokenHash string) (model.PasswordResetToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.resets[tokenHash]
	if !ok || t.Used {
		return model.PasswordResetToken{}, repository.ErrNotFound
	}
	return *t, nil
}

func (s *fakeTokenStore) MarkResetUsedIfUnused(_ context.Context, tokenHash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.resets[tokenHash]
	if !ok || t.Used {
		return false, nil
	}
	t.Used = true
	return true, nil
}

// liveRefreshCount reports how many refresh tokens of the user are
// still unrevoked.
func (s *fakeTokenStore) liveRefreshCount(userID uint64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.refresh {
		if t.UserID == userID && !t.Revoked {
			n++
		}
	}
	return n
}

// unusedResetCount reports how many reset tokens of the user are unused.
func (s *fakeTokenStore) unusedResetCount(userID uint64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.resets {
		if t.UserID == userID && !t.Used {
			n++
		}
	}
	return n
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

func (n *fakeNotifier) Send(_ context.Context, to, subject, htmlBody string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail != nil {
		return n.fail
	}
	n.sent = append(n.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func (n *fakeNotifier) last(t *testing.T) sentMail {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		t.Fatal("no email was sent")
	}
	return n.sent[len(n.sent)-1]
}

func testConfig() config.Config {
	return config.Config{
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		ResetTTLMin:    15,
		FrontendURL:    "https://app.example.com",
	}
}

// newTestService wires a service over fakes with a low-cost hasher so
// tests stay fast.
func newTestService(t *testing.T) (*AuthService, *fakeDirectory, *fakeTokenStore, *fakeNotifier) {
	t.Helper()
	dir := newFakeDirectory()
	store := newFakeTokenStore()
	notif := &fakeNotifier{}
	svc := NewAuthService(testConfig(), dir, store, utils.NewBcryptHasher(bcrypt.MinCost), notif)
	return svc, dir, store, notif
}

// parseAccessClaims verifies an access token's signature and returns
// its claims.
func parseAccessClaims(t *testing.T, secret, token string) jwt.MapClaims {
	t.Helper()
	tok, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("access token did not verify: %v", err)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("unexpected claims type")
	}
	return claims
}

// resetTokenFromEmail pulls the raw reset token out of the link in a
// recovery email body.
func resetTokenFromEmail(t *testing.T, body string) string {
	t.Helper()
	const marker = "/reset-password?token="
	i := strings.Index(body, marker)
	if i < 0 {
		t.Fatalf("email body has no reset link: %q", body)
	}
	rest := body[i+len(marker):]
	if j := strings.IndexByte(rest, '"'); j >= 0 {
		rest = rest[:j]
	}
	if rest == "" {
		t.Fatal("reset link carries an empty token")
	}
	return rest
}

// registerAndLogin seeds a user and opens a session.
func registerAndLogin(t *testing.T, svc *AuthService, email, name, password string) LoginResult {
	t.Helper()
	ctx := context.Background()
	if _, err := svc.Register(ctx, email, name, password); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	u, err := svc.Authenticate(ctx, email, password)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	res, err := svc.Login(ctx, u)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return res
}
