package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/auth"
	"github.com/attendly-hq/attendance-backend-go/internal/domain/user"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/jwt"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/session"
)

type fakeUserRepo struct {
	users  map[string]*user.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*user.User)}
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return user.ErrUserEmailExists
		}
	}
	f.nextID++
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	u.IsActive = true
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) ApplyOnTimeCheckIn(ctx context.Context, userID string) (*user.User, error) {
	return f.users[userID], nil
}

func (f *fakeUserRepo) ApplyLateCheckIn(ctx context.Context, userID string) (*user.User, error) {
	return f.users[userID], nil
}

func (f *fakeUserRepo) SetMagicLink(ctx context.Context, userID, token string, expiresAt time.Time) error {
	u, ok := f.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.MagicLinkToken = &token
	u.MagicLinkExpiresAt = &expiresAt
	return nil
}

func (f *fakeUserRepo) GetByMagicLinkToken(ctx context.Context, token string) (*user.User, error) {
	for _, u := range f.users {
		if u.MagicLinkToken != nil && *u.MagicLinkToken == token {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUserRepo) ClearMagicLink(ctx context.Context, userID string) error {
	u, ok := f.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.MagicLinkToken = nil
	u.MagicLinkExpiresAt = nil
	return nil
}

func (f *fakeUserRepo) ListActiveIDs(ctx context.Context) ([]string, error) { return nil, nil }

type fakeRefreshRepo struct {
	mu      sync.Mutex
	tokens  map[string]string // hash -> userID
	revoked map[string]bool
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{tokens: make(map[string]string), revoked: make(map[string]bool)}
}

func (f *fakeRefreshRepo) Store(ctx context.Context, userID, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[tokenHash] = userID
	return nil
}

func (f *fakeRefreshRepo) Consume(ctx context.Context, tokenHash string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	userID, ok := f.tokens[tokenHash]
	if !ok || f.revoked[tokenHash] {
		return "", auth.ErrInvalidRefreshToken
	}
	f.revoked[tokenHash] = true
	return userID, nil
}

func (f *fakeRefreshRepo) Revoke(ctx context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[tokenHash] = true
	return nil
}

func (f *fakeRefreshRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for hash, owner := range f.tokens {
		if owner == userID {
			f.revoked[hash] = true
		}
	}
	return nil
}

type fakeEmailService struct {
	mu        sync.Mutex
	sent      []string
	lastLink  string
	lastEmail string
}

func (f *fakeEmailService) SendMagicLink(to, name, magicLink, expiresAt string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to)
	f.lastLink = magicLink
	f.lastEmail = to
	return nil
}

func newTestAuthService(t *testing.T) (*AuthServiceImpl, *fakeUserRepo, *fakeRefreshRepo, *fakeEmailService) {
	t.Helper()
	userRepo := newFakeUserRepo()
	refreshRepo := newFakeRefreshRepo()
	emailSvc := &fakeEmailService{}
	jwtSvc := jwt.NewJWTService("test-secret", "1h", "24h")
	tracker := session.NewTracker(time.Hour, nil)
	t.Cleanup(tracker.Stop)

	svc := NewAuthService(userRepo, refreshRepo, jwtSvc, emailSvc, tracker, "http://localhost:5173")
	return svc, userRepo, refreshRepo, emailSvc
}

func TestRegisterAndLogin(t *testing.T) {
	svc, userRepo, _, _ := newTestAuthService(t)
	ctx := context.Background()

	tokens, err := svc.Register(ctx, &auth.RegisterRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, "employee", tokens.User.Role)

	stored, err := userRepo.GetByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*stored.PasswordHash), []byte("supersecret")))

	loggedIn, err := svc.Login(ctx, &auth.LoginRequest{Email: "asha@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, tokens.User.ID, loggedIn.User.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	ctx := context.Background()

	req := &auth.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "supersecret"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, user.ErrUserEmailExists)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &auth.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "supersecret"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &auth.LoginRequest{Email: "asha@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &auth.LoginRequest{Email: "nobody@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_SuspendedAccount(t *testing.T) {
	svc, userRepo, _, emailSvc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &auth.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "supersecret"})
	require.NoError(t, err)

	for _, u := range userRepo.users {
		u.IsActive = false
	}

	_, err = svc.Login(ctx, &auth.LoginRequest{Email: "asha@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, auth.ErrUserSuspended)

	// magic-link requests for suspended accounts succeed without sending
	err = svc.RequestMagicLink(ctx, &auth.MagicLinkRequest{Email: "asha@example.com"})
	require.NoError(t, err)
	assert.Empty(t, emailSvc.sent)
}

func TestMagicLinkFlow(t *testing.T) {
	svc, userRepo, _, emailSvc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &auth.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "supersecret"})
	require.NoError(t, err)

	err = svc.RequestMagicLink(ctx, &auth.MagicLinkRequest{Email: "asha@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", emailSvc.lastEmail)

	stored, err := userRepo.GetByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.MagicLinkToken)
	assert.Contains(t, emailSvc.lastLink, *stored.MagicLinkToken)

	tokens, err := svc.VerifyMagicLink(ctx, &auth.MagicLinkVerifyRequest{Token: *stored.MagicLinkToken})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)

	// Single use: the token is cleared on verification.
	assert.Nil(t, stored.MagicLinkToken)
}

func TestMagicLink_UnknownEmailSilent(t *testing.T) {
	svc, _, _, emailSvc := newTestAuthService(t)

	err := svc.RequestMagicLink(context.Background(), &auth.MagicLinkRequest{Email: "ghost@example.com"})
	assert.NoError(t, err)
	assert.Empty(t, emailSvc.sent)
}

func TestMagicLink_Expired(t *testing.T) {
	svc, userRepo, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &auth.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "supersecret"})
	require.NoError(t, err)
	err = svc.RequestMagicLink(ctx, &auth.MagicLinkRequest{Email: "asha@example.com"})
	require.NoError(t, err)

	stored, err := userRepo.GetByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	token := *stored.MagicLinkToken

	svc.nowFn = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = svc.VerifyMagicLink(ctx, &auth.MagicLinkVerifyRequest{Token: token})
	assert.ErrorIs(t, err, auth.ErrInvalidMagicLink)
}

func TestRefresh_RotatesToken(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	ctx := context.Background()

	tokens, err := svc.Register(ctx, &auth.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "supersecret"})
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, &auth.RefreshRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)

	// The consumed token cannot be replayed.
	_, err = svc.Refresh(ctx, &auth.RefreshRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	ctx := context.Background()

	tokens, err := svc.Register(ctx, &auth.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "supersecret"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, tokens.RefreshToken))

	_, err = svc.Refresh(ctx, &auth.RefreshRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestLogout_CancelsIdleTimer(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	ctx := context.Background()

	tokens, err := svc.Register(ctx, &auth.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.True(t, svc.tracker.Active(tokens.User.ID))

	require.NoError(t, svc.Logout(ctx, tokens.RefreshToken))
	assert.False(t, svc.tracker.Active(tokens.User.ID))
}
