package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/auth"
	"github.com/attendly-hq/attendance-backend-go/internal/domain/user"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/email"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/jwt"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/session"
)

const magicLinkTTL = 15 * time.Minute

type AuthServiceImpl struct {
	user.UserRepository
	auth.RefreshTokenRepository
	jwtService   jwt.Service
	emailService email.EmailService
	tracker      *session.Tracker
	appBaseURL   string
	nowFn        func() time.Time
}

func NewAuthService(
	userRepo user.UserRepository,
	refreshTokenRepo auth.RefreshTokenRepository,
	jwtService jwt.Service,
	emailService email.EmailService,
	tracker *session.Tracker,
	appBaseURL string,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		UserRepository:         userRepo,
		RefreshTokenRepository: refreshTokenRepo,
		jwtService:             jwtService,
		emailService:           emailService,
		tracker:                tracker,
		appBaseURL:             appBaseURL,
		nowFn:                  time.Now,
	}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *AuthServiceImpl) issueTokens(ctx context.Context, u *user.User) (*auth.TokenResponse, error) {
	accessToken, _, err := s.jwtService.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, _, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	if err := s.RefreshTokenRepository.Store(ctx, u.ID, hashToken(refreshToken)); err != nil {
		return nil, err
	}

	if s.tracker != nil {
		s.tracker.Touch(u.ID)
	}

	return &auth.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         auth.ToUserResponse(u),
	}, nil
}

// Register implements auth.AuthService.
func (s *AuthServiceImpl) Register(ctx context.Context, req *auth.RegisterRequest) (*auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	hashStr := string(hash)

	role := user.RoleEmployee
	if req.Role != "" {
		role = user.Role(req.Role)
	}

	u := &user.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: &hashStr,
		Role:         role,
		Department:   req.Department,
	}
	if err := s.UserRepository.Create(ctx, u); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, user.ErrUserEmailExists
		}
		return nil, err
	}

	return s.issueTokens(ctx, u)
}

// Login implements auth.AuthService.
func (s *AuthServiceImpl) Login(ctx context.Context, req *auth.LoginRequest) (*auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}
	if u.PasswordHash == nil {
		return nil, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, auth.ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, auth.ErrUserSuspended
	}

	return s.issueTokens(ctx, u)
}

// RequestMagicLink implements auth.AuthService. An unknown email is treated
// as success so the endpoint cannot be used to probe which addresses exist.
func (s *AuthServiceImpl) RequestMagicLink(ctx context.Context, req *auth.MagicLinkRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			slog.Info("Magic link requested for unknown email", "email", req.Email)
			return nil
		}
		return err
	}

	if !u.IsActive {
		slog.Info("Magic link requested for suspended account", "user_id", u.ID)
		return nil
	}

	token := uuid.NewString()
	expiresAt := s.nowFn().Add(magicLinkTTL)
	if err := s.UserRepository.SetMagicLink(ctx, u.ID, token, expiresAt); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/auth/magic?token=%s", s.appBaseURL, token)
	if err := s.emailService.SendMagicLink(u.Email, u.Name, link, expiresAt.Format(time.RFC1123)); err != nil {
		return fmt.Errorf("failed to send magic link email: %w", err)
	}
	return nil
}

// VerifyMagicLink implements auth.AuthService. Links are single use: the
// token is cleared before tokens are issued.
func (s *AuthServiceImpl) VerifyMagicLink(ctx context.Context, req *auth.MagicLinkVerifyRequest) (*auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.UserRepository.GetByMagicLinkToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, auth.ErrInvalidMagicLink
		}
		return nil, err
	}
	if u.MagicLinkExpiresAt == nil || s.nowFn().After(*u.MagicLinkExpiresAt) {
		return nil, auth.ErrInvalidMagicLink
	}
	if !u.IsActive {
		return nil, auth.ErrUserSuspended
	}

	if err := s.UserRepository.ClearMagicLink(ctx, u.ID); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, u)
}

// Refresh implements auth.AuthService. Refresh tokens rotate: the presented
// token is consumed and a fresh pair is issued.
func (s *AuthServiceImpl) Refresh(ctx context.Context, req *auth.RefreshRequest) (*auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.jwtService.ValidateRefreshToken(req.RefreshToken); err != nil {
		return nil, auth.ErrInvalidRefreshToken
	}

	userID, err := s.RefreshTokenRepository.Consume(ctx, hashToken(req.RefreshToken))
	if err != nil {
		return nil, err
	}

	u, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, auth.ErrUserSuspended
	}

	return s.issueTokens(ctx, u)
}

// Logout implements auth.AuthService. The refresh token is revoked and the
// user's idle timer is cancelled so it cannot fire against a dead session.
func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	userID, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return auth.ErrInvalidRefreshToken
	}

	if err := s.RefreshTokenRepository.Revoke(ctx, hashToken(refreshToken)); err != nil {
		return err
	}

	if s.tracker != nil {
		s.tracker.Remove(userID)
	}
	return nil
}
