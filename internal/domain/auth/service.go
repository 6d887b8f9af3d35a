package auth

import "context"

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*TokenResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error)
	RequestMagicLink(ctx context.Context, req *MagicLinkRequest) error
	VerifyMagicLink(ctx context.Context, req *MagicLinkVerifyRequest) (*TokenResponse, error)
	Refresh(ctx context.Context, req *RefreshRequest) (*TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

// RefreshTokenRepository stores issued refresh tokens by hash so a stolen
// database copy cannot be replayed directly.
type RefreshTokenRepository interface {
	Store(ctx context.Context, userID, tokenHash string) error
	// Consume revokes the token and returns the owning user id. Returns
	// ErrInvalidRefreshToken when the token is unknown or already revoked.
	Consume(ctx context.Context, tokenHash string) (string, error)
	Revoke(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}
