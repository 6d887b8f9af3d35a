package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidMagicLink    = errors.New("magic link is invalid or has expired")
	ErrInvalidRefreshToken = errors.New("refresh token is invalid or has been revoked")
	ErrUserSuspended       = errors.New("user account is suspended")
)
