package errors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrTooManyLoginAttempts  = errors.New("too many login attempts, please try again later")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAccountInactive       = errors.New("account is inactive, please contact support")
	ErrEmailUnverified       = errors.New("account not verified, a new verification email has been sent")
	ErrEmailAlreadyInUse     = errors.New("email already exists")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrSessionRevoked        = errors.New("session has been revoked")
	ErrRefreshTokenInvalid   = errors.New("invalid refresh token")
	ErrRefreshTokenRevoked   = errors.New("refresh token revoked, please log in again")
	ErrRefreshTokenExpired   = errors.New("refresh token expired, please log in again")
	ErrSessionExpired        = errors.New("session expired, please log in again")
	ErrTokenInvalidOrExpired = errors.New("invalid or expired token")
	ErrRateLimited           = errors.New("too many emails sent, please wait before trying again")
)

// StatusCode maps a service error onto the HTTP taxonomy: 400 validation,
// 401 broken token/refresh chain, 403 account or session state, 429
// lockout/rate limit, 500 everything else.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrEmailAlreadyInUse),
		errors.Is(err, ErrTokenInvalidOrExpired):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrSessionRevoked),
		errors.Is(err, ErrRefreshTokenInvalid),
		errors.Is(err, ErrRefreshTokenRevoked),
		errors.Is(err, ErrRefreshTokenExpired),
		errors.Is(err, ErrSessionExpired):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrAccountInactive),
		errors.Is(err, ErrEmailUnverified):
		return fiber.StatusForbidden
	case errors.Is(err, ErrTooManyLoginAttempts),
		errors.Is(err, ErrRateLimited):
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}
