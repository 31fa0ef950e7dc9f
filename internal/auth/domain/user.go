package domain

import "time"

type User struct {
	ID              int64
	UUID            string
	Fname           string
	Lname           string
	Email           string
	PasswordHash    string
	IsActive        bool
	EmailVerifiedAt *time.Time
	LastLoginAt     *time.Time
	CreatedAt       time.Time
}

// Verified reports whether the user has completed email verification.
func (u *User) Verified() bool {
	return u.EmailVerifiedAt != nil
}

// Session is the root of trust for one login; both the access token and the
// refresh token reference its SessionID. Revocation is one-way.
type Session struct {
	SessionID   string
	UserID      int64
	IPAddress   string
	UserAgent   string
	DeviceLabel string
	CreatedAt   time.Time
	LastSeenAt  time.Time
	RevokedAt   *time.Time
}

func (s *Session) Revoked() bool {
	return s.RevokedAt != nil
}

// RefreshToken holds only the sha256 hash of the raw token; the raw value
// leaves the process exactly once, in the login response cookie.
type RefreshToken struct {
	ID        int64
	UserID    int64
	SessionID string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

func (rt *RefreshToken) Revoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) Expired(now time.Time) bool {
	return !rt.ExpiresAt.After(now)
}

// EmailToken is a single-use, type-scoped token (hash only) for flows such
// as email verification.
type EmailToken struct {
	ID        int64
	UserID    int64
	Email     string
	Type      string
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

func (et *EmailToken) Expired(now time.Time) bool {
	return et.ExpiresAt.Before(now)
}

// LoginAttempt is append-only; it only ever feeds the sliding failure
// counter for an (email, ip) pair.
type LoginAttempt struct {
	ID        int64
	Email     string
	IPAddress string
	Success   bool
	CreatedAt time.Time
}
