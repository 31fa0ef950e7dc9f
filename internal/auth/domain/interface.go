package domain

import (
	"context"
	"time"
)

type UserRepository interface {
	// GetByEmail returns (nil, nil) when no user matches.
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, user *User) (int64, error)
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error
	UpdateEmailVerified(ctx context.Context, userID int64, at time.Time) error

	CountRecentFailures(ctx context.Context, email, ip string, since time.Time) (int, error)
	RecordLoginAttempt(ctx context.Context, email, ip string, success bool) error
	ClearFailedAttempts(ctx context.Context, email, ip string) error

	CreateSession(ctx context.Context, session *Session) error
	// GetSession returns (nil, nil) when no session matches.
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	// RevokeSession also revokes any still-active refresh token tied to the
	// session. Idempotent.
	RevokeSession(ctx context.Context, sessionID string, at time.Time) error
	TouchSession(ctx context.Context, sessionID string, at time.Time) error

	CreateRefreshToken(ctx context.Context, rt *RefreshToken) error
	// GetRefreshToken looks up by (hash, session id); the pairing is what
	// stops a refresh token being replayed against a foreign session.
	// Returns (nil, nil) when nothing matches.
	GetRefreshToken(ctx context.Context, tokenHash, sessionID string) (*RefreshToken, error)

	// ReplaceEmailToken atomically deletes unused tokens for the same
	// (user, type) and inserts the new one.
	ReplaceEmailToken(ctx context.Context, et *EmailToken) error
	// GetEmailToken returns only unused tokens of the given type, or
	// (nil, nil) when nothing matches.
	GetEmailToken(ctx context.Context, tokenHash, tokenType string) (*EmailToken, error)
	MarkEmailTokenUsed(ctx context.Context, tokenHash string, at time.Time) error
}
