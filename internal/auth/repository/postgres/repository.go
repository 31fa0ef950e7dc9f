package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/roland-adams2007/CreatorSpaceBackend/internal/auth/domain"
)

// DB is the slice of pgxpool.Pool the repository needs; pgxmock satisfies it
// in tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, uuid, fname, lname, email, password_hash, is_active, email_verified_at, last_login_at, created_at`

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1 LIMIT 1`, userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1 LIMIT 1`, userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.UUID, &user.Fname, &user.Lname, &user.Email,
		&user.PasswordHash, &user.IsActive, &user.EmailVerifiedAt, &user.LastLoginAt, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	query := `
		INSERT INTO users (uuid, fname, lname, email, password_hash, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, query,
		user.UUID, user.Fname, user.Lname, user.Email, user.PasswordHash,
		user.IsActive, user.CreatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	return id, nil
}

func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = $1 WHERE id = $2`, at, userID)
	return err
}

func (r *PostgresRepository) UpdateEmailVerified(ctx context.Context, userID int64, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET email_verified_at = $1 WHERE id = $2`, at, userID)
	return err
}

func (r *PostgresRepository) CountRecentFailures(ctx context.Context, email, ip string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM login_attempts
		WHERE email = $1 AND ip_address = $2 AND success = FALSE AND created_at >= $3`

	var count int
	if err := r.db.QueryRow(ctx, query, email, ip, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count login failures: %w", err)
	}

	return count, nil
}

func (r *PostgresRepository) RecordLoginAttempt(ctx context.Context, email, ip string, success bool) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO login_attempts (email, ip_address, success, created_at)
		VALUES ($1, $2, $3, now())
	`, email, ip, success)
	return err
}

func (r *PostgresRepository) ClearFailedAttempts(ctx context.Context, email, ip string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM login_attempts
		WHERE email = $1 AND ip_address = $2 AND success = FALSE
	`, email, ip)
	return err
}

func (r *PostgresRepository) CreateSession(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO user_sessions (session_id, user_id, ip_address, user_agent, device_label, created_at, last_seen_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		session.SessionID, session.UserID, session.IPAddress, session.UserAgent,
		session.DeviceLabel, session.CreatedAt, session.LastSeenAt)
	return err
}

func (r *PostgresRepository) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	query := `
		SELECT session_id, user_id, ip_address, user_agent, device_label, created_at, last_seen_at, revoked_at
		FROM user_sessions
		WHERE session_id = $1
		LIMIT 1`

	var session domain.Session
	err := r.db.QueryRow(ctx, query, sessionID).Scan(
		&session.SessionID, &session.UserID, &session.IPAddress, &session.UserAgent,
		&session.DeviceLabel, &session.CreatedAt, &session.LastSeenAt, &session.RevokedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &session, nil
}

// RevokeSession marks the session and its still-active refresh tokens
// revoked in one transaction. revoked_at is only ever set when NULL, so the
// operation is idempotent and one-way.
func (r *PostgresRepository) RevokeSession(ctx context.Context, sessionID string, at time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin revoke transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		UPDATE user_sessions SET revoked_at = $1
		WHERE session_id = $2 AND revoked_at IS NULL
	`, at, sessionID)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = $1
		WHERE session_id = $2 AND revoked_at IS NULL
	`, at, sessionID)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PostgresRepository) TouchSession(ctx context.Context, sessionID string, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE user_sessions SET last_seen_at = $1 WHERE session_id = $2`, at, sessionID)
	return err
}

func (r *PostgresRepository) CreateRefreshToken(ctx context.Context, rt *domain.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (user_id, session_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query, rt.UserID, rt.SessionID, rt.TokenHash, rt.ExpiresAt, rt.CreatedAt)
	return err
}

func (r *PostgresRepository) GetRefreshToken(ctx context.Context, tokenHash, sessionID string) (*domain.RefreshToken, error) {
	query := `
		SELECT id, user_id, session_id, token_hash, expires_at, created_at, revoked_at
		FROM refresh_tokens
		WHERE token_hash = $1 AND session_id = $2
		LIMIT 1`

	var rt domain.RefreshToken
	err := r.db.QueryRow(ctx, query, tokenHash, sessionID).Scan(
		&rt.ID, &rt.UserID, &rt.SessionID, &rt.TokenHash, &rt.ExpiresAt, &rt.CreatedAt, &rt.RevokedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	return &rt, nil
}

// ReplaceEmailToken deletes unused tokens for the same (user, type) and
// inserts the new one in a single transaction, so two concurrent issuances
// can never both stay valid.
func (r *PostgresRepository) ReplaceEmailToken(ctx context.Context, et *domain.EmailToken) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin replace transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		DELETE FROM email_tokens
		WHERE user_id = $1 AND type = $2 AND used_at IS NULL
	`, et.UserID, et.Type)
	if err != nil {
		return fmt.Errorf("failed to delete prior email tokens: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO email_tokens (user_id, email, type, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, et.UserID, et.Email, et.Type, et.TokenHash, et.ExpiresAt, et.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert email token: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PostgresRepository) GetEmailToken(ctx context.Context, tokenHash, tokenType string) (*domain.EmailToken, error) {
	query := `
		SELECT id, user_id, email, type, token_hash, expires_at, used_at, created_at
		FROM email_tokens
		WHERE token_hash = $1 AND type = $2 AND used_at IS NULL
		LIMIT 1`

	var et domain.EmailToken
	err := r.db.QueryRow(ctx, query, tokenHash, tokenType).Scan(
		&et.ID, &et.UserID, &et.Email, &et.Type, &et.TokenHash, &et.ExpiresAt, &et.UsedAt, &et.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get email token: %w", err)
	}

	return &et, nil
}

func (r *PostgresRepository) MarkEmailTokenUsed(ctx context.Context, tokenHash string, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE email_tokens SET used_at = $1 WHERE token_hash = $2`, at, tokenHash)
	return err
}
