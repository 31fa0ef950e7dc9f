package service

import (
	"context"
	"errors"
	"time"

	"github.com/roland-adams2007/CreatorSpaceBackend/internal/auth/domain"
	"github.com/roland-adams2007/CreatorSpaceBackend/internal/auth/dto"
	autherror "github.com/roland-adams2007/CreatorSpaceBackend/internal/errors"
	"github.com/roland-adams2007/CreatorSpaceBackend/pkg/logger"
)

type SessionService struct {
	repo   domain.UserRepository
	tokens TokenGenerator
}

func NewSessionService(repo domain.UserRepository, tokens TokenGenerator) *SessionService {
	return &SessionService{repo: repo, tokens: tokens}
}

// Validate drives the token state machine: a valid access token only needs
// its session live and its user active; an expired one falls through to the
// refresh path, which requires both cookies and looks the refresh token up
// by (hash, session id) so a token cannot be replayed against a session it
// was not issued for. A structurally invalid token rejects immediately with
// no refresh attempt. The refresh token is not rotated on use.
func (s *SessionService) Validate(ctx context.Context, accessToken, refreshCookie, sessionCookie string) (*dto.AuthContext, error) {
	if accessToken == "" {
		return nil, autherror.ErrUnauthorized
	}

	claims, err := s.tokens.VerifyAccessToken(accessToken)
	if err != nil {
		if errors.Is(err, ErrAccessTokenExpired) {
			return s.refresh(ctx, refreshCookie, sessionCookie)
		}
		return nil, autherror.ErrUnauthorized
	}

	user, err := s.requireLiveSession(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}

	s.touch(ctx, claims.SessionID)

	return &dto.AuthContext{User: user, SessionID: claims.SessionID}, nil
}

func (s *SessionService) refresh(ctx context.Context, refreshCookie, sessionCookie string) (*dto.AuthContext, error) {
	if refreshCookie == "" || sessionCookie == "" {
		return nil, autherror.ErrSessionExpired
	}

	record, err := s.repo.GetRefreshToken(ctx, s.tokens.HashToken(refreshCookie), sessionCookie)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, autherror.ErrRefreshTokenInvalid
	}
	if record.Revoked() {
		return nil, autherror.ErrRefreshTokenRevoked
	}
	if record.Expired(time.Now()) {
		return nil, autherror.ErrRefreshTokenExpired
	}

	user, err := s.requireLiveSession(ctx, record.SessionID)
	if err != nil {
		return nil, err
	}

	newAccessToken, err := s.tokens.IssueAccessToken(user, record.SessionID)
	if err != nil {
		return nil, err
	}

	s.touch(ctx, record.SessionID)

	return &dto.AuthContext{
		User:           user,
		SessionID:      record.SessionID,
		NewAccessToken: newAccessToken,
	}, nil
}

// requireLiveSession enforces the liveness layered on top of stateless
// tokens: the session must exist unrevoked and its user must be active.
func (s *SessionService) requireLiveSession(ctx context.Context, sessionID string) (*domain.User, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, autherror.ErrUnauthorized
	}
	if session.Revoked() {
		return nil, autherror.ErrSessionRevoked
	}

	user, err := s.repo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, autherror.ErrAccountInactive
	}

	return user, nil
}

// Logout revokes the session and, through the repository cascade, any
// still-active refresh token tied to it. Idempotent.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	return s.repo.RevokeSession(ctx, sessionID, time.Now())
}

func (s *SessionService) touch(ctx context.Context, sessionID string) {
	// last_seen_at is audit data; concurrent writers racing here is fine.
	if err := s.repo.TouchSession(ctx, sessionID, time.Now()); err != nil {
		logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to touch session")
	}
}
