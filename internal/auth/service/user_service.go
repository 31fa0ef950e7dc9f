package service

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/roland-adams2007/CreatorSpaceBackend/internal/auth/domain UserRepository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/roland-adams2007/CreatorSpaceBackend/config"
	"github.com/roland-adams2007/CreatorSpaceBackend/internal/auth/domain"
	"github.com/roland-adams2007/CreatorSpaceBackend/internal/auth/dto"
	autherror "github.com/roland-adams2007/CreatorSpaceBackend/internal/errors"
	"github.com/roland-adams2007/CreatorSpaceBackend/internal/mail"
	"github.com/roland-adams2007/CreatorSpaceBackend/internal/ratelimit"
	"github.com/roland-adams2007/CreatorSpaceBackend/pkg/constant"
	"github.com/roland-adams2007/CreatorSpaceBackend/pkg/device"
	"github.com/roland-adams2007/CreatorSpaceBackend/pkg/logger"
)

// dummyHash keeps the "user not found" branch doing the same bcrypt work as
// the "wrong password" branch, so response timing does not leak whether an
// email is registered. Cost must match the cost used at registration.
var dummyHash []byte

func init() {
	var err error
	dummyHash, err = bcrypt.GenerateFromPassword([]byte("dummy_password"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
}

type UserService struct {
	repo       domain.UserRepository
	tokens     TokenGenerator
	dispatcher mail.Dispatcher
	limiter    ratelimit.Checker
	cfg        *config.Config
}

func NewUserService(repo domain.UserRepository, tokens TokenGenerator, dispatcher mail.Dispatcher,
	limiter ratelimit.Checker, cfg *config.Config) *UserService {
	return &UserService{
		repo:       repo,
		tokens:     tokens,
		dispatcher: dispatcher,
		limiter:    limiter,
		cfg:        cfg,
	}
}

func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	existing, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		UUID:         uuid.NewString(),
		Fname:        input.Fname,
		Lname:        input.Lname,
		Email:        input.Email,
		PasswordHash: string(hashed),
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	id, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	if err := s.issueVerification(ctx, user, input.IPAddress); err != nil {
		return nil, err
	}

	return user, nil
}

// Login runs the full credential and lockout sequence. The lockout check
// happens before any password work and records nothing itself; account-state
// failures (inactive, unverified) never count as brute-force signals.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.LoginResult, error) {
	failures, err := s.repo.CountRecentFailures(ctx, input.Email, input.IPAddress,
		time.Now().Add(-s.lockoutWindow()))
	if err != nil {
		return nil, err
	}
	if failures >= s.cfg.LockoutThreshold {
		return nil, autherror.ErrTooManyLoginAttempts
	}

	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	hash := dummyHash
	if user != nil {
		hash = []byte(user.PasswordHash)
	}

	if bcrypt.CompareHashAndPassword(hash, []byte(input.Password)) != nil || user == nil {
		if err := s.repo.RecordLoginAttempt(ctx, input.Email, input.IPAddress, false); err != nil {
			logger.Warn().Err(err).Msg("failed to record login attempt")
		}
		return nil, autherror.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, autherror.ErrAccountInactive
	}

	if !user.Verified() {
		if err := s.issueVerification(ctx, user, input.IPAddress); err != nil {
			return nil, err
		}
		return nil, autherror.ErrEmailUnverified
	}

	result, err := s.establishSession(ctx, user, input)
	if err != nil {
		if recordErr := s.repo.RecordLoginAttempt(ctx, input.Email, input.IPAddress, false); recordErr != nil {
			logger.Warn().Err(recordErr).Msg("failed to record login attempt")
		}
		return nil, err
	}

	now := time.Now()
	if err := s.repo.RecordLoginAttempt(ctx, input.Email, input.IPAddress, true); err != nil {
		logger.Warn().Err(err).Msg("failed to record login attempt")
	}
	if err := s.repo.ClearFailedAttempts(ctx, input.Email, input.IPAddress); err != nil {
		logger.Warn().Err(err).Msg("failed to clear failed attempts")
	}
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		logger.Warn().Err(err).Msg("failed to update last login")
	}

	s.notifyLogin(ctx, user, input, now)

	return result, nil
}

// establishSession creates the session and its refresh token as one logical
// unit: a refresh-token persistence failure revokes the just-created session
// synchronously so no live session exists without a matching credential.
func (s *UserService) establishSession(ctx context.Context, user *domain.User, input dto.LoginInput) (*dto.LoginResult, error) {
	now := time.Now()
	sessionID := uuid.NewString()

	session := &domain.Session{
		SessionID:   sessionID,
		UserID:      user.ID,
		IPAddress:   input.IPAddress,
		UserAgent:   input.UserAgent,
		DeviceLabel: device.Label(input.UserAgent),
		CreatedAt:   now,
		LastSeenAt:  now,
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	raw, hash, expiresAt, err := s.tokens.NewRefreshToken()
	if err == nil {
		err = s.repo.CreateRefreshToken(ctx, &domain.RefreshToken{
			UserID:    user.ID,
			SessionID: sessionID,
			TokenHash: hash,
			ExpiresAt: expiresAt,
			CreatedAt: now,
		})
	}
	if err != nil {
		if revokeErr := s.repo.RevokeSession(ctx, sessionID, time.Now()); revokeErr != nil {
			logger.Error().Err(revokeErr).Str("session_id", sessionID).
				Msg("failed to revoke orphaned session")
		}
		return nil, err
	}

	accessToken, err := s.tokens.IssueAccessToken(user, sessionID)
	if err != nil {
		if revokeErr := s.repo.RevokeSession(ctx, sessionID, time.Now()); revokeErr != nil {
			logger.Error().Err(revokeErr).Str("session_id", sessionID).
				Msg("failed to revoke orphaned session")
		}
		return nil, err
	}

	return &dto.LoginResult{
		AccessToken:     accessToken,
		RefreshTokenRaw: raw,
		SessionID:       sessionID,
		ExpiresAt:       expiresAt,
		User:            dto.NewUserOutput(user),
	}, nil
}

// VerifyEmail consumes a verification token: first successful match marks
// the user verified and burns the token.
func (s *UserService) VerifyEmail(ctx context.Context, rawToken string) error {
	tokenHash := s.tokens.HashToken(rawToken)

	record, err := s.repo.GetEmailToken(ctx, tokenHash, constant.EmailTokenTypeVerification)
	if err != nil {
		return err
	}
	if record == nil {
		return autherror.ErrTokenInvalidOrExpired
	}

	now := time.Now()
	if record.Expired(now) {
		return autherror.ErrTokenInvalidOrExpired
	}

	if err := s.repo.UpdateEmailVerified(ctx, record.UserID, now); err != nil {
		return err
	}

	return s.repo.MarkEmailTokenUsed(ctx, tokenHash, now)
}

// ResendVerification reissues a verification token for an unverified
// account. Unknown or already-verified addresses return nil without side
// effects so the endpoint does not leak which emails exist.
func (s *UserService) ResendVerification(ctx context.Context, input dto.ResendVerificationInput) error {
	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return err
	}
	if user == nil || !user.IsActive || user.Verified() {
		return nil
	}

	return s.issueVerification(ctx, user, input.IPAddress)
}

// issueVerification replaces any outstanding verification token for the user
// and dispatches the email when the limiter allows. The token is stored
// regardless of the limiter verdict: throttling applies to notifications,
// not to the capability behind them.
func (s *UserService) issueVerification(ctx context.Context, user *domain.User, ip string) error {
	raw, hash, expiresAt, err := s.tokens.NewEmailToken()
	if err != nil {
		return err
	}

	err = s.repo.ReplaceEmailToken(ctx, &domain.EmailToken{
		UserID:    user.ID,
		Email:     user.Email,
		Type:      constant.EmailTokenTypeVerification,
		TokenHash: hash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return err
	}

	rl := s.limiter.Check(ctx, user.Email, ip, s.cfg.EmailRateMax,
		s.emailRateWindow(), constant.RateLimitTypeVerifyEmail)
	if !rl.Allowed {
		logger.Info().Str("email", user.Email).Msg("verification email suppressed by rate limit")
		return nil
	}

	if err := s.dispatcher.EnqueueVerificationEmail(ctx, mail.VerifyEmailPayload{
		To:    user.Email,
		Name:  user.Fname,
		Token: raw,
	}); err != nil {
		logger.Error().Err(err).Str("email", user.Email).Msg("failed to enqueue verification email")
	}

	return nil
}

func (s *UserService) notifyLogin(ctx context.Context, user *domain.User, input dto.LoginInput, at time.Time) {
	rl := s.limiter.Check(ctx, user.Email, input.IPAddress, s.cfg.EmailRateMax,
		s.emailRateWindow(), constant.RateLimitTypeNotifyUser)
	if !rl.Allowed {
		return
	}

	if err := s.dispatcher.EnqueueLoginNotification(ctx, mail.LoginNotificationPayload{
		Email:      user.Email,
		UserName:   user.Fname,
		LoginTime:  at.UTC().Format(time.RFC3339),
		IPAddress:  input.IPAddress,
		DeviceInfo: device.Label(input.UserAgent),
	}); err != nil {
		logger.Error().Err(err).Str("email", user.Email).Msg("failed to enqueue login notification")
	}
}

func (s *UserService) lockoutWindow() time.Duration {
	return time.Duration(s.cfg.LockoutWindowMin) * time.Minute
}

func (s *UserService) emailRateWindow() time.Duration {
	return time.Duration(s.cfg.EmailRateWindowSec) * time.Second
}
