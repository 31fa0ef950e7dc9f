package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/roland-adams2007/CreatorSpaceBackend/config"
	"github.com/roland-adams2007/CreatorSpaceBackend/internal/auth/domain"
	"github.com/roland-adams2007/CreatorSpaceBackend/internal/auth/dto"
	"github.com/roland-adams2007/CreatorSpaceBackend/internal/auth/handler"
	"github.com/roland-adams2007/CreatorSpaceBackend/internal/auth/service"
	"github.com/roland-adams2007/CreatorSpaceBackend/internal/mocks"
	"github.com/roland-adams2007/CreatorSpaceBackend/internal/ratelimit"
	"github.com/roland-adams2007/CreatorSpaceBackend/pkg/constant"
)

type handlerMocks struct {
	repo       *mocks.MockUserRepository
	tokens     *mocks.MockTokenGenerator
	dispatcher *mocks.MockDispatcher
	limiter    *mocks.MockChecker
}

func handlerConfig() *config.Config {
	return &config.Config{
		Env:                "test",
		LockoutThreshold:   5,
		LockoutWindowMin:   15,
		EmailRateMax:       5,
		EmailRateWindowSec: 60,
		RefreshExpiryDays:  30,
	}
}

func newTestHandler(ctrl *gomock.Controller) (*handler.AuthHandler, handlerMocks) {
	m := handlerMocks{
		repo:       mocks.NewMockUserRepository(ctrl),
		tokens:     mocks.NewMockTokenGenerator(ctrl),
		dispatcher: mocks.NewMockDispatcher(ctrl),
		limiter:    mocks.NewMockChecker(ctrl),
	}

	cfg := handlerConfig()
	userService := service.NewUserService(m.repo, m.tokens, m.dispatcher, m.limiter, cfg)
	sessionService := service.NewSessionService(m.repo, m.tokens)

	return handler.NewAuthHandler(userService, sessionService, cfg), m
}

func jsonRequest(method, target string, payload any) *http.Request {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func TestRegisterHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newTestHandler(ctrl)

	app := fiber.New()
	app.Post("/register", h.Register)

	input := dto.RegisterInput{Fname: "Ada", Lname: "Lovelace", Email: "ada@example.com", Password: "password123"}

	t.Run("success", func(t *testing.T) {
		m.repo.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(nil, nil)
		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(int64(7), nil)
		m.tokens.EXPECT().NewEmailToken().Return("raw-token", "token-hash", time.Now().Add(24*time.Hour), nil)
		m.repo.EXPECT().ReplaceEmailToken(gomock.Any(), gomock.Any()).Return(nil)
		m.limiter.EXPECT().Check(gomock.Any(), input.Email, gomock.Any(), 5, gomock.Any(),
			constant.RateLimitTypeVerifyEmail).Return(ratelimit.Result{Allowed: true})
		m.dispatcher.EXPECT().EnqueueVerificationEmail(gomock.Any(), gomock.Any()).Return(nil)

		resp, err := app.Test(jsonRequest("POST", "/register", input))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	})

	t.Run("missing fields", func(t *testing.T) {
		resp, err := app.Test(jsonRequest("POST", "/register", dto.RegisterInput{Email: "ada@example.com"}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/register", bytes.NewReader([]byte("not json")))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("duplicate email", func(t *testing.T) {
		m.repo.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(&domain.User{ID: 1, Email: input.Email}, nil)

		resp, err := app.Test(jsonRequest("POST", "/register", input))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestLoginHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newTestHandler(ctrl)

	app := fiber.New()
	app.Post("/login", h.Login)

	password := "correct-horse"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	verifiedAt := time.Now().Add(-time.Hour)
	user := &domain.User{
		ID:              7,
		UUID:            "user-uuid",
		Fname:           "Ada",
		Lname:           "Lovelace",
		Email:           "ada@example.com",
		PasswordHash:    string(hashed),
		IsActive:        true,
		EmailVerifiedAt: &verifiedAt,
	}

	t.Run("success sets cookies and returns token", func(t *testing.T) {
		m.repo.EXPECT().CountRecentFailures(gomock.Any(), user.Email, gomock.Any(), gomock.Any()).Return(0, nil)
		m.repo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)
		m.repo.EXPECT().CreateSession(gomock.Any(), gomock.Any()).Return(nil)
		m.tokens.EXPECT().NewRefreshToken().Return("raw-refresh", "refresh-hash", time.Now().Add(30*24*time.Hour), nil)
		m.repo.EXPECT().CreateRefreshToken(gomock.Any(), gomock.Any()).Return(nil)
		m.tokens.EXPECT().IssueAccessToken(user, gomock.Any()).Return("access-jwt", nil)
		m.repo.EXPECT().RecordLoginAttempt(gomock.Any(), user.Email, gomock.Any(), true).Return(nil)
		m.repo.EXPECT().ClearFailedAttempts(gomock.Any(), user.Email, gomock.Any()).Return(nil)
		m.repo.EXPECT().UpdateLastLogin(gomock.Any(), user.ID, gomock.Any()).Return(nil)
		// Notification suppressed so the dispatcher stays quiet.
		m.limiter.EXPECT().Check(gomock.Any(), user.Email, gomock.Any(), 5, gomock.Any(),
			constant.RateLimitTypeNotifyUser).Return(ratelimit.Result{Allowed: false, ResetIn: time.Minute})

		resp, err := app.Test(jsonRequest("POST", "/login", dto.LoginInput{Email: user.Email, Password: password}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		assert.Equal(t, "raw-refresh", cookieValue(resp, constant.RefreshTokenCookie))
		assert.NotEmpty(t, cookieValue(resp, constant.SessionIDCookie))

		var body struct {
			Token string         `json:"token"`
			User  dto.UserOutput `json:"user"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "access-jwt", body.Token)
		assert.Equal(t, user.UUID, body.User.UUID)
	})

	t.Run("locked out", func(t *testing.T) {
		m.repo.EXPECT().CountRecentFailures(gomock.Any(), user.Email, gomock.Any(), gomock.Any()).Return(5, nil)

		resp, err := app.Test(jsonRequest("POST", "/login", dto.LoginInput{Email: user.Email, Password: password}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	})

	t.Run("wrong password", func(t *testing.T) {
		m.repo.EXPECT().CountRecentFailures(gomock.Any(), user.Email, gomock.Any(), gomock.Any()).Return(0, nil)
		m.repo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)
		m.repo.EXPECT().RecordLoginAttempt(gomock.Any(), user.Email, gomock.Any(), false).Return(nil)

		resp, err := app.Test(jsonRequest("POST", "/login", dto.LoginInput{Email: user.Email, Password: "wrong"}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unverified email", func(t *testing.T) {
		unverified := *user
		unverified.EmailVerifiedAt = nil

		m.repo.EXPECT().CountRecentFailures(gomock.Any(), user.Email, gomock.Any(), gomock.Any()).Return(0, nil)
		m.repo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(&unverified, nil)
		m.tokens.EXPECT().NewEmailToken().Return("raw-token", "token-hash", time.Now().Add(24*time.Hour), nil)
		m.repo.EXPECT().ReplaceEmailToken(gomock.Any(), gomock.Any()).Return(nil)
		m.limiter.EXPECT().Check(gomock.Any(), user.Email, gomock.Any(), 5, gomock.Any(),
			constant.RateLimitTypeVerifyEmail).Return(ratelimit.Result{Allowed: false, ResetIn: time.Minute})

		resp, err := app.Test(jsonRequest("POST", "/login", dto.LoginInput{Email: user.Email, Password: password}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("missing credentials", func(t *testing.T) {
		resp, err := app.Test(jsonRequest("POST", "/login", dto.LoginInput{Email: user.Email}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestVerifyHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newTestHandler(ctrl)

	app := fiber.New()
	app.Post("/verify", h.Verify)

	t.Run("success", func(t *testing.T) {
		m.tokens.EXPECT().HashToken("raw-token").Return("token-hash")
		m.repo.EXPECT().GetEmailToken(gomock.Any(), "token-hash", constant.EmailTokenTypeVerification).
			Return(&domain.EmailToken{
				UserID:    7,
				TokenHash: "token-hash",
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil)
		m.repo.EXPECT().UpdateEmailVerified(gomock.Any(), int64(7), gomock.Any()).Return(nil)
		m.repo.EXPECT().MarkEmailTokenUsed(gomock.Any(), "token-hash", gomock.Any()).Return(nil)

		resp, err := app.Test(jsonRequest("POST", "/verify", dto.VerifyInput{Token: "raw-token"}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("unknown token", func(t *testing.T) {
		m.tokens.EXPECT().HashToken("bogus").Return("bogus-hash")
		m.repo.EXPECT().GetEmailToken(gomock.Any(), "bogus-hash", constant.EmailTokenTypeVerification).
			Return(nil, nil)

		resp, err := app.Test(jsonRequest("POST", "/verify", dto.VerifyInput{Token: "bogus"}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing token", func(t *testing.T) {
		resp, err := app.Test(jsonRequest("POST", "/verify", dto.VerifyInput{}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestResendVerificationHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newTestHandler(ctrl)

	app := fiber.New()
	app.Post("/send-verify-email", h.ResendVerification)

	t.Run("unknown email still answers 200", func(t *testing.T) {
		m.repo.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").Return(nil, nil)

		resp, err := app.Test(jsonRequest("POST", "/send-verify-email",
			dto.ResendVerificationInput{Email: "ghost@example.com"}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("missing email", func(t *testing.T) {
		resp, err := app.Test(jsonRequest("POST", "/send-verify-email", dto.ResendVerificationInput{}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestMeHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _ := newTestHandler(ctrl)
	user := &domain.User{ID: 7, UUID: "user-uuid", Fname: "Ada", Email: "ada@example.com"}

	app := fiber.New()
	app.Get("/me", func(c *fiber.Ctx) error {
		c.Locals("user", user)
		return c.Next()
	}, h.Me)
	app.Get("/me-bare", h.Me)

	t.Run("authenticated", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body struct {
			User dto.UserOutput `json:"user"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, user.UUID, body.User.UUID)
	})

	t.Run("no user in context", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/me-bare", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLogoutHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newTestHandler(ctrl)

	app := fiber.New()
	app.Delete("/session", func(c *fiber.Ctx) error {
		c.Locals("session_id", "session-123")
		return c.Next()
	}, h.Logout)

	t.Run("revokes and clears cookies", func(t *testing.T) {
		m.repo.EXPECT().RevokeSession(gomock.Any(), "session-123", gomock.Any()).Return(nil)

		resp, err := app.Test(httptest.NewRequest("DELETE", "/session", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		for _, c := range resp.Cookies() {
			if c.Name == constant.RefreshTokenCookie || c.Name == constant.SessionIDCookie {
				assert.Empty(t, c.Value)
			}
		}
	})
}
