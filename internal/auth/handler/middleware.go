package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/roland-adams2007/CreatorSpaceBackend/internal/auth/service"
	autherror "github.com/roland-adams2007/CreatorSpaceBackend/internal/errors"
	"github.com/roland-adams2007/CreatorSpaceBackend/internal/ratelimit"
	"github.com/roland-adams2007/CreatorSpaceBackend/pkg/constant"
)

const (
	localsUserKey      = "user"
	localsSessionIDKey = "session_id"
)

// RequireAuth validates the bearer token for protected routes. When the
// access token has expired and the refresh cookies check out, the request
// proceeds and the replacement token travels back in the x-access-token
// response header for the client to adopt.
func RequireAuth(sessions *service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authorization header is missing"})
		}

		accessToken := strings.TrimPrefix(authHeader, "Bearer ")
		refreshCookie := c.Cookies(constant.RefreshTokenCookie)
		sessionCookie := c.Cookies(constant.SessionIDCookie)

		authCtx, err := sessions.Validate(c.Context(), accessToken, refreshCookie, sessionCookie)
		if err != nil {
			status := autherror.StatusCode(err)
			if status == fiber.StatusInternalServerError {
				return c.Status(status).JSON(fiber.Map{"error": "something went wrong"})
			}
			return c.Status(status).JSON(fiber.Map{"error": err.Error()})
		}

		if authCtx.NewAccessToken != "" {
			c.Set(constant.AccessTokenHeader, authCtx.NewAccessToken)
		}

		c.Locals(localsUserKey, authCtx.User)
		c.Locals(localsSessionIDKey, authCtx.SessionID)

		return c.Next()
	}
}

// EmailRateLimit throttles endpoints that trigger outbound email, keyed by
// the request body's email and the client ip. Requests without an email
// field pass through; a denied request answers 429 with the seconds left in
// the window.
func EmailRateLimit(limiter ratelimit.Checker, max int, window time.Duration) fiber.Handler {
	type emailBody struct {
		Email string `json:"email"`
	}

	return func(c *fiber.Ctx) error {
		var body emailBody
		if err := c.BodyParser(&body); err != nil || body.Email == "" {
			return c.Next()
		}

		limitType := c.Get("x-email-type")
		if limitType == "" {
			limitType = "GENERAL"
		}

		rl := limiter.Check(c.Context(), body.Email, c.IP(), max, window, limitType)
		if !rl.Allowed {
			resetIn := int(rl.ResetIn / time.Second)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   autherror.ErrRateLimited.Error(),
				"resetIn": resetIn,
			})
		}

		return c.Next()
	}
}
