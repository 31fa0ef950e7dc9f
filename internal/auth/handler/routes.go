package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/roland-adams2007/CreatorSpaceBackend/config"
	"github.com/roland-adams2007/CreatorSpaceBackend/internal/auth/service"
	"github.com/roland-adams2007/CreatorSpaceBackend/internal/ratelimit"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler, sessions *service.SessionService,
	limiter ratelimit.Checker, cfg *config.Config) {
	users := app.Group("/users")

	users.Post("/register", h.Register)
	users.Post("/login", h.Login)
	users.Post("/verify", h.Verify)
	users.Post("/send-verify-email",
		EmailRateLimit(limiter, cfg.EmailRateMax, time.Duration(cfg.EmailRateWindowSec)*time.Second),
		h.ResendVerification)

	protected := users.Group("", RequireAuth(sessions))
	protected.Get("/me", h.Me)
	protected.Delete("/session", h.Logout)
}
