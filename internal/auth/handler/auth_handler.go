package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/roland-adams2007/CreatorSpaceBackend/config"
	"github.com/roland-adams2007/CreatorSpaceBackend/internal/auth/domain"
	"github.com/roland-adams2007/CreatorSpaceBackend/internal/auth/dto"
	"github.com/roland-adams2007/CreatorSpaceBackend/internal/auth/service"
	autherror "github.com/roland-adams2007/CreatorSpaceBackend/internal/errors"
	"github.com/roland-adams2007/CreatorSpaceBackend/pkg/constant"
	"github.com/roland-adams2007/CreatorSpaceBackend/pkg/logger"
)

type AuthHandler struct {
	userService    *service.UserService
	sessionService *service.SessionService
	cfg            *config.Config
}

func NewAuthHandler(userService *service.UserService, sessionService *service.SessionService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userService:    userService,
		sessionService: sessionService,
		cfg:            cfg,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	if input.Fname == "" || input.Lname == "" || input.Email == "" || input.Password == "" {
		return badRequest(c, "fname, lname, email and password are required")
	}

	input.IPAddress = c.IP()

	if _, err := h.userService.Register(c.Context(), input); err != nil {
		return h.serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registered successfully! Check your email to verify your account.",
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	if input.Email == "" || input.Password == "" {
		return badRequest(c, "email and password are required")
	}

	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())

	result, err := h.userService.Login(c.Context(), input)
	if err != nil {
		return h.serviceError(c, err)
	}

	maxAge := h.cfg.RefreshExpiryDays * 24 * 60 * 60
	h.setAuthCookie(c, constant.RefreshTokenCookie, result.RefreshTokenRaw, maxAge)
	h.setAuthCookie(c, constant.SessionIDCookie, result.SessionID, maxAge)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"token": result.AccessToken,
		"user":  result.User,
	})
}

func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var input dto.VerifyInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	if input.Token == "" {
		return badRequest(c, "token is required")
	}

	if err := h.userService.VerifyEmail(c.Context(), input.Token); err != nil {
		return h.serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Email verified successfully. You can now log in.",
	})
}

func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	var input dto.ResendVerificationInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	if input.Email == "" {
		return badRequest(c, "email is required")
	}

	input.IPAddress = c.IP()

	if err := h.userService.ResendVerification(c.Context(), input); err != nil {
		return h.serviceError(c, err)
	}

	// Always the same answer, whatever the address.
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "If the account exists and is unverified, a new verification email has been sent.",
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := c.Locals(localsUserKey).(*domain.User)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": autherror.ErrUnauthorized.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user": dto.NewUserOutput(user),
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sessionID, ok := c.Locals(localsSessionIDKey).(string)
	if !ok || sessionID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": autherror.ErrUnauthorized.Error()})
	}

	if err := h.sessionService.Logout(c.Context(), sessionID); err != nil {
		return h.serviceError(c, err)
	}

	h.setAuthCookie(c, constant.RefreshTokenCookie, "", -1)
	h.setAuthCookie(c, constant.SessionIDCookie, "", -1)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logged out successfully.",
	})
}

func (h *AuthHandler) setAuthCookie(c *fiber.Ctx, name, value string, maxAge int) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HTTPOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (h *AuthHandler) serviceError(c *fiber.Ctx, err error) error {
	status := autherror.StatusCode(err)
	if status == fiber.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return c.Status(status).JSON(fiber.Map{"error": "something went wrong"})
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
