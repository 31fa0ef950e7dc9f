package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/roland-adams2007/CreatorSpaceBackend/config"
	"github.com/roland-adams2007/CreatorSpaceBackend/db"
	"github.com/roland-adams2007/CreatorSpaceBackend/internal/auth/handler"
	repo "github.com/roland-adams2007/CreatorSpaceBackend/internal/auth/repository/postgres"
	"github.com/roland-adams2007/CreatorSpaceBackend/internal/auth/service"
	"github.com/roland-adams2007/CreatorSpaceBackend/internal/mail"
	"github.com/roland-adams2007/CreatorSpaceBackend/internal/ratelimit"
	"github.com/roland-adams2007/CreatorSpaceBackend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		logger.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	redisClient, err := db.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		// The limiter fails open without Redis; only email dispatch is lost.
		logger.Warnf("redis unavailable, rate limiting degraded: %v", err)
	}

	userRepo := repo.NewPostgresRepository(pool)
	tokenService := service.NewTokenService(
		cfg.AccessTokenSecret,
		hours(cfg.AccessExpiryHours),
		days(cfg.RefreshExpiryDays),
		hours(cfg.VerificationExpiryHours),
	)

	dispatcher := mail.NewAsynqDispatcher(mail.RedisOpt(cfg.Redis))
	defer dispatcher.Close()

	limiter := ratelimit.NewLimiter(ratelimit.NewRedisCounterStore(redisClient))

	userService := service.NewUserService(userRepo, tokenService, dispatcher, limiter, cfg)
	sessionService := service.NewSessionService(userRepo, tokenService)
	authHandler := handler.NewAuthHandler(userService, sessionService, cfg)

	app := fiber.New()
	app.Use(logger.RequestLogger())
	handler.RegisterRoutes(app, authHandler, sessionService, limiter, cfg)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "API route not found"})
	})

	logger.Infof("server running on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatalf("server: %v", err)
	}
}

func hours(n int) time.Duration { return time.Duration(n) * time.Hour }
func days(n int) time.Duration  { return time.Duration(n) * 24 * time.Hour }
