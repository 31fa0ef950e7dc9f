package main

import (
	"github.com/joho/godotenv"

	"github.com/roland-adams2007/CreatorSpaceBackend/config"
	"github.com/roland-adams2007/CreatorSpaceBackend/internal/mail"
	"github.com/roland-adams2007/CreatorSpaceBackend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	worker := mail.NewWorker(mail.RedisOpt(cfg.Redis), mail.LogSender{})
	if err := worker.Run(); err != nil {
		logger.Fatalf("email worker: %v", err)
	}
}
