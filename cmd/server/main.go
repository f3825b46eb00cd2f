package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Gunvolt24/order_admission/config"
	"github.com/Gunvolt24/order_admission/internal/app"
)

func main() {
	// локальные переменные окружения; отсутствие файла не ошибка
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, cleanup, err := app.Bootstrap(ctx, &cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer cleanup()

	if err := application.Run(ctx); err != nil {
		application.Logger.Errorf(ctx, "run: %v", err)
	}
}
