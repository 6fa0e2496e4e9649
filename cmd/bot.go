package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"iseg-kit/config"
	telegram "iseg-kit/internal/api"
	"iseg-kit/internal/container"
	"iseg-kit/internal/infrastructure/predictor"
	"iseg-kit/internal/infrastructure/storage"
	"iseg-kit/internal/infrastructure/vision"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Запустить Telegram-бота для разметки",
	Args:  cobra.NoArgs,
	RunE:  runBot,
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.TelegramToken == "" {
		return errors.New("TELEGRAM_TOKEN is required")
	}
	if cfg.Debug && !debugMode {
		logger = initLogger(true)
	}

	// Хранилища: пользователи и сессии в памяти, разметка в YAML-файле
	userRepo := storage.NewMemoryUserRepository()
	sessions := storage.NewMemorySessionRepository()
	store, err := storage.NewYAMLAnnotationStore(cfg.AnnotationsPath)
	if err != nil {
		return err
	}

	appContainer := container.New(cfg, userRepo, sessions, store,
		vision.NewDefaultAnalyzer(), predictor.NewRegionGrow(), logger)

	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithField("annotations", cfg.AnnotationsPath).Info("bot is running")
	if err := bot.Run(ctx); err != nil {
		return err
	}
	logger.Info("bot stopped")
	return nil
}
