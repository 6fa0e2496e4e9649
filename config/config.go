package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string

	VoidLabel      uint8
	ClicksPerRound int
	ClickStep      int
	GaussianClicks bool
	MaxClicks      int
	IoUThreshold   float64
	Seed           int64

	AnnotationsPath string
	Annotator       string
	Debug           bool
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		AnnotationsPath: getenv("ISEG_ANNOTATIONS", "annotations.yaml"),
		Annotator:       getenv("ISEG_ANNOTATOR", os.Getenv("USER")),
	}

	void, err := intEnv("ISEG_VOID_LABEL", 255)
	if err != nil {
		return nil, err
	}
	if void < 0 || void > 255 {
		return nil, fmt.Errorf("ISEG_VOID_LABEL must be in [0, 255], got %d", void)
	}
	cfg.VoidLabel = uint8(void)

	if cfg.ClicksPerRound, err = intEnv("ISEG_CLICKS_PER_ROUND", 1); err != nil {
		return nil, err
	}
	if cfg.ClickStep, err = intEnv("ISEG_CLICK_STEP", 5); err != nil {
		return nil, err
	}
	if cfg.MaxClicks, err = intEnv("ISEG_MAX_CLICKS", 20); err != nil {
		return nil, err
	}
	if cfg.GaussianClicks, err = boolEnv("ISEG_GAUSSIAN_CLICKS", false); err != nil {
		return nil, err
	}
	if cfg.Debug, err = boolEnv("ISEG_DEBUG", false); err != nil {
		return nil, err
	}

	seed, err := intEnv("ISEG_SEED", 0)
	if err != nil {
		return nil, err
	}
	cfg.Seed = int64(seed)

	if v := os.Getenv("ISEG_IOU_THRESHOLD"); v != "" {
		if cfg.IoUThreshold, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("ISEG_IOU_THRESHOLD: %w", err)
		}
	} else {
		cfg.IoUThreshold = 0.85
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
