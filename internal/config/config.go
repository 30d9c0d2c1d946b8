package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the process needs from the environment. A .env
// file in the working directory is honored but optional.
type Config struct {
	Token         string `env:"COINBOT_TOKEN,required"`
	DataPath      string `env:"COINBOT_DATA_PATH" envDefault:"data/economy.json"`
	ImagesDir     string `env:"COINBOT_IMAGES_DIR" envDefault:"images"`
	UpdateTimeout int    `env:"COINBOT_UPDATE_TIMEOUT" envDefault:"60"`
	LogLevel      string `env:"COINBOT_LOG_LEVEL" envDefault:"info"`
	Debug         bool   `env:"COINBOT_DEBUG" envDefault:"false"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
