package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	SQLitePath     string        `env:"SQLITE_PATH"`
	SessionSeconds int           `env:"SESSION_SECONDS" envDefault:"60"`
	DotLifetime    time.Duration `env:"DOT_LIFETIME" envDefault:"2s"`
	SoundEnabled   bool          `env:"SOUND_ENABLED" envDefault:"true"`
	LogFile        string        `env:"LOG_FILE"`

	// Used by hosts that never report a layout of their own.
	PlayAreaWidth  float64 `env:"PLAY_AREA_WIDTH" envDefault:"400"`
	PlayAreaHeight float64 `env:"PLAY_AREA_HEIGHT" envDefault:"800"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.SessionSeconds <= 0 {
		return Config{}, fmt.Errorf("SESSION_SECONDS must be positive, got %d", cfg.SessionSeconds)
	}
	if cfg.DotLifetime <= 0 {
		return Config{}, fmt.Errorf("DOT_LIFETIME must be positive, got %s", cfg.DotLifetime)
	}
	return cfg, nil
}
