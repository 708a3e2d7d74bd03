package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Extractor
	ExtractorType string `envconfig:"EXTRACTOR_TYPE" default:"local"`
	CascadePath   string `envconfig:"CASCADE_PATH" default:"cascade/facefinder"`
	DeepFaceURL   string `envconfig:"DEEPFACE_URL" default:"http://localhost:5005"`

	// Matching
	MatchThreshold float64 `envconfig:"MATCH_THRESHOLD" default:"0.18"`

	// Camera
	CameraIndex    int `envconfig:"CAMERA_INDEX" default:"0"`
	FrameTimeoutMs int `envconfig:"FRAME_TIMEOUT_MS" default:"5000"`
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cfg.MatchThreshold <= 0 || cfg.MatchThreshold >= 1 {
		return nil, fmt.Errorf("MATCH_THRESHOLD must be in (0, 1), got %v", cfg.MatchThreshold)
	}

	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
