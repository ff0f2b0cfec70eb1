package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENV" default:"development"`

	// Dataset layout
	FakeDir   string `envconfig:"FAKE_DIR" default:"dataset/fake"`
	RealDir   string `envconfig:"REAL_DIR" default:"dataset/real"`
	OutputDir string `envconfig:"OUTPUT_DIR" default:"results"`

	// External models
	ProviderType string `envconfig:"FACE_PROVIDER" default:"faceapi"`
	FaceAPIURL   string `envconfig:"FACE_API_URL" default:"http://localhost:5005"`

	// Frame decoding
	FFmpegBin string `envconfig:"FFMPEG_BIN" default:"ffmpeg"`

	// Orchestration
	Workers     int    `envconfig:"WORKERS" default:"4"`
	EvaluateBin string `envconfig:"EVALUATE_BIN" default:""`

	// Optional report persistence; disabled when empty.
	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// PersistenceEnabled reports whether reports should be written to
// Postgres in addition to the output directory.
func (c *Config) PersistenceEnabled() bool {
	return c.DatabaseURL != ""
}
