package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Detector
	FaceDetector string `envconfig:"FACE_DETECTOR" default:"deepface"`
	DeepFaceURL  string `envconfig:"DEEPFACE_URL" default:"http://localhost:5005"`
	AWSRegion    string `envconfig:"AWS_REGION" default:"us-east-1"`

	// Encoder geometry; the feature dimension is FaceSize*FaceSize
	FaceSize int `envconfig:"FACE_SIZE" default:"64"`

	// Training
	Components            int     `envconfig:"PCA_COMPONENTS" default:"32"`
	MinSamplesPerEmployee int     `envconfig:"MIN_SAMPLES_PER_EMPLOYEE" default:"10"`
	MinThreshold          float64 `envconfig:"MIN_THRESHOLD" default:"0.5"`

	// Attendance
	MinCheckinGap time.Duration `envconfig:"MIN_CHECKIN_GAP" default:"1m"`

	// Retrain-completion webhook (optional)
	WebhookURL    string `envconfig:"WEBHOOK_URL" default:""`
	WebhookSecret string `envconfig:"WEBHOOK_SECRET" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the trainer cannot work with.
func (c *Config) Validate() error {
	if c.FaceSize < 16 {
		return fmt.Errorf("FACE_SIZE must be at least 16, got %d", c.FaceSize)
	}
	if c.Components < 1 {
		return fmt.Errorf("PCA_COMPONENTS must be positive, got %d", c.Components)
	}
	if c.MinSamplesPerEmployee < 1 {
		return fmt.Errorf("MIN_SAMPLES_PER_EMPLOYEE must be positive, got %d", c.MinSamplesPerEmployee)
	}
	if c.MinThreshold < 0 || c.MinThreshold >= 1 {
		return fmt.Errorf("MIN_THRESHOLD must be in [0, 1), got %f", c.MinThreshold)
	}
	return nil
}

// Dimension is the feature-vector length the encoder guarantees.
func (c *Config) Dimension() int {
	return c.FaceSize * c.FaceSize
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
