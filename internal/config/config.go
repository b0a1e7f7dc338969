// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration. Every component receives the
// values it needs at construction; nothing reads the environment after
// Load returns.
type Config struct {
	Addr        string `env:"ADDR,default=127.0.0.1:8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`

	// TimeZone controls the calendar day used for daily quota resets.
	TimeZone string `env:"TIME_ZONE,default=Africa/Nairobi"`

	FreeDailyAICalls    int `env:"FREE_DAILY_AI_CALLS,default=5"`
	PremiumDailyAICalls int `env:"PREMIUM_DAILY_AI_CALLS,default=200"`

	// HuggingFaceAPIToken may be empty; the emotion gateway then serves
	// neutral fallback results without calling the inference API.
	HuggingFaceAPIToken string `env:"HUGGINGFACE_API_TOKEN"`
	EmotionModelURL     string `env:"EMOTION_MODEL_URL,default=https://api-inference.huggingface.co/models/j-hartmann/emotion-english-distilroberta-base"`

	IntaSendToken          string `env:"INTASEND_TOKEN"`
	IntaSendPublishableKey string `env:"INTASEND_PUBLISHABLE_KEY"`
	IntaSendTestMode       bool   `env:"INTASEND_TEST_MODE,default=true"`
}

// Load reads configuration from the environment, honoring a local .env
// file when present.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decoding environment: %w", err)
	}
	return &cfg, nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}
