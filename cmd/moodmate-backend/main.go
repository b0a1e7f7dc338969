// Command moodmate-backend runs the MoodMate API server.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/moodmate/moodmate-backend/internal/analysis"
	"github.com/moodmate/moodmate-backend/internal/auth"
	"github.com/moodmate/moodmate-backend/internal/config"
	"github.com/moodmate/moodmate-backend/internal/db"
	"github.com/moodmate/moodmate-backend/internal/emotion"
	"github.com/moodmate/moodmate-backend/internal/payments"
	"github.com/moodmate/moodmate-backend/internal/quota"
	"github.com/moodmate/moodmate-backend/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	classifier := emotion.NewClient(emotion.Config{
		APIToken: cfg.HuggingFaceAPIToken,
		ModelURL: cfg.EmotionModelURL,
	}, log)

	quotas := quota.NewManager(database.Profiles(), quota.Limits{
		FreeDailyCalls:    cfg.FreeDailyAICalls,
		PremiumDailyCalls: cfg.PremiumDailyAICalls,
	}, loc)

	analyzer := analysis.NewService(quotas, classifier, database, log)

	provider := payments.NewProviderClient(payments.ProviderConfig{
		Token:          cfg.IntaSendToken,
		PublishableKey: cfg.IntaSendPublishableKey,
		TestMode:       cfg.IntaSendTestMode,
	})
	billing := payments.NewService(provider, database.Plans(), database.Payments(), database.Profiles(), log)

	handlers := web.NewHandlers(web.HandlersConfig{
		DB:                database,
		Analyzer:          analyzer,
		Billing:           billing,
		Tokens:            auth.NewTokenIssuer(cfg.JWTSecret),
		FreeDailyCalls:    cfg.FreeDailyAICalls,
		PremiumDailyCalls: cfg.PremiumDailyAICalls,
		Log:               log,
	})

	server := web.NewServer(web.ServerConfig{
		Addr:     cfg.Addr,
		Handlers: handlers,
		Log:      log,
	})

	return server.Run()
}
