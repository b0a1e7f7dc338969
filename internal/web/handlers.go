package web

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/moodmate/moodmate-backend/internal/analysis"
	"github.com/moodmate/moodmate-backend/internal/auth"
	"github.com/moodmate/moodmate-backend/internal/db"
	"github.com/moodmate/moodmate-backend/internal/payments"
)

// Analyzer runs the AI analysis workflow.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.Response, error)
}

// PaymentService drives checkouts and webhook processing.
type PaymentService interface {
	CreateCheckout(ctx context.Context, userID uuid.UUID, planCode, phone, email string) (*payments.Checkout, error)
	HandleWebhook(ctx context.Context, event payments.WebhookEvent) error
}

// Tokens issues and validates auth tokens.
type Tokens interface {
	Issue(userID uuid.UUID) (auth.TokenPair, error)
	Parse(tokenString, tokenType string) (uuid.UUID, error)
}

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	users    *db.UserRepository
	profiles *db.ProfileRepository
	moodLogs *db.MoodLogRepository
	plans    *db.PlanRepository
	payments *db.PaymentRepository

	analyzer Analyzer
	billing  PaymentService
	tokens   Tokens

	freeDailyCalls    int
	premiumDailyCalls int

	log zerolog.Logger
}

// HandlersConfig wires handler dependencies.
type HandlersConfig struct {
	DB       *db.DB
	Analyzer Analyzer
	Billing  PaymentService
	Tokens   Tokens

	FreeDailyCalls    int
	PremiumDailyCalls int

	Log zerolog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfg HandlersConfig) *Handlers {
	return &Handlers{
		users:             cfg.DB.Users(),
		profiles:          cfg.DB.Profiles(),
		moodLogs:          cfg.DB.MoodLogs(),
		plans:             cfg.DB.Plans(),
		payments:          cfg.DB.Payments(),
		analyzer:          cfg.Analyzer,
		billing:           cfg.Billing,
		tokens:            cfg.Tokens,
		freeDailyCalls:    cfg.FreeDailyCalls,
		premiumDailyCalls: cfg.PremiumDailyCalls,
		log:               cfg.Log,
	}
}
