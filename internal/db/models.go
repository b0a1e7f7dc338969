package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/moodmate/moodmate-backend/internal/quota"
)

// User is a registered account.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Profile holds a user's subscription plan and daily AI quota counters.
// Plan and PremiumExpiresAt are written only by the payment subsystem.
type Profile struct {
	UserID           uuid.UUID
	Plan             quota.Plan
	PremiumExpiresAt *time.Time // nullable
	DailyAICalls     int
	LastAICallsReset *time.Time // nullable calendar date
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// MoodLog is a single mood journal entry, optionally enriched with
// AI-detected emotion data. Never mutated after creation.
type MoodLog struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	Mood               string
	Intensity          int      // 1-10
	Note               *string  // nullable, max 1000 chars
	DetectedEmotion    *string  // nullable
	DetectedConfidence *float64 // nullable
	Advice             *string  // nullable
	CreatedAt          time.Time
}

// Plan is a purchasable subscription plan.
type Plan struct {
	Code         string
	Name         string
	PriceKES     int
	DurationDays int
	Active       bool
	CreatedAt    time.Time
}

// Payment statuses.
const (
	PaymentPending = "PENDING"
	PaymentSuccess = "SUCCESS"
	PaymentFailed  = "FAILED"
)

// Payment is one checkout attempt against the payment provider.
type Payment struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	PlanCode          string
	AmountKES         int
	Currency          string
	Status            string
	ProviderReference *string // nullable
	CheckoutPayload   []byte  // raw provider JSON, nullable
	WebhookData       []byte  // raw webhook JSON, nullable
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
