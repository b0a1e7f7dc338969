package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/moodmate/moodmate-backend/internal/db"
)

// ErrPlanNotFound is returned when a checkout names an unknown or
// inactive plan.
var ErrPlanNotFound = errors.New("plan not found or inactive")

// ErrPaymentNotFound is returned when a webhook references no known payment.
var ErrPaymentNotFound = errors.New("payment not found")

// CheckoutCreator abstracts the provider client for testing.
type CheckoutCreator interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error)
}

// PlanStore looks up purchasable plans.
type PlanStore interface {
	GetActive(ctx context.Context, code string) (*db.Plan, error)
}

// PaymentStore persists payment records.
type PaymentStore interface {
	Create(ctx context.Context, payment *db.Payment) error
	Get(ctx context.Context, id uuid.UUID) (*db.Payment, error)
	GetByProviderReference(ctx context.Context, ref string) (*db.Payment, error)
	SetCheckout(ctx context.Context, id uuid.UUID, providerRef string, payload []byte) error
	SetStatus(ctx context.Context, id uuid.UUID, status string, webhookData []byte) error
}

// ProfileStore reads and upgrades subscription state. This service is the
// only writer of plan and premium expiry fields.
type ProfileStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*db.Profile, error)
	Upgrade(ctx context.Context, userID uuid.UUID, expiresAt time.Time) error
}

// Service drives checkout creation and webhook processing.
type Service struct {
	provider CheckoutCreator
	plans    PlanStore
	payments PaymentStore
	profiles ProfileStore
	log      zerolog.Logger
	now      func() time.Time
}

// NewService creates a payment service.
func NewService(provider CheckoutCreator, plans PlanStore, payments PaymentStore, profiles ProfileStore, log zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		plans:    plans,
		payments: payments,
		profiles: profiles,
		log:      log,
		now:      time.Now,
	}
}

// Checkout is the result of starting a payment.
type Checkout struct {
	PaymentID         uuid.UUID `json:"payment_id"`
	CheckoutURL       string    `json:"checkout_url"`
	ProviderReference string    `json:"provider_reference"`
}

// CreateCheckout records a PENDING payment and opens a provider checkout
// session for it.
func (s *Service) CreateCheckout(ctx context.Context, userID uuid.UUID, planCode, phone, email string) (*Checkout, error) {
	plan, err := s.plans.GetActive(ctx, planCode)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("loading plan: %w", err)
	}

	payment := &db.Payment{
		UserID:    userID,
		PlanCode:  plan.Code,
		AmountKES: plan.PriceKES,
		Currency:  "KES",
		Status:    db.PaymentPending,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("creating payment: %w", err)
	}

	checkout, err := s.provider.CreateCheckout(ctx, CheckoutRequest{
		Amount:      plan.PriceKES,
		Currency:    "KES",
		Email:       email,
		PhoneNumber: phone,
		APIRef:      payment.ID.String(),
		Comment:     fmt.Sprintf("MoodMate %s Subscription", plan.Name),
	})
	if err != nil {
		return nil, fmt.Errorf("creating provider checkout: %w", err)
	}

	if err := s.payments.SetCheckout(ctx, payment.ID, checkout.ID, checkout.Raw); err != nil {
		return nil, fmt.Errorf("storing checkout reference: %w", err)
	}

	return &Checkout{
		PaymentID:         payment.ID,
		CheckoutURL:       checkout.URL,
		ProviderReference: checkout.ID,
	}, nil
}

// WebhookEvent is the provider's payment status notification.
type WebhookEvent struct {
	ID     string  `json:"id"`
	State  string  `json:"state"`
	APIRef string  `json:"api_ref"`
	Amount float64 `json:"amount"`
}

// HandleWebhook processes a provider status update. Successful payments
// upgrade the profile exactly once; replays of an already-processed
// webhook are no-ops.
func (s *Service) HandleWebhook(ctx context.Context, event WebhookEvent) error {
	payment, err := s.findPayment(ctx, event)
	if err != nil {
		return err
	}

	rawEvent, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding webhook data: %w", err)
	}

	switch strings.ToUpper(event.State) {
	case "COMPLETE", "COMPLETED":
		return s.processSuccess(ctx, payment, rawEvent)
	case "FAILED", "CANCELLED":
		if payment.Status != db.PaymentPending {
			return nil
		}
		if err := s.payments.SetStatus(ctx, payment.ID, db.PaymentFailed, rawEvent); err != nil {
			return fmt.Errorf("marking payment failed: %w", err)
		}
		return nil
	default:
		// PENDING, PROCESSING and other intermediate states carry no action.
		s.log.Info().Str("state", event.State).Stringer("payment_id", payment.ID).Msg("payments: ignoring intermediate webhook state")
		return nil
	}
}

func (s *Service) findPayment(ctx context.Context, event WebhookEvent) (*db.Payment, error) {
	if event.APIRef != "" {
		if id, err := uuid.Parse(event.APIRef); err == nil {
			payment, err := s.payments.Get(ctx, id)
			if err == nil {
				return payment, nil
			}
			if !errors.Is(err, db.ErrNotFound) {
				return nil, fmt.Errorf("loading payment: %w", err)
			}
		}
	}
	if event.ID != "" {
		payment, err := s.payments.GetByProviderReference(ctx, event.ID)
		if err == nil {
			return payment, nil
		}
		if !errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("loading payment: %w", err)
		}
	}
	return nil, ErrPaymentNotFound
}

// processSuccess marks the payment SUCCESS and activates premium. A new
// subscription runs from now; an unexpired one is extended, so early
// renewal never shortens the term. The daily counter resets with the
// upgrade.
func (s *Service) processSuccess(ctx context.Context, payment *db.Payment, rawEvent []byte) error {
	if payment.Status == db.PaymentSuccess {
		return nil // already processed
	}

	plan, err := s.plans.GetActive(ctx, payment.PlanCode)
	if err != nil {
		return fmt.Errorf("loading plan: %w", err)
	}

	if err := s.payments.SetStatus(ctx, payment.ID, db.PaymentSuccess, rawEvent); err != nil {
		return fmt.Errorf("marking payment successful: %w", err)
	}

	profile, err := s.profiles.Get(ctx, payment.UserID)
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}

	now := s.now()
	base := now
	if profile.PremiumExpiresAt != nil && profile.PremiumExpiresAt.After(now) {
		base = *profile.PremiumExpiresAt
	}
	expiresAt := base.Add(time.Duration(plan.DurationDays) * 24 * time.Hour)

	if err := s.profiles.Upgrade(ctx, payment.UserID, expiresAt); err != nil {
		return fmt.Errorf("upgrading profile: %w", err)
	}

	s.log.Info().
		Stringer("payment_id", payment.ID).
		Stringer("user_id", payment.UserID).
		Time("premium_expires_at", expiresAt).
		Msg("payments: premium activated")
	return nil
}
