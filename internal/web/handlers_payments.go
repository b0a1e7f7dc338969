package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/moodmate/moodmate-backend/internal/payments"
)

type checkoutRequest struct {
	PlanCode string `json:"plan_code"`
	Phone    string `json:"phone_number"`
	Email    string `json:"email"`
}

type planPayload struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	PriceKES     int    `json:"price_kes"`
	DurationDays int    `json:"duration_days"`
}

type paymentPayload struct {
	ID                uuid.UUID `json:"id"`
	PlanCode          string    `json:"plan_code"`
	AmountKES         int       `json:"amount_kes"`
	Currency          string    `json:"currency"`
	Status            string    `json:"status"`
	ProviderReference *string   `json:"provider_reference"`
	CreatedAt         time.Time `json:"created_at"`
}

// ListPlans returns the purchasable premium plans
// (GET /api/payments/plans).
func (h *Handlers) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.plans.ListActive(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("web: listing plans")
		respondDetail(w, http.StatusInternalServerError, "Failed to load plans")
		return
	}

	results := make([]planPayload, 0, len(plans))
	for _, p := range plans {
		results = append(results, planPayload{
			Code:         p.Code,
			Name:         p.Name,
			PriceKES:     p.PriceKES,
			DurationDays: p.DurationDays,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"results": results})
}

// CreateCheckout opens a provider checkout session for a plan
// (POST /api/payments/checkout).
func (h *Handlers) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PlanCode == "" {
		respondDetail(w, http.StatusBadRequest, "Plan code is required")
		return
	}

	checkout, err := h.billing.CreateCheckout(r.Context(), requestUserID(r), req.PlanCode, req.Phone, req.Email)
	if err != nil {
		if errors.Is(err, payments.ErrPlanNotFound) {
			respondDetail(w, http.StatusBadRequest, "Unknown or inactive plan")
			return
		}
		h.log.Error().Err(err).Msg("web: creating checkout")
		respondDetail(w, http.StatusBadGateway, "Payment provider is unavailable. Please try again.")
		return
	}

	respondJSON(w, http.StatusCreated, checkout)
}

// ListPayments returns the user's payment history, newest first
// (GET /api/payments).
func (h *Handlers) ListPayments(w http.ResponseWriter, r *http.Request) {
	history, err := h.payments.ListForUser(r.Context(), requestUserID(r))
	if err != nil {
		h.log.Error().Err(err).Msg("web: listing payments")
		respondDetail(w, http.StatusInternalServerError, "Failed to load payments")
		return
	}

	results := make([]paymentPayload, 0, len(history))
	for _, p := range history {
		results = append(results, paymentPayload{
			ID:                p.ID,
			PlanCode:          p.PlanCode,
			AmountKES:         p.AmountKES,
			Currency:          p.Currency,
			Status:            p.Status,
			ProviderReference: p.ProviderReference,
			CreatedAt:         p.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"results": results})
}

// PaymentWebhook receives status updates from the payment provider
// (POST /api/payments/webhook). It always acknowledges known-shape
// events so the provider stops retrying; unknown payments are the
// only hard failure.
func (h *Handlers) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	var event payments.WebhookEvent
	if err := decodeJSON(r, &event); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	if err := h.billing.HandleWebhook(r.Context(), event); err != nil {
		if errors.Is(err, payments.ErrPaymentNotFound) {
			respondDetail(w, http.StatusNotFound, "Payment not found")
			return
		}
		h.log.Error().Err(err).Msg("web: processing payment webhook")
		respondDetail(w, http.StatusInternalServerError, "Webhook processing failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
