// Package payments implements the premium upgrade flow: checkout creation
// against the IntaSend payment provider and webhook-driven activation.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	liveBaseURL = "https://payment.intasend.com/api/v1"
	testBaseURL = "https://sandbox.intasend.com/api/v1"

	providerTimeout = 10 * time.Second
)

// ProviderConfig holds IntaSend credentials.
type ProviderConfig struct {
	Token          string
	PublishableKey string
	TestMode       bool
}

// CheckoutRequest is the payload for creating a hosted checkout.
type CheckoutRequest struct {
	PublicKey   string `json:"public_key"`
	Amount      int    `json:"amount"`
	Currency    string `json:"currency"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	APIRef      string `json:"api_ref"`
	Comment     string `json:"comment,omitempty"`
}

// CheckoutResponse is the provider's checkout session.
type CheckoutResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`

	// Raw preserves the full provider payload for auditing.
	Raw json.RawMessage `json:"-"`
}

// ProviderClient is an HTTP client for the IntaSend checkout API.
type ProviderClient struct {
	token          string
	publishableKey string
	baseURL        string
	httpClient     *http.Client
}

// NewProviderClient creates an IntaSend client.
func NewProviderClient(cfg ProviderConfig) *ProviderClient {
	baseURL := liveBaseURL
	if cfg.TestMode {
		baseURL = testBaseURL
	}
	return &ProviderClient{
		token:          cfg.Token,
		publishableKey: cfg.PublishableKey,
		baseURL:        baseURL,
		httpClient: &http.Client{
			Timeout: providerTimeout,
		},
	}
}

// CreateCheckout creates a hosted checkout session.
func (c *ProviderClient) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	req.PublicKey = c.publishableKey

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding checkout request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkout/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing checkout request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading checkout response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("checkout API returned status %d", resp.StatusCode)
	}

	var checkout CheckoutResponse
	if err := json.Unmarshal(respBody, &checkout); err != nil {
		return nil, fmt.Errorf("parsing checkout response: %w", err)
	}
	checkout.Raw = respBody
	return &checkout, nil
}
