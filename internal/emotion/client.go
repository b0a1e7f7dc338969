// Package emotion provides a client for the Hugging Face Inference API
// emotion classifier with a neutral fallback when the API is unavailable.
package emotion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const requestTimeout = 10 * time.Second

// Config holds emotion classifier configuration.
type Config struct {
	// APIToken authenticates against the inference API. When empty the
	// client returns the neutral fallback without making network calls.
	APIToken string

	// ModelURL is the full inference endpoint for the emotion model.
	ModelURL string
}

// Client calls the emotion classification model. Classify never returns
// an error: every failure path resolves to the neutral fallback result.
type Client struct {
	token      string
	modelURL   string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a new emotion classifier client.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	return &Client{
		token:    cfg.APIToken,
		modelURL: cfg.ModelURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		log: log,
	}
}

// Neutral is the fallback result substituted whenever classification
// cannot be performed.
func Neutral() Result {
	return Result{Label: "neutral", Score: 0.5, Degraded: true}
}

// Classify analyzes the emotion in text. The caller is responsible for
// ensuring text is non-empty and at most 1000 characters. One request,
// 10 second timeout, no retry: a failed attempt degrades immediately.
func (c *Client) Classify(ctx context.Context, text string) Result {
	if c.token == "" {
		c.log.Warn().Msg("emotion: API token not configured, serving neutral fallback")
		return Neutral()
	}

	body, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		c.log.Error().Err(err).Msg("emotion: encoding request")
		return Neutral()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.modelURL, bytes.NewReader(body))
	if err != nil {
		c.log.Error().Err(err).Msg("emotion: creating request")
		return Neutral()
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Msg("emotion: inference request failed")
		return Neutral()
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error().Int("status", resp.StatusCode).Msg("emotion: inference API returned non-2xx")
		return Neutral()
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Error().Err(err).Msg("emotion: reading response body")
		return Neutral()
	}

	preds, err := parsePredictions(respBody)
	if err != nil {
		c.log.Error().Err(err).Msg("emotion: unexpected response shape")
		return Neutral()
	}

	top := topPrediction(preds)
	return Result{
		Label: strings.ToLower(top.Label),
		Score: roundScore(top.Score),
	}
}

// parsePredictions accepts both response shapes the inference API emits:
// a flat list of predictions or a singly nested list of lists. In the
// nested case the inner list is taken.
func parsePredictions(body []byte) ([]prediction, error) {
	var flat []prediction
	if err := json.Unmarshal(body, &flat); err == nil {
		if len(flat) == 0 {
			return nil, errors.New("empty prediction list")
		}
		return flat, nil
	}

	var nested [][]prediction
	if err := json.Unmarshal(body, &nested); err != nil {
		return nil, fmt.Errorf("parsing predictions: %w", err)
	}
	if len(nested) == 0 || len(nested[0]) == 0 {
		return nil, errors.New("empty prediction list")
	}
	return nested[0], nil
}

// topPrediction returns the entry with the maximum score. Ties break to
// the first occurrence in response order; the upstream ordering is not
// meaningful, so this is the documented deterministic rule.
func topPrediction(preds []prediction) prediction {
	top := preds[0]
	for _, p := range preds[1:] {
		if p.Score > top.Score {
			top = p
		}
	}
	return top
}

// roundScore rounds to 3 decimals, half away from zero.
func roundScore(s float64) float64 {
	return math.Round(s*1000) / 1000
}
