package emotion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		response   string
		wantLabel  string
		wantScore  float64
		wantDegrad bool
	}{
		{
			name:      "flat response picks max score",
			status:    http.StatusOK,
			response:  `[{"label":"joy","score":0.95},{"label":"sadness","score":0.03}]`,
			wantLabel: "joy",
			wantScore: 0.95,
		},
		{
			name:      "nested response takes inner list",
			status:    http.StatusOK,
			response:  `[[{"label":"joy","score":0.95}]]`,
			wantLabel: "joy",
			wantScore: 0.95,
		},
		{
			name:      "label is lower-cased and score rounded",
			status:    http.StatusOK,
			response:  `[{"label":"ANGER","score":0.12345}]`,
			wantLabel: "anger",
			wantScore: 0.123,
		},
		{
			name:      "equal max scores break to first in response order",
			status:    http.StatusOK,
			response:  `[{"label":"fear","score":0.4},{"label":"surprise","score":0.4}]`,
			wantLabel: "fear",
			wantScore: 0.4,
		},
		{
			name:       "empty list degrades",
			status:     http.StatusOK,
			response:   `[]`,
			wantLabel:  "neutral",
			wantScore:  0.5,
			wantDegrad: true,
		},
		{
			name:       "malformed body degrades",
			status:     http.StatusOK,
			response:   `{"error":"loading"}`,
			wantLabel:  "neutral",
			wantScore:  0.5,
			wantDegrad: true,
		},
		{
			name:       "non-2xx status degrades",
			status:     http.StatusServiceUnavailable,
			response:   `service unavailable`,
			wantLabel:  "neutral",
			wantScore:  0.5,
			wantDegrad: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("method = %s, want POST", r.Method)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
					t.Errorf("Authorization = %q, want bearer token", got)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.response))
			}))
			defer server.Close()

			client := NewClient(Config{APIToken: "test-token", ModelURL: server.URL}, zerolog.Nop())
			result := client.Classify(context.Background(), "I'm feeling amazing today!")

			if result.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", result.Label, tt.wantLabel)
			}
			if result.Score != tt.wantScore {
				t.Errorf("Score = %v, want %v", result.Score, tt.wantScore)
			}
			if result.Degraded != tt.wantDegrad {
				t.Errorf("Degraded = %v, want %v", result.Degraded, tt.wantDegrad)
			}
		})
	}
}

func TestClassifyNoToken(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := NewClient(Config{APIToken: "", ModelURL: server.URL}, zerolog.Nop())
	result := client.Classify(context.Background(), "some text")

	if !result.Degraded || result.Label != "neutral" || result.Score != 0.5 {
		t.Errorf("result = %+v, want neutral degraded fallback", result)
	}
	if calls.Load() != 0 {
		t.Errorf("made %d network calls, want 0", calls.Load())
	}
}

func TestClassifyTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused

	client := NewClient(Config{APIToken: "test-token", ModelURL: server.URL}, zerolog.Nop())
	result := client.Classify(context.Background(), "some text")

	if !result.Degraded || result.Label != "neutral" {
		t.Errorf("result = %+v, want neutral degraded fallback", result)
	}
}
