package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/moodmate/moodmate-backend/internal/analysis"
	"github.com/moodmate/moodmate-backend/internal/auth"
	"github.com/moodmate/moodmate-backend/internal/payments"
	"github.com/moodmate/moodmate-backend/internal/quota"
)

type fakeAnalyzer struct {
	resp *analysis.Response
	err  error

	gotReq analysis.Request
	calls  int
}

func (f *fakeAnalyzer) Analyze(_ context.Context, req analysis.Request) (*analysis.Response, error) {
	f.calls++
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fakeTokens struct {
	userID uuid.UUID
	err    error
}

func (f *fakeTokens) Issue(userID uuid.UUID) (auth.TokenPair, error) {
	return auth.TokenPair{Access: "access-" + userID.String(), Refresh: "refresh-" + userID.String()}, nil
}

func (f *fakeTokens) Parse(tokenString, tokenType string) (uuid.UUID, error) {
	if f.err != nil {
		return uuid.Nil, f.err
	}
	return f.userID, nil
}

type fakeBilling struct {
	checkout *payments.Checkout
	err      error
}

func (f *fakeBilling) CreateCheckout(_ context.Context, _ uuid.UUID, _, _, _ string) (*payments.Checkout, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.checkout, nil
}

func (f *fakeBilling) HandleWebhook(_ context.Context, _ payments.WebhookEvent) error {
	return f.err
}

func testHandlers(t *testing.T) (*Handlers, *fakeAnalyzer, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	analyzer := &fakeAnalyzer{}
	h := &Handlers{
		analyzer:          analyzer,
		tokens:            &fakeTokens{userID: userID},
		freeDailyCalls:    5,
		premiumDailyCalls: 200,
		log:               zerolog.Nop(),
	}
	return h, analyzer, userID
}

func authedRequest(method, target, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	r.Header.Set("Authorization", "Bearer test-token")
	return r
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	return body
}

func TestAnalyzeSuccess(t *testing.T) {
	h, analyzer, userID := testHandlers(t)
	analyzer.resp = &analysis.Response{
		Emotion: analysis.Emotion{Label: "joy", Score: 0.95},
		Advice:  "ride the wave",
	}

	w := httptest.NewRecorder()
	r := authedRequest(http.MethodPost, "/api/ai/analyze", `{"text":"best day ever"}`)
	h.RequireAuth(http.HandlerFunc(h.Analyze)).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if analyzer.gotReq.UserID != userID {
		t.Errorf("analyzer saw user %s, want %s", analyzer.gotReq.UserID, userID)
	}
	if analyzer.gotReq.Text != "best day ever" {
		t.Errorf("analyzer saw text %q", analyzer.gotReq.Text)
	}

	body := decodeBody(t, w)
	emotion, ok := body["emotion"].(map[string]any)
	if !ok || emotion["label"] != "joy" {
		t.Errorf("body emotion = %v, want label joy", body["emotion"])
	}
}

func TestAnalyzeQuotaExhausted(t *testing.T) {
	h, analyzer, _ := testHandlers(t)
	analyzer.err = &analysis.QuotaError{CurrentCalls: 5, MaxCalls: 5, Plan: quota.PlanFree}

	w := httptest.NewRecorder()
	r := authedRequest(http.MethodPost, "/api/ai/analyze", `{"text":"hello"}`)
	h.RequireAuth(http.HandlerFunc(h.Analyze)).ServeHTTP(w, r)

	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusPaymentRequired)
	}
	body := decodeBody(t, w)
	if body["current_calls"] != float64(5) || body["max_calls"] != float64(5) {
		t.Errorf("body = %v, want current_calls=5 max_calls=5", body)
	}
	if body["plan"] != string(quota.PlanFree) {
		t.Errorf("plan = %v, want %s", body["plan"], quota.PlanFree)
	}
}

func TestAnalyzeValidationError(t *testing.T) {
	h, analyzer, _ := testHandlers(t)
	analyzer.err = &analysis.ValidationError{Detail: "Text is required for analysis"}

	w := httptest.NewRecorder()
	r := authedRequest(http.MethodPost, "/api/ai/analyze", `{"text":""}`)
	h.RequireAuth(http.HandlerFunc(h.Analyze)).ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if body := decodeBody(t, w); body["detail"] != "Text is required for analysis" {
		t.Errorf("detail = %v", body["detail"])
	}
}

func TestAnalyzeInternalError(t *testing.T) {
	h, analyzer, _ := testHandlers(t)
	analyzer.err = errors.New("pool exhausted")

	w := httptest.NewRecorder()
	r := authedRequest(http.MethodPost, "/api/ai/analyze", `{"text":"hello"}`)
	h.RequireAuth(http.HandlerFunc(h.Analyze)).ServeHTTP(w, r)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	body := decodeBody(t, w)
	if body["ai_unavailable"] != true {
		t.Errorf("ai_unavailable = %v, want true", body["ai_unavailable"])
	}
	if detail, _ := body["detail"].(string); strings.Contains(detail, "pool exhausted") {
		t.Errorf("detail leaks internal error: %q", detail)
	}
}

func TestRecommendations(t *testing.T) {
	h, _, _ := testHandlers(t)

	w := httptest.NewRecorder()
	r := authedRequest(http.MethodGet, "/api/ai/recommendations?mood=Happy", "")
	h.RequireAuth(http.HandlerFunc(h.Recommendations)).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := decodeBody(t, w)
	if body["mood"] != "Happy" {
		t.Errorf("mood = %v, want Happy", body["mood"])
	}
	playlists, ok := body["playlists"].([]any)
	if !ok || len(playlists) == 0 {
		t.Errorf("playlists = %v, want non-empty list", body["playlists"])
	}
}

func TestRecommendationsMissingMood(t *testing.T) {
	h, _, _ := testHandlers(t)

	w := httptest.NewRecorder()
	r := authedRequest(http.MethodGet, "/api/ai/recommendations", "")
	h.RequireAuth(http.HandlerFunc(h.Recommendations)).ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name   string
		header string
		parse  error
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer bad", parse: auth.ErrInvalidToken, want: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer good", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Handlers{
				tokens: &fakeTokens{userID: uuid.New(), err: tt.parse},
				log:    zerolog.Nop(),
			}

			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				if requestUserID(r) == uuid.Nil {
					t.Error("user ID missing from context")
				}
				w.WriteHeader(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			h.RequireAuth(next).ServeHTTP(w, r)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
			if wantCalled := tt.want == http.StatusOK; called != wantCalled {
				t.Errorf("next called = %v, want %v", called, wantCalled)
			}
		})
	}
}

func TestCreateMoodLogValidation(t *testing.T) {
	longNote := strings.Repeat("a", 1001)
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "unknown mood",
			body: `{"mood":"melancholic"}`,
			want: "Mood must be one of",
		},
		{
			name: "intensity too high",
			body: `{"mood":"happy","intensity":11}`,
			want: "Intensity must be between 1 and 10",
		},
		{
			name: "intensity too low",
			body: `{"mood":"happy","intensity":0}`,
			want: "Intensity must be between 1 and 10",
		},
		{
			name: "oversized note",
			body: `{"mood":"happy","note":"` + longNote + `"}`,
			want: "Note cannot exceed 1000 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _ := testHandlers(t)

			w := httptest.NewRecorder()
			r := authedRequest(http.MethodPost, "/api/moods", tt.body)
			h.RequireAuth(http.HandlerFunc(h.CreateMoodLog)).ServeHTTP(w, r)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
			body := decodeBody(t, w)
			detail, _ := body["detail"].(string)
			if !strings.Contains(detail, tt.want) {
				t.Errorf("detail = %q, want fragment %q", detail, tt.want)
			}
		})
	}
}

func TestCreateCheckoutUnknownPlan(t *testing.T) {
	h, _, _ := testHandlers(t)
	h.billing = &fakeBilling{err: payments.ErrPlanNotFound}

	w := httptest.NewRecorder()
	r := authedRequest(http.MethodPost, "/api/payments/checkout", `{"plan_code":"gold"}`)
	h.RequireAuth(http.HandlerFunc(h.CreateCheckout)).ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestPaymentWebhookUnknownPayment(t *testing.T) {
	h, _, _ := testHandlers(t)
	h.billing = &fakeBilling{err: payments.ErrPaymentNotFound}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/payments/webhook",
		strings.NewReader(`{"id":"inv-1","state":"COMPLETE","api_ref":"nope"}`))
	h.PaymentWebhook(w, r)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
