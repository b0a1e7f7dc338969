package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/moodmate/moodmate-backend/internal/analysis"
	"github.com/moodmate/moodmate-backend/internal/music"
)

type analyzeRequest struct {
	Text    string `json:"text"`
	Mood    string `json:"mood"`
	Persist bool   `json:"persist"`
}

// Analyze classifies the submitted text and returns advice and playlist
// recommendations (POST /api/ai/analyze).
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.analyzer.Analyze(r.Context(), analysis.Request{
		UserID:  requestUserID(r),
		Text:    req.Text,
		Mood:    req.Mood,
		Persist: req.Persist,
	})
	if err != nil {
		var quotaErr *analysis.QuotaError
		var validationErr *analysis.ValidationError
		switch {
		case errors.As(err, &quotaErr):
			respondJSON(w, http.StatusPaymentRequired, map[string]any{
				"detail":        "Daily AI limit reached. Upgrade to Premium for more calls.",
				"current_calls": quotaErr.CurrentCalls,
				"max_calls":     quotaErr.MaxCalls,
				"plan":          quotaErr.Plan,
			})
		case errors.As(err, &validationErr):
			respondDetail(w, http.StatusBadRequest, validationErr.Detail)
		default:
			h.log.Error().Err(err).Msg("web: analysis failed")
			respondJSON(w, http.StatusInternalServerError, map[string]any{
				"detail":         "An error occurred during analysis. Please try again.",
				"ai_unavailable": true,
			})
		}
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Recommendations returns curated playlists for a mood without spending
// AI quota (GET /api/ai/recommendations?mood=...).
func (h *Handlers) Recommendations(w http.ResponseWriter, r *http.Request) {
	mood := strings.TrimSpace(r.URL.Query().Get("mood"))
	if mood == "" {
		respondDetail(w, http.StatusBadRequest, "Mood parameter is required")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"mood":      mood,
		"playlists": music.Recommend(mood),
	})
}
