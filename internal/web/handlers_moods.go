package web

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/moodmate/moodmate-backend/internal/db"
)

const (
	maxNoteLength   = 1000
	defaultPageSize = 20
	maxPageSize     = 100
)

var moodChoices = map[string]bool{
	"happy":      true,
	"sad":        true,
	"anxious":    true,
	"stressed":   true,
	"calm":       true,
	"excited":    true,
	"angry":      true,
	"confused":   true,
	"energetic":  true,
	"tired":      true,
	"content":    true,
	"frustrated": true,
}

type createMoodLogRequest struct {
	Mood      string  `json:"mood"`
	Intensity *int    `json:"intensity"`
	Note      *string `json:"note"`
}

type moodLogPayload struct {
	ID                 uuid.UUID `json:"id"`
	Mood               string    `json:"mood"`
	Intensity          int       `json:"intensity"`
	Note               *string   `json:"note"`
	DetectedEmotion    *string   `json:"detected_emotion"`
	DetectedConfidence *float64  `json:"detected_confidence"`
	Advice             *string   `json:"advice"`
	CreatedAt          time.Time `json:"created_at"`
}

func moodLogToPayload(entry *db.MoodLog) moodLogPayload {
	return moodLogPayload{
		ID:                 entry.ID,
		Mood:               entry.Mood,
		Intensity:          entry.Intensity,
		Note:               entry.Note,
		DetectedEmotion:    entry.DetectedEmotion,
		DetectedConfidence: entry.DetectedConfidence,
		Advice:             entry.Advice,
		CreatedAt:          entry.CreatedAt,
	}
}

func validMoodChoices() string {
	choices := make([]string, 0, len(moodChoices))
	for mood := range moodChoices {
		choices = append(choices, mood)
	}
	sort.Strings(choices)
	return strings.Join(choices, ", ")
}

// ListMoodLogs returns the user's mood journal, newest first
// (GET /api/moods?limit=&offset=).
func (h *Handlers) ListMoodLogs(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultPageSize)
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	entries, err := h.moodLogs.ListForUser(r.Context(), requestUserID(r), limit, offset)
	if err != nil {
		h.log.Error().Err(err).Msg("web: listing mood logs")
		respondDetail(w, http.StatusInternalServerError, "Failed to load mood logs")
		return
	}

	results := make([]moodLogPayload, 0, len(entries))
	for i := range entries {
		results = append(results, moodLogToPayload(&entries[i]))
	}
	respondJSON(w, http.StatusOK, map[string]any{"results": results})
}

// CreateMoodLog records a manual mood entry (POST /api/moods).
func (h *Handlers) CreateMoodLog(w http.ResponseWriter, r *http.Request) {
	var req createMoodLogRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	mood := strings.ToLower(strings.TrimSpace(req.Mood))
	if !moodChoices[mood] {
		respondDetail(w, http.StatusBadRequest, fmt.Sprintf("Mood must be one of: %s", validMoodChoices()))
		return
	}

	intensity := 5
	if req.Intensity != nil {
		intensity = *req.Intensity
	}
	if intensity < 1 || intensity > 10 {
		respondDetail(w, http.StatusBadRequest, "Intensity must be between 1 and 10")
		return
	}

	if req.Note != nil && utf8.RuneCountInString(*req.Note) > maxNoteLength {
		respondDetail(w, http.StatusBadRequest, "Note cannot exceed 1000 characters")
		return
	}

	entry := &db.MoodLog{
		UserID:    requestUserID(r),
		Mood:      mood,
		Intensity: intensity,
		Note:      req.Note,
	}
	if err := h.moodLogs.Create(r.Context(), entry); err != nil {
		h.log.Error().Err(err).Msg("web: creating mood log")
		respondDetail(w, http.StatusInternalServerError, "Failed to save mood log")
		return
	}

	respondJSON(w, http.StatusCreated, moodLogToPayload(entry))
}

// GetMoodLog returns a single entry owned by the user
// (GET /api/moods/{id}).
func (h *Handlers) GetMoodLog(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondDetail(w, http.StatusNotFound, "Mood log not found")
		return
	}

	entry, err := h.moodLogs.Get(r.Context(), requestUserID(r), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondDetail(w, http.StatusNotFound, "Mood log not found")
			return
		}
		h.log.Error().Err(err).Msg("web: loading mood log")
		respondDetail(w, http.StatusInternalServerError, "Failed to load mood log")
		return
	}

	respondJSON(w, http.StatusOK, moodLogToPayload(entry))
}

// DeleteMoodLog removes an entry owned by the user
// (DELETE /api/moods/{id}).
func (h *Handlers) DeleteMoodLog(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondDetail(w, http.StatusNotFound, "Mood log not found")
		return
	}

	if err := h.moodLogs.Delete(r.Context(), requestUserID(r), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondDetail(w, http.StatusNotFound, "Mood log not found")
			return
		}
		h.log.Error().Err(err).Msg("web: deleting mood log")
		respondDetail(w, http.StatusInternalServerError, "Failed to delete mood log")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
