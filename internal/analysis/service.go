// Package analysis orchestrates the AI emotion analysis workflow: quota
// check, classification, advice and music lookup, quota consumption and
// optional persistence.
package analysis

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/moodmate/moodmate-backend/internal/advice"
	"github.com/moodmate/moodmate-backend/internal/db"
	"github.com/moodmate/moodmate-backend/internal/emotion"
	"github.com/moodmate/moodmate-backend/internal/music"
	"github.com/moodmate/moodmate-backend/internal/quota"
)

// MaxTextLength is the longest text accepted for analysis.
const MaxTextLength = 1000

// Classifier produces an emotion result for a piece of text. Never fails;
// degraded results carry the Degraded flag instead.
type Classifier interface {
	Classify(ctx context.Context, text string) emotion.Result
}

// Quota gates and meters analysis calls.
type Quota interface {
	Check(ctx context.Context, userID uuid.UUID) (quota.Status, error)
	Increment(ctx context.Context, userID uuid.UUID) error
}

// Store persists analysis outcomes. RecordAnalysis must insert the entry
// and consume one quota unit in a single transaction.
type Store interface {
	RecordAnalysis(ctx context.Context, entry *db.MoodLog) (uuid.UUID, error)
}

// Request is one analysis call.
type Request struct {
	UserID  uuid.UUID
	Text    string
	Mood    string // optional user-reported mood, overrides the detected label when persisting
	Persist bool
}

// Emotion is the echoed classification in a response.
type Emotion struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Response is a successful analysis result.
type Response struct {
	Emotion              Emotion          `json:"emotion"`
	Advice               string           `json:"advice"`
	MusicRecommendations []music.Playlist `json:"music_recommendations"`
	Disclaimer           string           `json:"disclaimer"`
	AIUnavailable        bool             `json:"ai_unavailable"`
	MoodLogID            *uuid.UUID       `json:"mood_log_id,omitempty"`
}

// QuotaError reports an exhausted daily budget. No quota is consumed and
// the classifier is never called.
type QuotaError struct {
	CurrentCalls int
	MaxCalls     int
	Plan         quota.Plan
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("daily AI limit reached (%d/%d, plan %s)", e.CurrentCalls, e.MaxCalls, e.Plan)
}

// ValidationError reports malformed caller input. No quota is consumed.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return e.Detail
}

// InternalError is the generic failure surfaced when any step after
// validation fails unexpectedly. It never carries internal details.
type InternalError struct {
	cause error
}

func (e *InternalError) Error() string {
	return "an error occurred during analysis, please try again"
}

func (e *InternalError) Unwrap() error {
	return e.cause
}

// Service runs the analysis workflow.
type Service struct {
	quota      Quota
	classifier Classifier
	store      Store
	log        zerolog.Logger
}

// NewService creates an analysis service.
func NewService(q Quota, c Classifier, store Store, log zerolog.Logger) *Service {
	return &Service{
		quota:      q,
		classifier: c,
		store:      store,
		log:        log,
	}
}

// Analyze runs the full workflow. The step order is load-bearing: the
// quota check runs before validation and classification so an exhausted
// user costs nothing, and the counter is consumed after classification
// whether or not the classifier degraded.
func (s *Service) Analyze(ctx context.Context, req Request) (*Response, error) {
	status, err := s.quota.Check(ctx, req.UserID)
	if err != nil {
		s.log.Error().Err(err).Stringer("user_id", req.UserID).Msg("analysis: quota check failed")
		return nil, &InternalError{cause: err}
	}
	if !status.Allowed {
		return nil, &QuotaError{
			CurrentCalls: status.CurrentCalls,
			MaxCalls:     status.MaxCalls,
			Plan:         status.Plan,
		}
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, &ValidationError{Detail: "Text is required for analysis"}
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return nil, &ValidationError{Detail: "Text cannot exceed 1000 characters"}
	}

	result := s.classifier.Classify(ctx, text)
	adviceText := advice.For(result.Label)
	playlists := music.Recommend(result.Label)

	resp := &Response{
		Emotion:              Emotion{Label: result.Label, Score: result.Score},
		Advice:               adviceText,
		MusicRecommendations: playlists,
		Disclaimer:           advice.Disclaimer,
		AIUnavailable:        result.Degraded,
	}

	if req.Persist {
		entry := buildEntry(req, text, result, adviceText)
		id, err := s.store.RecordAnalysis(ctx, entry)
		if err != nil {
			s.log.Error().Err(err).Stringer("user_id", req.UserID).Msg("analysis: persisting result failed")
			return nil, &InternalError{cause: err}
		}
		resp.MoodLogID = &id
		return resp, nil
	}

	if err := s.quota.Increment(ctx, req.UserID); err != nil {
		s.log.Error().Err(err).Stringer("user_id", req.UserID).Msg("analysis: quota increment failed")
		return nil, &InternalError{cause: err}
	}
	return resp, nil
}

func buildEntry(req Request, text string, result emotion.Result, adviceText string) *db.MoodLog {
	mood := req.Mood
	if mood == "" {
		mood = result.Label
	}
	return &db.MoodLog{
		UserID:             req.UserID,
		Mood:               mood,
		Intensity:          intensityFromScore(result.Score),
		Note:               &text,
		DetectedEmotion:    &result.Label,
		DetectedConfidence: &result.Score,
		Advice:             &adviceText,
	}
}

// intensityFromScore maps a 0..1 confidence onto the 1..10 intensity
// scale: round half away from zero, then clamp. A score of 0.95 rounds
// to 10.
func intensityFromScore(score float64) int {
	intensity := int(math.Round(score * 10))
	if intensity < 1 {
		return 1
	}
	if intensity > 10 {
		return 10
	}
	return intensity
}
