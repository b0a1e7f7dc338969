package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/moodmate/moodmate-backend/internal/auth"
	"github.com/moodmate/moodmate-backend/internal/db"
	"github.com/moodmate/moodmate-backend/internal/quota"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type profilePayload struct {
	Plan             quota.Plan `json:"plan"`
	PremiumExpiresAt *time.Time `json:"premium_expires_at"`
	DailyAICalls     int        `json:"daily_ai_calls"`
	RemainingAICalls int        `json:"remaining_ai_calls"`
	IsPremiumActive  bool       `json:"is_premium_active"`
}

type userPayload struct {
	ID       string          `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Profile  *profilePayload `json:"profile,omitempty"`
}

func (h *Handlers) profilePayload(profile *db.Profile) *profilePayload {
	state := quota.State{
		Plan:             profile.Plan,
		PremiumExpiresAt: profile.PremiumExpiresAt,
	}
	active := state.PremiumActive(time.Now())

	maxCalls := h.freeDailyCalls
	if active {
		maxCalls = h.premiumDailyCalls
	}
	remaining := maxCalls - profile.DailyAICalls
	if remaining < 0 {
		remaining = 0
	}

	return &profilePayload{
		Plan:             profile.Plan,
		PremiumExpiresAt: profile.PremiumExpiresAt,
		DailyAICalls:     profile.DailyAICalls,
		RemainingAICalls: remaining,
		IsPremiumActive:  active,
	}
}

// Register creates a new account with a default FREE profile
// (POST /api/auth/register).
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		respondDetail(w, http.StatusBadRequest, "Username is required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			respondDetail(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("web: hashing password")
		respondDetail(w, http.StatusInternalServerError, "Registration failed. Please try again.")
		return
	}

	user := &db.User{
		Username:     req.Username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, db.ErrUsernameTaken) {
			respondDetail(w, http.StatusBadRequest, "Username already taken")
			return
		}
		h.log.Error().Err(err).Msg("web: creating user")
		respondDetail(w, http.StatusInternalServerError, "Registration failed. Please try again.")
		return
	}

	pair, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("web: issuing tokens")
		respondDetail(w, http.StatusInternalServerError, "Registration failed. Please try again.")
		return
	}

	// The profile was created alongside the user in the same transaction.
	payload := userPayload{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
	}
	if profile, err := h.profiles.Get(r.Context(), user.ID); err == nil {
		payload.Profile = h.profilePayload(profile)
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"user":    payload,
		"access":  pair.Access,
		"refresh": pair.Refresh,
	})
}

// Login verifies credentials and returns a token pair
// (POST /api/auth/login).
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondDetail(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		h.log.Error().Err(err).Msg("web: loading user")
		respondDetail(w, http.StatusInternalServerError, "Login failed. Please try again.")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondDetail(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	pair, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("web: issuing tokens")
		respondDetail(w, http.StatusInternalServerError, "Login failed. Please try again.")
		return
	}

	payload := userPayload{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
	}
	if profile, err := h.profiles.Get(r.Context(), user.ID); err == nil {
		payload.Profile = h.profilePayload(profile)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user":    payload,
		"access":  pair.Access,
		"refresh": pair.Refresh,
	})
}

// Refresh exchanges a refresh token for a new token pair
// (POST /api/auth/refresh).
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil || req.Refresh == "" {
		respondDetail(w, http.StatusBadRequest, "Refresh token is required")
		return
	}

	userID, err := h.tokens.Parse(req.Refresh, auth.TokenRefresh)
	if err != nil {
		respondDetail(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	pair, err := h.tokens.Issue(userID)
	if err != nil {
		h.log.Error().Err(err).Msg("web: issuing tokens")
		respondDetail(w, http.StatusInternalServerError, "Token refresh failed. Please try again.")
		return
	}

	respondJSON(w, http.StatusOK, pair)
}

// Me returns the current user with profile and quota summary
// (GET /api/users/me).
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		respondDetail(w, http.StatusNotFound, "User not found")
		return
	}
	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("web: loading profile")
		respondDetail(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	respondJSON(w, http.StatusOK, userPayload{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		Profile:  h.profilePayload(profile),
	})
}
