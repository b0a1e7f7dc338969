// Package quota enforces the per-user daily budget for AI analysis calls.
package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Plan is a subscription plan code.
type Plan string

const (
	PlanFree    Plan = "FREE"
	PlanPremium Plan = "PREMIUM"
)

// State is a user's quota counters as stored in their profile.
type State struct {
	Plan             Plan
	PremiumExpiresAt *time.Time
	DailyCalls       int
	LastReset        *time.Time // calendar date of the last daily reset, nil before first use
}

// PremiumActive reports whether the premium plan is in force at now.
func (s State) PremiumActive(now time.Time) bool {
	if s.Plan != PlanPremium || s.PremiumExpiresAt == nil {
		return false
	}
	return now.Before(*s.PremiumExpiresAt)
}

// Store persists quota state. Increment must be an atomic counter update
// at the data layer: concurrent increments for the same user may not lose
// updates.
type Store interface {
	State(ctx context.Context, userID uuid.UUID) (State, error)

	// Reset zeroes the daily counter and records day as the last reset
	// date. Implementations must make it conditional on the stored reset
	// date being older than day, so a concurrent duplicate is a no-op.
	Reset(ctx context.Context, userID uuid.UUID, day time.Time) error

	Increment(ctx context.Context, userID uuid.UUID) error
}

// Limits holds the per-plan daily call ceilings.
type Limits struct {
	FreeDailyCalls    int
	PremiumDailyCalls int
}

// Status is the outcome of a quota check.
type Status struct {
	Allowed      bool
	CurrentCalls int
	MaxCalls     int
	Plan         Plan
}

// Manager tracks, resets and enforces per-user daily call budgets.
type Manager struct {
	store  Store
	limits Limits
	loc    *time.Location
	now    func() time.Time
}

// NewManager creates a quota manager. Daily resets are evaluated against
// the calendar date in loc.
func NewManager(store Store, limits Limits, loc *time.Location) *Manager {
	return &Manager{
		store:  store,
		limits: limits,
		loc:    loc,
		now:    time.Now,
	}
}

// today returns midnight of the current day in the configured timezone.
func (m *Manager) today() time.Time {
	now := m.now().In(m.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, m.loc)
}

// EnsureDailyReset zeroes the user's counter at the first call of a new
// calendar day. Idempotent within the same day.
func (m *Manager) EnsureDailyReset(ctx context.Context, userID uuid.UUID) error {
	state, err := m.store.State(ctx, userID)
	if err != nil {
		return fmt.Errorf("loading quota state: %w", err)
	}

	today := m.today()
	if state.LastReset != nil && !state.LastReset.In(m.loc).Before(today) {
		return nil
	}
	if err := m.store.Reset(ctx, userID, today); err != nil {
		return fmt.Errorf("resetting daily calls: %w", err)
	}
	return nil
}

// Check reports whether the user may make another analysis call today.
func (m *Manager) Check(ctx context.Context, userID uuid.UUID) (Status, error) {
	if err := m.EnsureDailyReset(ctx, userID); err != nil {
		return Status{}, err
	}

	state, err := m.store.State(ctx, userID)
	if err != nil {
		return Status{}, fmt.Errorf("loading quota state: %w", err)
	}

	maxCalls := m.limits.FreeDailyCalls
	if state.PremiumActive(m.now()) {
		maxCalls = m.limits.PremiumDailyCalls
	}

	return Status{
		Allowed:      state.DailyCalls < maxCalls,
		CurrentCalls: state.DailyCalls,
		MaxCalls:     maxCalls,
		Plan:         state.Plan,
	}, nil
}

// Increment consumes one quota unit. Called exactly once per accepted
// analysis, after classification succeeds or degrades: a degraded result
// still costs the user's budget.
func (m *Manager) Increment(ctx context.Context, userID uuid.UUID) error {
	if err := m.store.Increment(ctx, userID); err != nil {
		return fmt.Errorf("incrementing daily calls: %w", err)
	}
	return nil
}
