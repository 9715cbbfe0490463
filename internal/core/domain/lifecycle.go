package domain

import (
	"math"
	"time"
)

// LifecycleStage is a donor's mutually exclusive lifecycle stage.
type LifecycleStage string

// Lifecycle stages.
const (
	// StageNew covers donors whose last gift falls inside the new-donor window.
	StageNew LifecycleStage = "new"

	// StageActive covers donors giving recently but outside the new window.
	StageActive LifecycleStage = "active"

	// StageLapsed covers donors overdue for re-engagement. Donors with no
	// recorded gift classify here too: they need outreach, not onboarding.
	StageLapsed LifecycleStage = "lapsed"

	// StageLost covers donors past the lost window.
	StageLost LifecycleStage = "lost"
)

// String returns the string representation.
func (s LifecycleStage) String() string {
	return string(s)
}

// LifecycleConfig holds the four classification thresholds.
// A zero field means "use the default". The thresholds are compared
// independently and never validated against each other; a config with
// LapsedMonths below NewDonorMonths is accepted and the fixed priority
// order in ClassifyLifecycle decides the outcome.
type LifecycleConfig struct {
	// NewDonorMonths is the new-donor window (default 6).
	NewDonorMonths float64

	// LapsedMonths is the lapsed window (default 12).
	LapsedMonths float64

	// LostMonths is the lost window (default 24).
	LostMonths float64

	// MajorDonorThreshold is the major-donor dollar floor (default 5000).
	MajorDonorThreshold float64
}

// DefaultLifecycleConfig returns the standard thresholds.
func DefaultLifecycleConfig() LifecycleConfig {
	return LifecycleConfig{
		NewDonorMonths:      6,
		LapsedMonths:        12,
		LostMonths:          24,
		MajorDonorThreshold: 5000,
	}
}

func (c LifecycleConfig) withDefaults() LifecycleConfig {
	d := DefaultLifecycleConfig()
	if c.NewDonorMonths == 0 {
		c.NewDonorMonths = d.NewDonorMonths
	}
	if c.LapsedMonths == 0 {
		c.LapsedMonths = d.LapsedMonths
	}
	if c.LostMonths == 0 {
		c.LostMonths = d.LostMonths
	}
	if c.MajorDonorThreshold == 0 {
		c.MajorDonorThreshold = d.MajorDonorThreshold
	}
	return c
}

// DonorFacts are the gift-history inputs the classifier consumes.
type DonorFacts struct {
	// LastGiftDate is the most recent gift date in DateOnly format.
	// Empty or malformed values classify as Lapsed.
	LastGiftDate string

	// LifetimeValue is the denormalised gift total, nil when unknown.
	LifetimeValue *float64
}

// LifecycleResult is the classifier output. The stage is exclusive;
// the major-donor flag is independent of it.
type LifecycleResult struct {
	Stage        LifecycleStage
	IsMajorDonor bool
}

// daysPerMonth is the flat month length used for recency arithmetic.
// Deliberately not calendar-aware: the thresholds are coarse windows,
// not anniversaries.
const daysPerMonth = 30

// ClassifyLifecycle computes a donor's lifecycle stage and major-donor flag
// from gift-history facts, as of now. It is pure: the same facts, config,
// and now always produce the same result, and malformed input coerces to a
// safe default instead of failing.
func ClassifyLifecycle(facts DonorFacts, cfg LifecycleConfig, now time.Time) LifecycleResult {
	cfg = cfg.withDefaults()

	value := 0.0
	if facts.LifetimeValue != nil && !math.IsNaN(*facts.LifetimeValue) && !math.IsInf(*facts.LifetimeValue, 0) {
		value = *facts.LifetimeValue
	}

	// Strictly greater-than: exactly at the threshold is not major.
	result := LifecycleResult{IsMajorDonor: value > cfg.MajorDonorThreshold}

	last, ok := ParseDateOnly(facts.LastGiftDate)
	if !ok {
		result.Stage = StageLapsed
		return result
	}

	months := now.Sub(last).Hours() / 24 / daysPerMonth

	switch {
	case months > cfg.LostMonths:
		result.Stage = StageLost
	case months > cfg.LapsedMonths:
		result.Stage = StageLapsed
	case months <= cfg.NewDonorMonths:
		result.Stage = StageNew
	default:
		result.Stage = StageActive
	}

	return result
}
