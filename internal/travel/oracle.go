// Package travel implements the deterministic+noisy travel-time oracle
// (spec.md §4.1): base OD lookup, triage/traffic adjustment, and
// multiplicative noise, all seconds-denominated and floored to int.
package travel

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/Emergency-Optimizers/Simulator-sub000/internal/tables"
)

// ErrUnknownGrid is returned when either endpoint is missing from the OD
// matrix (spec.md §4.1, §7). Callers typically skip the candidate.
var ErrUnknownGrid = errors.New("UNKNOWN_GRID")

// Triage is the call-acuity tag (spec.md GLOSSARY).
type Triage string

const (
	TriageAcute     Triage = "A"
	TriageUrgent    Triage = "H"
	TriageScheduled Triage = "V1"
)

// unknownGridFallbackSeconds is substituted when the OD matrix has no
// entry for a pair, but the caller has opted into the fallback instead of
// propagating ErrUnknownGrid (spec.md §4.1 "substitute 60 s").
const unknownGridFallbackSeconds = 60.0

// Config holds the policy knobs spec.md §9 surfaces as config rather than
// hardcoded constants.
type Config struct {
	// AcuteTravelFactor multiplies travel time for triage A calls that are
	// not otherwise traffic-forced. Default 0.7953711902650347.
	AcuteTravelFactor float64
	// NoiseMean/NoiseStdev parametrize the multiplicative noise applied to
	// every estimate. Default Normal(1.0, 0.10).
	NoiseMean  float64
	NoiseStdev float64
	// ClampEnabled/ClampMin/ClampMax optionally clamp the noise factor.
	// Default: disabled (spec.md §9 open question — the clamp described in
	// the source's comments was never actually applied).
	ClampEnabled bool
	ClampMin     float64
	ClampMax     float64
}

// DefaultConfig returns the spec.md defaults.
func DefaultConfig() Config {
	return Config{
		AcuteTravelFactor: 0.7953711902650347,
		NoiseMean:         1.0,
		NoiseStdev:        0.10,
		ClampEnabled:      false,
		ClampMin:          0.95,
		ClampMax:          1.05,
	}
}

// Oracle is the stateful travel-time estimator: stateful only in that it
// owns the RNG stream used for noise (spec.md §4.1, §9 RNG discipline —
// the oracle's noise stream is its own named subsystem).
type Oracle struct {
	tables *tables.Tables
	cfg    Config
	rng    *rand.Rand
}

// New constructs an Oracle bound to tbl, seeded deterministically from
// rng (the caller is expected to hand in a subsystem-scoped RNG, e.g.
// simrng.Partitioned.ForSubsystem("travel_noise")).
func New(tbl *tables.Tables, cfg Config, rng *rand.Rand) *Oracle {
	return &Oracle{tables: tbl, cfg: cfg, rng: rng}
}

// Estimate returns the travel time in seconds from origin to destination
// for the given triage, absolute time, and forceTrafficFactor flag
// (spec.md §4.1). If either grid id is missing from the OD matrix, it
// returns ErrUnknownGrid and the caller decides whether to skip the
// candidate or fall back to 60s via EstimateOrFallback.
func (o *Oracle) Estimate(origin, destination tables.GridID, triage Triage, at time.Time, forceTrafficFactor bool) (int64, error) {
	if !o.tables.OD.Has(origin) || !o.tables.OD.Has(destination) {
		return 0, ErrUnknownGrid
	}
	base, ok := o.tables.OD.Lookup(origin, destination)
	if !ok {
		return 0, ErrUnknownGrid
	}

	adjusted := base
	switch {
	case forceTrafficFactor || triage == TriageScheduled:
		adjusted *= o.tables.Traffic.Factor(int(at.Weekday()), at.Hour())
	case triage == TriageAcute:
		adjusted *= o.cfg.AcuteTravelFactor
	}

	noise := o.noiseFactor()
	adjusted *= noise

	return int64(math.Floor(adjusted)), nil
}

// EstimateOrFallback behaves like Estimate but substitutes the 60s
// fallback instead of returning ErrUnknownGrid (spec.md §4.1, used by
// callers that must always produce a wait increment, e.g. preparing to
// depart toward a depot).
func (o *Oracle) EstimateOrFallback(origin, destination tables.GridID, triage Triage, at time.Time, forceTrafficFactor bool) int64 {
	v, err := o.Estimate(origin, destination, triage, at, forceTrafficFactor)
	if err != nil {
		return int64(unknownGridFallbackSeconds)
	}
	return v
}

// noiseFactor samples the multiplicative noise term: Normal(mean, stdev),
// optionally clamped per Config (spec.md §9 open question).
func (o *Oracle) noiseFactor() float64 {
	n := o.cfg.NoiseMean + o.rng.NormFloat64()*o.cfg.NoiseStdev
	if o.cfg.ClampEnabled {
		if n < o.cfg.ClampMin {
			n = o.cfg.ClampMin
		}
		if n > o.cfg.ClampMax {
			n = o.cfg.ClampMax
		}
	}
	return n
}
