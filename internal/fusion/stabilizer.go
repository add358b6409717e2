package fusion

import (
	"sync"
	"time"

	"FusionGate/internal/domain/models"
	"FusionGate/internal/filters"
)

// EMA alphas used by the noise gate and drift control corrections.
const (
	noiseAlpha = 0.3
	driftAlpha = 0.25
)

// StabilizerConfig carries the stabilizer's tunable constants.
type StabilizerConfig struct {
	SmoothingFactor     float64
	ConfidenceWeight    float64
	NoiseGate           float64 // z-score gate above which a sample is treated as noise
	DriftThreshold      float64 // max accepted jump against the previous score
	VolatilityDampening float64
	ShieldPenalty       float64
	HistorySize         int
}

// DefaultStabilizerConfig returns the production defaults.
func DefaultStabilizerConfig() StabilizerConfig {
	return StabilizerConfig{
		SmoothingFactor:     0.35,
		ConfidenceWeight:    0.25,
		NoiseGate:           0.7,
		DriftThreshold:      12,
		VolatilityDampening: 0.15,
		ShieldPenalty:       0.22,
		HistorySize:         25,
	}
}

// Stabilizer post-processes raw fusion outputs: noise gating, drift
// correction, volatility and shield-penalty deductions, then smoothing. It
// owns a bounded history of past smoothed scores and the last derived
// confidence value.
type Stabilizer struct {
	mu             sync.Mutex
	cfg            StabilizerConfig
	history        *filters.History
	lastConfidence float64
	now            func() time.Time
}

// NewStabilizer constructs a stabilizer from cfg.
func NewStabilizer(cfg StabilizerConfig) *Stabilizer {
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 25
	}
	return &Stabilizer{
		cfg:     cfg,
		history: filters.NewHistory(cfg.HistorySize),
		now:     time.Now,
	}
}

// Stabilize corrects and smooths one raw fusion output.
func (s *Stabilizer) Stabilize(raw models.FusionOutput) models.StabilizedFusion {
	s.mu.Lock()
	defer s.mu.Unlock()

	score := raw.FusionScore

	// Noise gate: an outlier sample is smoothed instead of trusted.
	if z := filters.ZScore(score, s.history); z > s.cfg.NoiseGate || z < -s.cfg.NoiseGate {
		score = filters.EMA(raw.FusionScore, noiseAlpha, s.history)
	}

	// Drift control: too abrupt a jump against the predecessor gets pulled
	// back toward the history.
	if s.history.Len() >= 2 {
		jump := score - s.history.Last()
		if jump < 0 {
			jump = -jump
		}
		if jump > s.cfg.DriftThreshold {
			score = filters.EMA(score, driftAlpha, s.history)
		}
	}
	drifted := score

	score -= raw.Volatility * s.cfg.VolatilityDampening
	score -= raw.StabilityPenalty * s.cfg.ShieldPenalty
	score -= raw.CorrelationPenalty * 10

	smoothed := filters.Smooth(filters.Clamp(score, 0, 100), s.history)
	s.history.Push(smoothed)

	base := filters.Clamp(100-raw.Volatility-drifted, 0, 100)
	base *= 1 - s.cfg.ConfidenceWeight
	confidence := filters.Smooth(base, filters.NewHistoryFrom(1, s.lastConfidence))
	s.lastConfidence = confidence

	return models.StabilizedFusion{
		Score:      smoothed,
		Confidence: confidence,
		Signal:     raw.Signal,
		Timestamp:  s.now(),
	}
}

// LastConfidence returns the most recently derived confidence value.
func (s *Stabilizer) LastConfidence() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastConfidence
}

// HistoryLen reports how many smoothed scores are currently retained.
func (s *Stabilizer) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Len()
}
