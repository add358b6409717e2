// Package divergence tracks disagreement between signals and between the
// expected model and live market behavior: a threat classifier over raw
// divergence readings, and a reality scanner comparing live performance to
// a backtest baseline and expected model.
package divergence

import (
	"sync"
	"time"

	"FusionGate/internal/domain/models"
	"FusionGate/internal/filters"
)

// Reading is one raw divergence observation. Absent strength, confidence or
// volatility data is treated as 0 and degrades to a calm classification.
type Reading struct {
	Strength   float64 // 0-100
	Confidence float64 // 0-100
	Volatility float64 // 0-100
	Direction  models.Direction
	Timestamp  time.Time
}

// ControllerConfig carries the classifier's tunable constants. The score is
// monotonic in strength and confidence by construction.
type ControllerConfig struct {
	StrengthWeight   float64
	ConfidenceWeight float64
	VolatilityWeight float64
	ModerateAt       float64
	ElevatedAt       float64
	SevereAt         float64
	HistorySize      int
}

// DefaultControllerConfig returns the production defaults.
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		StrengthWeight:   0.5,
		ConfidenceWeight: 0.35,
		VolatilityWeight: 0.15,
		ModerateAt:       25,
		ElevatedAt:       50,
		SevereAt:         75,
		HistorySize:      200,
	}
}

// Controller classifies divergence readings into threat scores and owns the
// bounded history of past scores.
type Controller struct {
	mu      sync.Mutex
	cfg     ControllerConfig
	history *filters.Ring[models.DivergenceThreatScore]
	summary *models.DivergenceThreatSummary
	now     func() time.Time
}

// NewController constructs a controller from cfg.
func NewController(cfg ControllerConfig) *Controller {
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 200
	}
	return &Controller{
		cfg:     cfg,
		history: filters.NewRing[models.DivergenceThreatScore](cfg.HistorySize),
		now:     time.Now,
	}
}

// Update classifies one reading, appends it to the history and refreshes
// the current summary.
func (c *Controller) Update(r Reading) models.DivergenceThreatScore {
	c.mu.Lock()
	defer c.mu.Unlock()

	strength := filters.Clamp(r.Strength, 0, 100)
	confidence := filters.Clamp(r.Confidence, 0, 100)
	volatility := filters.Clamp(r.Volatility, 0, 100)
	direction := r.Direction
	if direction == "" {
		direction = models.DirectionNeutral
	}
	ts := r.Timestamp
	if ts.IsZero() {
		ts = c.now()
	}

	score := filters.Clamp(
		c.cfg.StrengthWeight*strength+c.cfg.ConfidenceWeight*confidence+c.cfg.VolatilityWeight*volatility,
		0, 100,
	)

	threat := models.DivergenceThreatScore{
		Strength:       strength,
		Confidence:     confidence,
		Volatility:     volatility,
		Direction:      direction,
		Score:          score,
		Classification: c.classify(score),
		Timestamp:      ts,
	}
	c.history.Push(threat)
	c.summary = &models.DivergenceThreatSummary{
		Score:          score,
		Classification: threat.Classification,
		Direction:      direction,
		Samples:        c.history.Len(),
		Updated:        ts,
	}
	return threat
}

func (c *Controller) classify(score float64) models.ThreatClass {
	switch {
	case score >= c.cfg.SevereAt:
		return models.ThreatSevere
	case score >= c.cfg.ElevatedAt:
		return models.ThreatElevated
	case score >= c.cfg.ModerateAt:
		return models.ThreatModerate
	default:
		return models.ThreatCalm
	}
}

// Summary returns a copy of the most recent summary, or nil before the
// first update.
func (c *Controller) Summary() *models.DivergenceThreatSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.summary == nil {
		return nil
	}
	s := *c.summary
	return &s
}

// History returns the bounded threat score history, oldest first.
func (c *Controller) History() []models.DivergenceThreatScore {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Values()
}
