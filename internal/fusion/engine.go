// Package fusion blends intelligence and technical readings into a single
// 0-100 fusion score and post-processes it into a stabilized, confidence-
// rated value.
package fusion

import (
	"sync"
	"time"

	"FusionGate/internal/domain/models"
	"FusionGate/internal/filters"
)

// Weights controls the blend of the three fusion components. The engine
// deliberately performs no validation on updates; callers own keeping the
// weights sensible so they can be re-tuned live.
type Weights struct {
	Core       float64
	Divergence float64
	Stabilizer float64
}

// PenaltyWeights scales the stability and correlation deductions.
type PenaltyWeights struct {
	Stability   float64
	Correlation float64
}

// EngineConfig carries every tunable constant of the engine.
type EngineConfig struct {
	Weights     Weights
	Penalties   PenaltyWeights
	HistorySize int
}

// DefaultEngineConfig returns the production defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Weights:     Weights{Core: 0.60, Divergence: 0.25, Stabilizer: 0.15},
		Penalties:   PenaltyWeights{Stability: 0.25, Correlation: 0.30},
		HistorySize: 20,
	}
}

// Engine computes the per-cycle fusion output. It owns a bounded history of
// past fusion scores and the last emitted signal; both are mutated only
// inside ComputeFusion.
type Engine struct {
	mu                  sync.Mutex
	weights             Weights
	penalties           PenaltyWeights
	threatModifier      float64
	confidenceReduction float64
	history             *filters.History
	lastSignal          models.Signal
	now                 func() time.Time
}

// NewEngine constructs an engine from cfg.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 20
	}
	return &Engine{
		weights:        cfg.Weights,
		penalties:      cfg.Penalties,
		threatModifier: 1.0,
		history:        filters.NewHistory(cfg.HistorySize),
		lastSignal:     models.SignalWait,
		now:            time.Now,
	}
}

// ComputeFusion blends one intelligence and one technical snapshot into a
// FusionOutput and records the resulting score in the engine history.
func (e *Engine) ComputeFusion(intel models.IntelligenceSnapshot, tech models.TechnicalSnapshot) models.FusionOutput {
	e.mu.Lock()
	defer e.mu.Unlock()

	technicalScore := tech.StrengthScore()
	volatility := tech.VolatilityScore()

	stabilityPenalty := e.penalties.Stability * (intel.RiskLevel / 100)
	correlationPenalty := e.penalties.Correlation * intel.CascadeRisk

	coreScore := (intel.IntelligenceScore + technicalScore) / 2
	divergenceScore := intel.IntelligenceScore - technicalScore
	if divergenceScore < 0 {
		divergenceScore = -divergenceScore
	}
	stabilizerScore := 100 - volatility

	weighted := models.WeightedBreakdown{
		Core:       coreScore * e.weights.Core,
		Divergence: divergenceScore * e.weights.Divergence,
		Stabilizer: stabilizerScore * e.weights.Stabilizer,
	}

	score := weighted.Core + weighted.Divergence + weighted.Stabilizer
	score -= stabilityPenalty * 20
	score -= correlationPenalty * 15
	score *= e.threatModifier
	score = filters.Clamp(score, 0, 100)
	score = filters.Smooth(score, e.history)
	e.history.Push(score)

	trend := filters.Trend(e.history)
	signal := classifySignal(score, trend)
	e.lastSignal = signal

	return models.FusionOutput{
		FusionScore:        score,
		Signal:             signal,
		RiskClass:          classifyRisk(score, volatility),
		Volatility:         volatility,
		IntelligenceScore:  intel.IntelligenceScore,
		TechnicalScore:     technicalScore,
		StabilityPenalty:   stabilityPenalty,
		CorrelationPenalty: correlationPenalty,
		Timestamp:          e.now(),
		Weighted:           weighted,
	}
}

// Signal priority is fixed: exhaustion sell, confirmed buy, mid-band hold,
// then wait.
func classifySignal(score, trend float64) models.Signal {
	switch {
	case score <= 35 && trend < -0.2:
		return models.SignalSell
	case score > 60 && trend > 0.25:
		return models.SignalBuy
	case score > 40 && score < 70:
		return models.SignalHold
	default:
		return models.SignalWait
	}
}

func classifyRisk(score, volatility float64) models.RiskClass {
	switch {
	case score >= 80 && volatility <= 40:
		return models.RiskLow
	case score >= 55 && volatility <= 55:
		return models.RiskMedium
	case score < 40 && volatility >= 60:
		return models.RiskHigh
	default:
		return models.RiskMedium
	}
}

// UpdateWeights merges non-nil fields into the current weights. No
// validation on purpose: the control surface may re-tune the blend live and
// is responsible for the weights summing sensibly.
func (e *Engine) UpdateWeights(core, divergence, stabilizer, stabilityPen, correlationPen *float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if core != nil {
		e.weights.Core = *core
	}
	if divergence != nil {
		e.weights.Divergence = *divergence
	}
	if stabilizer != nil {
		e.weights.Stabilizer = *stabilizer
	}
	if stabilityPen != nil {
		e.penalties.Stability = *stabilityPen
	}
	if correlationPen != nil {
		e.penalties.Correlation = *correlationPen
	}
}

// SetThreatModifier replaces the multiplicative threat modifier. Unclamped.
func (e *Engine) SetThreatModifier(v float64) {
	e.mu.Lock()
	e.threatModifier = v
	e.mu.Unlock()
}

// ReduceConfidence records a percentage reduction applied to derived
// confidence downstream. Unclamped.
func (e *Engine) ReduceConfidence(pct float64) {
	e.mu.Lock()
	e.confidenceReduction = pct
	e.mu.Unlock()
}

// ConfidenceReduction returns the current confidence reduction percentage.
func (e *Engine) ConfidenceReduction() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.confidenceReduction
}

// Weights returns the current blend weights.
func (e *Engine) Weights() (Weights, PenaltyWeights) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.weights, e.penalties
}

// LastSignal returns the most recently emitted signal.
func (e *Engine) LastSignal() models.Signal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSignal
}

// Trend reports the normalized slope of the recent fusion score history.
func (e *Engine) Trend() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return filters.Trend(e.history)
}

// HistoryLen reports how many fusion scores are currently retained.
func (e *Engine) HistoryLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Len()
}
