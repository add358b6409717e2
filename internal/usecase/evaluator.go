package usecase

import (
	"sync"
	"time"

	"FusionGate/internal/decision"
	"FusionGate/internal/divergence"
	"FusionGate/internal/domain/models"
	domrepo "FusionGate/internal/domain/repository"
	"FusionGate/internal/filters"
	"FusionGate/internal/fusion"
)

// Evaluator chains the pipeline stages for one tick: fusion, stabilization,
// divergence classification, reality scan, decision scoring and trigger
// gating. It retains the last cycle result for the read surfaces.
type Evaluator struct {
	engine     *fusion.Engine
	stabilizer *fusion.Stabilizer
	controller *divergence.Controller
	scanner    *divergence.Scanner
	scorer     *decision.Scorer
	trigger    *decision.Trigger
	metrics    domrepo.Metrics

	mu    sync.RWMutex
	daily float64
	last  *models.CycleResult
}

// NewEvaluator wires the pipeline stages together.
func NewEvaluator(
	engine *fusion.Engine,
	stabilizer *fusion.Stabilizer,
	controller *divergence.Controller,
	scanner *divergence.Scanner,
	scorer *decision.Scorer,
	trigger *decision.Trigger,
	metrics domrepo.Metrics,
) *Evaluator {
	return &Evaluator{
		engine:     engine,
		stabilizer: stabilizer,
		controller: controller,
		scanner:    scanner,
		scorer:     scorer,
		trigger:    trigger,
		metrics:    metrics,
	}
}

// Evaluate runs one full pipeline cycle over the given snapshots.
func (e *Evaluator) Evaluate(intel models.IntelligenceSnapshot, tech models.TechnicalSnapshot) *models.CycleResult {
	fo := e.engine.ComputeFusion(intel, tech)

	sf := e.stabilizer.Stabilize(fo)
	if red := e.engine.ConfidenceReduction(); red != 0 {
		sf.Confidence = filters.Clamp(sf.Confidence*(1-red/100), 0, 100)
	}

	threat := e.controller.Update(divergence.Reading{
		Strength:   divergenceStrength(intel.IntelligenceScore, fo.TechnicalScore),
		Confidence: sf.Confidence,
		Volatility: fo.Volatility,
		Direction:  signalDirection(fo.Signal),
		Timestamp:  fo.Timestamp,
	})

	report := e.scanner.Scan()

	e.mu.RLock()
	daily := e.daily
	e.mu.RUnlock()

	d := e.scorer.Score(models.DecisionContext{
		OpportunityScore: sf.Score,
		TrendAlignment:   e.engine.Trend(),
		RiskLevel:        intel.RiskLevel / 100,
		ShieldThreat:     threat.Score / 100,
		MarketStability:  (100 - fo.Volatility) / 100,
		DailyPerformance: daily,
	})

	trig := e.trigger.Fire(d)

	res := &models.CycleResult{
		Fusion:     fo,
		Stabilized: sf,
		Threat:     e.controller.Summary(),
		Report:     report,
		Decision:   d,
		Trigger:    trig,
		Timestamp:  time.Now(),
	}

	e.mu.Lock()
	e.last = res
	e.mu.Unlock()

	e.metrics.RecordFusionScore(sf.Score, sf.Confidence)
	e.metrics.RecordTruthGap(report.TruthGap)
	e.metrics.RecordDecision(string(d.Action))
	e.metrics.RecordTrigger(trig.Approved)

	return res
}

// ApplyPerformance routes one performance snapshot into the reality scanner
// by role. A live snapshot also refreshes the daily performance signal as
// its win rate relative to break-even.
func (e *Evaluator) ApplyPerformance(role string, snap models.PerformanceSnapshot) {
	switch role {
	case models.PerfRoleBaseline:
		e.scanner.SetBacktestBaseline(snap)
	case models.PerfRoleModel:
		e.scanner.SetExpectedModel(snap)
	case models.PerfRoleLive:
		e.scanner.RegisterLiveResult(snap)
		e.mu.Lock()
		e.daily = snap.WinRate - 50
		e.mu.Unlock()
	default:
		e.metrics.RecordError("perf_unknown_role")
	}
}

// SetDailyPerformance overrides the daily performance signal directly.
func (e *Evaluator) SetDailyPerformance(v float64) {
	e.mu.Lock()
	e.daily = v
	e.mu.Unlock()
}

// LatestResult returns a copy of the most recent cycle result, or nil before
// the first evaluation.
func (e *Evaluator) LatestResult() *models.CycleResult {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.last == nil {
		return nil
	}
	cp := *e.last
	return &cp
}

// UpdateWeights re-tunes the engine blend live. Nil fields keep their value.
func (e *Evaluator) UpdateWeights(core, div, stab, stabilityPen, correlationPen *float64) {
	e.engine.UpdateWeights(core, div, stab, stabilityPen, correlationPen)
}

// SetThreatModifier replaces the engine's multiplicative threat modifier.
func (e *Evaluator) SetThreatModifier(v float64) { e.engine.SetThreatModifier(v) }

// ReduceConfidence sets the percentage reduction applied to derived
// confidence.
func (e *Evaluator) ReduceConfidence(pct float64) { e.engine.ReduceConfidence(pct) }

// EngineWeights exposes the current blend for the read surface.
func (e *Evaluator) EngineWeights() (fusion.Weights, fusion.PenaltyWeights) {
	return e.engine.Weights()
}

// ThreatHistory returns the divergence controller's retained observations.
func (e *Evaluator) ThreatHistory() []models.DivergenceThreatScore {
	return e.controller.History()
}

// ThreatSummary returns the controller's latest classification, nil before
// the first update.
func (e *Evaluator) ThreatSummary() *models.DivergenceThreatSummary {
	return e.controller.Summary()
}

func divergenceStrength(intelScore, technicalScore float64) float64 {
	d := intelScore - technicalScore
	if d < 0 {
		d = -d
	}
	return d
}

func signalDirection(s models.Signal) models.Direction {
	switch s {
	case models.SignalBuy:
		return models.DirectionBullish
	case models.SignalSell:
		return models.DirectionBearish
	default:
		return models.DirectionNeutral
	}
}
