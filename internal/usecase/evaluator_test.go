package usecase

import (
	"testing"
	"time"

	"FusionGate/internal/decision"
	"FusionGate/internal/divergence"
	"FusionGate/internal/domain/models"
	"FusionGate/internal/fusion"
)

type nopMetrics struct{}

func (nopMetrics) RecordTickDuration(float64)     {}
func (nopMetrics) RecordFusionScore(_, _ float64) {}
func (nopMetrics) RecordTruthGap(float64)         {}
func (nopMetrics) RecordDecision(string)          {}
func (nopMetrics) RecordTrigger(bool)             {}
func (nopMetrics) RecordFeedEvent(string)         {}
func (nopMetrics) RecordError(string)             {}
func (nopMetrics) RecordLatency(string, float64)  {}

func newTestEvaluator() *Evaluator {
	return NewEvaluator(
		fusion.NewEngine(fusion.DefaultEngineConfig()),
		fusion.NewStabilizer(fusion.DefaultStabilizerConfig()),
		divergence.NewController(divergence.DefaultControllerConfig()),
		divergence.NewScanner(divergence.DefaultScannerConfig()),
		decision.NewScorer(decision.DefaultScorerConfig()),
		decision.NewTrigger(3*time.Minute),
		nopMetrics{},
	)
}

func TestEvaluateProducesFullCycle(t *testing.T) {
	e := newTestEvaluator()
	if e.LatestResult() != nil {
		t.Fatalf("expected nil result before first evaluation")
	}

	res := e.Evaluate(
		models.IntelligenceSnapshot{IntelligenceScore: 80, RiskLevel: 40, CascadeRisk: 0.5},
		models.TechnicalSnapshot{Momentum: 70, TrendStrength: 70, VolumeScore: 70, ATRPercent: 2},
	)
	if res == nil {
		t.Fatalf("expected cycle result")
	}
	if res.Fusion.FusionScore <= 0 || res.Fusion.FusionScore > 100 {
		t.Fatalf("fusion score out of range: %v", res.Fusion.FusionScore)
	}
	if res.Stabilized.Score < 0 || res.Stabilized.Score > 100 {
		t.Fatalf("stabilized score out of range: %v", res.Stabilized.Score)
	}
	if res.Threat == nil {
		t.Fatalf("expected threat summary after evaluation")
	}
	if res.Report.Status != models.StatusAligned {
		t.Fatalf("expected ALIGNED empty report, got %s", res.Report.Status)
	}
	if res.Decision.Action != models.ActionEnter && res.Decision.Action != models.ActionSkip {
		t.Fatalf("unexpected action: %s", res.Decision.Action)
	}

	got := e.LatestResult()
	if got == nil || !got.Timestamp.Equal(res.Timestamp) {
		t.Fatalf("latest result not retained")
	}
}

func TestEvaluateAppliesConfidenceReduction(t *testing.T) {
	a := newTestEvaluator()
	b := newTestEvaluator()
	b.ReduceConfidence(50)

	intel := models.IntelligenceSnapshot{IntelligenceScore: 80, RiskLevel: 20}
	tech := models.TechnicalSnapshot{Momentum: 70, TrendStrength: 70, VolumeScore: 70, ATRPercent: 1}

	full := a.Evaluate(intel, tech)
	halved := b.Evaluate(intel, tech)
	if full.Stabilized.Confidence == 0 {
		t.Fatalf("expected nonzero confidence baseline")
	}
	want := full.Stabilized.Confidence * 0.5
	if diff := halved.Stabilized.Confidence - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected confidence %v, got %v", want, halved.Stabilized.Confidence)
	}
}

func TestApplyPerformanceRouting(t *testing.T) {
	e := newTestEvaluator()
	e.ApplyPerformance(models.PerfRoleBaseline, models.PerformanceSnapshot{WinRate: 55})
	e.ApplyPerformance(models.PerfRoleModel, models.PerformanceSnapshot{AvgSlippage: 1})
	e.ApplyPerformance(models.PerfRoleLive, models.PerformanceSnapshot{WinRate: 62, AvgSlippage: 1})

	e.mu.RLock()
	daily := e.daily
	e.mu.RUnlock()
	if daily != 12 {
		t.Fatalf("expected daily performance 12, got %v", daily)
	}

	res := e.Evaluate(
		models.IntelligenceSnapshot{IntelligenceScore: 50},
		models.TechnicalSnapshot{Momentum: 50, TrendStrength: 50, VolumeScore: 50},
	)
	if res.Report.TruthGap != 0 {
		t.Fatalf("expected zero gap with matching live data, got %v", res.Report.TruthGap)
	}
}

func TestEvaluateThreatDirectionFollowsSignal(t *testing.T) {
	e := newTestEvaluator()
	// single evaluation has no trend yet, so the signal cannot be BUY/SELL
	e.Evaluate(
		models.IntelligenceSnapshot{IntelligenceScore: 90},
		models.TechnicalSnapshot{Momentum: 90, TrendStrength: 90, VolumeScore: 90},
	)
	sum := e.ThreatSummary()
	if sum == nil || sum.Direction != models.DirectionNeutral {
		t.Fatalf("expected neutral direction on first cycle, got %+v", sum)
	}
}

func TestUpdateWeightsProxies(t *testing.T) {
	e := newTestEvaluator()
	core := 0.5
	e.UpdateWeights(&core, nil, nil, nil, nil)
	w, _ := e.EngineWeights()
	if w.Core != 0.5 {
		t.Fatalf("expected core weight 0.5, got %v", w.Core)
	}
	if w.Divergence != 0.25 {
		t.Fatalf("expected divergence weight untouched, got %v", w.Divergence)
	}
}
