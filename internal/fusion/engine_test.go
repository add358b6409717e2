package fusion

import (
	"math"
	"testing"

	"FusionGate/internal/domain/models"
)

func testIntel() models.IntelligenceSnapshot {
	return models.IntelligenceSnapshot{IntelligenceScore: 80, RiskLevel: 40, CascadeRisk: 0.5}
}

func testTech() models.TechnicalSnapshot {
	// strength 70, volatility 40
	return models.TechnicalSnapshot{Momentum: 70, TrendStrength: 70, VolumeScore: 70, ATRPercent: 2}
}

func TestComputeFusionFirstCycle(t *testing.T) {
	e := NewEngine(DefaultEngineConfig())
	out := e.ComputeFusion(testIntel(), testTech())

	// core 75*0.6 + divergence 10*0.25 + stabilizer 60*0.15 = 56.5,
	// minus 0.1*20 and 0.15*15 penalties = 52.25; empty history, no smoothing.
	if math.Abs(out.FusionScore-52.25) > 1e-9 {
		t.Fatalf("expected 52.25, got %v", out.FusionScore)
	}
	if out.Signal != models.SignalHold {
		t.Fatalf("expected HOLD, got %s", out.Signal)
	}
	if out.RiskClass != models.RiskMedium {
		t.Fatalf("expected MEDIUM, got %s", out.RiskClass)
	}
	if math.Abs(out.StabilityPenalty-0.1) > 1e-9 || math.Abs(out.CorrelationPenalty-0.15) > 1e-9 {
		t.Fatalf("unexpected penalties: %v %v", out.StabilityPenalty, out.CorrelationPenalty)
	}
	sum := out.Weighted.Core + out.Weighted.Divergence + out.Weighted.Stabilizer
	if math.Abs(sum-56.5) > 1e-9 {
		t.Fatalf("weighted breakdown should sum to the pre-penalty blend, got %v", sum)
	}
}

func TestComputeFusionScoreClamped(t *testing.T) {
	e := NewEngine(DefaultEngineConfig())
	e.SetThreatModifier(50)
	out := e.ComputeFusion(testIntel(), testTech())
	if out.FusionScore != 100 {
		t.Fatalf("expected clamp to 100, got %v", out.FusionScore)
	}

	e2 := NewEngine(DefaultEngineConfig())
	e2.SetThreatModifier(-10)
	out2 := e2.ComputeFusion(testIntel(), testTech())
	if out2.FusionScore != 0 {
		t.Fatalf("expected clamp to 0, got %v", out2.FusionScore)
	}
}

func TestComputeFusionHistoryBounded(t *testing.T) {
	cfg := DefaultEngineConfig()
	e := NewEngine(cfg)
	for i := 0; i < cfg.HistorySize*3; i++ {
		e.ComputeFusion(testIntel(), testTech())
		if e.HistoryLen() > cfg.HistorySize {
			t.Fatalf("history exceeded cap: %d", e.HistoryLen())
		}
	}
	if e.HistoryLen() != cfg.HistorySize {
		t.Fatalf("expected full history %d, got %d", cfg.HistorySize, e.HistoryLen())
	}
}

func TestComputeFusionConvergesOnSteadyInput(t *testing.T) {
	e := NewEngine(DefaultEngineConfig())
	var last float64
	for i := 0; i < 60; i++ {
		last = e.ComputeFusion(testIntel(), testTech()).FusionScore
	}
	// with unchanging inputs the smoothing fixed point is the raw blend
	if math.Abs(last-52.25) > 0.01 {
		t.Fatalf("expected convergence toward 52.25, got %v", last)
	}
	next := e.ComputeFusion(testIntel(), testTech()).FusionScore
	if math.Abs(next-last) > 0.01 {
		t.Fatalf("expected stable fixed point, got %v then %v", last, next)
	}
}

func TestClassifySignalPriority(t *testing.T) {
	cases := []struct {
		score, trend float64
		want         models.Signal
	}{
		{30, -0.3, models.SignalSell},
		{35, -0.21, models.SignalSell},
		{70.1, 0.3, models.SignalBuy},
		{65, 0.26, models.SignalBuy},
		{50, 0, models.SignalHold},
		{65, 0.1, models.SignalHold},
		{30, 0, models.SignalWait},
		{80, 0.1, models.SignalWait},
		{40, 0, models.SignalWait},
	}
	for _, c := range cases {
		if got := classifySignal(c.score, c.trend); got != c.want {
			t.Fatalf("classifySignal(%v, %v) = %s, want %s", c.score, c.trend, got, c.want)
		}
	}
}

func TestClassifyRisk(t *testing.T) {
	cases := []struct {
		score, vol float64
		want       models.RiskClass
	}{
		{85, 30, models.RiskLow},
		{60, 50, models.RiskMedium},
		{30, 70, models.RiskHigh},
		{85, 70, models.RiskMedium}, // fallback
		{45, 30, models.RiskMedium}, // fallback
	}
	for _, c := range cases {
		if got := classifyRisk(c.score, c.vol); got != c.want {
			t.Fatalf("classifyRisk(%v, %v) = %s, want %s", c.score, c.vol, got, c.want)
		}
	}
}

func TestUpdateWeightsPartialMerge(t *testing.T) {
	e := NewEngine(DefaultEngineConfig())
	core := 0.8
	e.UpdateWeights(&core, nil, nil, nil, nil)
	w, p := e.Weights()
	if w.Core != 0.8 || w.Divergence != 0.25 || w.Stabilizer != 0.15 {
		t.Fatalf("unexpected weights after partial merge: %+v", w)
	}
	if p.Stability != 0.25 || p.Correlation != 0.30 {
		t.Fatalf("penalties should be untouched: %+v", p)
	}
}

func TestReduceConfidenceUnclamped(t *testing.T) {
	e := NewEngine(DefaultEngineConfig())
	e.ReduceConfidence(250)
	if e.ConfidenceReduction() != 250 {
		t.Fatalf("expected unclamped 250, got %v", e.ConfidenceReduction())
	}
}

func TestLastSignalRemembered(t *testing.T) {
	e := NewEngine(DefaultEngineConfig())
	out := e.ComputeFusion(testIntel(), testTech())
	if e.LastSignal() != out.Signal {
		t.Fatalf("expected last signal %s, got %s", out.Signal, e.LastSignal())
	}
}
