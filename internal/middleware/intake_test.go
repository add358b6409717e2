package middleware

import (
	"math"
	"testing"

	"FusionGate/internal/domain/models"
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

type perfCapture struct {
	role string
	snap models.PerformanceSnapshot
}

func (p *perfCapture) ApplyPerformance(role string, snap models.PerformanceSnapshot) {
	p.role = role
	p.snap = snap
}

func TestIngestRetainsLatestSnapshots(t *testing.T) {
	i := NewIntake(nopMetrics{})

	if _, _, ok := i.Latest(); ok {
		t.Fatalf("expected no snapshots before ingest")
	}

	if err := i.Ingest(&models.FeedEvent{Intel: &models.IntelligenceSnapshot{IntelligenceScore: 40}}); err != nil {
		t.Fatalf("ingest intel: %v", err)
	}
	if _, _, ok := i.Latest(); ok {
		t.Fatalf("intel alone must not satisfy Latest")
	}

	if err := i.Ingest(&models.FeedEvent{Tech: &models.TechnicalSnapshot{Momentum: 50}}); err != nil {
		t.Fatalf("ingest tech: %v", err)
	}
	intel, tech, ok := i.Latest()
	if !ok {
		t.Fatalf("expected snapshots after both kinds arrived")
	}
	if intel.IntelligenceScore != 40 || tech.Momentum != 50 {
		t.Fatalf("unexpected snapshots: %+v %+v", intel, tech)
	}
	if intel.Timestamp.IsZero() || tech.Timestamp.IsZero() {
		t.Fatalf("expected zero timestamps to be filled")
	}

	// newer intel replaces the old one
	_ = i.Ingest(&models.FeedEvent{Intel: &models.IntelligenceSnapshot{IntelligenceScore: 70}})
	intel, _, _ = i.Latest()
	if intel.IntelligenceScore != 70 {
		t.Fatalf("expected latest intel 70, got %v", intel.IntelligenceScore)
	}
}

func TestIngestRejectsInvalidSnapshots(t *testing.T) {
	i := NewIntake(nopMetrics{})

	if err := i.Ingest(nil); err == nil {
		t.Fatalf("expected error for nil event")
	}
	if err := i.Ingest(&models.FeedEvent{}); err == nil {
		t.Fatalf("expected error for empty event")
	}
	if err := i.Ingest(&models.FeedEvent{Intel: &models.IntelligenceSnapshot{IntelligenceScore: math.NaN()}}); err == nil {
		t.Fatalf("expected error for NaN score")
	}
	if err := i.Ingest(&models.FeedEvent{Intel: &models.IntelligenceSnapshot{IntelligenceScore: 150}}); err == nil {
		t.Fatalf("expected error for out-of-range score")
	}
	if err := i.Ingest(&models.FeedEvent{Tech: &models.TechnicalSnapshot{ATRPercent: -1}}); err == nil {
		t.Fatalf("expected error for negative atr")
	}
	if _, _, ok := i.Latest(); ok {
		t.Fatalf("invalid events must not be retained")
	}
}

func TestIngestForwardsPerfToSink(t *testing.T) {
	sink := &perfCapture{}
	i := NewIntake(nopMetrics{}, WithPerfSink(sink))

	err := i.Ingest(&models.FeedEvent{Perf: &models.PerformanceSample{
		Role:     models.PerfRoleModel,
		Snapshot: models.PerformanceSnapshot{AvgSlippage: 0.7},
	}})
	if err != nil {
		t.Fatalf("ingest perf: %v", err)
	}
	if sink.role != models.PerfRoleModel || sink.snap.AvgSlippage != 0.7 {
		t.Fatalf("perf sample not forwarded: %+v", sink)
	}
}

func TestIngestThrottlesBursts(t *testing.T) {
	i := NewIntake(nopMetrics{}, WithMaxEventsPerSec(5))

	for n := 0; n < 50; n++ {
		_ = i.Ingest(&models.FeedEvent{Intel: &models.IntelligenceSnapshot{IntelligenceScore: float64(n)}})
	}
	_ = i.Ingest(&models.FeedEvent{Tech: &models.TechnicalSnapshot{Momentum: 1}})

	// a burst of 50 against a bucket of 5 mostly drops; the retained intel
	// must come from early in the burst, not the tail
	intel, _, ok := i.Latest()
	if !ok {
		t.Fatalf("expected snapshots after burst")
	}
	if intel.IntelligenceScore > 10 {
		t.Fatalf("throttle did not drop burst tail, latest score %v", intel.IntelligenceScore)
	}
}
