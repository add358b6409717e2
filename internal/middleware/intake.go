package middleware

import (
	"fmt"
	"math"
	"sync"
	"time"

	"FusionGate/internal/domain/models"
	domrepo "FusionGate/internal/domain/repository"
	"FusionGate/internal/service/ratelimit"
)

// PerfSink receives validated performance samples from the intake.
type PerfSink interface {
	ApplyPerformance(role string, snap models.PerformanceSnapshot)
}

// Intake is the middleware between the feed boundary and the pipeline.
// It validates incoming events, throttles bursts per event kind, and
// retains the latest intelligence and technical snapshots for the next
// evaluation tick. Performance samples are forwarded to the sink as
// they arrive.
type Intake struct {
	metrics domrepo.Metrics
	limiter *ratelimit.Limiter
	maxEPS  float64
	sink    PerfSink

	mu    sync.RWMutex
	intel *models.IntelligenceSnapshot
	tech  *models.TechnicalSnapshot
}

type IntakeOption func(*Intake)

// WithMaxEventsPerSec sets the per-kind throttle rate.
func WithMaxEventsPerSec(n float64) IntakeOption {
	return func(i *Intake) {
		if n > 0 {
			i.maxEPS = n
		}
	}
}

// WithPerfSink routes performance samples to sink.
func WithPerfSink(s PerfSink) IntakeOption {
	return func(i *Intake) { i.sink = s }
}

// NewIntake creates an intake with a 20 events/sec default throttle.
func NewIntake(metrics domrepo.Metrics, opts ...IntakeOption) *Intake {
	i := &Intake{
		metrics: metrics,
		limiter: ratelimit.New(),
		maxEPS:  20,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Ingest validates and absorbs one feed event. Throttled events are
// dropped silently; invalid events are counted and rejected.
func (i *Intake) Ingest(ev *models.FeedEvent) error {
	if ev == nil {
		i.metrics.RecordError("intake_nil_event")
		return fmt.Errorf("feed event nil")
	}

	switch {
	case ev.Intel != nil:
		if !i.limiter.Allow("intel", i.maxEPS, i.maxEPS) {
			i.metrics.RecordError("intake_throttle")
			return nil
		}
		if err := validateIntel(ev.Intel); err != nil {
			i.metrics.RecordError("intake_validate")
			return err
		}
		snap := *ev.Intel
		if snap.Timestamp.IsZero() {
			snap.Timestamp = time.Now()
		}
		i.mu.Lock()
		i.intel = &snap
		i.mu.Unlock()
		i.metrics.RecordFeedEvent("intel")

	case ev.Tech != nil:
		if !i.limiter.Allow("tech", i.maxEPS, i.maxEPS) {
			i.metrics.RecordError("intake_throttle")
			return nil
		}
		if err := validateTech(ev.Tech); err != nil {
			i.metrics.RecordError("intake_validate")
			return err
		}
		snap := *ev.Tech
		if snap.Timestamp.IsZero() {
			snap.Timestamp = time.Now()
		}
		i.mu.Lock()
		i.tech = &snap
		i.mu.Unlock()
		i.metrics.RecordFeedEvent("tech")

	case ev.Perf != nil:
		if err := validatePerf(&ev.Perf.Snapshot); err != nil {
			i.metrics.RecordError("intake_validate")
			return err
		}
		if i.sink != nil {
			i.sink.ApplyPerformance(ev.Perf.Role, ev.Perf.Snapshot)
		}
		i.metrics.RecordFeedEvent("perf")

	default:
		i.metrics.RecordError("intake_empty_event")
		return fmt.Errorf("feed event carries no payload")
	}
	return nil
}

// Latest returns the most recent intelligence and technical snapshots.
// ok is false until both have arrived at least once.
func (i *Intake) Latest() (models.IntelligenceSnapshot, models.TechnicalSnapshot, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.intel == nil || i.tech == nil {
		return models.IntelligenceSnapshot{}, models.TechnicalSnapshot{}, false
	}
	return *i.intel, *i.tech, true
}

func validateIntel(s *models.IntelligenceSnapshot) error {
	if badNumber(s.IntelligenceScore) || badNumber(s.RiskLevel) || badNumber(s.CascadeRisk) {
		return fmt.Errorf("intelligence snapshot has non-finite field")
	}
	if s.IntelligenceScore < 0 || s.IntelligenceScore > 100 {
		return fmt.Errorf("intelligence score out of range: %v", s.IntelligenceScore)
	}
	return nil
}

func validateTech(s *models.TechnicalSnapshot) error {
	if badNumber(s.Momentum) || badNumber(s.TrendStrength) ||
		badNumber(s.VolumeScore) || badNumber(s.ATRPercent) {
		return fmt.Errorf("technical snapshot has non-finite field")
	}
	if s.ATRPercent < 0 {
		return fmt.Errorf("negative atr percent: %v", s.ATRPercent)
	}
	return nil
}

func validatePerf(s *models.PerformanceSnapshot) error {
	if badNumber(s.WinRate) || badNumber(s.AvgSlippage) || badNumber(s.AvgSpread) ||
		badNumber(s.Volatility) || badNumber(s.Liquidity) || badNumber(s.FillQuality) {
		return fmt.Errorf("performance snapshot has non-finite field")
	}
	return nil
}

func badNumber(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
