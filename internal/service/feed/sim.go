package feed

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"FusionGate/internal/domain/models"
	drepo "FusionGate/internal/domain/repository"
)

// Sim is a synthetic FeedStream for development and demos. It emits slowly
// oscillating intelligence and technical snapshots plus an occasional live
// performance sample, so the full pipeline can run without an upstream.
type Sim struct {
	interval time.Duration

	mu        sync.Mutex
	connected bool
	stopCh    chan struct{}
	rng       *rand.Rand
}

// NewSim creates a synthetic feed emitting one event per interval.
func NewSim(interval time.Duration) drepo.FeedStream {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Sim{
		interval: interval,
		stopCh:   make(chan struct{}),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *Sim) Connect(ctx context.Context) error {
	s.mu.Lock()
	s.connected = true
	s.mu.Unlock()
	return nil
}

func (s *Sim) Subscribe(ctx context.Context) error { return nil }

func (s *Sim) Read(ctx context.Context) (<-chan *models.FeedEvent, <-chan error) {
	events := make(chan *models.FeedEvent, 64)
	errs := make(chan error, 1)

	go func() {
		defer close(events)
		defer close(errs)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		var n int
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-ticker.C:
				n++
				for _, ev := range s.generate(n) {
					select {
					case events <- ev:
					default:
					}
				}
			}
		}
	}()

	return events, errs
}

// generate produces one intel and one tech snapshot per tick, plus a live
// performance sample every tenth tick.
func (s *Sim) generate(n int) []*models.FeedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	phase := float64(n) / 20
	wave := math.Sin(phase)
	noise := func(scale float64) float64 { return (s.rng.Float64() - 0.5) * scale }
	now := time.Now()

	evs := []*models.FeedEvent{
		{Intel: &models.IntelligenceSnapshot{
			IntelligenceScore: clamp01(55 + 25*wave + noise(8)),
			RiskLevel:         clamp01(35 - 15*wave + noise(6)),
			CascadeRisk:       (1 - wave) / 4,
			Timestamp:         now,
		}},
		{Tech: &models.TechnicalSnapshot{
			Momentum:      clamp01(50 + 30*wave + noise(10)),
			TrendStrength: clamp01(50 + 20*wave + noise(10)),
			VolumeScore:   clamp01(60 + noise(20)),
			ATRPercent:    1.5 + 0.8*math.Abs(wave) + noise(0.3)/2,
			Timestamp:     now,
		}},
	}

	if n%10 == 0 {
		evs = append(evs, &models.FeedEvent{Perf: &models.PerformanceSample{
			Role: models.PerfRoleLive,
			Snapshot: models.PerformanceSnapshot{
				WinRate:     clamp01(52 + 6*wave + noise(4)),
				AvgSlippage: 0.5 + noise(0.2),
				AvgSpread:   0.3 + noise(0.1),
				Volatility:  2 + noise(0.5),
				Liquidity:   80 + noise(10),
				FillQuality: clamp01(90 + noise(6)),
				Timestamp:   now,
			},
		}})
	}
	return evs
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func (s *Sim) Reconnect(ctx context.Context) error { return nil }

func (s *Sim) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connected {
		s.connected = false
		close(s.stopCh)
	}
	return nil
}

func (s *Sim) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}
