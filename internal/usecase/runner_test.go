package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"FusionGate/internal/domain/models"
	mid "FusionGate/internal/middleware"
	"FusionGate/pkg/logger"
)

type captureStore struct {
	mu    sync.Mutex
	saved []*models.CycleResult
}

func (s *captureStore) SaveResult(_ context.Context, res *models.CycleResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, res)
	return nil
}

func (s *captureStore) LoadResult(context.Context) (*models.CycleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.saved) == 0 {
		return nil, nil
	}
	return s.saved[len(s.saved)-1], nil
}

func (s *captureStore) Health(context.Context) error { return nil }
func (s *captureStore) Close() error                 { return nil }

type capturePublisher struct {
	mu        sync.Mutex
	published []*models.TriggerOutput
}

func (p *capturePublisher) Publish(_ context.Context, out *models.TriggerOutput) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, out)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func TestTickSkipsWithoutSnapshots(t *testing.T) {
	store := &captureStore{}
	intake := mid.NewIntake(nopMetrics{})
	r := NewRunner(newTestEvaluator(), intake, store, nil, nopMetrics{}, testLogger(t), time.Second)

	r.tick(context.Background())
	if len(store.saved) != 0 {
		t.Fatalf("expected no result before snapshots arrive")
	}
}

func TestTickEvaluatesAndStores(t *testing.T) {
	store := &captureStore{}
	intake := mid.NewIntake(nopMetrics{})
	r := NewRunner(newTestEvaluator(), intake, store, nil, nopMetrics{}, testLogger(t), time.Second)

	if err := intake.Ingest(&models.FeedEvent{Intel: &models.IntelligenceSnapshot{IntelligenceScore: 60}}); err != nil {
		t.Fatalf("ingest intel: %v", err)
	}
	if err := intake.Ingest(&models.FeedEvent{Tech: &models.TechnicalSnapshot{Momentum: 60, TrendStrength: 60, VolumeScore: 60, ATRPercent: 1}}); err != nil {
		t.Fatalf("ingest tech: %v", err)
	}

	r.tick(context.Background())
	if len(store.saved) != 1 {
		t.Fatalf("expected one stored result, got %d", len(store.saved))
	}
	if store.saved[0].Fusion.FusionScore <= 0 {
		t.Fatalf("stored result not evaluated: %+v", store.saved[0].Fusion)
	}
}

func TestTickPublishesApprovedTriggers(t *testing.T) {
	pub := &capturePublisher{}
	intake := mid.NewIntake(nopMetrics{})
	eval := newTestEvaluator()
	eval.SetDailyPerformance(10)
	r := NewRunner(eval, intake, nil, pub, nopMetrics{}, testLogger(t), time.Second)

	_ = intake.Ingest(&models.FeedEvent{Intel: &models.IntelligenceSnapshot{IntelligenceScore: 95, RiskLevel: 5}})
	_ = intake.Ingest(&models.FeedEvent{Tech: &models.TechnicalSnapshot{Momentum: 95, TrendStrength: 95, VolumeScore: 95, ATRPercent: 0.5}})

	// warm up the history so the trend can align
	for i := 0; i < 8; i++ {
		r.tick(context.Background())
	}

	res := eval.LatestResult()
	if res == nil {
		t.Fatalf("expected results after ticks")
	}
	if res.Trigger.Approved && len(pub.published) == 0 {
		t.Fatalf("approved trigger was not published")
	}
	for _, out := range pub.published {
		if !out.Approved {
			t.Fatalf("published a rejected trigger: %+v", out)
		}
	}
}

func TestTickRecoversFromPanic(t *testing.T) {
	intake := mid.NewIntake(nopMetrics{})
	r := NewRunner(newTestEvaluator(), intake, panicStore{}, nil, nopMetrics{}, testLogger(t), time.Second)

	_ = intake.Ingest(&models.FeedEvent{Intel: &models.IntelligenceSnapshot{IntelligenceScore: 50}})
	_ = intake.Ingest(&models.FeedEvent{Tech: &models.TechnicalSnapshot{Momentum: 50, TrendStrength: 50, VolumeScore: 50}})

	// must not propagate
	r.tick(context.Background())
	r.tick(context.Background())
}

type panicStore struct{}

func (panicStore) SaveResult(context.Context, *models.CycleResult) error {
	panic("storage exploded")
}
func (panicStore) LoadResult(context.Context) (*models.CycleResult, error) { return nil, nil }
func (panicStore) Health(context.Context) error                           { return nil }
func (panicStore) Close() error                                           { return nil }

func TestRunnerLoopSkipsOverlappingTicks(t *testing.T) {
	intake := mid.NewIntake(nopMetrics{})
	r := NewRunner(newTestEvaluator(), intake, nil, nil, nopMetrics{}, testLogger(t), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	time.Sleep(50 * time.Millisecond)
	r.Stop()
	cancel()
	// second Stop must be safe
	r.Stop()
}
