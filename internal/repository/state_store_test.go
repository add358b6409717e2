package repository

import (
	"context"
	"testing"
	"time"

	"FusionGate/internal/domain/models"
	"FusionGate/pkg/cache"
)

func TestStateStoreRoundTrip(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()
	s := NewCacheStateStore(mc, time.Minute)
	ctx := context.Background()

	got, err := s.LoadResult(ctx)
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil before first save, got %+v", got)
	}

	res := &models.CycleResult{
		Stabilized: models.StabilizedFusion{Score: 61.5, Confidence: 40, Signal: models.SignalHold},
		Decision:   models.TradeDecision{Score: 72, Action: models.ActionEnter, Reason: "Trend aligned"},
		Trigger:    models.TriggerOutput{Approved: true, Action: models.ActionEnter, CooldownMinutes: 3},
		Timestamp:  time.Now().UTC(),
	}
	if err := s.SaveResult(ctx, res); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err = s.LoadResult(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil {
		t.Fatalf("expected stored result")
	}
	if got.Stabilized.Score != 61.5 || got.Decision.Action != models.ActionEnter || !got.Trigger.Approved {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestStateStoreHealth(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()
	s := NewCacheStateStore(mc, 0)
	if err := s.Health(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
}
