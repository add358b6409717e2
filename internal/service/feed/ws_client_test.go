package feed

import (
	"testing"

	"FusionGate/internal/domain/models"
)

func TestDecodeFrameIntel(t *testing.T) {
	b := []byte(`{"type":"intel","ts":1717240000000,"intel":{"score":72,"risk_level":30,"cascade_risk":0.2}}`)
	ev, err := decodeFrame(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev == nil || ev.Intel == nil {
		t.Fatalf("expected intel event, got %+v", ev)
	}
	if ev.Intel.IntelligenceScore != 72 || ev.Intel.RiskLevel != 30 || ev.Intel.CascadeRisk != 0.2 {
		t.Fatalf("unexpected intel payload: %+v", ev.Intel)
	}
	if ev.Intel.Timestamp.UnixMilli() != 1717240000000 {
		t.Fatalf("unexpected timestamp: %v", ev.Intel.Timestamp)
	}
}

func TestDecodeFrameTech(t *testing.T) {
	b := []byte(`{"type":"tech","tech":{"momentum":60,"trend_strength":55,"volume_score":70,"atr_percent":1.8}}`)
	ev, err := decodeFrame(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev == nil || ev.Tech == nil {
		t.Fatalf("expected tech event, got %+v", ev)
	}
	if ev.Tech.ATRPercent != 1.8 {
		t.Fatalf("unexpected tech payload: %+v", ev.Tech)
	}
	if ev.Tech.Timestamp.IsZero() {
		t.Fatalf("expected timestamp fallback")
	}
}

func TestDecodeFramePerfDefaultsToLive(t *testing.T) {
	b := []byte(`{"type":"perf","perf":{"win_rate":58,"avg_slippage":0.4}}`)
	ev, err := decodeFrame(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev == nil || ev.Perf == nil {
		t.Fatalf("expected perf event, got %+v", ev)
	}
	if ev.Perf.Role != models.PerfRoleLive {
		t.Fatalf("expected live role default, got %q", ev.Perf.Role)
	}
	if ev.Perf.Snapshot.WinRate != 58 {
		t.Fatalf("unexpected perf payload: %+v", ev.Perf.Snapshot)
	}
}

func TestDecodeFramePerfExplicitRole(t *testing.T) {
	b := []byte(`{"type":"perf","role":"baseline","perf":{"win_rate":50}}`)
	ev, err := decodeFrame(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Perf.Role != models.PerfRoleBaseline {
		t.Fatalf("expected baseline role, got %q", ev.Perf.Role)
	}
}

func TestDecodeFrameIgnoresUnknownTypes(t *testing.T) {
	ev, err := decodeFrame([]byte(`{"type":"pong"}`))
	if err != nil || ev != nil {
		t.Fatalf("expected nil event for unknown frame, got %+v err %v", ev, err)
	}
}
