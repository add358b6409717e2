package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"FusionGate/internal/decision"
	"FusionGate/internal/divergence"
	"FusionGate/internal/domain/models"
	"FusionGate/internal/fusion"
	"FusionGate/internal/usecase"
	xlogger "FusionGate/pkg/logger"

	"github.com/labstack/echo/v4"
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

func newTestHandler(t *testing.T) (*PipelineEchoHandler, *usecase.Evaluator, *echo.Echo) {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	eval := usecase.NewEvaluator(
		fusion.NewEngine(fusion.DefaultEngineConfig()),
		fusion.NewStabilizer(fusion.DefaultStabilizerConfig()),
		divergence.NewController(divergence.DefaultControllerConfig()),
		divergence.NewScanner(divergence.DefaultScannerConfig()),
		decision.NewScorer(decision.DefaultScorerConfig()),
		decision.NewTrigger(3*time.Minute),
		nopMetrics{},
	)
	h := NewPipelineEchoHandler(l, eval)
	e := echo.New()
	h.RegisterRoutes(e)
	return h, eval, e
}

func TestFusionNotFoundBeforeFirstCycle(t *testing.T) {
	_, _, e := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/fusion", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "404") {
		t.Fatalf("expected not found payload, got %s", rec.Body.String())
	}
}

func TestFusionReturnsLatestResult(t *testing.T) {
	_, eval, e := newTestHandler(t)
	eval.Evaluate(
		models.IntelligenceSnapshot{IntelligenceScore: 70, RiskLevel: 30},
		models.TechnicalSnapshot{Momentum: 60, TrendStrength: 60, VolumeScore: 60, ATRPercent: 1.5},
	)

	req := httptest.NewRequest(http.MethodGet, "/api/fusion", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "fusion_score") {
		t.Fatalf("expected fusion payload, got %s", rec.Body.String())
	}
}

func TestUpdateWeightsPartialMerge(t *testing.T) {
	_, eval, e := newTestHandler(t)

	body := strings.NewReader(`{"core":0.5}`)
	req := httptest.NewRequest(http.MethodPost, "/api/engine/weights", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	w, _ := eval.EngineWeights()
	if w.Core != 0.5 || w.Divergence != 0.25 {
		t.Fatalf("unexpected weights after partial update: %+v", w)
	}
}

func TestUpdateWeightsRejectsOutOfRange(t *testing.T) {
	_, eval, e := newTestHandler(t)

	body := strings.NewReader(`{"core":1.5}`)
	req := httptest.NewRequest(http.MethodPost, "/api/engine/weights", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "400") {
		t.Fatalf("expected validation failure, got %s", rec.Body.String())
	}
	w, _ := eval.EngineWeights()
	if w.Core != 0.6 {
		t.Fatalf("rejected update must not change weights, got %+v", w)
	}
}

func TestThreatModifierRequiresValue(t *testing.T) {
	_, _, e := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/engine/threat-modifier", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "ERR_REQUIRED") {
		t.Fatalf("expected required validation error, got %s", rec.Body.String())
	}
}

func TestThreatHistorySinceFilter(t *testing.T) {
	_, eval, e := newTestHandler(t)
	for i := 0; i < 3; i++ {
		eval.Evaluate(
			models.IntelligenceSnapshot{IntelligenceScore: 60},
			models.TechnicalSnapshot{Momentum: 40, TrendStrength: 40, VolumeScore: 40},
		)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/threat/history?since=2099-01-01T00:00:00Z", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"total":0`) {
		t.Fatalf("expected empty filtered history, got %s", rec.Body.String())
	}
}
