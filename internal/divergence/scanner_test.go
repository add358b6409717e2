package divergence

import (
	"math"
	"testing"

	"FusionGate/internal/domain/models"
)

func TestScanEmptyReport(t *testing.T) {
	s := NewScanner(DefaultScannerConfig())
	rep := s.Scan()
	if rep.SlippageDeviation != 0 || rep.SpreadDeviation != 0 ||
		rep.VolatilityMismatch != 0 || rep.LiquidityMismatch != 0 {
		t.Fatalf("expected zero deviations, got %+v", rep)
	}
	if rep.FillQualityRating != 100 {
		t.Fatalf("expected fill quality 100, got %v", rep.FillQualityRating)
	}
	if rep.ExecutionRiskScore != 0 || rep.TruthGap != 0 {
		t.Fatalf("expected zero risk and gap, got %+v", rep)
	}
	if rep.Status != models.StatusAligned {
		t.Fatalf("expected ALIGNED, got %s", rep.Status)
	}
}

func TestScanEmptyUntilAllInputsPresent(t *testing.T) {
	s := NewScanner(DefaultScannerConfig())
	s.SetBacktestBaseline(models.PerformanceSnapshot{WinRate: 55})
	if rep := s.Scan(); rep.Status != models.StatusAligned || rep.FillQualityRating != 100 {
		t.Fatalf("expected empty report with only baseline, got %+v", rep)
	}
	s.SetExpectedModel(models.PerformanceSnapshot{AvgSlippage: 1})
	if rep := s.Scan(); rep.FillQualityRating != 100 {
		t.Fatalf("expected empty report with no live history, got %+v", rep)
	}
	s.RegisterLiveResult(models.PerformanceSnapshot{AvgSlippage: 1})
	if rep := s.Scan(); rep.TruthGap != 0 {
		t.Fatalf("expected zero gap on matching live data, got %+v", rep)
	}
}

func scannerWithGap(t *testing.T, slippageDelta float64) *Scanner {
	t.Helper()
	s := NewScanner(DefaultScannerConfig())
	s.SetBacktestBaseline(models.PerformanceSnapshot{WinRate: 50})
	s.SetExpectedModel(models.PerformanceSnapshot{})
	// only slippage deviates; truth gap = slippageDelta/4
	s.RegisterLiveResult(models.PerformanceSnapshot{AvgSlippage: slippageDelta})
	return s
}

func TestScanStatusBoundaries(t *testing.T) {
	cases := []struct {
		gap  float64
		want models.DivergenceStatus
	}{
		{0.0999, models.StatusAligned},
		{0.1, models.StatusDrifting},
		{0.2999, models.StatusDrifting},
		{0.3, models.StatusCritical},
		{1.5, models.StatusCritical},
	}
	for _, c := range cases {
		s := scannerWithGap(t, c.gap*4)
		rep := s.Scan()
		if math.Abs(rep.TruthGap-c.gap) > 1e-9 {
			t.Fatalf("expected gap %v, got %v", c.gap, rep.TruthGap)
		}
		if rep.Status != c.want {
			t.Fatalf("gap %v: expected %s, got %s", c.gap, c.want, rep.Status)
		}
	}
}

func TestScanDeviationsAbsoluteAndAveraged(t *testing.T) {
	s := NewScanner(DefaultScannerConfig())
	s.SetBacktestBaseline(models.PerformanceSnapshot{})
	s.SetExpectedModel(models.PerformanceSnapshot{
		AvgSlippage: 2, AvgSpread: 1, Volatility: 3, Liquidity: 5,
	})
	s.RegisterLiveResult(models.PerformanceSnapshot{
		AvgSlippage: 1, AvgSpread: 3, Volatility: 2, Liquidity: 9,
	})
	s.RegisterLiveResult(models.PerformanceSnapshot{
		AvgSlippage: 3, AvgSpread: 5, Volatility: 4, Liquidity: 11,
	})
	rep := s.Scan()
	// live averages: slippage 2, spread 4, volatility 3, liquidity 10
	if rep.SlippageDeviation != 0 || rep.SpreadDeviation != 3 ||
		rep.VolatilityMismatch != 0 || rep.LiquidityMismatch != 5 {
		t.Fatalf("unexpected deviations: %+v", rep)
	}
	if math.Abs(rep.TruthGap-2) > 1e-9 {
		t.Fatalf("expected truth gap 2, got %v", rep.TruthGap)
	}
	// 100 - (0*10 + 3*5) = 85
	if math.Abs(rep.FillQualityRating-85) > 1e-9 {
		t.Fatalf("expected fill quality 85, got %v", rep.FillQualityRating)
	}
	// 0.4*0 + 0.3*3 + 0.2*0 + 0.1*5 = 1.4
	if math.Abs(rep.ExecutionRiskScore-1.4) > 1e-9 {
		t.Fatalf("expected risk 1.4, got %v", rep.ExecutionRiskScore)
	}
	if rep.Status != models.StatusCritical {
		t.Fatalf("expected CRITICAL, got %s", rep.Status)
	}
}

func TestScanFillQualityFloorsAtZero(t *testing.T) {
	s := NewScanner(DefaultScannerConfig())
	s.SetBacktestBaseline(models.PerformanceSnapshot{})
	s.SetExpectedModel(models.PerformanceSnapshot{})
	s.RegisterLiveResult(models.PerformanceSnapshot{AvgSlippage: 50, AvgSpread: 40})
	rep := s.Scan()
	if rep.FillQualityRating != 0 {
		t.Fatalf("expected floor at 0, got %v", rep.FillQualityRating)
	}
}

func TestScannerLiveHistoryBounded(t *testing.T) {
	cfg := DefaultScannerConfig()
	s := NewScanner(cfg)
	s.SetBacktestBaseline(models.PerformanceSnapshot{})
	s.SetExpectedModel(models.PerformanceSnapshot{})
	for i := 0; i < cfg.LiveHistorySize*2+7; i++ {
		s.RegisterLiveResult(models.PerformanceSnapshot{AvgSlippage: float64(i)})
		if s.LiveCount() > cfg.LiveHistorySize {
			t.Fatalf("live history exceeded cap: %d", s.LiveCount())
		}
	}
	if s.LiveCount() != cfg.LiveHistorySize {
		t.Fatalf("expected %d, got %d", cfg.LiveHistorySize, s.LiveCount())
	}
}

func TestSetModelLastWriteWins(t *testing.T) {
	s := NewScanner(DefaultScannerConfig())
	s.SetBacktestBaseline(models.PerformanceSnapshot{WinRate: 40})
	s.SetExpectedModel(models.PerformanceSnapshot{AvgSlippage: 9})
	s.SetExpectedModel(models.PerformanceSnapshot{AvgSlippage: 1})
	s.RegisterLiveResult(models.PerformanceSnapshot{AvgSlippage: 1})
	if rep := s.Scan(); rep.SlippageDeviation != 0 {
		t.Fatalf("expected last-write-wins model, got %+v", rep)
	}
}
