package divergence

import (
	"math"
	"sync"

	"FusionGate/internal/domain/models"
	"FusionGate/internal/filters"
)

// ScannerConfig carries the reality scanner's tunable constants.
type ScannerConfig struct {
	LiveHistorySize int
	AlignedBelow    float64 // truth gap below this is ALIGNED
	DriftingBelow   float64 // truth gap below this is DRIFTING, else CRITICAL
}

// DefaultScannerConfig returns the production defaults.
func DefaultScannerConfig() ScannerConfig {
	return ScannerConfig{LiveHistorySize: 100, AlignedBelow: 0.1, DriftingBelow: 0.3}
}

// Scanner compares a backtest baseline and an expected model against a
// rolling window of live performance snapshots. Baseline and model are
// last-write-wins; the live window is FIFO-bounded.
type Scanner struct {
	mu       sync.Mutex
	cfg      ScannerConfig
	baseline *models.PerformanceSnapshot
	expected *models.PerformanceSnapshot
	live     *filters.Ring[models.PerformanceSnapshot]
}

// NewScanner constructs a scanner from cfg.
func NewScanner(cfg ScannerConfig) *Scanner {
	if cfg.LiveHistorySize <= 0 {
		cfg.LiveHistorySize = 100
	}
	return &Scanner{
		cfg:  cfg,
		live: filters.NewRing[models.PerformanceSnapshot](cfg.LiveHistorySize),
	}
}

// SetBacktestBaseline overwrites the baseline snapshot.
func (s *Scanner) SetBacktestBaseline(snap models.PerformanceSnapshot) {
	s.mu.Lock()
	s.baseline = &snap
	s.mu.Unlock()
}

// SetExpectedModel overwrites the expected model snapshot.
func (s *Scanner) SetExpectedModel(snap models.PerformanceSnapshot) {
	s.mu.Lock()
	s.expected = &snap
	s.mu.Unlock()
}

// RegisterLiveResult appends a live snapshot, evicting the oldest when the
// window is full.
func (s *Scanner) RegisterLiveResult(snap models.PerformanceSnapshot) {
	s.mu.Lock()
	s.live.Push(snap)
	s.mu.Unlock()
}

// LiveCount reports the number of live snapshots currently held.
func (s *Scanner) LiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live.Len()
}

// Scan recomputes the divergence report. With no baseline, no model or no
// live history it returns the neutral empty report; missing data is not an
// error.
func (s *Scanner) Scan() models.DivergenceReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.baseline == nil || s.expected == nil || s.live.Len() == 0 {
		return models.DivergenceReport{
			FillQualityRating: 100,
			Status:            models.StatusAligned,
		}
	}

	avg := s.liveAverage()
	slippage := math.Abs(avg.AvgSlippage - s.expected.AvgSlippage)
	spread := math.Abs(avg.AvgSpread - s.expected.AvgSpread)
	volatility := math.Abs(avg.Volatility - s.expected.Volatility)
	liquidity := math.Abs(avg.Liquidity - s.expected.Liquidity)

	fill := 100 - (slippage*10 + spread*5)
	if fill < 0 {
		fill = 0
	}
	truthGap := (slippage + spread + volatility + liquidity) / 4

	return models.DivergenceReport{
		SlippageDeviation:  slippage,
		SpreadDeviation:    spread,
		VolatilityMismatch: volatility,
		LiquidityMismatch:  liquidity,
		FillQualityRating:  fill,
		ExecutionRiskScore: 0.4*slippage + 0.3*spread + 0.2*volatility + 0.1*liquidity,
		TruthGap:           truthGap,
		Status:             s.status(truthGap),
	}
}

// Boundaries are half-open on the low side: a gap of exactly AlignedBelow
// is DRIFTING, exactly DriftingBelow is CRITICAL.
func (s *Scanner) status(truthGap float64) models.DivergenceStatus {
	switch {
	case truthGap < s.cfg.AlignedBelow:
		return models.StatusAligned
	case truthGap < s.cfg.DriftingBelow:
		return models.StatusDrifting
	default:
		return models.StatusCritical
	}
}

func (s *Scanner) liveAverage() models.PerformanceSnapshot {
	var sum models.PerformanceSnapshot
	n := s.live.Len()
	for i := 0; i < n; i++ {
		snap := s.live.At(i)
		sum.WinRate += snap.WinRate
		sum.AvgSlippage += snap.AvgSlippage
		sum.AvgSpread += snap.AvgSpread
		sum.Volatility += snap.Volatility
		sum.Liquidity += snap.Liquidity
		sum.FillQuality += snap.FillQuality
	}
	f := float64(n)
	return models.PerformanceSnapshot{
		WinRate:     sum.WinRate / f,
		AvgSlippage: sum.AvgSlippage / f,
		AvgSpread:   sum.AvgSpread / f,
		Volatility:  sum.Volatility / f,
		Liquidity:   sum.Liquidity / f,
		FillQuality: sum.FillQuality / f,
	}
}
