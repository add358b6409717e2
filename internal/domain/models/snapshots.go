package models

import "time"

// IntelligenceSnapshot is the per-cycle intelligence reading supplied by the
// external metrics subsystem. Immutable once read by the pipeline.
type IntelligenceSnapshot struct {
	IntelligenceScore float64 // 0-100
	RiskLevel         float64 // 0-100
	CascadeRisk       float64 // 0-1
	Timestamp         time.Time
}

// TechnicalSnapshot carries the momentum indicators the fusion engine needs
// to derive a strength score and a volatility score. Immutable per cycle.
type TechnicalSnapshot struct {
	Momentum      float64 // 0-100
	TrendStrength float64 // 0-100
	VolumeScore   float64 // 0-100
	ATRPercent    float64 // average true range as a percent of price
	Timestamp     time.Time
}

// StrengthScore derives a 0-100 technical strength reading.
func (t TechnicalSnapshot) StrengthScore() float64 {
	s := 0.5*t.Momentum + 0.3*t.TrendStrength + 0.2*t.VolumeScore
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// VolatilityScore derives a 0-100 volatility reading from the ATR percent.
func (t TechnicalSnapshot) VolatilityScore() float64 {
	v := t.ATRPercent * 20
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// PerformanceSnapshot is one observation of execution quality, consumed by
// the reality divergence scanner in one of three roles: backtest baseline,
// expected model, or live result.
type PerformanceSnapshot struct {
	WinRate     float64   `json:"win_rate"`
	AvgSlippage float64   `json:"avg_slippage"`
	AvgSpread   float64   `json:"avg_spread"`
	Volatility  float64   `json:"volatility"`
	Liquidity   float64   `json:"liquidity"`
	FillQuality float64   `json:"fill_quality"`
	Timestamp   time.Time `json:"timestamp"`
}

// Performance snapshot roles accepted by the backtest intake.
const (
	PerfRoleBaseline = "baseline"
	PerfRoleModel    = "model"
	PerfRoleLive     = "live"
)

// FeedEvent is one frame from the external metrics stream. Exactly one of
// the pointers is set per event.
type FeedEvent struct {
	Intel *IntelligenceSnapshot
	Tech  *TechnicalSnapshot
	Perf  *PerformanceSample
}

// PerformanceSample wraps a performance snapshot with its intake role.
type PerformanceSample struct {
	Role     string
	Snapshot PerformanceSnapshot
}
