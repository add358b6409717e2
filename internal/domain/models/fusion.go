package models

import "time"

// Signal is the trading signal classification emitted by the fusion engine.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
	SignalWait Signal = "WAIT"
)

// RiskClass buckets a fusion output by volatility-adjusted risk.
type RiskClass string

const (
	RiskLow    RiskClass = "LOW"
	RiskMedium RiskClass = "MEDIUM"
	RiskHigh   RiskClass = "HIGH"
)

// WeightedBreakdown exposes the per-component contribution of a fusion
// score for observability.
type WeightedBreakdown struct {
	Core       float64 `json:"core"`
	Divergence float64 `json:"divergence"`
	Stabilizer float64 `json:"stabilizer"`
}

// FusionOutput is the raw blended score produced once per cycle by the
// fusion engine. Read-only downstream.
type FusionOutput struct {
	FusionScore        float64           `json:"fusion_score"` // 0-100, clamped
	Signal             Signal            `json:"signal"`
	RiskClass          RiskClass         `json:"risk_class"`
	Volatility         float64           `json:"volatility"`
	IntelligenceScore  float64           `json:"intelligence_score"`
	TechnicalScore     float64           `json:"technical_score"`
	StabilityPenalty   float64           `json:"stability_penalty"`
	CorrelationPenalty float64           `json:"correlation_penalty"`
	Timestamp          time.Time         `json:"timestamp"`
	Weighted           WeightedBreakdown `json:"weighted"`
}

// StabilizedFusion is the post-processed fusion score with a derived
// confidence value.
type StabilizedFusion struct {
	Score      float64   `json:"score"`      // 0-100, smoothed
	Confidence float64   `json:"confidence"` // 0-100
	Signal     Signal    `json:"signal"`
	Timestamp  time.Time `json:"timestamp"`
}
