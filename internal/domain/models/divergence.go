package models

import "time"

// Direction is the market direction attached to a divergence reading.
type Direction string

const (
	DirectionBullish Direction = "BULLISH"
	DirectionBearish Direction = "BEARISH"
	DirectionNeutral Direction = "NEUTRAL"
)

// ThreatClass buckets a divergence threat score by severity.
type ThreatClass string

const (
	ThreatCalm     ThreatClass = "CALM"
	ThreatModerate ThreatClass = "MODERATE"
	ThreatElevated ThreatClass = "ELEVATED"
	ThreatSevere   ThreatClass = "SEVERE"
)

// DivergenceThreatScore is one classified divergence observation held in the
// controller's bounded history.
type DivergenceThreatScore struct {
	Strength       float64     `json:"strength"`   // 0-100
	Confidence     float64     `json:"confidence"` // 0-100
	Volatility     float64     `json:"volatility"` // 0-100
	Direction      Direction   `json:"direction"`
	Score          float64     `json:"score"` // 0-100
	Classification ThreatClass `json:"classification"`
	Timestamp      time.Time   `json:"timestamp"`
}

// DivergenceThreatSummary is the controller's most recent classification.
type DivergenceThreatSummary struct {
	Score          float64     `json:"score"`
	Classification ThreatClass `json:"classification"`
	Direction      Direction   `json:"direction"`
	Samples        int         `json:"samples"`
	Updated        time.Time   `json:"updated"`
}

// DivergenceStatus flags how far live behavior has drifted from the model.
type DivergenceStatus string

const (
	StatusAligned  DivergenceStatus = "ALIGNED"
	StatusDrifting DivergenceStatus = "DRIFTING"
	StatusCritical DivergenceStatus = "CRITICAL"
)

// DivergenceReport compares live-average execution against the expected
// model. Recomputed fresh on every scan, never persisted.
type DivergenceReport struct {
	SlippageDeviation  float64          `json:"slippage_deviation"`
	SpreadDeviation    float64          `json:"spread_deviation"`
	VolatilityMismatch float64          `json:"volatility_mismatch"`
	LiquidityMismatch  float64          `json:"liquidity_mismatch"`
	FillQualityRating  float64          `json:"fill_quality_rating"` // 0-100
	ExecutionRiskScore float64          `json:"execution_risk_score"`
	TruthGap           float64          `json:"truth_gap"`
	Status             DivergenceStatus `json:"status"`
}
