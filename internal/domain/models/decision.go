package models

import "time"

// Action is the entry verdict of the decision scorer.
type Action string

const (
	ActionEnter Action = "ENTER"
	ActionSkip  Action = "SKIP"
)

// DecisionContext is the input value object of the decision scorer. All
// fields except OpportunityScore and DailyPerformance are 0-1 ratios.
type DecisionContext struct {
	OpportunityScore float64 `json:"opportunity_score"` // 0-100
	TrendAlignment   float64 `json:"trend_alignment"`
	RiskLevel        float64 `json:"risk_level"`
	ShieldThreat     float64 `json:"shield_threat"`
	MarketStability  float64 `json:"market_stability"`
	DailyPerformance float64 `json:"daily_performance"`
}

// TradeDecision is the scored entry verdict derived from a DecisionContext.
type TradeDecision struct {
	Score     float64   `json:"score"` // 0-100
	Action    Action    `json:"action"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// TriggerOutput is the cooldown-gated result of firing a trade decision.
type TriggerOutput struct {
	Approved        bool      `json:"approved"`
	Action          Action    `json:"action"`
	Confidence      float64   `json:"confidence"`
	Reason          string    `json:"reason"`
	Timestamp       time.Time `json:"timestamp"`
	CooldownMinutes float64   `json:"cooldown_minutes"`
}

// CycleResult bundles every stage output of one evaluation cycle for the
// boundary layers (state store, publisher, HTTP surface).
type CycleResult struct {
	Fusion     FusionOutput             `json:"fusion"`
	Stabilized StabilizedFusion         `json:"stabilized"`
	Threat     *DivergenceThreatSummary `json:"threat,omitempty"`
	Report     DivergenceReport         `json:"report"`
	Decision   TradeDecision            `json:"decision"`
	Trigger    TriggerOutput            `json:"trigger"`
	Timestamp  time.Time                `json:"timestamp"`
}
