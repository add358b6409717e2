// Package decision turns pipeline context into an entry score and gates it
// through a cooldown-disciplined trigger.
package decision

import (
	"strings"
	"time"

	"FusionGate/internal/domain/models"
	"FusionGate/internal/filters"
)

// ScorerConfig carries the decision scorer's weights, thresholds and
// bonuses.
type ScorerConfig struct {
	OpportunityWeight float64

	TrendAlignmentAbove float64
	TrendBonus          float64

	MarketStabilityAbove float64
	StabilityBonus       float64

	RiskLevelBelow float64
	RiskBonus      float64

	ShieldThreatBelow float64
	ShieldBonus       float64

	DailyBonus float64

	EnterAbove float64
}

// DefaultScorerConfig returns the production defaults.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		OpportunityWeight:    0.4,
		TrendAlignmentAbove:  0.5,
		TrendBonus:           20,
		MarketStabilityAbove: 0.6,
		StabilityBonus:       15,
		RiskLevelBelow:       0.4,
		RiskBonus:            15,
		ShieldThreatBelow:    0.5,
		ShieldBonus:          15,
		DailyBonus:           10,
		EnterAbove:           60,
	}
}

// Reason emitted when no bonus condition holds.
const reasonInsufficient = "Insufficient conditions"

// Scorer derives a trade decision from a context. Stateless; safe for
// concurrent use.
type Scorer struct {
	cfg ScorerConfig
	now func() time.Time
}

// NewScorer constructs a scorer from cfg.
func NewScorer(cfg ScorerConfig) *Scorer {
	return &Scorer{cfg: cfg, now: time.Now}
}

// Score applies the opportunity weight and the fixed bonus ladder, in
// order: trend, stability, risk, shield, daily performance.
func (s *Scorer) Score(ctx models.DecisionContext) models.TradeDecision {
	total := ctx.OpportunityScore * s.cfg.OpportunityWeight
	var reasons []string

	if ctx.TrendAlignment > s.cfg.TrendAlignmentAbove {
		total += s.cfg.TrendBonus
		reasons = append(reasons, "Trend aligned")
	}
	if ctx.MarketStability > s.cfg.MarketStabilityAbove {
		total += s.cfg.StabilityBonus
		reasons = append(reasons, "Market stable")
	}
	if ctx.RiskLevel < s.cfg.RiskLevelBelow {
		total += s.cfg.RiskBonus
		reasons = append(reasons, "Low risk")
	}
	if ctx.ShieldThreat < s.cfg.ShieldThreatBelow {
		total += s.cfg.ShieldBonus
		reasons = append(reasons, "Shield calm")
	}
	if ctx.DailyPerformance > 0 {
		total += s.cfg.DailyBonus
		reasons = append(reasons, "Positive daily performance")
	}

	total = filters.Clamp(total, 0, 100)

	action := models.ActionSkip
	if total > s.cfg.EnterAbove {
		action = models.ActionEnter
	}
	reason := reasonInsufficient
	if len(reasons) > 0 {
		reason = strings.Join(reasons, ", ")
	}

	return models.TradeDecision{
		Score:     total,
		Action:    action,
		Reason:    reason,
		Timestamp: s.now(),
	}
}
