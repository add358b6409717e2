package decision

import (
	"sync"
	"time"

	"FusionGate/internal/domain/models"
)

// Trigger reasons.
const (
	reasonCooldown = "Cooldown active"
	reasonTooWeak  = "Conditions not strong enough"
)

// Trigger is a cooldown-gated finite-state gate over trade decisions. Its
// only mutable state is the time of the last approval; the gate is READY
// when that is unset or the cooldown has elapsed, COOLING_DOWN otherwise.
// Wall-clock time by default; substitute a monotonic clock via the now
// field if skew matters.
type Trigger struct {
	mu            sync.Mutex
	cooldown      time.Duration
	lastTradeTime time.Time
	now           func() time.Time
}

// NewTrigger constructs a trigger. A non-positive cooldown falls back to
// the 3-minute default.
func NewTrigger(cooldown time.Duration) *Trigger {
	if cooldown <= 0 {
		cooldown = 3 * time.Minute
	}
	return &Trigger{cooldown: cooldown, now: time.Now}
}

// Fire gates one decision. Approval stamps lastTradeTime and starts the
// cooldown; rejections never mutate state.
func (t *Trigger) Fire(d models.TradeDecision) models.TriggerOutput {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	cooldownMin := t.cooldown.Minutes()

	if !t.lastTradeTime.IsZero() {
		elapsed := now.Sub(t.lastTradeTime)
		if elapsed < t.cooldown {
			return models.TriggerOutput{
				Approved:        false,
				Action:          models.ActionSkip,
				Reason:          reasonCooldown,
				Timestamp:       now,
				CooldownMinutes: cooldownMin - elapsed.Minutes(),
			}
		}
	}

	if d.Action != models.ActionEnter {
		return models.TriggerOutput{
			Approved:  false,
			Action:    models.ActionSkip,
			Reason:    reasonTooWeak,
			Timestamp: now,
		}
	}

	t.lastTradeTime = now
	return models.TriggerOutput{
		Approved:        true,
		Action:          models.ActionEnter,
		Confidence:      d.Score,
		Reason:          d.Reason,
		Timestamp:       now,
		CooldownMinutes: cooldownMin,
	}
}

// Ready reports whether the gate would accept an ENTER decision right now.
func (t *Trigger) Ready() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastTradeTime.IsZero() || t.now().Sub(t.lastTradeTime) >= t.cooldown
}

// RemainingCooldown returns the time left before the gate reopens.
func (t *Trigger) RemainingCooldown() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastTradeTime.IsZero() {
		return 0
	}
	rem := t.cooldown - t.now().Sub(t.lastTradeTime)
	if rem < 0 {
		return 0
	}
	return rem
}
