package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	domrepo "FusionGate/internal/domain/repository"
	mid "FusionGate/internal/middleware"
	"FusionGate/pkg/logger"
)

// Runner drives the evaluator on a fixed tick. A tick that arrives while the
// previous evaluation is still in flight is skipped, never queued. A panic
// inside one evaluation is recovered and logged; the next tick proceeds.
type Runner struct {
	eval      *Evaluator
	intake    *mid.Intake
	store     domrepo.StateStore
	publisher domrepo.TriggerPublisher
	metrics   domrepo.Metrics
	log       *logger.Logger
	interval  time.Duration

	running atomic.Bool
	stopCh  chan struct{}
	once    sync.Once
}

// NewRunner creates a runner. store and publisher may be nil.
func NewRunner(
	eval *Evaluator,
	intake *mid.Intake,
	store domrepo.StateStore,
	publisher domrepo.TriggerPublisher,
	metrics domrepo.Metrics,
	log *logger.Logger,
	interval time.Duration,
) *Runner {
	if interval <= 0 {
		interval = time.Second
	}
	return &Runner{
		eval:      eval,
		intake:    intake,
		store:     store,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
}

// Start launches the tick loop in the background.
func (r *Runner) Start(ctx context.Context) {
	go r.loop(ctx)
}

func (r *Runner) loop(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-ticker.C:
			if !r.running.CompareAndSwap(false, true) {
				r.metrics.RecordError("tick_overrun")
				r.log.Warn("tick skipped, previous evaluation still running")
				continue
			}
			go func() {
				defer r.running.Store(false)
				r.tick(ctx)
			}()
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			r.metrics.RecordError("tick_panic")
			r.log.Error("evaluation panicked", logger.Error(fmt.Errorf("%v", rec)))
		}
	}()

	intel, tech, ok := r.intake.Latest()
	if !ok {
		r.log.Debug("tick skipped, snapshots not yet available")
		return
	}

	start := time.Now()
	res := r.eval.Evaluate(intel, tech)
	r.metrics.RecordTickDuration(time.Since(start).Seconds())

	if r.store != nil {
		if err := r.store.SaveResult(ctx, res); err != nil {
			r.metrics.RecordError("state_save")
			r.log.Warn("cycle result save failed", logger.Error(err))
		}
	}

	if res.Trigger.Approved {
		r.log.Info("trade trigger approved",
			logger.Any("confidence", res.Trigger.Confidence),
			logger.String("reason", res.Trigger.Reason))
		if r.publisher != nil {
			if err := r.publisher.Publish(ctx, &res.Trigger); err != nil {
				r.metrics.RecordError("trigger_publish")
				r.log.Error("trigger publish failed", logger.Error(err))
			}
		}
	}
}

// Stop halts the tick loop. Safe to call more than once.
func (r *Runner) Stop() {
	r.once.Do(func() { close(r.stopCh) })
}
