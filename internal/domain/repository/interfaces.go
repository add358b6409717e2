package repository

import (
	"context"

	"FusionGate/internal/domain/models"
)

type FeedStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.FeedEvent, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

type TriggerPublisher interface {
	Publish(ctx context.Context, out *models.TriggerOutput) error
	Close() error
}

type StateStore interface {
	SaveResult(ctx context.Context, res *models.CycleResult) error
	LoadResult(ctx context.Context) (*models.CycleResult, error)
	Health(ctx context.Context) error
	Close() error
}

type Metrics interface {
	RecordTickDuration(seconds float64)
	RecordFusionScore(score, confidence float64)
	RecordTruthGap(gap float64)
	RecordDecision(action string)
	RecordTrigger(approved bool)
	RecordFeedEvent(kind string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
