package usecase

import (
	"context"

	"FusionGate/internal/domain/models"
	domrepo "FusionGate/internal/domain/repository"
	mid "FusionGate/internal/middleware"
)

// FeedCollector reads events from the metrics feed and routes them through
// the intake middleware.
type FeedCollector struct {
	stream  domrepo.FeedStream
	intake  *mid.Intake
	metrics domrepo.Metrics
}

// NewFeedCollector creates a new FeedCollector instance.
func NewFeedCollector(stream domrepo.FeedStream, intake *mid.Intake, metrics domrepo.Metrics) *FeedCollector {
	return &FeedCollector{stream: stream, intake: intake, metrics: metrics}
}

// IsConnected returns true if the feed stream is connected.
func (c *FeedCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *FeedCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	evCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, evCh, errCh)
	return nil
}

func (c *FeedCollector) consume(ctx context.Context, evCh <-chan *models.FeedEvent, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case ev := <-evCh:
			if ev == nil {
				continue
			}
			_ = c.intake.Ingest(ev)
		}
	}
}

// Shutdown closes the feed stream.
func (c *FeedCollector) Shutdown(ctx context.Context) error {
	return c.stream.Close()
}
