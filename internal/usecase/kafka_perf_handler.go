package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"FusionGate/internal/domain/models"
	domrepo "FusionGate/internal/domain/repository"
	pkgkafka "FusionGate/pkg/kafka"
)

// KafkaPerfHandler consumes performance snapshots off Kafka and routes them
// into the reality scanner via the evaluator.
type KafkaPerfHandler struct {
	topic   string
	eval    *Evaluator
	metrics domrepo.Metrics
}

func NewKafkaPerfHandler(topic string, eval *Evaluator, metrics domrepo.Metrics) *KafkaPerfHandler {
	return &KafkaPerfHandler{topic: topic, eval: eval, metrics: metrics}
}

func (h *KafkaPerfHandler) Topic() string { return h.topic }

// incoming message schema: {role, snapshot}
func (h *KafkaPerfHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Role     string                     `json:"role"`
		Snapshot models.PerformanceSnapshot `json:"snapshot"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	switch m.Role {
	case models.PerfRoleBaseline, models.PerfRoleModel, models.PerfRoleLive:
	default:
		h.metrics.RecordError("consumer_bad_role")
		return fmt.Errorf("unknown performance role %q", m.Role)
	}
	if m.Snapshot.Timestamp.IsZero() {
		m.Snapshot.Timestamp = time.Now()
	}

	start := time.Now()
	h.eval.ApplyPerformance(m.Role, m.Snapshot)
	h.metrics.RecordLatency("perf_apply_seconds", time.Since(start).Seconds())
	h.metrics.RecordFeedEvent("perf_kafka")
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaPerfHandler)(nil)
