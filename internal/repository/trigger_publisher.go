package repository

import (
	"context"

	"FusionGate/internal/domain/models"
	"FusionGate/internal/domain/repository"
	pkgkafka "FusionGate/pkg/kafka"
)

// KafkaTriggerPublisher implements TriggerPublisher over Kafka.
type KafkaTriggerPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaTriggerPublisher creates a Kafka-backed trigger publisher.
func NewKafkaTriggerPublisher(producer *pkgkafka.Producer, topic string) repository.TriggerPublisher {
	return &KafkaTriggerPublisher{producer: producer, topic: topic}
}

func (p *KafkaTriggerPublisher) Publish(ctx context.Context, out *models.TriggerOutput) error {
	key := []byte(out.Timestamp.UTC().Format("20060102T150405.000"))
	return p.producer.Publish(ctx, p.topic, key, out)
}

func (p *KafkaTriggerPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NopTriggerPublisher discards triggers; used when Kafka is disabled.
type NopTriggerPublisher struct{}

func (NopTriggerPublisher) Publish(context.Context, *models.TriggerOutput) error { return nil }
func (NopTriggerPublisher) Close() error                                         { return nil }
