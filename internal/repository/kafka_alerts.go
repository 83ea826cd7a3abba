package repository

import (
	"context"

	domrepo "RugScan/internal/domain/repository"
	"RugScan/pkg/kafka"
)

// KafkaAlertPublisher pushes high-risk detections to a Kafka topic, keyed by
// token address so alerts for one token stay ordered within a partition.
type KafkaAlertPublisher struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaAlertPublisher(producer *kafka.Producer, topic string) *KafkaAlertPublisher {
	return &KafkaAlertPublisher{producer: producer, topic: topic}
}

func (p *KafkaAlertPublisher) PublishAlert(ctx context.Context, alert *domrepo.RiskAlert) error {
	return p.producer.Publish(ctx, p.topic, []byte(alert.Chain+":"+alert.Address), alert)
}

// PublishMessage implements logger.Publisher so aggregated error logs can
// ride the same producer.
func (p *KafkaAlertPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

func (p *KafkaAlertPublisher) Close() error {
	return p.producer.Close()
}
