// Package eventbus publishes dqm.JobEvent notifications to Kafka for
// external observers (a dashboard, an autoscaler, a worker-loss
// detector in another process) — the scheduler's own Controller never
// depends on this package to make a decision, it only calls out to it.
// Grounded on pkg/invalidation/kafka/runner.go's consumer-group/handler
// shape, run in reverse: here the scheduler is the producer, and the
// consumer group exists for observers and tests rather than for the
// scheduler itself.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/geocache/stc/internal/dqm"
)

// Config names the Kafka topic job-lifecycle events are published to.
type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Publisher publishes dqm.JobEvents to a Kafka topic. It satisfies
// dqm.EventPublisher.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewPublisher dials brokers and constructs a synchronous producer.
func NewPublisher(cfg Config) (*Publisher, error) {
	sc := sarama.NewConfig()
	sc.Version = sarama.V2_5_0_0
	sc.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("eventbus: new producer: %w", err)
	}
	return &Publisher{producer: producer, topic: cfg.Topic}, nil
}

// Publish sends evt to the configured topic, keyed by JobID so all
// events for one job land on the same partition and stay ordered.
func (p *Publisher) Publish(_ context.Context, evt dqm.JobEvent) error {
	b, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("eventbus: marshal event: %w", err)
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(evt.JobID),
		Value: sarama.ByteEncoder(b),
	})
	return err
}

// Close releases the underlying producer connection.
func (p *Publisher) Close() error {
	return p.producer.Close()
}
