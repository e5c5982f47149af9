package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/geocache/stc/internal/dqm"
)

// Handler processes one delivered JobEvent; a non-nil error stalls the
// claim (sarama will redeliver, matching the invalidation runner's
// at-least-once handling).
type Handler func(context.Context, dqm.JobEvent) error

// Consumer drains job-lifecycle events for an external observer.
type Consumer struct {
	group   sarama.ConsumerGroup
	topic   string
	handler Handler
}

// NewConsumer joins cfg.GroupID against cfg.Topic.
func NewConsumer(cfg Config, handler Handler) (*Consumer, error) {
	sc := sarama.NewConfig()
	sc.Version = sarama.V2_5_0_0
	sc.Consumer.Offsets.Initial = sarama.OffsetNewest
	sc.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, sc)
	if err != nil {
		return nil, fmt.Errorf("eventbus: new consumer group: %w", err)
	}
	return &Consumer{group: group, topic: cfg.Topic, handler: handler}, nil
}

// Run consumes until ctx is cancelled, rejoining the group after any
// rebalance or transient broker error.
func (c *Consumer) Run(ctx context.Context) error {
	h := &claimHandler{handler: c.handler}
	for {
		if err := c.group.Consume(ctx, []string{c.topic}, h); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			select {
			case <-time.After(2 * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Close leaves the consumer group.
func (c *Consumer) Close() error {
	return c.group.Close()
}

type claimHandler struct {
	handler Handler
}

func (h *claimHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *claimHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *claimHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	ctx := sess.Context()
	for msg := range claim.Messages() {
		var evt dqm.JobEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			sess.MarkMessage(msg, "")
			continue
		}
		if err := h.handler(ctx, evt); err != nil {
			return err
		}
		sess.MarkMessage(msg, "")
	}
	return nil
}
