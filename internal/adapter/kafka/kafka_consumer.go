package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/IBM/sarama"

	"github.com/adarsh180/accidentaware/internal/logging"
)

// PaymentStatusMsg is what the gateway integration pipeline emits when a
// payment changes state after capture (refunds, disputes, failures).
type PaymentStatusMsg struct {
	OrderID    string `json:"orderId"`
	PaymentRef string `json:"paymentId"`
	Status     string `json:"status"` // e.g. "REFUNDED", "FAILED"
}

// HandlerFunc processes a decoded event. Must be idempotent.
type HandlerFunc func(ctx context.Context, ev PaymentStatusMsg) error

type Consumer struct {
	group  sarama.ConsumerGroup
	topics []string
	handle HandlerFunc
	log    *slog.Logger
}

func NewConsumer(group sarama.ConsumerGroup, topics []string, h HandlerFunc) *Consumer {
	return &Consumer{group: group, topics: topics, handle: h, log: logging.New("kafka")}
}

func (c *Consumer) Start(ctx context.Context) error {
	handler := &cgHandler{handle: c.handle, log: c.log}
	for {
		if err := c.group.Consume(ctx, c.topics, handler); err != nil {
			return err
		}
		// Consume returns on rebalance or cancellation.
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

type cgHandler struct {
	handle HandlerFunc
	log    *slog.Logger
}

func (h *cgHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *cgHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *cgHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var ev PaymentStatusMsg
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			h.log.Warn("undecodable payment event, skipping", "offset", msg.Offset, "err", err)
			// mark to avoid reprocessing poison
			sess.MarkMessage(msg, "decode-error")
			continue
		}
		if err := h.handle(sess.Context(), ev); err != nil {
			h.log.Error("payment event handler failed",
				"key", string(msg.Key), "offset", msg.Offset, "err", err)
			// Not marked; retried on the next poll.
			continue
		}
		sess.MarkMessage(msg, "")
	}
	return nil
}
