package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"cardapio-virtual/internal/domain"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

const defaultReadRetryDelay = time.Second

// EventConsumer feeds the popularity ranking from order events.
type EventConsumer struct {
	Reader  MessageReader
	Ranking Ranking
	Log     *logrus.Entry
	// RetryDelay is the pause after a failed read.
	RetryDelay time.Duration
}

func NewEventConsumer(reader MessageReader, ranking Ranking, logger *logrus.Logger) *EventConsumer {
	return &EventConsumer{
		Reader:     reader,
		Ranking:    ranking,
		Log:        logger.WithField("component", "order-event-consumer"),
		RetryDelay: defaultReadRetryDelay,
	}
}

// Start reads until ctx is cancelled or the reader is closed.
func (c *EventConsumer) Start(ctx context.Context) {
	c.Log.Info("Starting order event consumer")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				c.Log.Info("Order event consumer stopped")
				return
			}
			c.Log.WithError(err).Error("Error reading message")
			select {
			case <-ctx.Done():
				c.Log.Info("Order event consumer stopped")
				return
			case <-time.After(c.RetryDelay):
			}
			continue
		}

		var event domain.OrderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			c.Log.WithError(err).WithField("offset", message.Offset).Warn("Skipping malformed order event")
			continue
		}
		c.ProcessEvent(ctx, event)
	}
}

// ProcessEvent adds the quantities of a placed order to the ranking. Other
// event types are ignored, so later edits and deletions of an order do not
// change its counts. A failed line is logged and skipped; the remaining lines
// are still counted.
func (c *EventConsumer) ProcessEvent(ctx context.Context, event domain.OrderEvent) {
	if event.Type != domain.EventOrderPlaced {
		return
	}
	failed := 0
	for _, line := range event.Items {
		if err := c.Ranking.Increment(ctx, line.ItemID, line.Quantity); err != nil {
			failed++
			c.Log.WithError(err).WithFields(logrus.Fields{
				"order_id": event.OrderID,
				"item_id":  line.ItemID,
			}).Error("Error updating item ranking")
		}
	}
	if failed == 0 {
		c.Log.WithField("order_id", event.OrderID).Debug("Order counted in ranking")
	}
}
