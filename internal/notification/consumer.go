package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/Saeid202/buyers/internal/currency"
	"github.com/Saeid202/buyers/internal/order/domain"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Consumer reads order-placed events and notifies the back office. There
// is no payment gateway: staff call the customer to arrange payment, so
// the notification carries the phone number and the order total.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    "order-placed",
		GroupID:  "notifier",
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		log.Printf("error closing kafka reader: %v", err)
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Printf("error reading message: %v", err)
		return
	}

	if err := handleEvent(m.Value); err != nil {
		log.Printf("error handling order event: %v", err)
	}
}

// handleEvent parses an order-placed payload and logs the follow-up call
// request. The outbox replays on crashes, so duplicate order ids can and
// do arrive; logging twice is harmless.
func handleEvent(payload []byte) error {
	var event domain.OrderPlacedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("parse order event: %w", err)
	}

	if _, err := uuid.Parse(event.OrderID); err != nil {
		return fmt.Errorf("invalid order_id %q: %w", event.OrderID, err)
	}

	units := 0
	for _, item := range event.Items {
		units += item.Quantity
	}

	log.Printf("order %s placed by %s: %d item(s), total %s, call %s to arrange payment",
		event.OrderID,
		event.CustomerName,
		units,
		currency.FormatPrice(event.Total, currency.Label(event.Currency)),
		event.CustomerPhone,
	)
	return nil
}
