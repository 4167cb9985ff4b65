package fulfillment

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/shopkart/storefront/internal/domain"
	"github.com/shopkart/storefront/internal/orders"
)

// StatusApplier reflects an externally-asserted status transition.
type StatusApplier interface {
	ApplyStatus(ctx context.Context, id int64, status domain.OrderStatus) error
}

// StatusEvent is the fulfillment side's wire message.
type StatusEvent struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
}

// Consumer reads fulfillment status events and forwards them to the
// tracker. Forward transitions (ship, dispatch, deliver) only ever arrive
// this way; the client never asserts them itself.
type Consumer struct {
	reader  *kafka.Reader
	applier StatusApplier
}

func NewConsumer(applier StatusApplier, topic, groupID string, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader, applier: applier}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.readAndApply(ctx)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		log.Printf("error closing fulfillment reader: %v", err)
	}
}

func (c *Consumer) readAndApply(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("error reading fulfillment message: %v", err)
		}
		return
	}

	HandleStatusMessage(ctx, c.applier, m.Value)
}

// HandleStatusMessage decodes one status event and applies it. Malformed
// events and illegal transitions are logged and skipped; they must never
// stop the consumer loop.
func HandleStatusMessage(ctx context.Context, applier StatusApplier, value []byte) {
	var event StatusEvent
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("error parsing fulfillment event: %v", err)
		return
	}
	if event.OrderID == 0 {
		log.Println("fulfillment event missing order_id")
		return
	}

	status := domain.OrderStatus(event.Status)
	if err := applier.ApplyStatus(ctx, event.OrderID, status); err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			log.Printf("fulfillment event for unknown order %d", event.OrderID)
			return
		}
		log.Printf("failed to apply status %s to order %d: %v", status, event.OrderID, err)
	}
}
