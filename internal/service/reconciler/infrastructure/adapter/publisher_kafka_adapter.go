package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"

	"sneakerspot/internal/pkg/mq"
	"sneakerspot/internal/service/reconciler/port"
)

// PublisherKafkaAdapter emits order-status-changed events keyed by order id.
type PublisherKafkaAdapter struct {
	writer *kafka.Writer
}

func NewPublisherKafkaAdapter(writer *kafka.Writer) *PublisherKafkaAdapter {
	return &PublisherKafkaAdapter{writer: writer}
}

func (a *PublisherKafkaAdapter) StatusChanged(ctx context.Context, event *port.StatusChangedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal status changed event: %w", err)
	}
	key := []byte(strconv.FormatInt(event.OrderID, 10))
	return mq.ProduceMessage(ctx, a.writer, key, payload)
}

func (a *PublisherKafkaAdapter) Close() error {
	return a.writer.Close()
}
