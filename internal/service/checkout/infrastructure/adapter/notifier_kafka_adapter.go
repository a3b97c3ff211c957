package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"

	"sneakerspot/internal/pkg/mq"
	"sneakerspot/internal/service/checkout/domain"
)

// NotifierKafkaAdapter publishes order-confirmed events keyed by user id so
// one user's notifications stay ordered.
type NotifierKafkaAdapter struct {
	writer *kafka.Writer
}

func NewNotifierKafkaAdapter(writer *kafka.Writer) *NotifierKafkaAdapter {
	return &NotifierKafkaAdapter{writer: writer}
}

func (a *NotifierKafkaAdapter) OrderConfirmed(ctx context.Context, event *domain.OrderConfirmedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order confirmed event: %w", err)
	}
	key := []byte(strconv.FormatInt(event.UserID, 10))
	return mq.ProduceMessage(ctx, a.writer, key, payload)
}

func (a *NotifierKafkaAdapter) Close() error {
	return a.writer.Close()
}
