package push

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"

	"sneakerspot/internal/pkg/logger"
	"sneakerspot/internal/pkg/metrics"
	"sneakerspot/internal/pkg/mq"
)

// statusUpdate is the subset of the status-changed event the storefront
// needs. UserID routes the message; everything else is display data.
type statusUpdate struct {
	OrderID   int64    `json:"order_id"`
	UserID    int64    `json:"user_id"`
	OldStatus string   `json:"old_status"`
	NewStatus string   `json:"new_status"`
	Warnings  []string `json:"warnings,omitempty"`
}

// Consumer feeds order-status-changed events into the hub. Events for users
// without an open socket are dropped; the order history page is the source
// of truth, the push is a convenience.
// messageSource is the slice of kafka.Reader the consume loop uses.
type messageSource interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

type Consumer struct {
	reader messageSource
	hub    *Hub

	wg      sync.WaitGroup
	stopped atomic.Bool
}

func NewConsumer(reader *kafka.Reader, hub *Hub) *Consumer {
	return &Consumer{reader: reader, hub: hub}
}

func (c *Consumer) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		logger.Ctx(ctx).Info().Str("topic", c.reader.Config().Topic).Msg("push consumer started")
		for {
			if c.stopped.Load() {
				return
			}
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if c.stopped.Load() || ctx.Err() != nil {
					return
				}
				logger.Ctx(ctx).Error().Err(err).Msg("fetch message failed, retrying")
				time.Sleep(time.Second)
				continue
			}

			c.processMessage(ctx, msg)

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				logger.Ctx(ctx).Error().Err(err).Msg("commit offset failed")
			}
		}
	}()
}

func (c *Consumer) Stop() {
	c.stopped.Store(true)
	c.reader.Close()
	c.wg.Wait()
}

func (c *Consumer) processMessage(parentCtx context.Context, msg kafka.Message) {
	var update statusUpdate
	if err := json.Unmarshal(msg.Value, &update); err != nil {
		logger.Ctx(parentCtx).Error().Err(err).Msg("malformed status changed event, skipping")
		return
	}

	carrier := mq.KafkaHeaderCarrier(msg.Headers)
	ctx := otel.GetTextMapPropagator().Extract(parentCtx, &carrier)

	if update.UserID == 0 {
		return
	}
	payload, err := json.Marshal(update)
	if err != nil {
		return
	}
	delivered := c.hub.Send(update.UserID, payload)
	if delivered {
		metrics.PushDeliveries.WithLabelValues("delivered").Inc()
	} else {
		metrics.PushDeliveries.WithLabelValues("offline").Inc()
	}
	logger.Ctx(ctx).Debug().
		Int64("order_id", update.OrderID).
		Int64("user_id", update.UserID).
		Bool("delivered", delivered).
		Msg("status update pushed")
}
