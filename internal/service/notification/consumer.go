package notification

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"

	"sneakerspot/internal/pkg/logger"
	"sneakerspot/internal/pkg/mq"
	"sneakerspot/internal/service/checkout/domain"
)

// UserDirectory resolves the recipient's first name for the greeting. Lookup
// failures degrade to a nameless greeting.
type UserDirectory interface {
	FirstName(ctx context.Context, userID int64) (string, error)
}

// Sender delivers a rendered email.
type Sender interface {
	Send(email *Email) error
}

// messageSource is the slice of kafka.Reader the consume loop uses.
type messageSource interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

// Consumer drives the order-confirmed topic and mails receipts. Send
// failures are logged and the offset committed anyway; a receipt is not
// worth redelivery loops.
type Consumer struct {
	reader   messageSource
	sender   Sender
	users    UserDirectory
	fromName string

	wg      sync.WaitGroup
	stopped atomic.Bool
}

func NewConsumer(reader *kafka.Reader, sender Sender, users UserDirectory, fromName string) *Consumer {
	return &Consumer{reader: reader, sender: sender, users: users, fromName: fromName}
}

// Start launches the consume loop. Long running; returns when ctx is
// cancelled or Stop is called.
func (c *Consumer) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		logger.Ctx(ctx).Info().Str("topic", c.reader.Config().Topic).Msg("notification consumer started")
		for {
			if c.stopped.Load() {
				return
			}
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if c.stopped.Load() || ctx.Err() != nil {
					logger.Ctx(ctx).Info().Msg("notification consumer shutting down")
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
	var event domain.OrderConfirmedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		logger.Ctx(parentCtx).Error().Err(err).Msg("malformed order confirmed event, skipping")
		return
	}

	carrier := mq.KafkaHeaderCarrier(msg.Headers)
	ctx := otel.GetTextMapPropagator().Extract(parentCtx, &carrier)

	firstName := ""
	if c.users != nil {
		name, err := c.users.FirstName(ctx, event.UserID)
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Int64("user_id", event.UserID).Msg("recipient name lookup failed")
		} else {
			firstName = name
		}
	}

	email := RenderOrderConfirmation(&event, firstName, c.fromName)
	if err := c.sender.Send(email); err != nil {
		logger.Ctx(ctx).Error().
			Err(err).
			Int64("order_id", event.OrderID).
			Str("to", email.To).
			Msg("order confirmation email failed")
		return
	}
	logger.Ctx(ctx).Info().
		Int64("order_id", event.OrderID).
		Str("to", email.To).
		Msg("order confirmation email sent")
}
