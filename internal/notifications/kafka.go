package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"InfiniteDbAccounts/internal/domain"

	"github.com/segmentio/kafka-go"
)

const (
	DefaultLifecycleTopic    = "account-lifecycle-events"
	DefaultVerificationTopic = "verification-code-requests"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventPublisher publishes account events to Kafka. Verification code
// requests go to their own topic; every other event goes to the lifecycle topic.
type EventPublisher struct {
	Writer            MessageWriter
	LifecycleTopic    string
	VerificationTopic string
	WriteTimeout      time.Duration
	Logger            *slog.Logger
	Now               func() time.Time
}

func NewKafkaWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
}

func (p *EventPublisher) VerificationCodeSent(ctx context.Context, account domain.Account, code string) error {
	evt := newEvent(EventVerificationCodeSent, account, p.now())
	evt.Code = code
	return p.publish(ctx, p.lifecycleTopic(), evt)
}

func (p *EventPublisher) VerificationCodeRequested(ctx context.Context, account domain.Account, code string) error {
	evt := newEvent(EventVerificationCodeRequested, account, p.now())
	evt.Code = code
	return p.publish(ctx, p.verificationTopic(), evt)
}

func (p *EventPublisher) AccountCreated(ctx context.Context, account domain.Account) error {
	return p.publish(ctx, p.lifecycleTopic(), newEvent(EventAccountCreated, account, p.now()))
}

func (p *EventPublisher) PasswordResetRequested(ctx context.Context, account domain.Account, token string) error {
	evt := newEvent(EventPasswordResetRequested, account, p.now())
	evt.Token = token
	return p.publish(ctx, p.lifecycleTopic(), evt)
}

func (p *EventPublisher) AccountDeleted(ctx context.Context, account domain.Account) error {
	return p.publish(ctx, p.lifecycleTopic(), newEvent(EventAccountDeleted, account, p.now()))
}

func (p *EventPublisher) Close() error {
	if p == nil || p.Writer == nil {
		return nil
	}
	return p.Writer.Close()
}

func (p *EventPublisher) publish(ctx context.Context, topic string, evt Event) error {
	if p.Writer == nil {
		return fmt.Errorf("event publisher not configured")
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode %s: %w", evt.EventType, err)
	}

	timeout := p.WriteTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	writeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Keyed by account so one account's events stay ordered within a partition.
	err = p.Writer.WriteMessages(writeCtx, kafka.Message{
		Topic: topic,
		Key:   []byte(evt.UserID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", evt.EventType, err)
	}
	p.logger().DebugContext(ctx, "event published", "event", evt.EventType, "topic", topic, "account_id", evt.UserID)
	return nil
}

func (p *EventPublisher) lifecycleTopic() string {
	if p.LifecycleTopic == "" {
		return DefaultLifecycleTopic
	}
	return p.LifecycleTopic
}

func (p *EventPublisher) verificationTopic() string {
	if p.VerificationTopic == "" {
		return DefaultVerificationTopic
	}
	return p.VerificationTopic
}

func (p *EventPublisher) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p *EventPublisher) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}
