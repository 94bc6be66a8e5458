// Package events публикует события жизненного цикла пользователей в RabbitMQ.
// Ошибки публикации только логируются: запись в хранилище уже состоялась.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/gym-tracker/internal/config"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// UserEvent тело сообщения о пользователе.
type UserEvent struct {
	Event            string                  `json:"event"`
	UserID           int64                   `json:"user_id"`
	Email            string                  `json:"email,omitempty"`
	SubscriptionType models.SubscriptionType `json:"subscription_type,omitempty"`
	OccurredAt       time.Time               `json:"occurred_at"`
}

// Publisher отправляет события о пользователях.
type Publisher interface {
	UserCreated(ctx context.Context, user models.User)
	UserDeleted(ctx context.Context, userID int64)
}

// AMQPPublisher публикует события в topic-обменник.
type AMQPPublisher struct {
	log     *slog.Logger
	mu      sync.Mutex
	conn    *amqp.Connection
	ch      *amqp.Channel
	publish func(routingKey string, msg any) error
	now     func() time.Time
}

// New подключается к брокеру и объявляет обменник с очередями событий.
func New(log *slog.Logger, cfg config.RabbitMQ) (*AMQPPublisher, error) {
	const op = "events.New"

	conn, err := rabbitmq.Connect(cfg.URL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange, rabbitmq.UserEventQueues())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p := newPublisher(log, func(routingKey string, msg any) error {
		return rabbitmq.PublishMessage(ch, cfg.Exchange, routingKey, msg)
	})
	p.conn = conn
	p.ch = ch
	return p, nil
}

func newPublisher(log *slog.Logger, publish func(string, any) error) *AMQPPublisher {
	return &AMQPPublisher{
		log:     log,
		publish: publish,
		now:     time.Now,
	}
}

// UserCreated публикует событие user.created.
func (p *AMQPPublisher) UserCreated(ctx context.Context, user models.User) {
	p.send(ctx, rabbitmq.RoutingUserCreated, UserEvent{
		Event:            rabbitmq.RoutingUserCreated,
		UserID:           user.ID,
		Email:            user.Email,
		SubscriptionType: user.SubscriptionType,
	})
}

// UserDeleted публикует событие user.deleted.
func (p *AMQPPublisher) UserDeleted(ctx context.Context, userID int64) {
	p.send(ctx, rabbitmq.RoutingUserDeleted, UserEvent{
		Event:  rabbitmq.RoutingUserDeleted,
		UserID: userID,
	})
}

func (p *AMQPPublisher) send(ctx context.Context, routingKey string, event UserEvent) {
	const op = "events.send"
	log := p.log.With(slog.String("op", op), slog.String("routing_key", routingKey))

	if ctx.Err() != nil {
		log.WarnContext(ctx, "context done, event dropped", slog.Int64("user_id", event.UserID))
		return
	}
	event.OccurredAt = p.now().UTC()

	// amqp.Channel нельзя использовать из нескольких горутин одновременно.
	p.mu.Lock()
	err := p.publish(routingKey, event)
	p.mu.Unlock()

	if err != nil {
		log.WarnContext(ctx, "failed to publish event", slog.Int64("user_id", event.UserID), sl.Err(err))
		return
	}
	log.DebugContext(ctx, "event published", slog.Int64("user_id", event.UserID))
}

// Close закрывает канал и соединение.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Nop издатель для запуска без брокера.
type Nop struct{}

// UserCreated ничего не делает.
func (Nop) UserCreated(context.Context, models.User) {}

// UserDeleted ничего не делает.
func (Nop) UserDeleted(context.Context, int64) {}
