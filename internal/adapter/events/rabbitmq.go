package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/representacao/backend/internal/domain/model"
	"go.uber.org/zap"
)

const publishTimeout = 2 * time.Second

// channel é a parte do *amqp.Channel usada pelo publisher
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher envia eventos para uma exchange topic do RabbitMQ
type Publisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
	logger   *zap.Logger
	now      func() time.Time
}

// NewPublisher conecta e garante que a exchange exista (durável)
func NewPublisher(uri, exchange string, logger *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar ao RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("falha ao abrir canal: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("falha ao declarar exchange %s: %w", exchange, err)
	}

	logger.Info("Publicação de eventos habilitada", zap.String("exchange", exchange))
	return &Publisher{conn: conn, ch: ch, exchange: exchange, logger: logger, now: time.Now}, nil
}

// PublishOrderCreated publica o evento com routing key order.created
func (p *Publisher) PublishOrderCreated(ctx context.Context, order *model.Order, origin string) error {
	evt := NewOrderCreated(order, origin, p.now())
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("falha ao serializar evento: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.ch.PublishWithContext(ctx,
		p.exchange,
		OrderCreatedType,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    evt.ID,
			Timestamp:    evt.OccurredAt,
			Type:         evt.Type,
			Body:         body,
			Headers:      amqp.Table{"company_id": int64(order.CompanyID)},
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar %s: %w", evt.Type, err)
	}

	p.logger.Debug("Evento publicado",
		zap.String("event_id", evt.ID),
		zap.Uint("order_id", order.ID))
	return nil
}

func (p *Publisher) Close() error {
	var errCh, errConn error
	if p.ch != nil {
		errCh = p.ch.Close()
	}
	if p.conn != nil {
		errConn = p.conn.Close()
	}
	return errors.Join(errCh, errConn)
}

// NoopPublisher descarta os eventos quando a publicação está desabilitada
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderCreated(context.Context, *model.Order, string) error { return nil }

func (NoopPublisher) Close() error { return nil }
