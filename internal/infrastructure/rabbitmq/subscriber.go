package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/Inventario-batch/internal/domain"
	"github.com/jhoicas/Inventario-batch/internal/domain/entity"
	"github.com/jhoicas/Inventario-batch/pkg/logger"
)

// IngestFunc procesa un evento decodificado (activity.UseCase.Ingest).
type IngestFunc func(ctx context.Context, ev entity.ActivityEvent) error

// Subscriber consume eventos de actividad desde una cola durable ligada al exchange.
type Subscriber struct {
	ch       *amqp.Channel
	exchange string
	queue    string
	ingest   IngestFunc
	log      *logger.Logger
}

// NewSubscriber construye el subscriber.
func NewSubscriber(ch *amqp.Channel, exchange, queue string, ingest IngestFunc, log *logger.Logger) *Subscriber {
	return &Subscriber{ch: ch, exchange: exchange, queue: queue, ingest: ingest, log: log}
}

// Run declara la cola, la liga a activity.# y consume hasta que ctx se cancele o el canal se cierre.
// Ack manual: una ingesta fallida se reencola (at-least-once); JSON inválido o un evento
// rechazado con domain.ErrInvalidInput se descarta.
func (s *Subscriber) Run(ctx context.Context) error {
	q, err := s.ch.QueueDeclare(
		s.queue, // name
		true,    // durable
		false,   // delete when unused
		false,   // exclusive
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		return fmt.Errorf("rabbitmq: declarar cola: %w", err)
	}
	if err := s.ch.QueueBind(q.Name, "activity.#", s.exchange, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: ligar cola: %w", err)
	}

	msgs, err := s.ch.Consume(
		q.Name, // queue
		"",     // consumer tag
		false,  // auto-ack
		false,  // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		return fmt.Errorf("rabbitmq: iniciar consumo: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("rabbitmq: canal de entregas cerrado")
			}
			s.handle(ctx, d)
		}
	}
}

func (s *Subscriber) handle(ctx context.Context, d amqp.Delivery) {
	var ev entity.ActivityEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		s.log.Error().Err(err).Bytes("raw_value", d.Body).Msg("evento de actividad con JSON inválido, se descarta")
		_ = d.Nack(false, false)
		return
	}
	if err := s.ingest(ctx, ev); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			s.log.Error().Err(err).Bytes("raw_value", d.Body).Msg("evento de actividad inválido, se descarta")
			_ = d.Nack(false, false)
			return
		}
		s.log.Error().Err(err).Str("event_id", ev.EventID).Msg("no se pudo ingerir la actividad, se reencola")
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
}
