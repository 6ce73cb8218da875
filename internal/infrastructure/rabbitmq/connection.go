package rabbitmq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/Inventario-batch/pkg/logger"
)

// ExchangeType tipo del exchange de actividad; routing key = activity.<tipo>.
const ExchangeType = "topic"

const dialAttempts = 5

// Connect abre la conexión (con reintentos, el broker puede tardar en arrancar), un canal
// y declara el exchange durable.
func Connect(ctx context.Context, url, exchange string, log *logger.Logger) (*amqp.Connection, *amqp.Channel, error) {
	var conn *amqp.Connection
	var err error
	for i := 1; i <= dialAttempts; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		log.Warn().Err(err).Int("attempt", i).Msg("no se pudo conectar a RabbitMQ")
		select {
		case <-time.After(2 * time.Second):
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq: conectar: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq: abrir canal: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,     // name
		ExchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq: declarar exchange: %w", err)
	}
	return conn, ch, nil
}
