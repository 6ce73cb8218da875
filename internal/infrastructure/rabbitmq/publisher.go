package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/Inventario-batch/internal/application/activity"
	"github.com/jhoicas/Inventario-batch/internal/domain/entity"
)

// Channel lo que el publisher necesita de *amqp.Channel.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

var _ activity.Publisher = (*Publisher)(nil)

// Publisher publica eventos de actividad en un exchange topic.
// amqp.Channel no es seguro para publicar desde varias goroutines; se serializa con mu.
type Publisher struct {
	mu       sync.Mutex
	ch       Channel
	exchange string
}

// NewPublisher construye el publisher sobre un canal ya abierto.
func NewPublisher(ch Channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange}
}

// RoutingKey clave de ruteo de un evento: activity.<tipo en minúsculas>.
func RoutingKey(ev entity.ActivityEvent) string {
	return "activity." + strings.ToLower(ev.ActivityType)
}

func (p *Publisher) Publish(ctx context.Context, ev entity.ActivityEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("rabbitmq: serializar evento: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx,
		p.exchange,     // exchange
		RoutingKey(ev), // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.EventID,
			Timestamp:    ev.ActivityTime,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("rabbitmq: publicar evento %s: %w", ev.EventID, err)
	}
	return nil
}
