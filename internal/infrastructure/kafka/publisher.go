package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jhoicas/Inventario-batch/internal/application/activity"
	"github.com/jhoicas/Inventario-batch/internal/domain/entity"
)

// MessageWriter lo que el publisher necesita de *kafka.Writer (reemplazable en tests).
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

var _ activity.Publisher = (*Publisher)(nil)

// Publisher publica eventos de actividad en un topic Kafka como JSON.
// La clave del mensaje es el item_id, así los eventos de un item conservan orden por partición.
type Publisher struct {
	w MessageWriter
}

// NewWriter construye el *kafka.Writer del topic de actividad.
func NewWriter(brokers []string, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// NewPublisher envuelve el writer.
func NewPublisher(w MessageWriter) *Publisher {
	return &Publisher{w: w}
}

// Publish serializa el evento e inyecta el contexto de traza en los headers.
func (p *Publisher) Publish(ctx context.Context, ev entity.ActivityEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("kafka: serializar evento: %w", err)
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	headers := make([]kafkago.Header, 0, len(carrier))
	for k, v := range carrier {
		headers = append(headers, kafkago.Header{Key: k, Value: []byte(v)})
	}

	msg := kafkago.Message{
		Key:     []byte(strconv.FormatInt(ev.ItemID, 10)),
		Value:   payload,
		Headers: headers,
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: publicar evento %s: %w", ev.EventID, err)
	}
	return nil
}

// Close cierra el writer.
func (p *Publisher) Close() error {
	return p.w.Close()
}
