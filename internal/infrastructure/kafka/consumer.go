package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jhoicas/Inventario-batch/internal/domain"
	"github.com/jhoicas/Inventario-batch/internal/domain/entity"
	"github.com/jhoicas/Inventario-batch/pkg/logger"
)

// MessageReader lo que el consumer necesita de *kafka.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// retryBackoff espera base entre reintentos de ingesta; crece linealmente.
var retryBackoff = time.Second

// IngestFunc procesa un evento decodificado (activity.UseCase.Ingest).
type IngestFunc func(ctx context.Context, ev entity.ActivityEvent) error

// Consumer lee eventos de actividad y los entrega a IngestFunc.
// El offset se confirma solo después de una ingesta exitosa (at-least-once).
type Consumer struct {
	r      MessageReader
	ingest IngestFunc
	log    *logger.Logger
}

// NewReader construye el *kafka.Reader del grupo de consumo.
func NewReader(brokers []string, topic, groupID string) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
}

// NewConsumer construye el consumer.
func NewConsumer(r MessageReader, ingest IngestFunc, log *logger.Logger) *Consumer {
	return &Consumer{r: r, ingest: ingest, log: log}
}

// Run consume hasta que ctx se cancele. Un mensaje con JSON inválido o que la ingesta rechaza con
// domain.ErrInvalidInput se registra y se confirma (reintentarlo no lo arreglaría). Si la ingesta
// falla tras los reintentos, Run termina con error sin confirmar el offset, así el mensaje se relee
// al reiniciar.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("kafka: leer mensaje: %w", err)
		}

		if err := c.handleWithRetry(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("kafka: ingerir offset %d: %w", msg.Offset, err)
		}
		if err := c.r.CommitMessages(ctx, msg); err != nil {
			c.log.Warn().Err(err).Int64("offset", msg.Offset).Msg("no se pudo confirmar el offset")
		}
	}
}

// ingestAttempts intentos por mensaje antes de detener el consumer.
const ingestAttempts = 3

func (c *Consumer) handleWithRetry(ctx context.Context, msg kafkago.Message) error {
	var err error
	for attempt := 1; attempt <= ingestAttempts; attempt++ {
		if err = c.handle(ctx, msg); err == nil {
			return nil
		}
		c.log.Error().Err(err).
			Int("attempt", attempt).
			Int("partition", msg.Partition).
			Int64("offset", msg.Offset).
			Msg("no se pudo ingerir la actividad")
		select {
		case <-time.After(time.Duration(attempt) * retryBackoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (c *Consumer) handle(ctx context.Context, msg kafkago.Message) error {
	carrier := propagation.MapCarrier{}
	for _, h := range msg.Headers {
		carrier[h.Key] = string(h.Value)
	}
	ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)

	var ev entity.ActivityEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		c.log.Error().Err(err).Bytes("raw_value", msg.Value).Msg("evento de actividad con JSON inválido, se descarta")
		return nil
	}
	if err := c.ingest(ctx, ev); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.log.Error().Err(err).Bytes("raw_value", msg.Value).Msg("evento de actividad inválido, se descarta")
			return nil
		}
		return err
	}
	c.log.Debug().Str("event_id", ev.EventID).Int64("item_id", ev.ItemID).Msg("actividad registrada")
	return nil
}

// Close cierra el reader.
func (c *Consumer) Close() error {
	return c.r.Close()
}
