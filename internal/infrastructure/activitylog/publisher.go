package activitylog

import (
	"context"

	"github.com/jhoicas/Inventario-batch/internal/application/activity"
	"github.com/jhoicas/Inventario-batch/internal/domain/entity"
	"github.com/jhoicas/Inventario-batch/pkg/logger"
)

var _ activity.Publisher = (*Publisher)(nil)

// Publisher transporte por defecto (ACTIVITY_TRANSPORT=log): escribe cada evento como una línea
// de log estructurado. Opcionalmente también lo ingiere en el historial local.
type Publisher struct {
	log    *logger.Logger
	ingest func(ctx context.Context, ev entity.ActivityEvent) error
}

// NewPublisher ingest puede ser nil (solo log).
func NewPublisher(log *logger.Logger, ingest func(ctx context.Context, ev entity.ActivityEvent) error) *Publisher {
	return &Publisher{log: log, ingest: ingest}
}

func (p *Publisher) Publish(ctx context.Context, ev entity.ActivityEvent) error {
	p.log.Info().
		Str("event_id", ev.EventID).
		Str("activity_type", ev.ActivityType).
		Str("activity_value", ev.ActivityValue).
		Time("activity_timestamp", ev.ActivityTime).
		Int64("item_id", ev.ItemID).
		Str("item_name", ev.ItemName).
		Msg("actividad")
	if p.ingest == nil {
		return nil
	}
	return p.ingest(ctx, ev)
}
