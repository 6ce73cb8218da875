package activity

import (
	"context"

	"github.com/jhoicas/Inventario-batch/internal/domain/entity"
)

// Publisher puerto hacia el transporte de eventos (Kafka, RabbitMQ o log).
type Publisher interface {
	Publish(ctx context.Context, ev entity.ActivityEvent) error
}

// ReportGenerator genera la representación PDF del historial de un item.
type ReportGenerator interface {
	GenerateActivityReport(itemID int64, itemName string, records []*entity.ActivityRecord) ([]byte, error)
}
