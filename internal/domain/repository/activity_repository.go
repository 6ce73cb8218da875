package repository

import (
	"context"

	"github.com/jhoicas/Inventario-batch/internal/domain/entity"
)

// ActivityRepository define el puerto del historial de actividad (append-only).
type ActivityRepository interface {
	// Append inserta el registro; un EventID ya registrado se ignora sin error.
	Append(ctx context.Context, rec *entity.ActivityRecord) error
	ListByItem(ctx context.Context, itemID int64, limit, offset int) ([]*entity.ActivityRecord, error)
}
