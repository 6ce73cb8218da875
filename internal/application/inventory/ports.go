package inventory

import (
	"time"

	"github.com/jhoicas/Inventario-batch/internal/domain/entity"
)

// ActivitySink recibe las actividades de cada mutación exitosa (activity.Emitter).
// Emit no bloquea ni falla.
type ActivitySink interface {
	Emit(kind entity.OperationType, magnitude int, at time.Time, itemID int64, itemName string)
}
