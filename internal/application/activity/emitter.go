package activity

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-batch/internal/domain/entity"
	"github.com/jhoicas/Inventario-batch/pkg/logger"
)

// DefaultPublishTimeout límite de cada publicación si no se configura ACTIVITY_PUBLISH_TIMEOUT.
const DefaultPublishTimeout = 5 * time.Second

// Emitter publica actividades en segundo plano. Emit nunca bloquea ni falla al llamador:
// los errores del transporte se registran y se descartan.
type Emitter struct {
	pub     Publisher
	timeout time.Duration
	log     *logger.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewEmitter construye el emisor sobre el publisher dado.
func NewEmitter(pub Publisher, timeout time.Duration, log *logger.Logger) *Emitter {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Emitter{pub: pub, timeout: timeout, log: log}
}

// Emit dispara la publicación de una actividad en una goroutine con su propio timeout,
// desacoplada del contexto de la petición.
func (e *Emitter) Emit(kind entity.OperationType, magnitude int, at time.Time, itemID int64, itemName string) {
	ev := entity.ActivityEvent{
		EventID:       uuid.NewString(),
		ActivityType:  string(kind),
		ActivityValue: strconv.Itoa(magnitude),
		ActivityTime:  at.UTC(),
		ItemID:        itemID,
		ItemName:      itemName,
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		e.log.Warn().Str("event_id", ev.EventID).Int64("item_id", itemID).Msg("emisor cerrado, actividad descartada")
		return
	}
	e.wg.Add(1)
	go e.publish(ev)
}

func (e *Emitter) publish(ev entity.ActivityEvent) {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Str("event_id", ev.EventID).Msg("panic publicando actividad")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	if err := e.pub.Publish(ctx, ev); err != nil {
		e.log.Error().Err(err).
			Str("event_id", ev.EventID).
			Str("activity_type", ev.ActivityType).
			Int64("item_id", ev.ItemID).
			Msg("no se pudo publicar la actividad")
		return
	}
	e.log.Debug().Str("event_id", ev.EventID).Int64("item_id", ev.ItemID).Msg("actividad publicada")
}

// Close deja de aceptar actividades y espera las publicaciones en curso (o la cancelación de ctx).
func (e *Emitter) Close(ctx context.Context) error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
