package activity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-batch/internal/domain/entity"
	"github.com/jhoicas/Inventario-batch/pkg/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.ActivityEvent
	err    error
	delay  time.Duration
}

func (p *recordingPublisher) Publish(ctx context.Context, ev entity.ActivityEvent) error {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) all() []entity.ActivityEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]entity.ActivityEvent(nil), p.events...)
}

func TestEmitter_PublicaEvento(t *testing.T) {
	pub := &recordingPublisher{}
	e := NewEmitter(pub, time.Second, logger.Nop())
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("COT", -5*3600))

	e.Emit(entity.OperationSell, 3, at, 7, "Lápiz")
	require.NoError(t, e.Close(context.Background()))

	evs := pub.all()
	require.Len(t, evs, 1)
	ev := evs[0]
	assert.Equal(t, "SELL", ev.ActivityType)
	assert.Equal(t, "3", ev.ActivityValue)
	assert.Equal(t, int64(7), ev.ItemID)
	assert.Equal(t, "Lápiz", ev.ItemName)
	assert.True(t, at.Equal(ev.ActivityTime))
	assert.Equal(t, time.UTC, ev.ActivityTime.Location())
	_, err := uuid.Parse(ev.EventID)
	assert.NoError(t, err, "event_id debe ser un uuid")
}

func TestEmitter_NoBloqueaNiFallaAlLlamador(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker caído"), delay: 50 * time.Millisecond}
	e := NewEmitter(pub, time.Second, logger.Nop())

	start := time.Now()
	for i := 0; i < 10; i++ {
		e.Emit(entity.OperationAdd, i, time.Now(), int64(i), "x")
	}
	assert.Less(t, time.Since(start), 40*time.Millisecond, "Emit no espera al broker")
	require.NoError(t, e.Close(context.Background()))
	assert.Empty(t, pub.all())
}

func TestEmitter_TimeoutPropio(t *testing.T) {
	pub := &recordingPublisher{delay: time.Second}
	e := NewEmitter(pub, 20*time.Millisecond, logger.Nop())
	e.Emit(entity.OperationAdd, 1, time.Now(), 1, "x")

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	require.NoError(t, e.Close(ctx), "la publicación se corta por su propio timeout")
	assert.Empty(t, pub.all())
}

func TestEmitter_CerradoDescarta(t *testing.T) {
	pub := &recordingPublisher{}
	e := NewEmitter(pub, time.Second, logger.Nop())
	require.NoError(t, e.Close(context.Background()))

	e.Emit(entity.OperationAdd, 1, time.Now(), 1, "x")
	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, pub.all())
}

func TestEmitter_CloseRespetaContexto(t *testing.T) {
	pub := &recordingPublisher{delay: 200 * time.Millisecond}
	e := NewEmitter(pub, time.Second, logger.Nop())
	e.Emit(entity.OperationAdd, 1, time.Now(), 1, "x")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, e.Close(ctx), context.DeadlineExceeded)
}
