package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-batch/internal/domain"
	"github.com/jhoicas/Inventario-batch/internal/domain/entity"
	"github.com/jhoicas/Inventario-batch/pkg/logger"
)

type fakeWriter struct {
	msgs []kafkago.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := NewPublisher(w)
	ev := entity.ActivityEvent{
		EventID:       "e-1",
		ActivityType:  "SELL",
		ActivityValue: "2",
		ActivityTime:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		ItemID:        15,
		ItemName:      "Lápiz",
	}

	require.NoError(t, p.Publish(context.Background(), ev))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "15", string(w.msgs[0].Key), "la clave es el item_id")

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &raw))
	assert.Equal(t, "e-1", raw["event_id"])
	assert.Equal(t, "SELL", raw["activity_type"])
	assert.Equal(t, "2", raw["activity_value"])
	assert.Equal(t, "2024-03-01T12:00:00Z", raw["activity_timestamp"])
	assert.Equal(t, float64(15), raw["item_id"])
}

func TestPublisher_ErrorDelBroker(t *testing.T) {
	p := NewPublisher(&fakeWriter{err: errors.New("leader not available")})
	err := p.Publish(context.Background(), entity.ActivityEvent{EventID: "e-2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "e-2")
}

type fakeReader struct {
	mu        sync.Mutex
	queue     []kafkago.Message
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		m := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func message(t *testing.T, offset int64, ev entity.ActivityEvent) kafkago.Message {
	t.Helper()
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	return kafkago.Message{Offset: offset, Value: b}
}

func TestConsumer_IngestaYConfirma(t *testing.T) {
	r := &fakeReader{queue: []kafkago.Message{
		message(t, 1, entity.ActivityEvent{EventID: "a", ActivityType: "ADD", ItemID: 1}),
		{Offset: 2, Value: []byte("{no es json")},
		message(t, 3, entity.ActivityEvent{EventID: "b", ActivityType: "SELL", ItemID: 1}),
	}}
	var mu sync.Mutex
	var got []string
	ingest := func(_ context.Context, ev entity.ActivityEvent) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, ev.EventID)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, NewConsumer(r, ingest, logger.Nop()).Run(ctx))

	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, []int64{1, 2, 3}, r.committed, "el JSON inválido también se confirma")
}

func TestConsumer_FalloDeIngestaNoConfirma(t *testing.T) {
	retryBackoff = time.Millisecond
	t.Cleanup(func() { retryBackoff = time.Second })

	r := &fakeReader{queue: []kafkago.Message{
		message(t, 7, entity.ActivityEvent{EventID: "a", ActivityType: "ADD", ItemID: 1}),
	}}
	calls := 0
	ingest := func(context.Context, entity.ActivityEvent) error {
		calls++
		return errors.New("db caída")
	}

	err := NewConsumer(r, ingest, logger.Nop()).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, ingestAttempts, calls)
	assert.Empty(t, r.committed)
}

func TestConsumer_EventoInvalidoSeConfirmaSinReintentos(t *testing.T) {
	retryBackoff = time.Hour
	t.Cleanup(func() { retryBackoff = time.Second })

	r := &fakeReader{queue: []kafkago.Message{
		message(t, 4, entity.ActivityEvent{ActivityType: "ADD", ItemID: 1}),
		message(t, 5, entity.ActivityEvent{EventID: "ok", ActivityType: "ADD", ItemID: 1}),
	}}
	var mu sync.Mutex
	calls := map[string]int{}
	ingest := func(_ context.Context, ev entity.ActivityEvent) error {
		mu.Lock()
		defer mu.Unlock()
		calls[ev.EventID]++
		if ev.EventID == "" {
			return fmt.Errorf("event_id vacío: %w", domain.ErrInvalidInput)
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, NewConsumer(r, ingest, logger.Nop()).Run(ctx))

	assert.Equal(t, map[string]int{"": 1, "ok": 1}, calls, "el evento inválido no se reintenta")
	assert.Equal(t, []int64{4, 5}, r.committed)
}
