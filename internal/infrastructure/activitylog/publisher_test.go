package activitylog

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-batch/internal/domain/entity"
	"github.com/jhoicas/Inventario-batch/pkg/logger"
)

func TestPublisher_LogYIngesta(t *testing.T) {
	var buf bytes.Buffer
	log := logger.FromZerolog(zerolog.New(&buf))
	var ingested []string
	p := NewPublisher(log, func(_ context.Context, ev entity.ActivityEvent) error {
		ingested = append(ingested, ev.EventID)
		return nil
	})

	ev := entity.ActivityEvent{EventID: "e-1", ActivityType: "ADD", ActivityValue: "4", ActivityTime: time.Now(), ItemID: 2, ItemName: "Lápiz"}
	require.NoError(t, p.Publish(context.Background(), ev))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "e-1", line["event_id"])
	assert.Equal(t, "ADD", line["activity_type"])
	assert.Equal(t, float64(2), line["item_id"])
	assert.Equal(t, []string{"e-1"}, ingested)
}

func TestPublisher_SoloLog(t *testing.T) {
	p := NewPublisher(logger.Nop(), nil)
	assert.NoError(t, p.Publish(context.Background(), entity.ActivityEvent{EventID: "x"}))
}
