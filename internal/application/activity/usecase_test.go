package activity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-batch/internal/application/activity"
	"github.com/jhoicas/Inventario-batch/internal/application/dto"
	"github.com/jhoicas/Inventario-batch/internal/domain"
	"github.com/jhoicas/Inventario-batch/internal/domain/entity"
	"github.com/jhoicas/Inventario-batch/internal/infrastructure/memory"
)

type fakeReport struct {
	itemName string
	records  int
}

func (f *fakeReport) GenerateActivityReport(_ int64, itemName string, recs []*entity.ActivityRecord) ([]byte, error) {
	f.itemName = itemName
	f.records = len(recs)
	return []byte("%PDF-fake"), nil
}

func event(id string, itemID int64, at time.Time) entity.ActivityEvent {
	return entity.ActivityEvent{
		EventID:       id,
		ActivityType:  "ADD",
		ActivityValue: "5",
		ActivityTime:  at,
		ItemID:        itemID,
		ItemName:      "Lápiz",
	}
}

func TestIngest_IdempotentePorEventID(t *testing.T) {
	store := memory.NewStore()
	uc := activity.NewUseCase(store.Activity(), store.Items(), &fakeReport{})
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, uc.Ingest(ctx, event("e-1", 1, now)))
	require.NoError(t, uc.Ingest(ctx, event("e-1", 1, now)), "una reentrega no es error")
	require.NoError(t, uc.Ingest(ctx, event("e-2", 1, now.Add(time.Minute))))

	list, err := uc.List(ctx, 1, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "e-2", list.Items[0].EventID, "más reciente primero")
	assert.Equal(t, "5", list.Items[1].ActivityValue)
	assert.Equal(t, 20, list.Page.Limit)
	assert.False(t, list.Items[0].CreatedAt.IsZero())
}

func TestIngest_EventoIncompleto(t *testing.T) {
	store := memory.NewStore()
	uc := activity.NewUseCase(store.Activity(), store.Items(), &fakeReport{})
	err := uc.Ingest(context.Background(), entity.ActivityEvent{ActivityType: "ADD"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestReport(t *testing.T) {
	store := memory.NewStore()
	gen := &fakeReport{}
	uc := activity.NewUseCase(store.Activity(), store.Items(), gen)
	ctx := context.Background()

	_, _, err := uc.Report(ctx, 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	it := &entity.Item{Name: "Lápiz", Price: decimal.NewFromInt(1), Status: entity.ItemStatusActive}
	require.NoError(t, store.Items().Create(ctx, it))
	require.NoError(t, uc.Ingest(ctx, event("e-1", it.ID, time.Now())))

	pdf, name, err := uc.Report(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), pdf)
	assert.Contains(t, name, ".pdf")
	assert.Equal(t, "Lápiz", gen.itemName)
	assert.Equal(t, 1, gen.records)
}
