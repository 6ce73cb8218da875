package item_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-batch/internal/application/batch"
	"github.com/jhoicas/Inventario-batch/internal/application/dto"
	"github.com/jhoicas/Inventario-batch/internal/application/item"
	"github.com/jhoicas/Inventario-batch/internal/domain"
	"github.com/jhoicas/Inventario-batch/internal/domain/entity"
	"github.com/jhoicas/Inventario-batch/internal/domain/repository"
	"github.com/jhoicas/Inventario-batch/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-batch/internal/platform/workerpool"
	"github.com/jhoicas/Inventario-batch/pkg/logger"
)

type spySink struct {
	mu    sync.Mutex
	kinds []entity.OperationType
	qtys  []int
}

func (s *spySink) Emit(kind entity.OperationType, magnitude int, _ time.Time, _ int64, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kinds = append(s.kinds, kind)
	s.qtys = append(s.qtys, magnitude)
}

func newUseCase(store *memory.Store, sink item.ActivitySink) *item.UseCase {
	orch := batch.New(workerpool.New(4), 5*time.Second, logger.Nop())
	return item.NewUseCase(store.Items(), store.Inventory(), store.TxRunner(), orch, sink)
}

func ptr[T any](v T) *T { return &v }

func TestAddItems_TodoExitoso(t *testing.T) {
	store := memory.NewStore()
	sink := &spySink{}
	uc := newUseCase(store, sink)
	ctx := context.Background()

	resp := uc.AddItems(ctx, []dto.AddItemRequest{
		{ItemName: "Lápiz", ItemPrice: decimal.RequireFromString("1.50"), Quantity: 10},
		{ItemName: "Goma", ItemPrice: decimal.Zero, Quantity: 0},
	})
	assert.Equal(t, string(batch.AggregateSuccess), resp.Status)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "Lápiz", resp.Results[0].ItemName)
	assert.NotZero(t, resp.Results[0].ItemID)
	assert.NotEqual(t, resp.Results[0].ItemID, resp.Results[1].ItemID)

	got, err := uc.Get(ctx, resp.Results[0].ItemID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.AvailableQuantity)
	assert.True(t, decimal.RequireFromString("1.5").Equal(got.ItemPrice))
	assert.Equal(t, string(entity.ItemStatusActive), got.Status)

	assert.ElementsMatch(t, []int{10, 0}, sink.qtys, "el stock inicial se emite aunque sea cero")
	assert.Equal(t, []entity.OperationType{entity.OperationAdd, entity.OperationAdd}, sink.kinds)
}

func TestAddItems_Validaciones(t *testing.T) {
	uc := newUseCase(memory.NewStore(), &spySink{})
	resp := uc.AddItems(context.Background(), []dto.AddItemRequest{
		{ItemName: "  ", ItemPrice: decimal.NewFromInt(1), Quantity: 1},
		{ItemName: "Caro", ItemPrice: decimal.NewFromInt(-1), Quantity: 1},
		{ItemName: "Raro", ItemPrice: decimal.NewFromInt(1), Quantity: -3},
		{ItemName: "Bien", ItemPrice: decimal.NewFromInt(1), Quantity: 3},
	})
	assert.Equal(t, string(batch.AggregatePartial), resp.Status)
	assert.Equal(t, domain.MsgInvalidName, resp.Results[0].Message)
	assert.Equal(t, domain.MsgInvalidPrice, resp.Results[1].Message)
	assert.Equal(t, domain.MsgInvalidQuantity, resp.Results[2].Message)
	assert.Zero(t, resp.Results[0].ItemID)
	assert.Equal(t, "SUCCESS", resp.Results[3].Status)
}

func TestAddItems_CantidadFueraDeRango(t *testing.T) {
	store := memory.NewStore()
	sink := &spySink{}
	uc := newUseCase(store, sink)

	out, err := uc.Create(context.Background(), dto.AddItemRequest{ItemName: "Enorme", ItemPrice: decimal.NewFromInt(1), Quantity: math.MaxInt})
	require.NoError(t, err)
	assert.Equal(t, batch.Failed(domain.MsgInvalidQuantity), out.Outcome)
	assert.Zero(t, out.ItemID)

	out, err = uc.Create(context.Background(), dto.AddItemRequest{ItemName: "Tope", ItemPrice: decimal.NewFromInt(1), Quantity: domain.MaxQuantity})
	require.NoError(t, err)
	assert.True(t, out.OK())
	assert.Equal(t, int64(1), out.ItemID, "la solicitud rechazada no crea item")
	assert.Equal(t, []int{domain.MaxQuantity}, sink.qtys)
}

// failingStock falla al crear inventario.
type failingStock struct {
	repository.InventoryRepository
	err error
}

func (f failingStock) Create(context.Context, *entity.Inventory) error { return f.err }

// failingItems falla al crear items.
type failingItems struct {
	repository.ItemRepository
	err error
}

func (f failingItems) Create(context.Context, *entity.Item) error { return f.err }

func TestAddItems_FalloAlCrearInventario(t *testing.T) {
	store := memory.NewStore()
	sink := &spySink{}
	orch := batch.New(workerpool.New(2), 5*time.Second, logger.Nop())
	uc := item.NewUseCase(store.Items(), failingStock{store.Inventory(), errors.New("disco lleno")}, store.TxRunner(), orch, sink)
	ctx := context.Background()

	resp := uc.AddItems(ctx, []dto.AddItemRequest{{ItemName: "Huérfano", ItemPrice: decimal.NewFromInt(2), Quantity: 4}})
	assert.Equal(t, string(batch.AggregatePartial), resp.Status)
	require.Len(t, resp.Results, 1)
	res := resp.Results[0]
	assert.Equal(t, "FAILED", res.Status)
	assert.True(t, strings.HasPrefix(res.Message, "crear inventario:"), res.Message)
	assert.Contains(t, res.Message, "disco lleno")
	require.Positive(t, res.ItemID, "el item ya persistido se informa")

	it, err := store.Items().GetByID(ctx, res.ItemID)
	require.NoError(t, err)
	require.NotNil(t, it)
	assert.Equal(t, entity.ItemStatusActive, it.Status)

	inv, err := store.Inventory().GetByItemID(ctx, res.ItemID)
	require.NoError(t, err)
	assert.Nil(t, inv)
	assert.Empty(t, sink.kinds, "sin inventario no hay actividad")
}

func TestAddItems_FalloAlCrearItem(t *testing.T) {
	store := memory.NewStore()
	sink := &spySink{}
	orch := batch.New(workerpool.New(2), 5*time.Second, logger.Nop())
	uc := item.NewUseCase(failingItems{store.Items(), errors.New("conexión caída")}, store.Inventory(), store.TxRunner(), orch, sink)

	resp := uc.AddItems(context.Background(), []dto.AddItemRequest{
		{ItemName: "Uno", ItemPrice: decimal.NewFromInt(1), Quantity: 1},
		{ItemName: " ", ItemPrice: decimal.NewFromInt(1), Quantity: 1},
	})
	assert.Equal(t, string(batch.AggregatePartial), resp.Status)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "FAILED", resp.Results[0].Status)
	assert.Contains(t, resp.Results[0].Message, "conexión caída")
	assert.Zero(t, resp.Results[0].ItemID)
	assert.Equal(t, domain.MsgInvalidName, resp.Results[1].Message)

	inv, err := store.Inventory().GetByItemID(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, inv, "sin item no se crea inventario")
	assert.Empty(t, sink.kinds)
}

func TestAddItems_ListaVacia(t *testing.T) {
	uc := newUseCase(memory.NewStore(), &spySink{})
	resp := uc.AddItems(context.Background(), nil)
	assert.Equal(t, string(batch.AggregateInvalid), resp.Status)
	assert.Nil(t, resp.Results)
}

func TestUpdateItems_ActualizacionParcial(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, &spySink{})
	ctx := context.Background()

	added := uc.AddItems(ctx, []dto.AddItemRequest{{ItemName: "Regla", ItemPrice: decimal.NewFromInt(3), Quantity: 1}})
	id := added.Results[0].ItemID

	resp := uc.UpdateItems(ctx, []dto.UpdateItemRequest{
		{ItemID: id, ItemPrice: ptr(decimal.NewFromInt(4))},
		{ItemID: 777, ItemName: ptr("Nada")},
		{ItemID: id},
	})
	assert.Equal(t, string(batch.AggregatePartial), resp.Status)
	assert.Equal(t, "SUCCESS", resp.Results[0].Status)
	assert.Equal(t, domain.MsgItemNotFound, resp.Results[1].Message)
	assert.Equal(t, "SUCCESS", resp.Results[2].Status, "sin campos también es éxito")

	got, err := uc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Regla", got.ItemName, "el nombre ausente no se toca")
	assert.True(t, decimal.NewFromInt(4).Equal(got.ItemPrice))
}

func TestUpdate_PrecioNegativo(t *testing.T) {
	uc := newUseCase(memory.NewStore(), &spySink{})
	out, err := uc.Update(context.Background(), dto.UpdateItemRequest{ItemID: 1, ItemPrice: ptr(decimal.NewFromInt(-5))})
	require.NoError(t, err)
	assert.Equal(t, batch.Failed(domain.MsgInvalidPrice), out)
}

func TestDelete(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, &spySink{})
	ctx := context.Background()

	err := uc.Delete(ctx, 123)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	added := uc.AddItems(ctx, []dto.AddItemRequest{{ItemName: "Tiza", ItemPrice: decimal.NewFromInt(1), Quantity: 2}})
	id := added.Results[0].ItemID

	require.NoError(t, uc.Delete(ctx, id))
	require.NoError(t, uc.Delete(ctx, id), "borrar de nuevo es idempotente")

	got, err := uc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ItemStatusDeleted), got.Status, "el registro se conserva")

	out, err := uc.Update(ctx, dto.UpdateItemRequest{ItemID: id, ItemName: ptr("Otra")})
	require.NoError(t, err)
	assert.Equal(t, batch.Failed(domain.MsgItemNotFound), out)
}

func TestGet_NoExiste(t *testing.T) {
	uc := newUseCase(memory.NewStore(), &spySink{})
	_, err := uc.Get(context.Background(), 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// pausingTx detiene la primera transacción justo después de leer el item con bloqueo,
// hasta que se cierre resume.
type pausingTx struct {
	inner  repository.TxRunner
	used   atomic.Bool
	read   chan struct{}
	resume chan struct{}
}

func newPausingTx(inner repository.TxRunner) *pausingTx {
	return &pausingTx{inner: inner, read: make(chan struct{}), resume: make(chan struct{})}
}

func (p *pausingTx) Run(ctx context.Context, fn func(repository.ItemRepository, repository.InventoryRepository) error) error {
	first := p.used.CompareAndSwap(false, true)
	return p.inner.Run(ctx, func(items repository.ItemRepository, stock repository.InventoryRepository) error {
		if first {
			items = pausingItems{ItemRepository: items, p: p}
		}
		return fn(items, stock)
	})
}

type pausingItems struct {
	repository.ItemRepository
	p *pausingTx
}

func (r pausingItems) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Item, error) {
	it, err := r.ItemRepository.GetByIDForUpdate(ctx, id)
	close(r.p.read)
	<-r.p.resume
	return it, err
}

func TestUpdate_BajaConcurrenteNoResucitaElItem(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	id := newUseCase(store, &spySink{}).AddItems(ctx, []dto.AddItemRequest{{ItemName: "Clip", ItemPrice: decimal.NewFromInt(1), Quantity: 1}}).Results[0].ItemID

	tx := newPausingTx(store.TxRunner())
	uc := item.NewUseCase(store.Items(), store.Inventory(), tx, batch.New(workerpool.New(2), 5*time.Second, logger.Nop()), &spySink{})

	updated := make(chan batch.Outcome, 1)
	go func() {
		out, err := uc.Update(ctx, dto.UpdateItemRequest{ItemID: id, ItemPrice: ptr(decimal.NewFromInt(9))})
		assert.NoError(t, err)
		updated <- out
	}()
	<-tx.read

	deleted := make(chan error, 1)
	go func() { deleted <- uc.Delete(ctx, id) }()

	select {
	case err := <-deleted:
		t.Fatalf("la baja terminó mientras la actualización retenía el item: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
	close(tx.resume)

	assert.Equal(t, batch.Succeeded(), <-updated)
	require.NoError(t, <-deleted)

	got, err := uc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ItemStatusDeleted), got.Status, "la baja se aplica después y no se pierde")
	assert.True(t, decimal.NewFromInt(9).Equal(got.ItemPrice))
}

func TestDelete_ActualizacionConcurrenteVeElItemDadoDeBaja(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	id := newUseCase(store, &spySink{}).AddItems(ctx, []dto.AddItemRequest{{ItemName: "Grapa", ItemPrice: decimal.NewFromInt(1), Quantity: 1}}).Results[0].ItemID

	tx := newPausingTx(store.TxRunner())
	uc := item.NewUseCase(store.Items(), store.Inventory(), tx, batch.New(workerpool.New(2), 5*time.Second, logger.Nop()), &spySink{})

	deleted := make(chan error, 1)
	go func() { deleted <- uc.Delete(ctx, id) }()
	<-tx.read

	updated := make(chan batch.Outcome, 1)
	go func() {
		out, err := uc.Update(ctx, dto.UpdateItemRequest{ItemID: id, ItemName: ptr("Revivido")})
		assert.NoError(t, err)
		updated <- out
	}()

	time.Sleep(20 * time.Millisecond)
	close(tx.resume)

	require.NoError(t, <-deleted)
	assert.Equal(t, batch.Failed(domain.MsgItemNotFound), <-updated)

	got, err := uc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ItemStatusDeleted), got.Status)
	assert.Equal(t, "Grapa", got.ItemName)
}
