package item

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/Inventario-batch/internal/application/batch"
	"github.com/jhoicas/Inventario-batch/internal/application/dto"
	"github.com/jhoicas/Inventario-batch/internal/domain"
	"github.com/jhoicas/Inventario-batch/internal/domain/entity"
	"github.com/jhoicas/Inventario-batch/internal/domain/repository"
)

// ActivitySink recibe la actividad del stock inicial de cada item creado.
type ActivitySink interface {
	Emit(kind entity.OperationType, magnitude int, at time.Time, itemID int64, itemName string)
}

// UseCase casos de uso del catálogo: alta por lote, actualización parcial por lote, baja y consulta.
type UseCase struct {
	items    repository.ItemRepository
	stock    repository.InventoryRepository
	txRunner repository.TxRunner
	orch     *batch.Orchestrator
	activity ActivitySink
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	items repository.ItemRepository,
	stock repository.InventoryRepository,
	txRunner repository.TxRunner,
	orch *batch.Orchestrator,
	activity ActivitySink,
) *UseCase {
	return &UseCase{
		items:    items,
		stock:    stock,
		txRunner: txRunner,
		orch:     orch,
		activity: activity,
		now:      time.Now,
	}
}

// Created resultado de Create; ItemID > 0 si el item llegó a persistirse.
type Created struct {
	batch.Outcome
	ItemID int64
}

// Create persiste el item (ACTIVE) y luego su inventario con la cantidad inicial.
// Un fallo al crear el inventario deja el item creado y se reporta como FAILED.
func (uc *UseCase) Create(ctx context.Context, req dto.AddItemRequest) (Created, error) {
	name := strings.TrimSpace(req.ItemName)
	switch {
	case name == "":
		return Created{Outcome: batch.Failed(domain.MsgInvalidName)}, nil
	case req.ItemPrice.IsNegative():
		return Created{Outcome: batch.Failed(domain.MsgInvalidPrice)}, nil
	case !domain.ValidQuantity(req.Quantity):
		return Created{Outcome: batch.Failed(domain.MsgInvalidQuantity)}, nil
	}

	now := uc.now().UTC()
	it := &entity.Item{
		Name:      name,
		Price:     req.ItemPrice,
		Status:    entity.ItemStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.items.Create(ctx, it); err != nil {
		return Created{}, fmt.Errorf("item: crear item: %w", err)
	}

	inv := &entity.Inventory{
		ItemID:            it.ID,
		AvailableQuantity: req.Quantity,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.stock.Create(ctx, inv); err != nil {
		// El item ya quedó persistido; la limpieza compensatoria es externa.
		return Created{Outcome: batch.Failed(fmt.Sprintf("crear inventario: %v", err)), ItemID: it.ID}, nil
	}

	if uc.activity != nil {
		uc.activity.Emit(entity.OperationAdd, req.Quantity, inv.UpdatedAt, it.ID, it.Name)
	}
	return Created{Outcome: batch.Succeeded(), ItemID: it.ID}, nil
}

// AddItems crea un lote de items. Cada alta es independiente.
func (uc *UseCase) AddItems(ctx context.Context, reqs []dto.AddItemRequest) dto.BatchResponse[dto.AddItemResult] {
	ids := make([]int64, len(reqs))
	type indexed struct {
		i   int
		req dto.AddItemRequest
	}
	in := make([]indexed, len(reqs))
	for i, r := range reqs {
		in[i] = indexed{i: i, req: r}
	}

	res := batch.Run(ctx, uc.orch, "item.add", in, nil, func(ctx context.Context, x indexed) (batch.Outcome, error) {
		c, err := uc.Create(ctx, x.req)
		ids[x.i] = c.ItemID
		return c.Outcome, err
	})

	out := dto.BatchResponse[dto.AddItemResult]{Status: string(res.Aggregate)}
	if res.Outcomes == nil {
		return out
	}
	out.Results = make([]dto.AddItemResult, len(reqs))
	for i, r := range reqs {
		out.Results[i] = dto.AddItemResult{
			ItemID:    ids[i],
			ItemName:  r.ItemName,
			ItemPrice: r.ItemPrice,
			Quantity:  r.Quantity,
			Status:    string(res.Outcomes[i].Status),
			Message:   res.Outcomes[i].Message,
		}
	}
	return out
}

// Update aplica solo los campos presentes (nil = sin cambio) y persiste aunque no haya ninguno.
func (uc *UseCase) Update(ctx context.Context, req dto.UpdateItemRequest) (batch.Outcome, error) {
	if req.ItemName != nil && strings.TrimSpace(*req.ItemName) == "" {
		return batch.Failed(domain.MsgInvalidName), nil
	}
	if req.ItemPrice != nil && req.ItemPrice.IsNegative() {
		return batch.Failed(domain.MsgInvalidPrice), nil
	}

	var out batch.Outcome
	err := uc.txRunner.Run(ctx, func(items repository.ItemRepository, _ repository.InventoryRepository) error {
		it, err := items.GetByIDForUpdate(ctx, req.ItemID)
		if err != nil {
			return fmt.Errorf("item: obtener item %d: %w", req.ItemID, err)
		}
		if it == nil || it.IsDeleted() {
			out = batch.Failed(domain.MsgItemNotFound)
			return nil
		}
		if req.ItemName != nil {
			it.Name = strings.TrimSpace(*req.ItemName)
		}
		if req.ItemPrice != nil {
			it.Price = *req.ItemPrice
		}
		it.UpdatedAt = uc.now().UTC()
		if err := items.Update(ctx, it); err != nil {
			return fmt.Errorf("item: actualizar item %d: %w", req.ItemID, err)
		}
		out = batch.Succeeded()
		return nil
	})
	if err != nil {
		return batch.Outcome{}, err
	}
	return out, nil
}

// UpdateItems actualiza un lote de items; las solicitudes del mismo item se ejecutan en serie.
func (uc *UseCase) UpdateItems(ctx context.Context, reqs []dto.UpdateItemRequest) dto.BatchResponse[dto.UpdateItemResult] {
	key := func(r dto.UpdateItemRequest) string { return strconv.FormatInt(r.ItemID, 10) }
	res := batch.Run(ctx, uc.orch, "item.update", reqs, key, uc.Update)

	out := dto.BatchResponse[dto.UpdateItemResult]{Status: string(res.Aggregate)}
	if res.Outcomes == nil {
		return out
	}
	out.Results = make([]dto.UpdateItemResult, len(reqs))
	for i, r := range reqs {
		out.Results[i] = dto.UpdateItemResult{
			ItemID:    r.ItemID,
			ItemName:  r.ItemName,
			ItemPrice: r.ItemPrice,
			Status:    string(res.Outcomes[i].Status),
			Message:   res.Outcomes[i].Message,
		}
	}
	return out
}

// Delete da de baja el item (soft delete). Retorna domain.ErrNotFound si no existe;
// borrar un item ya dado de baja es idempotente.
func (uc *UseCase) Delete(ctx context.Context, id int64) error {
	return uc.txRunner.Run(ctx, func(items repository.ItemRepository, _ repository.InventoryRepository) error {
		it, err := items.GetByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("item: obtener item %d: %w", id, err)
		}
		if it == nil {
			return domain.ErrNotFound
		}
		if it.IsDeleted() {
			return nil
		}
		it.Status = entity.ItemStatusDeleted
		it.UpdatedAt = uc.now().UTC()
		if err := items.Update(ctx, it); err != nil {
			return fmt.Errorf("item: dar de baja item %d: %w", id, err)
		}
		return nil
	})
}

// Get devuelve el item con su stock actual. Los items dados de baja también se devuelven.
func (uc *UseCase) Get(ctx context.Context, id int64) (*dto.ItemResponse, error) {
	it, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("item: obtener item %d: %w", id, err)
	}
	if it == nil {
		return nil, domain.ErrNotFound
	}
	inv, err := uc.stock.GetByItemID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("item: obtener inventario %d: %w", id, err)
	}
	qty := 0
	if inv != nil {
		qty = inv.AvailableQuantity
	}
	return &dto.ItemResponse{
		ItemID:            it.ID,
		ItemName:          it.Name,
		ItemPrice:         it.Price,
		Status:            string(it.Status),
		AvailableQuantity: qty,
		CreatedAt:         it.CreatedAt,
		UpdatedAt:         it.UpdatedAt,
	}, nil
}
