package inventory

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jhoicas/Inventario-batch/internal/application/batch"
	"github.com/jhoicas/Inventario-batch/internal/application/dto"
	"github.com/jhoicas/Inventario-batch/internal/domain"
	"github.com/jhoicas/Inventario-batch/internal/domain/entity"
	"github.com/jhoicas/Inventario-batch/internal/domain/repository"
)

// UseCase operaciones de stock: ajustes (ADD/REMOVE) y ventas, individuales o por lote.
// Cada mutación es un ciclo lectura-modificación-escritura con la fila bloqueada (SELECT FOR UPDATE).
type UseCase struct {
	txRunner repository.TxRunner
	orch     *batch.Orchestrator
	activity ActivitySink
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner repository.TxRunner, orch *batch.Orchestrator, activity ActivitySink) *UseCase {
	return &UseCase{
		txRunner: txRunner,
		orch:     orch,
		activity: activity,
		now:      time.Now,
	}
}

// change resultado de aplicar una operación sobre el inventario bloqueado.
// Persist=false deja la fila intacta y no emite actividad.
type change struct {
	Outcome   batch.Outcome
	Kind      entity.OperationType
	Magnitude int
	Persist   bool
}

// mutate carga el inventario del item con bloqueo, valida el item dueño y aplica fn.
// La actividad se emite solo después del commit.
func (uc *UseCase) mutate(ctx context.Context, itemID int64, fn func(inv *entity.Inventory) change) (batch.Outcome, error) {
	var (
		res     change
		updated time.Time
		name    string
	)

	err := uc.txRunner.Run(ctx, func(items repository.ItemRepository, stock repository.InventoryRepository) error {
		inv, err := stock.GetByItemIDForUpdate(ctx, itemID)
		if err != nil {
			return fmt.Errorf("inventory: bloquear stock del item %d: %w", itemID, err)
		}
		if inv == nil {
			res = change{Outcome: batch.Failed(domain.MsgItemNotFound)}
			return nil
		}

		// Bloquea también el item: una baja concurrente no puede quedar entre la lectura y el commit.
		item, err := items.GetByIDForUpdate(ctx, itemID)
		if err != nil {
			return fmt.Errorf("inventory: obtener item %d: %w", itemID, err)
		}
		if item == nil {
			return fmt.Errorf("inventory: item %d: %w", itemID, domain.ErrInconsistentState)
		}
		// Un item dado de baja no tiene inventario mutable.
		if item.IsDeleted() {
			res = change{Outcome: batch.Failed(domain.MsgItemNotFound)}
			return nil
		}

		res = fn(inv)
		if !res.Persist {
			return nil
		}
		inv.UpdatedAt = uc.now().UTC()
		if err := stock.Update(ctx, inv); err != nil {
			return fmt.Errorf("inventory: actualizar stock del item %d: %w", itemID, err)
		}
		updated = inv.UpdatedAt
		name = item.Name
		return nil
	})
	if err != nil {
		return batch.Outcome{}, err
	}

	if res.Persist && uc.activity != nil {
		uc.activity.Emit(res.Kind, res.Magnitude, updated, itemID, name)
	}
	return res.Outcome, nil
}

// ApplyDelta aplica un ajuste de stock: ADD suma (rechaza si supera MaxQuantity), REMOVE resta
// (rechaza si quedaría negativo) y SELL no cambia la cantidad. Las ventas reales van por RecordSale.
func (uc *UseCase) ApplyDelta(ctx context.Context, req dto.InventoryRequest) (batch.Outcome, error) {
	op, ok := entity.ParseOperationType(req.OperationType)
	if !ok {
		return batch.Failed(domain.MsgInvalidOperation), nil
	}
	if !domain.ValidQuantity(req.Quantity) {
		return batch.Failed(domain.MsgInvalidQuantity), nil
	}

	return uc.mutate(ctx, req.ItemID, func(inv *entity.Inventory) change {
		switch op {
		case entity.OperationAdd:
			if req.Quantity > domain.MaxQuantity-inv.AvailableQuantity {
				return change{Outcome: batch.Failed(domain.MsgInvalidQuantity)}
			}
			inv.AvailableQuantity += req.Quantity
		case entity.OperationRemove:
			if req.Quantity > inv.AvailableQuantity {
				return change{Outcome: batch.Failed(domain.MsgInsufficientStock)}
			}
			inv.AvailableQuantity -= req.Quantity
		}
		// SELL deja la cantidad igual pero se persiste (updated_at) y se emite como cualquier ajuste.
		return change{Outcome: batch.Succeeded(), Kind: op, Magnitude: req.Quantity, Persist: true}
	})
}

// RecordSale descuenta una venta. Si la cantidad supera el disponible falla sin mutar ni emitir.
func (uc *UseCase) RecordSale(ctx context.Context, req dto.InventoryRequest) (batch.Outcome, error) {
	if !domain.ValidQuantity(req.Quantity) {
		return batch.Failed(domain.MsgInvalidQuantity), nil
	}

	return uc.mutate(ctx, req.ItemID, func(inv *entity.Inventory) change {
		if req.Quantity > inv.AvailableQuantity {
			return change{Outcome: batch.Failed(domain.MsgInsufficientStock)}
		}
		inv.AvailableQuantity -= req.Quantity
		return change{Outcome: batch.Succeeded(), Kind: entity.OperationSell, Magnitude: req.Quantity, Persist: true}
	})
}

// UpdateInventory procesa un lote de ajustes. Las solicitudes del mismo item se ejecutan en serie.
func (uc *UseCase) UpdateInventory(ctx context.Context, reqs []dto.InventoryRequest) dto.BatchResponse[dto.InventoryResult] {
	res := batch.Run(ctx, uc.orch, "inventory.update", reqs, itemKey, uc.ApplyDelta)
	return toBatchResponse(reqs, res)
}

// RecordSales procesa un lote de ventas. Las entradas que no son SELL (o con tipo inválido)
// se descartan antes del despacho; si no queda ninguna el lote es exitoso y vacío.
func (uc *UseCase) RecordSales(ctx context.Context, reqs []dto.InventoryRequest) dto.BatchResponse[dto.InventoryResult] {
	if len(reqs) == 0 {
		return dto.BatchResponse[dto.InventoryResult]{Status: string(batch.AggregateInvalid)}
	}
	sales := make([]dto.InventoryRequest, 0, len(reqs))
	for _, r := range reqs {
		if op, ok := entity.ParseOperationType(r.OperationType); ok && op == entity.OperationSell {
			sales = append(sales, r)
		}
	}
	if len(sales) == 0 {
		return dto.BatchResponse[dto.InventoryResult]{
			Status:  string(batch.AggregateSuccess),
			Results: []dto.InventoryResult{},
		}
	}
	res := batch.Run(ctx, uc.orch, "inventory.record_sales", sales, itemKey, uc.RecordSale)
	return toBatchResponse(sales, res)
}

func itemKey(r dto.InventoryRequest) string {
	return strconv.FormatInt(r.ItemID, 10)
}

func toBatchResponse(reqs []dto.InventoryRequest, res batch.Result) dto.BatchResponse[dto.InventoryResult] {
	out := dto.BatchResponse[dto.InventoryResult]{Status: string(res.Aggregate)}
	if res.Outcomes == nil {
		return out
	}
	out.Results = make([]dto.InventoryResult, len(reqs))
	for i, r := range reqs {
		out.Results[i] = dto.InventoryResult{
			ItemID:        r.ItemID,
			Quantity:      r.Quantity,
			OperationType: r.OperationType,
			Status:        string(res.Outcomes[i].Status),
			Message:       res.Outcomes[i].Message,
		}
	}
	return out
}
