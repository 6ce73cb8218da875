package repository

import (
	"context"

	"github.com/jhoicas/Inventario-batch/internal/domain/entity"
)

// InventoryRepository define el puerto para consultar/actualizar el stock de un item.
// Las lecturas devuelven (nil, nil) si no hay inventario para el item.
type InventoryRepository interface {
	Create(ctx context.Context, inv *entity.Inventory) error
	GetByItemID(ctx context.Context, itemID int64) (*entity.Inventory, error)
	// GetByItemIDForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetByItemIDForUpdate(ctx context.Context, itemID int64) (*entity.Inventory, error)
	Update(ctx context.Context, inv *entity.Inventory) error
}
