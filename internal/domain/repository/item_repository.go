package repository

import (
	"context"

	"github.com/jhoicas/Inventario-batch/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
// GetByID devuelve (nil, nil) si el item no existe; los items DELETED sí se devuelven.
// GetByIDForUpdate además bloquea la fila hasta el fin de la transacción (solo dentro de TxRunner).
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id int64) (*entity.Item, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
}
