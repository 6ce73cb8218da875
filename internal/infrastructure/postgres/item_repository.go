package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-batch/internal/domain"
	"github.com/jhoicas/Inventario-batch/internal/domain/entity"
	"github.com/jhoicas/Inventario-batch/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de items. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create inserta el item y asigna el ID generado por la base.
func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	query := `
		INSERT INTO items (name, price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, it.Name, it.Price, string(it.Status), it.CreatedAt, it.UpdatedAt).Scan(&it.ID)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

const itemColumns = `id, name, price, status, created_at, updated_at`

// GetByID obtiene un item por ID (incluidos los DELETED). Retorna (nil, nil) si no existe.
func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return r.scanOne(ctx, query, id, "get item")
}

// GetByIDForUpdate obtiene el item y bloquea la fila (SELECT FOR UPDATE).
// Solo tiene efecto dentro de una transacción (TxRunner).
func (r *ItemRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 FOR UPDATE`
	return r.scanOne(ctx, query, id, "get item for update")
}

func (r *ItemRepo) scanOne(ctx context.Context, query string, id int64, op string) (*entity.Item, error) {
	var it entity.Item
	var status string
	err := r.q.QueryRow(ctx, query, id).Scan(&it.ID, &it.Name, &it.Price, &status, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	it.Status = entity.ItemStatus(status)
	return &it, nil
}

// Update persiste nombre, precio y estado.
func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) error {
	query := `
		UPDATE items SET name = $2, price = $3, status = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, it.ID, it.Name, it.Price, string(it.Status), it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
