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

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de inventario. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = `id, item_id, available_quantity, created_at, updated_at`

// Create inserta el inventario inicial de un item. Un segundo inventario para el mismo item es ErrDuplicate.
func (r *InventoryRepo) Create(ctx context.Context, inv *entity.Inventory) error {
	query := `
		INSERT INTO inventory (item_id, available_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, inv.ItemID, inv.AvailableQuantity, inv.CreatedAt, inv.UpdatedAt).Scan(&inv.ID)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return fmt.Errorf("inventario del item %d: %w", inv.ItemID, domain.ErrDuplicate)
		case isForeignKeyViolation(err):
			return fmt.Errorf("item %d: %w", inv.ItemID, domain.ErrNotFound)
		case isCheckViolation(err):
			return fmt.Errorf("cantidad inicial %d: %w", inv.AvailableQuantity, domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert inventory: %w", err)
	}
	return nil
}

// GetByItemID obtiene el inventario de un item sin bloquear. Retorna (nil, nil) si no existe.
func (r *InventoryRepo) GetByItemID(ctx context.Context, itemID int64) (*entity.Inventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE item_id = $1`
	return r.scanOne(ctx, query, itemID, "get inventory")
}

// GetByItemIDForUpdate obtiene el inventario y bloquea la fila (SELECT FOR UPDATE).
// Solo tiene efecto dentro de una transacción (TxRunner).
func (r *InventoryRepo) GetByItemIDForUpdate(ctx context.Context, itemID int64) (*entity.Inventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE item_id = $1 FOR UPDATE`
	return r.scanOne(ctx, query, itemID, "get inventory for update")
}

func (r *InventoryRepo) scanOne(ctx context.Context, query string, itemID int64, op string) (*entity.Inventory, error) {
	var inv entity.Inventory
	err := r.q.QueryRow(ctx, query, itemID).Scan(
		&inv.ID, &inv.ItemID, &inv.AvailableQuantity, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &inv, nil
}

// Update persiste la cantidad disponible. El CHECK de la tabla impide cantidades negativas.
func (r *InventoryRepo) Update(ctx context.Context, inv *entity.Inventory) error {
	query := `
		UPDATE inventory SET available_quantity = $2, updated_at = $3
		WHERE item_id = $1`
	tag, err := r.q.Exec(ctx, query, inv.ItemID, inv.AvailableQuantity, inv.UpdatedAt)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("stock negativo para item %d: %w", inv.ItemID, domain.ErrInsufficientStock)
		}
		return fmt.Errorf("update inventory: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
