package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-batch/internal/domain"
	"github.com/jhoicas/Inventario-batch/internal/domain/entity"
	"github.com/jhoicas/Inventario-batch/internal/domain/repository"
)

// TxRunner implementa repository.TxRunner sobre el store en memoria.
type TxRunner struct{ s *Store }

var _ repository.TxRunner = (*TxRunner)(nil)

// Run ejecuta fn con repositorios atados a una transacción. Las escrituras quedan pendientes
// hasta el commit; si fn retorna error se descartan. Los bloqueos se liberan al final.
func (r *TxRunner) Run(ctx context.Context, fn func(items repository.ItemRepository, stock repository.InventoryRepository) error) error {
	tx := &memTx{
		s:     r.s,
		held:  make(map[string]bool),
		items: make(map[int64]entity.Item),
		stock: make(map[int64]entity.Inventory),
	}
	defer tx.releaseAll()

	if err := fn(&txItemRepo{tx: tx}, &txInventoryRepo{tx: tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	tx.commit()
	return nil
}

type memTx struct {
	s     *Store
	held  map[string]bool
	items map[int64]entity.Item
	stock map[int64]entity.Inventory
}

func (t *memTx) lock(ctx context.Context, key string) error {
	if t.held[key] {
		return nil
	}
	if err := t.s.lockRow(ctx, key); err != nil {
		return err
	}
	t.held[key] = true
	return nil
}

func (t *memTx) releaseAll() {
	for key := range t.held {
		t.s.unlockRow(key)
	}
	t.held = nil
}

func (t *memTx) commit() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for id, it := range t.items {
		t.s.items[id] = it
	}
	for itemID, inv := range t.stock {
		t.s.stock[itemID] = inv
	}
}

type txItemRepo struct{ tx *memTx }

func (r *txItemRepo) Create(ctx context.Context, item *entity.Item) error {
	// Las altas no participan del ciclo lectura-modificación-escritura: se aplican directo.
	return r.tx.s.Items().Create(ctx, item)
}

func (r *txItemRepo) GetByID(ctx context.Context, id int64) (*entity.Item, error) {
	if it, ok := r.tx.items[id]; ok {
		return &it, nil
	}
	return r.tx.s.Items().GetByID(ctx, id)
}

func (r *txItemRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Item, error) {
	if err := r.tx.lock(ctx, itemKey(id)); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *txItemRepo) Update(ctx context.Context, item *entity.Item) error {
	if err := r.tx.lock(ctx, itemKey(item.ID)); err != nil {
		return err
	}
	cur, err := r.GetByID(ctx, item.ID)
	if err != nil {
		return err
	}
	if cur == nil {
		return domain.ErrNotFound
	}
	r.tx.items[item.ID] = *item
	return nil
}

type txInventoryRepo struct{ tx *memTx }

func (r *txInventoryRepo) Create(ctx context.Context, inv *entity.Inventory) error {
	return r.tx.s.Inventory().Create(ctx, inv)
}

func (r *txInventoryRepo) GetByItemID(ctx context.Context, itemID int64) (*entity.Inventory, error) {
	if inv, ok := r.tx.stock[itemID]; ok {
		return &inv, nil
	}
	return r.tx.s.Inventory().GetByItemID(ctx, itemID)
}

func (r *txInventoryRepo) GetByItemIDForUpdate(ctx context.Context, itemID int64) (*entity.Inventory, error) {
	if err := r.tx.lock(ctx, stockKey(itemID)); err != nil {
		return nil, err
	}
	return r.GetByItemID(ctx, itemID)
}

func (r *txInventoryRepo) Update(ctx context.Context, inv *entity.Inventory) error {
	if err := r.tx.lock(ctx, stockKey(inv.ItemID)); err != nil {
		return err
	}
	cur, err := r.GetByItemID(ctx, inv.ItemID)
	if err != nil {
		return err
	}
	if cur == nil {
		return domain.ErrNotFound
	}
	r.tx.stock[inv.ItemID] = *inv
	return nil
}
