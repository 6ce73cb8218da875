package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jhoicas/Inventario-batch/internal/domain"
	"github.com/jhoicas/Inventario-batch/internal/domain/entity"
	"github.com/jhoicas/Inventario-batch/internal/domain/repository"
)

// Store almacenamiento en memoria de items, inventario y actividad.
// Imita el bloqueo de filas de PostgreSQL: una fila leída con ForUpdate (o escrita)
// dentro de una transacción queda bloqueada hasta el commit o rollback.
type Store struct {
	mu        sync.Mutex
	items     map[int64]entity.Item
	stock     map[int64]entity.Inventory // por item_id
	activity  []entity.ActivityRecord
	eventIDs  map[string]struct{}
	locks     map[string]chan struct{}
	nextItem  int64
	nextStock int64
	nextAct   int64
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		items:    make(map[int64]entity.Item),
		stock:    make(map[int64]entity.Inventory),
		eventIDs: make(map[string]struct{}),
		locks:    make(map[string]chan struct{}),
	}
}

// Items repositorio de items fuera de transacción.
func (s *Store) Items() *ItemRepo { return &ItemRepo{s: s} }

// Inventory repositorio de inventario fuera de transacción.
func (s *Store) Inventory() *InventoryRepo { return &InventoryRepo{s: s} }

// Activity repositorio del historial de actividad.
func (s *Store) Activity() *ActivityRepo { return &ActivityRepo{s: s} }

// TxRunner ejecutor de transacciones sobre este store.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

func itemKey(id int64) string  { return fmt.Sprintf("item:%d", id) }
func stockKey(id int64) string { return fmt.Sprintf("stock:%d", id) }

func (s *Store) lockRow(ctx context.Context, key string) error {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = make(chan struct{}, 1)
		s.locks[key] = l
	}
	s.mu.Unlock()

	select {
	case l <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("lock %s: %w", key, ctx.Err())
	}
}

func (s *Store) unlockRow(key string) {
	s.mu.Lock()
	l := s.locks[key]
	s.mu.Unlock()
	<-l
}

// --- Item ---

// ItemRepo implementa repository.ItemRepository.
type ItemRepo struct{ s *Store }

var _ repository.ItemRepository = (*ItemRepo)(nil)

func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextItem++
	item.ID = r.s.nextItem
	r.s.items[item.ID] = *item
	return nil
}

func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*entity.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

// GetByIDForUpdate fuera de transacción no bloquea (igual que FOR UPDATE en autocommit).
func (r *ItemRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	if err := r.s.lockRow(ctx, itemKey(item.ID)); err != nil {
		return err
	}
	defer r.s.unlockRow(itemKey(item.ID))
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.items[item.ID] = *item
	return nil
}

// --- Inventory ---

// InventoryRepo implementa repository.InventoryRepository.
type InventoryRepo struct{ s *Store }

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

func (r *InventoryRepo) Create(ctx context.Context, inv *entity.Inventory) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.stock[inv.ItemID]; ok {
		return fmt.Errorf("inventario del item %d: %w", inv.ItemID, domain.ErrDuplicate)
	}
	r.s.nextStock++
	inv.ID = r.s.nextStock
	r.s.stock[inv.ItemID] = *inv
	return nil
}

func (r *InventoryRepo) GetByItemID(ctx context.Context, itemID int64) (*entity.Inventory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.stock[itemID]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

// GetByItemIDForUpdate fuera de transacción no retiene el bloqueo (igual que un SELECT FOR UPDATE en autocommit).
func (r *InventoryRepo) GetByItemIDForUpdate(ctx context.Context, itemID int64) (*entity.Inventory, error) {
	if err := r.s.lockRow(ctx, stockKey(itemID)); err != nil {
		return nil, err
	}
	defer r.s.unlockRow(stockKey(itemID))
	return r.GetByItemID(ctx, itemID)
}

func (r *InventoryRepo) Update(ctx context.Context, inv *entity.Inventory) error {
	if err := r.s.lockRow(ctx, stockKey(inv.ItemID)); err != nil {
		return err
	}
	defer r.s.unlockRow(stockKey(inv.ItemID))
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.stock[inv.ItemID]; !ok {
		return domain.ErrNotFound
	}
	r.s.stock[inv.ItemID] = *inv
	return nil
}

// --- Activity ---

// ActivityRepo implementa repository.ActivityRepository.
type ActivityRepo struct{ s *Store }

var _ repository.ActivityRepository = (*ActivityRepo)(nil)

func (r *ActivityRepo) Append(ctx context.Context, rec *entity.ActivityRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, dup := r.s.eventIDs[rec.EventID]; dup {
		return nil
	}
	r.s.nextAct++
	rec.ID = r.s.nextAct
	r.s.eventIDs[rec.EventID] = struct{}{}
	r.s.activity = append(r.s.activity, *rec)
	return nil
}

func (r *ActivityRepo) ListByItem(ctx context.Context, itemID int64, limit, offset int) ([]*entity.ActivityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	var recs []*entity.ActivityRecord
	for i := range r.s.activity {
		if r.s.activity[i].ItemID == itemID {
			rec := r.s.activity[i]
			recs = append(recs, &rec)
		}
	}
	r.s.mu.Unlock()

	sort.SliceStable(recs, func(i, j int) bool {
		if !recs[i].ActivityTime.Equal(recs[j].ActivityTime) {
			return recs[i].ActivityTime.After(recs[j].ActivityTime)
		}
		return recs[i].ID > recs[j].ID
	})
	if offset >= len(recs) {
		return []*entity.ActivityRecord{}, nil
	}
	recs = recs[offset:]
	if limit > 0 && limit < len(recs) {
		recs = recs[:limit]
	}
	return recs, nil
}
