package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-batch/internal/domain/entity"
	"github.com/jhoicas/Inventario-batch/internal/domain/repository"
)

var _ repository.ActivityRepository = (*ActivityRepo)(nil)

// ActivityRepo historial de actividad (append-only) sobre PostgreSQL.
type ActivityRepo struct {
	q Querier
}

// NewActivityRepository construye el adaptador. Pasar pool o tx (Querier).
func NewActivityRepository(q Querier) *ActivityRepo {
	return &ActivityRepo{q: q}
}

// Append inserta el registro. Un event_id repetido (reentrega) se ignora.
func (r *ActivityRepo) Append(ctx context.Context, rec *entity.ActivityRecord) error {
	query := `
		INSERT INTO activity_records
			(event_id, activity_type, activity_value, item_id, item_name, activity_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (event_id) DO NOTHING
		RETURNING id`
	rows, err := r.q.Query(ctx, query,
		rec.EventID, rec.ActivityType, rec.ActivityValue, rec.ItemID, rec.ItemName, rec.ActivityTime, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&rec.ID); err != nil {
			return fmt.Errorf("scan activity id: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// ListByItem historial de un item, más reciente primero.
func (r *ActivityRepo) ListByItem(ctx context.Context, itemID int64, limit, offset int) ([]*entity.ActivityRecord, error) {
	query := `
		SELECT id, event_id, activity_type, activity_value, item_id, item_name, activity_time, created_at
		FROM activity_records
		WHERE item_id = $1
		ORDER BY activity_time DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, itemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.ActivityRecord, 0)
	for rows.Next() {
		var rec entity.ActivityRecord
		if err := rows.Scan(
			&rec.ID, &rec.EventID, &rec.ActivityType, &rec.ActivityValue,
			&rec.ItemID, &rec.ItemName, &rec.ActivityTime, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}
