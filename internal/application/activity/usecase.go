package activity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Inventario-batch/internal/application/dto"
	"github.com/jhoicas/Inventario-batch/internal/domain"
	"github.com/jhoicas/Inventario-batch/internal/domain/entity"
	"github.com/jhoicas/Inventario-batch/internal/domain/repository"
)

// UseCase ingesta y consulta del historial de actividad.
type UseCase struct {
	repo      repository.ActivityRepository
	items     repository.ItemRepository
	generator ReportGenerator
	now       func() time.Time
}

// NewUseCase construye el caso de uso. items y generator solo se usan en el reporte.
func NewUseCase(repo repository.ActivityRepository, items repository.ItemRepository, generator ReportGenerator) *UseCase {
	return &UseCase{repo: repo, items: items, generator: generator, now: time.Now}
}

// Ingest mapea un evento recibido del broker a un ActivityRecord y lo agrega al historial.
// Reentregas del mismo EventID no duplican registros.
func (uc *UseCase) Ingest(ctx context.Context, ev entity.ActivityEvent) error {
	if strings.TrimSpace(ev.EventID) == "" || ev.ActivityType == "" {
		return fmt.Errorf("evento de actividad incompleto: %w", domain.ErrInvalidInput)
	}
	rec := &entity.ActivityRecord{
		EventID:       ev.EventID,
		ActivityType:  ev.ActivityType,
		ActivityValue: ev.ActivityValue,
		ItemID:        ev.ItemID,
		ItemName:      ev.ItemName,
		ActivityTime:  ev.ActivityTime,
		CreatedAt:     uc.now().UTC(),
	}
	if err := uc.repo.Append(ctx, rec); err != nil {
		return fmt.Errorf("activity: append: %w", err)
	}
	return nil
}

// List devuelve el historial de un item, más reciente primero.
func (uc *UseCase) List(ctx context.Context, itemID int64, page dto.PageRequest) (*dto.ActivityListResponse, error) {
	page.DefaultPage()
	recs, err := uc.repo.ListByItem(ctx, itemID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("activity: list: %w", err)
	}
	out := make([]dto.ActivityResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, toResponse(r))
	}
	return &dto.ActivityListResponse{
		Items: out,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// reportLimit tope de registros incluidos en un reporte PDF.
const reportLimit = 500

// Report genera el PDF del historial de un item. Retorna domain.ErrNotFound si el item no existe.
func (uc *UseCase) Report(ctx context.Context, itemID int64) (pdf []byte, filename string, err error) {
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, "", fmt.Errorf("activity: obtener item: %w", err)
	}
	if item == nil {
		return nil, "", domain.ErrNotFound
	}
	recs, err := uc.repo.ListByItem(ctx, itemID, reportLimit, 0)
	if err != nil {
		return nil, "", fmt.Errorf("activity: list: %w", err)
	}
	pdf, err = uc.generator.GenerateActivityReport(item.ID, item.Name, recs)
	if err != nil {
		return nil, "", fmt.Errorf("activity: generar pdf: %w", err)
	}
	return pdf, fmt.Sprintf("actividad-item-%d.pdf", item.ID), nil
}

func toResponse(r *entity.ActivityRecord) dto.ActivityResponse {
	return dto.ActivityResponse{
		ID:                r.ID,
		EventID:           r.EventID,
		ActivityType:      r.ActivityType,
		ActivityValue:     r.ActivityValue,
		ItemID:            r.ItemID,
		ItemName:          r.ItemName,
		ActivityTimestamp: r.ActivityTime,
		CreatedAt:         r.CreatedAt,
	}
}
