package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemStatus estado de vida de un item del catálogo.
type ItemStatus string

const (
	ItemStatusActive  ItemStatus = "ACTIVE"
	ItemStatusDeleted ItemStatus = "DELETED" // terminal: el registro se conserva para auditoría
)

// Item representa un artículo del catálogo. Nunca se elimina físicamente.
type Item struct {
	ID        int64
	Name      string
	Price     decimal.Decimal // precio de venta, no negativo
	Status    ItemStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDeleted indica si el item fue dado de baja (soft delete).
func (i *Item) IsDeleted() bool {
	return i.Status == ItemStatusDeleted
}
