package entity

import "time"

// Inventory representa el stock disponible de un item (relación 1:1 con Item).
// AvailableQuantity nunca queda negativo después de una operación exitosa.
type Inventory struct {
	ID                int64
	ItemID            int64
	AvailableQuantity int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
