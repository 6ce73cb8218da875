package domain

import (
	"errors"
	"math"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrInconsistentState: existe inventario para un item que no existe en el catálogo.
	ErrInconsistentState = errors.New("estado inconsistente: inventario sin item asociado")
)

// Mensajes de resultado por solicitud visibles al cliente en las respuestas de lote.
const (
	MsgItemNotFound      = "Item not found"
	MsgInsufficientStock = "Insufficient stock"
	MsgInvalidOperation  = "Invalid operation type"
	MsgInvalidQuantity   = "Invalid quantity"
	MsgInvalidPrice      = "Invalid price"
	MsgInvalidName       = "Invalid item name"
)

// MaxQuantity cota superior de una cantidad y del stock resultante (columna INTEGER).
const MaxQuantity = math.MaxInt32

// ValidQuantity indica si q es una cantidad aceptable en una solicitud.
func ValidQuantity(q int) bool {
	return q >= 0 && q <= MaxQuantity
}
