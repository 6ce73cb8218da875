package entity

import "strings"

// OperationType tipo de operación sobre el stock de un item.
type OperationType string

const (
	OperationAdd    OperationType = "ADD"    // entrada
	OperationRemove OperationType = "REMOVE" // salida / ajuste negativo
	OperationSell   OperationType = "SELL"   // venta
)

// ParseOperationType normaliza s (sin distinguir mayúsculas) a un OperationType conocido.
func ParseOperationType(s string) (OperationType, bool) {
	op := OperationType(strings.ToUpper(strings.TrimSpace(s)))
	switch op {
	case OperationAdd, OperationRemove, OperationSell:
		return op, true
	}
	return "", false
}
