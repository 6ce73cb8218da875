package repository

import "context"

// TxRunner ejecuta fn dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn retorna error se hace Rollback; si no, Commit. Garantiza el ciclo
// lectura-modificación-escritura atómico por item.
type TxRunner interface {
	Run(ctx context.Context, fn func(items ItemRepository, stock InventoryRepository) error) error
}
