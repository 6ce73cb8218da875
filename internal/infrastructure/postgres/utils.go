package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE que el adaptador traduce a errores de dominio.
const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
	sqlStateCheckViolation      = "23514"
)

func hasSQLState(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// isUniqueViolation inventario duplicado para un item.
func isUniqueViolation(err error) bool { return hasSQLState(err, sqlStateUniqueViolation) }

// isForeignKeyViolation inventario para un item inexistente.
func isForeignKeyViolation(err error) bool { return hasSQLState(err, sqlStateForeignKeyViolation) }

// isCheckViolation cantidad negativa o estado fuera del enum.
func isCheckViolation(err error) bool { return hasSQLState(err, sqlStateCheckViolation) }
