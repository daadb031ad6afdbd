// Package postgres реализует интерфейсы storage поверх pgx/pgxpool.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Код ошибки PostgreSQL для нарушения уникального ограничения
const uniqueViolationCode = "23505"

// Store реализует storage.Store поверх пула соединений pgx
type Store struct {
	pool *pgxpool.Pool
}

// NewStore создает новый экземпляр Store
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// isUniqueViolation проверяет, является ли ошибка нарушением уникальности
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
