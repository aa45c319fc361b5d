// Package postgres implements the storage interfaces over a pgx
// connection pool. Every task statement folds the owning user's id
// into its WHERE clause.
package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}
