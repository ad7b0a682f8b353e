package postgres

import (
	"context"
	"database/sql"
)

//go:generate mockgen -source=queryer.go -destination=mocks/mock_queryer.go -package=mocks

// Queryer é o subconjunto de *sql.DB usado pelos repositórios
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
