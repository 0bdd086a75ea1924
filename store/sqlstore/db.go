package sqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
)

// DB is the subset of *sql.DB (or a transaction) the store needs, narrow
// enough that tests can substitute a fake. The Driver method lets a
// type-switch on the concrete driver pick MSSQL- or Postgres-flavoured SQL
// text for the same operation.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	Driver() driver.Driver
}

var _ DB = &sql.DB{}
