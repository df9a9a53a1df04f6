package db

import (
	"context"
	"database/sql"
)

// DBTX is the minimal query interface satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Queries bundles all SQL statements for the credential store. Methods take
// the DBTX explicitly so the same statements run inside or outside a
// transaction.
type Queries struct{}

func New() *Queries {
	return &Queries{}
}
