package repositories

import (
	"context"
	"database/sql"
	"errors"
)

var (
	// ErrNotFound is returned when a document or blob does not exist.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError wraps unexpected storage driver errors.
	ErrDatabaseError = errors.New("database error")

	// ErrInvalidDocument is returned when a stored or supplied document has the wrong shape.
	ErrInvalidDocument = errors.New("invalid document")
)

// SQLExecutor is satisfied by *sql.DB and *sql.Tx.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}
