// Package storage holds the row-level SQL shared by the domain stores:
// locked reads in deterministic id order, guarded bulk updates and the
// scan helpers. Domain stores compose these inside their own units of
// work; business rules never live here.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Placeholders renders $start, $start+1, ... $start+n-1 for IN lists.
func Placeholders(start, n int) string {
	var b strings.Builder

	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}

		fmt.Fprintf(&b, "$%d", start+i)
	}

	return b.String()
}
