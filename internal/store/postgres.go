// Package store loads raw transaction rows from a Postgres table, for
// deployments where the export already lives in a warehouse instead of
// a CSV drop. Values come back as text; the cleaner does the parsing
// either way.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/lib/pq"

	"github.com/rfmkit-dev/rfmkit/internal/importer"
	"github.com/rfmkit-dev/rfmkit/internal/model"
)

// LoadEnv loads environment variables from a .env file when one is
// configured. A missing file is not an error; the process environment
// may already carry the connection settings.
func LoadEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// Open connects to Postgres using DATABASE_URL and verifies the
// connection.
func Open(ctx context.Context) (*sqlx.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return db, nil
}

// FetchRows reads every row of the transactions table, mapped through
// the same column configuration the CSV importer uses. NULLs become
// empty strings and fall to the cleaner's drop rules.
func FetchRows(ctx context.Context, db *sqlx.DB, table string, m importer.Mapping) ([]model.RawRow, error) {
	query := fmt.Sprintf(
		"SELECT %s::text, %s::text, %s::text, %s::text, %s::text FROM %s",
		pq.QuoteIdentifier(m.CustomerID),
		pq.QuoteIdentifier(m.InvoiceID),
		pq.QuoteIdentifier(m.InvoiceDate),
		pq.QuoteIdentifier(m.Quantity),
		pq.QuoteIdentifier(m.UnitPrice),
		pq.QuoteIdentifier(table),
	)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	var out []model.RawRow
	for rows.Next() {
		var customerID, invoiceID, invoiceDate, quantity, unitPrice sql.NullString
		if err := rows.Scan(&customerID, &invoiceID, &invoiceDate, &quantity, &unitPrice); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, model.RawRow{
			CustomerID:  customerID.String,
			InvoiceID:   invoiceID.String,
			InvoiceDate: invoiceDate.String,
			Quantity:    quantity.String,
			UnitPrice:   unitPrice.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}
