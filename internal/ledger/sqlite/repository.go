// Package sqlite provides a read-only ledger backend over a SQLite
// database. The service never writes transactions; mutation belongs to
// whatever system owns the ledger.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"spendcast/internal/core"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListTransactions implements ledger.Reader. Rows that fail domain
// validation are skipped so a ledger written by another system cannot
// push invalid records into the forecasting core.
func (r *Repository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, category, amount_cents, description
		FROM transactions
		ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			dateStr     string
			category    string
			amountCents int64
			description string
		)
		if err := rows.Scan(&dateStr, &category, &amountCents, &description); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}

		date, err := core.ParseDate(dateStr)
		if err != nil {
			continue
		}
		tx := core.Transaction{
			Date:        date,
			Category:    category,
			Amount:      core.Money{Cents: amountCents},
			Description: description,
		}
		if err := tx.Validate(); err != nil {
			continue
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return out, nil
}
