// Package memory provides an in-memory ledger backend, optionally seeded
// from a CSV file of date,category,amount,description rows.
package memory

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"spendcast/internal/core"
)

type Store struct {
	mu    sync.Mutex
	items []core.Transaction
}

func New(txs ...core.Transaction) *Store {
	s := &Store{}
	s.items = append(s.items, txs...)
	return s
}

// NewFromFile loads transactions from a CSV file. A missing file yields an
// empty store; rows that fail the parse-and-validate boundary are skipped
// with a warning so one bad record cannot poison the ledger.
func NewFromFile(path string) *Store {
	s := &Store{}

	f, err := os.Open(path)
	if err != nil {
		slog.Warn("Ledger seed file not found, starting empty", "path", path)
		return s
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			slog.Warn("Skipping malformed CSV row", "path", path, "line", line, "error", err)
			continue
		}
		if line == 1 && isHeader(record) {
			continue
		}
		tx, err := parseRecord(record)
		if err != nil {
			slog.Warn("Skipping invalid transaction row", "path", path, "line", line, "error", err)
			continue
		}
		s.items = append(s.items, tx)
	}

	slog.Info("Loaded ledger seed file", "path", path, "transactions", len(s.items))
	return s
}

// Append stores a transaction after validation. Used for seeding in tests.
func (s *Store) Append(tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, tx)
	return nil
}

// ListTransactions implements ledger.Reader. The returned slice is a copy;
// callers cannot mutate stored transactions through it.
func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.items))
	copy(out, s.items)
	return out, nil
}

// parseRecord converts one CSV row into a validated Transaction. This is
// the strict boundary between loosely-typed input and the core: invalid
// records never reach the forecasting logic.
func parseRecord(record []string) (core.Transaction, error) {
	if len(record) < 3 {
		return core.Transaction{}, fmt.Errorf("expected at least 3 fields, got %d", len(record))
	}

	date, err := core.ParseDate(record[0])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("date %q: %w", record[0], err)
	}

	cents, err := core.ParseDecimalToCents(record[2])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("amount %q: %w", record[2], err)
	}

	description := ""
	if len(record) > 3 {
		description = strings.TrimSpace(record[3])
	}

	tx := core.Transaction{
		Date:        date,
		Category:    strings.TrimSpace(record[1]),
		Amount:      core.Money{Cents: cents},
		Description: description,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

func isHeader(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "date")
}
