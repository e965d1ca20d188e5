// Package ledger defines the port the forecasting core consumes and a
// factory for the available backends.
package ledger

import (
	"context"

	"spendcast/internal/core"
)

// Reader supplies the full transaction history. No ordering guarantee is
// required; consumers re-sort or group as needed. Implementations must not
// let readers mutate stored transactions.
type Reader interface {
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
}
