package forecast

import (
	"spendcast/internal/core"
)

// CategoryShares computes each category's fraction of all-time total spend
// from the raw transaction history. Shares sum to 1 when the history is
// non-empty; the empty map is returned when the grand total is zero.
func CategoryShares(txs []core.Transaction) map[string]float64 {
	totals := core.CategoryTotals(txs)

	var grand int64
	for _, cents := range totals {
		grand += cents
	}
	if grand <= 0 {
		return map[string]float64{}
	}

	shares := make(map[string]float64, len(totals))
	for name, cents := range totals {
		shares[name] = float64(cents) / float64(grand)
	}
	return shares
}

// ProjectCategories redistributes the aggregate forecast total across
// categories proportionally to the given historical shares, each entry
// rounded to two decimals. The projection assumes the future category mix
// mirrors the all-time historical mix; per-category seasonality is not
// modeled separately.
func ProjectCategories(shares map[string]float64, total float64) map[string]float64 {
	pie := make(map[string]float64, len(shares))
	for name, share := range shares {
		pie[name] = core.Round2(share * total)
	}
	return pie
}
