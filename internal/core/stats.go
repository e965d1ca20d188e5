package core

// Stats is a compact summary of the whole ledger.
type Stats struct {
	Total       float64
	Average     float64
	Count       int
	TopCategory string
}

// CategoryTotals sums transaction amounts per category, in cents.
func CategoryTotals(txs []Transaction) map[string]int64 {
	totals := make(map[string]int64)
	for _, t := range txs {
		totals[t.Category] += t.Amount.Cents
	}
	return totals
}

// Summarize computes ledger-wide totals. TopCategory is "N/A" when the
// ledger is empty.
func Summarize(txs []Transaction) Stats {
	s := Stats{TopCategory: "N/A", Count: len(txs)}
	if len(txs) == 0 {
		return s
	}

	var totalCents int64
	for _, t := range txs {
		totalCents += t.Amount.Cents
	}
	s.Total = Round2(float64(totalCents) / 100)
	s.Average = Round2(float64(totalCents) / 100 / float64(len(txs)))

	byCategory := CategoryTotals(txs)
	var topCents int64 = -1
	for _, name := range Categories() {
		if c, ok := byCategory[name]; ok && c > topCents {
			topCents = c
			s.TopCategory = name
		}
	}
	return s
}
