package stats

import "github.com/mbd888/jerisk/internal/ledger"

// Accounts computes, per account, the mean and population stddev of the
// absolute amounts of every entry posted to that account.
func Accounts(entries []ledger.Entry) map[string]Summary {
	grouped := make(map[string][]float64)
	for _, e := range entries {
		grouped[e.Account] = append(grouped[e.Account], e.Amount.Abs().Float64())
	}

	out := make(map[string]Summary, len(grouped))
	for account, values := range grouped {
		out[account] = Summarize(values)
	}
	return out
}
