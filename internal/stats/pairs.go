package stats

import (
	"sort"

	"github.com/mbd888/jerisk/internal/ledger"
)

// PairKey identifies an ordered (account, offset_account) combination.
type PairKey struct {
	Account       string
	OffsetAccount string
}

// Pair holds the occurrence count and within-account frequency quartile for
// one account pair. Quartile 1 is the most frequent quartile.
type Pair struct {
	Count    int
	Quartile int
}

// Rare reports whether the pair counts as a rare posting pattern: the
// least-frequent quartile, or a true singleton regardless of quartile.
// The singleton clause matters for small accounts where quartiling over a
// handful of pairs can place a one-off in a better bucket.
func (p Pair) Rare() bool {
	return p.Quartile == 4 || p.Count == 1
}

// Pairs counts every ordered (account, offset_account) combination, then
// ranks the pairs within each account by descending count and splits the
// ranking into four ordinal buckets.
//
// Ties in count are broken by ascending offset_account so the quartile
// assignment is reproducible for any input order.
func Pairs(entries []ledger.Entry) map[PairKey]Pair {
	counts := make(map[PairKey]int)
	byAccount := make(map[string][]PairKey)
	for _, e := range entries {
		k := PairKey{Account: e.Account, OffsetAccount: e.OffsetAccount}
		if _, seen := counts[k]; !seen {
			byAccount[k.Account] = append(byAccount[k.Account], k)
		}
		counts[k]++
	}

	out := make(map[PairKey]Pair, len(counts))
	for _, keys := range byAccount {
		sort.Slice(keys, func(i, j int) bool {
			if counts[keys[i]] != counts[keys[j]] {
				return counts[keys[i]] > counts[keys[j]]
			}
			return keys[i].OffsetAccount < keys[j].OffsetAccount
		})
		n := len(keys)
		for rank, k := range keys {
			out[k] = Pair{
				Count:    counts[k],
				Quartile: rank*4/n + 1,
			}
		}
	}
	return out
}
