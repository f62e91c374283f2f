package stats

import (
	"time"

	"github.com/mbd888/jerisk/internal/ledger"
)

// UserVolume holds one user's monthly posting volumes and the summary
// statistics over them.
type UserVolume struct {
	Summary
	// Months maps month start (first of month, UTC midnight, keyed on the
	// entry's own posting_date) to the distinct entry count for that month.
	Months map[time.Time]int
}

// MonthCount returns the user's distinct entry count for the month
// containing d.
func (u UserVolume) MonthCount(d time.Time) int {
	return u.Months[ledger.MonthStart(d)]
}

// UserVolumes computes, per created_by, the distinct entry count for each
// (user, calendar month) bucket and the mean/population-stddev of those
// monthly counts across the user's months.
//
// Counting distinct entry_ids is deliberate: a duplicated row in the extract
// must not inflate a user's volume.
func UserVolumes(entries []ledger.Entry) map[string]UserVolume {
	type bucket map[time.Time]map[string]struct{}
	seen := make(map[string]bucket)
	for _, e := range entries {
		months, ok := seen[e.CreatedBy]
		if !ok {
			months = make(bucket)
			seen[e.CreatedBy] = months
		}
		m := ledger.MonthStart(e.PostingDate)
		ids, ok := months[m]
		if !ok {
			ids = make(map[string]struct{})
			months[m] = ids
		}
		ids[e.EntryID] = struct{}{}
	}

	out := make(map[string]UserVolume, len(seen))
	for user, months := range seen {
		uv := UserVolume{Months: make(map[time.Time]int, len(months))}
		counts := make([]float64, 0, len(months))
		for m, ids := range months {
			uv.Months[m] = len(ids)
			counts = append(counts, float64(len(ids)))
		}
		uv.Summary = Summarize(counts)
		out[user] = uv
	}
	return out
}
