package scoring

import (
	"github.com/mbd888/jerisk/internal/calendar"
	"github.com/mbd888/jerisk/internal/ledger"
	"github.com/mbd888/jerisk/internal/stats"
)

// Flags is the fixed set of independent anomaly predicates evaluated for
// every entry. No flag suppresses another.
type Flags struct {
	RoundDollar       bool `json:"round_dollar_flag"`
	AfterHours        bool `json:"after_hours_flag"`
	Weekend           bool `json:"weekend_flag"`
	PeriodClose       bool `json:"period_close_flag"`
	ApprovalPending   bool `json:"approval_pending_flag"`
	Keyword           bool `json:"keyword_flag"`
	RarePair          bool `json:"rare_pair_flag"`
	AmountOutlier     bool `json:"amount_outlier_flag"`
	UserVolumeOutlier bool `json:"user_volume_outlier_flag"`
}

// ScoredEntry is an entry annotated with its derived local-time fields,
// anomaly flags, z-scores, and composite risk score.
type ScoredEntry struct {
	ledger.Entry
	ResolvedTZ  string  `json:"resolved_tz"`
	LocalHour   int     `json:"local_hour"`
	DOW         int     `json:"dow"`
	AmountZ     float64 `json:"amount_z"`
	UserVolumeZ float64 `json:"user_volume_z"`
	Flags
	RiskScore int `json:"risk_score"`
}

// Evaluate computes flags and z-scores for one localized entry against the
// completed statistics tables. Pure function: callers must not invoke it
// before every aggregation pass has finished.
func (p Policy) Evaluate(lz calendar.Localized, acct stats.Summary, user stats.UserVolume, pair stats.Pair) ScoredEntry {
	amountZ := acct.ZScore(lz.Amount.Abs().Float64())
	userZ := user.ZScore(float64(user.MonthCount(lz.PostingDate)))

	flags := Flags{
		RoundDollar:       lz.Amount.IsMultipleOf(p.RoundDollarModulus),
		AfterHours:        lz.LocalHour < lz.Cal.BusinessStart || lz.LocalHour >= lz.Cal.BusinessEnd,
		Weekend:           lz.DOW == lz.Cal.WeekendStart || lz.DOW == lz.Cal.WeekendEnd,
		PeriodClose:       lz.PostingDate.Day() > ledger.LastDayOfMonth(lz.PostingDate)-p.PeriodCloseDays,
		ApprovalPending:   !p.approved(lz.ApprovalStatus),
		Keyword:           p.matchesKeyword(lz.Description),
		RarePair:          pair.Rare(),
		AmountOutlier:     amountZ >= p.ZThreshold,
		UserVolumeOutlier: userZ >= p.ZThreshold,
	}

	return ScoredEntry{
		Entry:       lz.Entry,
		ResolvedTZ:  lz.Cal.TZ,
		LocalHour:   lz.LocalHour,
		DOW:         lz.DOW,
		AmountZ:     amountZ,
		UserVolumeZ: userZ,
		Flags:       flags,
		RiskScore:   p.Score(flags),
	}
}

// Score combines flags into the composite risk score, capped at MaxScore.
func (p Policy) Score(f Flags) int {
	w := p.Weights
	score := 0
	for _, c := range []struct {
		set    bool
		weight int
	}{
		{f.RoundDollar, w.RoundDollar},
		{f.AfterHours, w.AfterHours},
		{f.Weekend, w.Weekend},
		{f.PeriodClose, w.PeriodClose},
		{f.ApprovalPending, w.ApprovalPending},
		{f.Keyword, w.Keyword},
		{f.RarePair, w.RarePair},
		{f.AmountOutlier, w.AmountOutlier},
		{f.UserVolumeOutlier, w.UserVolumeOutlier},
	} {
		if c.set {
			score += c.weight
		}
	}
	if score > p.MaxScore {
		score = p.MaxScore
	}
	if score < 0 {
		score = 0
	}
	return score
}
