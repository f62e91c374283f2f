// Package scoring implements the journal-entry risk scoring pipeline:
// population aggregation, per-entry flag evaluation, composite scoring, and
// the final review ordering.
//
// Flow:
//  1. Entries are localized against entity calendars (bad zones excluded)
//  2. Three aggregation passes run over the full clean population
//  3. Every entry is evaluated against the completed statistics tables
//  4. Results are ordered highest-risk first
//
// Every statistic is population-wide, so no entry is scored until all three
// aggregators have finished. Scores are deterministic for a given population
// and policy regardless of input order or parallelism.
package scoring

import "strings"

// Weights maps each anomaly flag to its contribution to the composite score.
// Tunable by audit policy; the defaults are fixed business rules, not
// learned parameters.
type Weights struct {
	RoundDollar       int `json:"round_dollar"`
	AfterHours        int `json:"after_hours"`
	Weekend           int `json:"weekend"`
	PeriodClose       int `json:"period_close"`
	ApprovalPending   int `json:"approval_pending"`
	Keyword           int `json:"keyword"`
	RarePair          int `json:"rare_pair"`
	AmountOutlier     int `json:"amount_outlier"`
	UserVolumeOutlier int `json:"user_volume_outlier"`
}

// Policy carries every tunable threshold of the pipeline. A zero Policy is
// not usable; start from DefaultPolicy.
type Policy struct {
	Weights Weights `json:"weights"`

	// ZThreshold is the z-score at or above which an amount or volume is an
	// outlier.
	ZThreshold float64 `json:"z_threshold"`

	// RoundDollarModulus flags amounts that are exact multiples of this many
	// whole currency units.
	RoundDollarModulus int64 `json:"round_dollar_modulus"`

	// PeriodCloseDays is the length of the month-end window, counted from
	// the last calendar day of the month inclusive.
	PeriodCloseDays int `json:"period_close_days"`

	// Keywords are matched case-insensitively against entry descriptions.
	Keywords []string `json:"keywords"`

	// ApprovedStatuses are the case-insensitive approval_status values that
	// do NOT raise the approval flag. Anything else — including an absent
	// status — is flagged.
	ApprovedStatuses []string `json:"approved_statuses"`

	// MaxScore caps the composite score. The weight total may exceed it.
	MaxScore int `json:"max_score"`

	// HighRiskAt is the score at or above which an entry counts toward a
	// run's high-risk tally.
	HighRiskAt int `json:"high_risk_at"`
}

// DefaultPolicy returns the standard audit scoring policy.
func DefaultPolicy() Policy {
	return Policy{
		Weights: Weights{
			RoundDollar:       10,
			AfterHours:        15,
			Weekend:           10,
			PeriodClose:       10,
			ApprovalPending:   10,
			Keyword:           5,
			RarePair:          15,
			AmountOutlier:     20,
			UserVolumeOutlier: 15,
		},
		ZThreshold:         2.0,
		RoundDollarModulus: 100,
		PeriodCloseDays:    3,
		Keywords:           []string{"gift", "manual", "write-off", "write off"},
		ApprovedStatuses:   []string{"approved", "posted"},
		MaxScore:           100,
		HighRiskAt:         60,
	}
}

// approved reports whether status (case-insensitive) is a non-flagging
// approval state. An empty status is never approved.
func (p Policy) approved(status string) bool {
	s := strings.ToLower(strings.TrimSpace(status))
	if s == "" {
		return false
	}
	for _, ok := range p.ApprovedStatuses {
		if s == strings.ToLower(ok) {
			return true
		}
	}
	return false
}

// matchesKeyword reports whether the description contains any policy keyword,
// case-insensitively.
func (p Policy) matchesKeyword(description string) bool {
	d := strings.ToLower(description)
	for _, kw := range p.Keywords {
		if kw != "" && strings.Contains(d, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
