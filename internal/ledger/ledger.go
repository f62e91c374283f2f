// Package ledger defines the general-ledger journal entry model consumed by
// the scoring pipeline, along with CSV intake/output and entry stores.
//
// Flow:
//  1. A GL extract (CSV or API payload) is parsed into []Entry
//  2. Rows with malformed amounts or dates are rejected per-row, never
//     silently defaulted
//  3. The scoring engine consumes the clean population plus the entity
//     calendar table
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/mbd888/jerisk/internal/money"
)

var (
	ErrEntryNotFound = errors.New("entry not found")
	ErrInvalidEntry  = errors.New("invalid entry")
)

// Entry is one journal line of a GL extract. Immutable once parsed.
type Entry struct {
	EntryID       string       `json:"entry_id"`
	Entity        string       `json:"entity"`
	JENumber      string       `json:"je_number"`
	LineNum       int          `json:"line_num"`
	Account       string       `json:"account"`
	OffsetAccount string       `json:"offset_account"`
	Description   string       `json:"description"`
	Amount        money.Amount `json:"amount"`
	Currency      string       `json:"currency"`
	DebitCredit   string       `json:"debit_credit"`
	PostingDate   time.Time    `json:"posting_date"`      // calendar date, UTC midnight
	PostingTS     time.Time    `json:"posting_timestamp"` // absolute instant, UTC
	TimeZone      string       `json:"time_zone"`         // entry-supplied fallback zone
	CreatedBy     string       `json:"created_by"`
	Source        string       `json:"source"`
	ApprovalStatus string      `json:"approval_status,omitempty"` // empty = absent
}

// EntityCalendar configures business hours and weekend days for one entity.
// BusinessStart/BusinessEnd are hours in [0,24). WeekendStart/WeekendEnd are
// day-of-week codes (0=Sunday..6=Saturday); the two days need not be adjacent.
type EntityCalendar struct {
	Entity        string `json:"entity"`
	TZ            string `json:"tz"`
	BusinessStart int    `json:"business_start"`
	BusinessEnd   int    `json:"business_end"`
	WeekendStart  int    `json:"weekend_start"`
	WeekendEnd    int    `json:"weekend_end"`
}

// EntryError records a single rejected entry and why. Rejected entries are
// excluded from every aggregation pass, not just from the scored output.
type EntryError struct {
	EntryID string `json:"entry_id"`
	Reason  string `json:"reason"`
}

// Store persists journal entries and entity calendars.
type Store interface {
	InsertEntries(ctx context.Context, entries []Entry) error
	ListEntries(ctx context.Context) ([]Entry, error)
	CountEntries(ctx context.Context) (int, error)
	UpsertCalendar(ctx context.Context, cal EntityCalendar) error
	ListCalendars(ctx context.Context) ([]EntityCalendar, error)
}

// MonthStart returns the first day of the calendar month containing d,
// at UTC midnight. Buckets for user volume statistics key on this.
func MonthStart(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// LastDayOfMonth returns the day number (28-31) of the final day of the
// month containing d.
func LastDayOfMonth(d time.Time) int {
	return time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
