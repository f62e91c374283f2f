// Package calendar resolves entity business calendars and localizes posting
// timestamps into entity-local civil time.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/mbd888/jerisk/internal/ledger"
)

// ErrInvalidTimezone reports a zone name that the tz database does not know.
// Entries carrying one are excluded from scoring and reported, never
// silently defaulted to UTC.
var ErrInvalidTimezone = errors.New("invalid timezone")

// Defaults applied when an entity has no calendar row.
const (
	DefaultBusinessStart = 8
	DefaultBusinessEnd   = 18
	DefaultWeekendStart  = 6 // Saturday
	DefaultWeekendEnd    = 0 // Sunday
)

// Resolver maps an entity to its business calendar. Built once before a
// scoring run; read-only afterwards.
type Resolver struct {
	byEntity map[string]ledger.EntityCalendar
}

// NewResolver builds a resolver from calendar rows. Later rows for the same
// entity win.
func NewResolver(rows []ledger.EntityCalendar) *Resolver {
	m := make(map[string]ledger.EntityCalendar, len(rows))
	for _, row := range rows {
		m[row.Entity] = row
	}
	return &Resolver{byEntity: m}
}

// Resolve returns the entity's calendar row verbatim when one exists.
// Otherwise it falls back to the entry-supplied zone with default hours and
// weekend days. Resolve never fails; an unusable zone surfaces in Localize.
func (r *Resolver) Resolve(entity, fallbackTZ string) ledger.EntityCalendar {
	if cal, ok := r.byEntity[entity]; ok {
		return cal
	}
	return ledger.EntityCalendar{
		Entity:        entity,
		TZ:            fallbackTZ,
		BusinessStart: DefaultBusinessStart,
		BusinessEnd:   DefaultBusinessEnd,
		WeekendStart:  DefaultWeekendStart,
		WeekendEnd:    DefaultWeekendEnd,
	}
}

// Localized is an entry with its resolved calendar and derived local-time
// fields attached.
type Localized struct {
	ledger.Entry
	Cal       ledger.EntityCalendar
	LocalTime time.Time
	LocalHour int // 0-23, hour of the localized posting timestamp
	DOW       int // 0=Sunday..6=Saturday, derived from the stored posting_date
}

// Localize converts the entry's posting timestamp into civil local time in
// the calendar's zone.
//
// DOW deliberately comes from posting_date rather than from the localized
// timestamp: weekend classification keys on the entry's own date field while
// after-hours classification keys on the localized hour. Regression tests pin
// this split; do not "fix" one side to match the other.
func Localize(e ledger.Entry, cal ledger.EntityCalendar) (Localized, error) {
	// time.LoadLocation("") means UTC, which would silently default absent
	// zone data. Reject it up front.
	if cal.TZ == "" {
		return Localized{}, fmt.Errorf("%w: entry %s has no zone", ErrInvalidTimezone, e.EntryID)
	}
	loc, err := time.LoadLocation(cal.TZ)
	if err != nil {
		return Localized{}, fmt.Errorf("%w: %q", ErrInvalidTimezone, cal.TZ)
	}

	local := e.PostingTS.In(loc)
	return Localized{
		Entry:     e,
		Cal:       cal,
		LocalTime: local,
		LocalHour: local.Hour(),
		DOW:       int(e.PostingDate.Weekday()),
	}, nil
}
