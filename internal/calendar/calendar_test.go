package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbd888/jerisk/internal/ledger"
)

func TestResolve_KnownEntityVerbatim(t *testing.T) {
	rows := []ledger.EntityCalendar{
		{Entity: "APAC", TZ: "Asia/Tokyo", BusinessStart: 9, BusinessEnd: 18, WeekendStart: 6, WeekendEnd: 0},
	}
	r := NewResolver(rows)

	got := r.Resolve("APAC", "America/New_York")
	assert.Equal(t, rows[0], got, "calendar row should be returned verbatim, fallback ignored")
}

func TestResolve_UnknownEntityFallsBack(t *testing.T) {
	r := NewResolver(nil)

	got := r.Resolve("LATAM", "America/Sao_Paulo")
	assert.Equal(t, "America/Sao_Paulo", got.TZ)
	assert.Equal(t, 8, got.BusinessStart)
	assert.Equal(t, 18, got.BusinessEnd)
	assert.Equal(t, 6, got.WeekendStart)
	assert.Equal(t, 0, got.WeekendEnd)
}

func TestLocalize_DerivesLocalHour(t *testing.T) {
	// 2024-03-15 06:00 UTC is 02:00 in New York (EDT, UTC-4).
	e := ledger.Entry{
		EntryID:     "e1",
		PostingDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		PostingTS:   time.Date(2024, 3, 15, 6, 0, 0, 0, time.UTC),
	}
	cal := ledger.EntityCalendar{TZ: "America/New_York", BusinessStart: 8, BusinessEnd: 18, WeekendStart: 6, WeekendEnd: 0}

	lz, err := Localize(e, cal)
	require.NoError(t, err)
	assert.Equal(t, 2, lz.LocalHour)
	assert.Equal(t, 5, lz.DOW) // 2024-03-15 is a Friday
}

func TestLocalize_DOWFromStoredDateNotLocalTime(t *testing.T) {
	// 2024-03-16 01:00 Tokyo is still 2024-03-15 16:00 UTC. The stored
	// posting_date says the 15th (Friday); the localized timestamp lands on
	// Saturday. DOW must follow the stored date.
	e := ledger.Entry{
		EntryID:     "e1",
		PostingDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		PostingTS:   time.Date(2024, 3, 15, 16, 0, 0, 0, time.UTC),
	}
	cal := ledger.EntityCalendar{TZ: "Asia/Tokyo"}

	lz, err := Localize(e, cal)
	require.NoError(t, err)
	assert.Equal(t, 1, lz.LocalTime.Hour(), "sanity: local time is 01:00 next day")
	assert.Equal(t, time.Saturday, lz.LocalTime.Weekday(), "sanity: local day is Saturday")
	assert.Equal(t, 5, lz.DOW, "dow must come from posting_date (Friday)")
}

func TestLocalize_DSTTransition(t *testing.T) {
	// New York springs forward at 07:00 UTC on 2024-03-10. Just before the
	// jump, 06:30 UTC is 01:30 EST.
	e := ledger.Entry{
		EntryID:     "e1",
		PostingDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		PostingTS:   time.Date(2024, 3, 10, 6, 30, 0, 0, time.UTC),
	}
	lz, err := Localize(e, ledger.EntityCalendar{TZ: "America/New_York"})
	require.NoError(t, err)
	assert.Equal(t, 1, lz.LocalHour)

	// One hour later in UTC lands at 03:30 local: 02:xx does not exist.
	e.PostingTS = time.Date(2024, 3, 10, 7, 30, 0, 0, time.UTC)
	lz, err = Localize(e, ledger.EntityCalendar{TZ: "America/New_York"})
	require.NoError(t, err)
	assert.Equal(t, 3, lz.LocalHour)
}

func TestLocalize_InvalidZone(t *testing.T) {
	e := ledger.Entry{EntryID: "e1", PostingTS: time.Now().UTC()}

	_, err := Localize(e, ledger.EntityCalendar{TZ: "Mars/Olympus_Mons"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTimezone)
}

func TestLocalize_EmptyZoneRejectedNotUTC(t *testing.T) {
	e := ledger.Entry{EntryID: "e1", PostingTS: time.Now().UTC()}

	_, err := Localize(e, ledger.EntityCalendar{TZ: ""})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTimezone)
}
