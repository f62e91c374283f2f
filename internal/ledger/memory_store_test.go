package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbd888/jerisk/internal/money"
)

func testEntry(id string) Entry {
	return Entry{
		EntryID:     id,
		Entity:      "US",
		JENumber:    "JE-" + id,
		LineNum:     1,
		Account:     "6100",
		OffsetAccount: "1000",
		Amount:      money.MustParse("100.00"),
		Currency:    "USD",
		DebitCredit: "D",
		PostingDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		PostingTS:   time.Date(2024, 3, 15, 6, 0, 0, 0, time.UTC),
		TimeZone:    "UTC",
		CreatedBy:   "alice",
		Source:      "SAP",
	}
}

func TestMemoryStore_InsertAndList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.InsertEntries(ctx, []Entry{testEntry("a"), testEntry("b")}))

	entries, err := store.ListEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	n, err := store.CountEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMemoryStore_DuplicateEntryIDRejected(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.InsertEntries(ctx, []Entry{testEntry("a")}))

	// Whole batch rejected, not partially applied.
	err := store.InsertEntries(ctx, []Entry{testEntry("b"), testEntry("a")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidEntry)

	n, err := store.CountEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryStore_ListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.InsertEntries(ctx, []Entry{testEntry("a")}))

	entries, err := store.ListEntries(ctx)
	require.NoError(t, err)
	entries[0].EntryID = "mutated"

	again, err := store.ListEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", again[0].EntryID)
}

func TestMemoryStore_Calendars(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	cal := EntityCalendar{Entity: "US", TZ: "America/New_York", BusinessStart: 8, BusinessEnd: 18, WeekendStart: 6, WeekendEnd: 0}
	require.NoError(t, store.UpsertCalendar(ctx, cal))

	// Upsert replaces.
	cal.BusinessEnd = 17
	require.NoError(t, store.UpsertCalendar(ctx, cal))

	cals, err := store.ListCalendars(ctx)
	require.NoError(t, err)
	require.Len(t, cals, 1)
	assert.Equal(t, 17, cals[0].BusinessEnd)
}
