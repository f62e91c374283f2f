package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbd888/jerisk/internal/ledger"
	"github.com/mbd888/jerisk/internal/money"
	"github.com/mbd888/jerisk/internal/testutil"
)

func TestPostgresStore_EntryRoundTrip(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	ctx := context.Background()
	store := ledger.NewPostgresStore(db)

	in := []ledger.Entry{
		{
			EntryID:       "JE100-1",
			Entity:        "US",
			JENumber:      "JE100",
			LineNum:       1,
			Account:       "6100",
			OffsetAccount: "1000",
			Description:   "manual adjustment",
			Amount:        money.MustParse("-1250.5"),
			Currency:      "USD",
			DebitCredit:   "C",
			PostingDate:   time.Date(2024, 3, 29, 0, 0, 0, 0, time.UTC),
			PostingTS:     time.Date(2024, 3, 29, 23, 30, 0, 0, time.UTC),
			TimeZone:      "America/New_York",
			CreatedBy:     "alice",
			Source:        "SAP",
			ApprovalStatus: "approved",
		},
		{
			EntryID:       "JE100-2",
			Entity:        "US",
			JENumber:      "JE100",
			LineNum:       2,
			Account:       "1000",
			OffsetAccount: "6100",
			Amount:        money.MustParse("1250.5"),
			Currency:      "USD",
			DebitCredit:   "D",
			PostingDate:   time.Date(2024, 3, 29, 0, 0, 0, 0, time.UTC),
			PostingTS:     time.Date(2024, 3, 29, 23, 30, 0, 0, time.UTC),
			TimeZone:      "America/New_York",
			CreatedBy:     "alice",
			Source:        "SAP",
			// ApprovalStatus empty: stored as NULL, read back as ""
		},
	}
	require.NoError(t, store.InsertEntries(ctx, in))

	out, err := store.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)

	got := out[0]
	assert.Equal(t, in[0].EntryID, got.EntryID)
	assert.Equal(t, in[0].Amount, got.Amount)
	assert.Equal(t, in[0].PostingDate, got.PostingDate)
	assert.True(t, in[0].PostingTS.Equal(got.PostingTS))
	assert.Equal(t, "approved", got.ApprovalStatus)
	assert.Empty(t, out[1].ApprovalStatus)

	n, err := store.CountEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPostgresStore_DuplicateEntryRejected(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	ctx := context.Background()
	store := ledger.NewPostgresStore(db)

	e := ledger.Entry{
		EntryID:     "dup-1",
		Entity:      "US",
		JENumber:    "JE1",
		Account:     "6100",
		OffsetAccount: "1000",
		Amount:      money.MustParse("1.00"),
		PostingDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		PostingTS:   time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.InsertEntries(ctx, []ledger.Entry{e}))
	require.Error(t, store.InsertEntries(ctx, []ledger.Entry{e}))
}

func TestPostgresStore_CalendarUpsert(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	ctx := context.Background()
	store := ledger.NewPostgresStore(db)

	cal := ledger.EntityCalendar{Entity: "APAC", TZ: "Asia/Tokyo", BusinessStart: 9, BusinessEnd: 18, WeekendStart: 6, WeekendEnd: 0}
	require.NoError(t, store.UpsertCalendar(ctx, cal))

	cal.BusinessStart = 8
	require.NoError(t, store.UpsertCalendar(ctx, cal))

	cals, err := store.ListCalendars(ctx)
	require.NoError(t, err)
	require.Len(t, cals, 1)
	assert.Equal(t, 8, cals[0].BusinessStart)
	assert.Equal(t, "Asia/Tokyo", cals[0].TZ)
}
