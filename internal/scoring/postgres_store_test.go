package scoring_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbd888/jerisk/internal/ledger"
	"github.com/mbd888/jerisk/internal/scoring"
	"github.com/mbd888/jerisk/internal/testutil"
)

func TestPostgresRunStore_RoundTrip(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	ctx := context.Background()
	store := scoring.NewPostgresRunStore(db)

	in := scoring.Run{
		ID:              "run_test1",
		StartedAt:       time.Date(2024, 3, 29, 10, 0, 0, 0, time.UTC),
		FinishedAt:      time.Date(2024, 3, 29, 10, 0, 2, 0, time.UTC),
		EntriesIn:       100,
		EntriesScored:   98,
		EntriesExcluded: 2,
		HighRisk:        7,
		MaxScore:        85,
		Exclusions: []ledger.EntryError{
			{EntryID: "JE-1", Reason: `invalid timezone: "Mars/Olympus_Mons"`},
			{EntryID: "JE-2", Reason: "amount \"oops\": invalid amount"},
		},
	}
	require.NoError(t, store.SaveRun(ctx, &in))

	got, err := store.GetRun(ctx, "run_test1")
	require.NoError(t, err)
	assert.Equal(t, in, *got)
}

func TestPostgresRunStore_NilExclusionsStoredAsEmpty(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	ctx := context.Background()
	store := scoring.NewPostgresRunStore(db)

	require.NoError(t, store.SaveRun(ctx, &scoring.Run{
		ID:         "run_clean",
		StartedAt:  time.Now().UTC().Truncate(time.Microsecond),
		FinishedAt: time.Now().UTC().Truncate(time.Microsecond),
	}))

	got, err := store.GetRun(ctx, "run_clean")
	require.NoError(t, err)
	assert.NotNil(t, got.Exclusions)
	assert.Empty(t, got.Exclusions)
}

func TestPostgresRunStore_GetMissing(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	store := scoring.NewPostgresRunStore(db)
	_, err := store.GetRun(context.Background(), "run_nope")
	assert.ErrorIs(t, err, scoring.ErrRunNotFound)
}

func TestPostgresRunStore_ListNewestFirst(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	ctx := context.Background()
	store := scoring.NewPostgresRunStore(db)

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"run_1", "run_2", "run_3"} {
		require.NoError(t, store.SaveRun(ctx, &scoring.Run{
			ID:         id,
			StartedAt:  base.Add(time.Duration(i) * time.Hour),
			FinishedAt: base.Add(time.Duration(i)*time.Hour + time.Second),
		}))
	}

	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run_3", runs[0].ID)
	assert.Equal(t, "run_2", runs[1].ID)
}
