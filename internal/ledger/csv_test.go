package ledger

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbd888/jerisk/internal/money"
)

const entryHeader = "entry_id,entity,je_number,line_num,account,offset_account,description,amount,currency,debit_credit,posting_date,posting_timestamp,time_zone,created_by,source,approval_status\n"

func TestReadEntries_ParsesRow(t *testing.T) {
	data := entryHeader +
		"JE001-1,US,JE001,1,6100,1000,Office supplies,500.00,USD,D,2024-03-15,2024-03-15T06:00:00Z,America/New_York,alice,SAP,approved\n"

	entries, bad, err := ReadEntries(strings.NewReader(data))
	require.NoError(t, err)
	require.Empty(t, bad)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "JE001-1", e.EntryID)
	assert.Equal(t, "US", e.Entity)
	assert.Equal(t, "JE001", e.JENumber)
	assert.Equal(t, 1, e.LineNum)
	assert.Equal(t, "6100", e.Account)
	assert.Equal(t, "1000", e.OffsetAccount)
	assert.Equal(t, money.MustParse("500.00"), e.Amount)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), e.PostingDate)
	assert.Equal(t, time.Date(2024, 3, 15, 6, 0, 0, 0, time.UTC), e.PostingTS)
	assert.Equal(t, "America/New_York", e.TimeZone)
	assert.Equal(t, "approved", e.ApprovalStatus)
}

func TestReadEntries_MissingColumns(t *testing.T) {
	data := "entry_id,entity,amount\nJE1,US,5.00\n"
	_, _, err := ReadEntries(strings.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing columns")
	assert.Contains(t, err.Error(), "posting_date")
}

func TestReadEntries_HeaderOrderIndependent(t *testing.T) {
	data := "amount,entry_id,entity,je_number,line_num,account,offset_account,description,currency,debit_credit,posting_date,posting_timestamp,time_zone,created_by,source,approval_status\n" +
		"9.99,JE9,UK,JE9,1,5000,2000,travel,GBP,D,2024-01-05,2024-01-05 10:00:00,Europe/London,bob,manual,posted\n"

	entries, bad, err := ReadEntries(strings.NewReader(data))
	require.NoError(t, err)
	require.Empty(t, bad)
	require.Len(t, entries, 1)
	assert.Equal(t, money.MustParse("9.99"), entries[0].Amount)
}

func TestReadEntries_MalformedRowsReportedNotFatal(t *testing.T) {
	data := entryHeader +
		"JE1,US,JE1,1,6100,1000,ok,100.00,USD,D,2024-03-15,2024-03-15T06:00:00Z,UTC,alice,SAP,approved\n" +
		"JE2,US,JE2,1,6100,1000,bad amount,12abc,USD,D,2024-03-15,2024-03-15T06:00:00Z,UTC,alice,SAP,approved\n" +
		"JE3,US,JE3,1,6100,1000,bad date,50.00,USD,D,15/03/2024,2024-03-15T06:00:00Z,UTC,alice,SAP,approved\n" +
		"JE4,US,JE4,1,6100,1000,bad ts,50.00,USD,D,2024-03-15,not-a-time,UTC,alice,SAP,approved\n"

	entries, bad, err := ReadEntries(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "JE1", entries[0].EntryID)

	require.Len(t, bad, 3)
	assert.Equal(t, "JE2", bad[0].EntryID)
	assert.Contains(t, bad[0].Reason, "amount")
	assert.Equal(t, "JE3", bad[1].EntryID)
	assert.Contains(t, bad[1].Reason, "posting_date")
	assert.Equal(t, "JE4", bad[2].EntryID)
	assert.Contains(t, bad[2].Reason, "posting_timestamp")
}

func TestReadEntries_EmptyApprovalStatus(t *testing.T) {
	data := entryHeader +
		"JE1,US,JE1,1,6100,1000,pending,100.00,USD,D,2024-03-15,2024-03-15T06:00:00Z,UTC,alice,SAP,\n"

	entries, bad, err := ReadEntries(strings.NewReader(data))
	require.NoError(t, err)
	require.Empty(t, bad)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].ApprovalStatus)
}

func TestReadEntries_NegativeAndZeroAmounts(t *testing.T) {
	data := entryHeader +
		"JE1,US,JE1,1,6100,1000,reversal,-250.00,USD,C,2024-03-15,2024-03-15T06:00:00Z,UTC,alice,SAP,approved\n" +
		"JE2,US,JE2,1,6100,1000,memo line,0.00,USD,D,2024-03-15,2024-03-15T06:00:00Z,UTC,alice,SAP,approved\n"

	entries, bad, err := ReadEntries(strings.NewReader(data))
	require.NoError(t, err)
	require.Empty(t, bad)
	require.Len(t, entries, 2)
	assert.Equal(t, money.MustParse("-250.00"), entries[0].Amount)
	assert.Equal(t, money.Amount(0), entries[1].Amount)
}

func TestReadCalendars(t *testing.T) {
	data := "entity,tz,business_start,business_end,weekend_start,weekend_end\n" +
		"US,America/New_York,8,18,6,0\n" +
		"APAC,Asia/Tokyo,9,18,6,0\n"

	cals, err := ReadCalendars(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, cals, 2)
	assert.Equal(t, EntityCalendar{Entity: "US", TZ: "America/New_York", BusinessStart: 8, BusinessEnd: 18, WeekendStart: 6, WeekendEnd: 0}, cals[0])
}

func TestReadCalendars_OutOfRangeFailsLoad(t *testing.T) {
	data := "entity,tz,business_start,business_end,weekend_start,weekend_end\n" +
		"US,America/New_York,8,18,7,0\n"
	_, err := ReadCalendars(strings.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weekend_start")
}

func TestMonthStart(t *testing.T) {
	d := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), MonthStart(d))
}

func TestLastDayOfMonth(t *testing.T) {
	tests := []struct {
		date time.Time
		want int
	}{
		{time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), 29}, // leap year
		{time.Date(2023, 2, 10, 0, 0, 0, 0, time.UTC), 28},
		{time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), 30},
		{time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), 31},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LastDayOfMonth(tt.date), tt.date.String())
	}
}
