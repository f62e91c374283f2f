package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mbd888/jerisk/internal/money"
)

// EntryColumns is the required header of a GL extract, in order.
var EntryColumns = []string{
	"entry_id", "entity", "je_number", "line_num", "account", "offset_account",
	"description", "amount", "currency", "debit_credit", "posting_date",
	"posting_timestamp", "time_zone", "created_by", "source", "approval_status",
}

// CalendarColumns is the required header of an entity calendar file.
var CalendarColumns = []string{
	"entity", "tz", "business_start", "business_end", "weekend_start", "weekend_end",
}

const dateFormat = "2006-01-02"

// timestampFormats are accepted posting_timestamp layouts. Layouts without an
// explicit offset are anchored to UTC.
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ReadEntries parses a GL extract. The header must contain every column in
// EntryColumns (extra columns are ignored; order does not matter). Rows with
// malformed amounts, dates, or line numbers are reported in the returned
// EntryError slice and withheld from the result; they must never reach an
// aggregator.
func ReadEntries(r io.Reader) ([]Entry, []EntryError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := headerIndex(header, EntryColumns)
	if err != nil {
		return nil, nil, err
	}

	var (
		entries []Entry
		bad     []EntryError
	)
	row := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return entries, bad, fmt.Errorf("read row %d: %w", row+1, err)
		}
		row++

		e, perr := parseEntryRow(rec, idx)
		if perr != nil {
			bad = append(bad, EntryError{
				EntryID: rowID(rec, idx, row),
				Reason:  perr.Error(),
			})
			continue
		}
		entries = append(entries, e)
	}
	return entries, bad, nil
}

// ReadCalendars parses an entity calendar file. Calendar files are operator
// configuration, so a malformed row fails the whole load rather than being
// skipped.
func ReadCalendars(r io.Reader) ([]EntityCalendar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := headerIndex(header, CalendarColumns)
	if err != nil {
		return nil, err
	}

	var cals []EntityCalendar
	row := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row+1, err)
		}
		row++

		cal := EntityCalendar{
			Entity: field(rec, idx["entity"]),
			TZ:     field(rec, idx["tz"]),
		}
		for _, f := range []struct {
			name string
			dst  *int
			max  int
		}{
			{"business_start", &cal.BusinessStart, 23},
			{"business_end", &cal.BusinessEnd, 24},
			{"weekend_start", &cal.WeekendStart, 6},
			{"weekend_end", &cal.WeekendEnd, 6},
		} {
			v, err := strconv.Atoi(field(rec, idx[f.name]))
			if err != nil || v < 0 || v > f.max {
				return nil, fmt.Errorf("row %d: %s %q out of range", row, f.name, field(rec, idx[f.name]))
			}
			*f.dst = v
		}
		if cal.Entity == "" {
			return nil, fmt.Errorf("row %d: empty entity", row)
		}
		cals = append(cals, cal)
	}
	return cals, nil
}

func parseEntryRow(rec []string, idx map[string]int) (Entry, error) {
	e := Entry{
		EntryID:        field(rec, idx["entry_id"]),
		Entity:         field(rec, idx["entity"]),
		JENumber:       field(rec, idx["je_number"]),
		Account:        field(rec, idx["account"]),
		OffsetAccount:  field(rec, idx["offset_account"]),
		Description:    field(rec, idx["description"]),
		Currency:       field(rec, idx["currency"]),
		DebitCredit:    field(rec, idx["debit_credit"]),
		TimeZone:       field(rec, idx["time_zone"]),
		CreatedBy:      field(rec, idx["created_by"]),
		Source:         field(rec, idx["source"]),
		ApprovalStatus: field(rec, idx["approval_status"]),
	}
	if e.EntryID == "" {
		return Entry{}, fmt.Errorf("%w: empty entry_id", ErrInvalidEntry)
	}

	amt, err := money.Parse(field(rec, idx["amount"]))
	if err != nil {
		return Entry{}, fmt.Errorf("%w: amount %q", ErrInvalidEntry, field(rec, idx["amount"]))
	}
	e.Amount = amt

	if raw := field(rec, idx["line_num"]); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Entry{}, fmt.Errorf("%w: line_num %q", ErrInvalidEntry, raw)
		}
		e.LineNum = n
	}

	d, err := ParseDate(field(rec, idx["posting_date"]))
	if err != nil {
		return Entry{}, fmt.Errorf("%w: posting_date %q", ErrInvalidEntry, field(rec, idx["posting_date"]))
	}
	e.PostingDate = d

	ts, err := ParseTimestamp(field(rec, idx["posting_timestamp"]))
	if err != nil {
		return Entry{}, fmt.Errorf("%w: posting_timestamp %q", ErrInvalidEntry, field(rec, idx["posting_timestamp"]))
	}
	e.PostingTS = ts

	return e, nil
}

// ParseDate parses a posting_date ("2006-01-02") as a UTC civil date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateFormat, s, time.UTC)
}

// ParseTimestamp parses a posting_timestamp in any accepted layout,
// anchoring zone-less layouts to UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampFormats {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// headerIndex maps each required column name to its position in the header.
func headerIndex(header, required []string) (map[string]int, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[strings.TrimSpace(strings.ToLower(name))] = i
	}
	idx := make(map[string]int, len(required))
	var missing []string
	for _, name := range required {
		i, ok := pos[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		idx[name] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func rowID(rec []string, idx map[string]int, row int) string {
	if id := field(rec, idx["entry_id"]); id != "" {
		return id
	}
	return fmt.Sprintf("row %d", row)
}
