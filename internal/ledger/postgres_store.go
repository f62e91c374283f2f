package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mbd888/jerisk/internal/money"
)

// PostgresStore implements Store with PostgreSQL. Schema is managed by the
// goose migrations under migrations/.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed entry store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// InsertEntries inserts a batch of entries in a single transaction so a
// partial extract is rolled back on error.
func (p *PostgresStore) InsertEntries(ctx context.Context, entries []Entry) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO journal_entries (
			entry_id, entity, je_number, line_num, account, offset_account,
			description, amount, currency, debit_credit, posting_date,
			posting_timestamp, time_zone, created_by, source, approval_status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8::NUMERIC(20,4),$9,$10,$11,$12,$13,$14,$15,NULLIF($16,''))
	`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx,
			e.EntryID, e.Entity, e.JENumber, e.LineNum, e.Account, e.OffsetAccount,
			e.Description, e.Amount.String(), e.Currency, e.DebitCredit,
			e.PostingDate, e.PostingTS, e.TimeZone, e.CreatedBy, e.Source,
			e.ApprovalStatus,
		); err != nil {
			return fmt.Errorf("insert entry %s: %w", e.EntryID, err)
		}
	}
	return tx.Commit()
}

func (p *PostgresStore) ListEntries(ctx context.Context) ([]Entry, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT entry_id, entity, je_number, line_num, account, offset_account,
		       description, amount::TEXT, currency, debit_credit, posting_date,
		       posting_timestamp, time_zone, created_by, source,
		       COALESCE(approval_status, '')
		FROM journal_entries
		ORDER BY entry_id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var (
			e      Entry
			amount string
		)
		if err := rows.Scan(
			&e.EntryID, &e.Entity, &e.JENumber, &e.LineNum, &e.Account,
			&e.OffsetAccount, &e.Description, &amount, &e.Currency,
			&e.DebitCredit, &e.PostingDate, &e.PostingTS, &e.TimeZone,
			&e.CreatedBy, &e.Source, &e.ApprovalStatus,
		); err != nil {
			return nil, err
		}
		a, err := money.Parse(amount)
		if err != nil {
			return nil, fmt.Errorf("entry %s: stored amount %q: %w", e.EntryID, amount, err)
		}
		e.Amount = a
		e.PostingDate = normalizeDate(e.PostingDate)
		e.PostingTS = e.PostingTS.UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (p *PostgresStore) CountEntries(ctx context.Context) (int, error) {
	var n int
	err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM journal_entries`).Scan(&n)
	return n, err
}

func (p *PostgresStore) UpsertCalendar(ctx context.Context, cal EntityCalendar) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO entity_calendars (entity, tz, business_start, business_end, weekend_start, weekend_end)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (entity) DO UPDATE SET
			tz = EXCLUDED.tz,
			business_start = EXCLUDED.business_start,
			business_end   = EXCLUDED.business_end,
			weekend_start  = EXCLUDED.weekend_start,
			weekend_end    = EXCLUDED.weekend_end
	`, cal.Entity, cal.TZ, cal.BusinessStart, cal.BusinessEnd, cal.WeekendStart, cal.WeekendEnd)
	return err
}

func (p *PostgresStore) ListCalendars(ctx context.Context) ([]EntityCalendar, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT entity, tz, business_start, business_end, weekend_start, weekend_end
		FROM entity_calendars
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var cals []EntityCalendar
	for rows.Next() {
		var cal EntityCalendar
		if err := rows.Scan(&cal.Entity, &cal.TZ, &cal.BusinessStart, &cal.BusinessEnd,
			&cal.WeekendStart, &cal.WeekendEnd); err != nil {
			return nil, err
		}
		cals = append(cals, cal)
	}
	return cals, rows.Err()
}

// normalizeDate strips any time-of-day and zone the driver attached to a
// DATE column. posting_date is a civil date; downstream weekday and
// month-bucket math assumes UTC midnight.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
