package scoring

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/mbd888/jerisk/internal/calendar"
	"github.com/mbd888/jerisk/internal/idgen"
	"github.com/mbd888/jerisk/internal/ledger"
	"github.com/mbd888/jerisk/internal/logging"
	"github.com/mbd888/jerisk/internal/metrics"
	"github.com/mbd888/jerisk/internal/stats"
	"github.com/mbd888/jerisk/internal/traces"
)

// Run summarizes one completed scoring run for the audit trail.
type Run struct {
	ID              string              `json:"id"`
	StartedAt       time.Time           `json:"started_at"`
	FinishedAt      time.Time           `json:"finished_at"`
	EntriesIn       int                 `json:"entries_in"`
	EntriesScored   int                 `json:"entries_scored"`
	EntriesExcluded int                 `json:"entries_excluded"`
	HighRisk        int                 `json:"high_risk"`
	MaxScore        int                 `json:"max_score"`
	Exclusions      []ledger.EntryError `json:"exclusions"`
}

// Result is the full output of a scoring run: entries in review order plus
// the per-entry exclusion records.
type Result struct {
	Run      Run                 `json:"run"`
	Entries  []ScoredEntry       `json:"entries"`
	Excluded []ledger.EntryError `json:"excluded"`
}

// Engine runs the scoring pipeline. Safe for concurrent use; each Run call
// builds its own statistics tables.
type Engine struct {
	policy  Policy
	workers int
	store   RunStore // nil disables run persistence
	logger  *slog.Logger
}

// Option configures the engine.
type Option func(*Engine)

// WithWorkers sets the evaluation fan-out width.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithRunStore enables run persistence.
func WithRunStore(store RunStore) Option {
	return func(e *Engine) { e.store = store }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates a scoring engine with the given policy.
func NewEngine(policy Policy, opts ...Option) *Engine {
	e := &Engine{
		policy:  policy,
		workers: runtime.GOMAXPROCS(0),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the engine's active policy.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Run scores the entry population against the calendar table.
//
// Excluded entries (unresolvable timezone, plus any intake errors the caller
// passes in) are withheld from every aggregation pass: aggregators assume a
// clean, fully-typed population. A rerun over an unchanged population yields
// bit-identical output and ordering.
func (e *Engine) Run(ctx context.Context, entries []ledger.Entry, cals []ledger.EntityCalendar, intakeErrors []ledger.EntryError) (*Result, error) {
	started := time.Now().UTC()
	runID := idgen.WithPrefix("run_")
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.L(ctx)

	ctx, span := traces.StartSpan(ctx, "scoring.run",
		traces.RunID(runID), traces.EntryCount(len(entries)))
	defer span.End()

	resolver := calendar.NewResolver(cals)

	// Localization pass. Entries whose zone cannot be resolved are excluded
	// before any statistic is computed.
	localized := make([]calendar.Localized, 0, len(entries))
	clean := make([]ledger.Entry, 0, len(entries))
	excluded := make([]ledger.EntryError, 0, len(intakeErrors))
	for _, ee := range intakeErrors {
		excluded = append(excluded, ee)
		metrics.EntriesExcluded.WithLabelValues("invalid_entry").Inc()
	}
	for _, entry := range entries {
		cal := resolver.Resolve(entry.Entity, entry.TimeZone)
		lz, err := calendar.Localize(entry, cal)
		if err != nil {
			if !errors.Is(err, calendar.ErrInvalidTimezone) {
				return nil, err
			}
			excluded = append(excluded, ledger.EntryError{EntryID: entry.EntryID, Reason: err.Error()})
			metrics.EntriesExcluded.WithLabelValues("invalid_timezone").Inc()
			continue
		}
		localized = append(localized, lz)
		clean = append(clean, entry)
	}

	// Aggregation barrier: all three tables must be complete before any
	// entry is evaluated.
	tables := e.aggregate(ctx, clean)

	scored := e.evaluate(ctx, localized, tables)

	_, sortSpan := traces.StartSpan(ctx, "scoring.sort", traces.Stage("sort"))
	orderForReview(scored)
	sortSpan.End()

	run := Run{
		ID:              runID,
		StartedAt:       started,
		FinishedAt:      time.Now().UTC(),
		EntriesIn:       len(entries) + len(intakeErrors),
		EntriesScored:   len(scored),
		EntriesExcluded: len(excluded),
		Exclusions:      excluded,
	}
	for _, se := range scored {
		if se.RiskScore >= e.policy.HighRiskAt {
			run.HighRisk++
		}
		if se.RiskScore > run.MaxScore {
			run.MaxScore = se.RiskScore
		}
	}

	span.SetAttributes(traces.ExcludedCount(len(excluded)))

	metrics.RunsTotal.Inc()
	metrics.RunDuration.Observe(run.FinishedAt.Sub(run.StartedAt).Seconds())
	metrics.EntriesScored.Add(float64(run.EntriesScored))
	metrics.HighRiskEntries.Add(float64(run.HighRisk))

	if e.store != nil {
		if err := e.store.SaveRun(ctx, &run); err != nil {
			// The scored output is still valid; persistence is audit trail.
			logger.Error("failed to persist run", "error", err)
		}
	}

	logger.Info("scoring run complete",
		"entries_in", run.EntriesIn,
		"scored", run.EntriesScored,
		"excluded", run.EntriesExcluded,
		"high_risk", run.HighRisk,
		"duration", run.FinishedAt.Sub(run.StartedAt),
	)

	return &Result{Run: run, Entries: scored, Excluded: excluded}, nil
}

// tables holds the three immutable statistics lookup tables.
type tables struct {
	accounts map[string]stats.Summary
	users    map[string]stats.UserVolume
	pairs    map[stats.PairKey]stats.Pair
}

// aggregate runs the three independent reductions concurrently over the
// clean population.
func (e *Engine) aggregate(ctx context.Context, entries []ledger.Entry) tables {
	_, span := traces.StartSpan(ctx, "scoring.aggregate", traces.EntryCount(len(entries)))
	defer span.End()

	var t tables
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		t.accounts = stats.Accounts(entries)
	}()
	go func() {
		defer wg.Done()
		t.users = stats.UserVolumes(entries)
	}()
	go func() {
		defer wg.Done()
		t.pairs = stats.Pairs(entries)
	}()
	wg.Wait()
	return t
}

// evaluate fans entry evaluation out over the worker pool. Each worker reads
// only the immutable tables; results land at the entry's input index, so the
// pre-sort output is identical for any worker count.
func (e *Engine) evaluate(ctx context.Context, localized []calendar.Localized, t tables) []ScoredEntry {
	_, span := traces.StartSpan(ctx, "scoring.evaluate", traces.EntryCount(len(localized)))
	defer span.End()

	scored := make([]ScoredEntry, len(localized))
	workers := e.workers
	if workers > len(localized) {
		workers = len(localized)
	}
	if workers <= 1 {
		for i, lz := range localized {
			scored[i] = e.score(lz, t)
		}
		return scored
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				scored[i] = e.score(localized[i], t)
			}
		}()
	}
	for i := range localized {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
	return scored
}

func (e *Engine) score(lz calendar.Localized, t tables) ScoredEntry {
	return e.policy.Evaluate(lz,
		t.accounts[lz.Account],
		t.users[lz.CreatedBy],
		t.pairs[stats.PairKey{Account: lz.Account, OffsetAccount: lz.OffsetAccount}],
	)
}

// orderForReview sorts entries for audit review: descending risk score, then
// later posting dates first, then ascending entry_id. entry_id uniqueness
// makes this a total order.
func orderForReview(entries []ScoredEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.RiskScore != b.RiskScore {
			return a.RiskScore > b.RiskScore
		}
		if !a.PostingDate.Equal(b.PostingDate) {
			return a.PostingDate.After(b.PostingDate)
		}
		return a.EntryID < b.EntryID
	})
}
