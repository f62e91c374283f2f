// Command score runs the risk scoring pipeline over a GL extract.
//
// Usage:
//
//	score -entries extract.csv [-calendars calendars.csv] [-out scored.csv]
//
// The scored CSV goes to stdout unless -out is given. Excluded entries are
// logged and counted but never appear in the scored output.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mbd888/jerisk/internal/config"
	"github.com/mbd888/jerisk/internal/ledger"
	"github.com/mbd888/jerisk/internal/logging"
	"github.com/mbd888/jerisk/internal/scoring"
)

func main() {
	var (
		entriesPath   = flag.String("entries", "", "path to the journal entry CSV (required)")
		calendarsPath = flag.String("calendars", "", "path to the entity calendar CSV (optional)")
		outPath       = flag.String("out", "", "path for the scored CSV (default stdout)")
	)
	flag.Parse()

	if *entriesPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, "text")

	entries, intakeErrors, err := readEntries(*entriesPath)
	if err != nil {
		logger.Error("failed to read entries", "path", *entriesPath, "error", err)
		os.Exit(1)
	}

	var cals []ledger.EntityCalendar
	if *calendarsPath != "" {
		cals, err = readCalendars(*calendarsPath)
		if err != nil {
			logger.Error("failed to read calendars", "path", *calendarsPath, "error", err)
			os.Exit(1)
		}
	}

	policy := scoring.DefaultPolicy()
	policy.ZThreshold = cfg.ZThreshold
	policy.RoundDollarModulus = cfg.RoundDollarModulus
	policy.PeriodCloseDays = cfg.PeriodCloseDays
	policy.HighRiskAt = cfg.HighRiskAt
	policy.Keywords = append(policy.Keywords, cfg.Keywords...)
	if len(cfg.ApprovedStatuses) > 0 {
		policy.ApprovedStatuses = cfg.ApprovedStatuses
	}

	opts := []scoring.Option{scoring.WithLogger(logger)}
	if cfg.ScoreWorkers > 0 {
		opts = append(opts, scoring.WithWorkers(cfg.ScoreWorkers))
	}
	engine := scoring.NewEngine(policy, opts...)

	result, err := engine.Run(context.Background(), entries, cals, intakeErrors)
	if err != nil {
		logger.Error("scoring run failed", "error", err)
		os.Exit(1)
	}

	for _, ex := range result.Excluded {
		logger.Warn("entry excluded", "entry_id", ex.EntryID, "reason", ex.Reason)
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			logger.Error("failed to create output file", "path", *outPath, "error", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	if err := scoring.WriteScoredCSV(out, result.Entries); err != nil {
		logger.Error("failed to write scored output", "error", err)
		os.Exit(1)
	}
}

func readEntries(path string) ([]ledger.Entry, []ledger.EntryError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()
	return ledger.ReadEntries(f)
}

func readCalendars(path string) ([]ledger.EntityCalendar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ledger.ReadCalendars(f)
}
