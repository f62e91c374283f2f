package scoring

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/mbd888/jerisk/internal/ledger"
)

// scoredColumns are the derived columns appended after the original entry
// columns in scored output.
var scoredColumns = []string{
	"resolved_tz", "local_hour", "dow", "amount_z", "user_volume_z",
	"round_dollar_flag", "after_hours_flag", "weekend_flag",
	"period_close_flag", "approval_pending_flag", "keyword_flag",
	"rare_pair_flag", "amount_outlier_flag", "user_volume_outlier_flag",
	"risk_score",
}

// WriteScoredCSV writes scored entries in their review order: the original
// sixteen entry columns followed by the derived columns. Flags are written
// as 0/1.
func WriteScoredCSV(w io.Writer, entries []ScoredEntry) error {
	cw := csv.NewWriter(w)

	header := append(append([]string{}, ledger.EntryColumns...), scoredColumns...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, se := range entries {
		rec := []string{
			se.EntryID,
			se.Entity,
			se.JENumber,
			strconv.Itoa(se.LineNum),
			se.Account,
			se.OffsetAccount,
			se.Description,
			se.Amount.String(),
			se.Currency,
			se.DebitCredit,
			se.PostingDate.Format("2006-01-02"),
			se.PostingTS.UTC().Format(time.RFC3339),
			se.TimeZone,
			se.CreatedBy,
			se.Source,
			se.ApprovalStatus,

			se.ResolvedTZ,
			strconv.Itoa(se.LocalHour),
			strconv.Itoa(se.DOW),
			formatZ(se.AmountZ),
			formatZ(se.UserVolumeZ),
			flag01(se.RoundDollar),
			flag01(se.AfterHours),
			flag01(se.Weekend),
			flag01(se.PeriodClose),
			flag01(se.ApprovalPending),
			flag01(se.Keyword),
			flag01(se.RarePair),
			flag01(se.AmountOutlier),
			flag01(se.UserVolumeOutlier),
			strconv.Itoa(se.RiskScore),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write entry %s: %w", se.EntryID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatZ renders a z-score with full float64 round-trip precision so
// repeated runs produce byte-identical files.
func formatZ(z float64) string {
	return strconv.FormatFloat(z, 'g', -1, 64)
}

func flag01(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
