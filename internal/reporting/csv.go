package reporting

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// RenderCSV renders runs as CSV string.
func RenderCSV(runs []RunRow) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	// Header
	_ = w.Write([]string{
		"run_id", "owner", "mint", "symbol", "supply", "decimals",
		"stage", "outcome", "started_at", "duration_ms", "transactions",
		"metadata_url", "message",
	})

	// Rows
	for _, r := range runs {
		_ = w.Write([]string{
			r.RunID,
			r.Owner,
			r.Mint,
			r.Symbol,
			r.Supply,
			strconv.Itoa(r.Decimals),
			r.Stage,
			r.Outcome,
			strconv.FormatInt(r.StartedAt, 10),
			strconv.FormatInt(r.DurationMs, 10),
			strconv.Itoa(r.Signatures),
			r.MetadataURL,
			r.Message,
		})
	}

	w.Flush()
	return sb.String()
}
