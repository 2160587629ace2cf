package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Token Creation History\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	if r.Owner != "" {
		sb.WriteString(fmt.Sprintf("Owner: `%s`\n\n", r.Owner))
	}

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Runs | %d |\n", r.Summary.TotalRuns))
	sb.WriteString(fmt.Sprintf("| Succeeded | %d |\n", r.Summary.Succeeded))
	sb.WriteString(fmt.Sprintf("| Failed | %d |\n", r.Summary.Failed))
	sb.WriteString(fmt.Sprintf("| Failed After Mint | %d |\n", r.Summary.FailedWithMint))
	sb.WriteString("\n")

	// Runs
	sb.WriteString("## Runs\n\n")
	if len(r.Runs) == 0 {
		sb.WriteString("No runs recorded.\n")
		return sb.String()
	}
	sb.WriteString("| Started | Symbol | Supply | Mint | Outcome | Stage | Transactions |\n")
	sb.WriteString("|---------|--------|--------|------|---------|-------|--------------|\n")
	for _, row := range r.Runs {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %d |\n",
			formatMs(row.StartedAt),
			escapeCell(row.Symbol),
			row.Supply,
			orDash(row.Mint),
			row.Outcome,
			row.Stage,
			row.Signatures,
		))
	}

	if r.Summary.FailedWithMint > 0 {
		sb.WriteString("\n### Needs Attention\n\n")
		sb.WriteString("These runs failed after the mint account was created:\n\n")
		for _, row := range r.Runs {
			if row.Outcome == "FAILED" && row.Mint != "" {
				sb.WriteString(fmt.Sprintf("- `%s`: %s\n", row.Mint, escapeCell(row.Message)))
			}
		}
	}

	return sb.String()
}

// RenderReceiptMarkdown renders one run receipt.
func RenderReceiptMarkdown(r *Receipt) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s (%s)\n\n", escapeCell(r.Name), escapeCell(r.Run.Symbol)))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Run ID | %s |\n", r.Run.RunID))
	sb.WriteString(fmt.Sprintf("| Owner | %s |\n", r.Run.Owner))
	sb.WriteString(fmt.Sprintf("| Mint | %s |\n", orDash(r.Run.Mint)))
	sb.WriteString(fmt.Sprintf("| Supply | %s (decimals %d) |\n", r.Run.Supply, r.Run.Decimals))
	sb.WriteString(fmt.Sprintf("| Outcome | %s |\n", r.Run.Outcome))
	sb.WriteString(fmt.Sprintf("| Stage | %s |\n", r.Run.Stage))
	sb.WriteString(fmt.Sprintf("| Image | %s |\n", orDash(r.ImageURL)))
	sb.WriteString(fmt.Sprintf("| Metadata | %s |\n", orDash(r.Run.MetadataURL)))
	sb.WriteString(fmt.Sprintf("| Message | %s |\n", escapeCell(r.Run.Message)))
	sb.WriteString("\n")

	sb.WriteString("## Transactions\n\n")
	if len(r.Signatures) == 0 {
		sb.WriteString("None confirmed.\n\n")
	} else {
		for i, s := range r.Signatures {
			sb.WriteString(fmt.Sprintf("%d. %s `%s`\n", i+1, s.Stage, s.Signature))
		}
		sb.WriteString("\n")
	}

	if len(r.Events) > 0 {
		sb.WriteString("## Status Log\n\n")
		sb.WriteString("| Time | Kind | Message |\n")
		sb.WriteString("|------|------|---------|\n")
		for _, e := range r.Events {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", formatMs(e.Timestamp), e.Kind, escapeCell(e.Message)))
		}
	}

	return sb.String()
}

func formatMs(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
