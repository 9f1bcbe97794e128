package reporting

import (
	"fmt"
	"strings"
	"time"

	"mcpt-lab/internal/domain"
)

// RenderRunsMarkdown renders archived runs as a Markdown report.
func RenderRunsMarkdown(runs []*domain.RunRecord, now time.Time) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Permutation Test Runs\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.UTC().Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Runs: %d\n\n", len(runs)))

	if len(runs) == 0 {
		sb.WriteString("No archived runs.\n")
		return sb.String()
	}

	sb.WriteString("| Dataset | Lookback | Reps | Seed | p-value | Original | Trend | Mean Bias | Unbiased | Skill |\n")
	sb.WriteString("|---------|----------|------|------|---------|----------|-------|-----------|----------|-------|\n")
	for _, r := range runs {
		sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %.4f | %.4f | %.4f | %.4f | %.4f | %.4f |\n",
			r.Dataset, r.Lookback, r.Replications, r.Seed,
			r.PValue, r.OriginalReturn, r.OriginalTrendComponent,
			r.MeanTrainingBias, r.UnbiasedReturn, r.Skill))
	}
	sb.WriteString("\n")

	// Per-run detail
	for _, r := range runs {
		sb.WriteString(fmt.Sprintf("## %s\n\n", r.Dataset))
		sb.WriteString(fmt.Sprintf("Run `%s`, created %s\n\n",
			r.RunID, time.UnixMilli(r.CreatedAt).UTC().Format(time.RFC3339)))
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Prices read | %d |\n", r.Prices))
		sb.WriteString(fmt.Sprintf("| Replications | %d |\n", r.Replications))
		sb.WriteString(fmt.Sprintf("| Lookback | %d |\n", r.Lookback))
		sb.WriteString(fmt.Sprintf("| p-value | %.4f |\n", r.PValue))
		sb.WriteString(fmt.Sprintf("| Total trend | %.4f |\n", r.TotalTrend))
		sb.WriteString(fmt.Sprintf("| Original nlong | %d |\n", r.OriginalLongCount))
		sb.WriteString(fmt.Sprintf("| Original return | %.4f |\n", r.OriginalReturn))
		sb.WriteString(fmt.Sprintf("| Rise threshold | %.4f |\n", r.OriginalRiseThreshold))
		sb.WriteString(fmt.Sprintf("| Drop threshold | %.4f |\n", r.OriginalDropThreshold))
		sb.WriteString(fmt.Sprintf("| Trend component | %.4f |\n", r.OriginalTrendComponent))
		sb.WriteString(fmt.Sprintf("| Training bias | %.4f |\n", r.MeanTrainingBias))
		sb.WriteString(fmt.Sprintf("| Skill | %.4f |\n", r.Skill))
		sb.WriteString(fmt.Sprintf("| Unbiased return | %.4f |\n", r.UnbiasedReturn))
		sb.WriteString("\n")
	}

	return sb.String()
}
