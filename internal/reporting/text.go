// Package reporting renders run results as terminal text, CSV and markdown.
package reporting

import (
	"fmt"
	"strings"

	"mcpt-lab/internal/mcpt"
)

// FormatReplication renders one progress line for a finished replication.
func FormatReplication(r mcpt.Replication) string {
	return fmt.Sprintf("%5d: Ret = %.3f  Rise, drop= %.4f %.4f  NL=%d  TrndComp=%.4f  TrnBias=%.4f",
		r.Index, r.Result.TotalReturn, r.Result.RiseThreshold, r.Result.DropThreshold,
		r.Result.LongCount, r.TrendComponent, r.TrainingBias)
}

// RenderSummary renders the final statistics block for a completed run.
func RenderSummary(s *mcpt.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%d prices were read, %d MCP replications with lookback = %d\n\n",
		s.Prices, s.Replications, s.Lookback)
	fmt.Fprintf(&b, "p-value for null hypothesis that system is worthless = %.4f\n\n", s.PValue)
	fmt.Fprintf(&b, "Total trend = %.4f\n", s.TotalTrend)
	fmt.Fprintf(&b, "Original rise, drop = %.4f %.4f\n", s.OriginalRiseThreshold, s.OriginalDropThreshold)
	fmt.Fprintf(&b, "Original nlong = %d\n", s.OriginalLongCount)
	fmt.Fprintf(&b, "Original return = %.4f\n", s.OriginalReturn)
	fmt.Fprintf(&b, "Trend component = %.4f\n", s.OriginalTrendComponent)
	fmt.Fprintf(&b, "Training bias = %.4f\n", s.MeanTrainingBias)
	fmt.Fprintf(&b, "Skill = %.4f\n", s.Skill)
	fmt.Fprintf(&b, "Unbiased return = %.4f\n", s.UnbiasedReturn)

	return b.String()
}
