package reporting

import (
	"fmt"
	"strings"

	"mcpt-lab/internal/domain"
)

// RenderRunsCSV renders archived runs as a CSV string.
func RenderRunsCSV(runs []*domain.RunRecord) string {
	var sb strings.Builder

	// Header
	sb.WriteString("run_id,dataset,lookback,replications,seed,prices,")
	sb.WriteString("p_value,total_trend,original_return,original_trend_component,original_nlong,")
	sb.WriteString("rise_threshold,drop_threshold,mean_training_bias,unbiased_return,skill,created_at\n")

	// Rows
	for _, r := range runs {
		sb.WriteString(fmt.Sprintf("%s,%s,%d,%d,%d,%d,%.6f,%.6f,%.6f,%.6f,%d,%.4f,%.4f,%.6f,%.6f,%.6f,%d\n",
			r.RunID,
			r.Dataset,
			r.Lookback,
			r.Replications,
			r.Seed,
			r.Prices,
			r.PValue,
			r.TotalTrend,
			r.OriginalReturn,
			r.OriginalTrendComponent,
			r.OriginalLongCount,
			r.OriginalRiseThreshold,
			r.OriginalDropThreshold,
			r.MeanTrainingBias,
			r.UnbiasedReturn,
			r.Skill,
			r.CreatedAt,
		))
	}

	return sb.String()
}
