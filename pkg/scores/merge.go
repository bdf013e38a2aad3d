package scores

import (
	"math"

	"github.com/marcusziade/gpqatracker/pkg/models"
)

// MergeStats counts what happened to each update in a merge
type MergeStats struct {
	Accepted int
	Rejected int
}

// Merge applies scraped scores from one source on top of existing and returns
// the result. existing is not modified.
//
// A model with no prior score is always accepted. A model whose new score is
// more than MaxDelta away from the stored one keeps its old record; anything
// else overwrites score, date and source.
func Merge(existing models.Store, updates map[string]float64, source, asOf string) (models.Store, MergeStats) {
	merged := existing.Clone()
	var stats MergeStats

	for model, score := range updates {
		if prev, ok := existing[model]; ok && math.Abs(score-prev.Score) > MaxDelta {
			stats.Rejected++
			continue
		}
		merged[model] = models.ScoreRecord{
			Model:    model,
			Provider: ProviderFor(model),
			Score:    score,
			AsOf:     asOf,
			Source:   source,
		}
		stats.Accepted++
	}

	return merged, stats
}
