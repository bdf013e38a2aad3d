package client

import (
	"fmt"
	"regexp"
	"strconv"
)

// maxGap is how many non-digit characters may separate a model name from
// its score.
const maxGap = 40

// ExtractScores looks for each name in text followed, within maxGap
// non-digit characters, by a percentage such as "85%" or "85.6%". Matching
// is case-insensitive and only the first hit per name is kept. Names with no
// hit are absent from the result.
//
// This is a heuristic. Pages that mention a model next to an unrelated
// percentage will produce a wrong value; the merge tolerance is what guards
// against that.
func ExtractScores(text string, names []string) map[string]float64 {
	scores := make(map[string]float64)

	for _, name := range names {
		if name == "" {
			continue
		}
		re := scorePattern(name)
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		score, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		scores[name] = score
	}

	return scores
}

func scorePattern(name string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?i)%s[^0-9]{0,%d}(\d{1,2}(?:\.\d)?)%%`, regexp.QuoteMeta(name), maxGap))
}
