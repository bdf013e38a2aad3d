package scores

import "github.com/marcusziade/gpqatracker/pkg/models"

// MaxDelta is the largest jump, in percentage points, accepted against a
// previously stored score.
const MaxDelta = 5.0

// Source is a page to fetch plus the model names to look for in it
type Source struct {
	Name       string
	URL        string
	Candidates []string
}

var sources = []Source{
	{
		Name:       "vals_ai_2025-09-20",
		URL:        "https://www.vals.ai/benchmarks/gpqa-09-20-2025",
		Candidates: []string{"Grok 4", "GPT-5", "Gemini 2.5 Pro"},
	},
	{
		Name: "moneycontrol_gemini3_announce",
		URL: "https://www.moneycontrol.com/technology/" +
			"google-gemini-3-0-announced-here-s-how-it-compares-to-gemini-2-5-pro-and-gpt-5-1-article-13683635.html",
		Candidates: []string{"Gemini 3.0", "Gemini 2.5 Pro", "GPT-5.1"},
	},
	{
		Name:       "the_decoder_gpt5.1_launch",
		URL:        "https://the-decoder.com/openai-launches-gpt-5-1-api-with-improved-coding-capabilities-and-new-developer-features/",
		Candidates: []string{"GPT-5.1", "GPT-5"},
	},
}

var providerByModel = map[string]string{
	"Gemini 3.0":     "Google",
	"Gemini 2.5 Pro": "Google",
	"GPT-5.1":        "OpenAI",
	"GPT-5":          "OpenAI",
	"Grok 4":         "xAI",
}

var seedScores = map[string]float64{
	"Gemini 3.0":     91.9,
	"GPT-5.1":        88.1,
	"Grok 4":         88.1,
	"Gemini 2.5 Pro": 86.4,
	"GPT-5":          85.6,
}

// Sources returns a copy of the built-in source list.
func Sources() []Source {
	out := make([]Source, len(sources))
	for i, s := range sources {
		s.Candidates = append([]string(nil), s.Candidates...)
		out[i] = s
	}
	return out
}

// ProviderFor returns the organisation behind a model, or "Unknown".
func ProviderFor(model string) string {
	if p, ok := providerByModel[model]; ok {
		return p
	}
	return models.UnknownProvider
}

// Seed builds a store from the fallback table, every record marked as seed data.
func Seed(asOf string) models.Store {
	store := make(models.Store, len(seedScores))
	for name, score := range seedScores {
		store[name] = models.ScoreRecord{
			Model:    name,
			Provider: ProviderFor(name),
			Score:    score,
			AsOf:     asOf,
			Source:   models.SeedSource,
		}
	}
	return store
}
