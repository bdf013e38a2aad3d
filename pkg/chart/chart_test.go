package chart

import (
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcusziade/gpqatracker/pkg/models"
)

func twoModels() models.Store {
	return models.Store{
		"Gemini 3.0": {Model: "Gemini 3.0", Provider: "Google", Score: 91.9, AsOf: "2025-11-20", Source: "seed"},
		"GPT-5":      {Model: "GPT-5", Provider: "OpenAI", Score: 85.6, AsOf: "2025-11-20", Source: "seed"},
	}
}

func TestSorted(t *testing.T) {
	s := twoModels()
	s["Grok 4"] = models.ScoreRecord{Model: "Grok 4", Provider: "xAI", Score: 88.1}
	s["GPT-5.1"] = models.ScoreRecord{Model: "GPT-5.1", Provider: "OpenAI", Score: 88.1}

	got := Sorted(s)

	var names []string
	for _, r := range got {
		names = append(names, r.Model)
	}
	assert.Equal(t, []string{"GPT-5", "GPT-5.1", "Grok 4", "Gemini 3.0"}, names)
}

func TestBounds(t *testing.T) {
	lo, hi := Bounds(Sorted(twoModels()))
	assert.InDelta(t, 60.0, lo, 1e-9)
	assert.InDelta(t, 93.9, hi, 1e-9)

	_, hi = Bounds([]models.ScoreRecord{{Score: 70}})
	assert.InDelta(t, 92.0, hi, 1e-9)

	_, hi = Bounds([]models.ScoreRecord{{Score: 90}})
	assert.InDelta(t, 92.0, hi, 1e-9)
}

func TestColorFor(t *testing.T) {
	want, err := colorful.Hex("#0b70ff")
	require.NoError(t, err)
	assert.Equal(t, want, ColorFor("OpenAI"))

	unknown, err := colorful.Hex("#5c6b73")
	require.NoError(t, err)
	assert.Equal(t, unknown, ColorFor("Unknown"))
	assert.Equal(t, unknown, ColorFor("Mistral"))
	assert.NotEqual(t, ColorFor("Google"), ColorFor("xAI"))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "85.6%", Label(85.6))
	assert.Equal(t, "90.0%", Label(90))
}

func TestBuild_Layout(t *testing.T) {
	p, err := Build(twoModels())
	require.NoError(t, err)

	assert.Equal(t, XAxisLabel, p.X.Label.Text)
	assert.Equal(t, Title, p.Title.Text)
	assert.InDelta(t, 60.0, p.X.Min, 1e-9)
	assert.InDelta(t, 93.9, p.X.Max, 1e-9)

	ticks := p.Y.Tick.Marker.Ticks(p.Y.Min, p.Y.Max)
	require.Len(t, ticks, 2)
	assert.Equal(t, "GPT-5", ticks[0].Label)
	assert.InDelta(t, 0.0, ticks[0].Value, 1e-9)
	assert.Equal(t, "Gemini 3.0", ticks[1].Label)
	assert.InDelta(t, 1.0, ticks[1].Value, 1e-9)
}

func TestBuild_Empty(t *testing.T) {
	_, err := Build(models.Store{})
	assert.Error(t, err)
}

func TestRender_WritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img", "nested", "chart.png")

	require.NoError(t, Render(twoModels(), DefaultOptions(path)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 1430, cfg.Width)
	assert.Equal(t, 880, cfg.Height)
}

func TestRender_EmptyStoreWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.png")

	err := Render(models.Store{}, DefaultOptions(path))
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
