package chart

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/rotisserie/eris"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/marcusziade/gpqatracker/pkg/models"
)

const (
	// XAxisLabel is the label under the score axis.
	XAxisLabel = "GPQA Diamond accuracy (%)"
	// Title is drawn above the bars.
	Title = "Frontier model GPQA Diamond scores"

	axisMin      = 60.0
	minAxisMax   = 92.0
	axisHeadroom = 2.0
	labelOffset  = 0.4
)

var providerColors = map[string]string{
	"OpenAI":    "#0b70ff",
	"Google":    "#e59b0f",
	"xAI":       "#1a1a1a",
	"Anthropic": "#8c4bff",
	"Unknown":   "#5c6b73",
}

// Options controls the output image.
type Options struct {
	Path   string
	Width  vg.Length
	Height vg.Length
	DPI    int
}

// DefaultOptions returns a 6.5x4 inch, 220 dpi PNG written to path.
func DefaultOptions(path string) Options {
	return Options{
		Path:   path,
		Width:  6.5 * vg.Inch,
		Height: 4 * vg.Inch,
		DPI:    220,
	}
}

// Sorted returns the records ordered by ascending score. Equal scores are
// ordered by model name so the chart is stable between runs.
func Sorted(s models.Store) []models.ScoreRecord {
	records := s.Records()
	sort.Slice(records, func(i, j int) bool {
		if records[i].Score != records[j].Score {
			return records[i].Score < records[j].Score
		}
		return records[i].Model < records[j].Model
	})
	return records
}

// Bounds returns the score axis range: a fixed floor of 60 and a ceiling of
// the best score plus 2, but never below 92.
func Bounds(records []models.ScoreRecord) (float64, float64) {
	upper := minAxisMax
	for _, r := range records {
		upper = math.Max(upper, r.Score+axisHeadroom)
	}
	return axisMin, upper
}

// ColorFor maps a provider to its bar colour. Unrecognised providers get the
// neutral "Unknown" colour.
func ColorFor(provider string) color.Color {
	hex, ok := providerColors[provider]
	if !ok {
		hex = providerColors["Unknown"]
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.Gray{Y: 0x80}
	}
	return c
}

// Label formats a score the way it is annotated on its bar.
func Label(score float64) string {
	return fmt.Sprintf("%.1f%%", score)
}

// Build lays out the chart for s without writing anything.
func Build(s models.Store) (*plot.Plot, error) {
	records := Sorted(s)
	if len(records) == 0 {
		return nil, eris.New("chart: store has no records")
	}

	p := plot.New()
	p.Title.Text = Title
	p.Title.Padding = vg.Points(12)
	p.X.Label.Text = XAxisLabel

	grid := plotter.NewGrid()
	grid.Horizontal.Color = nil
	grid.Vertical.Color = color.NRGBA{A: 0x59}
	grid.Vertical.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(grid)

	names := make([]string, len(records))
	xys := make(plotter.XYs, len(records))
	labels := make([]string, len(records))
	for i, r := range records {
		bar, err := plotter.NewBarChart(plotter.Values{r.Score}, vg.Points(18))
		if err != nil {
			return nil, eris.Wrapf(err, "chart: bar for %s", r.Model)
		}
		bar.Horizontal = true
		bar.XMin = float64(i)
		bar.Color = ColorFor(r.Provider)
		bar.LineStyle.Width = 0
		p.Add(bar)

		names[i] = r.Model
		xys[i] = plotter.XY{X: r.Score + labelOffset, Y: float64(i)}
		labels[i] = Label(r.Score)
	}

	annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, eris.Wrap(err, "chart: labels")
	}
	for i := range annotations.TextStyle {
		annotations.TextStyle[i].Font.Size = vg.Points(9)
		annotations.TextStyle[i].YAlign = text.YCenter
	}
	p.Add(annotations)

	p.NominalY(names...)
	p.X.Min, p.X.Max = Bounds(records)
	p.Y.Min = -0.5
	p.Y.Max = float64(len(records)) - 0.5

	return p, nil
}

// Render draws s and writes a PNG to opts.Path, creating parent
// directories as needed.
func Render(s models.Store, opts Options) error {
	p, err := Build(s)
	if err != nil {
		return err
	}

	canvas := vgimg.NewWith(vgimg.UseWH(opts.Width, opts.Height), vgimg.UseDPI(opts.DPI))
	p.Draw(draw.New(canvas))

	dir := filepath.Dir(opts.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "chart: create dir %s", dir)
	}

	f, err := os.Create(opts.Path)
	if err != nil {
		return eris.Wrapf(err, "chart: create %s", opts.Path)
	}
	if _, err := (vgimg.PngCanvas{Canvas: canvas}).WriteTo(f); err != nil {
		_ = f.Close()
		return eris.Wrapf(err, "chart: encode %s", opts.Path)
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "chart: close %s", opts.Path)
	}
	return nil
}
