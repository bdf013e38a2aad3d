package main

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/marcusziade/gpqatracker/pkg/chart"
	"github.com/marcusziade/gpqatracker/pkg/collector"
	"github.com/marcusziade/gpqatracker/pkg/db"
	"github.com/marcusziade/gpqatracker/pkg/models"
)

// bestFirst orders records by descending score, ties by model name, the
// same order the sqlite mirror lists them in.
func bestFirst(s models.Store) []models.ScoreRecord {
	records := s.Records()
	slices.SortFunc(records, func(a, b models.ScoreRecord) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Model, b.Model)
	})
	return records
}

// summaryRecords returns the rows for the summary table. After a change they
// are read back from the mirror when one is configured.
func summaryRecords(res *collector.Result, mirror *db.DB) ([]models.ScoreRecord, error) {
	if mirror == nil || !res.Changed {
		return bestFirst(res.Store), nil
	}
	return mirror.ListRecords()
}

// renderSummary prints records, already best-first, followed by a one-line
// tally of the run.
func renderSummary(res *collector.Result, records []models.ScoreRecord) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Model", "Provider", "Score", "As of", "Source"})

	for _, r := range records {
		tw.AppendRow(table.Row{r.Model, r.Provider, chart.Label(r.Score), r.AsOf, r.Source})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	var b strings.Builder
	b.WriteString(tw.Render())
	b.WriteString("\n")
	fmt.Fprintf(&b, "accepted %d, rejected %d", res.Accepted, res.Rejected)
	if len(res.Failed) > 0 {
		fmt.Fprintf(&b, ", failed sources: %s", strings.Join(res.Failed, ", "))
	}
	switch {
	case res.Seeded:
		b.WriteString(" (seeded)")
	case !res.Changed:
		b.WriteString(" (unchanged)")
	}
	return b.String()
}
