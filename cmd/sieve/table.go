package main

import (
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"sieve/internal/assess"
)

func renderRunSummary(results []assess.FileResult) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(table.Row{"Input", "Rows", "Include", "Exclude", "Uncertain", "Status"})

	for _, result := range results {
		status := "ok"
		if result.Err != nil {
			status = "failed: " + result.Err.Error()
		}
		tw.AppendRow(table.Row{
			filepath.Base(result.Job.Input),
			formatCount(result.Summary.Rows),
			formatCount(result.Summary.Included),
			formatCount(result.Summary.Excluded),
			formatCount(result.Summary.Uncertain),
			status,
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 6, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}
