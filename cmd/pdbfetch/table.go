package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"pdbfetch/internal/fetcher"
)

var summaryHeaders = table.Row{"PDB ID", "Outcome", "Size", "Detail"}

// renderSummaryTable lists every processed identifier in input order with a
// totals footer.
func renderSummaryTable(results []fetcher.Result) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(summaryHeaders)

	for _, r := range results {
		size := ""
		if r.Outcome == fetcher.OutcomeDownloaded {
			size = formatBytes(r.Bytes)
		}
		detail := r.Path
		if r.Err != nil {
			detail = r.Err.Error()
		}
		tw.AppendRow(table.Row{r.ID, r.Outcome.String(), size, detail})
	}

	summary := fetcher.Summarize(results)
	tw.AppendFooter(table.Row{
		fmt.Sprintf("%d total", summary.Total),
		fmt.Sprintf("%d downloaded, %d skipped, %d failed", summary.Downloaded, summary.Skipped, summary.Failed),
		"",
		"",
	})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}
