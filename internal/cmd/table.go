package cmd

import (
	"time"

	"github.com/dendrascience/hashall/hashall"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func renderTable(headers []string, rows [][]string, rightAligned ...int) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, len(rightAligned))
	for _, column := range rightAligned {
		configs = append(configs, table.ColumnConfig{
			Number:      column,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func renderSummary(s hashall.Summary, elapsed time.Duration) string {
	rows := [][]string{
		{"jobs", humanize.Comma(s.Jobs)},
		{"files", humanize.Comma(s.Files)},
		{"archives", humanize.Comma(s.Archives)},
		{"archive entries", humanize.Comma(s.Entries)},
		{"bytes hashed", humanize.IBytes(uint64(s.Bytes))},
		{"failed", humanize.Comma(s.Failed)},
		{"elapsed", elapsed.Round(time.Millisecond).String()},
	}
	return renderTable([]string{"Metric", "Value"}, rows, 2)
}
