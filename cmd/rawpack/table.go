package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"rawpack/internal/walker"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// tableSpec describes a table rendered with the rounded style. Footer is
// optional.
type tableSpec struct {
	headers []string
	rows    [][]string
	aligns  []columnAlignment
	footer  []string
}

func renderTable(spec tableSpec) string {
	columns := len(spec.headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(toRow(spec.headers, columns))
	for _, row := range spec.rows {
		tw.AppendRow(toRow(row, columns))
	}
	if len(spec.footer) > 0 {
		tw.AppendFooter(toRow(spec.footer, columns))
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(spec.aligns) && spec.aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:           i + 1,
			Align:            align,
			AlignHeader:      text.AlignLeft,
			AlignFooter:      align,
			WidthMax:         80,
			WidthMaxEnforcer: text.WrapSoft,
		})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func toRow(values []string, columns int) table.Row {
	row := make(table.Row, columns)
	for i := range columns {
		if i < len(values) {
			row[i] = values[i]
		} else {
			row[i] = ""
		}
	}
	return row
}

func renderSummary(summary walker.Summary) string {
	created := summary.Count(walker.OutcomeCreated)
	exists := summary.Count(walker.OutcomeExists)
	failed := summary.Count(walker.OutcomeFailed)
	return renderTable(tableSpec{
		headers: []string{"Outcome", "Files", "Written"},
		rows: [][]string{
			{string(walker.OutcomeCreated), fmt.Sprint(created), humanize.IBytes(uint64(summary.BytesWritten()))},
			{string(walker.OutcomeExists), fmt.Sprint(exists), "-"},
			{string(walker.OutcomeFailed), fmt.Sprint(failed), "-"},
		},
		aligns: []columnAlignment{alignLeft, alignRight, alignRight},
		footer: []string{"total", fmt.Sprint(len(summary.Results)), summary.Duration.Round(time.Millisecond).String()},
	})
}
