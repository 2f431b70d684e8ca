package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// column describes one table column. Numeric columns are right aligned.
type column struct {
	title   string
	numeric bool
}

var studentColumns = []column{
	{title: ""},
	{title: "ID", numeric: true},
	{title: "Name"},
	{title: "CW1", numeric: true},
	{title: "CW2", numeric: true},
	{title: "CW3", numeric: true},
	{title: "Exam", numeric: true},
	{title: "Total", numeric: true},
	{title: "Percent", numeric: true},
	{title: "Grade"},
}

var statsColumns = []column{
	{title: "Metric"},
	{title: "Value", numeric: true},
}

// renderTable draws rows under columns. Short rows are padded; a non-empty
// footer is printed as a caption below the table.
func renderTable(columns []column, rows [][]string, footer string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.title
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft}
		if col.numeric {
			configs[i].Align = text.AlignRight
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range r {
			r[i] = ""
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	if footer != "" {
		tw.SetCaption("%s", footer)
	}
	return tw.Render() + "\n"
}
