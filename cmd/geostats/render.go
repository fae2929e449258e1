package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/andreiashu/geostats"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

var tableHeaders = []string{"Short", "Name", "Value", "Population", "Languages", "Timezones"}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	sepStyle    = lipgloss.NewStyle().Faint(true)
)

func render(w io.Writer, format string, entries []geostats.Entry) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("encoding entries: %w", err)
		}
		return nil
	case formatTable:
		_, err := io.WriteString(w, renderTable(entries))
		return err
	}
	return fmt.Errorf("unknown format %q: want %s or %s", format, formatJSON, formatTable)
}

func tableRow(e geostats.Entry) []string {
	return []string{
		e.ShortName,
		e.LongName,
		formatNumber(e.Value),
		formatNumber(e.Metadata.TotalPopulation),
		strings.Join(e.Metadata.Languages, ", "),
		strings.Join(e.Metadata.Timezones, ", "),
	}
}

// renderTable renders entries as a padded, pipe-separated table.
func renderTable(entries []geostats.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, tableRow(e))
	}

	// Calculate column widths
	colWidths := make([]int, len(tableHeaders))
	for i, h := range tableHeaders {
		colWidths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}
	// lipgloss Width includes padding
	for i := range colWidths {
		colWidths[i] += 2
	}

	var sb strings.Builder
	writeRow := func(style lipgloss.Style, row []string) {
		for i, cell := range row {
			sb.WriteString(style.Width(colWidths[i]).Render(cell))
			if i < len(row)-1 {
				sb.WriteString(sepStyle.Render("|"))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(headerStyle, tableHeaders)

	totalWidth := len(colWidths) - 1
	for _, w := range colWidths {
		totalWidth += w
	}
	sb.WriteString(sepStyle.Render(strings.Repeat("-", totalWidth)) + "\n")

	for _, row := range rows {
		writeRow(cellStyle, row)
	}
	return sb.String()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
