package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"pru/pkg/instruments"
	"pru/pkg/metadata"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

// WriteListing prints one row per record followed by a total line.
func WriteListing(w io.Writer, records []metadata.Metadata) error {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		}).
		Headers("IMAGE ID", "INSTRUMENT", "FILTER", "TAKEN (UTC)", "RECEIVED", "SIZE", "URL")

	for _, r := range records {
		t.Row(
			r.ImageID,
			r.Instrument,
			fmt.Sprintf("%d %s", r.Filter, r.FilterName),
			r.DateTakenUTC,
			r.DateReceived,
			r.Dimensions(),
			r.URL,
		)
	}

	if len(records) > 0 {
		if _, err := fmt.Fprintln(w, t.String()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d images found\n", len(records))
	return err
}

// WriteInstruments prints the mission's instrument codes.
func WriteInstruments(w io.Writer, mission string, m instruments.Map) error {
	if _, err := fmt.Fprintf(w, "%s instruments:\n", mission); err != nil {
		return err
	}
	return m.Print(w)
}
