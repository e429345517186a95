package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	pruerrors "pru/pkg/errors"
)

// View renders the fetch panel
func (m *Model) View() string {
	title := titleStyle.Render(fmt.Sprintf(" %s RAW IMAGES ", strings.ToUpper(m.mission)))

	status := m.spinner.View() + " fetching"
	switch {
	case m.done && m.err == nil:
		status = successStyle.Render("✓ done")
	case m.done && errors.Is(m.err, pruerrors.ErrSkippingFile):
		status = warningStyle.Render("• nothing new to download")
	case m.done:
		status = errorStyle.Render("✗ " + m.err.Error())
	}

	lines := []string{
		title,
		status,
		m.bar.ViewAs(m.Percent()),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Images:"), statsValueStyle.Render(fmt.Sprintf("%d/%d", m.processed, m.total))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Elapsed:"), statsValueStyle.Render(formatDuration(time.Since(m.startTime)))),
	}
	for _, id := range m.recent {
		lines = append(lines, recentStyle.Render("✓ "+id))
	}

	panel := panelStyle
	if m.width > 4 {
		panel = panel.Width(m.width - 4)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)),
		helpStyle.Render("q to quit"),
	) + "\n"
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < 0 {
		return "00:00"
	}

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
