package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/muesli/termenv"

	"pru/pkg/metadata"
)

// ProgressDisplay renders a single-line progress bar driven by the fetch
// callbacks. Lines are only redrawn when the writer is a terminal.
type ProgressDisplay struct {
	mu        sync.Mutex
	w         io.Writer
	bar       progress.Model
	label     string
	total     int
	processed int
	current   string
	startTime time.Time
	redraw    bool
}

// NewProgressDisplay creates a progress display writing to w
func NewProgressDisplay(w io.Writer, label string) *ProgressDisplay {
	opts := []progress.Option{progress.WithWidth(30), progress.WithoutPercentage()}
	if noColor {
		opts = append(opts, progress.WithColorProfile(termenv.Ascii))
	} else {
		opts = append(opts, progress.WithDefaultGradient())
	}
	return &ProgressDisplay{
		w:         w,
		bar:       progress.New(opts...),
		label:     label,
		startTime: time.Now(),
		redraw:    IsTerminal(w),
	}
}

// SetTotal is the on_total callback
func (p *ProgressDisplay) SetTotal(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
	p.print()
}

// Increment is the on_progress callback
func (p *ProgressDisplay) Increment(rec metadata.Metadata) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processed++
	p.current = rec.ImageID
	p.print()
}

// Processed returns how many records have been reported
func (p *ProgressDisplay) Processed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.processed
}

// Total returns the last total reported
func (p *ProgressDisplay) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

func (p *ProgressDisplay) fraction() float64 {
	if p.total <= 0 {
		return 0
	}
	return min(float64(p.processed)/float64(p.total), 1)
}

func (p *ProgressDisplay) line() string {
	line := fmt.Sprintf("%s %s %d/%d", Cyan(p.label), p.bar.ViewAs(p.fraction()), p.processed, p.total)
	if p.current != "" {
		line += " " + Dim(p.current)
	}
	return line
}

func (p *ProgressDisplay) print() {
	if !p.redraw {
		return
	}
	fmt.Fprintf(p.w, "\r%s\r%s", strings.Repeat(" ", 100), p.line())
}

// Complete prints the final summary line
func (p *ProgressDisplay) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.redraw {
		fmt.Fprintln(p.w)
	}
	fmt.Fprintf(p.w, "%s Processed %d of %d images in %s\n",
		Green("✓"),
		p.processed,
		p.total,
		formatDuration(time.Since(p.startTime)),
	)
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
