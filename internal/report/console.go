// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package report

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-case-sync/models"
	"github.com/charmbracelet/lipgloss"
)

// Console prints progress events to a writer. One Console may observe
// several passes at once (scheduled workers); lines of different passes are
// never interleaved within a line.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	styles styles

	// done counts finished candidates per running handler.
	done map[string]int
	// total is the candidate count announced at pass start.
	total map[string]int
}

func NewConsole(out io.Writer) *Console {
	return &Console{
		out:    out,
		styles: newStyles(lipgloss.NewRenderer(out)),
		done:   make(map[string]int),
		total:  make(map[string]int),
	}
}

// Observe implements models.ProgressObserver; pass c.Observe as the
// observer of a pass.
func (c *Console) Observe(ev models.ProgressEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev.Kind {
	case models.ProgressPassStarted:
		c.done[ev.Handler] = 0
		c.total[ev.Handler] = ev.Total
		fmt.Fprintf(c.out, "%s %s\n", c.styles.title.Render(ev.Handler), c.styles.faint.Render(candidates(ev.Total)))

	case models.ProgressCandidateDone:
		if ev.Outcome == nil {
			return
		}
		c.done[ev.Handler]++
		fmt.Fprintln(c.out, c.candidateLine(c.done[ev.Handler], c.total[ev.Handler], *ev.Outcome))

	case models.ProgressPassFinished:
		delete(c.done, ev.Handler)
		delete(c.total, ev.Handler)
		if ev.Report != nil {
			fmt.Fprintln(c.out, c.summary(*ev.Report))
		}
	}
}

func (c *Console) candidateLine(n, total int, o models.CandidateOutcome) string {
	var b strings.Builder

	b.WriteString(c.styles.faint.Render(fmt.Sprintf("  [%d/%d]", n, total)))
	b.WriteString(" ")
	b.WriteString(c.styles.status(string(o.Status), o.Status == models.OutcomeFailed, o.Status == models.OutcomeSkipped))
	b.WriteString(" ")
	b.WriteString(o.ObjectID)

	if o.RemoteRef != "" {
		b.WriteString(" -> ")
		b.WriteString(o.RemoteRef)
	}
	if o.Error != "" {
		b.WriteString(": ")
		b.WriteString(o.Error)
	}

	for _, d := range o.Documents {
		if d.Error == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(c.styles.faint.Render(fmt.Sprintf("      document #%d: %s", d.Index, d.Error)))
	}

	return b.String()
}

// Summary renders the final block of a pass report.
func (c *Console) Summary(r models.PassReport) string {
	return c.summary(r)
}

func (c *Console) summary(r models.PassReport) string {
	ok := r.Count(models.OutcomeSynced) + r.Count(models.OutcomePublished)
	lines := []string{
		c.styles.title.Render(fmt.Sprintf("%s (%s)", r.Handler, r.Strategy)),
		fmt.Sprintf("discovered %d, done %d, failed %d, skipped %d",
			r.Discovered, ok, r.Count(models.OutcomeFailed), r.Count(models.OutcomeSkipped)),
		c.styles.faint.Render("took " + r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()),
	}
	return c.styles.summary.Render(strings.Join(lines, "\n"))
}

func candidates(n int) string {
	if n == 1 {
		return "1 candidate"
	}
	return fmt.Sprintf("%d candidates", n)
}
