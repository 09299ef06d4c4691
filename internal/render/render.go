// Package render draws traces, frame tables and reports for the terminal.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/me/cpusim/internal/replay"
	"github.com/me/cpusim/pkg/model"
)

// Colors
var (
	green  = lipgloss.Color("#00CC66")
	yellow = lipgloss.Color("#E5C07B")
	red    = lipgloss.Color("#FF0000")
	stone  = lipgloss.Color("#57534E")
	muted  = lipgloss.Color("#666666")
	white  = lipgloss.Color("#FFFFFF")
)

type cell struct {
	glyph string
	style lipgloss.Style
}

// Renderer formats simulation output. Styles are bound to one lipgloss
// renderer so the color profile follows the destination writer.
type Renderer struct {
	title lipgloss.Style
	label lipgloss.Style
	muted lipgloss.Style
	cells map[model.CellState]cell
}

// New creates a Renderer that detects the color profile of w.
func New(w io.Writer) *Renderer {
	return NewWithRenderer(lipgloss.NewRenderer(w))
}

// NewWithRenderer creates a Renderer on an existing lipgloss renderer.
func NewWithRenderer(lr *lipgloss.Renderer) *Renderer {
	return &Renderer{
		title: lr.NewStyle().Bold(true).Foreground(white),
		label: lr.NewStyle().Foreground(muted),
		muted: lr.NewStyle().Foreground(muted),
		cells: map[model.CellState]cell{
			model.CellRunning:  {"█", lr.NewStyle().Foreground(green)},
			model.CellWaiting:  {"░", lr.NewStyle().Foreground(yellow)},
			model.CellOverhead: {"▓", lr.NewStyle().Foreground(red)},
			model.CellLate:     {"▒", lr.NewStyle().Foreground(stone)},
			model.CellAbsent:   {"·", lr.NewStyle().Foreground(muted)},
		},
	}
}

// Gantt draws one row per process, one column per tick.
func (r *Renderer) Gantt(trace *model.Trace, processes []model.Process) string {
	ids := make([]model.ProcessID, 0, len(processes))
	for _, p := range processes {
		ids = append(ids, p.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	width := 0
	for _, id := range ids {
		width = max(width, len(fmt.Sprintf("P%d", id)))
	}
	width += 2

	var b strings.Builder
	b.WriteString(r.title.Render(fmt.Sprintf("Gantt (%s)", trace.Policy)))
	b.WriteByte('\n')

	n := trace.Length()
	if n > 10 {
		var tens strings.Builder
		for t := 0; t < n; t++ {
			if t%10 == 0 {
				fmt.Fprintf(&tens, "%d", (t/10)%10)
			} else {
				tens.WriteByte(' ')
			}
		}
		b.WriteString(strings.Repeat(" ", width) + r.muted.Render(tens.String()) + "\n")
	}
	var units strings.Builder
	for t := 0; t < n; t++ {
		fmt.Fprintf(&units, "%d", t%10)
	}
	b.WriteString(strings.Repeat(" ", width) + r.muted.Render(units.String()) + "\n")

	for _, id := range ids {
		b.WriteString(fmt.Sprintf("%-*s", width, fmt.Sprintf("P%d", id)))
		for _, e := range trace.Entries {
			c := r.cells[e.Cell(id)]
			b.WriteString(c.style.Render(c.glyph))
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	legend := []model.CellState{model.CellRunning, model.CellWaiting, model.CellOverhead, model.CellLate, model.CellAbsent}
	parts := make([]string, len(legend))
	for i, s := range legend {
		c := r.cells[s]
		parts[i] = c.style.Render(c.glyph) + " " + r.muted.Render(string(s))
	}
	b.WriteString(strings.Join(parts, "  "))
	b.WriteByte('\n')
	return b.String()
}

// Outcomes draws the per-process result table.
func (r *Renderer) Outcomes(trace *model.Trace) string {
	var b strings.Builder
	b.WriteString(r.label.Render(fmt.Sprintf("%-6s %7s %7s %9s %10s %7s %8s %6s",
		"ID", "ARRIVAL", "SERVICE", "COMPLETE", "TURNAROUND", "WAITING", "RESPONSE", "MISSED")))
	b.WriteByte('\n')
	for _, o := range trace.Outcomes {
		missed := "no"
		if o.MissedDeadline {
			missed = "yes"
		}
		fmt.Fprintf(&b, "%-6s %7d %7d %9d %10d %7d %8d %6s\n",
			fmt.Sprintf("P%d", o.ID), o.Arrival, o.Service, o.Completion, o.Turnaround, o.Waiting, o.Response, missed)
	}
	return b.String()
}

// Report draws the aggregate metrics of one run.
func (r *Renderer) Report(rep model.Report) string {
	rows := [][2]string{
		{"Policy", string(rep.Policy)},
		{"Ticks", fmt.Sprintf("%d (busy %d, overhead %d, idle %d)", rep.Ticks, rep.BusyTicks, rep.OverheadTicks, rep.IdleTicks)},
		{"Avg turnaround", fmt.Sprintf("%.2f", rep.AvgTurnaround)},
		{"Avg waiting", fmt.Sprintf("%.2f", rep.AvgWaiting)},
		{"Avg response", fmt.Sprintf("%.2f", rep.AvgResponse)},
		{"CPU utilization", fmt.Sprintf("%.1f%%", rep.CPUUtilization*100)},
		{"Throughput", fmt.Sprintf("%.3f processes/tick", rep.Throughput)},
		{"Deadline misses", fmt.Sprintf("%d", rep.DeadlineMisses)},
		{"Page faults", fmt.Sprintf("%d", rep.PageFaults)},
	}
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(r.label.Render(fmt.Sprintf("%-17s", row[0])))
		b.WriteString(row[1])
		b.WriteByte('\n')
	}
	return b.String()
}

// Compare draws one line per policy.
func (r *Renderer) Compare(results []model.Comparison) string {
	var b strings.Builder
	b.WriteString(r.label.Render(fmt.Sprintf("%-6s %6s %9s %8s %8s %7s %8s %6s %6s",
		"POLICY", "TICKS", "AVG TAT", "AVG WAIT", "AVG RESP", "UTIL", "OVERHEAD", "MISSES", "FAULTS")))
	b.WriteByte('\n')
	for _, c := range results {
		rep := c.Report
		fmt.Fprintf(&b, "%-6s %6d %9.2f %8.2f %8.2f %6.1f%% %8d %6d %6d\n",
			c.Policy, rep.Ticks, rep.AvgTurnaround, rep.AvgWaiting, rep.AvgResponse,
			rep.CPUUtilization*100, rep.OverheadTicks, rep.DeadlineMisses, rep.PageFaults)
	}
	return b.String()
}

const memoryColumns = 10

// Memory draws the frame table as a grid, ten frames per line.
func (r *Renderer) Memory(frames []model.Page, faults int) string {
	occupied := 0
	for _, f := range frames {
		if !f.Free() {
			occupied++
		}
	}

	var b strings.Builder
	b.WriteString(r.title.Render("Memory"))
	b.WriteString(r.muted.Render(fmt.Sprintf("  %d/%d frames, %d faults", occupied, len(frames), faults)))
	b.WriteByte('\n')
	for i, f := range frames {
		text := "--"
		style := r.muted
		if !f.Free() {
			text = fmt.Sprintf("P%d:%d", f.Process, f.Index)
			style = r.cells[model.CellRunning].style
		}
		b.WriteString(style.Render(fmt.Sprintf("%-8s", text)))
		if (i+1)%memoryColumns == 0 || i == len(frames)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Tick draws a one-line status for a replay frame.
func (r *Renderer) Tick(f replay.Frame) string {
	var status string
	switch {
	case f.Entry.IsOverhead():
		status = r.cells[model.CellOverhead].style.Render(fmt.Sprintf("context switch (P%d)", *f.Entry.Overhead))
	case f.Entry.IsIdle():
		status = r.muted.Render("idle")
	default:
		id, _ := f.Entry.Running()
		st := model.CellRunning
		if f.Entry.Late {
			st = model.CellLate
		}
		status = r.cells[st].style.Render(fmt.Sprintf("running P%d", id))
	}

	waiting := f.Entry.Waiting()
	names := make([]string, len(waiting))
	for i, id := range waiting {
		names[i] = fmt.Sprintf("P%d", id)
	}
	line := fmt.Sprintf("%s %s", r.title.Render(fmt.Sprintf("t=%-4d", f.Tick)), status)
	if len(names) > 0 {
		line += r.muted.Render("  ready: " + strings.Join(names, " "))
	}
	if f.NewFaults > 0 {
		line += r.muted.Render(fmt.Sprintf("  +%d faults", f.NewFaults))
	}
	return line + "\n"
}
