package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/twiced-technology-gmbh/tasklines/internal/board"
	"github.com/twiced-technology-gmbh/tasklines/internal/date"
	"github.com/twiced-technology-gmbh/tasklines/internal/task"
)

const (
	maxDescriptionWidth = 50
	maxTagsWidth        = 30
	markdownWrapWidth   = 80
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	// Status colors aligned with the TUI palette.
	statusStyles = map[string]lipgloss.Style{
		"todo":        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		"in-progress": lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		"done":        lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		"cancelled":   lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true),
		"non-task":    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}

	priorityStyles = map[string]lipgloss.Style{
		"highest": lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		"high":    lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		"medium":  lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		"low":     lipgloss.NewStyle().Foreground(lipgloss.Color("110")),
		"lowest":  lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}

	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	markdownStyle = "dark"
)

// DisableColor strips all styling from table output.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	statusStyles = map[string]lipgloss.Style{}
	priorityStyles = map[string]lipgloss.Style{}
	tagStyle = lipgloss.NewStyle()
	overdueStyle = lipgloss.NewStyle()
	markdownStyle = "notty"
}

// Location renders the one-based "path:line" of t.
func Location(t task.Task) string {
	return t.Path + ":" + strconv.Itoa(t.LineNumber+1)
}

// TaskTable renders a list of tasks as a formatted table.
func TaskTable(w io.Writer, tasks []task.Task, today date.Date) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	const pad = 2
	locW, statusW, prioW, descW, tagsW, dueW := 10, 8, 10, 13, 6, 12
	for _, t := range tasks {
		locW = max(locW, len(Location(t))+pad)
		statusW = max(statusW, len(t.Status.String())+pad)
		prioW = max(prioW, len(t.Priority.String())+pad)
		descW = max(descW, min(lipgloss.Width(t.Description)+pad, maxDescriptionWidth))
		tagsW = max(tagsW, min(len(strings.Join(t.Tags, ","))+pad, maxTagsWidth))
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s %s",
		locW, "LOCATION", statusW, "STATUS", prioW, "PRIORITY",
		descW, "DESCRIPTION", tagsW, "TAGS", dueW, "DUE", "RECURS")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, t := range tasks {
		desc := truncate(t.Description, maxDescriptionWidth-pad)
		tags := strings.Join(t.Tags, ",")
		if tags == "" {
			tags = dimStyle.Render("--")
		} else {
			tags = tagStyle.Render(truncate(tags, maxTagsWidth-pad))
		}
		due := dimStyle.Render("--")
		if t.DueDate != nil {
			due = t.DueDate.String()
			if board.IsOverdue(t, today) {
				due = overdueStyle.Render(due)
			}
		}
		recurs := dimStyle.Render("--")
		if t.Recurrence != nil {
			recurs = t.Recurrence.String()
		}

		row := fmt.Sprintf("%s %s %s %s %s %s %s",
			padRight(Location(t), locW),
			padRight(styledValue(t.Status.String(), statusStyles), statusW),
			padRight(styledValue(t.Priority.String(), priorityStyles), prioW),
			padRight(desc, descW),
			padRight(tags, tagsW),
			padRight(due, dueW),
			recurs)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail. The description is
// rendered as markdown.
func TaskDetail(w io.Writer, t task.Task, line string) {
	title := Location(t)
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(title))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(title)))

	status := styledValue(t.Status.String(), statusStyles)
	if t.HasCheckbox {
		status += dimStyle.Render(" [" + string(t.StatusSymbol) + "]")
	}
	printField(w, "Status", status)
	printField(w, "Priority", styledValue(t.Priority.String(), priorityStyles))
	if len(t.Tags) > 0 {
		printField(w, "Tags", tagStyle.Render(strings.Join(t.Tags, ", ")))
	} else {
		printField(w, "Tags", dimStyle.Render("--"))
	}
	for _, f := range task.DateFields {
		if d := t.Date(f); d != nil {
			printField(w, capitalize(f.String()), d.String())
		}
	}
	if t.Recurrence != nil {
		printField(w, "Recurrence", t.Recurrence.String())
	}
	if t.BlockLink != "" {
		printField(w, "Block link", t.BlockLink)
	}
	printField(w, "Filtered", strconv.FormatBool(t.GlobalFilterPresent))
	printField(w, "Line", line)

	if t.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, RenderMarkdown(t.Description))
	}
}

// RenderMarkdown renders md for the terminal. It falls back to the raw
// text when the renderer fails.
func RenderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(markdownStyle),
		glamour.WithWordWrap(markdownWrapWidth),
	)
	if err != nil {
		return md + "\n"
	}
	out, err := r.Render(md)
	if err != nil {
		return md + "\n"
	}
	return out
}

// OverviewTable renders a summary of task counts.
func OverviewTable(w io.Writer, s board.Overview) {
	fmt.Fprintf(w, "Total: %d tasks (%d recurring)\n\n", s.TotalTasks, s.Recurring)

	header := fmt.Sprintf("%-16s %6s %8s", "STATUS", "COUNT", "OVERDUE")
	fmt.Fprintln(w, headerStyle.Render(header))

	const colW = 16
	for _, ss := range s.Statuses {
		fmt.Fprintf(w, "%s %6d %8d\n",
			padRight(styledValue(ss.Status, statusStyles), colW), ss.Count, ss.Overdue)
	}

	fmt.Fprintln(w)
	prioHeader := fmt.Sprintf("%-16s %6s", "PRIORITY", "COUNT")
	fmt.Fprintln(w, headerStyle.Render(prioHeader))

	for _, pc := range s.Priorities {
		fmt.Fprintf(w, "%s %6d\n",
			padRight(styledValue(pc.Priority, priorityStyles), colW), pc.Count)
	}
}

// GroupedTable renders a grouped view with per-group status breakdowns.
func GroupedTable(w io.Writer, gs board.GroupedSummary) {
	if len(gs.Groups) == 0 {
		fmt.Fprintln(os.Stderr, "No groups found.")
		return
	}

	for i, g := range gs.Groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		title := fmt.Sprintf("%s (%d tasks)", g.Key, g.Total)
		fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(title))

		for _, ss := range g.Statuses {
			if ss.Count == 0 {
				continue
			}
			const groupStatusW = 16
			fmt.Fprintf(w, "  %s %d\n",
				padRight(styledValue(ss.Status, statusStyles), groupStatusW), ss.Count)
		}
	}
}

// LineResultsTable renders the outcome of line rewrites.
func LineResultsTable(w io.Writer, results []LineResult) {
	for _, r := range results {
		switch {
		case !r.OK:
			fmt.Fprintf(w, "%s: %s\n", r.Location, r.Error)
		case !r.Changed:
			fmt.Fprintf(w, "%s %s\n", r.Location, dimStyle.Render("(unchanged)"))
		default:
			fmt.Fprintln(w, headerStyle.Render(r.Location))
			if r.Before != "" {
				fmt.Fprintln(w, dimStyle.Render("  - "+r.Before))
			}
			for _, l := range r.Lines {
				fmt.Fprintln(w, "  + "+l)
			}
		}
	}
}

// LogTable renders activity log entries, one per line. Multi-line details
// are shown on the first line only.
func LogTable(w io.Writer, entries []board.LogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No activity recorded.")
		return
	}
	const actionW = 10
	for _, e := range entries {
		loc := e.Path
		if e.Line > 0 {
			loc += ":" + strconv.Itoa(e.Line)
		}
		detail, _, _ := strings.Cut(e.Detail, "\n")
		fmt.Fprintf(w, "%s  %s %s  %s\n",
			dimStyle.Render(e.Timestamp.Format("2006-01-02 15:04")),
			padRight(e.Action, actionW),
			headerStyle.Render(loc),
			truncate(detail, maxDescriptionWidth+maxTagsWidth))
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes and wide emoji.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	const ellipsis = 3
	return string(r[:n-ellipsis]) + "..."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// styledValue renders s using a matching style from the map, or returns s unchanged.
func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}
