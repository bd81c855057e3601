// Package tui implements a terminal UI over the task lines of markdown files.
package tui

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/twiced-technology-gmbh/tasklines/internal/board"
	"github.com/twiced-technology-gmbh/tasklines/internal/task"
	"github.com/twiced-technology-gmbh/tasklines/internal/vault"
)

// view represents the current screen state.
type view int

const (
	viewBoard view = iota
	viewEdit
)

// Layout constants.
const (
	boardChrome  = 2 // blank line + status bar below the column area
	errorChrome  = 1 // extra line when error toast is displayed
	cardBorders  = 2 // top and bottom border lines
	cardChrome   = 4 // border (2) + padding (2)
	maxBodyLines = 3
	maxColWidth  = 60
)

// Options wires the board to the files it shows and the task pipeline.
type Options struct {
	Paths         []string
	Parser        *task.Parser
	Serializer    *task.Serializer
	Editor        *task.Editor
	LogPath       string
	RequireFilter bool
}

// Board is the top-level bubbletea model. Tasks are shown in one column per
// status; cards are task lines.
type Board struct {
	opts      Options
	keys      keyMap
	tasks     []task.Task
	columns   []column
	activeCol int
	activeRow int
	view      view
	form      *editForm
	width     int
	height    int
	err       error

	// recent holds the tasks this session last wrote to each file, by
	// line, so date provenance survives a reload.
	recent map[string]map[int]task.Task
}

// column groups tasks belonging to a single status.
type column struct {
	status    task.Status
	tasks     []task.Task
	scrollOff int // first visible row index
}

// NewBoard creates a Board and loads its tasks.
func NewBoard(opts Options) *Board {
	b := &Board{opts: opts, keys: defaultKeyMap()}
	b.loadTasks()
	return b
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		return b, nil
	case ReloadMsg:
		b.loadTasks()
		return b, nil
	case errMsg:
		b.err = msg.err
		return b, nil
	}
	if b.view == viewEdit && b.form != nil {
		return b, b.form.update(msg)
	}
	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.width == 0 {
		return "Loading..."
	}
	if b.view == viewEdit && b.form != nil {
		return b.form.view(b.width)
	}
	return b.viewBoard()
}

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, b.keys.ForceQuit) {
		return b, tea.Quit
	}
	if b.view == viewEdit {
		return b.handleEditKey(msg)
	}
	return b.handleBoardKey(msg)
}

func (b *Board) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keys.Quit):
		return b, tea.Quit
	case key.Matches(msg, b.keys.Left):
		if b.activeCol > 0 {
			b.activeCol--
			b.clampRow()
		}
	case key.Matches(msg, b.keys.Right):
		if b.activeCol < len(b.columns)-1 {
			b.activeCol++
			b.clampRow()
		}
	case key.Matches(msg, b.keys.Down):
		col := b.currentColumn()
		if col != nil && b.activeRow < len(col.tasks)-1 {
			b.activeRow++
			b.ensureVisible()
		}
	case key.Matches(msg, b.keys.Up):
		if b.activeRow > 0 {
			b.activeRow--
			b.ensureVisible()
		}
	case key.Matches(msg, b.keys.Toggle):
		b.toggleSelected()
	case key.Matches(msg, b.keys.Edit):
		if t := b.selectedTask(); t != nil {
			b.form = newEditForm(*t, b.opts.Editor.EditableDescription(*t), b.keys)
			b.view = viewEdit
			return b, b.form.focus()
		}
	}
	return b, nil
}

func (b *Board) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keys.Cancel):
		b.closeForm()
		return b, nil
	case key.Matches(msg, b.keys.Submit):
		b.submitForm()
		return b, nil
	case key.Matches(msg, b.keys.PrevStatus):
		b.form.cycleStatus(-1)
		return b, nil
	case key.Matches(msg, b.keys.NextStatus):
		b.form.cycleStatus(1)
		return b, nil
	}
	return b, b.form.update(msg)
}

func (b *Board) closeForm() {
	b.form = nil
	b.view = viewBoard
}

// submitForm applies the form to the line it was opened on. The form stays
// open with an inline error when the edit is rejected.
func (b *Board) submitForm() {
	f := b.form
	req := task.EditRequest{Description: f.input.Value(), Status: f.selectedStatus()}
	written, lines, err := vault.TryUpdate(f.task.Path, f.task.LineNumber, b.opts.Parser, b.opts.Serializer,
		func(cur task.Task) ([]task.Task, error) {
			if err := vault.CheckUnchanged(cur, f.task.OriginalMarkdown); err != nil {
				return nil, err
			}
			// The line is unchanged, so edit the in-memory task and keep
			// its provenance.
			return b.opts.Editor.Apply(f.task, req)
		})
	if err != nil {
		f.err = err
		return
	}
	board.LogMutation(b.opts.LogPath, "edit", f.task.Path, f.task.LineNumber+1, strings.Join(lines, "\n"))
	b.remember(f.task.Path, f.task.LineNumber, written, lines)
	b.closeForm()
	b.loadTasks()
}

func (b *Board) toggleSelected() {
	t := b.selectedTask()
	if t == nil {
		return
	}
	seen := *t
	written, lines, err := vault.TryUpdate(seen.Path, seen.LineNumber, b.opts.Parser, b.opts.Serializer,
		func(cur task.Task) ([]task.Task, error) {
			if err := vault.CheckUnchanged(cur, seen.OriginalMarkdown); err != nil {
				return nil, err
			}
			return b.opts.Editor.Toggle(seen), nil
		})
	if err != nil {
		b.err = err
		return
	}
	board.LogMutation(b.opts.LogPath, "toggle", seen.Path, seen.LineNumber+1, strings.Join(lines, "\n"))
	b.remember(seen.Path, seen.LineNumber, written, lines)
	b.loadTasks()
}

// remember records the tasks a mutation wrote starting at line of path.
// Earlier entries for the file are dropped since its lines may have moved.
func (b *Board) remember(path string, line int, written []task.Task, lines []string) {
	if b.recent == nil {
		b.recent = make(map[string]map[int]task.Task)
	}
	byLine := make(map[int]task.Task, len(written))
	for i, t := range written {
		t.Path, t.LineNumber, t.OriginalMarkdown = path, line+i, lines[i]
		byLine[line+i] = t
	}
	b.recent[path] = byLine
}

// restore returns the task this session wrote at t's line when the line
// still reads the same, and t otherwise.
func (b *Board) restore(t task.Task) task.Task {
	if r, ok := b.recent[t.Path][t.LineNumber]; ok && r.OriginalMarkdown == t.OriginalMarkdown {
		return r
	}
	return t
}

// loadTasks reads all tasks and organizes them into status columns.
func (b *Board) loadTasks() {
	tasks, warnings, err := vault.ReadAllLenient(b.opts.Paths, b.opts.Parser, b.opts.RequireFilter)
	if err != nil {
		b.err = err
		return
	}
	b.err = nil
	if len(warnings) > 0 {
		b.err = fmt.Errorf("skipped %s: %w", warnings[0].File, warnings[0].Err)
	}

	for i := range tasks {
		tasks[i] = b.restore(tasks[i])
	}
	board.Sort(tasks, "priority", false)
	b.tasks = tasks

	b.columns = make([]column, len(task.DefaultStatusOptions))
	for i, s := range task.DefaultStatusOptions {
		b.columns[i] = column{status: s}
	}
	for _, t := range tasks {
		for i := range b.columns {
			if b.columns[i].status == t.Status {
				b.columns[i].tasks = append(b.columns[i].tasks, t)
				break
			}
		}
	}

	b.clampRow()
}

func (b *Board) currentColumn() *column {
	if b.activeCol >= 0 && b.activeCol < len(b.columns) {
		return &b.columns[b.activeCol]
	}
	return nil
}

func (b *Board) selectedTask() *task.Task {
	col := b.currentColumn()
	if col == nil || len(col.tasks) == 0 {
		return nil
	}
	if b.activeRow >= 0 && b.activeRow < len(col.tasks) {
		return &col.tasks[b.activeRow]
	}
	return nil
}

func (b *Board) clampRow() {
	col := b.currentColumn()
	if col == nil || len(col.tasks) == 0 {
		b.activeRow = 0
		return
	}
	if b.activeRow >= len(col.tasks) {
		b.activeRow = len(col.tasks) - 1
	}
	b.ensureVisible()
}

// chromeHeight returns the number of lines below the column area.
func (b *Board) chromeHeight() int {
	h := boardChrome
	if b.err != nil {
		h += errorChrome
	}
	return h
}

// visibleCards returns how many cards of col fit below its header.
func (b *Board) visibleCards(col *column, width int) int {
	avail := b.height - b.chromeHeight() - 1
	if col.scrollOff > 0 {
		avail--
	}
	n := b.fitCards(col, avail, width)
	if col.scrollOff+n < len(col.tasks) {
		n = max(b.fitCards(col, avail-1, width), 1)
	}
	return n
}

func (b *Board) fitCards(col *column, avail, width int) int {
	if len(col.tasks) == 0 || avail < 1 {
		return 1
	}
	used, count := 0, 0
	for i := col.scrollOff; i < len(col.tasks); i++ {
		h := cardHeight(col.tasks[i], width)
		if count > 0 && used+h > avail {
			break
		}
		count++
		used += h
	}
	return max(count, 1)
}

// ensureVisible adjusts the active column's scroll offset so the selected
// row is within the visible window.
func (b *Board) ensureVisible() {
	col := b.currentColumn()
	if col == nil {
		return
	}
	w := b.columnWidth()
	for range len(col.tasks) + 1 {
		maxVis := b.visibleCards(col, w)
		switch {
		case b.activeRow >= col.scrollOff+maxVis:
			col.scrollOff = b.activeRow - maxVis + 1
		case b.activeRow < col.scrollOff:
			col.scrollOff = b.activeRow
		default:
			return
		}
	}
}

// WatchPaths returns the files and directories the board shows, for a
// watcher to follow.
func (b *Board) WatchPaths() []string {
	return b.opts.Paths
}

// --- Messages ---

// ReloadMsg is sent by the file watcher to trigger a board refresh.
type ReloadMsg struct{}

type errMsg struct{ err error }

// --- Styles ---

var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	activeColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("226")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	// tagColorPalette is a set of distinct, readable terminal colors for auto-coloring tags.
	tagColorPalette = []lipgloss.Color{"33", "36", "35", "32", "91", "34", "93", "96"}

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2) //nolint:mnd // dialog padding
)

// tagStyle returns a consistent style for a tag, derived by hashing the tag
// name into tagColorPalette.
func tagStyle(tag string) lipgloss.Style {
	h := fnv.New32a()
	_, _ = h.Write([]byte(tag))
	color := tagColorPalette[h.Sum32()%uint32(len(tagColorPalette))]
	return lipgloss.NewStyle().Foreground(color)
}

// --- View rendering ---

func (b *Board) viewBoard() string {
	colWidth := b.columnWidth()

	renderedCols := make([]string, len(b.columns))
	for i, col := range b.columns {
		renderedCols[i] = b.renderColumn(i, col, colWidth)
	}
	boardView := lipgloss.JoinHorizontal(lipgloss.Top, renderedCols...)

	// Clamp from the bottom and pad so the status bar stays in place.
	targetHeight := b.height - b.chromeHeight()
	if targetHeight > 0 {
		actual := strings.Count(boardView, "\n") + 1
		if actual > targetHeight {
			viewLines := strings.SplitN(boardView, "\n", targetHeight+1)
			boardView = strings.Join(viewLines[:targetHeight], "\n")
		} else if actual < targetHeight {
			boardView += strings.Repeat("\n", targetHeight-actual)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, boardView, "", b.renderStatusBar())
}

func (b *Board) columnWidth() int {
	if b.width == 0 || len(b.columns) == 0 {
		return 30 //nolint:mnd // default column width
	}
	return min(b.width/len(b.columns), maxColWidth)
}

func (b *Board) renderColumn(colIdx int, col column, width int) string {
	const headerPad = 2
	headerText := truncate(fmt.Sprintf("%s (%d)", col.status, len(col.tasks)), width-headerPad)

	header := columnHeaderStyle.Width(width).Render(headerText)
	if colIdx == b.activeCol {
		header = activeColumnHeaderStyle.Width(width).Render(headerText)
	}

	maxVis := b.visibleCards(&col, width)
	start := min(col.scrollOff, len(col.tasks))
	end := min(start+maxVis, len(col.tasks))

	parts := []string{header}
	if start > 0 {
		parts = append(parts, dimStyle.Width(width).Render(truncate(fmt.Sprintf("  ↑ %d more", start), width)))
	}
	if len(col.tasks) == 0 {
		parts = append(parts, dimStyle.Width(width).Render("  (empty)"))
	}
	for rowIdx := start; rowIdx < end; rowIdx++ {
		active := colIdx == b.activeCol && rowIdx == b.activeRow
		parts = append(parts, renderCard(col.tasks[rowIdx], active, width))
	}
	if end < len(col.tasks) {
		indicator := fmt.Sprintf("  ↓ %d more", len(col.tasks)-end)
		parts = append(parts, dimStyle.Width(width).Render(truncate(indicator, width)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderCard(t task.Task, active bool, width int) string {
	style := cardStyle
	if len(t.Tags) > 0 {
		style = style.BorderForeground(tagStyle(t.Tags[0]).GetForeground())
	}
	if active {
		style = activeCardStyle
	}
	content := strings.Join(cardContentLines(t, width), "\n")
	return style.Width(width - cardBorders).Render(content)
}

func cardHeight(t task.Task, width int) int {
	return len(cardContentLines(t, width)) + cardBorders
}

func cardContentLines(t task.Task, width int) []string {
	cardWidth := max(width-cardChrome, 1)

	lines := wrapText(t.Description, cardWidth, maxBodyLines)

	var meta []string
	if sym := t.Priority.Symbol(); sym != "" {
		meta = append(meta, sym)
	}
	if t.DueDate != nil {
		meta = append(meta, "📅 "+t.DueDate.String())
	}
	if t.Recurrence != nil {
		meta = append(meta, "🔁")
	}
	meta = append(meta, fmt.Sprintf("%s:%d", shortPath(t.Path), t.LineNumber+1))
	lines = append(lines, dimStyle.Render(truncate(strings.Join(meta, " "), cardWidth)))
	return lines
}

func shortPath(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}

// wrapText word-wraps text to maxWidth cells. Lines beyond maxLines are
// folded into the last one, which is then truncated.
func wrapText(text string, maxWidth, maxLines int) []string {
	lines := strings.Split(ansi.Wordwrap(text, maxWidth, ""), "\n")
	if len(lines) > maxLines {
		keep := max(maxLines, 1)
		rest := strings.Join(lines[keep-1:], " ")
		lines = append(lines[:keep-1], rest)
	}
	for i, l := range lines {
		lines[i] = truncate(l, maxWidth)
	}
	return lines
}

func (b *Board) renderStatusBar() string {
	status := fmt.Sprintf(" %d tasks | %s", len(b.tasks), b.keys.boardHelp())
	status = truncate(status, b.width)

	if b.err != nil {
		errStr := errorStyle.Render(truncate("Error: "+b.err.Error(), b.width))
		return errStr + "\n" + statusBarStyle.Render(status)
	}
	return statusBarStyle.Render(status)
}

// truncate cuts s to maxLen cells, at least 4, ending in "...".
func truncate(s string, maxLen int) string {
	return ansi.Truncate(s, max(maxLen, 4), "...") //nolint:mnd // room for one cell and "..."
}

// WatchErr wraps a watcher error for delivery through tea.Program.Send.
func WatchErr(err error) tea.Msg {
	return errMsg{err: err}
}
