package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/tasklines/internal/task"
)

const formChrome = 8 // dialog border and padding

var (
	formTitleStyle     = lipgloss.NewStyle().Bold(true)
	selectedOptStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	unselectedOptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// editForm edits one task line: its description, shown without the Global
// Filter, and its status.
type editForm struct {
	task      task.Task
	input     textinput.Model
	options   []task.Status
	statusIdx int
	keys      keyMap
	err       error
}

func newEditForm(t task.Task, description string, keys keyMap) *editForm {
	in := textinput.New()
	in.Prompt = "> "
	in.SetValue(description)
	in.CursorEnd()

	f := &editForm{task: t, input: in, options: task.DefaultStatusOptions, keys: keys}
	f.statusIdx = -1
	for i, s := range f.options {
		if s == t.Status {
			f.statusIdx = i
		}
	}
	return f
}

func (f *editForm) focus() tea.Cmd {
	return f.input.Focus()
}

func (f *editForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	f.err = nil
	return cmd
}

// cycleStatus moves the status selection by delta, wrapping around.
func (f *editForm) cycleStatus(delta int) {
	n := len(f.options)
	if f.statusIdx < 0 {
		f.statusIdx = 0
		return
	}
	f.statusIdx = ((f.statusIdx+delta)%n + n) % n
}

// selectedStatus returns the chosen status, or nil when the task's status
// is not among the options and the user never picked one.
func (f *editForm) selectedStatus() *task.Status {
	if f.statusIdx < 0 {
		return nil
	}
	s := f.options[f.statusIdx]
	return &s
}

func (f *editForm) view(width int) string {
	f.input.Width = max(width-formChrome, 1)

	opts := make([]string, len(f.options))
	for i, s := range f.options {
		label := "[" + string(s.Symbol()) + "] " + s.String()
		if i == f.statusIdx {
			opts[i] = selectedOptStyle.Render(label)
		} else {
			opts[i] = unselectedOptStyle.Render(label)
		}
	}

	parts := []string{
		formTitleStyle.Render("Edit task"),
		dimStyle.Render(truncate(f.task.OriginalMarkdown, max(width-formChrome, 4))), //nolint:mnd // minimum width
		"",
		f.input.View(),
		"",
		strings.Join(opts, " "),
	}
	if f.err != nil {
		parts = append(parts, "", errorStyle.Render(f.err.Error()))
	}
	parts = append(parts, "", dimStyle.Render(f.keys.formHelp()))

	return dialogStyle.Render(strings.Join(parts, "\n"))
}
