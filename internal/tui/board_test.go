package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/tasklines/internal/board"
	"github.com/twiced-technology-gmbh/tasklines/internal/config"
	"github.com/twiced-technology-gmbh/tasklines/internal/globalfilter"
	"github.com/twiced-technology-gmbh/tasklines/internal/task"
)

func newTestBoard(t *testing.T, content string) (*Board, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	filter, err := globalfilter.New("")
	require.NoError(t, err)
	now := func() time.Time { return time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC) }
	b := NewBoard(Options{
		Paths:      []string{dir},
		Parser:     task.NewParser(filter),
		Serializer: task.NewSerializer(filter),
		Editor:     task.NewEditor(filter, config.NewDefault(), now),
		LogPath:    filepath.Join(dir, config.ActivityLogName),
	})
	b.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return b, path
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestBoardColumns(t *testing.T) {
	b, _ := newTestBoard(t, "# Plan\n- [ ] water plants\n- [/] write report ⏫\n- [x] call mum\n- plain item\n")

	require.Len(t, b.columns, len(task.DefaultStatusOptions))
	assert.Len(t, b.columns[0].tasks, 1)
	assert.Len(t, b.columns[1].tasks, 1)
	assert.Len(t, b.columns[2].tasks, 1)
	assert.Empty(t, b.columns[3].tasks)

	view := b.View()
	assert.Contains(t, view, "todo (1)")
	assert.Contains(t, view, "water plants")
	assert.Contains(t, view, "3 tasks")
}

func TestBoardNavigation(t *testing.T) {
	b, _ := newTestBoard(t, "- [ ] a\n- [ ] b\n- [/] c\n")

	b.Update(runes("j"))
	assert.Equal(t, 1, b.activeRow)
	b.Update(runes("j"))
	assert.Equal(t, 1, b.activeRow)

	b.Update(runes("l"))
	assert.Equal(t, 1, b.activeCol)
	assert.Equal(t, 0, b.activeRow)
	assert.Equal(t, "c", b.selectedTask().Description)

	b.Update(runes("h"))
	assert.Equal(t, 0, b.activeCol)
}

func TestBoardToggleRewritesLine(t *testing.T) {
	b, path := newTestBoard(t, "# Plan\n- [ ] water plants\n")

	b.Update(runes("x"))

	assert.Equal(t, "# Plan\n- [x] water plants ✅ 2024-06-10\n", readFile(t, path))
	assert.Empty(t, b.columns[0].tasks)
	assert.Len(t, b.columns[2].tasks, 1)

	entries, err := board.ReadLog(b.opts.LogPath, board.LogQuery{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "toggle", entries[0].Action)
	assert.Equal(t, 2, entries[0].Line)
}

func TestBoardToggleUndoRetractsDoneDateInSameSession(t *testing.T) {
	b, path := newTestBoard(t, "- [ ] water plants\n")

	b.Update(runes("x"))
	require.Equal(t, "- [x] water plants ✅ 2024-06-10\n", readFile(t, path))

	b.Update(runes("l"))
	b.Update(runes("l"))
	require.Equal(t, task.Done, b.currentColumn().status)
	b.Update(runes("x"))

	assert.Equal(t, "- [ ] water plants\n", readFile(t, path))
	assert.Len(t, b.columns[0].tasks, 1)
}

func TestBoardToggleKeepsDoneDateReadFromDisk(t *testing.T) {
	b, path := newTestBoard(t, "- [x] water plants ✅ 2024-06-01\n")

	b.Update(runes("l"))
	b.Update(runes("l"))
	b.Update(runes("x"))

	assert.Equal(t, "- [ ] water plants ✅ 2024-06-01\n", readFile(t, path))
}

func TestBoardForgetsProvenanceWhenLineChangesOnDisk(t *testing.T) {
	b, path := newTestBoard(t, "- [ ] water plants\n")

	b.Update(runes("x"))
	require.NoError(t, os.WriteFile(path, []byte("- [x] water plants ✅ 2024-06-10 \n"), 0o600))
	b.Update(ReloadMsg{})

	b.Update(runes("l"))
	b.Update(runes("l"))
	b.Update(runes("x"))

	assert.Equal(t, "- [ ] water plants ✅ 2024-06-10\n", readFile(t, path))
}

func TestBoardToggleDetectsConcurrentEdit(t *testing.T) {
	b, path := newTestBoard(t, "- [ ] water plants\n")
	require.NoError(t, os.WriteFile(path, []byte("- [ ] water the plants\n"), 0o600))

	b.Update(runes("x"))

	require.Error(t, b.err)
	assert.Equal(t, "- [ ] water the plants\n", readFile(t, path))
}

func TestBoardEditForm(t *testing.T) {
	b, path := newTestBoard(t, "- [ ] water plants 📅 2024-06-01\n")

	b.Update(runes("e"))
	require.Equal(t, viewEdit, b.view)
	assert.Equal(t, "water plants", b.form.input.Value())

	b.Update(runes(" daily"))
	b.Update(tea.KeyMsg{Type: tea.KeyTab})
	b.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, viewBoard, b.view)
	assert.Equal(t, "- [/] water plants daily 📅 2024-06-01\n", readFile(t, path))
}

func TestBoardEditRejectsEmptyDescription(t *testing.T) {
	b, path := newTestBoard(t, "- [ ] water plants\n")

	b.Update(runes("e"))
	b.form.input.SetValue("  ")
	b.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, viewEdit, b.view)
	require.Error(t, b.form.err)
	assert.Equal(t, "- [ ] water plants\n", readFile(t, path))

	b.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, viewBoard, b.view)
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, []string{"short"}, wrapText("short", 10, 3))
	assert.Equal(t, []string{"one two", "three four"}, wrapText("one two three four", 10, 3))
	assert.Equal(t, []string{"one two", "three f..."}, wrapText("one two three four five", 10, 2))
}
