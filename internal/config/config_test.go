package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/tasklines/internal/clierr"
)

func writeSettings(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600))
}

func TestNewDefaultIsValid(t *testing.T) {
	s := NewDefault()
	require.NoError(t, s.Validate())
	assert.Equal(t, CurrentVersion, s.Version)
	assert.Equal(t, "", s.GlobalFilter)
	assert.False(t, s.SetCreatedDate)
	assert.True(t, s.SetDoneDate)
	assert.True(t, s.SetCancelledDate)
	assert.Equal(t, RecurrenceAbove, s.RecurrencePosition)

	f, err := s.Filter()
	require.NoError(t, err)
	assert.True(t, f.IsEmpty())
}

func TestInitAndLoad(t *testing.T) {
	dir := t.TempDir()

	s, err := Init(dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, ConfigFileName))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, s.Version, loaded.Version)
	assert.Equal(t, s.SetDoneDate, loaded.SetDoneDate)
	assert.Equal(t, s.RecurrencePosition, loaded.RecurrencePosition)
	assert.Equal(t, s.Dir(), loaded.Dir())
	assert.Equal(t, filepath.Join(loaded.Dir(), ActivityLogName), loaded.ActivityLogPath())

	_, err = Init(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, clierr.New(clierr.ConfigAlreadyExists, "")))
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := Init(dir)
	require.NoError(t, err)

	s.GlobalFilter = "#task"
	s.SetCreatedDate = true
	s.RecurrencePosition = RecurrenceBelow
	require.NoError(t, s.Save())

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "#task", loaded.GlobalFilter)
	assert.True(t, loaded.SetCreatedDate)
	assert.Equal(t, RecurrenceBelow, loaded.RecurrencePosition)

	f, err := loaded.Filter()
	require.NoError(t, err)
	assert.Equal(t, "#task", f.Token())
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadMigratesV1(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "version: 1\nglobal_filter: '#todo'\nset_done_date: false\n")

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, s.Version)
	assert.Equal(t, "#todo", s.GlobalFilter)
	assert.False(t, s.SetDoneDate)
	assert.False(t, s.SetCancelledDate)
	assert.False(t, s.SetCreatedDate)
	assert.Equal(t, RecurrenceAbove, s.RecurrencePosition)

	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "version: 3")
	assert.Contains(t, string(data), "recurrence_position: above")
}

func TestLoadMigratesV2KeepsPosition(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "version: 2\nset_done_date: true\nset_cancelled_date: true\nrecurrence_position: below\n")

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, RecurrenceBelow, s.RecurrencePosition)
}

func TestLoadRejectsBadVersions(t *testing.T) {
	for _, content := range []string{"version: 99\n", "version: 0\n"} {
		dir := t.TempDir()
		writeSettings(t, dir, content)
		_, err := Load(dir)
		assert.ErrorIs(t, err, ErrInvalid, content)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "version: [\n")
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
	}{
		{"two-word filter", func(s *Settings) { s.GlobalFilter = "#a b" }},
		{"blank filter", func(s *Settings) { s.GlobalFilter = "   " }},
		{"bad position", func(s *Settings) { s.RecurrencePosition = "middle" }},
		{"old version", func(s *Settings) { s.Version = 1 }},
	}
	for _, tt := range tests {
		s := NewDefault()
		tt.modify(&s)
		assert.ErrorIs(t, s.Validate(), ErrInvalid, tt.name)
	}
}

func TestFindDirWalksUp(t *testing.T) {
	root := t.TempDir()
	writeSettings(t, root, "version: 3\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	found, err := FindDir(nested)
	require.NoError(t, err)

	want, err := filepath.Abs(root)
	require.NoError(t, err)
	assert.Equal(t, want, found)
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()
	s, err := LoadOrDefault(dir)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, s.Version)

	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Equal(t, abs, s.Dir())

	writeSettings(t, dir, "version: 3\nglobal_filter: '#t'\nrecurrence_position: below\n")
	s, err = LoadOrDefault(dir)
	require.NoError(t, err)
	assert.Equal(t, "#t", s.GlobalFilter)
}
