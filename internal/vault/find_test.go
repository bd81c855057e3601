package vault

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/tasklines/internal/clierr"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		in   string
		path string
		line int
	}{
		{"notes.md:1", "notes.md", 0},
		{"dir/notes.md:12", "dir/notes.md", 11},
		{"odd:name.md:3", "odd:name.md", 2},
	}
	for _, tt := range tests {
		loc, err := ParseLocation(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.path, loc.Path, tt.in)
		assert.Equal(t, tt.line, loc.Line, tt.in)
		assert.Equal(t, tt.in, loc.String())
	}

	for _, bad := range []string{"notes.md", "notes.md:", "notes.md:0", ":4", "notes.md:-1", "notes.md:x"} {
		_, err := ParseLocation(bad)
		assert.True(t, errors.Is(err, clierr.New(clierr.InvalidLocation, "")), bad)
	}
}

func makeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"a.md":          "- [ ] a\n",
		"d.txt":         "- [ ] not markdown\n",
		"sub/b.md":      "- [ ] b\n- [x] c\n",
		".hidden/c.md":  "- [ ] hidden\n",
		"sub/.git/x.md": "- [ ] git\n",
		"sub/deep/e.md": "text only\n",
		"sub/.notes.md": "- [ ] dotfile\n",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return root
}

func TestFindMarkdown(t *testing.T) {
	root := makeTree(t)

	files, err := FindMarkdown([]string{root})
	require.NoError(t, err)

	rel := make([]string, len(files))
	for i, f := range files {
		r, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rel[i] = filepath.ToSlash(r)
	}
	assert.Equal(t, []string{"a.md", "sub/.notes.md", "sub/b.md", "sub/deep/e.md"}, rel)
}

func TestFindMarkdownExplicitFile(t *testing.T) {
	root := makeTree(t)
	explicit := filepath.Join(root, "d.txt")
	files, err := FindMarkdown([]string{explicit})
	require.NoError(t, err)
	assert.Equal(t, []string{explicit}, files)

	_, err = FindMarkdown([]string{filepath.Join(root, "missing.md")})
	assert.True(t, errors.Is(err, clierr.New(clierr.FileNotFound, "")))
}

func TestReadAllLenient(t *testing.T) {
	root := makeTree(t)
	fx := newFixture(t, "")

	tasks, warnings, err := ReadAllLenient([]string{root}, fx.parser, false)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	var descriptions []string
	for _, tk := range tasks {
		descriptions = append(descriptions, tk.Description)
	}
	assert.Equal(t, []string{"a", "dotfile", "b", "c"}, descriptions)
}
