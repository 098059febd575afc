// Package testutils provides fixture helpers shared by the studyda package tests.
package testutils

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// FileHelpers creates files and directories for tests.
type FileHelpers struct{}

// NewFileHelpers creates a new file helpers instance
func NewFileHelpers() *FileHelpers {
	return &FileHelpers{}
}

// CreateTempDir creates a temporary directory holding files, keyed by
// slash-separated relative path. Contents are dedented.
func (f *FileHelpers) CreateTempDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	f.WriteFiles(t, dir, files)
	return dir
}

// WriteFiles writes files below dir, creating parent directories as needed.
func (f *FileHelpers) WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(dedent.Dedent(content)), 0o644))
	}
}

// Snapshot reads every file below dir, keyed by slash-separated relative path.
func (f *FileHelpers) Snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return files
}

// StudyFixture returns a directory holding a two-generation study configuration
// (config.yaml), its templates (templates/) and a custom dependency file. The study
// is called "study" and scans x over [1, 2] in generation scan1.
func StudyFixture(t *testing.T) string {
	t.Helper()
	return NewFileHelpers().CreateTempDir(t, map[string]string{
		"config.yaml": `
			name: study
			structure:
			  base:
			    executable: {name: base.py, path: templates}
			  scan1:
			    executable: {name: scan1.py, path: templates}
			    scans:
			      x:
			        list: [1, 2]
			dependencies:
			  main_configuration: config.yaml
			  custom_ost: custom_files/custom_ost.py
			config_simulation:
			  n_turns: 100
		`,
		"templates/base.py":          "params = {{ parameters }}\nconfig = '{{ main_configuration }}'\n",
		"templates/scan1.py":         "params = {{ parameters }}\nost = '{{ custom_ost }}'\n",
		"custom_files/custom_ost.py": "def ost():\n    return 0\n",
	})
}

// AssertionHelpers provides assertion helpers for tests.
type AssertionHelpers struct {
	t *testing.T
}

// NewAssertionHelpers creates a new assertion helpers instance
func NewAssertionHelpers(t *testing.T) *AssertionHelpers {
	return &AssertionHelpers{t: t}
}

// AssertFileEquals asserts that path exists and holds expected.
func (h *AssertionHelpers) AssertFileEquals(path, expected string) {
	h.t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(h.t, err, "reading %s", path)
	assert.Equal(h.t, expected, string(data), "content of %s", path)
}

// AssertNotExists asserts that nothing exists at path.
func (h *AssertionHelpers) AssertNotExists(path string) {
	h.t.Helper()
	_, err := os.Stat(path)
	assert.ErrorIs(h.t, err, fs.ErrNotExist, "%s should not exist", path)
}
