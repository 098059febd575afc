// Package golden compares generated study trees file by file.
package golden

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Status classifies a difference between two trees.
type Status string

const (
	// StatusMissing means the file exists only in the expected tree.
	StatusMissing Status = "missing"
	// StatusExtra means the file exists only in the actual tree.
	StatusExtra Status = "extra"
	// StatusChanged means the file exists in both trees with different content.
	StatusChanged Status = "changed"
)

// FileDiff is one file that differs between the expected and actual trees.
type FileDiff struct {
	Path     string
	Status   Status
	Expected string
	Actual   string
}

// CompareDirs compares every regular file below expectedDir and actualDir.
// Differences are returned sorted by slash-separated relative path.
func CompareDirs(expectedDir, actualDir string) ([]FileDiff, error) {
	expected, err := readTree(expectedDir)
	if err != nil {
		return nil, err
	}
	actual, err := readTree(actualDir)
	if err != nil {
		return nil, err
	}

	var diffs []FileDiff
	for path, want := range expected {
		got, ok := actual[path]
		switch {
		case !ok:
			diffs = append(diffs, FileDiff{Path: path, Status: StatusMissing, Expected: string(want)})
		case !bytes.Equal(want, got):
			diffs = append(diffs, FileDiff{Path: path, Status: StatusChanged, Expected: string(want), Actual: string(got)})
		}
	}
	for path, got := range actual {
		if _, ok := expected[path]; !ok {
			diffs = append(diffs, FileDiff{Path: path, Status: StatusExtra, Actual: string(got)})
		}
	}

	sort.Slice(diffs, func(i, j int) bool { return diffs[i].Path < diffs[j].Path })
	return diffs, nil
}

func readTree(root string) (map[string][]byte, error) {
	files := make(map[string][]byte)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = data
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", root, err)
	}
	return files, nil
}

// Differ writes human readable reports of differences.
type Differ struct {
	w io.Writer
}

// NewDiffer creates a differ writing to w.
func NewDiffer(w io.Writer) *Differ {
	return &Differ{w: w}
}

// Report writes every difference and returns how many there were.
func (d *Differ) Report(diffs []FileDiff) int {
	for _, diff := range diffs {
		switch diff.Status {
		case StatusMissing:
			fmt.Fprintf(d.w, "missing: %s\n", diff.Path)
		case StatusExtra:
			fmt.Fprintf(d.w, "extra: %s\n", diff.Path)
		case StatusChanged:
			d.ShowDetailedDiff(diff.Expected, diff.Actual, diff.Path)
		}
	}
	return len(diffs)
}

// ShowDetailedDiff displays a character-level comparison of expected and actual.
func (d *Differ) ShowDetailedDiff(expected, actual, name string) {
	fmt.Fprintf(d.w, "=== %s ===\n", name)

	if expected == actual {
		fmt.Fprintln(d.w, "No differences found")
		return
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(expected, actual, false))

	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			fmt.Fprintf(d.w, "- %q\n", diff.Text)
		case diffmatchpatch.DiffInsert:
			fmt.Fprintf(d.w, "+ %q\n", diff.Text)
		case diffmatchpatch.DiffEqual:
			// Long unchanged runs are abbreviated
			if len(diff.Text) > 50 {
				fmt.Fprintf(d.w, "  %q...\n", diff.Text[:47])
			} else {
				fmt.Fprintf(d.w, "  %q\n", diff.Text)
			}
		}
	}
}

// Summary is a one-line description of diffs, e.g. "2 changed, 1 missing".
func Summary(diffs []FileDiff) string {
	counts := map[Status]int{}
	for _, diff := range diffs {
		counts[diff.Status]++
	}

	var parts []string
	for _, status := range []Status{StatusChanged, StatusMissing, StatusExtra} {
		if counts[status] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[status], status))
		}
	}
	if len(parts) == 0 {
		return "no differences"
	}
	return strings.Join(parts, ", ")
}
