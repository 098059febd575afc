package study

import (
	"path"
	"path/filepath"
	"strings"
)

// TreeFileName is the name of the tree document written at the study root.
const TreeFileName = "tree.yaml"

// rootPath is the study path every study starts from, e.g. "study/".
func rootPath(name string) string {
	return name + "/"
}

// childPath appends a combination suffix to an active path. An empty suffix keeps
// the script in the active directory.
func childPath(active, suffix string) string {
	if suffix == "" {
		return active
	}
	return active + suffix + "/"
}

// scriptPath is the location of generation's script below studyPath.
func scriptPath(studyPath, generation string) string {
	return studyPath + generation + ".py"
}

// segments returns the directories of studyPath below the study root:
// "study/x_1_/y_2_/" gives ["x_1_", "y_2_"].
func segments(studyPath string) []string {
	parts := strings.Split(studyPath, "/")
	if len(parts) < 2 {
		return nil
	}
	return parts[1 : len(parts)-1]
}

// treeKeys is the location in the tree document of generation's script below studyPath.
func treeKeys(studyPath, generation string) []string {
	keys := segments(studyPath)
	out := make([]string, 0, len(keys)+1)
	out = append(out, keys...)
	return append(out, generation)
}

// invalidSegment returns the first directory of studyPath below the study root
// that is empty, "." or "..", or "" when every directory is a plain name.
func invalidSegment(studyPath string) (string, bool) {
	for _, segment := range segments(studyPath) {
		if segment == "" || segment == "." || segment == ".." {
			return segment, true
		}
	}
	return "", false
}

// depth is the number of directories between studyPath and the study root.
func depth(studyPath string) int {
	return len(segments(studyPath))
}

// dependencyPath is how a script at the given depth reaches a dependency copied
// into the study root.
func dependencyPath(depth int, source string) string {
	return strings.Repeat("../", depth) + path.Base(filepath.ToSlash(source))
}
