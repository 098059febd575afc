package output

import (
	"bytes"
	"fmt"

	"github.com/ddddddO/gtree"

	"studyda/pkg/studytypes"
)

// TreeView draws a study tree below a root labelled name. Branches are study
// directories; leaves show the generation and its script.
func TreeView(name string, tree *studytypes.TreeNode) (string, error) {
	root := gtree.NewRoot(name)
	addTreeNodes(root, tree)

	var buf bytes.Buffer
	if err := gtree.OutputFromRoot(&buf, root); err != nil {
		return "", fmt.Errorf("failed to draw tree: %w", err)
	}
	return buf.String(), nil
}

func addTreeNodes(parent *gtree.Node, tree *studytypes.TreeNode) {
	for _, key := range tree.Keys() {
		child, _ := tree.Child(key)
		if child.IsLeaf() {
			parent.Add(fmt.Sprintf("%s (%s)", key, child.File))
			continue
		}
		addTreeNodes(parent.Add(key), child)
	}
}
