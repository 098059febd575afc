package studytypes

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// TreeFileKey is the key holding the script location of a leaf in the tree document.
const TreeFileKey = "file"

// TreeNode is one level of the study tree. A leaf records the location of a generated
// script; a branch maps path segments to child nodes in insertion order.
type TreeNode struct {
	File string

	keys     []string
	children map[string]*TreeNode
}

// TreeLeaf is a leaf reached by walking the tree, with the segments that lead to it.
type TreeLeaf struct {
	Segments []string
	File     string
}

// NewTree creates an empty root node.
func NewTree() *TreeNode {
	return &TreeNode{children: make(map[string]*TreeNode)}
}

// IsLeaf reports whether the node records a script location.
func (n *TreeNode) IsLeaf() bool {
	return n.File != "" && len(n.keys) == 0
}

// Keys returns the child keys in insertion order.
func (n *TreeNode) Keys() []string {
	keys := make([]string, len(n.keys))
	copy(keys, n.keys)
	return keys
}

// Child returns the child stored under key.
func (n *TreeNode) Child(key string) (*TreeNode, bool) {
	child, ok := n.children[key]
	return child, ok
}

// Insert stores a leaf for file at the location named by segments, creating
// intermediate branches as needed. An existing leaf at that location is replaced.
func (n *TreeNode) Insert(segments []string, file string) error {
	if len(segments) == 0 {
		return NewConfigurationError("cannot insert %s at the tree root", file)
	}

	current := n
	for i, segment := range segments {
		if current.IsLeaf() {
			return NewConfigurationError("path %q passes through the script %s", strings.Join(segments, "/"), current.File).
				WithKey(strings.Join(segments[:i], "/"))
		}

		child, exists := current.children[segment]
		if !exists {
			child = NewTree()
			current.add(segment, child)
		}
		current = child
	}

	if len(current.keys) > 0 {
		return NewConfigurationError("script %s collides with an existing directory", file).
			WithKey(strings.Join(segments, "/"))
	}
	current.File = file
	return nil
}

// Lookup walks segments from this node and returns the node found there.
func (n *TreeNode) Lookup(segments []string) (*TreeNode, bool) {
	current := n
	for _, segment := range segments {
		child, ok := current.children[segment]
		if !ok {
			return nil, false
		}
		current = child
	}
	return current, true
}

// Leaves returns every leaf below this node in depth-first insertion order.
func (n *TreeNode) Leaves() []TreeLeaf {
	var leaves []TreeLeaf
	n.walk(nil, func(segments []string, leaf *TreeNode) {
		leaves = append(leaves, TreeLeaf{Segments: segments, File: leaf.File})
	})
	return leaves
}

func (n *TreeNode) walk(prefix []string, visit func([]string, *TreeNode)) {
	if n.IsLeaf() {
		segments := make([]string, len(prefix))
		copy(segments, prefix)
		visit(segments, n)
		return
	}
	for _, key := range n.keys {
		n.children[key].walk(append(prefix, key), visit)
	}
}

func (n *TreeNode) add(key string, child *TreeNode) {
	if n.children == nil {
		n.children = make(map[string]*TreeNode)
	}
	n.keys = append(n.keys, key)
	n.children[key] = child
}

// MarshalYAML encodes the node as an ordered mapping; leaves become {file: path}.
func (n *TreeNode) MarshalYAML() (interface{}, error) {
	return n.toNode(), nil
}

func (n *TreeNode) toNode() *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if n.IsLeaf() {
		node.Content = append(node.Content, scalarNode(TreeFileKey), scalarNode(n.File))
		return node
	}
	for _, key := range n.keys {
		node.Content = append(node.Content, scalarNode(key), n.children[key].toNode())
	}
	return node
}

func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// UnmarshalYAML decodes a tree document previously written by MarshalYAML.
func (n *TreeNode) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.DocumentNode && len(value.Content) == 1 {
		value = value.Content[0]
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("tree node at line %d is not a mapping", value.Line)
	}

	*n = TreeNode{children: make(map[string]*TreeNode)}

	if len(value.Content) == 2 && value.Content[0].Value == TreeFileKey && value.Content[1].Kind == yaml.ScalarNode {
		n.File = value.Content[1].Value
		return nil
	}

	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		child := &TreeNode{}
		if err := child.UnmarshalYAML(value.Content[i+1]); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		n.add(key, child)
	}
	return nil
}
