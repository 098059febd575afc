package study

import (
	"bytes"
	"fmt"
	"path"

	"gopkg.in/yaml.v3"

	"studyda/pkg/studytypes"
)

// treePath is where the tree document of study name is stored.
func treePath(name string) string {
	return path.Join(name, TreeFileName)
}

// EncodeTree serializes tree as the tree document, mappings indented by two spaces.
func EncodeTree(tree *studytypes.TreeNode) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(tree); err != nil {
		return nil, fmt.Errorf("failed to encode tree: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode tree: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteTree persists tree at {name}/tree.yaml in store.
func WriteTree(store studytypes.Store, name string, tree *studytypes.TreeNode) error {
	data, err := EncodeTree(tree)
	if err != nil {
		return err
	}
	return store.WriteFile(treePath(name), data)
}

// ReadTree loads the tree document of study name from store.
func ReadTree(store studytypes.Store, name string) (*studytypes.TreeNode, error) {
	data, err := store.ReadFile(treePath(name))
	if err != nil {
		return nil, err
	}
	return DecodeTree(data)
}

// DecodeTree parses a tree document.
func DecodeTree(data []byte) (*studytypes.TreeNode, error) {
	tree := studytypes.NewTree()
	if err := yaml.Unmarshal(data, tree); err != nil {
		return nil, fmt.Errorf("failed to decode tree: %w", err)
	}
	return tree, nil
}
