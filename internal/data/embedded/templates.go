// Package embedded provides access to files compiled into the studyda binary.
package embedded

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.py
var templateFiles embed.FS

// Templates returns the built-in generation templates, rooted at the template
// directory so that names are plain file names (e.g. "generation_1.py").
func Templates() fs.FS {
	sub, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		// fs.Sub only fails on an invalid directory name.
		panic(err)
	}
	return sub
}

// TemplateNames lists the built-in templates in lexical order.
func TemplateNames() []string {
	entries, err := fs.ReadDir(templateFiles, "templates")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}
