// Package studytypes defines the shared types of studyda: the study tree, the error
// taxonomy and the capability interfaces the builder is assembled from.
package studytypes

// Renderer turns a named template and its bindings into script text.
// templatePath is the directory holding the template; an empty path selects the
// templates embedded in the binary.
type Renderer interface {
	Render(templatePath, templateName string, bindings map[string]interface{}) (string, error)
}

// Store persists generated files. Paths are slash-separated and relative to the
// store's root.
type Store interface {
	// Exists reports whether path is present in the store.
	Exists(path string) (bool, error)

	// RemoveAll deletes path and everything below it.
	RemoveAll(path string) error

	// WriteFile writes data to path, creating parent directories as needed.
	WriteFile(path string, data []byte) error

	// ReadFile returns the content stored at path.
	ReadFile(path string) ([]byte, error)

	// CopyFile copies the file at source (a host path) into the directory dir,
	// keeping its base name.
	CopyFile(source, dir string) error
}
