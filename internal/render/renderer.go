// Package render turns generation templates into study scripts using pongo2, a
// Jinja2-compatible template engine. Templates are read either from a directory on
// disk or from the templates embedded in the binary.
package render

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/flosch/pongo2/v6"

	"studyda/internal/data/embedded"
	"studyda/internal/logger"
	"studyda/pkg/studytypes"
)

var autoescapeOnce sync.Once

// Renderer renders generation templates. It is safe for concurrent use; parsed
// templates are cached per template directory.
type Renderer struct {
	mu       sync.Mutex
	sets     map[string]*pongo2.TemplateSet
	embedded fs.FS
}

// NewRenderer creates a renderer backed by the built-in templates for empty
// template paths.
func NewRenderer() *Renderer {
	return NewRendererWithFS(embedded.Templates())
}

// NewRendererWithFS creates a renderer that serves empty template paths from fsys.
func NewRendererWithFS(fsys fs.FS) *Renderer {
	// Scripts are Python source, HTML escaping would corrupt string literals.
	autoescapeOnce.Do(func() {
		pongo2.SetAutoescape(false)
	})
	return &Renderer{
		sets:     make(map[string]*pongo2.TemplateSet),
		embedded: fsys,
	}
}

// Render implements studytypes.Renderer.
func (r *Renderer) Render(templatePath, templateName string, bindings map[string]interface{}) (string, error) {
	set, err := r.templateSet(templatePath)
	if err != nil {
		return "", &studytypes.RenderError{Template: templateName, Path: templatePath, Err: err}
	}

	tpl, err := set.FromCache(templateName)
	if err != nil {
		return "", &studytypes.RenderError{Template: templateName, Path: templatePath, Err: err}
	}

	out, err := tpl.Execute(pongo2.Context(bindings))
	if err != nil {
		return "", &studytypes.RenderError{Template: templateName, Path: templatePath, Err: err}
	}

	logger.Debug("Template rendered", "template", templateName, "path", templatePath, "bytes", len(out))
	return out, nil
}

func (r *Renderer) templateSet(templatePath string) (*pongo2.TemplateSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if set, ok := r.sets[templatePath]; ok {
		return set, nil
	}

	var fsys fs.FS
	name := "embedded"
	if templatePath == "" {
		fsys = r.embedded
	} else {
		info, err := os.Stat(templatePath)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("template path %s is not a directory", templatePath)
		}
		fsys = os.DirFS(templatePath)
		name = filepath.Clean(templatePath)
	}

	set := pongo2.NewSet(name, &fsLoader{fsys: fsys})
	r.sets[templatePath] = set
	return set, nil
}

// fsLoader adapts an fs.FS to pongo2's TemplateLoader. Names are slash-separated;
// includes are resolved relative to the including template.
type fsLoader struct {
	fsys fs.FS
}

// Abs implements pongo2.TemplateLoader.
func (l *fsLoader) Abs(base, name string) string {
	if base == "" || path.IsAbs(name) {
		return path.Clean(name)
	}
	return path.Join(path.Dir(base), name)
}

// Get implements pongo2.TemplateLoader.
func (l *fsLoader) Get(name string) (io.Reader, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}
