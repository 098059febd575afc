package study

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"studyda/pkg/studytypes"
)

// DiskStore is a studytypes.Store rooted at a host directory.
type DiskStore struct {
	Root string
}

// NewDiskStore creates a store writing below root. An empty root means the
// current directory.
func NewDiskStore(root string) *DiskStore {
	if root == "" {
		root = "."
	}
	return &DiskStore{Root: root}
}

// errOutsideRoot is returned for store paths that would leave the root.
var errOutsideRoot = errors.New("path leaves the store root")

func (s *DiskStore) hostPath(p string) (string, error) {
	local := filepath.FromSlash(p)
	if !filepath.IsLocal(local) {
		return "", errOutsideRoot
	}
	return filepath.Join(s.Root, local), nil
}

// Exists implements studytypes.Store.
func (s *DiskStore) Exists(p string) (bool, error) {
	host, err := s.hostPath(p)
	if err != nil {
		return false, &studytypes.IOError{Op: "stat", Path: p, Err: err}
	}
	_, err = os.Stat(host)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, &studytypes.IOError{Op: "stat", Path: p, Err: err}
}

// RemoveAll implements studytypes.Store.
func (s *DiskStore) RemoveAll(p string) error {
	host, err := s.hostPath(p)
	if err != nil {
		return &studytypes.IOError{Op: "remove", Path: p, Err: err}
	}
	if err := os.RemoveAll(host); err != nil {
		return &studytypes.IOError{Op: "remove", Path: p, Err: err}
	}
	return nil
}

// WriteFile implements studytypes.Store.
func (s *DiskStore) WriteFile(p string, data []byte) error {
	target, err := s.hostPath(p)
	if err != nil {
		return &studytypes.IOError{Op: "write", Path: p, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return &studytypes.IOError{Op: "create directory for", Path: p, Err: err}
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return &studytypes.IOError{Op: "write", Path: p, Err: err}
	}
	return nil
}

// ReadFile implements studytypes.Store.
func (s *DiskStore) ReadFile(p string) ([]byte, error) {
	host, err := s.hostPath(p)
	if err != nil {
		return nil, &studytypes.IOError{Op: "read", Path: p, Err: err}
	}
	data, err := os.ReadFile(host)
	if err != nil {
		return nil, &studytypes.IOError{Op: "read", Path: p, Err: err}
	}
	return data, nil
}

// CopyFile implements studytypes.Store. The copy keeps the source's permission
// bits and modification time.
func (s *DiskStore) CopyFile(source, dir string) error {
	in, err := os.Open(source)
	if err != nil {
		return &studytypes.IOError{Op: "open dependency", Path: source, Err: err}
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return &studytypes.IOError{Op: "stat dependency", Path: source, Err: err}
	}
	if info.IsDir() {
		return &studytypes.IOError{Op: "copy dependency", Path: source, Err: errors.New("is a directory")}
	}

	targetDir, err := s.hostPath(dir)
	if err != nil {
		return &studytypes.IOError{Op: "copy dependency to", Path: dir, Err: err}
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return &studytypes.IOError{Op: "create directory", Path: dir, Err: err}
	}

	target := filepath.Join(targetDir, filepath.Base(source))
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return &studytypes.IOError{Op: "create", Path: target, Err: err}
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return &studytypes.IOError{Op: "copy dependency to", Path: target, Err: err}
	}
	if err := out.Close(); err != nil {
		return &studytypes.IOError{Op: "close", Path: target, Err: err}
	}

	if err := os.Chtimes(target, info.ModTime(), info.ModTime()); err != nil {
		return &studytypes.IOError{Op: "set times on", Path: target, Err: err}
	}
	return nil
}
