package study

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyda/pkg/studytypes"
)

func TestDiskStore_WriteReadRemove(t *testing.T) {
	store := NewDiskStore(t.TempDir())

	exists, err := store.Exists("study")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.WriteFile("study/a_1_/b_2_/gen.py", []byte("x = 1\n")))

	exists, err = store.Exists("study/a_1_")
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := store.ReadFile("study/a_1_/b_2_/gen.py")
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(data))

	require.NoError(t, store.RemoveAll("study"))
	exists, err = store.Exists("study")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDiskStore_ReadMissing(t *testing.T) {
	store := NewDiskStore(t.TempDir())

	_, err := store.ReadFile("study/tree.yaml")
	var ioErr *studytypes.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "read", ioErr.Op)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiskStore_CopyFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "custom_ost.py")
	require.NoError(t, os.WriteFile(src, []byte("def ost(): pass\n"), 0o640))
	mtime := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	root := t.TempDir()
	store := NewDiskStore(root)
	require.NoError(t, store.CopyFile(src, "study"))

	target := filepath.Join(root, "study", "custom_ost.py")
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "def ost(): pass\n", string(data))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	assert.True(t, info.ModTime().Equal(mtime))
}

func TestDiskStore_CopyDirectoryFails(t *testing.T) {
	store := NewDiskStore(t.TempDir())

	err := store.CopyFile(t.TempDir(), "study")
	var ioErr *studytypes.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "copy dependency", ioErr.Op)
}

func TestTreeDocument(t *testing.T) {
	tree := studytypes.NewTree()
	require.NoError(t, tree.Insert([]string{"base"}, "study/base.py"))
	require.NoError(t, tree.Insert([]string{"x_1_", "scan1"}, "study/x_1_/scan1.py"))

	store := NewDiskStore(t.TempDir())
	require.NoError(t, WriteTree(store, "study", tree))

	raw, err := store.ReadFile("study/tree.yaml")
	require.NoError(t, err)
	assert.Equal(t, "base:\n  file: study/base.py\nx_1_:\n  scan1:\n    file: study/x_1_/scan1.py\n", string(raw))

	loaded, err := ReadTree(store, "study")
	require.NoError(t, err)
	assert.Equal(t, tree.Leaves(), loaded.Leaves())
	assert.Equal(t, []string{"base", "x_1_"}, loaded.Keys())
}

func TestDecodeTree_Invalid(t *testing.T) {
	_, err := DecodeTree([]byte("- a\n- b\n"))
	assert.Error(t, err)
}

func TestDiskStore_PathsStayBelowRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "out")
	store := NewDiskStore(root)

	for _, p := range []string{"../outside.py", "study/../../outside.py", "/abs/outside.py"} {
		t.Run(p, func(t *testing.T) {
			err := store.WriteFile(p, []byte("x = 1\n"))
			var ioErr *studytypes.IOError
			require.True(t, errors.As(err, &ioErr))
			assert.ErrorIs(t, err, errOutsideRoot)

			_, err = store.Exists(p)
			assert.ErrorIs(t, err, errOutsideRoot)
		})
	}

	assert.NoFileExists(t, filepath.Join(parent, "outside.py"))

	src := filepath.Join(t.TempDir(), "custom_ost.py")
	require.NoError(t, os.WriteFile(src, []byte("pass\n"), 0o644))
	assert.ErrorIs(t, store.CopyFile(src, ".."), errOutsideRoot)
}
