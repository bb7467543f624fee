package template

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCacheCompilesAndCaches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.qtpl")
	require.NoError(t, os.WriteFile(path, []byte("hello {var:name}"), 0o644))

	fc, err := NewFileCache(nil)
	require.NoError(t, err)
	defer fc.Close()

	tpl1, err := fc.Get(path)
	require.NoError(t, err)
	require.Len(t, tpl1.Nodes, 2)

	tpl2, err := fc.Get(path)
	require.NoError(t, err)
	assert.Same(t, tpl1, tpl2)
}

func TestFileCacheReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.qtpl")
	require.NoError(t, os.WriteFile(path, []byte("v1 {var:name}"), 0o644))

	fc, err := NewFileCache(nil)
	require.NoError(t, err)
	defer fc.Close()

	_, err = fc.Get(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("v2 {var:name}"), 0o644))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		tpl, err := fc.Get(path)
		require.NoError(t, err)
		if lit, ok := tpl.Nodes[0].(*Literal); ok && lit.Text == "v2 " {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("file cache did not pick up the updated template contents in time")
}

func TestFileCacheMissingFileErrors(t *testing.T) {
	fc, err := NewFileCache(nil)
	require.NoError(t, err)
	defer fc.Close()

	_, err = fc.Get(filepath.Join(t.TempDir(), "missing.qtpl"))
	assert.Error(t, err)
}
