package pyfloor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbergh/pyfloor/internal/version"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDetectSource(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.DetectSource(context.Background(), "import argparse")
	require.NoError(t, err)
	assert.Equal(t, version.P(version.V(2, 7), version.V(3, 2)), res.Minimum)
}

func TestDetectPathsCombines(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.py", "import abc\n")
	b := writeFile(t, dir, "b.py", "import argparse\n")

	e := newTestEngine(t)
	sum, err := e.DetectPaths(context.Background(), []string{a, b})
	require.NoError(t, err)
	require.Len(t, sum.Files, 2)
	assert.Equal(t, version.P(version.V(2, 7), version.V(3, 2)), sum.Minimum)
}

func TestDetectPathsSkipsNonPython(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.py", "import abc\n")
	txt := writeFile(t, dir, "notes.txt", "import argparse\n")

	e := newTestEngine(t)
	sum, err := e.DetectPaths(context.Background(), []string{a, txt})
	require.NoError(t, err)
	require.Len(t, sum.Files, 1)
	assert.Equal(t, a, sum.Files[0].Path)
}

func TestDetectPathsRecordsUnreadable(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.py", "import abc\n")
	missing := filepath.Join(dir, "missing.py")

	e := newTestEngine(t)
	sum, err := e.DetectPaths(context.Background(), []string{a, missing})
	require.NoError(t, err)
	require.Len(t, sum.Files, 2)

	byPath := map[string]FileResult{}
	for _, fr := range sum.Files {
		byPath[fr.Path] = fr
	}
	assert.Error(t, byPath[missing].Err)
	assert.NoError(t, byPath[a].Err)
	assert.Equal(t, version.P(version.V(2, 6), version.V(3, 0)), sum.Minimum)
}

func TestDetectPathsPerFileConflict(t *testing.T) {
	dir := t.TempDir()
	clean := writeFile(t, dir, "clean.py", "import abc\n")
	bad := writeFile(t, dir, "bad.py", "import copy_reg\nimport http\n")

	e := newTestEngine(t)
	sum, err := e.DetectPaths(context.Background(), []string{clean, bad})
	require.NoError(t, err)

	assert.Equal(t, []string{bad}, sum.Incompatible())
	assert.False(t, sum.Conflict)
	assert.Equal(t, version.P(version.V(2, 6), version.V(3, 0)), sum.Minimum)
}

func TestDetectPathsCrossFileConflict(t *testing.T) {
	dir := t.TempDir()
	py2 := writeFile(t, dir, "two.py", "import copy_reg\n")
	py3 := writeFile(t, dir, "three.py", "import http\n")

	e := newTestEngine(t)
	sum, err := e.DetectPaths(context.Background(), []string{py2, py3})
	require.NoError(t, err)

	assert.True(t, sum.Conflict)
	assert.Empty(t, sum.Incompatible())
}

func TestDetectDirectoryWalksTree(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pkg/a.py", "import argparse\n")
	writeFile(t, dir, "pkg/sub/b.py", "v = f\"{1}\"\n")
	writeFile(t, dir, "__pycache__/c.py", "import copy_reg\n")
	writeFile(t, dir, ".hidden/d.py", "import copy_reg\n")

	e := newTestEngine(t)
	sum, err := e.DetectDirectory(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, sum.Files, 2)
	assert.True(t, sum.Minimum.V2.IsExcluded())
	assert.Equal(t, version.V(3, 6), sum.Minimum.V3)
}

func TestDetectFileCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.py", "import argparse\n")
	dbPath := filepath.Join(dir, "cache.db")

	e := newTestEngine(t, WithCache(dbPath))

	first, err := e.DetectFile(context.Background(), path)
	require.NoError(t, err)
	second, err := e.DetectFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, first.Minimum, second.Minimum)
	assert.Equal(t, version.P(version.V(2, 7), version.V(3, 2)), second.Minimum)
}

func TestDetectFileCacheInvalidatedOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.py", "import abc\n")
	dbPath := filepath.Join(dir, "cache.db")

	e := newTestEngine(t, WithCache(dbPath))

	first, err := e.DetectFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, version.P(version.V(2, 6), version.V(3, 0)), first.Minimum)

	writeFile(t, dir, "a.py", "import argparse\n")
	second, err := e.DetectFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, version.P(version.V(2, 7), version.V(3, 2)), second.Minimum)
}

func TestLaxOption(t *testing.T) {
	src := "if x:\n\timport http\n"

	strict := newTestEngine(t)
	res, err := strict.DetectSource(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, version.V(3, 0), res.Minimum.V3)

	lax := newTestEngine(t, WithLax(true))
	res, err = lax.DetectSource(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, res.Minimum.IsZero())
}

func TestVerbosityOption(t *testing.T) {
	e := newTestEngine(t, WithVerbosity(2))
	res, err := e.DetectSource(context.Background(), "import argparse")
	require.NoError(t, err)
	assert.Contains(t, res.Report, "argparse")
}

func TestProcessesOption(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.py", "b.py", "c.py", "d.py"} {
		paths = append(paths, writeFile(t, dir, name, "import abc\n"))
	}

	e := newTestEngine(t, WithProcesses(1))
	sum, err := e.DetectPaths(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, sum.Files, 4)
	assert.Equal(t, version.P(version.V(2, 6), version.V(3, 0)), sum.Minimum)
}
