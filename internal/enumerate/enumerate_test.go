package enumerate

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel string, size int) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", size)), 0o644))
	return path
}

func objectNames(items []Item) []string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.ObjectName)
	}
	return names
}

func TestEnumerate_Basic(t *testing.T) {
	root := t.TempDir()
	aPath := writeFile(t, root, "a.py", 10)
	bPath := writeFile(t, root, "sub/b.py", 0)

	items, err := Enumerate(root, "tokens")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, Item{LocalPath: aPath, RelPath: "a.py", ObjectName: "a.py", Size: 10}, items[0])
	assert.Equal(t, Item{LocalPath: bPath, RelPath: filepath.Join("sub", "b.py"), ObjectName: "sub/b.py", Size: 0}, items[1])
}

func TestEnumerate_ExcludesReservedNameAnywhere(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "tokens", 5)
	writeFile(t, root, "deep/er/tokens", 5)
	writeFile(t, root, "deep/er/tokens.txt", 5)
	writeFile(t, root, "run.sh", 5)

	items, err := Enumerate(root, "tokens", "tokens.lock")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"deep/er/tokens.txt", "run.sh"}, objectNames(items))
}

func TestEnumerate_MissingRoot(t *testing.T) {
	items, err := Enumerate(filepath.Join(t.TempDir(), "jobs"), "tokens")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestEnumerate_RootIsFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "jobs", 3)

	items, err := Enumerate(path)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestEnumerate_EmptyDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0o755))

	items, err := Enumerate(root)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestEnumerate_StableAcrossRuns(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{"z.py", "a/1.out", "a/2.err", "m/n/o.h5", "b.sh"} {
		writeFile(t, root, rel, 3)
	}

	first, err := Enumerate(root, "tokens")
	require.NoError(t, err)
	second, err := Enumerate(root, "tokens")
	require.NoError(t, err)

	assert.ElementsMatch(t, first, second)
	assert.Len(t, first, 5)
}

func TestEnumerate_IgnoreFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, IgnoreFileName), []byte("*.log\nscratch/\n"), 0o644))
	writeFile(t, root, "job/slurm.log", 4)
	writeFile(t, root, "job/result.h5", 4)
	writeFile(t, root, "scratch/tmp.bin", 4)
	writeFile(t, root, "keep.py", 4)

	items, err := Enumerate(root, "tokens")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"job/result.h5", "keep.py"}, objectNames(items))
}

func TestEnumerate_ExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "job1/core.123", 4)
	writeFile(t, root, "job1/out.h5", 4)
	writeFile(t, root, "job2/tmp/a.bin", 4)
	writeFile(t, root, "job2/out.h5", 4)

	e, err := New(root).Exclude("**/core.*", "*/tmp")
	require.NoError(t, err)

	items, err := e.Enumerate()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"job1/out.h5", "job2/out.h5"}, objectNames(items))

	_, err = New(root).Exclude("[unclosed")
	assert.ErrorIs(t, err, ErrBadPattern)
}

func TestEnumerate_Symlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	root := t.TempDir()
	outside := t.TempDir()
	target := writeFile(t, outside, "data.csv", 7)
	writeFile(t, outside, "dir/inner.py", 7)

	require.NoError(t, os.Symlink(target, filepath.Join(root, "linked.csv")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "dir"), filepath.Join(root, "linkdir")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "missing"), filepath.Join(root, "dangling")))

	items, err := Enumerate(root)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "linked.csv", items[0].ObjectName)
	assert.Equal(t, int64(7), items[0].Size)
}

func TestObjectName(t *testing.T) {
	long := strings.Repeat("a", 300)
	wide := strings.Repeat("é", 300)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "a.py", "a.py"},
		{"nested", filepath.Join("sub", "dir", "b.py"), "sub/dir/b.py"},
		{"leading separator", string(filepath.Separator) + filepath.Join("sub", "b.py"), "sub/b.py"},
		{"exactly max", long[:MaxObjectNameLen], long[:MaxObjectNameLen]},
		{"truncated", long, long[:MaxObjectNameLen]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectName(tt.in))
		})
	}

	t.Run("truncates characters not bytes", func(t *testing.T) {
		got := ObjectName(wide)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, MaxObjectNameLen, utf8.RuneCountInString(got))
	})

	t.Run("long relative paths from the walk", func(t *testing.T) {
		root := t.TempDir()
		rel := strings.Repeat("d", 200) + "/" + strings.Repeat("f", 100) + ".py"
		writeFile(t, root, rel, 1)

		items, err := Enumerate(root)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Len(t, items[0].ObjectName, MaxObjectNameLen)
		assert.Equal(t, rel[:MaxObjectNameLen], items[0].ObjectName)
	})
}
