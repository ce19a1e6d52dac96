package planner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanCopiesOnlyMissingContent(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src")
	dst := filepath.Join(tmpDir, "dst")
	require.NoError(t, os.Mkdir(src, 0o755))
	require.NoError(t, os.Mkdir(dst, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "b.txt"), []byte("world"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "x.txt"), []byte("hello"), 0o644))

	p := NewDirPlanner(osfs.New("/"), newProvider(t))
	tasks, err := p.Plan(context.Background(), src, dst, Options{Workers: 2})
	require.NoError(t, err)

	assert.Equal(t, []CopyTask{
		{Source: filepath.Join(src, "b.txt"), Destination: filepath.Join(dst, "b.txt")},
	}, tasks)
}

func TestPlanSubdirectoryAbortsBeforeHashing(t *testing.T) {
	tests := []struct {
		name   string
		subdir string
		want   string
	}{
		{name: "in source", subdir: "/src/nested", want: "scan source"},
		{name: "in destination", subdir: "/dst/nested", want: "scan destination"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := &mockFS{Filesystem: memfs.New()}
			writeFiles(t, fs, "/src", map[string]string{"a.txt": "hello"})
			writeFiles(t, fs, "/dst", map[string]string{"x.txt": "other"})
			require.NoError(t, fs.MkdirAll(tt.subdir, 0o755))

			p := NewDirPlanner(fs, newProvider(t))
			tasks, err := p.Plan(context.Background(), "/src", "/dst", Options{})

			require.Error(t, err)
			assert.Nil(t, tasks)
			assert.True(t, errors.Is(err, ErrSubdirectory))
			assert.Contains(t, err.Error(), tt.want)
			assert.Zero(t, fs.opened.Load())
		})
	}
}

func TestPlanFiltersApplyToSourceOnly(t *testing.T) {
	fs := &mockFS{Filesystem: memfs.New()}
	writeFiles(t, fs, "/src", map[string]string{"a.tmp": "one", "b.txt": "two", "c.txt": "three"})
	writeFiles(t, fs, "/dst", map[string]string{"ignored.tmp": "two"})

	p := NewDirPlanner(fs, newProvider(t))
	tasks, err := p.Plan(context.Background(), "/src", "/dst", Options{Excludes: []string{"*.tmp"}})
	require.NoError(t, err)

	// b.txt matches dst/ignored.tmp by content even though *.tmp is excluded.
	assert.Equal(t, []CopyTask{
		{Source: "/src/c.txt", Destination: "/dst/c.txt"},
	}, tasks)
}

func TestPlanDigestFailureIsFatal(t *testing.T) {
	boom := errors.New("input/output error")
	fs := &mockFS{
		Filesystem: memfs.New(),
		openFunc: func(name string) error {
			if name == "/dst/bad.txt" {
				return boom
			}
			return nil
		},
	}
	writeFiles(t, fs, "/src", map[string]string{"a.txt": "hello"})
	writeFiles(t, fs, "/dst", map[string]string{"bad.txt": "x"})

	p := NewDirPlanner(fs, newProvider(t))
	tasks, err := p.Plan(context.Background(), "/src", "/dst", Options{})

	require.Error(t, err)
	assert.Nil(t, tasks)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "fingerprint destination")
}
