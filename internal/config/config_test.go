package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuya-takeyama/isc/internal/checksum"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ISC_THREADS", "")
	t.Setenv("ISC_CONCURRENCY", "")
	t.Setenv("ISC_ALGORITHM", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, runtime.NumCPU(), cfg.Threads)
	assert.Equal(t, "sha2-256", cfg.Algorithm)

	alg, err := cfg.Validate()
	require.NoError(t, err)
	assert.Equal(t, checksum.SHA2_256, alg)
	assert.Equal(t, cfg.Threads, cfg.Concurrency)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "isc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
threads: 3
concurrency: 7
algorithm: SHA3_512
exclude:
  - "*.tmp"
progress: true
`), 0o644))

	t.Setenv("ISC_THREADS", "5")
	t.Setenv("ISC_CONCURRENCY", "")
	t.Setenv("ISC_ALGORITHM", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Threads, "environment overrides the file")
	assert.Equal(t, 7, cfg.Concurrency)
	assert.Equal(t, []string{"*.tmp"}, cfg.Excludes)
	assert.True(t, cfg.Progress)

	alg, err := cfg.Validate()
	require.NoError(t, err)
	assert.Equal(t, checksum.SHA3_512, alg)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("threads: [not a number"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	t.Setenv("ISC_THREADS", "many")
	_, err = Load("")
	assert.ErrorContains(t, err, "ISC_THREADS")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "ok", cfg: Config{Threads: 1, Algorithm: "sha2-512"}},
		{name: "unknown algorithm", cfg: Config{Threads: 1, Algorithm: "md5"}, wantErr: true},
		{name: "zero threads", cfg: Config{Threads: 0, Algorithm: "sha2-256"}, wantErr: true},
		{name: "negative concurrency", cfg: Config{Threads: 2, Concurrency: -1, Algorithm: "sha2-256"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
