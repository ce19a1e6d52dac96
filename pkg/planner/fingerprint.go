package planner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/go-git/go-billy/v5"
	"golang.org/x/sync/errgroup"

	"github.com/yuya-takeyama/isc/internal/checksum"
	"github.com/yuya-takeyama/isc/internal/progress"
	"github.com/yuya-takeyama/isc/pkg/logger"
)

const phaseFingerprint = "fingerprint"

// Fingerprinter digests every top-level file of a directory on a bounded worker pool.
type Fingerprinter struct {
	fs       billy.Filesystem
	provider checksum.Provider
	logger   logger.Logger
	progress *progress.Reporter
	workers  int
}

func NewFingerprinter(fs billy.Filesystem, provider checksum.Provider, opts Options) *Fingerprinter {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	log := opts.Logger
	if log == nil {
		log = &logger.NullLogger{}
	}
	return &Fingerprinter{
		fs:       fs,
		provider: provider,
		logger:   log,
		progress: opts.Progress,
		workers:  workers,
	}
}

// fingerprint scans dir and digests every file that passes filter.
// Any subdirectory or I/O failure aborts the whole scan.
func (f *Fingerprinter) fingerprint(ctx context.Context, dir string, filter Filter) (*Fingerprint, error) {
	files, err := f.list(dir, filter)
	if err != nil {
		return nil, err
	}

	bar := f.progress.Start("hashing", len(files))
	defer bar.Finish()

	return f.hash(ctx, dir, files, bar)
}

// list classifies every entry of dir before anything is hashed.
func (f *Fingerprinter) list(dir string, filter Filter) ([]fileRef, error) {
	info, err := f.fs.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := f.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	files := make([]fileRef, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		path := f.fs.Join(dir, name)

		// Symlinks are followed; the target decides whether this is a file.
		if entry.Mode()&os.ModeSymlink != 0 {
			target, err := f.fs.Stat(path)
			if err != nil {
				return nil, fmt.Errorf("follow symlink %s: %w", path, err)
			}
			entry = target
		}

		if entry.IsDir() {
			return nil, fmt.Errorf("%w: %s", ErrSubdirectory, path)
		}

		skip, err := filter.Skip(name)
		if err != nil {
			return nil, fmt.Errorf("match filter for %s: %w", path, err)
		}
		if skip {
			f.logger.ItemProcessed(phaseFingerprint, path, "skip")
			continue
		}

		files = append(files, fileRef{Path: path})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}

func (f *Fingerprinter) hash(ctx context.Context, dir string, files []fileRef, bar *progress.Bar) (*Fingerprint, error) {
	result := newFingerprint(filepath.Clean(dir))
	var mu sync.Mutex

	f.logger.PhaseStart(phaseFingerprint, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)

	for _, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			id := nextJobID()
			digest, err := checksum.SumFile(f.fs, f.provider, file.Path)
			if err != nil {
				return fmt.Errorf("digest %s: %w", file.Path, err)
			}

			mu.Lock()
			result.Digests[digest] = struct{}{}
			result.Paths[file.Path] = digest
			mu.Unlock()

			f.logger.ItemProcessed(phaseFingerprint, fmt.Sprintf("%s (job %d, %s)", file.Path, id, digest.Hex()), "hashed")
			bar.Increment()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	f.logger.PhaseComplete(phaseFingerprint, result.Len())
	return result, nil
}
