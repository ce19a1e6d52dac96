package planner

import (
	"context"
	"fmt"

	"github.com/go-git/go-billy/v5"
	"golang.org/x/sync/errgroup"

	"github.com/yuya-takeyama/isc/internal/checksum"
)

// DirPlanner plans copies between two local directories by content.
type DirPlanner struct {
	fs       billy.Filesystem
	provider checksum.Provider
}

func NewDirPlanner(fs billy.Filesystem, provider checksum.Provider) *DirPlanner {
	return &DirPlanner{
		fs:       fs,
		provider: provider,
	}
}

// Plan fingerprints source and dest concurrently and returns the copy set.
// Filters in opts only apply to source; every destination file counts as present.
func (p *DirPlanner) Plan(ctx context.Context, source, dest string, opts Options) ([]CopyTask, error) {
	fingerprinter := NewFingerprinter(p.fs, p.provider, opts)

	// Both listings are validated before any file is hashed.
	sourceFiles, err := fingerprinter.list(source, Filter{Excludes: opts.Excludes, Includes: opts.Includes})
	if err != nil {
		return nil, fmt.Errorf("failed to scan source: %w", err)
	}
	destFiles, err := fingerprinter.list(dest, Filter{})
	if err != nil {
		return nil, fmt.Errorf("failed to scan destination: %w", err)
	}

	bar := opts.Progress.Start("hashing", len(sourceFiles)+len(destFiles))
	defer bar.Finish()

	var sourceFP, destFP *Fingerprint
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fp, err := fingerprinter.hash(gctx, source, sourceFiles, bar)
		if err != nil {
			return fmt.Errorf("failed to fingerprint source: %w", err)
		}
		sourceFP = fp
		return nil
	})
	g.Go(func() error {
		fp, err := fingerprinter.hash(gctx, dest, destFiles, bar)
		if err != nil {
			return fmt.Errorf("failed to fingerprint destination: %w", err)
		}
		destFP = fp
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Diff(sourceFP, destFP), nil
}

var _ Planner = (*DirPlanner)(nil)
