package planner

import (
	"context"
	"errors"

	"github.com/yuya-takeyama/isc/internal/checksum"
	"github.com/yuya-takeyama/isc/internal/progress"
	"github.com/yuya-takeyama/isc/pkg/logger"
)

// ErrSubdirectory is returned when a scanned directory contains a directory entry.
var ErrSubdirectory = errors.New("directory contains a subdirectory")

type Planner interface {
	Plan(ctx context.Context, source, dest string, opts Options) ([]CopyTask, error)
}

// Fingerprint is the content view of one directory scan.
type Fingerprint struct {
	Dir     string
	Digests map[checksum.Digest]struct{}
	Paths   map[string]checksum.Digest
}

func newFingerprint(dir string) *Fingerprint {
	return &Fingerprint{
		Dir:     dir,
		Digests: make(map[checksum.Digest]struct{}),
		Paths:   make(map[string]checksum.Digest),
	}
}

func (f *Fingerprint) Contains(d checksum.Digest) bool {
	_, ok := f.Digests[d]
	return ok
}

func (f *Fingerprint) Len() int {
	return len(f.Paths)
}

// CopyTask is one planned copy from Source to Destination.
type CopyTask struct {
	Source      string
	Destination string
}

type Options struct {
	Workers  int
	Excludes []string
	Includes []string
	Logger   logger.Logger
	Progress *progress.Reporter
}
