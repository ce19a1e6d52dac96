package executor

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-git/go-billy/v5"
	"golang.org/x/sync/semaphore"

	"github.com/yuya-takeyama/isc/internal/progress"
	"github.com/yuya-takeyama/isc/pkg/logger"
	"github.com/yuya-takeyama/isc/pkg/planner"
)

const phaseCopy = "copy"

type Executor struct {
	fs          billy.Filesystem
	logger      logger.Logger
	progress    *progress.Reporter
	concurrency int
}

func NewExecutor(fs billy.Filesystem, log logger.Logger, concurrency int, reporter *progress.Reporter) *Executor {
	if concurrency <= 0 {
		concurrency = 32
	}
	if log == nil {
		log = &logger.NullLogger{}
	}
	return &Executor{
		fs:          fs,
		logger:      log,
		progress:    reporter,
		concurrency: concurrency,
	}
}

// Outcome is the result of one CopyTask. The copy succeeded iff Err is nil.
type Outcome struct {
	Task  planner.CopyTask
	Bytes int64
	Err   error
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

// Execute runs every task concurrently and returns outcome i for task i,
// whatever order the copies finish in. A failed copy never stops the others.
func (e *Executor) Execute(tasks []planner.CopyTask) []Outcome {
	results := make([]Outcome, len(tasks))
	if len(tasks) == 0 {
		return results
	}

	e.logger.PhaseStart(phaseCopy, len(tasks))
	bar := e.progress.Start("copying", len(tasks))
	defer bar.Finish()

	sem := semaphore.NewWeighted(int64(e.concurrency))
	var wg sync.WaitGroup

	for i, task := range tasks {
		wg.Add(1)
		go func(idx int, t planner.CopyTask) {
			defer wg.Done()

			// Acquire cannot fail without a deadline.
			_ = sem.Acquire(context.Background(), 1)
			defer sem.Release(1)

			n, err := e.copyFile(t)
			if err != nil {
				e.logger.Error(phaseCopy, t.Source, err)
			} else {
				e.logger.ItemProcessed(phaseCopy, fmt.Sprintf("%s -> %s (%d bytes)", t.Source, t.Destination, n), "copied")
			}

			results[idx] = Outcome{
				Task:  t,
				Bytes: n,
				Err:   err,
			}
			bar.Increment()
		}(i, task)
	}

	wg.Wait()
	e.logger.PhaseComplete(phaseCopy, len(results))
	return results
}

func (e *Executor) copyFile(task planner.CopyTask) (int64, error) {
	src, err := e.fs.Open(task.Source)
	if err != nil {
		return 0, fmt.Errorf("failed to open source: %w", err)
	}
	defer src.Close()

	mode := os.FileMode(0o644)
	if info, err := e.fs.Stat(task.Source); err == nil {
		mode = info.Mode().Perm()
	}

	dst, err := e.fs.OpenFile(task.Destination, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return 0, fmt.Errorf("failed to create destination: %w", err)
	}

	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("failed to copy: %w", err)
	}

	return n, nil
}
