package planner

import (
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Diff returns a copy task for every source file whose content is not
// present anywhere in dest. Tasks are sorted by source path.
func Diff(source, dest *Fingerprint) []CopyTask {
	tasks := []CopyTask{}

	for path, digest := range source.Paths {
		if dest.Contains(digest) {
			continue
		}
		tasks = append(tasks, CopyTask{
			Source:      path,
			Destination: filepath.Join(dest.Dir, filepath.Base(path)),
		})
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].Source < tasks[j].Source
	})

	return tasks
}

// Filter decides which source files take part in a sync.
type Filter struct {
	Excludes []string
	Includes []string
}

// Skip reports whether name matches an exclude pattern without being
// rescued by an include pattern.
func (f Filter) Skip(name string) (bool, error) {
	excluded, err := MatchAny(name, f.Excludes)
	if err != nil || !excluded {
		return false, err
	}
	included, err := MatchAny(name, f.Includes)
	if err != nil {
		return false, err
	}
	return !included, nil
}

// MatchAny reports whether path matches at least one doublestar pattern.
func MatchAny(path string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			return false, err
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}
