package planner

import (
	"sync/atomic"

	"github.com/go-git/go-billy/v5"
)

// mockFS wraps a real billy filesystem and lets tests intercept opens.
type mockFS struct {
	billy.Filesystem
	openFunc func(name string) error
	opened   atomic.Int64
}

func (m *mockFS) Open(name string) (billy.File, error) {
	m.opened.Add(1)
	if m.openFunc != nil {
		if err := m.openFunc(name); err != nil {
			return nil, err
		}
	}
	return m.Filesystem.Open(name)
}
