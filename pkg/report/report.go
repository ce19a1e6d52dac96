// Package report renders the outcome of a copy batch as text.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/yuya-takeyama/isc/pkg/executor"
)

// Report is the final, immutable summary of a run.
type Report struct {
	Outcomes    []executor.Outcome
	Succeeded   int
	Failed      int
	BytesCopied int64
}

// New counts the outcomes. The slice is copied so later changes by the caller
// do not leak into the report.
func New(outcomes []executor.Outcome) Report {
	r := Report{Outcomes: append([]executor.Outcome(nil), outcomes...)}
	for _, o := range r.Outcomes {
		if o.OK() {
			r.Succeeded++
			r.BytesCopied += o.Bytes
		}
	}
	r.Failed = len(r.Outcomes) - r.Succeeded
	return r
}

func (r Report) Total() int {
	return len(r.Outcomes)
}

// WriteTo writes the summary line followed by one line per outcome.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.String())
	return int64(n), err
}

func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d files copied successfully; %d files failed to copy\n", r.Succeeded, r.Failed)
	for _, o := range r.Outcomes {
		b.WriteString(Line(o))
		b.WriteByte('\n')
	}
	return b.String()
}

// Line formats a single outcome.
func Line(o executor.Outcome) string {
	if o.OK() {
		return fmt.Sprintf("Copied %d bytes from %s to %s", o.Bytes, o.Task.Source, o.Task.Destination)
	}
	return fmt.Sprintf("Failed to copy from %s to %s: %v", o.Task.Source, o.Task.Destination, o.Err)
}
