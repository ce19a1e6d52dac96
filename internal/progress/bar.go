package progress

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Reporter creates progress bars for the sync phases. A nil Reporter
// hands out nil bars, whose methods do nothing.
type Reporter struct {
	out io.Writer
}

func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Bar counts completed items of one phase.
type Bar struct {
	bar *progressbar.ProgressBar
}

func (r *Reporter) Start(description string, total int) *Bar {
	if r == nil {
		return nil
	}
	return &Bar{
		bar: progressbar.NewOptions(
			total,
			progressbar.OptionSetWriter(r.out),
			progressbar.OptionSetDescription(description),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		),
	}
}

// Increment is safe for concurrent use.
func (b *Bar) Increment() {
	if b == nil {
		return
	}
	_ = b.bar.Add(1)
}

func (b *Bar) Finish() {
	if b == nil {
		return
	}
	_ = b.bar.Finish()
}
