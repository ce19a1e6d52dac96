package logger

import (
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// Logger receives progress events from the fingerprint and copy phases.
type Logger interface {
	PhaseStart(phase string, totalItems int)
	ItemProcessed(phase string, item string, action string)
	PhaseComplete(phase string, processedItems int)
	Error(operation string, path string, err error)
	Summary(copied, failed int, bytesCopied int64, duration time.Duration)
}

func newLogrus(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	return l
}

// VerboseLogger logs every phase transition and every processed item.
type VerboseLogger struct {
	log *logrus.Logger
}

func NewVerboseLogger(out io.Writer) *VerboseLogger {
	return &VerboseLogger{log: newLogrus(out, logrus.DebugLevel)}
}

func (l *VerboseLogger) PhaseStart(phase string, totalItems int) {
	l.log.WithFields(logrus.Fields{"phase": phase, "items": totalItems}).Info("starting phase")
}

func (l *VerboseLogger) ItemProcessed(phase string, item string, action string) {
	l.log.WithFields(logrus.Fields{"phase": phase, "action": action}).Debug(item)
}

func (l *VerboseLogger) PhaseComplete(phase string, processedItems int) {
	l.log.WithFields(logrus.Fields{"phase": phase, "processed": processedItems}).Info("phase complete")
}

func (l *VerboseLogger) Error(operation string, path string, err error) {
	l.log.WithFields(logrus.Fields{"operation": operation, "path": path}).WithError(err).Warn("operation failed")
}

func (l *VerboseLogger) Summary(copied, failed int, bytesCopied int64, duration time.Duration) {
	l.log.WithFields(logrus.Fields{
		"copied":   copied,
		"failed":   failed,
		"bytes":    humanize.Bytes(uint64(bytesCopied)),
		"duration": duration.Round(time.Millisecond).String(),
	}).Info("sync finished")
}

// QuietLogger only reports failures.
type QuietLogger struct {
	log *logrus.Logger
}

func NewQuietLogger(out io.Writer) *QuietLogger {
	return &QuietLogger{log: newLogrus(out, logrus.WarnLevel)}
}

func (l *QuietLogger) PhaseStart(phase string, totalItems int) {}

func (l *QuietLogger) ItemProcessed(phase string, item string, action string) {}

func (l *QuietLogger) PhaseComplete(phase string, processedItems int) {}

func (l *QuietLogger) Error(operation string, path string, err error) {
	l.log.WithFields(logrus.Fields{"operation": operation, "path": path}).WithError(err).Warn("operation failed")
}

func (l *QuietLogger) Summary(copied, failed int, bytesCopied int64, duration time.Duration) {}

type NullLogger struct{}

func (l *NullLogger) PhaseStart(phase string, totalItems int) {}

func (l *NullLogger) ItemProcessed(phase string, item string, action string) {}

func (l *NullLogger) PhaseComplete(phase string, processedItems int) {}

func (l *NullLogger) Error(operation string, path string, err error) {}

func (l *NullLogger) Summary(copied, failed int, bytesCopied int64, duration time.Duration) {}

// New picks the logger matching the verbosity flags. quiet wins over verbose.
func New(out io.Writer, verbose, quiet bool) Logger {
	switch {
	case quiet:
		return NewQuietLogger(out)
	case verbose:
		return NewVerboseLogger(out)
	default:
		return &defaultLogger{VerboseLogger{log: newLogrus(out, logrus.InfoLevel)}}
	}
}

// defaultLogger reports phases and the summary but not individual items.
type defaultLogger struct {
	VerboseLogger
}
