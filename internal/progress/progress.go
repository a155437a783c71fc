// Package progress draws progress bars on stderr.
package progress

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Tracker wraps a progress bar for file processing. A nil or disabled
// Tracker accepts every call and draws nothing.
type Tracker struct {
	bar *progressbar.ProgressBar
}

type options struct {
	writer  io.Writer
	enabled bool
}

// Option configures a Tracker.
type Option func(*options)

// WithWriter draws to w instead of stderr.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

// WithEnabled turns drawing on or off.
func WithEnabled(enabled bool) Option {
	return func(o *options) {
		o.enabled = enabled
	}
}

func buildOptions(opts []Option) options {
	o := options{writer: os.Stderr, enabled: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewSpinner creates a spinner for operations with unknown total count.
func NewSpinner(label string, opts ...Option) *Tracker {
	o := buildOptions(opts)
	if !o.enabled {
		return &Tracker{}
	}
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(o.writer),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return &Tracker{bar: bar}
}

// NewTracker creates a progress bar with the given label and total count.
func NewTracker(label string, total int, opts ...Option) *Tracker {
	o := buildOptions(opts)
	if !o.enabled || total <= 0 {
		return &Tracker{}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(o.writer),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Tracker{bar: bar}
}

// Tick increments the progress by 1. Safe for concurrent use.
func (t *Tracker) Tick() {
	if t == nil || t.bar == nil {
		return
	}
	_ = t.bar.Add(1)
}

// Finish clears the bar completely.
func (t *Tracker) Finish() {
	if t == nil || t.bar == nil {
		return
	}
	_ = t.bar.Finish()
	_ = t.bar.Clear()
}
