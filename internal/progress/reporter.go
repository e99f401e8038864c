// Package progress renders the terminal progress display shown while the
// downloader runs. The percentage is an animation on a fixed schedule and is
// not derived from real transfer progress.
package progress

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Ticker defaults
const (
	DefaultInterval = 500 * time.Millisecond
	DefaultStep     = 1
	DefaultCeiling  = 95
	Complete        = 100
	BarWidth        = 40
)

// Bar is the subset of *progressbar.ProgressBar the reporter drives.
// Implementations must be safe for concurrent use.
type Bar interface {
	Set(num int) error
	Add(num int) error
	Describe(description string)
	Finish() error
}

// Options tune the ticker schedule. Zero values fall back to the defaults.
type Options struct {
	Interval time.Duration
	Step     int
	Ceiling  int
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.Step <= 0 {
		o.Step = DefaultStep
	}
	if o.Ceiling <= 0 || o.Ceiling > Complete {
		o.Ceiling = DefaultCeiling
	}
	return o
}

// Reporter advances a percentage bar while a blocking operation runs.
type Reporter struct {
	bar  Bar
	out  io.Writer
	opts Options

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

// New creates a reporter drawing a 0-100 bar on w.
func New(w io.Writer, description string, opts Options) *Reporter {
	bar := progressbar.NewOptions(Complete,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(BarWidth),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "#",
			SaucerHead:    ">",
			SaucerPadding: "-",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return NewWithBar(bar, w, opts)
}

// NewWithBar creates a reporter around an existing bar.
func NewWithBar(bar Bar, w io.Writer, opts Options) *Reporter {
	return &Reporter{
		bar:  bar,
		out:  w,
		opts: opts.withDefaults(),
	}
}

// Start shows 0% and begins ticking. Calling Start twice has no effect.
func (r *Reporter) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil || r.stopped {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})
	_ = r.bar.Set(0)

	go r.tick(ctx)
}

func (r *Reporter) tick(ctx context.Context) {
	defer close(r.done)

	t := time.NewTicker(r.opts.Interval)
	defer t.Stop()

	pos := 0
	for pos < r.opts.Ceiling {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			pos = min(pos+r.opts.Step, r.opts.Ceiling)
			_ = r.bar.Set(pos)
		}
	}
}

// Stop cancels the ticker, waits for it to exit, forces the bar to 100% and
// prints the final message. It is safe to call Stop without Start and more
// than once.
func (r *Reporter) Stop(ok bool) {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	_ = r.bar.Set(Complete)
	if ok {
		r.bar.Describe("Download completed successfully!")
	} else {
		r.bar.Describe("Download failed!")
	}
	_ = r.bar.Finish()
	fmt.Fprintln(r.out)
}
