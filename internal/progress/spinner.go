package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Spinner constants
const (
	SpinnerInterval = 100 * time.Millisecond
	SpinnerType     = 14
)

// Spinner animates an indeterminate operation such as fetching yt-dlp.
type Spinner struct {
	bar  Bar
	out  io.Writer
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewSpinner starts a spinner with the given message.
func NewSpinner(w io.Writer, message string) *Spinner {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(message),
		progressbar.OptionSpinnerType(SpinnerType),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)
	return startSpinner(bar, w, SpinnerInterval)
}

func startSpinner(bar Bar, w io.Writer, interval time.Duration) *Spinner {
	s := &Spinner{
		bar:  bar,
		out:  w,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-t.C:
				_ = s.bar.Add(1)
			}
		}
	}()
	return s
}

// Finish stops the animation and replaces the message.
func (s *Spinner) Finish(message string) {
	s.once.Do(func() {
		close(s.stop)
		<-s.done
		s.bar.Describe(message)
		_ = s.bar.Finish()
		fmt.Fprintln(s.out)
	})
}
