// internal/console/spinner.go
//
// "Consulting the guardian" spinner shown while a completion is in flight.
// Stop is idempotent and waits for the ticker goroutine to exit.

package console

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a label on one terminal line while the guardian thinks.
type spinner struct {
	out   io.Writer
	label string
	every time.Duration

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func startSpinner(out io.Writer, label string, every time.Duration) *spinner {
	s := &spinner{
		out:   out,
		label: label,
		every: every,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.done)
	t := time.NewTicker(s.every)
	defer t.Stop()
	for i := 0; ; i++ {
		fmt.Fprintf(s.out, "\r%s %s", spinnerFrames[i%len(spinnerFrames)], s.label)
		select {
		case <-s.stop:
			// clear the line
			fmt.Fprintf(s.out, "\r%*s\r", len(s.label)+2, "")
			return
		case <-t.C:
		}
	}
}

// Stop halts the animation and waits for the line to be cleared. Safe to
// call more than once.
func (s *spinner) Stop() {
	s.once.Do(func() { close(s.stop) })
	<-s.done
}
