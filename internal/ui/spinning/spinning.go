// Package spinning provides a spinning symbol, followed by the elapsed time, to show while the AI is
// thinking.
package spinning

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"k8s.io/klog/v2"
)

// Spinning is a display running on its own goroutine, until Done is called.
type Spinning struct {
	wg     sync.WaitGroup
	cancel func()
}

var (
	// Theme of the spinning symbol, it can be set to any sequence of runes.
	Theme = []rune(`|/-\`)

	// Interval between updates.
	Interval = 250 * time.Millisecond
)

// SafeInterrupt will capture SigInt (Ctrl+C) and SigTerm and call the provided onInterrupt.
// If the program hasn't exited after gracePeriod, it restores the terminal and exits.
func SafeInterrupt(onInterrupt func(), gracePeriod time.Duration) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigChan
		fmt.Println()
		klog.Errorf("Got interrupted (signal %q), shutting down... (%s)", s, gracePeriod)
		if onInterrupt != nil {
			go onInterrupt()
		}
		time.Sleep(gracePeriod)
		Reset(os.Stdout)
		klog.Fatalf("Graceful shutting down %s period expired, exiting.", gracePeriod)
	}()
}

// Reset terminal: make cursor visible, restore default terminal colors.
func Reset(out io.Writer) {
	fmt.Fprint(out, "\033[?25h\033[39;49;0m\n")
}

// New starts a spinning display on out, that runs on a separate goroutine until Spinning.Done is called or
// ctx is cancelled.
func New(ctx context.Context, out io.Writer) *Spinning {
	s := &Spinning{}
	ctx, s.cancel = context.WithCancel(ctx)
	theme := Theme
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		start := time.Now()
		ticker := time.NewTicker(Interval)
		defer ticker.Stop()
		fmt.Fprint(out, "\033[?25l")       // Hide cursor.
		defer fmt.Fprint(out, "\033[?25h") // Restore cursor.

		var last string
		for idx := 0; ; idx = (idx + 1) % len(theme) {
			erase(out, last)
			last = fmt.Sprintf("%c %.1fs", theme[idx], time.Since(start).Seconds())
			fmt.Fprint(out, last)
			select {
			case <-ctx.Done():
				erase(out, last)
				return
			case <-ticker.C:
			}
		}
	}()
	return s
}

// erase the previously printed text, by moving back and overwriting with spaces.
func erase(out io.Writer, last string) {
	n := len([]rune(last))
	if n == 0 {
		return
	}
	fmt.Fprintf(out, "\033[%dD\033[0K", n)
}

// Done stops the display and waits for it to clean up.
func (s *Spinning) Done() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.wg.Wait()
}
