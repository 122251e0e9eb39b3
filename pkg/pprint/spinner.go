package pprint

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
)

// ─────────────────────────────────────────────────────────────────────────────
// Spinner
// ─────────────────────────────────────────────────────────────────────────────

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is a non-blocking terminal spinner. On a non-interactive printer
// it prints nothing until Stop, which prints the final status line.
type Spinner struct {
	p      *Printer
	label  string
	done   chan struct{}
	mu     sync.Mutex
	active bool
}

// NewSpinner creates a Spinner with the given label.
func (p *Printer) NewSpinner(label string) *Spinner {
	return &Spinner{p: p, label: label, done: make(chan struct{})}
}

// Start begins the spinner animation in a goroutine.
func (s *Spinner) Start() {
	s.mu.Lock()
	s.active = true
	s.mu.Unlock()

	if !s.p.interactive {
		return
	}

	go func() {
		i := 0
		for {
			select {
			case <-s.done:
				return
			case <-time.After(80 * time.Millisecond):
				s.mu.Lock()
				if !s.active {
					s.mu.Unlock()
					return
				}
				frame := spinnerFrames[i%len(spinnerFrames)]
				fmt.Fprintf(s.p.out, "\r%s %s ", s.p.primary.Render(frame), s.p.text.Render(s.label))
				i++
				s.mu.Unlock()
			}
		}
	}()
}

// Stop halts the spinner and prints the final status line.
func (s *Spinner) Stop(success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	close(s.done)
	s.active = false

	prefix := ""
	if s.p.interactive {
		prefix = "\r"
	}
	if success {
		fmt.Fprintf(s.p.out, "%s%s %s\n", prefix, s.p.success.Render("✓"), s.p.text.Render(s.label))
	} else {
		fmt.Fprintf(s.p.out, "%s%s %s\n", prefix, s.p.errStyl.Render("✗"), s.p.text.Render(s.label))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Countdown
// ─────────────────────────────────────────────────────────────────────────────

// countdownTick is how often the countdown bar is redrawn.
const countdownTick = time.Second

// Countdown blocks for d, drawing a draining progress bar on interactive
// printers. It returns ctx.Err() if ctx is cancelled first.
func (p *Printer) Countdown(ctx context.Context, label string, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	if !p.interactive {
		p.Info("%s (%s)", label, d.Round(time.Second))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		}
	}

	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))
	start := time.Now()
	ticker := time.NewTicker(countdownTick)
	defer ticker.Stop()

	draw := func() {
		remaining := d - time.Since(start)
		if remaining < 0 {
			remaining = 0
		}
		frac := float64(remaining) / float64(d)
		fmt.Fprintf(p.out, "\r%s %s %s ",
			p.text.Render(label),
			bar.ViewAs(frac),
			p.muted.Render(remaining.Round(time.Second).String()),
		)
	}

	draw()
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(p.out)
			return ctx.Err()
		case <-timer.C:
			draw()
			fmt.Fprintln(p.out)
			return nil
		case <-ticker.C:
			draw()
		}
	}
}
