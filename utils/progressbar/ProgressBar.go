// Package progressbar implements functionality of printing a progress
// bar to a terminal
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// ProgressBar implements a progress bar that must be manually
// displayed. That is, Display must be called whenever an updated
// progress bar should be printed.
//
// ProgressBar is safe for concurrent use, so that multiple workers may
// increment the same bar.
type ProgressBar struct {
	lock            sync.Mutex
	out             io.Writer
	width           float64
	maxProgress     float64
	currentProgress float64
	bar             strings.Builder
	startTime       time.Time
}

// NewProgressBar returns a new ProgressBar that is width characters
// wide, reaches 100% after max calls to Increment, and is printed
// to out
func NewProgressBar(out io.Writer, width, max int) *ProgressBar {
	return &ProgressBar{
		out:         out,
		width:       float64(width),
		maxProgress: float64(max),
		startTime:   time.Now(),
	}
}

// Increment increments the internal progress counter. Each time an
// iteration is performed, Increment should be called.
func (p *ProgressBar) Increment() {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.currentProgress < p.maxProgress {
		p.currentProgress++
	}
}

// Progress returns the fraction of iterations completed
func (p *ProgressBar) Progress() float64 {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.maxProgress <= 0 {
		return 1
	}
	return p.currentProgress / p.maxProgress
}

// Display prints the progress bar, overwriting the previously
// displayed bar
func (p *ProgressBar) Display() {
	prog := p.Progress()

	p.lock.Lock()
	defer p.lock.Unlock()

	p.bar.Reset()
	p.bar.WriteString("|")

	currentProg := prog * p.width
	for i := 0.0; i < currentProg; i++ {
		p.bar.WriteString("█")
	}
	for i := currentProg; i < p.width; i++ {
		p.bar.WriteString(" ")
	}
	p.bar.WriteString(fmt.Sprintf("| [%.2f%v | elapsed: %v]", prog*100, "%",
		time.Since(p.startTime).Truncate(time.Second)))

	fmt.Fprintf(p.out, "\r\033[K%v", p.bar.String())
}
