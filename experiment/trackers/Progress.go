package trackers

import (
	"fmt"
	"io"

	"github.com/ElisevanderPol/marl-homomorphic-networks/experiment/tracker"
	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/progressbar"
	"gorgonia.org/tensor"
)

// Progress displays a progress bar which advances each time a batch of
// actions is tracked. Progress saves no data; Save prints the final
// state of the bar.
type Progress struct {
	bar *progressbar.ProgressBar
	out io.Writer
}

// NewProgress creates and returns a new *Progress Tracker which
// reaches 100% after steps batches of actions are tracked
func NewProgress(out io.Writer, width, steps int) *Progress {
	return &Progress{
		bar: progressbar.NewProgressBar(out, width, steps),
		out: out,
	}
}

// Track implements the tracker.Tracker interface
func (p *Progress) Track(*tensor.Dense) error {
	p.bar.Increment()
	p.bar.Display()
	return nil
}

// Save implements the tracker.Tracker interface
func (p *Progress) Save() error {
	p.bar.Display()
	_, err := fmt.Fprintln(p.out)
	return err
}

var _ tracker.Tracker = &Progress{}
