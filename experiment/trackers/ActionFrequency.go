// Package trackers implements Trackers of experiment data
package trackers

import (
	"encoding/gob"
	"fmt"
	"os"
	"sync"

	"github.com/ElisevanderPol/marl-homomorphic-networks/experiment/tracker"
	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/errutils"
	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/tensorutils"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gorgonia.org/tensor"
)

// ActionFrequency tracks how often each action is selected in each
// distribution row of a joint action space. For decentralized spaces
// row i holds the actions of agent i; for centralized spaces the
// single row holds joint actions.
//
// ActionFrequency is safe for concurrent use.
type ActionFrequency struct {
	lock     sync.Mutex
	counts   [][]float64
	filename string
}

// NewActionFrequency creates and returns a new *ActionFrequency
// Tracker for actions of shape [..., rows] taking values in
// [0, cols). Tracked data is saved to filename.
func NewActionFrequency(rows, cols int, filename string) (*ActionFrequency,
	error) {
	if rows < 1 || cols < 1 {
		return nil, errutils.New(errutils.InvalidConfiguration,
			"newActionFrequency", "cannot track %d x %d actions", rows, cols)
	}

	counts := make([][]float64, rows)
	for i := range counts {
		counts[i] = make([]float64, cols)
	}
	return &ActionFrequency{counts: counts, filename: filename}, nil
}

// Track implements the tracker.Tracker interface
func (a *ActionFrequency) Track(actions *tensor.Dense) error {
	ints, err := tensorutils.Ints(actions)
	if err != nil {
		return err
	}

	rows, cols := len(a.counts), len(a.counts[0])
	shape := actions.Shape()
	if len(shape) == 0 || shape[len(shape)-1] != rows {
		return errutils.New(errutils.Shape, "track",
			"actions of shape %v do not end in %d rows", shape, rows)
	}
	for _, action := range ints {
		if action < 0 || action >= cols {
			return errutils.New(errutils.IndexOutOfRange, "track",
				"action %d not in [0, %d)", action, cols)
		}
	}

	a.lock.Lock()
	defer a.lock.Unlock()
	for i, action := range ints {
		a.counts[i%rows][action]++
	}
	return nil
}

// Counts returns the number of times each action has been tracked in
// each row
func (a *ActionFrequency) Counts() [][]float64 {
	a.lock.Lock()
	defer a.lock.Unlock()

	counts := make([][]float64, len(a.counts))
	for i := range a.counts {
		counts[i] = append([]float64(nil), a.counts[i]...)
	}
	return counts
}

// Frequencies returns the empirical probability of each action in
// each row. Rows with no tracked actions are all zero.
func (a *ActionFrequency) Frequencies() [][]float64 {
	freq := a.Counts()
	for _, row := range freq {
		total := 0.0
		for _, c := range row {
			total += c
		}
		if total == 0 {
			continue
		}
		for j := range row {
			row[j] /= total
		}
	}
	return freq
}

// Save implements the tracker.Tracker interface
func (a *ActionFrequency) Save() error {
	// Open the file to save to
	file, err := os.Create(a.filename)
	if err != nil {
		return errors.Wrap(err, "save: could not open save file")
	}
	defer file.Close()

	// Encode and save the file
	en := gob.NewEncoder(file)
	if err = en.Encode(a.Frequencies()); err != nil {
		return errors.Wrap(err, "save: could not encode action frequencies")
	}
	return nil
}

// Plot saves a bar chart of the action frequencies saved by an
// ActionFrequency Tracker in dataFile to the image file plotFile,
// with one group of bars per row
func Plot(dataFile, plotFile, title string) error {
	freq, err := tracker.LoadData(dataFile)
	if err != nil {
		return err
	}
	if len(freq) == 0 {
		return errutils.New(errutils.Shape, "plot", "no data in %v", dataFile)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Action"
	p.Y.Label.Text = "Frequency"

	width := vg.Points(40 / float64(len(freq)))
	for i, row := range freq {
		bars, err := plotter.NewBarChart(plotter.Values(row), width)
		if err != nil {
			return errors.Wrapf(err, "plot: row %d", i)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = vg.Length(float64(i)-float64(len(freq)-1)/2) * width

		p.Add(bars)
		p.Legend.Add(fmt.Sprintf("row %d", i), bars)
	}

	names := make([]string, len(freq[0]))
	for j := range names {
		names[j] = fmt.Sprint(j)
	}
	p.NominalX(names...)
	p.Legend.Top = true

	return p.Save(8*vg.Inch, 6*vg.Inch, plotFile)
}

// Filename returns the file that the Tracker saves its data to
func (a *ActionFrequency) Filename() string {
	return a.filename
}

var _ tracker.Tracker = &ActionFrequency{}
