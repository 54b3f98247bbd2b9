// Package tracker defines Trackers, which track the actions selected
// during an experiment and save data about them
package tracker

import (
	"encoding/gob"
	"os"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Interface Tracker keeps track of experiment data and saves the data
// after the experiment has finished. Track may be called concurrently
// by multiple workers of an experiment.
type Tracker interface {
	// Track records a tensor of actions of shape [..., rows]
	Track(actions *tensor.Dense) error

	// Save saves the tracked data to disk
	Save() error
}

// LoadData loads and returns the data saved by a Tracker as a table
// with one row per distribution row of the tracked actions
func LoadData(filename string) ([][]float64, error) {
	// Open file
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "loadData: could not open data file")
	}
	defer file.Close()

	// Create the decoder and the variable to store the data in
	dec := gob.NewDecoder(file)
	var data [][]float64

	// Decode the data
	if err := dec.Decode(&data); err != nil {
		return nil, errors.Wrap(err, "loadData: could not decode data")
	}

	return data, nil
}
