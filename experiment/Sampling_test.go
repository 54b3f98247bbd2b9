package experiment

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ElisevanderPol/marl-homomorphic-networks/agent"
	"github.com/ElisevanderPol/marl-homomorphic-networks/experiment/tracker"
	"github.com/ElisevanderPol/marl-homomorphic-networks/experiment/trackers"
	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/errutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

var twoAgents = agent.Config{
	NAgents:       2,
	NActions:      3,
	Decentralized: true,
	Seed:          11,
}

func TestSampling(t *testing.T) {
	table := []float64{0.2, 0.3, 0.5, 0.1, 0.1, 0.8}
	freq, err := trackers.NewActionFrequency(2, 3,
		filepath.Join(t.TempDir(), "freq.bin"))
	require.NoError(t, err)

	exp, err := NewSampling(twoAgents, table, 50, 100, 4, freq)
	require.NoError(t, err)
	require.NoError(t, exp.Run(context.Background()))

	counts := freq.Counts()
	for _, row := range counts {
		total := 0.0
		for _, c := range row {
			total += c
		}
		assert.Equal(t, 50.0*100, total)
	}

	empirical := freq.Frequencies()
	for i, row := range empirical {
		for j, f := range row {
			assert.InDelta(t, table[i*3+j], f, 0.03)
		}
	}

	report, err := exp.Report(empirical)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2}, report.Entropy.Shape())
	assert.InDelta(t, 1.0297, report.Entropy.Data().([]float64)[0], 1e-4)
	for _, kl := range report.KL.Data().([]float64) {
		assert.InDelta(t, 0, kl, 0.01)
	}

	require.NoError(t, exp.Save())
	saved, err := tracker.LoadData(freq.Filename())
	require.NoError(t, err)
	assert.Equal(t, empirical, saved)
}

func TestSamplingDeterministic(t *testing.T) {
	run := func() [][]float64 {
		freq, err := trackers.NewActionFrequency(2, 3, "")
		require.NoError(t, err)

		exp, err := NewSampling(twoAgents, nil, 8, 20, 3)
		require.NoError(t, err)
		exp.Register(freq)
		require.NoError(t, exp.Run(context.Background()))
		return freq.Counts()
	}

	assert.Equal(t, run(), run())
}

func TestSamplingCancelled(t *testing.T) {
	exp, err := NewSampling(twoAgents, nil, 1, 1000, 2)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, exp.Run(ctx), context.Canceled)
}

func TestSamplingInvalid(t *testing.T) {
	_, err := NewSampling(twoAgents, nil, 0, 10, 1)
	assert.True(t, errutils.IsInvalidConfiguration(err))

	_, err = NewSampling(twoAgents, []float64{1, 0}, 1, 10, 1)
	assert.True(t, errutils.IsShape(err))

	_, err = NewSampling(agent.Config{NAgents: 1}, nil, 1, 10, 1)
	assert.True(t, errutils.IsInvalidConfiguration(err))

	exp, err := NewSampling(twoAgents, []float64{0, 0, 0, 0, 0, 1}, 1, 1, 1)
	require.NoError(t, err)
	assert.True(t, errutils.IsInvalidProbabilities(exp.Run(
		context.Background())))
}

func TestCreateExp(t *testing.T) {
	config := Config{
		Type:    SamplingExp,
		Steps:   10,
		Workers: 2,
		Batch:   4,
		AgentConf: agent.NewTypedConfigList(agent.CategoricalConfigList{
			NAgents:       []int{2},
			NActions:      []int{3},
			Decentralized: []bool{true, false},
		}),
	}

	data, err := json.Marshal(config)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "experiment.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, SamplingExp, loaded.Type)

	freq, err := trackers.NewActionFrequency(1, 9, "")
	require.NoError(t, err)
	exp, err := loaded.CreateExp(1, freq)
	require.NoError(t, err)
	require.NoError(t, exp.Run(context.Background()))

	total := 0.0
	for _, c := range freq.Counts()[0] {
		total += c
	}
	assert.Equal(t, 40.0, total)

	_, err = loaded.CreateExp(2)
	assert.True(t, errutils.IsIndexOutOfRange(err))

	loaded.Type = "Online"
	_, err = loaded.CreateExp(0)
	assert.True(t, errutils.IsInvalidConfiguration(err))
}
