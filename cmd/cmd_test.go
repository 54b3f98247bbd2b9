package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ElisevanderPol/marl-homomorphic-networks/experiment/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := GetRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTableCommand(t *testing.T) {
	out, err := execute(t, "table", "--agents", "2", "--actions", "2",
		"--decentralized=false")
	require.NoError(t, err)

	assert.Contains(t, out, "type: Centralized")
	assert.Contains(t, out, "output size: 4")
	assert.Contains(t, out, "0: [0 0]\n1: [0 1]\n2: [1 0]\n3: [1 1]\n")
}

func TestStatsCommand(t *testing.T) {
	out, err := execute(t, "stats", "--agents", "2", "--actions", "3",
		"--decentralized", "--probs", "0.2,0.3,0.5;0.1,0.1,0.8",
		"--select", "2,2")
	require.NoError(t, err)

	assert.Contains(t, out, "entropy: [1.02965")
	assert.Contains(t, out, "log likelihood: [-0.693")
}

func TestStatsCommandBadTable(t *testing.T) {
	_, err := execute(t, "stats", "--agents", "2", "--actions", "3",
		"--decentralized", "--probs", "0.5,0.5")
	assert.Error(t, err)
}

func TestSampleCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "sample", "--agents", "2", "--actions", "3",
		"--decentralized", "--steps", "20", "--batch", "4", "--workers", "2",
		"--save", dir, "--plot", "--progress")
	require.NoError(t, err)
	assert.Contains(t, out, "kl(table || empirical)")

	data, err := tracker.LoadData(filepath.Join(dir, "action_frequency.bin"))
	require.NoError(t, err)
	assert.Len(t, data, 2)

	_, err = os.Stat(filepath.Join(dir, "action_frequency.png"))
	assert.NoError(t, err)
}
