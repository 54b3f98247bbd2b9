package agent

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/errutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		valid  bool
	}{
		{"decentralized", Config{NAgents: 2, NActions: 3, Decentralized: true},
			true},
		{"centralized", Config{NAgents: 2, NActions: 3}, true},
		{"dtypes", Config{NAgents: 1, NActions: 2, ActionDtype: "int32",
			ProbDtype: "float32"}, true},
		{"no agents", Config{NActions: 3}, false},
		{"no actions", Config{NAgents: 3}, false},
		{"negative epsilon", Config{NAgents: 2, NActions: 3, Epsilon: -1},
			false},
		{"float actions", Config{NAgents: 2, NActions: 3,
			ActionDtype: "float64"}, false},
		{"unknown dtype", Config{NAgents: 2, NActions: 3,
			ProbDtype: "complex128"}, false},
		{"centralized too large", Config{NAgents: 30, NActions: 5}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.config.Validate()
			if test.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errutils.IsInvalidConfiguration(err), "%v", err)
		})
	}
}

func TestCreatePolicy(t *testing.T) {
	config := Config{
		NAgents:       3,
		NActions:      4,
		Decentralized: true,
		ProbDtype:     "float32",
		Seed:          5,
	}

	p, err := config.CreatePolicy()
	require.NoError(t, err)
	assert.Equal(t, 12, p.OutputSize())
	assert.Equal(t, 3, p.Space().Rows())
	assert.Equal(t, tensor.Float32, p.Distribution().ProbDtype())
	assert.Equal(t, tensor.Int64, p.Distribution().ActionDtype())

	_, err = Config{NAgents: 0, NActions: 4}.CreatePolicy()
	assert.True(t, errutils.IsInvalidConfiguration(err))
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	want := Config{NAgents: 2, NActions: 3, Decentralized: true, Seed: 9}
	data, err := json.Marshal(want)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = LoadConfig(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"NAgents": 0}`), 0o644))
	_, err = LoadConfig(invalid)
	assert.True(t, errutils.IsInvalidConfiguration(err))
}

func TestConfigList(t *testing.T) {
	list := CategoricalConfigList{
		NAgents:       []int{2, 3},
		NActions:      []int{4},
		Decentralized: []bool{true, false},
		Seed:          []uint64{1, 2, 3},
	}

	require.Equal(t, 12, list.Len())
	assert.Equal(t, Config{NAgents: 2, NActions: 4, Decentralized: true,
		Seed: 1}, list.At(0))
	assert.Equal(t, Config{NAgents: 2, NActions: 4, Decentralized: true,
		Seed: 3}, list.At(2))
	assert.Equal(t, Config{NAgents: 2, NActions: 4, Decentralized: false,
		Seed: 1}, list.At(3))
	assert.Equal(t, Config{NAgents: 3, NActions: 4, Decentralized: false,
		Seed: 3}, list.At(11))

	assert.Panics(t, func() { list.At(12) })
	assert.Equal(t, 1, CategoricalConfigList{}.Len())
}

func TestTypedConfigListJSON(t *testing.T) {
	list := NewTypedConfigList(CategoricalConfigList{
		NAgents:  []int{2},
		NActions: []int{3, 5},
		Epsilon:  []float64{1e-6},
	})

	data, err := json.Marshal(list)
	require.NoError(t, err)

	var decoded TypedConfigList
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, MultiCategorical, decoded.Type())
	assert.Equal(t, list.ConfigList, decoded.ConfigList)
	assert.Equal(t, 5, decoded.At(1).NActions)

	path := filepath.Join(t.TempDir(), "sweep.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	loaded, err := LoadConfigList(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Len())
}

func TestTypedConfigListUnregistered(t *testing.T) {
	var decoded TypedConfigList
	err := json.Unmarshal([]byte(`{"Type": "Gaussian", "ConfigList": {}}`),
		&decoded)
	assert.True(t, errutils.IsInvalidConfiguration(err))
}
