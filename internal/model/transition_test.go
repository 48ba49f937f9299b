package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTransitionType_YAMLRoundTrip(t *testing.T) {
	for _, typ := range []TransitionType{Linear, Solute, Blend} {
		out, err := yaml.Marshal(typ)
		require.NoError(t, err)

		var back TransitionType
		require.NoError(t, yaml.Unmarshal(out, &back))
		assert.Equal(t, typ, back)
	}
}

func TestTransitionMode_YAMLRoundTrip(t *testing.T) {
	for _, mode := range []TransitionMode{Simple, Retaining, Removing, Inhibitor, Residual} {
		out, err := yaml.Marshal(mode)
		require.NoError(t, err)

		var back TransitionMode
		require.NoError(t, yaml.Unmarshal(out, &back))
		assert.Equal(t, mode, back)
	}
}

func TestTransitionEnums_RejectUnknownNames(t *testing.T) {
	var typ TransitionType
	err := yaml.Unmarshal([]byte(`exponential`), &typ)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown transition type")

	var mode TransitionMode
	err = yaml.Unmarshal([]byte(`draining`), &mode)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown transition mode")
}

func TestTransition_YAMLDecode(t *testing.T) {
	doc := `
source: 1
operand: -1
result: 2
source_coefficient: 1
result_coefficient: 1
probability: 0.5
type: linear
mode: removing
`
	var tr Transition
	require.NoError(t, yaml.Unmarshal([]byte(doc), &tr))
	assert.Equal(t, 1, tr.SourceState)
	assert.Equal(t, ExternalState, tr.OperandState)
	assert.Equal(t, 2, tr.ResultState)
	assert.Equal(t, Linear, tr.Type)
	assert.Equal(t, Removing, tr.Mode)
	assert.Equal(t, 0.5, tr.Probability)
}
