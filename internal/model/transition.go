package model

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// TransitionType selects the form of the flow-rate function.
type TransitionType int

const (
	// Linear flow is proportional to the smaller of the source and operand
	// densities.
	Linear TransitionType = iota
	// Solute flow is normalized by the total population of the previous step.
	Solute
	// Blend flow is normalized by the local counts participating in the
	// transition instead of the total population.
	Blend
)

var transitionTypeNames = map[TransitionType]string{
	Linear: "linear",
	Solute: "solute",
	Blend:  "blend",
}

// String returns the lower-case name used in task files.
func (t TransitionType) String() string {
	if name, ok := transitionTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TransitionType(%d)", int(t))
}

// MarshalYAML implements yaml.Marshaler.
func (t TransitionType) MarshalYAML() (any, error) {
	name, ok := transitionTypeNames[t]
	if !ok {
		return nil, fmt.Errorf("unknown transition type: %d", int(t))
	}
	return name, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *TransitionType) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	for typ, n := range transitionTypeNames {
		if n == name {
			*t = typ
			return nil
		}
	}
	return fmt.Errorf("unknown transition type %q (want linear, solute or blend)", name)
}

// TransitionMode is the commit policy: how the flow value is debited from the
// source and operand states and how the probability composes with the operand
// density.
type TransitionMode int

const (
	// Simple decrements the operand by the flow scaled by the operand
	// coefficient and leaves the source untouched.
	Simple TransitionMode = iota
	// Retaining never touches the operand.
	Retaining
	// Removing additionally decrements the source by the flow scaled by the
	// source coefficient.
	Removing
	// Inhibitor inverts the flow against the operand density before the
	// probability is applied.
	Inhibitor
	// Residual inverts the flow against the operand density after the
	// probability is applied.
	Residual
)

var transitionModeNames = map[TransitionMode]string{
	Simple:    "simple",
	Retaining: "retaining",
	Removing:  "removing",
	Inhibitor: "inhibitor",
	Residual:  "residual",
}

// String returns the lower-case name used in task files.
func (m TransitionMode) String() string {
	if name, ok := transitionModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("TransitionMode(%d)", int(m))
}

// MarshalYAML implements yaml.Marshaler.
func (m TransitionMode) MarshalYAML() (any, error) {
	name, ok := transitionModeNames[m]
	if !ok {
		return nil, fmt.Errorf("unknown transition mode: %d", int(m))
	}
	return name, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *TransitionMode) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	for mode, n := range transitionModeNames {
		if n == name {
			*m = mode
			return nil
		}
	}
	return fmt.Errorf("unknown transition mode %q (want simple, retaining, removing, inhibitor or residual)", name)
}

// Transition is an immutable rule describing population flow from a source
// (and/or operand) state to a result state per step.
//
// Any of the three state references may be the external sentinel. The delays
// are lookbacks in steps applied to source and operand reads; coefficients are
// non-negative multipliers. Probability is a real scalar in [0, 1] in normal
// use but is intentionally not range-checked.
type Transition struct {
	SourceState  int `yaml:"source"`
	OperandState int `yaml:"operand"`
	ResultState  int `yaml:"result"`

	SourceCoefficient  float64 `yaml:"source_coefficient"`
	OperandCoefficient float64 `yaml:"operand_coefficient"`
	ResultCoefficient  float64 `yaml:"result_coefficient"`

	SourceDelay  int `yaml:"source_delay"`
	OperandDelay int `yaml:"operand_delay"`

	Probability float64 `yaml:"probability"`

	Type TransitionType `yaml:"type"`
	Mode TransitionMode `yaml:"mode"`
}
