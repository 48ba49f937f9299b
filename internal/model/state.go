package model

// ExternalState is the reserved id of the open-world state.
//
// A transition may name the external state as its source, operand or result.
// The external state is a source or sink whose population is not tracked:
// it is never materialized in the state grid and never read or written.
const ExternalState = -1

// State is a named compartment holding a (possibly fractional) population count.
//
// States are created by the caller and consumed read-only by the engine.
// The id must be stable for the whole run; Count is the population at step 0.
type State struct {
	ID    int     `yaml:"id"`
	Name  string  `yaml:"name"`
	Count float64 `yaml:"count"`
}

// External reports whether the state is the open-world sentinel.
func (s State) External() bool {
	return s.ID == ExternalState
}
