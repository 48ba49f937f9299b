// Package engine simulates the discrete-time evolution of a population of
// automata distributed across named states, driven by a rule book of
// inter-state transitions.
//
// ARCHITECTURE:
//
// Step Driver:
// The run advances one step at a time. At the start of step t the previous
// row is carried forward (or, in high-precision mode, the history window
// slides), the total population is captured once, and every transition is
// evaluated against that same total. Steps are strictly sequential;
// optionally the transitions *within* a step run on a worker pool.
//
// Shared State Grid:
// The grid of per-step, per-state populations is the single shared mutable
// resource. Every read, increment and decrement takes one mutex so that
// compound read-modify-write updates appear atomic to concurrent transition
// evaluators. Within a step the final row is the composition of commutative
// additive updates; there is no guaranteed evaluation order among concurrent
// transitions.
//
// Two Numeric Pipelines:
// The per-transition algebra exists twice: once over float64 and once over
// scale-384 decimals (the high-precision mode). Both forms must agree
// semantically. Whenever a decimal cell is written, its float64 projection is
// stored for the same step inside the same critical section, so the two
// representations agree on every written cell.
//
// The engine is deterministic given its inputs: a sequential run reproduces
// bitwise-identical grids, and a parallel run is numerically identical up to
// the associativity of the additive updates.
package engine
