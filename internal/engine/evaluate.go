package engine

import (
	"math"

	"github.com/roach88/popsim/internal/model"
	"github.com/roach88/popsim/internal/numeric"
)

// delay applies a lookback to a step index: requests reaching past the start
// of history resolve to step 0 (the initial counts).
func delay(step, d int) int {
	if step > d {
		return step - d
	}
	return 0
}

// coefficientLinear divides the count by the coefficient once it exceeds 1.
func coefficientLinear(u, coefficient float64) float64 {
	if coefficient <= 1 {
		return u
	}
	return u / coefficient
}

// coefficientPower raises the count to the coefficient and normalizes by the
// probabilistic factorial once the coefficient exceeds 1.
func coefficientPower(u, coefficient float64) float64 {
	if coefficient <= 1 {
		return u
	}
	return math.Pow(u, coefficient) / numeric.ProbabilisticFactorial(coefficient)
}

// transitionCommon applies the mode-dependent inversion against the operand
// density and the probability scaling, in that order for INHIBITOR and the
// reverse for RESIDUAL.
func transitionCommon(u, operandDensity float64, tr model.Transition) float64 {
	if tr.Mode == model.Inhibitor {
		u = operandDensity - u*tr.OperandCoefficient
	}
	u *= tr.Probability
	if tr.Mode == model.Residual {
		u = operandDensity - u*tr.OperandCoefficient
	}
	return u
}

func isExternal(stateIndex int) bool {
	return stateIndex == model.ExternalState
}

// applyTransition evaluates one transition at a step with finite precision
// and commits its flow to the grid.
//
// totalCount is the total population captured once after the copy-forward,
// so every transition in the step sees the same value.
func (c *Calculator) applyTransition(step int, totalCount float64, tr model.Transition) {
	sourceState := c.stateIndex(tr.SourceState)
	operandState := c.stateIndex(tr.OperandState)
	resultState := c.stateIndex(tr.ResultState)
	sourceExternal := isExternal(sourceState)
	operandExternal := isExternal(operandState)
	resultExternal := isExternal(resultState)
	if sourceExternal && operandExternal {
		return
	}
	sourceIndex := delay(step-1, tr.SourceDelay)
	operandIndex := delay(step-1, tr.OperandDelay)
	sc := tr.SourceCoefficient
	oc := tr.OperandCoefficient
	value := 0.0
	switch tr.Type {
	case model.Linear:
		switch {
		case sourceExternal:
			operandDensity := coefficientLinear(c.grid.state(operandIndex, operandState), oc)
			value = operandDensity * tr.Probability
			if tr.Mode == model.Residual {
				value = operandDensity - value*oc
			}
		case operandExternal:
			value = coefficientLinear(c.grid.state(sourceIndex, sourceState), sc) * tr.Probability
		case sourceState == operandState:
			density := coefficientLinear(c.grid.state(sourceIndex, sourceState), sc+oc-1)
			value = transitionCommon(density, density, tr)
		default:
			sourceDensity := coefficientLinear(c.grid.state(sourceIndex, sourceState), sc)
			operandDensity := coefficientLinear(c.grid.state(operandIndex, operandState), oc)
			value = transitionCommon(math.Min(sourceDensity, operandDensity), operandDensity, tr)
		}
	case model.Solute:
		if totalCount > 0 {
			switch {
			case sourceExternal:
				operandDensity := coefficientPower(c.grid.state(operandIndex, operandState), oc)
				value = operandDensity
				if oc > 1 {
					value /= math.Pow(totalCount, oc-1)
				}
				value = transitionCommon(value, operandDensity, tr)
			case operandExternal:
				value = coefficientPower(c.grid.state(sourceIndex, sourceState), sc)
				if sc > 1 {
					value /= math.Pow(totalCount, sc-1)
				}
				value *= tr.Probability
			case sourceState == operandState:
				density := coefficientPower(c.grid.state(sourceIndex, sourceState), sc+oc)
				value = density / math.Pow(totalCount, sc+oc-1)
				value = transitionCommon(value, density, tr)
			default:
				sourceDensity := coefficientPower(c.grid.state(sourceIndex, sourceState), sc)
				operandDensity := coefficientPower(c.grid.state(operandIndex, operandState), oc)
				value = sourceDensity * operandDensity / math.Pow(totalCount, sc+oc-1)
				value = transitionCommon(value, operandDensity, tr)
			}
		}
	case model.Blend:
		switch {
		case sourceExternal:
			operandCount := c.grid.state(operandIndex, operandState)
			if operandCount > 0 {
				operandDensity := coefficientPower(operandCount, oc)
				value = operandDensity
				if oc > 1 {
					value /= math.Pow(operandCount, oc-1)
				}
				value = transitionCommon(value, operandDensity, tr)
			}
		case operandExternal:
			sourceCount := c.grid.state(sourceIndex, sourceState)
			if sourceCount > 0 {
				value = coefficientPower(sourceCount, sc)
				if sc > 1 {
					value /= math.Pow(sourceCount, sc-1)
				}
				value *= tr.Probability
			}
		case sourceState == operandState:
			count := c.grid.state(sourceIndex, sourceState)
			if count > 0 {
				density := coefficientPower(count, sc+oc)
				value = density / math.Pow(count, sc+oc-1)
				value = transitionCommon(value, density, tr)
			}
		default:
			sourceCount := c.grid.state(sourceIndex, sourceState)
			operandCount := c.grid.state(operandIndex, operandState)
			sum := sourceCount + operandCount
			if sum > 0 {
				sourceDensity := coefficientPower(sourceCount, sc)
				operandDensity := coefficientPower(operandCount, oc)
				value = sourceDensity * operandDensity / math.Pow(sum, sc+oc-1)
				value = transitionCommon(value, operandDensity, tr)
			}
		}
	}
	if !sourceExternal && tr.Mode == model.Removing {
		c.grid.decrement(step, sourceState, value*sc)
	}
	if !operandExternal {
		if tr.Mode == model.Inhibitor || tr.Mode == model.Residual {
			c.grid.decrement(step, operandState, value)
		} else if tr.Mode != model.Retaining {
			c.grid.decrement(step, operandState, value*oc)
		}
	}
	if !resultExternal {
		c.grid.increment(step, resultState, value*tr.ResultCoefficient)
	}
}
