package engine

import (
	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/popsim/internal/model"
	"github.com/roach88/popsim/internal/numeric"
)

// coefficientLinearBig divides the count by the coefficient once it exceeds 1.
func coefficientLinearBig(u *apd.Decimal, coefficient float64, scale int32) (*apd.Decimal, error) {
	if coefficient <= 1 {
		return u, nil
	}
	return numeric.Div(u, numeric.FromFloat(coefficient), scale)
}

// coefficientPowerBig raises the count to the coefficient and normalizes by
// the probabilistic factorial once the coefficient exceeds 1.
func coefficientPowerBig(u *apd.Decimal, coefficient float64, scale int32) (*apd.Decimal, error) {
	if coefficient <= 1 {
		return u, nil
	}
	p, err := numeric.Pow(u, coefficient, scale)
	if err != nil {
		return nil, err
	}
	f, err := numeric.ProbabilisticFactorialBig(coefficient, scale)
	if err != nil {
		return nil, err
	}
	return numeric.Div(p, f, scale)
}

// transitionCommonBig is transitionCommon over decimals.
func transitionCommonBig(u, operandDensity *apd.Decimal, tr model.Transition, scale int32) (*apd.Decimal, error) {
	if tr.Mode == model.Inhibitor {
		m, err := numeric.Mul(u, numeric.FromFloat(tr.OperandCoefficient), scale)
		if err != nil {
			return nil, err
		}
		u = numeric.Sub(operandDensity, m)
	}
	u, err := numeric.Mul(u, numeric.FromFloat(tr.Probability), scale)
	if err != nil {
		return nil, err
	}
	if tr.Mode == model.Residual {
		m, err := numeric.Mul(u, numeric.FromFloat(tr.OperandCoefficient), scale)
		if err != nil {
			return nil, err
		}
		u = numeric.Sub(operandDensity, m)
	}
	return u, nil
}

// applyTransitionBig evaluates one transition at a step with the decimal
// pipeline and commits its flow to both grid representations.
//
// The algebra is identical to applyTransition; only the arithmetic differs.
// totalCount is shared read-only across all transitions of the step and must
// never be used as an operation destination.
func (c *Calculator) applyTransitionBig(step int, totalCount *apd.Decimal, tr model.Transition) error {
	sourceState := c.stateIndex(tr.SourceState)
	operandState := c.stateIndex(tr.OperandState)
	resultState := c.stateIndex(tr.ResultState)
	sourceExternal := isExternal(sourceState)
	operandExternal := isExternal(operandState)
	resultExternal := isExternal(resultState)
	if sourceExternal && operandExternal {
		return nil
	}
	sourceIndex := delay(step-1, tr.SourceDelay)
	operandIndex := delay(step-1, tr.OperandDelay)
	sc := tr.SourceCoefficient
	oc := tr.OperandCoefficient
	scale := c.scale
	value := apd.New(0, 0)
	var err error
	switch tr.Type {
	case model.Linear:
		switch {
		case sourceExternal:
			operandDensity, err := coefficientLinearBig(c.grid.stateBig(operandIndex, step, operandState), oc, scale)
			if err != nil {
				return err
			}
			value, err = numeric.Mul(operandDensity, numeric.FromFloat(tr.Probability), scale)
			if err != nil {
				return err
			}
			if tr.Mode == model.Residual {
				m, err := numeric.Mul(value, numeric.FromFloat(oc), scale)
				if err != nil {
					return err
				}
				value = numeric.Sub(operandDensity, m)
			}
		case operandExternal:
			sourceDensity, err := coefficientLinearBig(c.grid.stateBig(sourceIndex, step, sourceState), sc, scale)
			if err != nil {
				return err
			}
			value, err = numeric.Mul(sourceDensity, numeric.FromFloat(tr.Probability), scale)
			if err != nil {
				return err
			}
		case sourceState == operandState:
			density, err := coefficientLinearBig(c.grid.stateBig(sourceIndex, step, sourceState), sc+oc-1, scale)
			if err != nil {
				return err
			}
			value, err = transitionCommonBig(density, density, tr, scale)
			if err != nil {
				return err
			}
		default:
			sourceDensity, err := coefficientLinearBig(c.grid.stateBig(sourceIndex, step, sourceState), sc, scale)
			if err != nil {
				return err
			}
			operandDensity, err := coefficientLinearBig(c.grid.stateBig(operandIndex, step, operandState), oc, scale)
			if err != nil {
				return err
			}
			smaller := sourceDensity
			if operandDensity.Cmp(sourceDensity) < 0 {
				smaller = operandDensity
			}
			value, err = transitionCommonBig(smaller, operandDensity, tr, scale)
			if err != nil {
				return err
			}
		}
	case model.Solute:
		if totalCount.Sign() > 0 {
			switch {
			case sourceExternal:
				operandDensity, err := coefficientPowerBig(c.grid.stateBig(operandIndex, step, operandState), oc, scale)
				if err != nil {
					return err
				}
				value = operandDensity
				if oc > 1 {
					p, err := numeric.Pow(totalCount, oc-1, scale)
					if err != nil {
						return err
					}
					if value, err = numeric.Div(value, p, scale); err != nil {
						return err
					}
				}
				if value, err = transitionCommonBig(value, operandDensity, tr, scale); err != nil {
					return err
				}
			case operandExternal:
				if value, err = coefficientPowerBig(c.grid.stateBig(sourceIndex, step, sourceState), sc, scale); err != nil {
					return err
				}
				if sc > 1 {
					p, err := numeric.Pow(totalCount, sc-1, scale)
					if err != nil {
						return err
					}
					if value, err = numeric.Div(value, p, scale); err != nil {
						return err
					}
				}
				if value, err = numeric.Mul(value, numeric.FromFloat(tr.Probability), scale); err != nil {
					return err
				}
			case sourceState == operandState:
				density, err := coefficientPowerBig(c.grid.stateBig(sourceIndex, step, sourceState), sc+oc, scale)
				if err != nil {
					return err
				}
				p, err := numeric.Pow(totalCount, sc+oc-1, scale)
				if err != nil {
					return err
				}
				if value, err = numeric.Div(density, p, scale); err != nil {
					return err
				}
				if value, err = transitionCommonBig(value, density, tr, scale); err != nil {
					return err
				}
			default:
				sourceDensity, err := coefficientPowerBig(c.grid.stateBig(sourceIndex, step, sourceState), sc, scale)
				if err != nil {
					return err
				}
				operandDensity, err := coefficientPowerBig(c.grid.stateBig(operandIndex, step, operandState), oc, scale)
				if err != nil {
					return err
				}
				num, err := numeric.Mul(sourceDensity, operandDensity, scale)
				if err != nil {
					return err
				}
				p, err := numeric.Pow(totalCount, sc+oc-1, scale)
				if err != nil {
					return err
				}
				if value, err = numeric.Div(num, p, scale); err != nil {
					return err
				}
				if value, err = transitionCommonBig(value, operandDensity, tr, scale); err != nil {
					return err
				}
			}
		}
	case model.Blend:
		switch {
		case sourceExternal:
			operandCount := c.grid.stateBig(operandIndex, step, operandState)
			if operandCount.Sign() > 0 {
				operandDensity, err := coefficientPowerBig(operandCount, oc, scale)
				if err != nil {
					return err
				}
				value = operandDensity
				if oc > 1 {
					p, err := numeric.Pow(operandCount, oc-1, scale)
					if err != nil {
						return err
					}
					if value, err = numeric.Div(value, p, scale); err != nil {
						return err
					}
				}
				if value, err = transitionCommonBig(value, operandDensity, tr, scale); err != nil {
					return err
				}
			}
		case operandExternal:
			sourceCount := c.grid.stateBig(sourceIndex, step, sourceState)
			if sourceCount.Sign() > 0 {
				if value, err = coefficientPowerBig(sourceCount, sc, scale); err != nil {
					return err
				}
				if sc > 1 {
					p, err := numeric.Pow(sourceCount, sc-1, scale)
					if err != nil {
						return err
					}
					if value, err = numeric.Div(value, p, scale); err != nil {
						return err
					}
				}
				if value, err = numeric.Mul(value, numeric.FromFloat(tr.Probability), scale); err != nil {
					return err
				}
			}
		case sourceState == operandState:
			count := c.grid.stateBig(sourceIndex, step, sourceState)
			if count.Sign() > 0 {
				density, err := coefficientPowerBig(count, sc+oc, scale)
				if err != nil {
					return err
				}
				p, err := numeric.Pow(count, sc+oc-1, scale)
				if err != nil {
					return err
				}
				if value, err = numeric.Div(density, p, scale); err != nil {
					return err
				}
				if value, err = transitionCommonBig(value, density, tr, scale); err != nil {
					return err
				}
			}
		default:
			sourceCount := c.grid.stateBig(sourceIndex, step, sourceState)
			operandCount := c.grid.stateBig(operandIndex, step, operandState)
			sum := numeric.Add(sourceCount, operandCount)
			if sum.Sign() > 0 {
				sourceDensity, err := coefficientPowerBig(sourceCount, sc, scale)
				if err != nil {
					return err
				}
				operandDensity, err := coefficientPowerBig(operandCount, oc, scale)
				if err != nil {
					return err
				}
				num, err := numeric.Mul(sourceDensity, operandDensity, scale)
				if err != nil {
					return err
				}
				p, err := numeric.Pow(sum, sc+oc-1, scale)
				if err != nil {
					return err
				}
				if value, err = numeric.Div(num, p, scale); err != nil {
					return err
				}
				if value, err = transitionCommonBig(value, operandDensity, tr, scale); err != nil {
					return err
				}
			}
		}
	}
	if !sourceExternal && tr.Mode == model.Removing {
		d, err := numeric.Mul(value, numeric.FromFloat(sc), scale)
		if err != nil {
			return err
		}
		c.grid.decrementBig(step, step, sourceState, d)
	}
	if !operandExternal {
		if tr.Mode == model.Inhibitor || tr.Mode == model.Residual {
			c.grid.decrementBig(step, step, operandState, value)
		} else if tr.Mode != model.Retaining {
			d, err := numeric.Mul(value, numeric.FromFloat(oc), scale)
			if err != nil {
				return err
			}
			c.grid.decrementBig(step, step, operandState, d)
		}
	}
	if !resultExternal {
		d, err := numeric.Mul(value, numeric.FromFloat(tr.ResultCoefficient), scale)
		if err != nil {
			return err
		}
		c.grid.incrementBig(step, step, resultState, d)
	}
	return nil
}
