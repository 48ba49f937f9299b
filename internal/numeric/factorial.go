package numeric

import (
	"fmt"
	"math"

	"github.com/cockroachdb/apd/v3"
)

// ProbabilisticFactorial computes the factorial of a real u >= 0 as the
// expectation over the factorials of the two neighboring integers:
// with v = floor(u) and r = u - v, the result is v!*(1-r) + v!*(v+1)*r.
//
// This is a piecewise-linear interpolation between consecutive integer
// factorials, not the Gamma function.
func ProbabilisticFactorial(u float64) float64 {
	result := 1.0
	r := math.Mod(u, 1)
	if r > 0 {
		v := math.Floor(u)
		for i := 2.0; i <= v; i++ {
			result *= i
		}
		result = result*(1-r) + result*(v+1)*r
	} else {
		for i := 2.0; i <= u; i++ {
			result *= i
		}
	}
	return result
}

// ProbabilisticFactorialBig is ProbabilisticFactorial over decimals.
// The integer factorial accumulates without rounding; the final value
// reduces to scale half-to-even.
func ProbabilisticFactorialBig(u float64, scale int32) (*apd.Decimal, error) {
	result := apd.New(1, 0)
	r := math.Mod(u, 1)
	if r > 0 {
		v := math.Floor(u)
		for i := 2.0; i <= v; i++ {
			if _, err := exactContext.Mul(result, result, FromFloat(i)); err != nil {
				return nil, fmt.Errorf("probabilistic factorial: %w", err)
			}
		}
		one := apd.New(1, 0)
		rd := FromFloat(r)
		left := new(apd.Decimal)
		if _, err := exactContext.Mul(left, result, Sub(one, rd)); err != nil {
			return nil, fmt.Errorf("probabilistic factorial: %w", err)
		}
		right := new(apd.Decimal)
		if _, err := exactContext.Mul(right, result, Add(FromFloat(v), one)); err != nil {
			return nil, fmt.Errorf("probabilistic factorial: %w", err)
		}
		if _, err := exactContext.Mul(right, right, rd); err != nil {
			return nil, fmt.Errorf("probabilistic factorial: %w", err)
		}
		result = Add(left, right)
	} else {
		for i := 2.0; i <= u; i++ {
			if _, err := exactContext.Mul(result, result, FromFloat(i)); err != nil {
				return nil, fmt.Errorf("probabilistic factorial: %w", err)
			}
		}
	}
	return setScale(result, scale, apd.RoundHalfEven)
}
