// Package numeric is the arbitrary-precision kernel of the simulation engine.
//
// All operations work on decimal values at a fixed fractional scale: the
// result of every division and every multiplication is reduced to the given
// number of fractional digits with banker's rounding (round half to even).
// The Newton iterations inside Ln and Root round toward zero instead, which
// keeps each update a contraction.
//
// Built on github.com/cockroachdb/apd: apd contexts bound significant digits
// rather than fractional digits, so every operation runs at a working
// precision wide enough to hold the exact intermediate value and is then
// quantized to the requested scale. apd's own transcendental functions are
// not used for the same reason - the iteration and rounding scheme here is
// fixed-scale.
package numeric

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// DefaultScale is the number of fractional decimal digits used by the
// high-precision simulation mode.
const DefaultScale = 384

var (
	// ErrDivisionByZero is returned when a kernel division has a zero divisor.
	ErrDivisionByZero = errors.New("numeric: division by zero")

	// ErrNonPositive is returned when Ln is applied outside its domain.
	ErrNonPositive = errors.New("numeric: natural logarithm is defined only on positive values")
)

// exactContext performs additions, subtractions and the few multiplications
// that must not round (factorial accumulators, exponent products). The
// precision is far beyond anything the engine produces at DefaultScale.
var exactContext = apd.BaseContext.WithPrecision(4096)

// workContext returns a context wide enough that a product or quotient of two
// scale-sized values is held exactly before the quantize step.
func workContext(scale int32) *apd.Context {
	ctx := apd.BaseContext.WithPrecision(uint32(2*scale + 64))
	ctx.Rounding = apd.RoundHalfEven
	return ctx
}

// setScale reduces d to the given fractional scale using the rounder.
func setScale(d *apd.Decimal, scale int32, rounding apd.Rounder) (*apd.Decimal, error) {
	ctx := workContext(scale)
	ctx.Rounding = rounding
	res := new(apd.Decimal)
	if _, err := ctx.Quantize(res, d, -scale); err != nil {
		return nil, fmt.Errorf("quantize to scale %d: %w", scale, err)
	}
	return res, nil
}

// FromFloat converts a float64 to a decimal using its shortest decimal
// representation. Panics on NaN or infinity (the engine never produces them
// from validated input).
func FromFloat(f float64) *apd.Decimal {
	d := new(apd.Decimal)
	if _, err := d.SetFloat64(f); err != nil {
		panic(fmt.Sprintf("numeric: FromFloat(%v): %v", f, err))
	}
	return d
}

// FromInt converts an int64 to a decimal.
func FromInt(i int64) *apd.Decimal {
	return apd.New(i, 0)
}

// ToFloat projects a decimal onto float64.
func ToFloat(d *apd.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// Add returns u + v without rounding.
// Panics if the exact working precision is exceeded (should never happen in practice).
func Add(u, v *apd.Decimal) *apd.Decimal {
	d := new(apd.Decimal)
	if _, err := exactContext.Add(d, u, v); err != nil {
		panic(fmt.Sprintf("numeric: add: %v", err))
	}
	return d
}

// Sub returns u - v without rounding.
// Panics if the exact working precision is exceeded (should never happen in practice).
func Sub(u, v *apd.Decimal) *apd.Decimal {
	d := new(apd.Decimal)
	if _, err := exactContext.Sub(d, u, v); err != nil {
		panic(fmt.Sprintf("numeric: sub: %v", err))
	}
	return d
}

// Div returns u / v at the given fractional scale, banker's rounding.
// Fails with ErrDivisionByZero when v is zero.
func Div(u, v *apd.Decimal, scale int32) (*apd.Decimal, error) {
	return div(u, v, scale, apd.RoundHalfEven)
}

// divDown is Div with round-toward-zero, used by the Newton iterations.
func divDown(u, v *apd.Decimal, scale int32) (*apd.Decimal, error) {
	return div(u, v, scale, apd.RoundDown)
}

func div(u, v *apd.Decimal, scale int32, rounding apd.Rounder) (*apd.Decimal, error) {
	if v.IsZero() {
		return nil, fmt.Errorf("%s / %s: %w", u, v, ErrDivisionByZero)
	}
	ctx := workContext(scale)
	q := new(apd.Decimal)
	if _, err := ctx.Quo(q, u, v); err != nil {
		return nil, fmt.Errorf("divide %s by %s: %w", u, v, err)
	}
	return setScale(q, scale, rounding)
}

// Mul returns u * v at the given fractional scale, banker's rounding.
// The product is computed exactly before the reduction.
func Mul(u, v *apd.Decimal, scale int32) (*apd.Decimal, error) {
	ctx := workContext(scale)
	p := new(apd.Decimal)
	if _, err := ctx.Mul(p, u, v); err != nil {
		return nil, fmt.Errorf("multiply %s by %s: %w", u, v, err)
	}
	return setScale(p, scale, apd.RoundHalfEven)
}
