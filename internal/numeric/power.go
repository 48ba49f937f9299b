package numeric

import (
	"fmt"
	"math"

	"github.com/cockroachdb/apd/v3"
)

// PowInt raises u to an integer exponent by square-and-multiply, reducing
// after every multiplication. A zero base yields zero; a negative exponent
// yields 1 / PowInt(u, -exponent).
func PowInt(u *apd.Decimal, exponent int64, scale int32) (*apd.Decimal, error) {
	if u.IsZero() {
		return apd.New(0, 0), nil
	}
	if exponent < 0 {
		p, err := PowInt(u, -exponent, scale)
		if err != nil {
			return nil, err
		}
		return Div(apd.New(1, 0), p, scale)
	}
	base := new(apd.Decimal).Set(u)
	p := apd.New(1, 0)
	var err error
	for e := exponent; e > 0; e >>= 1 {
		if e&1 == 1 {
			if p, err = Mul(p, base, scale); err != nil {
				return nil, err
			}
		}
		if base, err = Mul(base, base, scale); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Pow raises u to a real exponent. Exponents that are integers representable
// in 64 bits delegate to PowInt; the rest go through exp(exponent * ln u),
// which restricts the base to positive values.
func Pow(u *apd.Decimal, exponent float64, scale int32) (*apd.Decimal, error) {
	if u.IsZero() {
		return apd.New(0, 0), nil
	}
	if exponent == math.Trunc(exponent) && exponent >= math.MinInt64 && exponent <= math.MaxInt64 {
		return PowInt(u, int64(exponent), scale)
	}
	l, err := Ln(u, scale)
	if err != nil {
		return nil, err
	}
	e := new(apd.Decimal)
	if _, err := exactContext.Mul(e, FromFloat(exponent), l); err != nil {
		return nil, fmt.Errorf("pow exponent product: %w", err)
	}
	return Exp(e, scale)
}

// Exp raises Euler's number to the power u.
//
// For u = 0 the result is 1, for u < 0 it is 1/Exp(-u). A positive u is split
// into its integer part a and fraction b; the Taylor series is evaluated on
// 1 + b/a and the result raised to the a-th power, which keeps the series
// argument small regardless of u.
func Exp(u *apd.Decimal, scale int32) (*apd.Decimal, error) {
	switch u.Sign() {
	case 0:
		return apd.New(1, 0), nil
	case -1:
		neg := new(apd.Decimal).Neg(u)
		e, err := Exp(neg, scale)
		if err != nil {
			return nil, err
		}
		return Div(apd.New(1, 0), e, scale)
	}
	ctx := workContext(scale)
	a := new(apd.Decimal)
	if _, err := ctx.Floor(a, u); err != nil {
		return nil, fmt.Errorf("exp integer split: %w", err)
	}
	if a.IsZero() {
		return exp0(u, scale)
	}
	b := Sub(u, a)
	q, err := Div(b, a, scale)
	if err != nil {
		return nil, err
	}
	d, err := exp0(Add(apd.New(1, 0), q), scale)
	if err != nil {
		return nil, err
	}
	// The integer part may exceed the 64-bit exponent range; peel it off in
	// maxInt64-sized chunks.
	maxLong := apd.New(math.MaxInt64, 0)
	f := apd.New(1, 0)
	for a.Cmp(maxLong) >= 0 {
		p, err := PowInt(d, math.MaxInt64, scale)
		if err != nil {
			return nil, err
		}
		if f, err = Mul(f, p, scale); err != nil {
			return nil, err
		}
		a = Sub(a, maxLong)
	}
	ai, err := a.Int64()
	if err != nil {
		return nil, fmt.Errorf("exp integer part: %w", err)
	}
	p, err := PowInt(d, ai, scale)
	if err != nil {
		return nil, err
	}
	return Mul(f, p, scale)
}

// exp0 sums the Taylor series Σ x^k / k! until two successive partial sums
// are equal at the working scale. The factorial accumulator grows without
// rounding; the power term and each quotient reduce to scale.
func exp0(x *apd.Decimal, scale int32) (*apd.Decimal, error) {
	fact := apd.New(1, 0)
	pow := new(apd.Decimal).Set(x)
	sum := Add(x, apd.New(1, 0))
	var err error
	for i := int64(2); ; i++ {
		if pow, err = Mul(pow, x, scale); err != nil {
			return nil, err
		}
		if _, err = exactContext.Mul(fact, fact, apd.New(i, 0)); err != nil {
			return nil, fmt.Errorf("exp series factorial: %w", err)
		}
		term, err := Div(pow, fact, scale)
		if err != nil {
			return nil, err
		}
		prev := new(apd.Decimal).Set(sum)
		sum = Add(sum, term)
		if sum.Cmp(prev) == 0 {
			return sum, nil
		}
	}
}

// Ln computes the natural logarithm of u.
//
// Defined only for positive u; fails with ErrNonPositive otherwise. Values
// with three or more integer digits are reduced through a d-th root first:
// ln(u) = d * ln(root(u, d)).
func Ln(u *apd.Decimal, scale int32) (*apd.Decimal, error) {
	if u.Sign() <= 0 {
		return nil, fmt.Errorf("ln(%s): %w", u, ErrNonPositive)
	}
	digits := integerDigits(u)
	if digits < 3 {
		return ln0(u, scale)
	}
	r, err := Root(u, int64(digits), scale)
	if err != nil {
		return nil, err
	}
	l, err := ln0(r, scale)
	if err != nil {
		return nil, err
	}
	return Mul(apd.New(int64(digits), 0), l, scale)
}

// ln0 runs Newton's method on exp: x <- x - (exp(x) - u) / exp(x), with the
// update division rounded toward zero, until the update falls to
// 5*10^-(scale+1) or below. The final result reduces to scale half-to-even.
func ln0(u *apd.Decimal, scale int32) (*apd.Decimal, error) {
	s := scale + 1
	target := new(apd.Decimal).Set(u)
	x := new(apd.Decimal).Set(u)
	eps := apd.New(5, -s)
	for {
		e, err := Exp(x, s)
		if err != nil {
			return nil, err
		}
		update, err := divDown(Sub(e, target), e, s)
		if err != nil {
			return nil, err
		}
		x = Sub(x, update)
		if update.Cmp(eps) <= 0 {
			break
		}
	}
	return setScale(x, scale, apd.RoundHalfEven)
}

// Root computes the index-th root of u via the Newton step
// x <- (u + (index-1)*x^index) / (index*x^(index-1)), seeded at u/index.
// A zero u yields zero. The result carries one guard digit beyond scale.
func Root(u *apd.Decimal, index int64, scale int32) (*apd.Decimal, error) {
	if u.IsZero() {
		return apd.New(0, 0), nil
	}
	s := scale + 1
	target := new(apd.Decimal).Set(u)
	k := apd.New(index, 0)
	kMinusOne := apd.New(index-1, 0)
	eps := apd.New(5, -s)
	x, err := Div(u, k, scale)
	if err != nil {
		return nil, err
	}
	for {
		f, err := PowInt(x, index-1, s)
		if err != nil {
			return nil, err
		}
		g, err := Mul(x, f, s)
		if err != nil {
			return nil, err
		}
		num := new(apd.Decimal)
		if _, err := exactContext.Mul(num, kMinusOne, g); err != nil {
			return nil, fmt.Errorf("root numerator: %w", err)
		}
		num, err = setScale(Add(target, num), s, apd.RoundHalfEven)
		if err != nil {
			return nil, err
		}
		den, err := Mul(k, f, s)
		if err != nil {
			return nil, err
		}
		prev := x
		if x, err = divDown(num, den, s); err != nil {
			return nil, err
		}
		diff := new(apd.Decimal)
		diff.Abs(Sub(x, prev))
		if diff.Cmp(eps) <= 0 {
			return x, nil
		}
	}
}

// integerDigits counts the digits before the decimal point, at least 1.
func integerDigits(d *apd.Decimal) int {
	n := int(d.NumDigits() + int64(d.Exponent))
	if n < 1 {
		n = 1
	}
	return n
}
