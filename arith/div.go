// Copyright 2020 Aleksandr Demakin. All rights reserved.

package arith

import (
	"math"

	"github.com/avdva/scaled/decerr"
	"github.com/avdva/scaled/internal/mathutil"
	"github.com/avdva/scaled/internal/wide"
	"github.com/avdva/scaled/truncation"
)

// Divide returns x / y.
func (a *Arithmetic) Divide(x, y int64) (int64, error) {
	if y == 0 {
		return 0, decerr.DivisionByZero.New("divide: %d / 0", x)
	}
	if x == 0 {
		return 0, nil
	}
	neg := !mathutil.SameSign(x, y)
	ux, uy := mathutil.UnsignedAbs(x), mathutil.UnsignedAbs(y)
	if a.m.IsValidIntegerValue(x) {
		// x*F fits into 64 bits.
		num := ux * a.factor()
		q := num / uy
		return a.finish("divide", neg, q, true, truncation.Classify(num-q*uy, uy))
	}
	var s wide.Scratch
	s.SetUint64(ux)
	s.MulFactor(a.m)
	r := s.DivRem(uy)
	q, fits := s.Uint64()
	return a.finish("divide", neg, q, fits, truncation.Classify(r, uy))
}

// Invert returns 1 / x.
func (a *Arithmetic) Invert(x int64) (int64, error) {
	if x == 0 {
		return 0, decerr.DivisionByZero.New("invert: 1 / 0")
	}
	return a.Divide(a.One(), x)
}

// DivideByLong returns x / n, where n is an integer.
func (a *Arithmetic) DivideByLong(x, n int64) (int64, error) {
	if n == 0 {
		return 0, decerr.DivisionByZero.New("divide by long: %d / 0", x)
	}
	if x == math.MinInt64 && n == -1 {
		return a.narrow("divide by long", false, 1<<63, true)
	}
	return a.policy.Rounding.DivRound(x, n)
}

// DivideByPowerOf10 returns x / 10^n, rounded. For negative n the value is multiplied.
func (a *Arithmetic) DivideByPowerOf10(x int64, n int) (int64, error) {
	switch {
	case n == 0 || x == 0:
		return x, nil
	case n < 0:
		if n == math.MinInt {
			return a.MultiplyByPowerOf10(x, math.MaxInt)
		}
		return a.MultiplyByPowerOf10(x, -n)
	}
	neg, ux := x < 0, mathutil.UnsignedAbs(x)
	if n > mathutil.MaxPow10 {
		// |x| < 2^63 < 10^n/2.
		return a.finish("divide by power of 10", neg, 0, true, truncation.LessThanHalf)
	}
	d := mathutil.Pow10(n)
	q := ux / d
	return a.finish("divide by power of 10", neg, q, true, truncation.Classify(ux-q*d, d))
}

// Remainder returns x - y*trunc(x/y). The result has the sign of x.
func (a *Arithmetic) Remainder(x, y int64) (int64, error) {
	if y == 0 {
		return 0, decerr.DivisionByZero.New("remainder: %d %% 0", x)
	}
	return x % y, nil
}

// DivideToIntegralValue returns trunc(x / y) as a decimal.
func (a *Arithmetic) DivideToIntegralValue(x, y int64) (int64, error) {
	if y == 0 {
		return 0, decerr.DivisionByZero.New("divide to integral value: %d / 0", x)
	}
	neg := !mathutil.SameSign(x, y)
	q := mathutil.UnsignedAbs(x) / mathutil.UnsignedAbs(y)
	hi, lo := wide.MulUnsigned(q, a.factor())
	return a.narrow("divide to integral value", neg, lo, hi == 0)
}

// Round rounds x to the given number of digits after the decimal point.
// Negative precision rounds to tens, hundreds and so on.
func (a *Arithmetic) Round(x int64, precision int) (int64, error) {
	if precision < -2*mathutil.MaxPow10 {
		precision = -2 * mathutil.MaxPow10
	}
	k := a.m.Scale() - precision
	if k <= 0 || x == 0 {
		return x, nil
	}
	neg, ux := x < 0, mathutil.UnsignedAbs(x)
	var q uint64
	part := truncation.LessThanHalf
	if k <= mathutil.MaxPow10 {
		d := mathutil.Pow10(k)
		q = ux / d
		part = truncation.Classify(ux-q*d, d)
	}
	q, _, err := a.round(neg, q, true, part)
	if err != nil {
		return 0, err
	}
	if k <= mathutil.MaxPow10 {
		hi, lo := wide.MulUnsigned(q, mathutil.Pow10(k))
		return a.narrow("round", neg, lo, hi == 0)
	}
	return a.narrow("round", neg, q*pow10Wrap(k), q == 0)
}

// ToLong returns the integer part of x, rounded.
func (a *Arithmetic) ToLong(x int64) (int64, error) {
	return a.DivideByPowerOf10(x, a.m.Scale())
}

// FromLong returns the unscaled representation of an integer n.
func (a *Arithmetic) FromLong(n int64) (int64, error) {
	return a.MultiplyByPowerOf10(n, a.m.Scale())
}

// FromUnscaled converts an unscaled value u of scale uScale to the scale of a, rounding if necessary.
func (a *Arithmetic) FromUnscaled(u int64, uScale int) (int64, error) {
	if uScale < 0 || uScale > math.MaxInt32 {
		return 0, decerr.IllegalScale.New("%d", uScale)
	}
	return a.MultiplyByPowerOf10(u, a.m.Scale()-uScale)
}

// ToUnscaled converts x to an unscaled value of the target scale, rounding if necessary.
func (a *Arithmetic) ToUnscaled(x int64, target int) (int64, error) {
	if target < 0 || target > math.MaxInt32 {
		return 0, decerr.IllegalScale.New("%d", target)
	}
	return a.MultiplyByPowerOf10(x, target-a.m.Scale())
}
