// Copyright 2020 Aleksandr Demakin. All rights reserved.

package arith

import (
	"math"

	"github.com/avdva/scaled/decerr"
	"github.com/avdva/scaled/internal/mathutil"
	"github.com/avdva/scaled/internal/wide"
	"github.com/avdva/scaled/truncation"
)

// Multiply returns x * y.
func (a *Arithmetic) Multiply(x, y int64) (int64, error) {
	return a.unscale("multiply", wide.Mul64(x, y))
}

// Square returns x * x.
func (a *Arithmetic) Square(x int64) (int64, error) {
	return a.unscale("square", wide.Square64(x))
}

// unscale divides an exact product of two unscaled values by the scale factor.
func (a *Arithmetic) unscale(op string, p wide.Int128) (int64, error) {
	if a.m.Scale() == 0 {
		return a.narrow(op, p.Neg, p.Lo, p.Hi == 0)
	}
	f := a.factor()
	if p.Hi == 0 {
		q := a.m.DivUnsignedByFactor(p.Lo)
		return a.finish(op, p.Neg, q, true, truncation.Classify(p.Lo-q*f, f))
	}
	var s wide.Scratch
	s.SetUint128(p.Hi, p.Lo)
	r := s.DivRem(f)
	q, fits := s.Uint64()
	return a.finish(op, p.Neg, q, fits, truncation.Classify(r, f))
}

// MultiplyByLong returns x * n, where n is an integer. The result is always exact.
func (a *Arithmetic) MultiplyByLong(x, n int64) (int64, error) {
	p := wide.Mul64(x, n)
	if !p.IsInt64() && a.policy.Overflow.IsChecked() {
		return 0, decerr.Overflow.New("multiply by long: %d * %d = %v does not fit into 64 bits", x, n, p)
	}
	return a.narrow("multiply by long", p.Neg, p.Lo, p.Hi == 0)
}

// MultiplyByPowerOf10 returns x * 10^n. For negative n the result is rounded.
func (a *Arithmetic) MultiplyByPowerOf10(x int64, n int) (int64, error) {
	switch {
	case n == 0 || x == 0:
		return x, nil
	case n < 0:
		if n == math.MinInt {
			return a.DivideByPowerOf10(x, -(n + 1))
		}
		return a.DivideByPowerOf10(x, -n)
	}
	neg, ux := x < 0, mathutil.UnsignedAbs(x)
	if n <= mathutil.MaxPow10 {
		hi, lo := wide.MulUnsigned(ux, mathutil.Pow10(n))
		return a.narrow("multiply by power of 10", neg, lo, hi == 0)
	}
	return a.narrow("multiply by power of 10", neg, ux*pow10Wrap(n), false)
}

// pow10Wrap returns 10^n modulo 2^64.
func pow10Wrap(n int) uint64 {
	if n >= 64 {
		// 2^n divides 10^n.
		return 0
	}
	result := uint64(1)
	for ; n > mathutil.MaxPow10; n -= mathutil.MaxPow10 {
		result *= mathutil.Pow10(mathutil.MaxPow10)
	}
	return result * mathutil.Pow10(n)
}
