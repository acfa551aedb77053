// Copyright 2020 Aleksandr Demakin. All rights reserved.

package arith

import (
	"math/big"

	"github.com/avdva/scaled/decerr"
	"github.com/avdva/scaled/internal/mathutil"
	"github.com/avdva/scaled/internal/wide"
	"github.com/avdva/scaled/truncation"
)

// Sqrt returns the square root of x. The result never overflows.
// A negative x is reported as decerr.InvalidOperand regardless of the overflow mode.
func (a *Arithmetic) Sqrt(x int64) (int64, error) {
	if x < 0 {
		return 0, decerr.InvalidOperand.New("square root of a negative value %d", x)
	}
	if x == 0 {
		return 0, nil
	}
	hi, lo := wide.MulUnsigned(uint64(x), a.factor())
	root, rem := wide.Sqrt128(hi, lo)
	// (root + 1/2)^2 = root^2 + root + 1/4, so the fraction is never exactly a half.
	part := truncation.Zero
	switch {
	case rem > root:
		part = truncation.GreaterThanHalf
	case rem > 0:
		part = truncation.LessThanHalf
	}
	return a.finish("sqrt", false, root, true, part)
}

// Pow returns x^n.
//
// For positive n the value is computed by binary exponentiation, rounding every intermediate
// product according to the policy. For negative n the result is 1/x^-n, rounded once.
// A result of a negative power, which does not fit into 64 bits before rounding,
// is reported as decerr.Overflow regardless of the overflow mode.
func (a *Arithmetic) Pow(x int64, n int) (int64, error) {
	switch {
	case n == 0:
		return a.One(), nil
	case n > 0:
		return a.powPositive(x, uint(n))
	case x == 0:
		return 0, decerr.DivisionByZero.New("pow: 0^%d", n)
	}
	return a.powNegative(x, uint64(-(n+1))+1)
}

func (a *Arithmetic) powPositive(x int64, n uint) (int64, error) {
	result, base := a.One(), x
	var err error
	for {
		if n&1 != 0 {
			if result, err = a.Multiply(result, base); err != nil {
				return 0, err
			}
		}
		if n >>= 1; n == 0 {
			return result, nil
		}
		if base, err = a.Square(base); err != nil {
			return 0, err
		}
	}
}

// exactPowLimit is the largest exponent, for which negative powers are computed with integers.
const exactPowLimit = 64

func (a *Arithmetic) powNegative(x int64, n uint64) (int64, error) {
	u, s := mathutil.UnsignedAbs(x), a.m.Scale()
	// the result is r = 10^s*(10^s/u)^n in units of 10^-s.
	// For 10^(d-1) <= u < 10^d: 10^(s+n(s-d)) < r <= 10^(s+n(s-d+1)).
	var (
		q    *big.Int
		part truncation.TruncatedPart
	)
	switch c := s - mathutil.DecimalDigits(u); {
	case c > 0 && n >= 20:
		// r > 10^20.
	case c < -1 && n > uint64(s)+1:
		// 0 < r < 10^-2.
		q, part = new(big.Int), truncation.LessThanHalf
	case n <= exactPowLimit:
		q, part = inversePowExact(u, s, n)
	default:
		q, part = inversePowApprox(u, s, n)
	}
	if q == nil || !q.IsUint64() {
		return 0, decerr.Overflow.New("pow: %d^-%d is out of range at %v", x, n, a.m)
	}
	return a.finish("pow", x < 0 && n&1 != 0, q.Uint64(), true, part)
}

// inversePowExact returns the integer part of 10^(s(n+1))/u^n and the class of its fraction.
func inversePowExact(u uint64, s int, n uint64) (*big.Int, truncation.TruncatedPart) {
	den := new(big.Int).Exp(new(big.Int).SetUint64(u), new(big.Int).SetUint64(n), nil)
	num := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(s)*int64(n+1)), nil)
	q, r := new(big.Int).QuoRem(num, den, new(big.Int))
	if r.Sign() == 0 {
		return q, truncation.Zero
	}
	switch r.Lsh(r, 1).Cmp(den) {
	case -1:
		return q, truncation.LessThanHalf
	case 0:
		return q, truncation.EqualToHalf
	default:
		return q, truncation.GreaterThanHalf
	}
}

// maxPowPrec is the largest binary precision used by inversePowApprox.
const maxPowPrec = 1 << 12

var (
	half    = big.NewFloat(0.5)
	limit64 = new(big.Float).SetMantExp(big.NewFloat(1), 64)
)

// inversePowApprox computes 10^s*(10^s/u)^n rounded toward zero and away from zero,
// doubling the precision until both bounds have the same integer part and fraction class.
// It returns nil if the integer part does not fit into 64 bits.
func inversePowApprox(u uint64, s int, n uint64) (*big.Int, truncation.TruncatedPart) {
	for prec := uint(128); ; prec *= 2 {
		lo, exact := inversePowBound(u, s, n, prec, big.ToZero)
		if lo.IsInf() || lo.Cmp(limit64) >= 0 {
			return nil, truncation.Zero
		}
		qlo, plo := splitFloat(lo)
		if exact {
			return qlo, plo
		}
		// the exact value is strictly between lo and hi.
		plo = plo.Merge(true)
		hi, _ := inversePowBound(u, s, n, prec, big.AwayFromZero)
		if hi.Sign() == 0 {
			// both bounds are below the smallest float.
			return qlo, plo
		}
		if !hi.IsInf() {
			qhi, phi := splitFloat(hi)
			switch phi {
			case truncation.Zero:
				qhi.Sub(qhi, bigOne)
				phi = truncation.GreaterThanHalf
			case truncation.EqualToHalf:
				phi = truncation.LessThanHalf
			}
			if qlo.Cmp(qhi) == 0 && plo == phi {
				return qlo, plo
			}
		}
		if prec >= maxPowPrec {
			return qlo, plo
		}
	}
}

var bigOne = big.NewInt(1)

// inversePowBound returns 10^s*(10^s/u)^n, computed with the given precision and rounding mode,
// and whether the result is exact.
func inversePowBound(u uint64, s int, n uint64, prec uint, mode big.RoundingMode) (*big.Float, bool) {
	newFloat := func() *big.Float {
		return new(big.Float).SetPrec(prec).SetMode(mode)
	}
	factor := newFloat().SetUint64(mathutil.Pow10(s))
	base := newFloat().Quo(factor, newFloat().SetUint64(u))
	exact := base.Acc() == big.Exact
	result := newFloat().SetUint64(1)
	for {
		if n&1 != 0 {
			result.Mul(result, base)
			exact = exact && result.Acc() == big.Exact
		}
		if n >>= 1; n == 0 {
			break
		}
		base.Mul(base, base)
		exact = exact && base.Acc() == big.Exact
	}
	result.Mul(result, factor)
	return result, exact && result.Acc() == big.Exact
}

// splitFloat returns the integer part of a finite f >= 0 and the class of its fraction.
func splitFloat(f *big.Float) (*big.Int, truncation.TruncatedPart) {
	q, _ := f.Int(nil)
	frac := new(big.Float).SetPrec(f.Prec()).Sub(f, new(big.Float).SetInt(q))
	if frac.Sign() == 0 {
		return q, truncation.Zero
	}
	switch frac.Cmp(half) {
	case -1:
		return q, truncation.LessThanHalf
	case 0:
		return q, truncation.EqualToHalf
	default:
		return q, truncation.GreaterThanHalf
	}
}
