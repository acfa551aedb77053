// Copyright 2020 Aleksandr Demakin. All rights reserved.

package arith

import (
	"math"
	"math/bits"

	"github.com/avdva/scaled/decerr"
	"github.com/avdva/scaled/internal/mathutil"
	"github.com/avdva/scaled/internal/wide"
	"github.com/avdva/scaled/truncation"
)

const (
	mantBits = 52
	expBias  = 1023 + mantBits
)

// FromDouble converts f to an unscaled value, rounding the exact binary value of f.
// Values out of range are reported as decerr.Overflow regardless of the overflow mode.
func (a *Arithmetic) FromDouble(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, decerr.InvalidOperand.New("cannot convert %v", f)
	}
	if f == 0 {
		return 0, nil
	}
	b := math.Float64bits(f)
	neg := b>>63 != 0
	exp := int(b>>mantBits) & 0x7ff
	mant := b & (1<<mantBits - 1)
	if exp == 0 {
		exp = 1 // subnormal
	} else {
		mant |= 1 << mantBits
	}
	exp -= expBias // |f| = mant * 2^exp

	var s wide.Scratch
	s.SetUint64(mant)
	s.MulFactor(a.m)
	part := truncation.Zero
	if exp > 0 {
		if !s.Lsh(uint(exp)) {
			return 0, decerr.Overflow.New("%v is out of range at %v", f, a.m)
		}
	} else if exp < 0 {
		part = s.Rsh(uint(-exp))
	}
	q, fits := s.Uint64()
	return a.finishStrict("from double", neg, q, fits, part)
}

// ToDouble converts x to the nearest float64 in the direction given by the rounding mode.
func (a *Arithmetic) ToDouble(x int64) (float64, error) {
	if x == 0 {
		return 0, nil
	}
	neg, u, f := x < 0, mathutil.UnsignedAbs(x), a.factor()
	// choose k, so that q = u*2^k/f is in [2^52, 2^54).
	k := mantBits + 1 - bits.Len64(u) + bits.Len64(f)
	var (
		q    uint64
		part truncation.TruncatedPart
	)
	if k >= 0 {
		var s wide.Scratch
		s.SetUint64(u)
		s.Lsh(uint(k))
		r := s.DivRem(f)
		q, _ = s.Uint64()
		part = truncation.Classify(r, f)
	} else {
		den := f << uint(-k)
		q = u / den
		part = truncation.Classify(u-q*den, den)
	}
	if q >= 1<<(mantBits+1) {
		sticky := part != truncation.Zero
		if q&1 != 0 {
			part = truncation.EqualToHalf.Merge(sticky)
		} else {
			part = truncation.Zero.Merge(sticky)
		}
		q >>= 1
		k--
	}
	inc, err := a.policy.Rounding.Increment(neg, q&1 != 0, part)
	if err != nil {
		return 0, err
	}
	if inc != 0 {
		q++
	}
	result := math.Ldexp(float64(q), -k)
	if neg {
		result = -result
	}
	return result, nil
}
