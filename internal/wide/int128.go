// Copyright 2020 Aleksandr Demakin. All rights reserved.

package wide

import (
	"github.com/avdva/scaled/decerr"
	"github.com/avdva/scaled/internal/mathutil"
)

const pow18 = 1000000000000000000

// Int128 is a signed 128-bit integer in sign-magnitude form.
// Zero is never negative.
type Int128 struct {
	Neg bool
	Hi  uint64
	Lo  uint64
}

// NewInt128 returns a normalized Int128 for the given sign and magnitude.
func NewInt128(neg bool, hi, lo uint64) Int128 {
	return Int128{Neg: neg && hi|lo != 0, Hi: hi, Lo: lo}
}

// Int128FromInt64 returns v as an Int128.
func Int128FromInt64(v int64) Int128 {
	return NewInt128(v < 0, 0, mathutil.UnsignedAbs(v))
}

// Mul64 returns the exact product a*b.
func Mul64(a, b int64) Int128 {
	hi, lo := MulUnsigned(mathutil.UnsignedAbs(a), mathutil.UnsignedAbs(b))
	return NewInt128((a < 0) != (b < 0), hi, lo)
}

// Square64 returns the exact product a*a.
func Square64(a int64) Int128 {
	abs := mathutil.UnsignedAbs(a)
	hi, lo := MulUnsigned(abs, abs)
	return Int128{Hi: hi, Lo: lo}
}

// MulUnsigned returns the 128-bit product of x and y,
// computed from four 32x32 bit partial products.
func MulUnsigned(x, y uint64) (hi, lo uint64) {
	x0, x1 := x&mask32, x>>32
	y0, y1 := y&mask32, y>>32
	w0 := x0 * y0
	t := x1*y0 + w0>>32
	w1 := t & mask32
	w2 := t >> 32
	w1 += x0 * y1
	hi = x1*y1 + w2 + w1>>32
	lo = x * y
	return hi, lo
}

// IsZero returns true if x == 0.
func (x Int128) IsZero() bool {
	return x.Hi|x.Lo == 0
}

// Sign returns -1, 0, or 1.
func (x Int128) Sign() int {
	switch {
	case x.IsZero():
		return 0
	case x.Neg:
		return -1
	default:
		return 1
	}
}

// IsInt64 returns true if x fits into an int64.
func (x Int128) IsInt64() bool {
	if x.Hi != 0 {
		return false
	}
	if x.Neg {
		return x.Lo <= 1<<63
	}
	return x.Lo < 1<<63
}

// Int64 returns the lower 64 bits of x in two's complement.
func (x Int128) Int64() int64 {
	if x.Neg {
		return -int64(x.Lo)
	}
	return int64(x.Lo)
}

// Cmp compares x and y and returns -1, 0, or 1.
func (x Int128) Cmp(y Int128) int {
	sx, sy := x.Sign(), y.Sign()
	if sx != sy {
		if sx < sy {
			return -1
		}
		return 1
	}
	c := cmpMagnitude(x, y)
	if x.Neg {
		return -c
	}
	return c
}

func cmpMagnitude(x, y Int128) int {
	switch {
	case x.Hi < y.Hi:
		return -1
	case x.Hi > y.Hi:
		return 1
	case x.Lo < y.Lo:
		return -1
	case x.Lo > y.Lo:
		return 1
	default:
		return 0
	}
}

// String returns the exact decimal representation of x.
func (x Int128) String() string {
	var buf [40]byte // 39 digits for 2^128-1 and a sign
	i := len(buf)
	var s Scratch
	s.SetUint128(x.Hi, x.Lo)
	lo, ok := s.Uint64()
	for !ok {
		r := s.DivRem(pow18)
		for j := 0; j < 18; j++ {
			i--
			buf[i] = byte('0' + r%10)
			r /= 10
		}
		lo, ok = s.Uint64()
	}
	for {
		i--
		buf[i] = byte('0' + lo%10)
		lo /= 10
		if lo == 0 {
			break
		}
	}
	if x.Neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// ParseInt128 parses a decimal integer with an optional sign.
// The magnitude must fit into 128 bits.
func ParseInt128(str string) (Int128, error) {
	if len(str) == 0 {
		return Int128{}, decerr.Syntax.New("empty input")
	}
	var neg bool
	digits := str
	switch digits[0] {
	case '-':
		neg = true
		fallthrough
	case '+':
		digits = digits[1:]
	}
	if len(digits) == 0 {
		return Int128{}, decerr.Syntax.New("no digits in %q", str)
	}
	var s Scratch
	for len(digits) > 0 {
		n := len(digits)
		if n > 9 {
			n = 9
		}
		var chunk uint32
		for i := 0; i < n; i++ {
			c := digits[i]
			if c < '0' || c > '9' {
				return Int128{}, decerr.Syntax.New("unexpected symbol %q in %q", c, str)
			}
			chunk = chunk*10 + uint32(c-'0')
		}
		if !s.MulWord(uint32(mathutil.Pow10(n)), chunk) {
			return Int128{}, decerr.Overflow.New("%q does not fit into 128 bits", str)
		}
		digits = digits[n:]
	}
	hi, lo, ok := s.Uint128()
	if !ok {
		return Int128{}, decerr.Overflow.New("%q does not fit into 128 bits", str)
	}
	return NewInt128(neg, hi, lo), nil
}
