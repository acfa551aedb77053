// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Package wide implements exact integer arithmetic wider than 64 bits:
// 128-bit products, 160-bit scaled dividends and their division by 64-bit divisors.
//
// All numbers are magnitudes, signs are tracked by the callers.
// Scratch is the only mutable state. It is a plain value, which is meant to be declared
// by the caller (typically on the stack) and used by one goroutine at a time.
package wide

import (
	"math/bits"

	"github.com/avdva/scaled/internal/mathutil"
	"github.com/avdva/scaled/scale"
	"github.com/avdva/scaled/truncation"
)

const (
	// Words is the number of 32-bit words in a Scratch.
	Words = 5
	// Bits is the capacity of a Scratch in bits.
	Bits = Words * 32

	mask32 = 1<<32 - 1
	base   = 1 << 32
)

const (
	pow9 = 1000000000
)

// Scratch is a workspace for wide multiplication and division.
// It holds an unsigned magnitude of up to 160 bits as five 32-bit words,
// least significant word first. The zero value is 0.
//
// A Scratch must not be used by multiple goroutines simultaneously.
type Scratch struct {
	w  [Words]uint32
	un [Words + 1]uint32 // normalized dividend
	q  [Words]uint32
}

// Reset sets s to 0.
func (s *Scratch) Reset() {
	s.w = [Words]uint32{}
}

// SetUint64 sets s to v.
func (s *Scratch) SetUint64(v uint64) *Scratch {
	s.w = [Words]uint32{uint32(v), uint32(v >> 32)}
	return s
}

// SetUint128 sets s to hi<<64 | lo.
func (s *Scratch) SetUint128(hi, lo uint64) *Scratch {
	s.w = [Words]uint32{uint32(lo), uint32(lo >> 32), uint32(hi), uint32(hi >> 32)}
	return s
}

// Words returns a copy of the words of s, least significant first.
func (s *Scratch) Words() [Words]uint32 {
	return s.w
}

// IsZero returns true if s == 0.
func (s *Scratch) IsZero() bool {
	return s.w[0]|s.w[1]|s.w[2]|s.w[3]|s.w[4] == 0
}

// Len returns the number of significant words.
func (s *Scratch) Len() int {
	n := Words
	for n > 0 && s.w[n-1] == 0 {
		n--
	}
	return n
}

// BitLen returns the number of significant bits.
func (s *Scratch) BitLen() int {
	n := s.Len()
	if n == 0 {
		return 0
	}
	return (n-1)*32 + bits.Len32(s.w[n-1])
}

// Uint64 returns the lower 64 bits of s, and whether s fits into a uint64.
func (s *Scratch) Uint64() (uint64, bool) {
	return uint64(s.w[1])<<32 | uint64(s.w[0]), s.w[2]|s.w[3]|s.w[4] == 0
}

// Uint128 returns the lower 128 bits of s, and whether s fits into 128 bits.
func (s *Scratch) Uint128() (hi, lo uint64, ok bool) {
	lo = uint64(s.w[1])<<32 | uint64(s.w[0])
	hi = uint64(s.w[3])<<32 | uint64(s.w[2])
	return hi, lo, s.w[4] == 0
}

// MulFactor multiplies s by the scale factor of m, using two 32-bit partial products
// per word. Returns false if the product does not fit into 160 bits, in which case s
// holds the lower 160 bits of the product.
func (s *Scratch) MulFactor(m *scale.Metrics) bool {
	var res [Words]uint32
	var carry uint64
	for i := 0; i < Words; i++ {
		t := m.MulLoByFactor32(s.w[i]) + carry
		res[i] = uint32(t)
		carry = t >> 32
	}
	ok := carry == 0
	carry = 0
	for i := 0; i < Words-1; i++ {
		t := m.MulHiByFactor32(s.w[i]) + uint64(res[i+1]) + carry
		res[i+1] = uint32(t)
		carry = t >> 32
	}
	ok = ok && carry == 0 && m.MulHiByFactor32(s.w[Words-1]) == 0
	s.w = res
	return ok
}

// MulWord sets s = s*m + a. Returns false on overflow.
func (s *Scratch) MulWord(m, a uint32) bool {
	carry := uint64(a)
	for i := 0; i < Words; i++ {
		t := uint64(s.w[i])*uint64(m) + carry
		s.w[i] = uint32(t)
		carry = t >> 32
	}
	return carry == 0
}

// MulPow10 multiplies s by 10^n. Returns false on overflow.
func (s *Scratch) MulPow10(n int) bool {
	ok := true
	for ; n >= 9; n -= 9 {
		ok = s.MulWord(pow9, 0) && ok
	}
	if n > 0 {
		ok = s.MulWord(uint32(mathutil.Pow10(n)), 0) && ok
	}
	return ok
}

// Lsh shifts s left by n bits. Returns false, if nonzero bits were shifted out.
func (s *Scratch) Lsh(n uint) bool {
	if n == 0 {
		return true
	}
	if int(n) >= Bits {
		ok := s.IsZero()
		s.Reset()
		return ok
	}
	ok := s.BitLen()+int(n) <= Bits
	wordShift, bitShift := int(n/32), n%32
	for i := Words - 1; i >= 0; i-- {
		var v uint32
		if j := i - wordShift; j >= 0 {
			v = s.w[j] << bitShift
			if bitShift > 0 && j > 0 {
				v |= s.w[j-1] >> (32 - bitShift)
			}
		}
		s.w[i] = v
	}
	return ok
}

// Rsh shifts s right by n bits and returns the class of the dropped fraction.
func (s *Scratch) Rsh(n uint) truncation.TruncatedPart {
	if n == 0 {
		return truncation.Zero
	}
	half := s.bit(n - 1)
	sticky := s.anyBelow(n - 1)
	if int(n) >= Bits {
		s.Reset()
	} else {
		wordShift, bitShift := int(n/32), n%32
		for i := 0; i < Words; i++ {
			var v uint32
			if j := i + wordShift; j < Words {
				v = s.w[j] >> bitShift
				if bitShift > 0 && j+1 < Words {
					v |= s.w[j+1] << (32 - bitShift)
				}
			}
			s.w[i] = v
		}
	}
	switch {
	case half && sticky:
		return truncation.GreaterThanHalf
	case half:
		return truncation.EqualToHalf
	case sticky:
		return truncation.LessThanHalf
	default:
		return truncation.Zero
	}
}

func (s *Scratch) bit(i uint) bool {
	if int(i) >= Bits {
		return false
	}
	return s.w[i/32]>>(i%32)&1 != 0
}

// anyBelow returns true if any of the lowest n bits is set.
func (s *Scratch) anyBelow(n uint) bool {
	for i := 0; i < Words && n > 0; i++ {
		if n < 32 {
			return s.w[i]&(1<<n-1) != 0
		}
		if s.w[i] != 0 {
			return true
		}
		n -= 32
	}
	return false
}

// DivRem sets s to s/v and returns the remainder. It panics if v == 0.
func (s *Scratch) DivRem(v uint64) uint64 {
	if v == 0 {
		panic("wide: division by zero")
	}
	if v>>32 == 0 {
		return s.divWord(uint32(v))
	}
	return s.divLong(v)
}

// divWord is the long division by a single word, swept from the most significant word.
func (s *Scratch) divWord(v uint32) uint64 {
	var r uint64
	d := uint64(v)
	for i := Words - 1; i >= 0; i-- {
		cur := r<<32 | uint64(s.w[i])
		s.w[i] = uint32(cur / d)
		r = cur % d
	}
	return r
}

// divLong divides s by a two-word v using Knuth's Algorithm D
// (The Art of Computer Programming, vol. 2, 4.3.1), as given in Hacker's Delight, divmnu.
func (s *Scratch) divLong(v uint64) uint64 {
	nu := s.Len()
	if nu < 2 {
		// s < 2^32 <= v
		r, _ := s.Uint64()
		s.Reset()
		return r
	}
	// normalize, so that the highest bit of the divisor is set.
	shift := uint(bits.LeadingZeros64(v))
	v <<= shift
	vn := [2]uint32{uint32(v), uint32(v >> 32)}

	un := s.un[:nu+1]
	if shift == 0 {
		un[nu] = 0
		copy(un, s.w[:nu])
	} else {
		un[nu] = s.w[nu-1] >> (32 - shift)
		for i := nu - 1; i > 0; i-- {
			un[i] = s.w[i]<<shift | s.w[i-1]>>(32-shift)
		}
		un[0] = s.w[0] << shift
	}

	s.q = [Words]uint32{}
	for j := nu - 2; j >= 0; j-- {
		// estimate the quotient digit from the two leading words.
		num := uint64(un[j+2])<<32 | uint64(un[j+1])
		qhat := num / uint64(vn[1])
		rhat := num - qhat*uint64(vn[1])
		for qhat >= base || qhat*uint64(vn[0]) > rhat<<32|uint64(un[j]) {
			qhat--
			rhat += uint64(vn[1])
			if rhat >= base {
				break
			}
		}

		// multiply and subtract.
		var k int64
		for i := 0; i < 2; i++ {
			p := qhat * uint64(vn[i])
			t := int64(un[i+j]) - k - int64(p&mask32)
			un[i+j] = uint32(t)
			k = int64(p>>32) - (t >> 32)
		}
		t := int64(un[j+2]) - k
		un[j+2] = uint32(t)

		if t < 0 {
			// the estimate was one too large, add back.
			qhat--
			var c uint64
			for i := 0; i < 2; i++ {
				sum := uint64(un[i+j]) + uint64(vn[i]) + c
				un[i+j] = uint32(sum)
				c = sum >> 32
			}
			un[j+2] += uint32(c)
		}
		s.q[j] = uint32(qhat)
	}
	s.w = s.q

	// unnormalize the remainder.
	r := uint64(un[1])<<32 | uint64(un[0])
	if shift > 0 {
		r = r>>shift | uint64(un[2])<<(64-shift)
	}
	return r
}
