// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Package scale provides per-scale constants and fast arithmetic with a scale factor.
//
// A scale is the number of digits after the decimal point, in the range [0, MaxScale].
// The scale factor is 10^scale. Scaling by a power of ten is the hottest operation of the
// whole library, so Metrics precomputes everything needed to avoid hardware division:
// the 32-bit decomposition of the factor for building wide products, and a magic
// multiplier for unsigned division.
package scale

import (
	"math"
	"math/bits"
	"strconv"

	"github.com/avdva/scaled/decerr"
	"github.com/avdva/scaled/internal/mathutil"
)

const (
	// MaxScale is the maximum supported number of digits after the decimal point.
	MaxScale = 18
	// Count is the number of supported scales.
	Count = MaxScale + 1
)

// magic contains the numbers for fast division by 10**n
// x / 10**n = ((x >> pre) * m) >> (64 + post).
// See https://gmplib.org/~tege/divcnst-pldi94.pdf
type magic struct {
	m    uint64 // multiplier
	pre  uint8  // pre-shift
	post uint8  // post-shift
}

// generated using Go's src/cmd/compile/internal/ssa/magic.go and rewritegeneric.go rules
var pow10DivTab = [Count]magic{
	{0, 0, 0}, // 10^0 is handled separately
	{0xcccccccccccccccd, 0, 3},
	{0xa3d70a3d70a3d70b, 1, 5},
	{0x83126e978d4fdf3c, 1, 8},
	{0xd1b71758e219652c, 0, 13},
	{0xa7c5ac471b478424, 1, 15},
	{0x8637bd05af6c69b6, 0, 19},
	{0xd6bf94d5e57a42bd, 1, 22},
	{0xabcc77118461cefd, 0, 26},
	{0x89705f4136b4a598, 1, 28},
	{0xdbe6fecebdedd5bf, 0, 33},
	{0xafebff0bcb24aaff, 0, 36},
	{0x8cbccc096f5088cc, 0, 39},
	{0xe12e13424bb40e14, 1, 42},
	{0xb424dc35095cd810, 1, 45},
	{0x901d7cf73ab0acda, 1, 48},
	{0xe69594bec44de15c, 1, 52},
	{0xb877aa3236a4b44a, 1, 55},
	{0x9392ee8e921d5d08, 1, 58},
}

// Metrics holds the constants of one scale. Metrics values are process-wide singletons,
// obtained with ForScale, and are safe for concurrent use.
type Metrics struct {
	scale      int
	factor     int64
	factorHi   uint32
	factorLo   uint32
	factorLZ   int
	maxInteger int64
	minInteger int64
	div        magic
}

var metrics = func() (result [Count]Metrics) {
	for s := range result {
		f := mathutil.Pow10(s)
		result[s] = Metrics{
			scale:      s,
			factor:     int64(f),
			factorHi:   uint32(f >> 32),
			factorLo:   uint32(f),
			factorLZ:   bits.LeadingZeros64(f),
			maxInteger: math.MaxInt64 / int64(f),
			minInteger: math.MinInt64 / int64(f),
			div:        pow10DivTab[s],
		}
	}
	return result
}()

// ForScale returns the metrics for the given scale.
// Returns an error if s is outside of [0, MaxScale].
func ForScale(s int) (*Metrics, error) {
	if s < 0 || s > MaxScale {
		return nil, decerr.IllegalScale.New("scale %d is not in [0, %d]", s, MaxScale)
	}
	return &metrics[s], nil
}

// MustForScale is like ForScale, but panics on illegal scales.
func MustForScale(s int) *Metrics {
	m, err := ForScale(s)
	if err != nil {
		panic(err)
	}
	return m
}

// All returns the metrics of all scales, ordered by scale.
func All() []*Metrics {
	result := make([]*Metrics, Count)
	for i := range metrics {
		result[i] = &metrics[i]
	}
	return result
}

// Scale returns the number of digits after the decimal point.
func (m *Metrics) Scale() int {
	return m.scale
}

// Factor returns 10^scale.
func (m *Metrics) Factor() int64 {
	return m.factor
}

// FactorHi32 returns the upper 32 bits of the scale factor.
func (m *Metrics) FactorHi32() uint32 {
	return m.factorHi
}

// FactorLo32 returns the lower 32 bits of the scale factor.
func (m *Metrics) FactorLo32() uint32 {
	return m.factorLo
}

// FactorLeadingZeros returns the number of leading zero bits of the scale factor.
func (m *Metrics) FactorLeadingZeros() int {
	return m.factorLZ
}

// MaxIntegerValue returns the maximum integer, which can be represented at this scale.
func (m *Metrics) MaxIntegerValue() int64 {
	return m.maxInteger
}

// MinIntegerValue returns the minimum integer, which can be represented at this scale.
func (m *Metrics) MinIntegerValue() int64 {
	return m.minInteger
}

// IsValidIntegerValue returns true, if v*10^scale fits into an int64.
func (m *Metrics) IsValidIntegerValue(v int64) bool {
	return m.minInteger <= v && v <= m.maxInteger
}

// MulByFactor returns v*10^scale. The result silently wraps on overflow.
func (m *Metrics) MulByFactor(v int64) int64 {
	return v * m.factor
}

// MulByFactorChecked returns v*10^scale and false, if the result overflows an int64.
func (m *Metrics) MulByFactorChecked(v int64) (int64, bool) {
	if !m.IsValidIntegerValue(v) {
		return 0, false
	}
	return v * m.factor, true
}

// DivByFactor returns v/10^scale truncated toward zero.
func (m *Metrics) DivByFactor(v int64) int64 {
	if v >= 0 {
		return int64(m.DivUnsignedByFactor(uint64(v)))
	}
	return -int64(m.DivUnsignedByFactor(mathutil.UnsignedAbs(v)))
}

// ModByFactor returns v%10^scale, which has the sign of v.
func (m *Metrics) ModByFactor(v int64) int64 {
	return v - m.DivByFactor(v)*m.factor
}

// DivUnsignedByFactor returns v/10^scale, where v is treated as an unsigned number.
func (m *Metrics) DivUnsignedByFactor(v uint64) uint64 {
	if m.scale == 0 {
		return v
	}
	hi, _ := bits.Mul64(v>>m.div.pre, m.div.m)
	return hi >> m.div.post
}

// ModUnsignedByFactor returns v%10^scale, where v is treated as an unsigned number.
func (m *Metrics) ModUnsignedByFactor(v uint64) uint64 {
	return v - m.DivUnsignedByFactor(v)*uint64(m.factor)
}

// MulHiByFactor32 returns v multiplied by the upper 32 bits of the scale factor.
func (m *Metrics) MulHiByFactor32(v uint32) uint64 {
	return uint64(v) * uint64(m.factorHi)
}

// MulLoByFactor32 returns v multiplied by the lower 32 bits of the scale factor.
func (m *Metrics) MulLoByFactor32(v uint32) uint64 {
	return uint64(v) * uint64(m.factorLo)
}

// String returns a short description like "scale(2)".
func (m *Metrics) String() string {
	return "scale(" + strconv.Itoa(m.scale) + ")"
}
