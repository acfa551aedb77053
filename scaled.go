// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Package scaled implements fixed-point decimal numbers, stored as a single int64
// with a scale known at compile time.
//
// Decimal[S2] holds values like 12.34 as the unscaled integer 1234. Operations are implemented
// by the arith package, which can also be used directly on raw int64 values with any scale
// and truncation policy.
package scaled

import (
	"github.com/avdva/scaled/arith"
	"github.com/avdva/scaled/truncation"
)

var (
	// JSONMode defines the way all values are marshaled into json, see JSONMode* constants.
	// This variable is not thread-safe, so this should be changed on program start.
	JSONMode = JSONModeString

	// DefaultPolicy is the truncation policy used by Decimal methods and new Mutable values.
	// This variable is not thread-safe, so this should be changed on program start.
	DefaultPolicy = truncation.Default
)

const (
	// JSONModeString produces values as strings, like `"1234.5678"`
	JSONModeString = iota
	// JSONModeFloat marshals values as floats, like `1234.5678`.
	JSONModeFloat
	// JSONModeME marshals values with unscaled mantissa and exponent, like `{"m":12345678,"e":-4}`.
	JSONModeME
	// JSONModeCompact will choose the shortest form between JSONModeString and JSONModeME.
	JSONModeCompact
)

// Scale is implemented by the scale marker types S0..S18 only.
type Scale interface {
	digits() int
}

// S0..S18 select 0..18 digits after the decimal point.
type (
	S0  struct{}
	S1  struct{}
	S2  struct{}
	S3  struct{}
	S4  struct{}
	S5  struct{}
	S6  struct{}
	S7  struct{}
	S8  struct{}
	S9  struct{}
	S10 struct{}
	S11 struct{}
	S12 struct{}
	S13 struct{}
	S14 struct{}
	S15 struct{}
	S16 struct{}
	S17 struct{}
	S18 struct{}
)

func (S0) digits() int  { return 0 }
func (S1) digits() int  { return 1 }
func (S2) digits() int  { return 2 }
func (S3) digits() int  { return 3 }
func (S4) digits() int  { return 4 }
func (S5) digits() int  { return 5 }
func (S6) digits() int  { return 6 }
func (S7) digits() int  { return 7 }
func (S8) digits() int  { return 8 }
func (S9) digits() int  { return 9 }
func (S10) digits() int { return 10 }
func (S11) digits() int { return 11 }
func (S12) digits() int { return 12 }
func (S13) digits() int { return 13 }
func (S14) digits() int { return 14 }
func (S15) digits() int { return 15 }
func (S16) digits() int { return 16 }
func (S17) digits() int { return 17 }
func (S18) digits() int { return 18 }

func scaleOf[S Scale]() int {
	var s S
	return s.digits()
}

// Arithmetic returns the arithmetic for the scale S and the given policy.
// It panics if the policy is not valid.
func Arithmetic[S Scale](p truncation.Policy) *arith.Arithmetic {
	return arith.MustFor(scaleOf[S](), p)
}
