// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Package fixed implements decimal fixed-point numbers with 8 digits after the decimal point.
package fixed

import (
	"math"

	"github.com/avdva/scaled"
	"github.com/avdva/scaled/truncation"
)

const (
	dot = -8
)

// Fixed is a decimal with 8 fraction digits.
type Fixed = scaled.Decimal[scaled.S8]

var (
	Zero             = Fixed{}
	Max              = scaled.New[scaled.S8](math.MaxInt64)
	Min              = scaled.New[scaled.S8](math.MinInt64)
	SmallestPositive = scaled.New[scaled.S8](1)
	SmallestNegative = scaled.New[scaled.S8](-1)
)

// FromMantAndExp returns mant*10^exp, rounded according to scaled.DefaultPolicy.
// Unlike arithmetic operations, values out of range are always reported as errors.
func FromMantAndExp(mant int64, exp int32) (Fixed, error) {
	p := scaled.DefaultPolicy
	p.Overflow = truncation.Checked
	u, err := scaled.Arithmetic[scaled.S8](p).MultiplyByPowerOf10(mant, int(exp)-dot)
	if err != nil {
		return Zero, err
	}
	return scaled.New[scaled.S8](u), nil
}

// FromString parses a decimal string.
func FromString(s string) (Fixed, error) {
	return scaled.Parse[scaled.S8](s)
}

// MustFromString is like FromString, but panics on errors.
func MustFromString(s string) Fixed {
	return scaled.MustParse[scaled.S8](s)
}

// FromFloat64 returns f, rounded to 8 digits.
func FromFloat64(f float64) (Fixed, error) {
	return scaled.FromFloat64[scaled.S8](f)
}
