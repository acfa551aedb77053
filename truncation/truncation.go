// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Package truncation defines how inexact and out-of-range results are resolved.
//
// A Policy combines two independent settings: an OverflowMode, which decides what happens
// when a result does not fit into 64 bits, and a RoundingMode, which decides whether a
// truncated quotient is adjusted away from zero. Rounding decisions are made from integer
// remainders only.
package truncation

import (
	"fmt"
	"strings"

	"github.com/avdva/scaled/decerr"
)

// OverflowMode defines what happens when a result does not fit into an int64.
type OverflowMode uint8

const (
	// Unchecked silently returns the low 64 bits of the result.
	Unchecked OverflowMode = iota
	// Checked reports decerr.Overflow.
	Checked
)

// IsChecked returns true for Checked.
func (m OverflowMode) IsChecked() bool {
	return m == Checked
}

func (m OverflowMode) String() string {
	if m == Checked {
		return "CHECKED"
	}
	return "UNCHECKED"
}

// RoundingMode defines how a truncated result is adjusted.
type RoundingMode uint8

const (
	// Up rounds away from zero.
	Up RoundingMode = iota
	// Down rounds toward zero.
	Down
	// Ceiling rounds toward positive infinity.
	Ceiling
	// Floor rounds toward negative infinity.
	Floor
	// HalfUp rounds toward the nearest neighbor, ties away from zero.
	HalfUp
	// HalfDown rounds toward the nearest neighbor, ties toward zero.
	HalfDown
	// HalfEven rounds toward the nearest neighbor, ties toward the even neighbor.
	HalfEven
	// Unnecessary asserts that the result is exact and reports decerr.RoundingRequired otherwise.
	Unnecessary
)

// RoundingModes lists all rounding modes.
var RoundingModes = [...]RoundingMode{Up, Down, Ceiling, Floor, HalfUp, HalfDown, HalfEven, Unnecessary}

var roundingNames = [...]string{
	Up:          "UP",
	Down:        "DOWN",
	Ceiling:     "CEILING",
	Floor:       "FLOOR",
	HalfUp:      "HALF_UP",
	HalfDown:    "HALF_DOWN",
	HalfEven:    "HALF_EVEN",
	Unnecessary: "UNNECESSARY",
}

func (m RoundingMode) String() string {
	if int(m) < len(roundingNames) {
		return roundingNames[m]
	}
	return fmt.Sprintf("RoundingMode(%d)", uint8(m))
}

// TruncatedPart classifies the discarded fraction of a truncated result.
type TruncatedPart uint8

const (
	// Zero means the result is exact.
	Zero TruncatedPart = iota
	// LessThanHalf means 0 < fraction < 1/2.
	LessThanHalf
	// EqualToHalf means fraction == 1/2.
	EqualToHalf
	// GreaterThanHalf means 1/2 < fraction < 1.
	GreaterThanHalf
)

// IsZero returns true for Zero.
func (p TruncatedPart) IsZero() bool {
	return p == Zero
}

// Classify returns the class of r/den, where r < den.
func Classify(r, den uint64) TruncatedPart {
	if r == 0 {
		return Zero
	}
	// compare r with den-r to avoid overflowing 2*r.
	switch rest := den - r; {
	case r < rest:
		return LessThanHalf
	case r == rest:
		return EqualToHalf
	default:
		return GreaterThanHalf
	}
}

// ClassifyDigits returns the class of a decimal fraction, given its first digit,
// and whether there are nonzero digits after it.
func ClassifyDigits(first byte, sticky bool) TruncatedPart {
	switch {
	case first == 0 && !sticky:
		return Zero
	case first < 5:
		return LessThanHalf
	case first == 5 && !sticky:
		return EqualToHalf
	default:
		return GreaterThanHalf
	}
}

// Merge returns the class of a fraction p, which was computed with an even denominator,
// after adding a tail smaller than one unit of that denominator. sticky tells if the tail is nonzero.
func (p TruncatedPart) Merge(sticky bool) TruncatedPart {
	if !sticky {
		return p
	}
	switch p {
	case Zero:
		return LessThanHalf
	case EqualToHalf:
		return GreaterThanHalf
	default:
		return p
	}
}

// Increment returns the value, which must be added to a result truncated toward zero:
// -1, 0, or 1. neg is the sign of the exact result, odd tells if the truncated result is odd.
// For Unnecessary and a nonzero part the function returns decerr.RoundingRequired.
func (m RoundingMode) Increment(neg, odd bool, part TruncatedPart) (int64, error) {
	if part == Zero {
		return 0, nil
	}
	var inc bool
	switch m {
	case Up:
		inc = true
	case Down:
		inc = false
	case Ceiling:
		inc = !neg
	case Floor:
		inc = neg
	case HalfUp:
		inc = part >= EqualToHalf
	case HalfDown:
		inc = part == GreaterThanHalf
	case HalfEven:
		inc = part == GreaterThanHalf || part == EqualToHalf && odd
	default:
		return 0, decerr.RoundingRequired.New("rounding is necessary")
	}
	if !inc {
		return 0, nil
	}
	if neg {
		return -1, nil
	}
	return 1, nil
}

// DivRound returns num/den rounded according to m.
// The caller must make sure den != 0 and !(num == math.MinInt64 && den == -1).
func (m RoundingMode) DivRound(num, den int64) (int64, error) {
	q := num / den
	r := num - q*den
	if r == 0 {
		return q, nil
	}
	neg := (num < 0) != (den < 0)
	inc, err := m.Increment(neg, q&1 != 0, Classify(absUint64(r), absUint64(den)))
	if err != nil {
		return 0, err
	}
	return q + inc, nil
}

func absUint64(v int64) uint64 {
	if v < 0 {
		return ^uint64(v) + 1
	}
	return uint64(v)
}

// Policy is a combination of overflow and rounding modes.
type Policy struct {
	Overflow OverflowMode
	Rounding RoundingMode
}

var (
	// Default is the policy used when nothing else is specified: unchecked, half up.
	Default = Policy{Overflow: Unchecked, Rounding: HalfUp}
	// DefaultChecked is a checked half up policy.
	DefaultChecked = Policy{Overflow: Checked, Rounding: HalfUp}
)

// Policies returns all 16 canonical policies: unchecked ones first, then checked,
// each group in RoundingModes order.
func Policies() []Policy {
	result := make([]Policy, 0, 2*len(RoundingModes))
	for _, o := range [...]OverflowMode{Unchecked, Checked} {
		for _, r := range RoundingModes {
			result = append(result, Policy{Overflow: o, Rounding: r})
		}
	}
	return result
}

// Index returns a unique number in [0, 16) for a canonical policy.
func (p Policy) Index() int {
	return int(p.Overflow)*len(RoundingModes) + int(p.Rounding)
}

// IsValid returns true for the canonical policies.
func (p Policy) IsValid() bool {
	return p.Overflow <= Checked && p.Rounding <= Unnecessary
}

// String returns the policy key: the rounding mode name, prefixed with "CHECKED_" for checked policies.
func (p Policy) String() string {
	if p.Overflow.IsChecked() {
		return "CHECKED_" + p.Rounding.String()
	}
	return p.Rounding.String()
}

// ParsePolicy looks up a policy by its key, as returned by Policy.String.
// "UNCHECKED_" prefix is accepted as well.
func ParsePolicy(key string) (Policy, error) {
	var p Policy
	switch s := strings.ToUpper(strings.TrimSpace(key)); {
	case strings.HasPrefix(s, "CHECKED_"):
		p.Overflow, key = Checked, s[len("CHECKED_"):]
	case strings.HasPrefix(s, "UNCHECKED_"):
		key = s[len("UNCHECKED_"):]
	default:
		key = s
	}
	for i, name := range roundingNames {
		if name == key {
			p.Rounding = RoundingMode(i)
			return p, nil
		}
	}
	return Policy{}, decerr.Syntax.New("unknown truncation policy %q", key)
}
