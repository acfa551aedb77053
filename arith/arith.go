// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Package arith implements decimal arithmetic on unscaled int64 values.
//
// An unscaled value u at scale s represents the number u*10^-s.
// An Arithmetic is bound to one scale and one truncation policy, and all its operations
// accept and return unscaled values of that scale. Operations either return the exact result,
// rounded according to the policy, or an error; they never return a partially computed value.
//
// Arithmetic instances are immutable and safe for concurrent use.
package arith

import (
	"math"

	"github.com/avdva/scaled/decerr"
	"github.com/avdva/scaled/internal/mathutil"
	"github.com/avdva/scaled/scale"
	"github.com/avdva/scaled/truncation"
)

const policyCount = 2 * len(truncation.RoundingModes)

// Arithmetic performs decimal operations for one scale and one truncation policy.
type Arithmetic struct {
	m      *scale.Metrics
	policy truncation.Policy
}

var table = func() (result [scale.Count][policyCount]Arithmetic) {
	for _, m := range scale.All() {
		for _, p := range truncation.Policies() {
			result[m.Scale()][p.Index()] = Arithmetic{m: m, policy: p}
		}
	}
	return result
}()

// For returns the arithmetic for the given scale and policy.
// Returns an error if the scale is outside of [0, scale.MaxScale], or the policy is not valid.
func For(s int, p truncation.Policy) (*Arithmetic, error) {
	if _, err := scale.ForScale(s); err != nil {
		return nil, err
	}
	if !p.IsValid() {
		return nil, decerr.InvalidOperand.New("invalid truncation policy %d/%d", p.Overflow, p.Rounding)
	}
	return &table[s][p.Index()], nil
}

// MustFor is like For, but panics on errors.
func MustFor(s int, p truncation.Policy) *Arithmetic {
	a, err := For(s, p)
	if err != nil {
		panic(err)
	}
	return a
}

// Metrics returns the scale metrics of a.
func (a *Arithmetic) Metrics() *scale.Metrics {
	return a.m
}

// Scale returns the number of digits after the decimal point.
func (a *Arithmetic) Scale() int {
	return a.m.Scale()
}

// Policy returns the truncation policy of a.
func (a *Arithmetic) Policy() truncation.Policy {
	return a.policy
}

// WithPolicy returns the arithmetic for the same scale and another policy.
func (a *Arithmetic) WithPolicy(p truncation.Policy) (*Arithmetic, error) {
	return For(a.m.Scale(), p)
}

// One returns the unscaled representation of 1.
func (a *Arithmetic) One() int64 {
	return a.m.Factor()
}

func (a *Arithmetic) factor() uint64 {
	return uint64(a.m.Factor())
}

// round adds the rounding increment to a magnitude q, truncated toward zero.
// fits tells whether the truncated result fits into 64 bits.
func (a *Arithmetic) round(neg bool, q uint64, fits bool, part truncation.TruncatedPart) (uint64, bool, error) {
	inc, err := a.policy.Rounding.Increment(neg, q&1 != 0, part)
	if err != nil {
		return 0, false, err
	}
	if inc != 0 {
		q++
		if q == 0 {
			fits = false
		}
	}
	return q, fits, nil
}

// narrow converts a magnitude to a signed value according to the overflow mode.
// In unchecked mode the lower 64 bits of the result are returned.
func (a *Arithmetic) narrow(op string, neg bool, q uint64, fits bool) (int64, error) {
	v, ok := toInt64(neg, q, fits)
	if !ok && a.policy.Overflow.IsChecked() {
		return 0, decerr.Overflow.New("%s: result does not fit into 64 bits at %v", op, a.m)
	}
	return v, nil
}

// finish rounds and narrows a truncated magnitude.
func (a *Arithmetic) finish(op string, neg bool, q uint64, fits bool, part truncation.TruncatedPart) (int64, error) {
	q, fits, err := a.round(neg, q, fits, part)
	if err != nil {
		return 0, err
	}
	return a.narrow(op, neg, q, fits)
}

// finishStrict is like finish, but reports overflow regardless of the overflow mode.
func (a *Arithmetic) finishStrict(op string, neg bool, q uint64, fits bool, part truncation.TruncatedPart) (int64, error) {
	q, fits, err := a.round(neg, q, fits, part)
	if err != nil {
		return 0, err
	}
	v, ok := toInt64(neg, q, fits)
	if !ok {
		return 0, decerr.Overflow.New("%s: value is out of range at %v", op, a.m)
	}
	return v, nil
}

func toInt64(neg bool, q uint64, fits bool) (int64, bool) {
	ok := fits && (q < 1<<63 || neg && q == 1<<63)
	if neg {
		return -int64(q), ok
	}
	return int64(q), ok
}

// Add returns x + y.
func (a *Arithmetic) Add(x, y int64) (int64, error) {
	sum := x + y
	if a.policy.Overflow.IsChecked() && (x^sum)&(y^sum) < 0 {
		return 0, decerr.Overflow.New("add: %d + %d", x, y)
	}
	return sum, nil
}

// Subtract returns x - y.
func (a *Arithmetic) Subtract(x, y int64) (int64, error) {
	diff := x - y
	if a.policy.Overflow.IsChecked() && (x^y)&(x^diff) < 0 {
		return 0, decerr.Overflow.New("subtract: %d - %d", x, y)
	}
	return diff, nil
}

// AddLong returns x + n, where n is an integer.
func (a *Arithmetic) AddLong(x, n int64) (int64, error) {
	y, err := a.FromLong(n)
	if err != nil {
		return 0, err
	}
	return a.Add(x, y)
}

// SubtractLong returns x - n, where n is an integer.
func (a *Arithmetic) SubtractLong(x, n int64) (int64, error) {
	y, err := a.FromLong(n)
	if err != nil {
		return 0, err
	}
	return a.Subtract(x, y)
}

// Negate returns -x.
func (a *Arithmetic) Negate(x int64) (int64, error) {
	if x == math.MinInt64 && a.policy.Overflow.IsChecked() {
		return 0, decerr.Overflow.New("negate: %d", x)
	}
	return -x, nil
}

// Abs returns |x|.
func (a *Arithmetic) Abs(x int64) (int64, error) {
	v := mathutil.Abs(x)
	if v < 0 && a.policy.Overflow.IsChecked() {
		return 0, decerr.Overflow.New("abs: %d", x)
	}
	return v, nil
}

// Signum returns -1, 0, or 1 for negative, zero and positive values.
func (a *Arithmetic) Signum(x int64) int {
	return mathutil.Sign(x)
}

// Compare returns -1 if x < y, 0 if x == y, 1 if x > y.
func (a *Arithmetic) Compare(x, y int64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// Avg returns (x + y) / 2, rounded. The result never overflows.
func (a *Arithmetic) Avg(x, y int64) (int64, error) {
	sum := x>>1 + y>>1
	switch x&1 + y&1 {
	case 0:
		return sum, nil
	case 2:
		return sum + 1, nil
	}
	// the exact result is sum + 1/2.
	if sum >= 0 {
		inc, err := a.policy.Rounding.Increment(false, sum&1 != 0, truncation.EqualToHalf)
		return sum + inc, err
	}
	t := sum + 1 // truncated toward zero
	inc, err := a.policy.Rounding.Increment(true, t&1 != 0, truncation.EqualToHalf)
	if err != nil {
		return 0, err
	}
	return t + inc, nil
}
