// Copyright 2020 Aleksandr Demakin. All rights reserved.

package scaled

import (
	"github.com/shopspring/decimal"

	"github.com/avdva/scaled/arith"
	"github.com/avdva/scaled/truncation"
)

// Decimal is an immutable fixed-point number with scale S.
// The zero value is 0.
type Decimal[S Scale] struct {
	v int64
}

func defaultArith[S Scale]() *arith.Arithmetic {
	return Arithmetic[S](DefaultPolicy)
}

// New returns a decimal for the given unscaled value, so that New[S2](150) is 1.50.
func New[S Scale](unscaled int64) Decimal[S] {
	return Decimal[S]{v: unscaled}
}

// FromInt64 returns the decimal value of an integer.
func FromInt64[S Scale](n int64) (Decimal[S], error) {
	v, err := defaultArith[S]().FromLong(n)
	return Decimal[S]{v: v}, err
}

// FromFloat64 returns the value of f, rounded to the scale S.
func FromFloat64[S Scale](f float64) (Decimal[S], error) {
	v, err := defaultArith[S]().FromDouble(f)
	return Decimal[S]{v: v}, err
}

// Parse parses a decimal string, see arith.Arithmetic.FromString for the format.
func Parse[S Scale](s string) (Decimal[S], error) {
	v, err := defaultArith[S]().FromString(s)
	return Decimal[S]{v: v}, err
}

// MustParse is like Parse, but panics on errors.
func MustParse[S Scale](s string) Decimal[S] {
	d, err := Parse[S](s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromDecimal converts a shopspring decimal, rounding it to the scale S.
func FromDecimal[S Scale](d decimal.Decimal) (Decimal[S], error) {
	return Parse[S](d.String())
}

// ToDecimal returns d as a shopspring decimal. The conversion is exact.
func (d Decimal[S]) ToDecimal() decimal.Decimal {
	return decimal.New(d.v, -int32(scaleOf[S]()))
}

// Unscaled returns the underlying integer.
func (d Decimal[S]) Unscaled() int64 {
	return d.v
}

// Scale returns the number of digits after the decimal point.
func (d Decimal[S]) Scale() int {
	return scaleOf[S]()
}

// IsZero returns true if d == 0.
func (d Decimal[S]) IsZero() bool {
	return d.v == 0
}

// Sign returns -1, 0, or 1.
func (d Decimal[S]) Sign() int {
	return defaultArith[S]().Signum(d.v)
}

// Cmp compares two values and returns -1 if d < other, 0 if d == other, 1 if d > other.
func (d Decimal[S]) Cmp(other Decimal[S]) int {
	return defaultArith[S]().Compare(d.v, other.v)
}

// Equal returns true if d == other.
func (d Decimal[S]) Equal(other Decimal[S]) bool {
	return d.v == other.v
}

func (d Decimal[S]) apply(f func(*arith.Arithmetic, int64) (int64, error)) (Decimal[S], error) {
	v, err := f(defaultArith[S](), d.v)
	if err != nil {
		return Decimal[S]{}, err
	}
	return Decimal[S]{v: v}, nil
}

// Add returns d + other.
func (d Decimal[S]) Add(other Decimal[S]) (Decimal[S], error) {
	return d.apply(func(a *arith.Arithmetic, v int64) (int64, error) { return a.Add(v, other.v) })
}

// Sub returns d - other.
func (d Decimal[S]) Sub(other Decimal[S]) (Decimal[S], error) {
	return d.apply(func(a *arith.Arithmetic, v int64) (int64, error) { return a.Subtract(v, other.v) })
}

// Mul returns d * other.
func (d Decimal[S]) Mul(other Decimal[S]) (Decimal[S], error) {
	return d.apply(func(a *arith.Arithmetic, v int64) (int64, error) { return a.Multiply(v, other.v) })
}

// Div returns d / other.
func (d Decimal[S]) Div(other Decimal[S]) (Decimal[S], error) {
	return d.apply(func(a *arith.Arithmetic, v int64) (int64, error) { return a.Divide(v, other.v) })
}

// Square returns d * d.
func (d Decimal[S]) Square() (Decimal[S], error) {
	return d.apply((*arith.Arithmetic).Square)
}

// Sqrt returns the square root of d.
func (d Decimal[S]) Sqrt() (Decimal[S], error) {
	return d.apply((*arith.Arithmetic).Sqrt)
}

// Pow returns d^n.
func (d Decimal[S]) Pow(n int) (Decimal[S], error) {
	return d.apply(func(a *arith.Arithmetic, v int64) (int64, error) { return a.Pow(v, n) })
}

// Neg returns -d.
func (d Decimal[S]) Neg() (Decimal[S], error) {
	return d.apply((*arith.Arithmetic).Negate)
}

// Abs returns |d|.
func (d Decimal[S]) Abs() (Decimal[S], error) {
	return d.apply((*arith.Arithmetic).Abs)
}

// Round rounds d to the given number of digits after the decimal point.
func (d Decimal[S]) Round(precision int) (Decimal[S], error) {
	return d.apply(func(a *arith.Arithmetic, v int64) (int64, error) { return a.Round(v, precision) })
}

// Int64 returns the integer part of d, rounded according to DefaultPolicy.
func (d Decimal[S]) Int64() (int64, error) {
	return defaultArith[S]().ToLong(d.v)
}

// Float64 returns the float64 value nearest to d.
func (d Decimal[S]) Float64() float64 {
	f, _ := Arithmetic[S](truncation.Policy{Rounding: truncation.HalfEven}).ToDouble(d.v)
	return f
}

// String returns d with exactly Scale() digits after the decimal point.
func (d Decimal[S]) String() string {
	return defaultArith[S]().ToString(d.v)
}
