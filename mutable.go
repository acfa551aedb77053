// Copyright 2020 Aleksandr Demakin. All rights reserved.

package scaled

import (
	"github.com/avdva/scaled/arith"
	"github.com/avdva/scaled/truncation"
)

// Mutable is a decimal, which is updated in place by its methods.
// It carries its own truncation policy and remembers the first error.
// Once an operation fails, the value stays unchanged and all the following operations
// are ignored until Reset or Set is called.
//
// The zero value is 0 with DefaultPolicy. Mutable is not safe for concurrent use.
type Mutable[S Scale] struct {
	v      int64
	a      *arith.Arithmetic
	policy truncation.Policy
	err    error
}

// NewMutable returns a mutable decimal with the initial value v and DefaultPolicy.
func NewMutable[S Scale](v Decimal[S]) *Mutable[S] {
	return &Mutable[S]{v: v.v, a: Arithmetic[S](DefaultPolicy), policy: DefaultPolicy}
}

func (m *Mutable[S]) kernel() *arith.Arithmetic {
	if m.a == nil {
		m.a, m.policy = Arithmetic[S](DefaultPolicy), DefaultPolicy
	}
	return m.a
}

// Value returns the current value.
func (m *Mutable[S]) Value() Decimal[S] {
	return Decimal[S]{v: m.v}
}

// Policy returns the current truncation policy.
func (m *Mutable[S]) Policy() truncation.Policy {
	m.kernel()
	return m.policy
}

// Err returns the first error that occurred.
func (m *Mutable[S]) Err() error {
	return m.err
}

// Reset clears the error.
func (m *Mutable[S]) Reset() *Mutable[S] {
	m.err = nil
	return m
}

// Set sets the value and clears the error.
func (m *Mutable[S]) Set(v Decimal[S]) *Mutable[S] {
	m.v, m.err = v.v, nil
	return m
}

// SetPolicy changes the truncation policy for the following operations.
// An invalid policy is reported by Err.
func (m *Mutable[S]) SetPolicy(p truncation.Policy) *Mutable[S] {
	a, err := arith.For(scaleOf[S](), p)
	if err != nil {
		if m.err == nil {
			m.err = err
		}
		return m
	}
	m.a, m.policy = a, p
	return m
}

func (m *Mutable[S]) apply(f func(*arith.Arithmetic, int64) (int64, error)) *Mutable[S] {
	if m.err != nil {
		return m
	}
	v, err := f(m.kernel(), m.v)
	if err != nil {
		m.err = err
		return m
	}
	m.v = v
	return m
}

// Add sets m = m + y.
func (m *Mutable[S]) Add(y Decimal[S]) *Mutable[S] {
	return m.apply(func(a *arith.Arithmetic, v int64) (int64, error) { return a.Add(v, y.v) })
}

// Sub sets m = m - y.
func (m *Mutable[S]) Sub(y Decimal[S]) *Mutable[S] {
	return m.apply(func(a *arith.Arithmetic, v int64) (int64, error) { return a.Subtract(v, y.v) })
}

// Mul sets m = m * y.
func (m *Mutable[S]) Mul(y Decimal[S]) *Mutable[S] {
	return m.apply(func(a *arith.Arithmetic, v int64) (int64, error) { return a.Multiply(v, y.v) })
}

// Div sets m = m / y.
func (m *Mutable[S]) Div(y Decimal[S]) *Mutable[S] {
	return m.apply(func(a *arith.Arithmetic, v int64) (int64, error) { return a.Divide(v, y.v) })
}

// Square sets m = m * m.
func (m *Mutable[S]) Square() *Mutable[S] {
	return m.apply((*arith.Arithmetic).Square)
}

// Sqrt sets m to its square root.
func (m *Mutable[S]) Sqrt() *Mutable[S] {
	return m.apply((*arith.Arithmetic).Sqrt)
}

// Pow sets m = m^n.
func (m *Mutable[S]) Pow(n int) *Mutable[S] {
	return m.apply(func(a *arith.Arithmetic, v int64) (int64, error) { return a.Pow(v, n) })
}

// Neg sets m = -m.
func (m *Mutable[S]) Neg() *Mutable[S] {
	return m.apply((*arith.Arithmetic).Negate)
}

// Abs sets m = |m|.
func (m *Mutable[S]) Abs() *Mutable[S] {
	return m.apply((*arith.Arithmetic).Abs)
}

// Round rounds m to the given number of digits after the decimal point.
func (m *Mutable[S]) Round(precision int) *Mutable[S] {
	return m.apply(func(a *arith.Arithmetic, v int64) (int64, error) { return a.Round(v, precision) })
}

// String returns the current value as a string.
func (m *Mutable[S]) String() string {
	return m.kernel().ToString(m.v)
}
