// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Package decerr defines the error classes reported by decimal operations.
//
// Every failure is surfaced synchronously to the caller and belongs to exactly one class,
// which can be tested with Has:
//
//	if decerr.Overflow.Has(err) {
//		// the result does not fit into 64 bits
//	}
package decerr

import "github.com/zeebo/errs"

var (
	// Overflow is reported when a result does not fit into the unscaled int64
	// under a checked policy, or when a conversion source is out of range.
	Overflow = errs.Class("overflow")
	// RoundingRequired is reported by the UNNECESSARY rounding mode for inexact results.
	RoundingRequired = errs.Class("rounding necessary")
	// DivisionByZero is reported by division, inversion and remainder with a zero divisor.
	DivisionByZero = errs.Class("division by zero")
	// InvalidOperand is reported for operands outside of an operation's domain,
	// like the square root of a negative number or a NaN double.
	InvalidOperand = errs.Class("invalid operand")
	// IllegalScale is reported for scales outside of [0, 18].
	IllegalScale = errs.Class("illegal scale")
	// Syntax is reported for malformed decimal strings.
	Syntax = errs.Class("syntax")
)
