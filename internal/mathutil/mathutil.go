// Copyright 2020 Aleksandr Demakin. All rights reserved.

package mathutil

import (
	"math/bits"
	"unsafe"

	"golang.org/x/exp/constraints"
)

var (
	decimalFactorTable = [...]uint64{ // up to 1e19
		1, 10, 100, 1000, 10000,
		100000, 1000000, 10000000, 100000000, 1000000000, 10000000000,
		100000000000, 1000000000000, 10000000000000, 100000000000000,
		1000000000000000, 10000000000000000, 100000000000000000,
		1000000000000000000, 10000000000000000000,
	}

	digitsHelper = [...]int{
		0, 0, 0, 0, 1, 1, 1, 2, 2, 2,
		3, 3, 3, 3, 4, 4, 4, 5, 5, 5,
		6, 6, 6, 6, 7, 7, 7, 8, 8, 8,
		9, 9, 9, 9, 10, 10, 10, 11, 11, 11,
		12, 12, 12, 12, 13, 13, 13, 14, 14, 14,
		15, 15, 15, 15, 16, 16, 16, 17, 17, 17,
		18, 18, 18, 18, 19,
	}
)

// MaxPow10 is the largest n such that 10^n fits into a uint64.
const MaxPow10 = 19

// Pow10 returns 10^pow, or 0 if it does not fit into a uint64.
func Pow10(pow int) uint64 {
	if pow < 0 || pow >= len(decimalFactorTable) {
		return 0
	}
	return decimalFactorTable[pow]
}

func BinaryDigits(value uint64) int {
	return int(8*unsafe.Sizeof(uint64(0))) - bits.LeadingZeros64(value)
}

// DecimalDigits returns the number of decimal digits in 'value'.
// see https://stackoverflow.com/a/25934909
func DecimalDigits(value uint64) int {
	if value == 0 {
		return 1
	}

	digits := digitsHelper[BinaryDigits(value)]
	if value >= decimalFactorTable[digits] {
		digits++
	}
	return digits
}

// Abs returns |val|. For the minimum value of T the result is the value itself.
func Abs[T constraints.Signed](val T) T {
	mask := val >> (unsafe.Sizeof(val)*8 - 1)
	return (val + mask) ^ mask
}

// Sign returns -1, 0 or 1 for negative, zero and positive values.
func Sign[T constraints.Signed](v T) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// UnsignedAbs returns the magnitude of v. math.MinInt64 yields 1<<63.
func UnsignedAbs(v int64) uint64 {
	if v < 0 {
		return ^uint64(v) + 1
	}
	return uint64(v)
}

// SameSign returns true if a and b are both negative or both nonnegative.
func SameSign(a, b int64) bool {
	return (a>>63 ^ b>>63) == 0
}
