// Copyright 2020 Aleksandr Demakin. All rights reserved.

package wide

import "math/bits"

// Sqrt128 returns the integer square root of n = hi<<64 | lo and the remainder n - root*root.
// hi must be below 1<<62, so that the remainder fits into 64 bits.
func Sqrt128(hi, lo uint64) (root, rem uint64) {
	var bh, bl uint64 // the highest power of four <= n
	switch {
	case hi != 0:
		bh = 1 << ((bits.Len64(hi) - 1) &^ 1)
	case lo != 0:
		bl = 1 << ((bits.Len64(lo) - 1) &^ 1)
	default:
		return 0, 0
	}
	nh, nl := hi, lo
	var rh, rl uint64
	for bh|bl != 0 {
		th, tl := add128(rh, rl, bh, bl)
		rh, rl = rsh128(rh, rl, 1)
		if nh > th || nh == th && nl >= tl {
			nh, nl = sub128(nh, nl, th, tl)
			rh, rl = add128(rh, rl, bh, bl)
		}
		bh, bl = rsh128(bh, bl, 2)
	}
	return rl, nl
}

func add128(xh, xl, yh, yl uint64) (uint64, uint64) {
	lo, c := bits.Add64(xl, yl, 0)
	hi, _ := bits.Add64(xh, yh, c)
	return hi, lo
}

func sub128(xh, xl, yh, yl uint64) (uint64, uint64) {
	lo, b := bits.Sub64(xl, yl, 0)
	hi, _ := bits.Sub64(xh, yh, b)
	return hi, lo
}

func rsh128(hi, lo uint64, n uint) (uint64, uint64) {
	return hi >> n, lo>>n | hi<<(64-n)
}
