// Copyright 2020 Aleksandr Demakin. All rights reserved.

package arith

import (
	"fmt"
	"math"
	"math/big"
	"math/rand"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/errs"

	"github.com/avdva/scaled/decerr"
	"github.com/avdva/scaled/truncation"
)

// The tests in this file compare the results with exact computations on big numbers.

const samples = 150

var mask64 = new(big.Int).SetUint64(math.MaxUint64)

func pow10Big(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

func randomInt64(rnd *rand.Rand) int64 {
	switch rnd.Intn(5) {
	case 0:
		edges := []int64{0, 1, -1, 5, -5, math.MaxInt64, math.MinInt64, math.MinInt64 + 1,
			1000000000000000000, -1000000000000000000, 4611686018427387904}
		return edges[rnd.Intn(len(edges))]
	case 1:
		return rnd.Int63n(2001) - 1000
	default:
		v := rnd.Int63() >> uint(rnd.Intn(63))
		if rnd.Intn(2) == 0 {
			v = -v - int64(rnd.Intn(2))
		}
		return v
	}
}

// outcome is the expected result of an operation. If errs is not empty,
// the operation must fail with one of the error classes.
type outcome struct {
	v    int64
	errs []*errs.Class
}

func (o outcome) check(t *testing.T, got int64, err error, msg string) {
	t.Helper()
	if len(o.errs) == 0 {
		require.NoError(t, err, msg)
		require.Equal(t, o.v, got, msg)
		return
	}
	require.Error(t, err, msg)
	for _, c := range o.errs {
		if c.Has(err) {
			return
		}
	}
	require.Fail(t, "unexpected error class", "%s: %v", msg, err)
}

// roundPart rounds a magnitude q truncated toward zero. half is the comparison
// of the truncated fraction with 1/2, exact tells whether the fraction is zero.
func roundPart(neg bool, q *big.Int, half int, exact bool, mode truncation.RoundingMode) (*big.Int, bool) {
	if exact {
		return q, true
	}
	var away bool
	switch mode {
	case truncation.Up:
		away = true
	case truncation.Down:
	case truncation.Ceiling:
		away = !neg
	case truncation.Floor:
		away = neg
	case truncation.HalfUp:
		away = half >= 0
	case truncation.HalfDown:
		away = half > 0
	case truncation.HalfEven:
		away = half > 0 || half == 0 && q.Bit(0) == 1
	default:
		return q, false
	}
	if away {
		return new(big.Int).Add(q, bigOne), true
	}
	return q, true
}

// roundQuo returns num/den rounded according to the mode.
func roundQuo(num, den *big.Int, mode truncation.RoundingMode) (*big.Int, bool) {
	neg := num.Sign()*den.Sign() < 0
	q, r := new(big.Int).QuoRem(new(big.Int).Abs(num), new(big.Int).Abs(den), new(big.Int))
	half := new(big.Int).Lsh(r, 1).Cmp(new(big.Int).Abs(den))
	q, ok := roundPart(neg, q, half, r.Sign() == 0, mode)
	if neg {
		q = new(big.Int).Neg(q)
	}
	return q, ok
}

// expectInt converts an exact rounded result to the expected outcome.
func expectInt(q *big.Int, exact bool, p truncation.Policy, strict bool) outcome {
	var result outcome
	if !exact {
		result.errs = append(result.errs, &decerr.RoundingRequired)
	}
	if !q.IsInt64() && (strict || p.Overflow.IsChecked()) {
		result.errs = append(result.errs, &decerr.Overflow)
	}
	if len(result.errs) > 0 {
		return result
	}
	if q.IsInt64() {
		result.v = q.Int64()
	} else {
		result.v = int64(new(big.Int).And(q, mask64).Uint64())
	}
	return result
}

func expectQuo(num, den *big.Int, p truncation.Policy, strict bool) outcome {
	q, exact := roundQuo(num, den, p.Rounding)
	return expectInt(q, exact, p, strict)
}

func forAll(t *testing.T, f func(t *testing.T, a *Arithmetic, rnd *rand.Rand)) {
	for s := 0; s <= 18; s++ {
		for _, p := range truncation.Policies() {
			a := MustFor(s, p)
			t.Run(fmt.Sprintf("%d_%v", s, p), func(t *testing.T) {
				f(t, a, rand.New(rand.NewSource(int64(s*100+p.Index()))))
			})
		}
	}
}

func TestMultiplyOracle(t *testing.T) {
	forAll(t, func(t *testing.T, a *Arithmetic, rnd *rand.Rand) {
		f := pow10Big(a.Scale())
		for i := 0; i < samples; i++ {
			x, y := randomInt64(rnd), randomInt64(rnd)
			num := new(big.Int).Mul(big.NewInt(x), big.NewInt(y))
			got, err := a.Multiply(x, y)
			expectQuo(num, f, a.Policy(), false).check(t, got, err, fmt.Sprintf("%d * %d", x, y))
			got, err = a.Square(x)
			num = new(big.Int).Mul(big.NewInt(x), big.NewInt(x))
			expectQuo(num, f, a.Policy(), false).check(t, got, err, fmt.Sprintf("%d^2", x))
		}
	})
}

func TestDivideOracle(t *testing.T) {
	forAll(t, func(t *testing.T, a *Arithmetic, rnd *rand.Rand) {
		f := pow10Big(a.Scale())
		for i := 0; i < samples; i++ {
			x, y := randomInt64(rnd), randomInt64(rnd)
			if y == 0 {
				continue
			}
			num := new(big.Int).Mul(big.NewInt(x), f)
			got, err := a.Divide(x, y)
			expectQuo(num, big.NewInt(y), a.Policy(), false).check(t, got, err, fmt.Sprintf("%d / %d", x, y))
			got, err = a.DivideByLong(x, y)
			expectQuo(big.NewInt(x), big.NewInt(y), a.Policy(), false).check(t, got, err, fmt.Sprintf("%d / long %d", x, y))
		}
	})
}

func TestSqrtOracle(t *testing.T) {
	forAll(t, func(t *testing.T, a *Arithmetic, rnd *rand.Rand) {
		f := pow10Big(a.Scale())
		for i := 0; i < samples; i++ {
			x := randomInt64(rnd)
			if x < 0 {
				x = -(x + 1)
			}
			n := new(big.Int).Mul(big.NewInt(x), f)
			r := new(big.Int).Sqrt(n)
			exact := new(big.Int).Mul(r, r).Cmp(n) == 0
			// sqrt(n) >= r + 1/2 iff floor(sqrt(4n)) >= 2r + 1.
			half := -1
			if new(big.Int).Sqrt(new(big.Int).Lsh(n, 2)).Cmp(new(big.Int).Add(new(big.Int).Lsh(r, 1), bigOne)) >= 0 {
				half = 1
			}
			q, ok := roundPart(false, r, half, exact, a.Policy().Rounding)
			got, err := a.Sqrt(x)
			expectInt(q, ok, a.Policy(), false).check(t, got, err, fmt.Sprintf("sqrt(%d)", x))
		}
	})
}

// powBySquaring raises x to n > 0 with the same steps as Pow, rounding every product.
func powBySquaring(a *Arithmetic, x int64, n int) (int64, error) {
	result, base := a.One(), x
	var err error
	for ; ; n >>= 1 {
		if n&1 != 0 {
			if result, err = a.Multiply(result, base); err != nil {
				return 0, err
			}
		}
		if n == 1 {
			return result, nil
		}
		if base, err = a.Square(base); err != nil {
			return 0, err
		}
	}
}

var errorClasses = []*errs.Class{&decerr.Overflow, &decerr.RoundingRequired, &decerr.DivisionByZero, &decerr.InvalidOperand}

// expectInversePow returns the expected outcome of x^-n.
func expectInversePow(x int64, n int, p truncation.Policy, s int) outcome {
	num, den := pow10Big(s*(n+1)), new(big.Int).Exp(big.NewInt(x), big.NewInt(int64(n)), nil)
	if q := new(big.Int).Quo(num, new(big.Int).Abs(den)); !q.IsUint64() {
		return outcome{errs: []*errs.Class{&decerr.Overflow}}
	}
	return expectQuo(num, den, p, false)
}

// randomNearOne returns a nonzero value with s or s+1 decimal digits.
func randomNearOne(rnd *rand.Rand, s int) int64 {
	lo, hi := int64(1), int64(math.MaxInt64)
	if s > 0 {
		lo = int64(pow10Big(s - 1).Uint64())
	}
	if s < 18 {
		hi = int64(pow10Big(s + 1).Uint64())
	}
	v := lo + rnd.Int63n(hi-lo)
	if rnd.Intn(2) == 0 {
		v = -v
	}
	return v
}

func TestPowOracle(t *testing.T) {
	forAll(t, func(t *testing.T, a *Arithmetic, rnd *rand.Rand) {
		s := a.Scale()
		for i := 0; i < samples; i++ {
			x, n := randomInt64(rnd), rnd.Intn(20)+1
			msg := fmt.Sprintf("%d^%d", x, n)
			got, err := a.Pow(x, n)
			want, wantErr := powBySquaring(a, x, n)
			if wantErr != nil {
				require.Error(t, err, msg)
				for _, c := range errorClasses {
					require.Equal(t, c.Has(wantErr), c.Has(err), "%s: %v", msg, err)
				}
			} else {
				require.NoError(t, err, msg)
				require.Equal(t, want, got, msg)
			}
			// an exact power is never affected by intermediate rounding.
			q, r := new(big.Int).QuoRem(new(big.Int).Exp(big.NewInt(x), big.NewInt(int64(n)), nil), pow10Big(s*(n-1)), new(big.Int))
			if r.Sign() == 0 && q.IsInt64() {
				require.NoError(t, err, msg)
				require.Equal(t, q.Int64(), got, msg)
			}

			if x == 0 {
				continue
			}
			n = rnd.Intn(30) + 1
			got, err = a.Pow(x, -n)
			expectInversePow(x, n, a.Policy(), s).check(t, got, err, fmt.Sprintf("%d^-%d", x, n))
		}
		for i := 0; i < samples/10; i++ {
			x, n := randomNearOne(rnd, s), rnd.Intn(236)+65
			got, err := a.Pow(x, -n)
			expectInversePow(x, n, a.Policy(), s).check(t, got, err, fmt.Sprintf("%d^-%d", x, n))
		}
	})
}

func TestPowerOf10Oracle(t *testing.T) {
	forAll(t, func(t *testing.T, a *Arithmetic, rnd *rand.Rand) {
		for i := 0; i < samples; i++ {
			x, n := randomInt64(rnd), rnd.Intn(45)-5
			got, err := a.DivideByPowerOf10(x, n)
			var want outcome
			if n >= 0 {
				want = expectQuo(big.NewInt(x), pow10Big(n), a.Policy(), false)
			} else {
				want = expectInt(new(big.Int).Mul(big.NewInt(x), pow10Big(-n)), true, a.Policy(), false)
			}
			want.check(t, got, err, fmt.Sprintf("%d / 10^%d", x, n))

			precision := rnd.Intn(55) - 37
			got, err = a.Round(x, precision)
			if k := a.Scale() - precision; k <= 0 {
				want = outcome{v: x}
			} else {
				d := pow10Big(k)
				q, exact := roundQuo(big.NewInt(x), d, a.Policy().Rounding)
				want = expectInt(q.Mul(q, d), exact, a.Policy(), false)
			}
			want.check(t, got, err, fmt.Sprintf("round(%d, %d)", x, precision))
		}
	})
}

func TestToDoubleOracle(t *testing.T) {
	forAll(t, func(t *testing.T, a *Arithmetic, rnd *rand.Rand) {
		f := pow10Big(a.Scale())
		for i := 0; i < samples; i++ {
			x := randomInt64(rnd)
			got, err := a.ToDouble(x)
			want, ok := expectDouble(new(big.Rat).SetFrac(big.NewInt(x), f), a.Policy().Rounding)
			msg := fmt.Sprintf("double(%d)", x)
			if !ok {
				require.True(t, decerr.RoundingRequired.Has(err), msg)
				continue
			}
			require.NoError(t, err, msg)
			require.Equal(t, want, got, msg)
		}
	})
}

func expectDouble(r *big.Rat, mode truncation.RoundingMode) (float64, bool) {
	lo, _ := new(big.Float).SetPrec(53).SetMode(big.ToZero).SetRat(r).Float64()
	hi, _ := new(big.Float).SetPrec(53).SetMode(big.AwayFromZero).SetRat(r).Float64()
	if lo == hi {
		return lo, true
	}
	neg := r.Sign() < 0
	switch mode {
	case truncation.Up:
		return hi, true
	case truncation.Down:
		return lo, true
	case truncation.Ceiling:
		if neg {
			return lo, true
		}
		return hi, true
	case truncation.Floor:
		if neg {
			return hi, true
		}
		return lo, true
	case truncation.Unnecessary:
		return 0, false
	}
	dlo := new(big.Rat).Sub(r, new(big.Rat).SetFloat64(lo))
	dhi := new(big.Rat).Sub(new(big.Rat).SetFloat64(hi), r)
	switch dlo.Abs(dlo).Cmp(dhi.Abs(dhi)) {
	case -1:
		return lo, true
	case 1:
		return hi, true
	}
	switch mode {
	case truncation.HalfUp:
		return hi, true
	case truncation.HalfDown:
		return lo, true
	}
	if math.Float64bits(lo)&1 == 0 {
		return lo, true
	}
	return hi, true
}

func randomDouble(rnd *rand.Rand) float64 {
	switch rnd.Intn(4) {
	case 0:
		values := []float64{0.1, 0.115, 0.125, -0.125, 1e-18, 5e-19, -5e-19, 1.0000000000000002,
			123456.789, 9.223372036854775e18, -9.223372036854775808e18, math.SmallestNonzeroFloat64, 1e300}
		return values[rnd.Intn(len(values))]
	case 1:
		for {
			if v := math.Float64frombits(rnd.Uint64()); !math.IsNaN(v) && !math.IsInf(v, 0) {
				return v
			}
		}
	default:
		return float64(randomInt64(rnd)) / math.Pow10(rnd.Intn(25))
	}
}

func TestFromDoubleOracle(t *testing.T) {
	forAll(t, func(t *testing.T, a *Arithmetic, rnd *rand.Rand) {
		f := new(big.Rat).SetInt(pow10Big(a.Scale()))
		for i := 0; i < samples; i++ {
			v := randomDouble(rnd)
			r := new(big.Rat).SetFloat64(v)
			r.Mul(r, f)
			got, err := a.FromDouble(v)
			expectQuo(r.Num(), r.Denom(), a.Policy(), true).check(t, got, err, fmt.Sprintf("from double %v", v))
		}
	})
}

func randomDigits(rnd *rand.Rand, maxLen int) string {
	var b strings.Builder
	n := rnd.Intn(maxLen + 1)
	for i := 0; i < n; i++ {
		switch rnd.Intn(6) {
		case 0:
			b.WriteByte('0')
		case 1:
			b.WriteByte('9')
		default:
			b.WriteByte(byte('0' + rnd.Intn(10)))
		}
	}
	return b.String()
}

func TestFromStringOracle(t *testing.T) {
	forAll(t, func(t *testing.T, a *Arithmetic, rnd *rand.Rand) {
		for i := 0; i < samples; i++ {
			ip, fp := randomDigits(rnd, 22), randomDigits(rnd, 22)
			if ip+fp == "" {
				ip = "0"
			}
			str, exp := ip, 0
			if fp != "" || rnd.Intn(2) == 0 {
				str += "." + fp
			}
			if rnd.Intn(3) == 0 {
				exp = rnd.Intn(61) - 30
				str += fmt.Sprintf("e%d", exp)
			}
			neg := rnd.Intn(2) == 0
			if neg {
				str = "-" + str
			}
			num, _ := new(big.Int).SetString(ip+fp, 10)
			if neg {
				num.Neg(num)
			}
			den := big.NewInt(1)
			if e := a.Scale() + exp - len(fp); e >= 0 {
				num.Mul(num, pow10Big(e))
			} else {
				den = pow10Big(-e)
			}
			got, err := a.FromString(str)
			expectQuo(num, den, a.Policy(), true).check(t, got, err, str)
		}
	})
}

func TestStringRoundTrip(t *testing.T) {
	forAll(t, func(t *testing.T, a *Arithmetic, rnd *rand.Rand) {
		for i := 0; i < samples; i++ {
			x := randomInt64(rnd)
			str := a.ToString(x)
			require.Equal(t, new(big.Rat).SetFrac(big.NewInt(x), pow10Big(a.Scale())).FloatString(a.Scale()), str)
			got, err := a.FromString(str)
			require.NoError(t, err, str)
			require.Equal(t, x, got, str)
		}
	})
}

func TestShopspringRounding(t *testing.T) {
	policies := []truncation.Policy{
		{Overflow: truncation.Checked, Rounding: truncation.HalfUp},
		{Overflow: truncation.Checked, Rounding: truncation.HalfEven},
	}
	for s := 0; s <= 18; s++ {
		for _, p := range policies {
			a, one := MustFor(s, p), decimal.New(1, int32(s))
			rnd := rand.New(rand.NewSource(int64(s)))
			for i := 0; i < samples; i++ {
				x, y := randomInt64(rnd), randomInt64(rnd)
				dx, dy := decimal.New(x, -int32(s)), decimal.New(y, -int32(s))
				got, err := a.Multiply(x, y)
				if err == nil {
					want := dx.Mul(dy)
					if p.Rounding == truncation.HalfUp {
						want = want.Round(int32(s))
					} else {
						want = want.RoundBank(int32(s))
					}
					require.Equal(t, want.Mul(one).IntPart(), got, "%v: %d * %d", p, x, y)
				}
				if y == 0 || p.Rounding != truncation.HalfUp {
					continue
				}
				got, err = a.Divide(x, y)
				if err == nil {
					want := dx.DivRound(dy, int32(s))
					require.Equal(t, want.Mul(one).IntPart(), got, "%v: %d / %d", p, x, y)
				}
			}
		}
	}
}
