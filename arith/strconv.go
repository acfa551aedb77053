// Copyright 2020 Aleksandr Demakin. All rights reserved.

package arith

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/avdva/scaled/decerr"
	"github.com/avdva/scaled/internal/mathutil"
	"github.com/avdva/scaled/internal/wide"
	"github.com/avdva/scaled/scale"
	"github.com/avdva/scaled/truncation"
)

const (
	delim = '.'
	// expLimit saturates decimal exponents. Values beyond it are out of range for any scale.
	expLimit = 1 << 40
)

type posError struct {
	pos int
	err string
}

func newPosError(err string, pos int) *posError {
	return &posError{err: err, pos: pos}
}

func (pe posError) Error() string {
	return pe.err + fmt.Sprintf(" at pos %d", pe.pos)
}

func addPosErrorOffset(err error, offset int) error {
	var pe *posError
	if !errors.As(err, &pe) { // try to locate error position.
		return err
	}
	pe.pos += offset
	return pe
}

// FromString parses a decimal string of the form [+|-]digits[.digits][(e|E)[+|-]digits],
// optionally surrounded by spaces and double quotes, rounding extra fraction digits.
// Malformed input is reported as decerr.Syntax, values out of range as decerr.Overflow.
func (a *Arithmetic) FromString(str string) (int64, error) {
	s, offset, neg := prepareString(str)
	if len(s) == 0 {
		return 0, decerr.Syntax.New("empty input")
	}
	digits, e, err := splitDecimal(s)
	if err != nil {
		// add what we've trimmed before and add +1 to the offset to start indices from 1.
		return 0, decerr.Syntax.Wrap(fmt.Errorf("parsing %q failed: %w", str, addPosErrorOffset(err, offset+1)))
	}
	return a.fromDigits(neg, digits, e+int64(a.m.Scale()))
}

// fromDigits returns digits*10^shift, where digits have no leading zeros.
func (a *Arithmetic) fromDigits(neg bool, digits string, shift int64) (int64, error) {
	if len(digits) == 0 {
		return 0, nil
	}
	part := truncation.Zero
	if shift < 0 {
		var first byte
		dropped := digits
		switch keep := int64(len(digits)) + shift; {
		case keep < 0:
			digits = ""
		default:
			digits, dropped = digits[:keep], digits[keep:]
			first, dropped = dropped[0]-'0', dropped[1:]
		}
		part = truncation.ClassifyDigits(first, strings.TrimRight(dropped, "0") != "")
		shift = 0
	}
	if int64(len(digits))+shift > int64(mathutil.MaxPow10) {
		return 0, decerr.Overflow.New("%s%se%d is out of range at %v", sign(neg), digits, shift, a.m)
	}
	var u uint64
	if len(digits) > 0 {
		var err error
		if u, err = strconv.ParseUint(digits, 10, 64); err != nil {
			return 0, decerr.Syntax.Wrap(err)
		}
	}
	hi, lo := wide.MulUnsigned(u, mathutil.Pow10(int(shift)))
	return a.finishStrict("from string", neg, lo, hi == 0, part)
}

func sign(neg bool) string {
	if neg {
		return "-"
	}
	return ""
}

// prepareString cleans the string from a pair of surrounding quotes, spaces and the sign.
func prepareString(s string) (prepared string, offset int, neg bool) {
	if len(s) == 0 {
		return "", 0, false
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
		offset++
	}
	if trimmed := strings.TrimLeftFunc(s, unicode.IsSpace); len(trimmed) != len(s) {
		offset += len(s) - len(trimmed)
		s = trimmed
	}
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	if len(s) == 0 {
		return "", 0, false
	}
	if s[0] == '-' {
		neg = true
		offset++
		s = s[1:]
	} else if s[0] == '+' {
		offset++
		s = s[1:]
	}
	return s, offset, neg
}

// splitDecimal returns the significant digits of s without leading zeros,
// and the exponent e, so that s == digits*10^e.
func splitDecimal(s string) (digits string, e int64, err error) {
	var b strings.Builder
	delimPos, fracLen := -1, int64(0)
	seenDigit := false
outer:
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case '0' <= c && c <= '9':
			seenDigit = true
			if delimPos >= 0 {
				fracLen++
			}
			if c == '0' && b.Len() == 0 { // trim leading zeros
				continue
			}
			b.WriteByte(c)
		case c == delim:
			if delimPos >= 0 {
				return "", 0, newPosError("unexpected delimiter", i)
			}
			delimPos = i
		case c == 'e' || c == 'E':
			if !seenDigit {
				return "", 0, newPosError("no digits before exponent", i)
			}
			if e, err = parseExponent(s[i+1:]); err != nil {
				return "", 0, addPosErrorOffset(err, i+1)
			}
			break outer
		default:
			return "", 0, newPosError(fmt.Sprintf("unexpected symbol %q", c), i)
		}
	}
	if !seenDigit {
		return "", 0, newPosError("no digits", 0)
	}
	return b.String(), e - fracLen, nil
}

// parseExponent parses a signed decimal exponent. Large values saturate at ±expLimit.
func parseExponent(s string) (int64, error) {
	var neg bool
	i := 0
	if len(s) > 0 && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		i++
	}
	if i == len(s) {
		return 0, newPosError("empty exponent", i)
	}
	var e int64
	for ; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, newPosError(fmt.Sprintf("unexpected symbol %q in exponent", c), i)
		}
		if e < expLimit {
			e = e*10 + int64(c-'0')
		}
	}
	if neg {
		return -e, nil
	}
	return e, nil
}

// ToString returns x as a decimal string with exactly Scale() digits after the decimal point.
func (a *Arithmetic) ToString(x int64) string {
	var buf [24]byte
	return string(a.AppendString(buf[:0], x))
}

// AppendString appends the string form of x, as returned by ToString, to dst.
func (a *Arithmetic) AppendString(dst []byte, x int64) []byte {
	u := mathutil.UnsignedAbs(x)
	if x < 0 {
		dst = append(dst, '-')
	}
	s := a.m.Scale()
	if s == 0 {
		return strconv.AppendUint(dst, u, 10)
	}
	ip := a.m.DivUnsignedByFactor(u)
	fp := u - ip*a.factor()
	dst = strconv.AppendUint(dst, ip, 10)
	dst = append(dst, delim)
	var frac [scale.MaxScale]byte
	for i := s - 1; i >= 0; i-- {
		frac[i] = byte('0' + fp%10)
		fp /= 10
	}
	return append(dst, frac[:s]...)
}
