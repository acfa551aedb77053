// Copyright 2020 Aleksandr Demakin. All rights reserved.

package scaled

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/avdva/scaled/decerr"
	"github.com/avdva/scaled/truncation"
)

var (
	jsonParts = [...]string{`{"m":`, `,"e":`, `}`}
	manyZeros = bytes.Repeat([]byte{'0'}, 64)
)

// Format implements fmt.Formatter.
// Supported verbs are:
//   - %v, %s: the same as String().
//   - %f, %F: fixed-point notation, %.2f rounds the value to two digits using DefaultPolicy.
//   - %e, %E, %g, %G: the float64 value of the decimal.
//   - %q: a double-quoted String().
//   - %d: the unscaled integer.
//
// Flags '+', '-', '0' and width are supported for all the verbs.
func (d Decimal[S]) Format(fs fmt.State, c rune) {
	var buf [64]byte
	b := buf[:0]
	switch c {
	case 'v', 's':
		b = defaultArith[S]().AppendString(b, d.v)
	case 'f', 'F':
		var err error
		if b, err = d.appendFixed(b, fs); err != nil {
			fmt.Fprintf(fs, "%%!%c(%v)", c, err)
			return
		}
	case 'e', 'E', 'g', 'G':
		prec, ok := fs.Precision()
		if !ok {
			prec = -1
		}
		b = strconv.AppendFloat(b, d.Float64(), byte(c), prec, 64)
	case 'q':
		b = append(b, '"')
		b = defaultArith[S]().AppendString(b, d.v)
		b = append(b, '"')
	case 'd':
		b = strconv.AppendInt(b, d.v, 10)
	default:
		fmt.Fprintf(fs, "%%!%c(scaled.Decimal=%s)", c, d.String())
		return
	}
	writePadded(fs, b, d.v >= 0)
}

func (d Decimal[S]) appendFixed(b []byte, fs fmt.State) ([]byte, error) {
	a, s := defaultArith[S](), scaleOf[S]()
	prec, ok := fs.Precision()
	if !ok || prec == s {
		return a.AppendString(b, d.v), nil
	}
	if prec > s {
		b = a.AppendString(b, d.v)
		if s == 0 {
			b = append(b, '.')
		}
		for pad := prec - s; pad > 0; {
			n := pad
			if n > len(manyZeros) {
				n = len(manyZeros)
			}
			b = append(b, manyZeros[:n]...)
			pad -= n
		}
		return b, nil
	}
	rounded, err := a.Round(d.v, prec)
	if err != nil {
		return b, err
	}
	b = a.AppendString(b, rounded)
	// the last s-prec digits are zeros now.
	b = b[:len(b)-(s-prec)]
	if prec == 0 {
		b = b[:len(b)-1]
	}
	return b, nil
}

func writePadded(fs fmt.State, b []byte, nonNeg bool) {
	if nonNeg && fs.Flag('+') {
		b = append([]byte{'+'}, b...)
	}
	width, ok := fs.Width()
	if !ok || width <= len(b) {
		fs.Write(b)
		return
	}
	pad := width - len(b)
	switch {
	case fs.Flag('-'):
		fs.Write(b)
		writeRepeated(fs, ' ', pad)
	case fs.Flag('0') && len(b) > 0 && (b[0] == '-' || b[0] == '+'):
		fs.Write(b[:1])
		writeRepeated(fs, '0', pad)
		fs.Write(b[1:])
	case fs.Flag('0'):
		writeRepeated(fs, '0', pad)
		fs.Write(b)
	default:
		writeRepeated(fs, ' ', pad)
		fs.Write(b)
	}
}

func writeRepeated(fs fmt.State, c byte, n int) {
	fs.Write(bytes.Repeat([]byte{c}, n))
}

// MarshalJSON marshals value according to current JSONMode.
// See JSONMode and JSONMode* constants.
func (d Decimal[S]) MarshalJSON() ([]byte, error) {
	return d.toJSON(JSONMode), nil
}

func (d Decimal[S]) toJSON(mode int) []byte {
	switch mode {
	case JSONModeFloat:
		return strconv.AppendFloat(nil, d.Float64(), 'f', -1, 64)
	case JSONModeME:
		b := append([]byte(jsonParts[0]), strconv.FormatInt(d.v, 10)...)
		b = append(b, jsonParts[1]...)
		b = strconv.AppendInt(b, -int64(scaleOf[S]()), 10)
		return append(b, jsonParts[2]...)
	case JSONModeCompact:
		str, me := d.toJSON(JSONModeString), d.toJSON(JSONModeME)
		if len(str) <= len(me) {
			return str
		}
		return me
	default: // marshal as a string
		b := []byte{'"'}
		b = defaultArith[S]().AppendString(b, d.v)
		return append(b, '"')
	}
}

// UnmarshalJSON unmarshals a string, float, or an object into a value.
// Values out of range are reported as errors regardless of DefaultPolicy. null is a no-op.
func (d *Decimal[S]) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return decerr.Syntax.New("empty json")
	}
	if string(data) == "null" {
		return nil
	}
	switch data[0] {
	case '{':
		me := struct {
			M int64
			E int32
		}{}
		if err := json.Unmarshal(data, &me); err != nil {
			return decerr.Syntax.Wrap(err)
		}
		p := DefaultPolicy
		p.Overflow = truncation.Checked
		v, err := Arithmetic[S](p).MultiplyByPowerOf10(me.M, scaleOf[S]()+int(me.E))
		if err != nil {
			return err
		}
		*d = Decimal[S]{v: v}
	default:
		value, err := Parse[S](string(data))
		if err != nil {
			return err
		}
		*d = value
	}
	return nil
}
