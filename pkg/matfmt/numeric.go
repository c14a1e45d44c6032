package matfmt

import (
	"math"
	"strconv"
	"strings"

	"github.com/ncrystal-go/ncmat/pkg/ncerr"
)

// parseFiniteFloat parses tok as an IEEE-754 double, rejecting NaN and
// infinity.
func parseFiniteFloat(tok string, source string, lineno int) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, ncerr.NewBadInputAt(source, lineno, "invalid numeric literal %q", tok)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ncerr.NewBadInputAt(source, lineno, "non-finite numeric literal %q", tok)
	}
	return v, nil
}

// parseFloatWithFraction parses tok as either a plain finite double or a
// rational "p/q" literal (allowed from format version 2 on), matching
// str2dbl_withfractions in the original parser: exactly one '/', both
// sides non-empty, q != 0, result is p/q as a double.
func parseFloatWithFraction(tok string, version int, source string, lineno int) (float64, error) {
	if idx := strings.IndexByte(tok, '/'); idx >= 0 {
		if version < 2 {
			return 0, ncerr.NewBadInputAt(source, lineno, "rational literal %q requires format version 2 or later", tok)
		}
		if strings.IndexByte(tok[idx+1:], '/') >= 0 {
			return 0, ncerr.NewBadInputAt(source, lineno, "invalid rational literal %q", tok)
		}
		pStr, qStr := tok[:idx], tok[idx+1:]
		if pStr == "" || qStr == "" {
			return 0, ncerr.NewBadInputAt(source, lineno, "invalid rational literal %q", tok)
		}
		p, err := parseFiniteFloat(pStr, source, lineno)
		if err != nil {
			return 0, err
		}
		q, err := parseFiniteFloat(qStr, source, lineno)
		if err != nil {
			return 0, err
		}
		if q == 0 {
			return 0, ncerr.NewBadInputAt(source, lineno, "rational literal %q has zero denominator", tok)
		}
		return p / q, nil
	}
	return parseFiniteFloat(tok, source, lineno)
}

// expandRepeatToken implements the compact repeat notation "V rN": split
// on the literal byte 'r', requiring the right-hand side to parse as an
// integer N >= 2. Returns ok=false (not an error) if tok doesn't have the
// shape of a repeat token, so the caller can fall back to ordinary numeric
// parsing.
func expandRepeatToken(tok string) (value string, count int, ok bool) {
	idx := strings.IndexByte(tok, 'r')
	if idx <= 0 || idx == len(tok)-1 {
		return "", 0, false
	}
	left, right := tok[:idx], tok[idx+1:]
	n, err := strconv.Atoi(right)
	if err != nil || n < 2 {
		return "", 0, false
	}
	return left, n, true
}
