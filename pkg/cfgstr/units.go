package cfgstr

import "math"

// UnitClass identifies which unit table (if any) a Double parameter uses.
type UnitClass int

const (
	UnitNone UnitClass = iota
	UnitAngle
	UnitLength
	UnitTemperature
)

// unitConv describes how to turn a suffixed literal into the internal
// unit: internal = offset + factor*rawValue.
type unitConv struct {
	factor float64
	offset float64
}

var angleUnits = map[string]unitConv{
	"rad":    {factor: 1},
	"deg":    {factor: math.Pi / 180},
	"arcmin": {factor: math.Pi / 10800},
	"arcsec": {factor: math.Pi / 648000},
}

var lengthUnits = map[string]unitConv{
	"Aa": {factor: 1},
	"nm": {factor: 10},
	"mm": {factor: 1e7},
	"cm": {factor: 1e8},
	"m":  {factor: 1e10},
}

var temperatureUnits = map[string]unitConv{
	"K": {factor: 1, offset: 0},
	"C": {factor: 1, offset: 273.15},
	"F": {factor: 1 / 1.8, offset: 273.15 - 32/1.8},
}

func unitTableFor(class UnitClass) map[string]unitConv {
	switch class {
	case UnitAngle:
		return angleUnits
	case UnitLength:
		return lengthUnits
	case UnitTemperature:
		return temperatureUnits
	default:
		return nil
	}
}

// splitUnitSuffix splits a numeric literal into its numeric prefix and a
// trailing run of ASCII letters, if any. When class is UnitNone, no split
// is attempted (empty suffix is returned unconditionally).
func splitUnitSuffix(tok string, class UnitClass) (numPart, suffix string) {
	if class == UnitNone || tok == "" {
		return tok, ""
	}
	i := len(tok)
	for i > 0 && isAsciiLetter(tok[i-1]) {
		i--
	}
	if i == len(tok) {
		return tok, ""
	}
	return tok[:i], tok[i:]
}

func isAsciiLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
