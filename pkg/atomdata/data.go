// Package atomdata provides the builtin element/isotope database consulted
// by the Material Info Builder when resolving element names from a parsed
// material file into canonical AtomData, overlaid by any @ATOMDB lines
// present in the file or supplied via the atomdb configuration parameter.
package atomdata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ncrystal-go/ncmat/pkg/ncerr"
)

// AtomData describes one element or isotope's physical constants relevant
// to material parsing: mass and, when known, the bound coherent scattering
// length, the bound incoherent scattering cross-section and the absorption
// cross-section.
type AtomData struct {
	// Symbol is the canonical chemical symbol or isotope label, e.g. "Al", "2H".
	Symbol string
	// Z is the atomic number.
	Z int
	// A is the mass number (0 for natural-abundance mixtures).
	A int
	// Mass is the atomic mass in atomic mass units (u).
	Mass float64
	// CoherentScatLen is the bound coherent scattering length in fm.
	CoherentScatLen float64
	// IncoherentXS is the bound incoherent scattering cross-section in barn.
	IncoherentXS float64
	// AbsorptionXS is the 2200 m/s absorption cross-section in barn.
	AbsorptionXS float64
}

// Registry is a lookup table of AtomData keyed by symbol, with the builtin
// defaults optionally suppressed via the "nodefaults" @ATOMDB directive.
type Registry struct {
	byName map[string]AtomData
}

// NewRegistry returns a Registry seeded with the builtin database, unless
// includeDefaults is false (the "nodefaults" case).
func NewRegistry(includeDefaults bool) *Registry {
	r := &Registry{byName: make(map[string]AtomData)}
	if includeDefaults {
		for _, a := range builtinElements {
			r.byName[a.Symbol] = a
		}
	}
	return r
}

// Lookup returns the AtomData for name, or an error if unknown.
func (r *Registry) Lookup(name string) (AtomData, error) {
	if a, ok := r.byName[name]; ok {
		return a, nil
	}
	return AtomData{}, ncerr.NewMissingInfo("no atom data for element %q", name)
}

// Override installs or replaces an entry, used when applying @ATOMDB lines
// or the atomdb configuration parameter.
func (r *Registry) Override(a AtomData) {
	r.byName[a.Symbol] = a
}

// ApplyLine applies one token sequence from an @ATOMDB section or the
// atomdb configuration parameter's decoded lines. The literal token
// "nodefaults" is handled by the caller (it controls NewRegistry's
// includeDefaults argument, not a per-line override) and must not reach
// this function.
//
// Recognized forms (element name, then either a synonym reference or an
// explicit constant list):
//
//	<name> is <existing-name>
//	<name> <mass> <coherent-scat-len-fm> <incoherent-xs-barn> <absorption-xs-barn>
func (r *Registry) ApplyLine(tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	name := tokens[0]
	if name == "nodefaults" {
		return ncerr.NewLogicError("nodefaults must be handled by the registry constructor, not ApplyLine")
	}
	if err := ValidateElementName(name, 3); err != nil {
		return err
	}
	switch {
	case len(tokens) == 3 && tokens[1] == "is":
		ref, err := r.Lookup(tokens[2])
		if err != nil {
			return ncerr.NewBadInput("atomdb line %q references unknown element %q", joinTokens(tokens), tokens[2])
		}
		ref.Symbol = name
		r.Override(ref)
		return nil
	case len(tokens) == 5:
		vals := make([]float64, 4)
		for i, tok := range tokens[1:] {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return ncerr.NewBadInput("atomdb line %q has non-numeric field %q", joinTokens(tokens), tok)
			}
			vals[i] = v
		}
		r.Override(AtomData{
			Symbol:          name,
			Mass:            vals[0],
			CoherentScatLen: vals[1],
			IncoherentXS:    vals[2],
			AbsorptionXS:    vals[3],
		})
		return nil
	default:
		return ncerr.NewBadInput("atomdb line %q has unrecognized shape (%d fields)", joinTokens(tokens), len(tokens))
	}
}

// ValidateElementName checks name against the version-gated element-name
// grammar from the material format:
//
//	v1: chemical element symbol, 1-2 letters, first upper, second lower.
//	v2: adds an isotope prefix of one-or-more digits before the symbol.
//	v3: additionally admits arbitrary user-defined labels matching
//	    [A-Za-z][A-Za-z0-9]* up to maxLen bytes.
func ValidateElementName(name string, version int) error {
	if name == "" {
		return ncerr.NewBadInput("empty element name")
	}
	if isChemicalSymbol(name) {
		return nil
	}
	if version >= 2 && isIsotopeLabel(name) {
		return nil
	}
	if version >= 3 && isUserLabel(name) {
		return nil
	}
	return ncerr.NewBadInput("invalid element name %q for format version %d", name, version)
}

func isChemicalSymbol(s string) bool {
	if len(s) < 1 || len(s) > 2 {
		return false
	}
	if s[0] < 'A' || s[0] > 'Z' {
		return false
	}
	if len(s) == 2 && (s[1] < 'a' || s[1] > 'z') {
		return false
	}
	return true
}

func isIsotopeLabel(s string) bool {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i == len(s) {
		return false
	}
	return isChemicalSymbol(s[i:])
}

func isUserLabel(s string) bool {
	const maxLen = 32
	if len(s) > maxLen {
		return false
	}
	if !isAsciiAlpha(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !isAsciiAlpha(c) && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

func isAsciiAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Describe formats an AtomData for diagnostics.
func Describe(a AtomData) string {
	if a.A > 0 {
		return fmt.Sprintf("%s (Z=%d A=%d mass=%.4fu)", a.Symbol, a.Z, a.A, a.Mass)
	}
	return fmt.Sprintf("%s (Z=%d mass=%.4fu)", a.Symbol, a.Z, a.Mass)
}

// joinTokens reconstructs a verbatim atomdb line from its tokens, for use
// in ApplyLine's error messages.
func joinTokens(tokens []string) string {
	return strings.Join(tokens, " ")
}
