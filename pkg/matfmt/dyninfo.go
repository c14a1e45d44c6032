package matfmt

import (
	"math"

	"github.com/ncrystal-go/ncmat/pkg/atomdata"
	"github.com/ncrystal-go/ncmat/pkg/ncerr"
)

func (p *parser) handleDynInfo(tokens []string, lineno int) error {
	if tokens == nil {
		return p.closeDynInfo(lineno)
	}
	if p.dynInfo == nil {
		p.dynInfo = &RawDynInfo{Fields: map[string][]float64{}}
		p.dynFractionSet = false
		p.dynElementSet = false
		p.dynTypeSet = false
		p.dynActiveVecField = ""
	}

	keyword := tokens[0]
	if !isLowerKeyword(keyword) {
		if p.dynActiveVecField == "" {
			return ncerr.NewBadInputAt(p.source, lineno, "unexpected data line in @DYNINFO (no active vector field)")
		}
		return p.appendDynVectorValues(p.dynActiveVecField, tokens, p.dynActiveVecAllowNeg, lineno)
	}

	switch keyword {
	case "fraction":
		if len(tokens) != 2 {
			return ncerr.NewBadInputAt(p.source, lineno, "expected \"fraction VALUE\"")
		}
		if p.dynFractionSet {
			return ncerr.NewBadInputAt(p.source, lineno, "\"fraction\" already set in this @DYNINFO block")
		}
		v, err := parseFloatWithFraction(tokens[1], p.version, p.source, lineno)
		if err != nil {
			return err
		}
		if v <= 0 || v > 1.0 {
			return ncerr.NewBadInputAt(p.source, lineno, "\"fraction\" must be in (0,1], got %v", v)
		}
		p.dynInfo.Fraction = v
		p.dynFractionSet = true
		p.dynActiveVecField = ""
		return nil
	case "element":
		if len(tokens) != 2 {
			return ncerr.NewBadInputAt(p.source, lineno, "expected \"element NAME\"")
		}
		if p.dynElementSet {
			return ncerr.NewBadInputAt(p.source, lineno, "\"element\" already set in this @DYNINFO block")
		}
		if err := atomdata.ValidateElementName(tokens[1], p.version); err != nil {
			return ncerr.NewBadInputAt(p.source, lineno, "%v", err)
		}
		p.dynInfo.Element = tokens[1]
		p.dynElementSet = true
		p.dynActiveVecField = ""
		return nil
	case "type":
		if len(tokens) != 2 {
			return ncerr.NewBadInputAt(p.source, lineno, "expected \"type NAME\"")
		}
		if p.dynTypeSet {
			return ncerr.NewBadInputAt(p.source, lineno, "\"type\" already set in this @DYNINFO block")
		}
		t, ok := dynInfoTypeFromString(tokens[1])
		if !ok {
			return ncerr.NewBadInputAt(p.source, lineno, "unrecognized dyninfo type %q", tokens[1])
		}
		p.dynInfo.Type = t
		p.dynTypeSet = true
		p.dynActiveVecField = ""
		return nil
	default:
		return p.handleDynVectorKeyword(keyword, tokens[1:], lineno)
	}
}

func (p *parser) handleDynVectorKeyword(keyword string, values []string, lineno int) error {
	if _, exists := p.dynInfo.Fields[keyword]; exists {
		return ncerr.NewBadInputAt(p.source, lineno, "field %q already set in this @DYNINFO block", keyword)
	}
	if notYetSupportedFields[keyword] {
		return ncerr.NewBadInputAt(p.source, lineno, "dyninfo field %q is recognized but not yet supported", keyword)
	}
	allowNeg := negativeAllowedFields[keyword]
	isLong := longVectorFields[keyword]

	if len(values) == 0 {
		p.dynInfo.Fields[keyword] = []float64{}
		if isLong {
			p.dynActiveVecField = keyword
			p.dynActiveVecAllowNeg = allowNeg
		} else {
			p.dynActiveVecField = ""
		}
		return nil
	}

	parsed, err := p.expandAndParseValues(values, allowNeg, lineno)
	if err != nil {
		return err
	}
	p.dynInfo.Fields[keyword] = parsed
	if isLong {
		p.dynActiveVecField = keyword
		p.dynActiveVecAllowNeg = allowNeg
	} else {
		p.dynActiveVecField = ""
	}
	return nil
}

func (p *parser) appendDynVectorValues(field string, tokens []string, allowNeg bool, lineno int) error {
	parsed, err := p.expandAndParseValues(tokens, allowNeg, lineno)
	if err != nil {
		return err
	}
	p.dynInfo.Fields[field] = append(p.dynInfo.Fields[field], parsed...)
	return nil
}

func (p *parser) expandAndParseValues(tokens []string, allowNeg bool, lineno int) ([]float64, error) {
	var out []float64
	for _, tok := range tokens {
		if lit, count, ok := expandRepeatToken(tok); ok {
			v, err := parseFiniteFloat(lit, p.source, lineno)
			if err != nil {
				return nil, err
			}
			if !allowNeg && v < 0 {
				return nil, ncerr.NewBadInputAt(p.source, lineno, "negative value %v not allowed for this field", v)
			}
			for i := 0; i < count; i++ {
				out = append(out, v)
			}
			continue
		}
		v, err := parseFiniteFloat(tok, p.source, lineno)
		if err != nil {
			return nil, err
		}
		if !allowNeg && v < 0 {
			return nil, ncerr.NewBadInputAt(p.source, lineno, "negative value %v not allowed for this field", v)
		}
		out = append(out, v)
	}
	return out, nil
}

func (p *parser) closeDynInfo(lineno int) error {
	if p.dynInfo == nil {
		return nil
	}
	if !p.dynFractionSet {
		return ncerr.NewBadInputAt(p.source, lineno, "@DYNINFO block missing \"fraction\"")
	}
	if !p.dynElementSet {
		return ncerr.NewBadInputAt(p.source, lineno, "@DYNINFO block missing \"element\"")
	}
	if !p.dynTypeSet {
		return ncerr.NewBadInputAt(p.source, lineno, "@DYNINFO block missing \"type\"")
	}
	p.data.DynInfos = append(p.data.DynInfos, *p.dynInfo)
	p.dynInfo = nil
	p.dynActiveVecField = ""
	return nil
}

func dynInfoTypeFromString(s string) (DynInfoType, bool) {
	switch s {
	case "sterile":
		return DynInfoSterile, true
	case "freegas":
		return DynInfoFreeGas, true
	case "scatknl":
		return DynInfoScatKnl, true
	case "vdos":
		return DynInfoVDOS, true
	case "vdosdebye":
		return DynInfoVDOSDebye, true
	default:
		return DynInfoUndefined, false
	}
}

func isLowerKeyword(s string) bool {
	if s == "" {
		return false
	}
	if s[0] < 'a' || s[0] > 'z' {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z') && c != '_' {
			return false
		}
	}
	return true
}

// isFiniteFractionSum reports whether the fractions of dynInfos sum to 1
// within a 1e-6 tolerance.
func isFiniteFractionSum(infos []RawDynInfo) bool {
	if len(infos) == 0 {
		return true
	}
	sum := 0.0
	for _, di := range infos {
		sum += di.Fraction
	}
	return math.Abs(sum-1.0) <= 1e-6
}
