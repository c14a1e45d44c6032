package matfmt

import (
	"math"
	"strconv"

	"github.com/ncrystal-go/ncmat/pkg/atomdata"
	"github.com/ncrystal-go/ncmat/pkg/ncerr"
)

func (p *parser) handleHead(tokens []string, lineno int) error {
	if len(tokens) > 0 {
		return ncerr.NewBadInputAt(p.source, lineno, "unexpected data before the first section marker")
	}
	return nil
}

func (p *parser) handleCell(tokens []string, lineno int) error {
	if tokens == nil {
		if !p.data.Cell.HasCell() {
			return ncerr.NewBadInputAt(p.source, lineno, "problem in the @CELL section: lengths and angles must both be given")
		}
		return nil
	}
	if len(tokens) != 4 {
		return ncerr.NewBadInputAt(p.source, lineno, "expected \"lengths L1 L2 L3\" or \"angles A1 A2 A3\"")
	}
	var target *[3]float64
	var flag *bool
	switch tokens[0] {
	case "lengths":
		target, flag = &p.data.Cell.Lengths, &p.data.Cell.set[0]
	case "angles":
		target, flag = &p.data.Cell.Angles, &p.data.Cell.set[1]
	default:
		return ncerr.NewBadInputAt(p.source, lineno, "expected \"lengths\" or \"angles\", got %q", tokens[0])
	}
	if *flag {
		return ncerr.NewBadInputAt(p.source, lineno, "%q already given in @CELL", tokens[0])
	}
	var vec [3]float64
	nonZero := false
	for i := 0; i < 3; i++ {
		v, err := parseFiniteFloat(tokens[i+1], p.source, lineno)
		if err != nil {
			return err
		}
		vec[i] = v
		if v != 0 {
			nonZero = true
		}
	}
	if !nonZero {
		return ncerr.NewBadInputAt(p.source, lineno, "%q vector in @CELL must not be null", tokens[0])
	}
	*target = vec
	*flag = true
	return nil
}

func (p *parser) handleAtomPositions(tokens []string, lineno int) error {
	if tokens == nil {
		if len(p.data.AtomPositions) == 0 {
			return ncerr.NewBadInputAt(p.source, lineno, "@ATOMPOSITIONS must not be empty")
		}
		return nil
	}
	if len(tokens) != 4 {
		return ncerr.NewBadInputAt(p.source, lineno, "expected \"name x y z\"")
	}
	if err := atomdata.ValidateElementName(tokens[0], p.version); err != nil {
		return ncerr.NewBadInputAt(p.source, lineno, "%v", err)
	}
	var xyz [3]float64
	for i := 0; i < 3; i++ {
		v, err := parseFloatWithFraction(tokens[i+1], p.version, p.source, lineno)
		if err != nil {
			return err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ncerr.NewBadInputAt(p.source, lineno, "non-finite coordinate %q", tokens[i+1])
		}
		xyz[i] = v
	}
	p.data.AtomPositions = append(p.data.AtomPositions, AtomPosition{
		Element: tokens[0], X: xyz[0], Y: xyz[1], Z: xyz[2],
	})
	return nil
}

func (p *parser) handleSpaceGroup(tokens []string, lineno int) error {
	if tokens == nil {
		if p.data.SpaceGroup == 0 {
			return ncerr.NewBadInputAt(p.source, lineno, "@SPACEGROUP must set a space group number")
		}
		return nil
	}
	if p.data.SpaceGroup != 0 {
		return ncerr.NewBadInputAt(p.source, lineno, "@SPACEGROUP may only appear once")
	}
	if len(tokens) != 1 {
		return ncerr.NewBadInputAt(p.source, lineno, "expected a single space group number")
	}
	n, err := strconv.Atoi(tokens[0])
	if err != nil {
		return ncerr.NewBadInputAt(p.source, lineno, "invalid space group number %q", tokens[0])
	}
	if n < 1 || n > 230 {
		return ncerr.NewBadInputAt(p.source, lineno, "space group number %d out of range 1..230", n)
	}
	p.data.SpaceGroup = n
	return nil
}

func (p *parser) handleDebyeTemperature(tokens []string, lineno int) error {
	if tokens == nil {
		if !p.data.HasDebyeGlobal && len(p.data.DebyeTempPerElem) == 0 {
			return ncerr.NewBadInputAt(p.source, lineno, "@DEBYETEMPERATURE must set a value")
		}
		return nil
	}
	switch len(tokens) {
	case 1:
		if p.data.HasDebyeGlobal {
			return ncerr.NewBadInputAt(p.source, lineno, "global Debye temperature already set")
		}
		if len(p.data.DebyeTempPerElem) > 0 {
			return ncerr.NewBadInputAt(p.source, lineno, "cannot mix global and per-element Debye temperatures")
		}
		v, err := parseFiniteFloat(tokens[0], p.source, lineno)
		if err != nil {
			return err
		}
		if v <= 0 {
			return ncerr.NewBadInputAt(p.source, lineno, "Debye temperature must be positive")
		}
		p.data.DebyeTempGlobal = v
		p.data.HasDebyeGlobal = true
		return nil
	case 2:
		if p.data.HasDebyeGlobal {
			return ncerr.NewBadInputAt(p.source, lineno, "cannot mix global and per-element Debye temperatures")
		}
		if err := atomdata.ValidateElementName(tokens[0], p.version); err != nil {
			return ncerr.NewBadInputAt(p.source, lineno, "%v", err)
		}
		v, err := parseFiniteFloat(tokens[1], p.source, lineno)
		if err != nil {
			return err
		}
		if v <= 0 {
			return ncerr.NewBadInputAt(p.source, lineno, "Debye temperature must be positive")
		}
		p.data.DebyeTempPerElem = append(p.data.DebyeTempPerElem, DebyeTempEntry{Element: tokens[0], Value: v})
		return nil
	default:
		return ncerr.NewBadInputAt(p.source, lineno, "expected a single value or \"name value\"")
	}
}

func (p *parser) handleDensity(tokens []string, lineno int) error {
	if tokens == nil {
		if !p.data.Density.set {
			return ncerr.NewBadInputAt(p.source, lineno, "@DENSITY must set a value")
		}
		return nil
	}
	if p.data.Density.set {
		return ncerr.NewBadInputAt(p.source, lineno, "@DENSITY may only appear once")
	}
	if len(tokens) != 2 {
		return ncerr.NewBadInputAt(p.source, lineno, "expected \"value unit\"")
	}
	v, err := parseFiniteFloat(tokens[0], p.source, lineno)
	if err != nil {
		return err
	}
	if v < 0 {
		return ncerr.NewBadInputAt(p.source, lineno, "density must not be negative")
	}
	switch tokens[1] {
	case "atoms_per_aa3":
		p.data.Density = Density{Value: v, Unit: AtomsPerAa3, set: true}
	case "kg_per_m3":
		p.data.Density = Density{Value: v, Unit: KgPerM3, set: true}
	case "g_per_cm3":
		p.data.Density = Density{Value: v * 1000.0, Unit: KgPerM3, set: true}
	default:
		return ncerr.NewBadInputAt(p.source, lineno, "unrecognized density unit %q", tokens[1])
	}
	return nil
}

func (p *parser) handleAtomDB(tokens []string, lineno int) error {
	if tokens == nil {
		return nil
	}
	if len(tokens) == 1 && tokens[0] == "nodefaults" {
		if len(p.data.AtomDBLines) != 0 {
			return ncerr.NewBadInputAt(p.source, lineno, "\"nodefaults\" must be the first line of @ATOMDB")
		}
		p.data.AtomDBLines = append(p.data.AtomDBLines, append([]string(nil), tokens...))
		return nil
	}
	if len(tokens) == 0 {
		return nil
	}
	if err := atomdata.ValidateElementName(tokens[0], p.version); err != nil {
		return ncerr.NewBadInputAt(p.source, lineno, "%v", err)
	}
	p.data.AtomDBLines = append(p.data.AtomDBLines, append([]string(nil), tokens...))
	return nil
}

func (p *parser) handleCustom(tokens []string, lineno int) error {
	if tokens == nil {
		return nil
	}
	if p.customIdx < 0 || p.customIdx >= len(p.data.CustomSections) {
		return ncerr.NewBadInputAt(p.source, lineno, "internal: no active custom section")
	}
	sec := &p.data.CustomSections[p.customIdx]
	sec.Lines = append(sec.Lines, append([]string(nil), tokens...))
	return nil
}
