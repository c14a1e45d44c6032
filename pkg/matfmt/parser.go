package matfmt

import (
	"strings"

	"github.com/ncrystal-go/ncmat/pkg/ncerr"
	"github.com/ncrystal-go/ncmat/pkg/textinput"
)

// longVectorFields are DYNINFO keywords whose values may continue across
// multiple lines once introduced.
var longVectorFields = map[string]bool{
	"sab": true, "sab_scaled": true, "sqw": true, "alphagrid": true,
	"betagrid": true, "qgrid": true, "omegagrid": true, "egrid": true,
	"vdos_egrid": true, "vdos_density": true,
}

// negativeAllowedFields are the only DYNINFO vector fields permitted to
// carry negative values.
var negativeAllowedFields = map[string]bool{
	"betagrid": true, "omegagrid": true,
}

// notYetSupportedFields are recognized DYNINFO keywords rejected outright.
var notYetSupportedFields = map[string]bool{
	"sqw": true, "qgrid": true, "omegagrid": true,
}

// parser holds the mutable state of one Parse invocation.
type parser struct {
	source       string
	version      int
	data         *RawMaterialData
	current      string
	sawAnySection bool
	sectionsSeen map[string]bool

	// DYNINFO accumulator state.
	dynInfo             *RawDynInfo
	dynFractionSet      bool
	dynElementSet       bool
	dynTypeSet          bool
	dynActiveVecField   string
	dynActiveVecAllowNeg bool

	// CUSTOM_* accumulator: index of the currently open entry.
	customIdx int
}

// Parse reads every line from s and returns the resulting RawMaterialData,
// or the first BadInput error encountered.
func Parse(s textinput.Stream) (*RawMaterialData, error) {
	source := s.Description()

	firstLine, ok := s.GetLine()
	if !ok {
		return nil, ncerr.NewBadInputAt(source, 1, "empty input")
	}
	tl, err := tokenizeLine(firstLine, source, 1)
	if err != nil {
		return nil, err
	}
	if len(tl.Tokens) < 2 || tl.Tokens[0] != "NCMAT" {
		return nil, ncerr.NewBadInputAt(source, 1, "first line must begin with \"NCMAT v<N>\"")
	}
	version, err := parseVersionToken(tl.Tokens[1])
	if err != nil {
		return nil, ncerr.NewBadInputAt(source, 1, "%v", err)
	}
	if version == 1 && tl.HashIndex >= 0 {
		return nil, ncerr.NewBadInputAt(source, 1, "version 1 files may not contain '#' on the first line")
	}

	p := &parser{
		source:       source,
		version:      version,
		data:         &RawMaterialData{Version: version, SourceFullDescr: source},
		current:      "HEAD",
		sectionsSeen: map[string]bool{},
		customIdx:    -1,
	}

	lineno := 1
	for s.MoreLines() {
		raw, ok := s.GetLine()
		if !ok {
			break
		}
		lineno++
		if err := p.processLine(raw, lineno); err != nil {
			return nil, err
		}
	}
	if err := p.dispatch(nil, lineno); err != nil {
		return nil, err
	}
	return p.data, nil
}

func parseVersionToken(tok string) (int, error) {
	switch tok {
	case "v1":
		return 1, nil
	case "v2":
		return 2, nil
	case "v3":
		return 3, nil
	default:
		return 0, ncerr.NewBadInput("unrecognized format version %q (expected v1, v2 or v3)", tok)
	}
}

func (p *parser) processLine(raw string, lineno int) error {
	tl, err := tokenizeLine(raw, p.source, lineno)
	if err != nil {
		return err
	}

	if p.version == 1 && tl.HashIndex >= 0 {
		if p.sawAnySection || tl.HashIndex != 0 {
			return ncerr.NewBadInputAt(p.source, lineno, "comments are only allowed before the first section, starting at column 0, in version 1")
		}
	}

	if len(tl.Tokens) == 0 {
		return nil
	}

	if strings.HasPrefix(tl.Tokens[0], "@") {
		return p.enterSection(tl.Tokens, raw, lineno)
	}

	return p.dispatch(tl.Tokens, lineno)
}

func (p *parser) enterSection(tokens []string, raw string, lineno int) error {
	if len(tokens) != 1 {
		return ncerr.NewBadInputAt(p.source, lineno, "section marker %q must appear alone on its line", tokens[0])
	}
	if len(raw) == 0 || raw[0] != '@' {
		return ncerr.NewBadInputAt(p.source, lineno, "section marker must not be indented")
	}
	name := tokens[0][1:]
	if name == "" {
		return ncerr.NewBadInputAt(p.source, lineno, "empty section name")
	}
	isCustom := strings.HasPrefix(name, "CUSTOM_")

	// Close whatever section is currently active before switching.
	if err := p.dispatch(nil, lineno); err != nil {
		return err
	}

	if !isCustom && name != "DYNINFO" {
		if p.sectionsSeen[name] {
			return ncerr.NewBadInputAt(p.source, lineno, "section @%s appears more than once", name)
		}
		p.sectionsSeen[name] = true
	}

	minVersion, recognized := sectionMinVersion(name, isCustom)
	if !recognized {
		return ncerr.NewBadInputAt(p.source, lineno, "@%s is not a supported section name", name)
	}
	if p.version < minVersion {
		return ncerr.NewBadInputAt(p.source, lineno, "@%s is not supported in format version %d", name, p.version)
	}

	if isCustom {
		tag := strings.TrimPrefix(name, "CUSTOM_")
		if tag == "" {
			return ncerr.NewBadInputAt(p.source, lineno, "@CUSTOM_ requires a non-empty suffix")
		}
		p.data.CustomSections = append(p.data.CustomSections, CustomSection{Tag: tag})
		p.customIdx = len(p.data.CustomSections) - 1
	}

	p.current = name
	p.sawAnySection = true
	return nil
}

// sectionMinVersion reports the minimum format version admitting section
// name, and whether the name is recognized at all.
func sectionMinVersion(name string, isCustom bool) (minVersion int, recognized bool) {
	switch {
	case isCustom:
		return 3, true
	case name == "CELL", name == "ATOMPOSITIONS", name == "SPACEGROUP", name == "DEBYETEMPERATURE":
		return 1, true
	case name == "DYNINFO", name == "DENSITY":
		return 2, true
	case name == "ATOMDB":
		return 3, true
	default:
		return 0, false
	}
}

// dispatch routes tokens (nil means "close current section") to the
// handler for p.current.
func (p *parser) dispatch(tokens []string, lineno int) error {
	if strings.HasPrefix(p.current, "CUSTOM_") {
		return p.handleCustom(tokens, lineno)
	}
	switch p.current {
	case "HEAD":
		return p.handleHead(tokens, lineno)
	case "CELL":
		return p.handleCell(tokens, lineno)
	case "ATOMPOSITIONS":
		return p.handleAtomPositions(tokens, lineno)
	case "SPACEGROUP":
		return p.handleSpaceGroup(tokens, lineno)
	case "DEBYETEMPERATURE":
		return p.handleDebyeTemperature(tokens, lineno)
	case "DYNINFO":
		return p.handleDynInfo(tokens, lineno)
	case "DENSITY":
		return p.handleDensity(tokens, lineno)
	case "ATOMDB":
		return p.handleAtomDB(tokens, lineno)
	default:
		return ncerr.NewBadInputAt(p.source, lineno, "internal: unknown active section %q", p.current)
	}
}
