package cfgstr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ncrystal-go/ncmat/pkg/atomdata"
	"github.com/ncrystal-go/ncmat/pkg/ncerr"
)

// ValueType identifies a parameter's value kind.
type ValueType int

const (
	TypeDouble ValueType = iota
	TypeInt
	TypeBool
	TypeString
	TypeOrientDir
	TypeVector3
	TypeAtomDB
)

func (t ValueType) String() string {
	switch t {
	case TypeDouble:
		return "double"
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	case TypeString:
		return "string"
	case TypeOrientDir:
		return "orientdir"
	case TypeVector3:
		return "vector3"
	case TypeAtomDB:
		return "atomdb"
	default:
		return "unknown"
	}
}

// forbiddenChars is NCMATCFG_FORBIDDEN_CHARS from the original grammar.
const forbiddenChars = "\"'|><(){}[]"

func containsForbidden(s string, extra string) error {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c > 126 {
			return ncerr.NewBadInput("non-ASCII byte in configuration value %q", s)
		}
		if strings.IndexByte(forbiddenChars, c) >= 0 || strings.IndexByte(extra, c) >= 0 {
			return ncerr.NewBadInput("forbidden character %q in configuration value %q", string(c), s)
		}
	}
	return nil
}

// value is the interface every typed parameter value satisfies.
type value interface {
	Type() ValueType
	Clone() value
	SetFromStrRep(s string) error
	ToStrRep(forCache bool) string
}

// --- Double ---

type doubleValue struct {
	val        float64
	origStrRep string
	unit       UnitClass
}

func newDoubleValue(unit UnitClass) *doubleValue { return &doubleValue{unit: unit} }

func (v *doubleValue) Type() ValueType { return TypeDouble }
func (v *doubleValue) Clone() value    { c := *v; return &c }

func (v *doubleValue) SetFromStrRep(s string) error {
	trimmed := strings.TrimSpace(s)
	numPart, suffix := splitUnitSuffix(trimmed, v.unit)
	factor, offset := 1.0, 0.0
	if suffix != "" {
		table := unitTableFor(v.unit)
		conv, ok := table[suffix]
		if !ok {
			return ncerr.NewBadInput("unrecognized unit suffix %q", suffix)
		}
		factor, offset = conv.factor, conv.offset
	}
	raw, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return ncerr.NewBadInput("invalid numeric value %q", numPart)
	}
	v.val = offset + factor*raw
	v.origStrRep = trimmed
	return nil
}

func (v *doubleValue) ToStrRep(forCache bool) string {
	if !forCache && v.origStrRep != "" {
		return v.origStrRep
	}
	return fmt.Sprintf("%.17g", v.val)
}

// --- Int ---

type intValue struct{ val int64 }

func (v *intValue) Type() ValueType { return TypeInt }
func (v *intValue) Clone() value    { c := *v; return &c }

func (v *intValue) SetFromStrRep(s string) error {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return ncerr.NewBadInput("invalid integer value %q", s)
	}
	v.val = n
	return nil
}

func (v *intValue) ToStrRep(bool) string { return strconv.FormatInt(v.val, 10) }

// --- Bool ---

type boolValue struct{ val bool }

func (v *boolValue) Type() ValueType { return TypeBool }
func (v *boolValue) Clone() value    { c := *v; return &c }

func (v *boolValue) SetFromStrRep(s string) error {
	switch strings.TrimSpace(s) {
	case "true", "1":
		v.val = true
	case "false", "0":
		v.val = false
	default:
		return ncerr.NewBadInput("invalid boolean value %q", s)
	}
	return nil
}

func (v *boolValue) ToStrRep(bool) string {
	if v.val {
		return "true"
	}
	return "false"
}

// --- String ---

type stringValue struct{ val string }

func (v *stringValue) Type() ValueType { return TypeString }
func (v *stringValue) Clone() value    { c := *v; return &c }

func (v *stringValue) SetFromStrRep(s string) error {
	if err := containsForbidden(s, "=;"); err != nil {
		return err
	}
	v.val = s
	return nil
}

func (v *stringValue) ToStrRep(bool) string { return v.val }

// --- Vector3 ---

type vector3Value struct {
	x, y, z    float64
	origStrRep string
}

func (v *vector3Value) Type() ValueType { return TypeVector3 }
func (v *vector3Value) Clone() value    { c := *v; return &c }

func (v *vector3Value) SetFromStrRep(s string) error {
	trimmed := strings.TrimSpace(s)
	parts := strings.Split(trimmed, ",")
	if len(parts) != 3 {
		return ncerr.NewBadInput("invalid vector3 value %q, expected \"x,y,z\"", s)
	}
	var xyz [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return ncerr.NewBadInput("invalid vector3 component %q", p)
		}
		xyz[i] = f
	}
	v.x, v.y, v.z = xyz[0], xyz[1], xyz[2]
	v.origStrRep = trimmed
	return nil
}

func (v *vector3Value) ToStrRep(forCache bool) string {
	if !forCache && v.origStrRep != "" {
		return v.origStrRep
	}
	return fmt.Sprintf("%.17g,%.17g,%.17g", v.x, v.y, v.z)
}

// --- OrientDir ---

type orientDirValue struct {
	crysHKL    bool
	crys       [3]float64
	lab        [3]float64
	origStrRep string
}

func (v *orientDirValue) Type() ValueType { return TypeOrientDir }
func (v *orientDirValue) Clone() value    { c := *v; return &c }

func (v *orientDirValue) SetFromStrRep(s string) error {
	trimmed := strings.TrimSpace(s)
	parts := strings.Split(trimmed, "@")
	if len(parts) != 3 || parts[0] != "" {
		return ncerr.NewBadInput("invalid orientdir value %q, expected \"@crys:...@lab:...\"", s)
	}
	crysPart, labPart := parts[1], parts[2]

	var crysHKL bool
	var crysRest string
	switch {
	case strings.HasPrefix(crysPart, "crys_hkl:"):
		crysHKL = true
		crysRest = strings.TrimPrefix(crysPart, "crys_hkl:")
	case strings.HasPrefix(crysPart, "crys:"):
		crysHKL = false
		crysRest = strings.TrimPrefix(crysPart, "crys:")
	default:
		return ncerr.NewBadInput("invalid orientdir crystal part %q", crysPart)
	}
	if !strings.HasPrefix(labPart, "lab:") {
		return ncerr.NewBadInput("invalid orientdir lab part %q", labPart)
	}
	labRest := strings.TrimPrefix(labPart, "lab:")

	crys, err := parseTriple(crysRest)
	if err != nil {
		return err
	}
	lab, err := parseTriple(labRest)
	if err != nil {
		return err
	}
	v.crysHKL, v.crys, v.lab, v.origStrRep = crysHKL, crys, lab, trimmed
	return nil
}

func parseTriple(s string) ([3]float64, error) {
	var out [3]float64
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return out, ncerr.NewBadInput("invalid triple %q, expected \"x,y,z\"", s)
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return out, ncerr.NewBadInput("invalid numeric component %q", p)
		}
		out[i] = f
	}
	return out, nil
}

func (v *orientDirValue) ToStrRep(forCache bool) string {
	if !forCache && v.origStrRep != "" {
		return v.origStrRep
	}
	crysTag := "crys"
	if v.crysHKL {
		crysTag = "crys_hkl"
	}
	return fmt.Sprintf("@%s:%.17g,%.17g,%.17g@lab:%.17g,%.17g,%.17g",
		crysTag, v.crys[0], v.crys[1], v.crys[2], v.lab[0], v.lab[1], v.lab[2])
}

// --- AtomDB ---

type atomDBValue struct {
	lines [][]string
}

func (v *atomDBValue) Type() ValueType { return TypeAtomDB }
func (v *atomDBValue) Clone() value {
	c := &atomDBValue{lines: make([][]string, len(v.lines))}
	for i, l := range v.lines {
		c.lines[i] = append([]string(nil), l...)
	}
	return c
}

func (v *atomDBValue) SetFromStrRep(s string) error {
	if err := containsForbidden(s, "=;"); err != nil {
		return err
	}
	lineStrs := strings.Split(s, "@")
	lines := make([][]string, 0, len(lineStrs))
	sawNodefaults := false
	for i, ls := range lineStrs {
		tokens := strings.Fields(strings.ReplaceAll(ls, ":", " "))
		if len(tokens) == 0 {
			continue
		}
		if tokens[0] == "nodefaults" {
			if i != 0 {
				return ncerr.NewBadInput("\"nodefaults\" must be the first atomdb line")
			}
			sawNodefaults = true
		} else if !sawNodefaults || i > 0 {
			if err := atomdata.ValidateElementName(tokens[0], 3); err != nil {
				return ncerr.NewBadInput("invalid atomdb line %q: %v", ls, err)
			}
		}
		lines = append(lines, tokens)
	}
	v.lines = lines
	return nil
}

func (v *atomDBValue) ToStrRep(bool) string {
	parts := make([]string, len(v.lines))
	for i, l := range v.lines {
		parts[i] = strings.Join(l, ":")
	}
	return strings.Join(parts, "@")
}

// Lines exposes the decoded token sequences, the same shape as
// matfmt.RawMaterialData.AtomDBLines, for the Material Info Builder.
func (v *atomDBValue) Lines() [][]string { return v.lines }
