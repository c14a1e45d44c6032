package cfgstr

import (
	"math"
	"sort"
)

// paramSpec describes one catalog entry: its value type, its unit class
// (for Double parameters), and whether a code-level default exists.
type paramSpec struct {
	name       string
	typ        ValueType
	unit       UnitClass
	hasDefault bool
	newDefault func() value
}

// catalog is the closed, alphabetically ordered set of recognized
// configuration parameters. Names not present here are rejected outright;
// there is no forward-compatible passthrough for unknown parameters.
var catalog = map[string]paramSpec{
	"absnfactory":     {name: "absnfactory", typ: TypeString, hasDefault: true, newDefault: func() value { return &stringValue{val: ""} }},
	"atomdb":          {name: "atomdb", typ: TypeAtomDB, hasDefault: true, newDefault: func() value { return &atomDBValue{} }},
	"coh_elas":        {name: "coh_elas", typ: TypeBool, hasDefault: true, newDefault: func() value { return &boolValue{val: true} }},
	"dcutoff":         {name: "dcutoff", typ: TypeDouble, unit: UnitLength, hasDefault: true, newDefault: func() value { return &doubleValue{unit: UnitLength, val: 0} }},
	"dcutoffup":       {name: "dcutoffup", typ: TypeDouble, unit: UnitLength, hasDefault: true, newDefault: func() value { return &doubleValue{unit: UnitLength, val: math.Inf(1)} }},
	"dir1":            {name: "dir1", typ: TypeOrientDir},
	"dir2":            {name: "dir2", typ: TypeOrientDir},
	"dirtol":          {name: "dirtol", typ: TypeDouble, unit: UnitAngle, hasDefault: true, newDefault: func() value { return &doubleValue{unit: UnitAngle, val: 1e-4} }},
	"incoh_elas":      {name: "incoh_elas", typ: TypeBool, hasDefault: true, newDefault: func() value { return &boolValue{val: true} }},
	"inelas":          {name: "inelas", typ: TypeString, hasDefault: true, newDefault: func() value { return &stringValue{val: "auto"} }},
	"infofactory":     {name: "infofactory", typ: TypeString, hasDefault: true, newDefault: func() value { return &stringValue{val: ""} }},
	"lcaxis":          {name: "lcaxis", typ: TypeVector3},
	"lcmode":          {name: "lcmode", typ: TypeInt, hasDefault: true, newDefault: func() value { return &intValue{val: 0} }},
	"mos":             {name: "mos", typ: TypeDouble, unit: UnitAngle},
	"mosprec":         {name: "mosprec", typ: TypeDouble, hasDefault: true, newDefault: func() value { return &doubleValue{val: 1e-3} }},
	"overridefileext": {name: "overridefileext", typ: TypeString, hasDefault: true, newDefault: func() value { return &stringValue{val: ""} }},
	"packfact":        {name: "packfact", typ: TypeDouble, hasDefault: true, newDefault: func() value { return &doubleValue{val: 1.0} }},
	"scatfactory":     {name: "scatfactory", typ: TypeString, hasDefault: true, newDefault: func() value { return &stringValue{val: ""} }},
	"sccutoff":        {name: "sccutoff", typ: TypeDouble, hasDefault: true, newDefault: func() value { return &doubleValue{val: 0.4} }},
	"temp":            {name: "temp", typ: TypeDouble, unit: UnitTemperature, hasDefault: true, newDefault: func() value { return &doubleValue{unit: UnitTemperature, val: -1} }},
	"vdoslux":         {name: "vdoslux", typ: TypeInt, hasDefault: true, newDefault: func() value { return &intValue{val: 3} }},
}

var sortedParamNames []string

func init() {
	sortedParamNames = make([]string, 0, len(catalog))
	for name := range catalog {
		sortedParamNames = append(sortedParamNames, name)
	}
	sort.Strings(sortedParamNames)
}

// isKnownParam reports whether name is a real catalog entry (aliases like
// bragg/elas/bkgd are resolved by the caller before this check runs).
func isKnownParam(name string) bool {
	_, ok := catalog[name]
	return ok
}
