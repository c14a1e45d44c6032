// Package cfgstr implements the configuration-string parser: a typed
// parameter store with copy-on-write sharing, unit-aware Double parameters,
// access-spy observation, and deterministic serialization used as a cache
// key.
package cfgstr

import (
	"sync"

	"github.com/ncrystal-go/ncmat/pkg/ncerr"
)

// table is the raw parameter store: only parameters that have been
// explicitly set appear here.
type table struct {
	values map[string]value
}

func newTable() *table { return &table{values: map[string]value{}} }

func (t *table) clone() *table {
	nt := &table{values: make(map[string]value, len(t.values))}
	for k, v := range t.values {
		nt.values[k] = v.Clone()
	}
	return nt
}

// sharedState is the copy-on-write unit: a table plus a count of the
// Configuration handles currently pointing at it.
type sharedState struct {
	mu   sync.Mutex
	refs int
	tbl  *table
}

func newShared(t *table) *sharedState { return &sharedState{refs: 1, tbl: t} }

// AccessSpy observes every typed read of a configuration parameter.
type AccessSpy interface {
	ParAccessed(name string)
}

// Configuration is a shareable handle to a parameter table paired with a
// source-name. Writes trigger a copy-on-write clone whenever the
// underlying table is shared with another handle, so existing handles
// observe snapshot semantics.
type Configuration struct {
	sourceName       string // as given, before the first ';'
	datafileOrig     string
	datafileResolved string
	datafileExt      string
	ignoredFileCfg   bool

	shared *sharedState
	spies  []AccessSpy
}

func newConfiguration(sourceName string) *Configuration {
	return &Configuration{
		sourceName: sourceName,
		shared:     newShared(newTable()),
	}
}

// Clone returns a new handle sharing the same underlying table until
// either handle mutates. Cloning a handle with active access spies is a
// logic error, matching the source's ensureNoSpy-before-copy contract.
func (c *Configuration) Clone() (*Configuration, error) {
	if len(c.spies) > 0 {
		return nil, ncerr.NewLogicError("cannot clone a configuration whose access is being monitored")
	}
	c.shared.mu.Lock()
	c.shared.refs++
	c.shared.mu.Unlock()
	return &Configuration{
		sourceName:       c.sourceName,
		datafileOrig:     c.datafileOrig,
		datafileResolved: c.datafileResolved,
		datafileExt:      c.datafileExt,
		ignoredFileCfg:   c.ignoredFileCfg,
		shared:           c.shared,
	}, nil
}

// cow ensures this handle has exclusive ownership of its table, cloning it
// first if it's currently shared with another handle.
func (c *Configuration) cow() {
	c.shared.mu.Lock()
	defer c.shared.mu.Unlock()
	if c.shared.refs == 1 {
		return
	}
	c.shared.refs--
	c.shared = newShared(c.shared.tbl.clone())
}

func (c *Configuration) ensureNoSpy() error {
	if len(c.spies) > 0 {
		return ncerr.NewLogicError("modification of configuration object whose access is being monitored is forbidden")
	}
	return nil
}

// InstallSpy registers spy to observe every subsequent typed read on this
// handle.
func (c *Configuration) InstallSpy(spy AccessSpy) {
	c.spies = append(c.spies, spy)
}

// ClearSpies removes every installed spy from this handle.
func (c *Configuration) ClearSpies() {
	c.spies = nil
}

func (c *Configuration) triggerSpy(name string) {
	for _, s := range c.spies {
		s.ParAccessed(name)
	}
}

// withSpiesSuspended runs fn with this handle's spies temporarily
// detached, as required around bulk read operations like ToStrCfg and
// CheckConsistency so they don't fire spy callbacks for every parameter.
func (c *Configuration) withSpiesSuspended(fn func()) {
	saved := c.spies
	c.spies = nil
	defer func() { c.spies = saved }()
	fn()
}

// HasPar reports whether name is currently set. Triggers the access spy
// like any other typed read.
func (c *Configuration) HasPar(name string) bool {
	c.triggerSpy(name)
	c.shared.mu.Lock()
	defer c.shared.mu.Unlock()
	_, ok := c.shared.tbl.values[name]
	return ok
}

func (c *Configuration) getRaw(name string) (value, bool) {
	c.shared.mu.Lock()
	defer c.shared.mu.Unlock()
	v, ok := c.shared.tbl.values[name]
	return v, ok
}

func (c *Configuration) setRaw(name string, v value) error {
	if err := c.ensureNoSpy(); err != nil {
		return err
	}
	c.cow()
	c.shared.mu.Lock()
	c.shared.tbl.values[name] = v
	c.shared.mu.Unlock()
	return nil
}

func newEmptyValueFor(spec paramSpec) value {
	switch spec.typ {
	case TypeDouble:
		return &doubleValue{unit: spec.unit}
	case TypeInt:
		return &intValue{}
	case TypeBool:
		return &boolValue{}
	case TypeString:
		return &stringValue{}
	case TypeOrientDir:
		return &orientDirValue{}
	case TypeVector3:
		return &vector3Value{}
	case TypeAtomDB:
		return &atomDBValue{}
	default:
		panic("cfgstr: unhandled value type")
	}
}

// Set applies name=valStr, resolving the legacy bragg/elas/bkgd aliases
// before catalog lookup. Aliases never appear in the catalog itself or in
// ToStrCfg output; they only ever act as sugar for one or two real
// parameter assignments.
func (c *Configuration) Set(name, valStr string) error {
	switch name {
	case "bragg":
		name = "coh_elas"
	case "elas":
		bv := &boolValue{}
		if err := bv.SetFromStrRep(valStr); err != nil {
			return err
		}
		if err := c.setRaw("coh_elas", bv.Clone()); err != nil {
			return err
		}
		return c.setRaw("incoh_elas", bv.Clone())
	case "bkgd":
		if valStr != "none" && valStr != "0" {
			return ncerr.NewBadInput("parameter \"bkgd\" is obsolete and only accepts \"none\" or \"0\"")
		}
		if err := c.setRaw("incoh_elas", &boolValue{val: false}); err != nil {
			return err
		}
		return c.setRaw("inelas", &stringValue{val: "none"})
	}

	spec, ok := catalog[name]
	if !ok {
		return ncerr.NewBadInput("unknown parameter %q", name)
	}
	if valStr == "" && spec.typ != TypeString {
		return ncerr.NewBadInput("empty value not allowed for parameter %q", name)
	}
	nv := newEmptyValueFor(spec)
	if err := nv.SetFromStrRep(valStr); err != nil {
		return ncerr.NewBadInput("parameter %q: %v", name, err)
	}
	return c.setRaw(name, nv)
}

// --- typed getters ---

func (c *Configuration) getTyped(name string, typ ValueType) (value, error) {
	spec, ok := catalog[name]
	if !ok || spec.typ != typ {
		return nil, ncerr.NewLogicError("parameter %q is not of type %s", name, typ)
	}
	c.triggerSpy(name)
	v, ok := c.getRaw(name)
	if ok {
		return v, nil
	}
	if spec.hasDefault {
		return spec.newDefault(), nil
	}
	return nil, ncerr.NewMissingInfo("parameter %q is not set and has no default", name)
}

// GetDouble returns the resolved (internal-unit) value of a Double parameter.
func (c *Configuration) GetDouble(name string) (float64, error) {
	v, err := c.getTyped(name, TypeDouble)
	if err != nil {
		return 0, err
	}
	return v.(*doubleValue).val, nil
}

// GetInt returns the value of an Int parameter.
func (c *Configuration) GetInt(name string) (int64, error) {
	v, err := c.getTyped(name, TypeInt)
	if err != nil {
		return 0, err
	}
	return v.(*intValue).val, nil
}

// GetBool returns the value of a Bool parameter.
func (c *Configuration) GetBool(name string) (bool, error) {
	v, err := c.getTyped(name, TypeBool)
	if err != nil {
		return false, err
	}
	return v.(*boolValue).val, nil
}

// GetString returns the value of a String parameter.
func (c *Configuration) GetString(name string) (string, error) {
	v, err := c.getTyped(name, TypeString)
	if err != nil {
		return "", err
	}
	return v.(*stringValue).val, nil
}

// Vector3 is a plain (x,y,z) triple returned by GetVector3.
type Vector3 struct{ X, Y, Z float64 }

// GetVector3 returns the value of a Vector3 parameter.
func (c *Configuration) GetVector3(name string) (Vector3, error) {
	v, err := c.getTyped(name, TypeVector3)
	if err != nil {
		return Vector3{}, err
	}
	vv := v.(*vector3Value)
	return Vector3{vv.x, vv.y, vv.z}, nil
}

// OrientDir is the decoded value of an OrientDir parameter.
type OrientDir struct {
	CrysHKL bool
	Crys    [3]float64
	Lab     [3]float64
}

// GetOrientDir returns the value of an OrientDir parameter.
func (c *Configuration) GetOrientDir(name string) (OrientDir, error) {
	v, err := c.getTyped(name, TypeOrientDir)
	if err != nil {
		return OrientDir{}, err
	}
	ov := v.(*orientDirValue)
	return OrientDir{CrysHKL: ov.crysHKL, Crys: ov.crys, Lab: ov.lab}, nil
}

// GetAtomDB returns the decoded @ATOMDB-shaped token sequences of the
// atomdb parameter.
func (c *Configuration) GetAtomDB(name string) ([][]string, error) {
	v, err := c.getTyped(name, TypeAtomDB)
	if err != nil {
		return nil, err
	}
	return v.(*atomDBValue).Lines(), nil
}

// SourceName returns the configuration's source-name (the part of the
// configuration string before the first ';').
func (c *Configuration) SourceName() string { return c.sourceName }

// IgnoreFileCfg reports whether "ignorefilecfg" was given in the
// configuration string, meaning any NCRYSTALMATCFG[...] block embedded in
// the resolved data file must not be applied.
func (c *Configuration) IgnoreFileCfg() bool { return c.ignoredFileCfg }

// DataFileExtension returns the overridefileext parameter's value if set.
// Otherwise it returns the stored data-file extension; nothing in this
// package assigns that field, so the fallback is the empty string.
func (c *Configuration) DataFileExtension() string {
	if s, err := c.GetString("overridefileext"); err == nil && s != "" {
		return s
	}
	return c.datafileExt
}

// IsSingleCrystal is the loose "any single-crystal parameter set" check,
// distinct from the strict all-or-none invariant enforced by
// CheckConsistency.
func (c *Configuration) IsSingleCrystal() bool {
	return c.HasPar("mos") || c.HasPar("dir1") || c.HasPar("dir2") || c.HasPar("dirtol")
}

// IsLayeredCrystal reports whether lcaxis is set.
func (c *Configuration) IsLayeredCrystal() bool {
	return c.HasPar("lcaxis")
}
