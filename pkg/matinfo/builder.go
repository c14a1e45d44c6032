package matinfo

import (
	"fmt"
	"sort"

	"github.com/ncrystal-go/ncmat/pkg/atomdata"
	"github.com/ncrystal-go/ncmat/pkg/cfgstr"
	"github.com/ncrystal-go/ncmat/pkg/matfmt"
	"github.com/ncrystal-go/ncmat/pkg/ncerr"
	"github.com/ncrystal-go/ncmat/pkg/tracelog"
)

// AvogadroNumber is Avogadro's constant, used only to convert between a
// tabulated mean molar mass and mass/number density; no other physics is
// performed by this package.
const AvogadroNumber = 6.02214076e23

const defaultTemperatureKelvin = 293.15

// Builder assembles a MaterialInfo in a writable phase; call Seal to
// freeze it. A Builder must not be reused after Seal.
type Builder struct {
	registry    []IndexedAtomData
	roleIndex   map[string]AtomIndex
	positions   map[AtomIndex][][3]float64
	debyeTemps  map[AtomIndex]float64
	structure   *StructureInfo
	dynInfos    []*DynInfo
	density     float64
	numberDens  float64
	temperature float64
	debyeGlobal float64
	xsAbs       float64
	xsFree      float64
	customs     []matfmt.CustomSection

	trace   tracelog.Logger
	traceID string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		roleIndex:  make(map[string]AtomIndex),
		positions:  make(map[AtomIndex][][3]float64),
		debyeTemps: make(map[AtomIndex]float64),
		trace:      tracelog.NoOp,
	}
}

// WithTrace attaches a tracelog.Logger and correlation id to the Builder.
// Every atom registered during LoadRaw emits a KindAtomRegistered event,
// and any DynScatKnlDirect entry it produces carries the same logger and
// id into its lazy Kernel build. Returns b for chaining onto NewBuilder.
func (b *Builder) WithTrace(trace tracelog.Logger, traceID string) *Builder {
	b.trace = trace
	b.traceID = traceID
	return b
}

// LoadRaw resolves every atom role, computes the structure summary,
// converts dynamic-info blocks, and computes density/number-density from
// raw and the given configuration. It may be called only once per
// Builder.
func (b *Builder) LoadRaw(raw *matfmt.RawMaterialData, cfg *cfgstr.Configuration) error {
	reg, err := b.buildAtomDatabase(raw, cfg)
	if err != nil {
		return err
	}
	if err := b.buildAtomRoles(raw, reg); err != nil {
		return err
	}
	b.buildStructureInfo(raw)
	if err := b.buildDynInfos(raw); err != nil {
		return err
	}
	if err := b.resolveTemperature(cfg); err != nil {
		return err
	}
	b.buildDensity(raw)
	b.buildCrossSections()
	b.customs = append([]matfmt.CustomSection(nil), raw.CustomSections...)
	return nil
}

func (b *Builder) buildAtomDatabase(raw *matfmt.RawMaterialData, cfg *cfgstr.Configuration) (*atomdata.Registry, error) {
	includeDefaults := true
	lines := raw.AtomDBLines
	if len(lines) > 0 && len(lines[0]) > 0 && lines[0][0] == "nodefaults" {
		includeDefaults = false
		lines = lines[1:]
	}
	reg := atomdata.NewRegistry(includeDefaults)
	for _, l := range lines {
		if err := reg.ApplyLine(l); err != nil {
			return nil, err
		}
	}
	if cfg != nil {
		cfgLines, err := cfg.GetAtomDB("atomdb")
		if err == nil {
			for _, l := range cfgLines {
				if len(l) > 0 && l[0] == "nodefaults" {
					continue
				}
				if err := reg.ApplyLine(l); err != nil {
					return nil, err
				}
			}
		}
	}
	return reg, nil
}

func (b *Builder) buildAtomRoles(raw *matfmt.RawMaterialData, reg *atomdata.Registry) error {
	for _, ap := range raw.AtomPositions {
		idx, ok := b.roleIndex[ap.Element]
		if !ok {
			data, err := reg.Lookup(ap.Element)
			if err != nil {
				return ncerr.NewCalcError("cannot resolve atom data for %q: %v", ap.Element, err)
			}
			idx = AtomIndex(len(b.registry))
			b.roleIndex[ap.Element] = idx
			b.registry = append(b.registry, IndexedAtomData{Index: idx, Data: data})
			b.trace.Log(tracelog.Event{
				TraceID: b.traceID,
				Kind:    tracelog.KindAtomRegistered,
				Subject: ap.Element,
				Detail:  fmt.Sprintf("index=%d", idx),
			})
		}
		b.positions[idx] = append(b.positions[idx], [3]float64{ap.X, ap.Y, ap.Z})
	}
	assignDisplayLabels(b.registry)

	if raw.HasDebyeGlobal {
		b.debyeGlobal = raw.DebyeTempGlobal
		for _, e := range b.registry {
			b.debyeTemps[e.Index] = raw.DebyeTempGlobal
		}
	} else {
		for _, entry := range raw.DebyeTempPerElem {
			if idx, ok := b.roleIndex[entry.Element]; ok {
				b.debyeTemps[idx] = entry.Value
			}
		}
	}
	return nil
}

func (b *Builder) buildStructureInfo(raw *matfmt.RawMaterialData) {
	if !raw.Cell.HasCell() {
		return
	}
	l, a := raw.Cell.Lengths, raw.Cell.Angles
	b.structure = &StructureInfo{
		SpaceGroup: raw.SpaceGroup,
		A:          l[0],
		B:          l[1],
		C:          l[2],
		Alpha:      a[0],
		Beta:       a[1],
		Gamma:      a[2],
		Volume:     cellVolume(l, a),
		NAtoms:     len(raw.AtomPositions),
	}
}

func (b *Builder) buildDynInfos(raw *matfmt.RawMaterialData) error {
	for _, rdi := range raw.DynInfos {
		idx, ok := b.roleIndex[rdi.Element]
		if !ok {
			return ncerr.NewBadInput("@DYNINFO element %q does not appear in @ATOMPOSITIONS", rdi.Element)
		}
		kind, err := dynInfoKindFor(rdi.Type)
		if err != nil {
			return err
		}
		di := &DynInfo{
			Kind:      kind,
			Fraction:  rdi.Fraction,
			Atom:      b.registry[idx],
			rawFields: rdi.Fields,
		}
		if kind == DynScatKnlDirect {
			di.trace = b.trace
			di.traceID = b.traceID
			di.subject = b.registry[idx].DisplayLabel
		}
		b.dynInfos = append(b.dynInfos, di)
	}
	return nil
}

func dynInfoKindFor(t matfmt.DynInfoType) (DynInfoKind, error) {
	switch t {
	case matfmt.DynInfoSterile:
		return DynSterile, nil
	case matfmt.DynInfoFreeGas:
		return DynFreeGas, nil
	case matfmt.DynInfoScatKnl:
		return DynScatKnlDirect, nil
	case matfmt.DynInfoVDOS:
		return DynScatKnlVDOS, nil
	case matfmt.DynInfoVDOSDebye:
		return DynScatKnlVDOSDebye, nil
	default:
		return 0, ncerr.NewBadInput("@DYNINFO block has no recognized type")
	}
}

func (b *Builder) resolveTemperature(cfg *cfgstr.Configuration) error {
	temp := defaultTemperatureKelvin
	if cfg != nil {
		t, err := cfg.GetDouble("temp")
		if err != nil {
			return err
		}
		if t != -1 {
			temp = t
		}
	}
	b.temperature = temp
	for _, d := range b.dynInfos {
		d.Temperature = temp
	}
	return nil
}

func (b *Builder) buildDensity(raw *matfmt.RawMaterialData) {
	if !raw.Density.IsSet() {
		return
	}
	meanMolarMass := b.meanMolarMass()
	if meanMolarMass <= 0 {
		return
	}
	switch raw.Density.Unit {
	case matfmt.AtomsPerAa3:
		b.numberDens = raw.Density.Value
		b.density = b.numberDens * meanMolarMass / AvogadroNumber * 1e24
	case matfmt.KgPerM3:
		b.density = raw.Density.Value / 1000.0
		b.numberDens = b.density * AvogadroNumber / meanMolarMass / 1e24
	}
}

func (b *Builder) meanMolarMass() float64 {
	total := b.totalAtomCount()
	if total == 0 {
		return 0
	}
	var sum float64
	for _, e := range b.registry {
		n := len(b.positions[e.Index])
		sum += float64(n) * e.Data.Mass
	}
	return sum / float64(total)
}

func (b *Builder) totalAtomCount() int {
	n := 0
	for _, p := range b.positions {
		n += len(p)
	}
	return n
}

func (b *Builder) buildCrossSections() {
	total := b.totalAtomCount()
	if total == 0 {
		return
	}
	for _, e := range b.registry {
		frac := float64(len(b.positions[e.Index])) / float64(total)
		b.xsAbs += frac * e.Data.AbsorptionXS
		b.xsFree += frac * e.Data.IncoherentXS
	}
}

func cellVolume(lengths, anglesDeg [3]float64) float64 {
	return latticeVolume(lengths[0], lengths[1], lengths[2], anglesDeg[0], anglesDeg[1], anglesDeg[2])
}

// Seal finalizes the builder into an immutable MaterialInfo: sorts the
// atom and HKL lists, computes composition, and assigns a fresh unique
// id. The Builder must not be used again afterward.
func (b *Builder) Seal() *MaterialInfo {
	m := &MaterialInfo{
		uniqueID:        nextUniqueID(),
		structure:       b.structure,
		dynInfoList:     b.dynInfos,
		registry:        b.registry,
		density:         b.density,
		numberDensity:   b.numberDens,
		temperature:     b.temperature,
		debyeTempGlobal: b.debyeGlobal,
		xsAbsorption:    b.xsAbs,
		xsFree:          b.xsFree,
		customSections:  b.customs,
	}

	total := b.totalAtomCount()
	for _, e := range b.registry {
		positions := b.positions[e.Index]
		entry := AtomListEntry{
			Atom:              e,
			NumberPerUnitCell: len(positions),
			DebyeTemp:         b.debyeTemps[e.Index],
			Positions:         positions,
		}
		m.atomList = append(m.atomList, entry)
		if total > 0 {
			m.composition = append(m.composition, CompositionEntry{
				Fraction: float64(len(positions)) / float64(total),
				Atom:     e,
			})
		}
	}
	sort.SliceStable(m.atomList, func(i, j int) bool {
		zi, zj := m.atomList[i].Atom.Data.Z, m.atomList[j].Atom.Data.Z
		if zi != zj {
			return zi > zj
		}
		return m.atomList[i].Atom.Index < m.atomList[j].Atom.Index
	})
	sort.SliceStable(m.composition, func(i, j int) bool {
		return m.composition[i].Atom.Index < m.composition[j].Atom.Index
	})

	sort.SliceStable(m.hklList, func(i, j int) bool {
		a, c := m.hklList[i], m.hklList[j]
		if a.DSpacing != c.DSpacing {
			return a.DSpacing > c.DSpacing
		}
		if a.H != c.H {
			return a.H < c.H
		}
		if a.K != c.K {
			return a.K < c.K
		}
		return a.L < c.L
	})

	return m
}
