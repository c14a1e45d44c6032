// Package matinfo assembles a validated Raw Material Data record and a
// resolved Configuration into an immutable, sealed Material Info: the
// atom registry, sorted atom and HKL lists, composition, dynamic-info
// variants, and the scalar summary values consumed by downstream physics
// factories.
package matinfo

import (
	"sync"
	"sync/atomic"

	"github.com/ncrystal-go/ncmat/pkg/atomdata"
	"github.com/ncrystal-go/ncmat/pkg/matfmt"
	"github.com/ncrystal-go/ncmat/pkg/tracelog"
)

// AtomIndex is a dense identifier assigned to each distinct atom role
// during a build, unique within a single Material Info.
type AtomIndex uint32

// IndexedAtomData pairs a shared atom-data reference with its assigned
// AtomIndex and disambiguated display label.
type IndexedAtomData struct {
	Index        AtomIndex
	Data         atomdata.AtomData
	DisplayLabel string
}

// AtomListEntry is one entry of MaterialInfo.AtomList.
type AtomListEntry struct {
	Atom                   IndexedAtomData
	NumberPerUnitCell      int
	DebyeTemp              float64 // 0 if not specified for this atom role
	Positions              [][3]float64
	MeanSquareDisplacement float64
}

// HKL is one entry of MaterialInfo.HKLList.
type HKL struct {
	H, K, L      int
	DSpacing     float64
	Multiplicity int
}

// DynInfoKind identifies which DynInfo payload variant is populated.
type DynInfoKind int

const (
	DynSterile DynInfoKind = iota
	DynFreeGas
	DynScatKnlDirect
	DynScatKnlVDOS
	DynScatKnlVDOSDebye
)

func (k DynInfoKind) String() string {
	switch k {
	case DynSterile:
		return "sterile"
	case DynFreeGas:
		return "freegas"
	case DynScatKnlDirect:
		return "scatknl-direct"
	case DynScatKnlVDOS:
		return "scatknl-vdos"
	case DynScatKnlVDOSDebye:
		return "scatknl-vdosdebye"
	default:
		return "unknown"
	}
}

// ScatteringKernel is the normalized scattering-kernel artifact lazily
// built for DynScatKnlDirect entries. Its numerical content is out of
// scope here; it exists as the published, immutable result of the
// once-only build guarded by DynInfo's kernel mutex.
type ScatteringKernel struct {
	AlphaGrid []float64
	BetaGrid  []float64
	Sab       []float64
}

// DynInfo is one polymorphic dynamic-info entry. For Kind ==
// DynScatKnlDirect, Kernel() lazily builds and caches a ScatteringKernel
// the first time it's requested; all subsequent callers observe the same
// finished artifact.
type DynInfo struct {
	Kind        DynInfoKind
	Fraction    float64
	Atom        IndexedAtomData
	Temperature float64

	rawFields map[string][]float64

	kernelOnce  sync.Mutex
	kernelBuilt bool
	kernel      *ScatteringKernel

	trace   tracelog.Logger
	traceID string
	subject string
}

// Kernel returns the lazily built scattering kernel for a
// DynScatKnlDirect entry. It is a logic error to call this on any other
// Kind. The first caller to reach the once-cell emits a
// KindKernelBuildStart/KindKernelBuildDone pair around the build;
// subsequent callers observe the published result without emitting
// anything.
func (d *DynInfo) Kernel() (*ScatteringKernel, error) {
	if d.Kind != DynScatKnlDirect {
		return nil, errNotScatKnlDirect
	}
	d.kernelOnce.Lock()
	defer d.kernelOnce.Unlock()
	if !d.kernelBuilt {
		trace := d.trace
		if trace == nil {
			trace = tracelog.NoOp
		}
		trace.Log(tracelog.Event{TraceID: d.traceID, Kind: tracelog.KindKernelBuildStart, Subject: d.subject, Detail: "building direct scattering kernel"})
		d.kernel = buildScatteringKernel(d.rawFields)
		d.kernelBuilt = true
		trace.Log(tracelog.Event{TraceID: d.traceID, Kind: tracelog.KindKernelBuildDone, Subject: d.subject, Detail: "direct scattering kernel published"})
	}
	return d.kernel, nil
}

// CompositionEntry is one entry of MaterialInfo.Composition.
type CompositionEntry struct {
	Fraction float64
	Atom     IndexedAtomData
}

// StructureInfo carries the crystallographic summary, when the input
// specified a full unit cell. SpaceGroup is 0 when the input had no
// @SPACEGROUP section.
type StructureInfo struct {
	SpaceGroup         int
	A, B, C            float64
	Alpha, Beta, Gamma float64
	Volume             float64
	NAtoms             int
}

// MaterialInfo is the immutable, sealed record produced by Builder.Seal.
// No exported method mutates a MaterialInfo; every list is fixed at seal
// time.
type MaterialInfo struct {
	uniqueID uint64

	structure *StructureInfo

	atomList []AtomListEntry
	hklList  []HKL
	dLower, dUpper float64

	dynInfoList []*DynInfo
	composition []CompositionEntry
	registry    []IndexedAtomData

	density          float64 // g/cm3
	numberDensity    float64 // atoms/Aa3
	temperature      float64 // K
	debyeTempGlobal  float64 // K, 0 if unset
	xsAbsorption     float64 // barn
	xsFree           float64 // barn

	customSections []matfmt.CustomSection
}

var uniqueIDCounter atomic.Uint64

func nextUniqueID() uint64 { return uniqueIDCounter.Add(1) }

func (m *MaterialInfo) UniqueID() uint64 { return m.uniqueID }
func (m *MaterialInfo) StructureInfo() *StructureInfo { return m.structure }
func (m *MaterialInfo) AtomList() []AtomListEntry { return m.atomList }
func (m *MaterialInfo) HKLList() []HKL { return m.hklList }
func (m *MaterialInfo) DSpacingBounds() (lower, upper float64) { return m.dLower, m.dUpper }
func (m *MaterialInfo) DynInfoList() []*DynInfo { return m.dynInfoList }
func (m *MaterialInfo) Composition() []CompositionEntry { return m.composition }
func (m *MaterialInfo) AtomRegistry() []IndexedAtomData { return m.registry }
func (m *MaterialInfo) Density() float64 { return m.density }
func (m *MaterialInfo) NumberDensity() float64 { return m.numberDensity }
func (m *MaterialInfo) Temperature() float64 { return m.temperature }
func (m *MaterialInfo) DebyeTempGlobal() float64 { return m.debyeTempGlobal }
func (m *MaterialInfo) HasDebyeTempGlobal() bool { return m.debyeTempGlobal > 0 }
func (m *MaterialInfo) XSAbsorption() float64 { return m.xsAbsorption }
func (m *MaterialInfo) XSFree() float64 { return m.xsFree }
func (m *MaterialInfo) CustomSections() []matfmt.CustomSection { return m.customSections }

// AtomByIndex looks up an entry of the atom registry by its AtomIndex.
func (m *MaterialInfo) AtomByIndex(idx AtomIndex) (IndexedAtomData, bool) {
	if int(idx) < 0 || int(idx) >= len(m.registry) {
		return IndexedAtomData{}, false
	}
	return m.registry[idx], true
}
