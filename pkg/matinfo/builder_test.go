package matinfo

import (
	"testing"

	"github.com/ncrystal-go/ncmat/pkg/cfgstr"
	"github.com/ncrystal-go/ncmat/pkg/matfmt"
	"github.com/ncrystal-go/ncmat/pkg/ncerr"
	"github.com/ncrystal-go/ncmat/pkg/textinput"
	"github.com/stretchr/testify/require"
)

const alV2 = `NCMAT v2
@CELL
lengths 4.04958 4.04958 4.04958
angles 90 90 90
@SPACEGROUP
225
@ATOMPOSITIONS
Al 0 0 0
Al 0 1/2 1/2
Al 1/2 0 1/2
Al 1/2 1/2 0
@DEBYETEMPERATURE
Al 410
@DENSITY
2.7 g_per_cm3
`

func mustParse(t *testing.T, content string) *matfmt.RawMaterialData {
	t.Helper()
	s := textinput.NewBufferStream("test.ncmat", content)
	data, err := matfmt.ParseAndValidate(s)
	require.NoError(t, err)
	return data
}

func TestBuilderMinimalAluminium(t *testing.T) {
	raw := mustParse(t, alV2)
	cfg, err := cfgstr.Parse("test.ncmat")
	require.NoError(t, err)

	b := NewBuilder()
	require.NoError(t, b.LoadRaw(raw, cfg))
	mi := b.Seal()

	require.Len(t, mi.AtomList(), 1)
	entry := mi.AtomList()[0]
	require.Equal(t, 4, entry.NumberPerUnitCell)
	require.InDelta(t, 410.0, entry.DebyeTemp, 1e-9)
	require.Equal(t, "Al", entry.Atom.DisplayLabel)

	require.Len(t, mi.Composition(), 1)
	require.InDelta(t, 1.0, mi.Composition()[0].Fraction, 1e-9)

	require.NotNil(t, mi.StructureInfo())
	require.Equal(t, 225, mi.StructureInfo().SpaceGroup)
	require.Equal(t, 4, mi.StructureInfo().NAtoms)

	require.InDelta(t, 2.7, mi.Density(), 1e-6)
	require.Greater(t, mi.NumberDensity(), 0.0)
}

func TestBuilderUniqueIDsAreDistinctAndIncreasing(t *testing.T) {
	raw := mustParse(t, alV2)
	cfg, err := cfgstr.Parse("test.ncmat")
	require.NoError(t, err)

	b1 := NewBuilder()
	require.NoError(t, b1.LoadRaw(raw, cfg))
	m1 := b1.Seal()

	b2 := NewBuilder()
	require.NoError(t, b2.LoadRaw(raw, cfg))
	m2 := b2.Seal()

	require.Greater(t, m2.UniqueID(), m1.UniqueID())
}

func TestBuilderDisplayLabelDisambiguation(t *testing.T) {
	content := `NCMAT v3
@CELL
lengths 1 1 1
angles 90 90 90
@ATOMPOSITIONS
H 0 0 0
2H 0.5 0.5 0.5
@ATOMDB
2H is D
`
	raw := mustParse(t, content)
	cfg, err := cfgstr.Parse("test.ncmat")
	require.NoError(t, err)

	b := NewBuilder()
	require.NoError(t, b.LoadRaw(raw, cfg))
	mi := b.Seal()

	labels := make(map[string]bool)
	for _, e := range mi.AtomRegistry() {
		require.False(t, labels[e.DisplayLabel], "display labels must be unique")
		labels[e.DisplayLabel] = true
	}
	require.Len(t, labels, 2)
}

func TestBuilderUnknownElementIsCalcError(t *testing.T) {
	content := `NCMAT v1
@CELL
lengths 1 1 1
angles 90 90 90
@ATOMPOSITIONS
Zz 0 0 0
`
	raw := mustParse(t, content)
	cfg, err := cfgstr.Parse("test.ncmat")
	require.NoError(t, err)

	b := NewBuilder()
	err = b.LoadRaw(raw, cfg)
	require.Error(t, err)
	require.Equal(t, ncerr.CalcError, ncerr.KindOf(err))
}

func TestScatKnlDirectKernelBuildsOnce(t *testing.T) {
	content := `NCMAT v3
@CELL
lengths 1 1 1
angles 90 90 90
@ATOMPOSITIONS
Al 0 0 0
@DYNINFO
element Al
fraction 1
type scatknl
alphagrid 0 0.1 0.2
betagrid -1 0 1
sab 1 2 3 4 5 6 7 8 9
`
	raw := mustParse(t, content)
	cfg, err := cfgstr.Parse("test.ncmat")
	require.NoError(t, err)

	b := NewBuilder()
	require.NoError(t, b.LoadRaw(raw, cfg))
	mi := b.Seal()
	require.Len(t, mi.DynInfoList(), 1)
	di := mi.DynInfoList()[0]
	require.Equal(t, DynScatKnlDirect, di.Kind)

	k1, err := di.Kernel()
	require.NoError(t, err)
	k2, err := di.Kernel()
	require.NoError(t, err)
	require.Same(t, k1, k2)
	require.Equal(t, []float64{0, 0.1, 0.2}, k1.AlphaGrid)
}
