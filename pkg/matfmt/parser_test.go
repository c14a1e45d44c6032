package matfmt

import (
	"testing"

	"github.com/ncrystal-go/ncmat/pkg/ncerr"
	"github.com/ncrystal-go/ncmat/pkg/textinput"
	"github.com/stretchr/testify/require"
)

func parseString(t *testing.T, content string) (*RawMaterialData, error) {
	t.Helper()
	s := textinput.NewBufferStream("test.ncmat", content)
	return ParseAndValidate(s)
}

const minimalV1 = `NCMAT v1
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
`

func TestMinimalV1RejectsFractions(t *testing.T) {
	_, err := parseString(t, minimalV1)
	require.Error(t, err)
	require.Equal(t, ncerr.BadInput, ncerr.KindOf(err))
}

func TestMinimalV2Accepts(t *testing.T) {
	content := "NCMAT v2\n" + minimalV1[len("NCMAT v1\n"):]
	data, err := parseString(t, content)
	require.NoError(t, err)
	require.Equal(t, 2, data.Version)
	require.Equal(t, 225, data.SpaceGroup)
	require.Len(t, data.AtomPositions, 4)
	require.False(t, data.HasDebyeGlobal)
	require.Len(t, data.DebyeTempPerElem, 1)
	require.InDelta(t, 410, data.DebyeTempPerElem[0].Value, 1e-9)
}

func TestVersionGatingDynInfoRequiresV2(t *testing.T) {
	content := `NCMAT v1
@CELL
lengths 1 1 1
angles 90 90 90
@ATOMPOSITIONS
Al 0 0 0
@DYNINFO
element Al
fraction 1
type sterile
`
	_, err := parseString(t, content)
	require.Error(t, err)
}

func TestVersionGatingAtomDBRequiresV3(t *testing.T) {
	content := `NCMAT v2
@CELL
lengths 1 1 1
angles 90 90 90
@ATOMPOSITIONS
Al 0 0 0
@ATOMDB
nodefaults
`
	_, err := parseString(t, content)
	require.Error(t, err)
}

func TestDynInfoRepeatNotation(t *testing.T) {
	content := `NCMAT v3
@CELL
lengths 1 1 1
angles 90 90 90
@ATOMPOSITIONS
Al 0 0 0
@DYNINFO
element Al
fraction 1
type vdos
alphagrid 0 0.1 0.2 0.2r5 0.3
`
	data, err := parseString(t, content)
	require.NoError(t, err)
	require.Len(t, data.DynInfos, 1)
	got := data.DynInfos[0].Fields["alphagrid"]
	want := []float64{0, 0.1, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.3}
	require.Equal(t, want, got)
}

func TestDynInfoFractionSumTolerance(t *testing.T) {
	content := `NCMAT v3
@CELL
lengths 1 1 1
angles 90 90 90
@ATOMPOSITIONS
Al 0 0 0
Fe 0.5 0.5 0.5
@DYNINFO
element Al
fraction 0.5
type sterile
@DYNINFO
element Fe
fraction 0.4
type sterile
`
	_, err := parseString(t, content)
	require.Error(t, err)
}

func TestDuplicateSectionRejected(t *testing.T) {
	content := `NCMAT v2
@CELL
lengths 1 1 1
angles 90 90 90
@CELL
lengths 2 2 2
angles 90 90 90
@ATOMPOSITIONS
Al 0 0 0
`
	_, err := parseString(t, content)
	require.Error(t, err)
}

func TestMultipleDynInfoAndCustomSectionsAllowed(t *testing.T) {
	content := `NCMAT v3
@CELL
lengths 1 1 1
angles 90 90 90
@ATOMPOSITIONS
Al 0 0 0
Fe 0.5 0.5 0.5
@DYNINFO
element Al
fraction 0.5
type sterile
@DYNINFO
element Fe
fraction 0.5
type sterile
@CUSTOM_FOO
hello world
@CUSTOM_FOO
again
`
	data, err := parseString(t, content)
	require.NoError(t, err)
	require.Len(t, data.DynInfos, 2)
	require.Len(t, data.CustomSections, 2)
	require.Equal(t, []string{"hello", "world"}, data.CustomSections[0].Lines[0])
	require.Equal(t, []string{"again"}, data.CustomSections[1].Lines[0])
}

func TestDensityGramPerCm3Converted(t *testing.T) {
	content := `NCMAT v2
@CELL
lengths 1 1 1
angles 90 90 90
@ATOMPOSITIONS
Al 0 0 0
@DENSITY
2.7 g_per_cm3
`
	data, err := parseString(t, content)
	require.NoError(t, err)
	require.Equal(t, KgPerM3, data.Density.Unit)
	require.InDelta(t, 2700.0, data.Density.Value, 1e-9)
}

func TestParserDeterminism(t *testing.T) {
	content := "NCMAT v2\n" + minimalV1[len("NCMAT v1\n"):]
	d1, err1 := parseString(t, content)
	d2, err2 := parseString(t, content)
	require.NoError(t, err1)
	require.NoError(t, err2)
	require.Equal(t, d1, d2)
}

func TestV1CommentOnlyBeforeFirstSectionAtColumnZero(t *testing.T) {
	content := `NCMAT v1
# a leading comment
@CELL
lengths 1 1 1
angles 90 90 90
@ATOMPOSITIONS
Al 0 0 0
`
	_, err := parseString(t, content)
	require.NoError(t, err)

	content2 := `NCMAT v1
@CELL
lengths 1 1 1 # not allowed here
angles 90 90 90
@ATOMPOSITIONS
Al 0 0 0
`
	_, err = parseString(t, content2)
	require.Error(t, err)
}
