package cfgstr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetAndGetDoubleUnitConversion(t *testing.T) {
	cfg, err := Parse("Al.ncmat;temp=300K")
	require.NoError(t, err)
	temp, err := cfg.GetDouble("temp")
	require.NoError(t, err)
	require.InDelta(t, 300.0, temp, 1e-9)

	cfg2, err := Parse("Al.ncmat;dirtol=0.5deg")
	require.NoError(t, err)
	dirtol, err := cfg2.GetDouble("dirtol")
	require.NoError(t, err)
	require.InDelta(t, 0.5*math.Pi/180, dirtol, 1e-9)
}

func TestDefaultsApplyWhenUnset(t *testing.T) {
	cfg, err := Parse("Al.ncmat")
	require.NoError(t, err)
	v, err := cfg.GetDouble("packfact")
	require.NoError(t, err)
	require.Equal(t, 1.0, v)
}

func TestMissingNoDefaultIsMissingInfo(t *testing.T) {
	cfg, err := Parse("Al.ncmat")
	require.NoError(t, err)
	_, err = cfg.GetDouble("mos")
	require.Error(t, err)
}

func TestCloneIsolatesMutation(t *testing.T) {
	cfg, err := Parse("Al.ncmat;packfact=0.5")
	require.NoError(t, err)
	clone, err := cfg.Clone()
	require.NoError(t, err)

	require.NoError(t, clone.Set("packfact", "0.9"))

	orig, err := cfg.GetDouble("packfact")
	require.NoError(t, err)
	require.Equal(t, 0.5, orig)

	cloned, err := clone.GetDouble("packfact")
	require.NoError(t, err)
	require.Equal(t, 0.9, cloned)
}

func TestCloneThenOriginalMutatesIndependently(t *testing.T) {
	cfg, err := Parse("Al.ncmat;packfact=0.5")
	require.NoError(t, err)
	clone, err := cfg.Clone()
	require.NoError(t, err)

	require.NoError(t, cfg.Set("packfact", "0.2"))

	cloned, err := clone.GetDouble("packfact")
	require.NoError(t, err)
	require.Equal(t, 0.5, cloned)
}

type recordingSpy struct{ accessed []string }

func (s *recordingSpy) ParAccessed(name string) { s.accessed = append(s.accessed, name) }

func TestSpyRecordsReadsAndBlocksMutation(t *testing.T) {
	cfg, err := Parse("Al.ncmat")
	require.NoError(t, err)
	spy := &recordingSpy{}
	cfg.InstallSpy(spy)

	_, err = cfg.GetDouble("packfact")
	require.NoError(t, err)
	require.Equal(t, []string{"packfact"}, spy.accessed)

	err = cfg.Set("packfact", "0.5")
	require.Error(t, err)

	_, err = cfg.Clone()
	require.Error(t, err)
}

func TestBraggAliasSetsCohElas(t *testing.T) {
	cfg, err := Parse("Al.ncmat;bragg=false")
	require.NoError(t, err)
	v, err := cfg.GetBool("coh_elas")
	require.NoError(t, err)
	require.False(t, v)
}

func TestElasAliasSetsBothElasticComponents(t *testing.T) {
	cfg, err := Parse("Al.ncmat;elas=false")
	require.NoError(t, err)
	coh, err := cfg.GetBool("coh_elas")
	require.NoError(t, err)
	incoh, err := cfg.GetBool("incoh_elas")
	require.NoError(t, err)
	require.False(t, coh)
	require.False(t, incoh)
}

func TestBkgdAliasOnlyAcceptsNone(t *testing.T) {
	_, err := Parse("Al.ncmat;bkgd=fancy")
	require.Error(t, err)

	cfg, err := Parse("Al.ncmat;bkgd=none")
	require.NoError(t, err)
	incoh, err := cfg.GetBool("incoh_elas")
	require.NoError(t, err)
	require.False(t, incoh)
	inelas, err := cfg.GetString("inelas")
	require.NoError(t, err)
	require.Equal(t, "none", inelas)
}

func TestUnknownParameterRejected(t *testing.T) {
	_, err := Parse("Al.ncmat;notaparam=1")
	require.Error(t, err)
}

func TestIgnoreFileCfgDuplicateRejected(t *testing.T) {
	_, err := Parse("Al.ncmat;ignorefilecfg;ignorefilecfg")
	require.Error(t, err)
}
