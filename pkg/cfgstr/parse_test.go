package cfgstr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSourceNameOnly(t *testing.T) {
	cfg, err := Parse("Al_sg225.ncmat")
	require.NoError(t, err)
	require.Equal(t, "Al_sg225.ncmat", cfg.SourceName())
}

func TestParseEmptyStringRejected(t *testing.T) {
	_, err := Parse("")
	require.Error(t, err)
}

func TestParseMissingEqualsRejected(t *testing.T) {
	_, err := Parse("Al.ncmat;temp")
	require.Error(t, err)
}

func TestExtractEmbeddedCfgFindsSingleBlock(t *testing.T) {
	body, found, err := ExtractEmbeddedCfg("some comment NCRYSTALMATCFG[temp=300K;packfact=0.9] trailing")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "temp=300K;packfact=0.9", body)
}

func TestExtractEmbeddedCfgEmptySentinel(t *testing.T) {
	body, found, err := ExtractEmbeddedCfg("NCRYSTALMATCFG[]")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "", body)
}

func TestExtractEmbeddedCfgNoneFound(t *testing.T) {
	_, found, err := ExtractEmbeddedCfg("just a regular comment line")
	require.NoError(t, err)
	require.False(t, found)
}

func TestExtractEmbeddedCfgDuplicateBlocksRejected(t *testing.T) {
	_, _, err := ExtractEmbeddedCfg("NCRYSTALMATCFG[temp=300K] and again NCRYSTALMATCFG[packfact=0.5]")
	require.Error(t, err)
}

func TestExtractEmbeddedCfgDuplicateEmptyBlocksRejected(t *testing.T) {
	_, _, err := ExtractEmbeddedCfg("NCRYSTALMATCFG[] and again NCRYSTALMATCFG[]")
	require.Error(t, err)
}

func TestParseEmbeddedAppliesOnTopOfConfiguration(t *testing.T) {
	cfg, err := Parse("Al.ncmat")
	require.NoError(t, err)
	require.NoError(t, ParseEmbedded(cfg, "temp=300K;packfact=0.9"))
	temp, err := cfg.GetDouble("temp")
	require.NoError(t, err)
	require.InDelta(t, 300.0, temp, 1e-9)
}

func TestParseEmbeddedIgnoredWhenBodyEmpty(t *testing.T) {
	cfg, err := Parse("Al.ncmat")
	require.NoError(t, err)
	require.NoError(t, ParseEmbedded(cfg, ""))
}

func TestParseEmbeddedLeavesExplicitParamsUntouched(t *testing.T) {
	cfg, err := Parse("Al.ncmat;temp=300K")
	require.NoError(t, err)
	require.NoError(t, ParseEmbedded(cfg, "temp=250K;packfact=0.9"))

	temp, err := cfg.GetDouble("temp")
	require.NoError(t, err)
	require.InDelta(t, 300.0, temp, 1e-9)

	packfact, err := cfg.GetDouble("packfact")
	require.NoError(t, err)
	require.InDelta(t, 0.9, packfact, 1e-9)
}

func TestApplyEmbeddedConfigAppliesBlockFromFileContent(t *testing.T) {
	cfg, err := Parse("Al.ncmat")
	require.NoError(t, err)
	require.NoError(t, ApplyEmbeddedConfig(cfg, "NCMAT v1\n# NCRYSTALMATCFG[temp=250K]\n"))

	temp, err := cfg.GetDouble("temp")
	require.NoError(t, err)
	require.InDelta(t, 250.0, temp, 1e-9)
}

func TestApplyEmbeddedConfigSkippedWhenIgnoreFileCfgSet(t *testing.T) {
	cfg, err := Parse("Al.ncmat;ignorefilecfg")
	require.NoError(t, err)
	require.NoError(t, ApplyEmbeddedConfig(cfg, "NCMAT v1\n# NCRYSTALMATCFG[temp=250K]\n"))

	require.False(t, cfg.HasPar("temp"))
}

func TestDecodeOptsFlagsAndKeyValues(t *testing.T) {
	name, opts, err := DecodeOpts("myfactory:mcbragg:helper@fsq0.01", true)
	require.NoError(t, err)
	require.Equal(t, "myfactory", name)
	require.Len(t, opts, 2)
	require.Equal(t, "mcbragg", opts[0].Name)
	require.True(t, opts[0].IsFlag)
	require.Equal(t, "helper", opts[1].Name)
	require.Equal(t, "fsq0.01", opts[1].Value)
}

func TestDecodeOptsRejectsDuplicate(t *testing.T) {
	_, _, err := DecodeOpts("myfactory:mcbragg:mcbragg", true)
	require.Error(t, err)
}
