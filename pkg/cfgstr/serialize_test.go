package cfgstr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToStrCfgAlphabeticalAndOnlySetParams(t *testing.T) {
	cfg, err := Parse("Al.ncmat;temp=300K;packfact=0.9")
	require.NoError(t, err)
	str := cfg.ToStrCfg()
	require.True(t, strings.HasPrefix(str, "Al.ncmat;"))
	require.Less(t, strings.Index(str, "packfact"), strings.Index(str, "temp"))
	require.NotContains(t, str, "dcutoff=")
}

func TestToStrCfgRoundTrip(t *testing.T) {
	cfg, err := Parse("Al.ncmat;temp=300K;packfact=0.9")
	require.NoError(t, err)
	str := cfg.ToStrCfg()
	cfg2, err := Parse(str)
	require.NoError(t, err)
	require.Equal(t, cfg.CacheSignature(), cfg2.CacheSignature())
}

func TestCacheSignatureUsesUnsetSentinelForNoDefaultParams(t *testing.T) {
	cfg, err := Parse("Al.ncmat")
	require.NoError(t, err)
	sig := cfg.CacheSignature()
	require.Contains(t, sig, "mos=<>")
	require.Contains(t, sig, "dir1=<>")
}

func TestCacheSignatureUsesUnsetSentinelEvenForDefaultedParams(t *testing.T) {
	unset, err := Parse("Al.ncmat")
	require.NoError(t, err)
	explicit, err := Parse("Al.ncmat;packfact=1.0")
	require.NoError(t, err)

	require.Contains(t, unset.CacheSignature(), "packfact=<>")
	require.NotContains(t, explicit.CacheSignature(), "packfact=<>")
	require.NotEqual(t, unset.CacheSignature(), explicit.CacheSignature())
}

func TestCacheSignatureStableAcrossEquivalentUnitSpellings(t *testing.T) {
	cfg1, err := Parse("Al.ncmat;dirtol=0.5deg;mos=0.5deg;dir1=@crys:1,0,0@lab:0,0,1;dir2=@crys:0,1,0@lab:0,1,0")
	require.NoError(t, err)
	cfg2, err := Parse("Al.ncmat;dirtol=0.008726646259971648rad;mos=0.008726646259971648rad;dir1=@crys:1,0,0@lab:0,0,1;dir2=@crys:0,1,0@lab:0,1,0")
	require.NoError(t, err)
	require.Equal(t, cfg1.CacheSignature(), cfg2.CacheSignature())
}

func TestToEmbeddableCfgExcludesSourceName(t *testing.T) {
	cfg, err := Parse("Al.ncmat;temp=300K")
	require.NoError(t, err)
	embed := cfg.ToEmbeddableCfg()
	require.True(t, strings.HasPrefix(embed, "NCRYSTALMATCFG["))
	require.True(t, strings.HasSuffix(embed, "]"))
	require.NotContains(t, embed, "Al.ncmat")
	require.Contains(t, embed, "temp=300K")
}
