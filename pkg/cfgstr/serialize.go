package cfgstr

import "strings"

// ToStrCfg renders the configuration back into its canonical string form:
// the source-name followed by every explicitly set parameter in
// alphabetical order, using each parameter's original textual
// representation where one was recorded.
func (c *Configuration) ToStrCfg() string {
	var sb strings.Builder
	c.withSpiesSuspended(func() {
		sb.WriteString(c.sourceName)
		for _, name := range sortedParamNames {
			v, ok := c.getRaw(name)
			if !ok {
				continue
			}
			sb.WriteByte(';')
			sb.WriteString(name)
			sb.WriteByte('=')
			sb.WriteString(v.ToStrRep(false))
		}
	})
	return sb.String()
}

// unsetSentinel marks a parameter with no code-level default that has
// also not been explicitly set, in CacheSignature output.
const unsetSentinel = "<>"

// CacheSignature renders every catalog parameter using full %.17g
// precision, so two configurations are cache-equivalent if and only if
// they produce byte-identical signatures. A parameter that was not
// explicitly set always renders as unsetSentinel, even when it has a
// code-level default — this keeps "not set" distinguishable from "set to
// a value that happens to canonicalize the same way as the default". The
// source-name and data-file identity are intentionally excluded; callers
// combine this with a content hash of the resolved data file.
func (c *Configuration) CacheSignature() string {
	var sb strings.Builder
	c.withSpiesSuspended(func() {
		for i, name := range sortedParamNames {
			if i > 0 {
				sb.WriteByte(';')
			}
			sb.WriteString(name)
			sb.WriteByte('=')
			v, ok := c.getRaw(name)
			if !ok {
				sb.WriteString(unsetSentinel)
				continue
			}
			sb.WriteString(v.ToStrRep(true))
		}
	})
	return sb.String()
}

// ToEmbeddableCfg renders the set of explicitly set parameters (excluding
// the source-name) wrapped as an NCRYSTALMATCFG[...] block suitable for
// embedding into a @CUSTOM_ section of a material description.
func (c *Configuration) ToEmbeddableCfg() string {
	var sb strings.Builder
	c.withSpiesSuspended(func() {
		sb.WriteString("NCRYSTALMATCFG[")
		first := true
		for _, name := range sortedParamNames {
			v, ok := c.getRaw(name)
			if !ok {
				continue
			}
			if !first {
				sb.WriteByte(';')
			}
			first = false
			sb.WriteString(name)
			sb.WriteByte('=')
			sb.WriteString(v.ToStrRep(false))
		}
		sb.WriteByte(']')
	})
	return sb.String()
}
