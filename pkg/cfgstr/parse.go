package cfgstr

import (
	"strings"

	"github.com/ncrystal-go/ncmat/pkg/ncerr"
)

// Parse parses a full configuration string of the shape
// "<source>[;ignorefilecfg][;key=value]..." and returns a freshly built
// Configuration. The source-name is taken verbatim up to the first ';'.
func Parse(cfgStr string) (*Configuration, error) {
	trimmed := strings.TrimSpace(cfgStr)
	if trimmed == "" {
		return nil, ncerr.NewBadInput("empty configuration string")
	}
	if err := containsForbidden(trimmed, ""); err != nil {
		return nil, err
	}
	parts := strings.Split(trimmed, ";")
	cfg := newConfiguration(strings.TrimSpace(parts[0]))
	if cfg.sourceName == "" {
		return nil, ncerr.NewBadInput("configuration string has an empty source-name")
	}
	if strings.IndexByte(cfg.sourceName, '=') >= 0 {
		return nil, ncerr.NewBadInput("source-name %q must not contain '='", cfg.sourceName)
	}

	sawIgnoreFileCfg := false
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if part == "ignorefilecfg" {
			if sawIgnoreFileCfg {
				return nil, ncerr.NewBadInput("\"ignorefilecfg\" specified more than once")
			}
			sawIgnoreFileCfg = true
			cfg.ignoredFileCfg = true
			continue
		}
		eq := strings.IndexByte(part, '=')
		if eq < 0 {
			return nil, ncerr.NewBadInput("expected \"key=value\" or \"ignorefilecfg\", got %q", part)
		}
		name := strings.TrimSpace(part[:eq])
		val := part[eq+1:]
		if err := cfg.Set(name, val); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

const embedMarker = "NCRYSTALMATCFG["

// ExtractEmbeddedCfg scans text (typically the full text of a resolved
// data file) for an "NCRYSTALMATCFG[...]" block. An empty block,
// NCRYSTALMATCFG[], is the documented sentinel meaning "this file
// intentionally embeds no configuration" and is reported as found with an
// empty body. Multiple occurrences are always an error, even if every
// occurrence after the first is itself empty — the sentinel marks "no
// configuration", not "no configuration, unless it turns out someone
// wrote it twice".
func ExtractEmbeddedCfg(text string) (body string, found bool, err error) {
	remaining := text
	for {
		idx := strings.Index(remaining, embedMarker)
		if idx < 0 {
			break
		}
		afterOpen := remaining[idx+len(embedMarker):]
		close := strings.IndexByte(afterOpen, ']')
		if close < 0 {
			return "", false, ncerr.NewBadInput("unterminated NCRYSTALMATCFG[ block")
		}
		candidate := afterOpen[:close]
		if found {
			return "", false, ncerr.NewBadInput("more than one NCRYSTALMATCFG[...] block found")
		}
		body, found = candidate, true
		remaining = afterOpen[close+1:]
	}
	return body, found, nil
}

// ParseEmbedded applies the parameters found in an ExtractEmbeddedCfg body
// on top of an already-constructed Configuration, without touching its
// source-name. A parameter cfg already has explicitly set is left
// untouched: explicit configuration-string parameters always take
// precedence over the embedded ones, regardless of call order.
func ParseEmbedded(cfg *Configuration, body string) error {
	if strings.TrimSpace(body) == "" {
		return nil
	}
	for _, part := range strings.Split(body, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		eq := strings.IndexByte(part, '=')
		if eq < 0 {
			return ncerr.NewBadInput("expected \"key=value\" in embedded configuration, got %q", part)
		}
		name := strings.TrimSpace(part[:eq])
		if cfg.HasPar(name) {
			continue
		}
		val := part[eq+1:]
		if err := cfg.Set(name, val); err != nil {
			return err
		}
	}
	return nil
}

// ApplyEmbeddedConfig scans fileContent (the full text of the resolved
// data file) for an NCRYSTALMATCFG[...] block and applies it to cfg,
// unless "ignorefilecfg" was given in the configuration string. Callers
// resolving a real data file should use this instead of orchestrating
// ExtractEmbeddedCfg and ParseEmbedded by hand.
func ApplyEmbeddedConfig(cfg *Configuration, fileContent string) error {
	if cfg.IgnoreFileCfg() {
		return nil
	}
	body, found, err := ExtractEmbeddedCfg(fileContent)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	return ParseEmbedded(cfg, body)
}
