package cfgstr

import (
	"strings"

	"github.com/ncrystal-go/ncmat/pkg/ncerr"
)

// Option is one decoded sub-option of a factory-style string parameter
// value, either a bare flag ("mcbragg") or a key@value pair
// ("dyninfo_helper@fsq0.01").
type Option struct {
	Name   string
	Value  string
	IsFlag bool
}

// DecodeOpts splits a string parameter value shaped as
// "name:opt1:opt2@val2:opt3" into its leading name (when withName is true)
// and its colon-separated list of options. Each option is either a bare
// lowercase flag or a "key@value" pair; duplicate option names are
// rejected.
func DecodeOpts(s string, withName bool) (name string, opts []Option, err error) {
	parts := strings.Split(s, ":")
	idx := 0
	if withName {
		name = parts[0]
		idx = 1
	}
	seen := make(map[string]bool)
	for _, seg := range parts[idx:] {
		if seg == "" {
			return "", nil, ncerr.NewBadInput("empty sub-option in %q", s)
		}
		var opt Option
		if at := strings.IndexByte(seg, '@'); at >= 0 {
			opt.Name, opt.Value = seg[:at], seg[at+1:]
			if opt.Value == "" {
				return "", nil, ncerr.NewBadInput("sub-option %q has an empty value", seg)
			}
			if strings.ContainsAny(opt.Value, "<>:=") {
				return "", nil, ncerr.NewBadInput("sub-option value %q contains a reserved character", opt.Value)
			}
		} else {
			opt.Name, opt.IsFlag = seg, true
		}
		if !isLowerKeyName(opt.Name) {
			return "", nil, ncerr.NewBadInput("invalid sub-option name %q", opt.Name)
		}
		if seen[opt.Name] {
			return "", nil, ncerr.NewBadInput("duplicate sub-option %q in %q", opt.Name, s)
		}
		seen[opt.Name] = true
		opts = append(opts, opt)
	}
	return name, opts, nil
}

func isLowerKeyName(s string) bool {
	if s == "" {
		return false
	}
	if s[0] < 'a' || s[0] > 'z' {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_') {
			return false
		}
	}
	return true
}
