package matfmt

import (
	"github.com/ncrystal-go/ncmat/pkg/ncerr"
)

// tokenizedLine is the result of scanning one raw line of text.
type tokenizedLine struct {
	Tokens    []string
	HashIndex int // byte index of '#' in the original line, -1 if none
}

// tokenizeLine implements the byte-by-byte ASCII scanner for the material
// format's line grammar:
//
//   - Bytes outside comments must be ASCII 32-126 plus tab; '\r' is only
//     legal directly before end-of-line (i.e. the line came from a
//     "\r\n" source line ending, already stripped by the caller's line
//     splitting, or trailing in this string).
//   - '#' begins a comment extending to end of line; comment bytes may be
//     UTF-8 (only illegal control codes are still rejected there).
//   - Space and tab separate tokens.
func tokenizeLine(line string, source string, lineno int) (tokenizedLine, error) {
	// A raw "\r\n" source ending survives line-splitting as a trailing
	// '\r' in this string; strip exactly one, matching the "only legal
	// directly before \n" rule.
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}

	var tokens []string
	var cur []byte
	hashIndex := -1

	i := 0
	for ; i < len(line); i++ {
		c := line[i]
		if c == '#' {
			hashIndex = i
			break
		}
		if c == ' ' || c == '\t' {
			if len(cur) > 0 {
				tokens = append(tokens, string(cur))
				cur = cur[:0]
			}
			continue
		}
		if c == '\r' {
			return tokenizedLine{}, ncerr.NewBadInputAt(source, lineno, "stray carriage return not immediately before end of line")
		}
		if c < 32 || c == 127 {
			return tokenizedLine{}, ncerr.NewBadInputAt(source, lineno, "invalid character (byte 0x%02x)", c)
		}
		if c > 126 {
			return tokenizedLine{}, ncerr.NewBadInputAt(source, lineno, "non-ASCII byte outside comment (byte 0x%02x)", c)
		}
		cur = append(cur, c)
	}
	if len(cur) > 0 {
		tokens = append(tokens, string(cur))
	}

	if hashIndex >= 0 {
		// Only illegal control codes are checked in the comment tail;
		// UTF-8 high-bit bytes and '\r' (except mid-comment, still
		// requiring it precede end-of-line) are allowed.
		for j := hashIndex + 1; j < len(line); j++ {
			c := line[j]
			if c == '\r' {
				return tokenizedLine{}, ncerr.NewBadInputAt(source, lineno, "stray carriage return not immediately before end of line")
			}
			if (c < 32 && c != '\t') || c == 127 {
				return tokenizedLine{}, ncerr.NewBadInputAt(source, lineno, "invalid character in comment (byte 0x%02x)", c)
			}
		}
	}

	return tokenizedLine{Tokens: tokens, HashIndex: hashIndex}, nil
}
