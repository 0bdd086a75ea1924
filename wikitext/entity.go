package wikitext

import (
	"strconv"
	"unicode/utf8"

	"github.com/smasher164/xid"
	"golang.org/x/net/html"
)

// decodeEntityAt attempts to parse an HTML/XML entity reference beginning at
// buf[pos], which must be '&'. It returns the text to emit (the decoded
// scalar on success, the literal source run on failure) and the number of
// bytes consumed starting at pos.
//
// consumed == 0 means the buffer does not yet hold enough bytes to decide
// and closed is false: the caller should wait for more input via Feed.
func decodeEntityAt(buf []byte, pos int, closed bool) (text string, consumed int) {
	n := len(buf)
	i := pos + 1

	if i < n && buf[i] == '#' {
		i++
		hex := false
		if i < n && (buf[i] == 'x' || buf[i] == 'X') {
			hex = true
			i++
		}
		digitsStart := i
		for i < n && isEntityDigit(buf[i], hex) {
			i++
		}
		if i == n && !closed {
			return "", 0
		}
		term := i
		if term < n && buf[term] == ';' {
			term++
		}
		if i == digitsStart {
			return string(buf[pos:term]), term - pos
		}
		base := 10
		if hex {
			base = 16
		}
		cp, err := strconv.ParseInt(string(buf[digitsStart:i]), base, 32)
		if err == nil && cp > 0 && cp <= utf8.MaxRune {
			return string(rune(cp)), term - pos
		}
		return string(buf[pos:term]), term - pos
	}

	nameStart := i
	for i < n && isEntityNameChar(rune(buf[i])) {
		i++
	}
	if i == n && !closed {
		return "", 0
	}
	term := i
	if term < n && buf[term] == ';' {
		term++
	}
	raw := string(buf[pos:term])
	if i > nameStart {
		if decoded, ok := decodeNamedEntity(raw); ok {
			return decoded, term - pos
		}
	}
	return raw, term - pos
}

// decodeNamedEntity decodes a full "&name;" (or "&name", unterminated) run
// using the same entity table the standard HTML tokenizer uses. ok is false
// when the run did not name a recognised entity, in which case the caller
// falls back to emitting it as literal text.
func decodeNamedEntity(raw string) (string, bool) {
	unescaped := html.UnescapeString(raw)
	if unescaped == raw {
		return "", false
	}
	// html.UnescapeString also decodes a legacy name that is only a prefix
	// of the run ("&notanentity" becomes "¬anentity"), copying the rest of
	// the run through; such a partial match does not count. Legacy names
	// are at most 6 characters, so raw[:j] never needs to exceed 7 bytes.
	for j := 3; j < len(raw) && j <= 7; j++ {
		if html.UnescapeString(raw[:j])+raw[j:] == unescaped {
			return "", false
		}
	}
	return unescaped, true
}

func isEntityDigit(b byte, hex bool) bool {
	if b >= '0' && b <= '9' {
		return true
	}
	if !hex {
		return false
	}
	return (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// isEntityNameChar classifies characters that may appear in a named entity
// reference. Real HTML entity names are ASCII, but xid.Continue gives a
// conservative, Unicode-aware continuation test so non-ASCII input never
// trips up the scan.
func isEntityNameChar(r rune) bool {
	return xid.Continue(r)
}
