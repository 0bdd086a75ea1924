package wikitext

import (
	"bytes"
	"strings"

	"github.com/smasher164/xid"
)

// lineMode tracks which of the tokenizer's line-oriented top-level states
// (BOD, BOL, MAIN) governs the next character. COMMENT is tracked
// separately (inComment) since it can be entered from MAIN regardless of
// line position and must survive across EOL.
type lineMode int

const (
	modeBOD lineMode = iota
	modeBOL
	modeMain
)

// Tokenizer is the hand-written streaming scanner described in §4.1: a
// character-by-character state machine that turns fed-in wikitext bytes
// into a positioned stream of (pos, Token) and (pos, text) events, delivered
// synchronously via the OnToken/OnText callbacks as soon as enough input has
// been buffered to resolve each marker.
//
// A Tokenizer is not safe for concurrent use; one instance belongs to one
// parse.
type Tokenizer struct {
	OnToken func(pos int, tok Token)
	OnText  func(pos int, text string)

	buf    []byte
	pos    int // cursor into buf
	base   int // absolute offset of buf[0] in the logical input stream
	closed bool

	lineMode lineMode
	inNoWiki bool
	inComment bool

	pendingText []byte
	pendingPos  int
}

// NewTokenizer constructs a Tokenizer that invokes onToken/onText as events
// are resolved. Either callback may be nil to discard that kind of event.
func NewTokenizer(onToken func(pos int, tok Token), onText func(pos int, text string)) *Tokenizer {
	return &Tokenizer{
		OnToken:  onToken,
		OnText:   onText,
		lineMode: modeBOD,
	}
}

// Feed appends chunk to the input and runs the state machine as far as the
// buffered bytes allow, emitting events along the way. Feed may be called
// any number of times with arbitrary chunk boundaries; markers that straddle
// a Feed call are resolved once enough bytes have arrived.
func (t *Tokenizer) Feed(chunk string) {
	t.buf = append(t.buf, chunk...)
	t.run()
	t.compact()
}

// Close flushes any pending text and any event the closing of the stream
// resolves (e.g. a trailing '<' with no more input becomes literal text).
// After Close, further Feed calls are undefined.
func (t *Tokenizer) Close() {
	t.closed = true
	t.run()
	t.flushPending()
}

func (t *Tokenizer) run() {
	for t.pos < len(t.buf) {
		before := t.pos
		modeBefore := t.lineMode
		commentBefore := t.inComment
		switch {
		case t.inComment:
			t.scanCommentBody()
		case t.lineMode == modeBOD:
			t.scanBOD()
		case t.lineMode == modeBOL:
			t.scanBOL()
		default:
			t.scanMain()
		}
		// A scan step can change lineMode/inComment without consuming a
		// byte (e.g. scanBOD's non-'#' path, scanBOL's whitespace-only-line
		// and default cases): that is forward progress in the state machine
		// even though t.pos didn't move, and must re-dispatch immediately
		// rather than wait for the next run() call. Only a lack of both
		// kinds of progress means the current marker needs more input.
		if t.pos == before && t.lineMode == modeBefore && t.inComment == commentBefore {
			return
		}
	}
}

// compact discards the already-consumed prefix of buf so memory does not
// grow without bound across a long Feed sequence, adjusting base so that
// absolute positions reported to callbacks stay correct.
func (t *Tokenizer) compact() {
	if t.pos == 0 {
		return
	}
	t.buf = t.buf[t.pos:]
	t.base += t.pos
	t.pos = 0
}

func (t *Tokenizer) absPosOf(i int) int { return t.base + i }

func (t *Tokenizer) emitToken(pos int, tok Token) {
	t.flushPending()
	if t.OnToken != nil {
		t.OnToken(pos, tok)
	}
}

func (t *Tokenizer) addText(pos int, s string) {
	if s == "" {
		return
	}
	if len(t.pendingText) == 0 {
		t.pendingPos = pos
	}
	t.pendingText = append(t.pendingText, s...)
}

func (t *Tokenizer) flushPending() {
	if len(t.pendingText) == 0 {
		return
	}
	text := string(t.pendingText)
	pos := t.pendingPos
	t.pendingText = t.pendingText[:0]
	if t.OnText != nil {
		t.OnText(pos, text)
	}
}

// --- BOD -------------------------------------------------------------

func (t *Tokenizer) scanBOD() {
	if t.pos >= len(t.buf) {
		return
	}
	if t.buf[t.pos] == '#' {
		start := t.pos
		i := t.pos + 1
		for i < len(t.buf) && isAlpha(t.buf[i]) {
			i++
		}
		if i == len(t.buf) && !t.closed {
			return
		}
		name := string(t.buf[start+1 : i])
		t.emitToken(t.absPosOf(start), Token{Type: Extension, Name: name})
		t.pos = i
		t.lineMode = modeMain
		return
	}
	t.lineMode = modeBOL
}

// --- BOL ---------------------------------------------------------------

func (t *Tokenizer) scanBOL() {
	if t.pos >= len(t.buf) {
		return
	}
	c := t.buf[t.pos]
	switch {
	case c == '\n':
		start := t.pos
		i := t.pos
		for i < len(t.buf) && t.buf[i] == '\n' {
			i++
		}
		if i == len(t.buf) && !t.closed {
			return
		}
		t.emitToken(t.absPosOf(start), Token{Type: PAR})
		t.pos = i
	case c == '-':
		start := t.pos
		i := t.pos
		for i < len(t.buf) && t.buf[i] == '-' {
			i++
		}
		if i == len(t.buf) && !t.closed {
			return
		}
		t.emitToken(t.absPosOf(start), Token{Type: HR})
		t.pos = i
		t.lineMode = modeMain
	case c == '|':
		if t.pos+1 >= len(t.buf) && !t.closed {
			return
		}
		start := t.pos
		tt := TableData
		consumed := 1
		if t.pos+1 < len(t.buf) {
			switch t.buf[t.pos+1] {
			case '}':
				tt, consumed = TableClose, 2
			case '+':
				tt, consumed = TableCaption, 2
			case '-':
				tt, consumed = TableRow, 2
			}
		}
		t.emitToken(t.absPosOf(start), Token{Type: tt})
		t.pos += consumed
		t.lineMode = modeMain
	case c == '!':
		t.emitToken(t.absPosOf(t.pos), Token{Type: TableHeader})
		t.pos++
		t.lineMode = modeMain
	case c == '=':
		t.scanEqualsRun()
		t.lineMode = modeMain
	case c == '*' || c == '#' || c == ':' || c == ';':
		start := t.pos
		i := t.pos
		for i < len(t.buf) && isItemizeChar(t.buf[i]) {
			i++
		}
		if i == len(t.buf) && !t.closed {
			return
		}
		t.emitToken(t.absPosOf(start), Token{Type: Itemize, Bullets: string(t.buf[start:i])})
		t.pos = i
		t.lineMode = modeMain
	case c == ' ' || c == '\t':
		start := t.pos
		i := t.pos
		for i < len(t.buf) && (t.buf[i] == ' ' || t.buf[i] == '\t') {
			i++
		}
		if i == len(t.buf) && !t.closed {
			return
		}
		if i < len(t.buf) && t.buf[i] != '\n' {
			t.emitToken(t.absPosOf(start), Token{Type: PRE})
			t.pos = i
			t.lineMode = modeMain
			return
		}
		// whitespace-only line: consumed as a BLANK run by the MAIN/BLANK
		// machinery, which naturally folds the following \n into EOL.
		t.lineMode = modeMain
	case c == '{':
		if t.pos+1 >= len(t.buf) && !t.closed {
			return
		}
		if t.pos+1 < len(t.buf) && t.buf[t.pos+1] == '|' {
			t.emitToken(t.absPosOf(t.pos), Token{Type: TableOpen})
			t.pos += 2
			t.lineMode = modeMain
			return
		}
		t.lineMode = modeMain
	default:
		t.lineMode = modeMain
	}
}

// scanEqualsRun counts a run of '=' and emits a Headline token. It is shared
// between BOL (the opening marker) and MAIN (the mirrored closing marker at
// end-of-line, per §4.1).
func (t *Tokenizer) scanEqualsRun() {
	start := t.pos
	i := t.pos
	for i < len(t.buf) && t.buf[i] == '=' {
		i++
	}
	if i == len(t.buf) && !t.closed {
		return
	}
	t.emitToken(t.absPosOf(start), Token{Type: Headline, Depth: i - start})
	t.pos = i
}

// --- MAIN ----------------------------------------------------------------

func (t *Tokenizer) scanMain() {
	if t.pos >= len(t.buf) {
		return
	}
	c := t.buf[t.pos]

	if c == '\n' {
		t.emitToken(t.absPosOf(t.pos), Token{Type: EOL})
		t.pos++
		t.lineMode = modeBOL
		return
	}

	if t.inNoWiki {
		switch c {
		case '<':
			t.scanTag()
		case '&':
			t.scanEntity()
		default:
			t.scanLiteralRun()
		}
		return
	}

	if isSpaceNonNL(c) {
		t.scanBlank()
		return
	}

	switch c {
	case '\'':
		t.scanQuotes()
	case '<':
		t.scanTag()
	case '&':
		t.scanEntity()
	case '{':
		t.scanBraceOpen()
	case '}':
		t.scanBraceClose()
	case '[':
		t.scanBracketOpen()
	case ']':
		t.scanBracketClose()
	case '|':
		t.scanBarSep()
	case '!':
		t.scanBangSep()
	case '=':
		t.scanEqualsRun()
	default:
		t.scanTextRun()
	}
}

func (t *Tokenizer) scanBlank() {
	start := t.pos
	i := t.pos
	for i < len(t.buf) && isSpaceNonNL(t.buf[i]) {
		i++
	}
	if i == len(t.buf) {
		if !t.closed {
			return
		}
		t.emitToken(t.absPosOf(start), Token{Type: BLANK, marker: string(t.buf[start:i])})
		t.pos = i
		return
	}
	if t.buf[i] == '\n' {
		t.emitToken(t.absPosOf(start), Token{Type: EOL})
		t.pos = i + 1
		t.lineMode = modeBOL
		return
	}
	t.emitToken(t.absPosOf(start), Token{Type: BLANK, marker: string(t.buf[start:i])})
	t.pos = i
}

func (t *Tokenizer) scanQuotes() {
	start := t.pos
	i := t.pos
	for i < len(t.buf) && t.buf[i] == '\'' {
		i++
	}
	if i == len(t.buf) && !t.closed {
		return
	}
	n := i - start
	switch {
	case n == 1:
		t.addText(t.absPosOf(start), "'")
	case n == 2:
		t.emitToken(t.absPosOf(start), Token{Type: QUOTE2})
	case n == 3:
		t.emitToken(t.absPosOf(start), Token{Type: QUOTE3})
	case n == 4:
		// Open question (i): four consecutive quotes are one QUOTE3 plus a
		// literal quote, rather than QUOTE2+QUOTE2 or a dropped marker.
		t.emitToken(t.absPosOf(start), Token{Type: QUOTE3})
		t.addText(t.absPosOf(start+3), "'")
	default: // n >= 5
		t.emitToken(t.absPosOf(start), Token{Type: QUOTE5})
		if n > 5 {
			t.addText(t.absPosOf(start+5), strings.Repeat("'", n-5))
		}
	}
	t.pos = i
}

func (t *Tokenizer) scanBraceOpen() {
	if t.pos+1 >= len(t.buf) && !t.closed {
		return
	}
	if t.pos+1 < len(t.buf) && t.buf[t.pos+1] == '{' {
		t.emitToken(t.absPosOf(t.pos), Token{Type: SpecialOpen})
		t.pos += 2
		return
	}
	t.addText(t.absPosOf(t.pos), "{")
	t.pos++
}

func (t *Tokenizer) scanBraceClose() {
	if t.pos+1 >= len(t.buf) && !t.closed {
		return
	}
	if t.pos+1 < len(t.buf) && t.buf[t.pos+1] == '}' {
		t.emitToken(t.absPosOf(t.pos), Token{Type: SpecialClose})
		t.pos += 2
		return
	}
	t.addText(t.absPosOf(t.pos), "}")
	t.pos++
}

func (t *Tokenizer) scanBracketOpen() {
	if t.pos+1 >= len(t.buf) && !t.closed {
		return
	}
	if t.pos+1 < len(t.buf) && t.buf[t.pos+1] == '[' {
		t.emitToken(t.absPosOf(t.pos), Token{Type: KeywordOpen})
		t.pos += 2
		return
	}
	t.emitToken(t.absPosOf(t.pos), Token{Type: LinkOpen})
	t.pos++
}

func (t *Tokenizer) scanBracketClose() {
	if t.pos+1 >= len(t.buf) && !t.closed {
		return
	}
	if t.pos+1 < len(t.buf) && t.buf[t.pos+1] == ']' {
		t.emitToken(t.absPosOf(t.pos), Token{Type: KeywordClose})
		t.pos += 2
		return
	}
	t.emitToken(t.absPosOf(t.pos), Token{Type: LinkClose})
	t.pos++
}

func (t *Tokenizer) scanBarSep() {
	if t.pos+1 >= len(t.buf) && !t.closed {
		return
	}
	if t.pos+1 < len(t.buf) && t.buf[t.pos+1] == '|' {
		t.emitToken(t.absPosOf(t.pos), Token{Type: TableDataSep})
		t.pos += 2
		return
	}
	t.emitToken(t.absPosOf(t.pos), Token{Type: BAR})
	t.pos++
}

func (t *Tokenizer) scanBangSep() {
	if t.pos+1 >= len(t.buf) && !t.closed {
		return
	}
	if t.pos+1 < len(t.buf) && t.buf[t.pos+1] == '!' {
		t.emitToken(t.absPosOf(t.pos), Token{Type: TableHeaderSep})
		t.pos += 2
		return
	}
	t.addText(t.absPosOf(t.pos), "!")
	t.pos++
}

// isMainSpecial is every byte scanMain dispatches on specially; everything
// else is plain text.
func isMainSpecial(c byte) bool {
	switch c {
	case '\'', '<', '&', '{', '}', '[', ']', '|', '!', '=':
		return true
	}
	return false
}

func (t *Tokenizer) scanTextRun() {
	start := t.pos
	i := t.pos
	for i < len(t.buf) {
		c := t.buf[i]
		if c == '\n' || isSpaceNonNL(c) || isMainSpecial(c) {
			break
		}
		i++
	}
	if i == len(t.buf) && !t.closed {
		return
	}
	if i > start {
		t.addText(t.absPosOf(start), string(t.buf[start:i]))
		t.pos = i
		return
	}
	// single byte that fell through every special-case dispatcher above
	// (shouldn't normally happen, but guarantees forward progress).
	t.addText(t.absPosOf(t.pos), string(t.buf[t.pos]))
	t.pos++
}

// scanLiteralRun is scanTextRun's nowiki-mode counterpart: everything is
// literal except '<', '&' and '\n'.
func (t *Tokenizer) scanLiteralRun() {
	start := t.pos
	i := t.pos
	for i < len(t.buf) {
		c := t.buf[i]
		if c == '<' || c == '&' || c == '\n' {
			break
		}
		i++
	}
	if i == len(t.buf) && !t.closed {
		return
	}
	if i > start {
		t.addText(t.absPosOf(start), string(t.buf[start:i]))
		t.pos = i
	}
}

func (t *Tokenizer) scanEntity() {
	text, n := decodeEntityAt(t.buf, t.pos, t.closed)
	if n == 0 {
		return
	}
	t.addText(t.absPosOf(t.pos), text)
	t.pos += n
}

// --- comments --------------------------------------------------------

func (t *Tokenizer) scanTag() {
	if t.pos+1 >= len(t.buf) {
		if !t.closed {
			return
		}
		t.addText(t.absPosOf(t.pos), string(t.buf[t.pos:]))
		t.pos = len(t.buf)
		return
	}
	switch t.buf[t.pos+1] {
	case '!':
		t.scanCommentOpen()
	case '/':
		t.scanEndTag()
	default:
		t.scanStartTag()
	}
}

func (t *Tokenizer) scanCommentOpen() {
	if len(t.buf) < t.pos+4 {
		if !t.closed {
			return
		}
		t.addText(t.absPosOf(t.pos), string(t.buf[t.pos:]))
		t.pos = len(t.buf)
		return
	}
	if string(t.buf[t.pos:t.pos+4]) != "<!--" {
		t.addText(t.absPosOf(t.pos), "<")
		t.pos++
		return
	}
	t.emitToken(t.absPosOf(t.pos), Token{Type: CommentOpen})
	t.pos += 4
	t.inComment = true
}

func (t *Tokenizer) scanCommentBody() {
	idx := bytes.Index(t.buf[t.pos:], []byte("-->"))
	if idx == -1 {
		if !t.closed {
			// Keep the last 2 bytes unconsumed: "-->" may straddle the next
			// Feed call's chunk boundary.
			safe := len(t.buf) - t.pos - 2
			if safe < 0 {
				safe = 0
			}
			if safe > 0 {
				t.addText(t.absPosOf(t.pos), string(t.buf[t.pos:t.pos+safe]))
				t.pos += safe
			}
			return
		}
		if t.pos < len(t.buf) {
			t.addText(t.absPosOf(t.pos), string(t.buf[t.pos:]))
			t.pos = len(t.buf)
		}
		return
	}
	if idx > 0 {
		t.addText(t.absPosOf(t.pos), string(t.buf[t.pos:t.pos+idx]))
	}
	t.pos += idx
	t.emitToken(t.absPosOf(t.pos), Token{Type: CommentClose})
	t.pos += 3
	t.inComment = false
}

// --- tags --------------------------------------------------------------

func (t *Tokenizer) scanEndTag() {
	i := t.pos + 2
	nameStart := i
	for i < len(t.buf) && isTagNameChar(rune(t.buf[i])) {
		i++
	}
	if i == len(t.buf) && !t.closed {
		return
	}
	nameEnd := i
	for i < len(t.buf) && isSpaceAny(t.buf[i]) {
		i++
	}
	if i == len(t.buf) && !t.closed {
		return
	}
	if i >= len(t.buf) || t.buf[i] != '>' {
		t.addText(t.absPosOf(t.pos), "<")
		t.pos++
		return
	}
	name := strings.ToLower(string(t.buf[nameStart:nameEnd]))
	startPos := t.absPosOf(t.pos)
	t.pos = i + 1
	if t.inNoWiki && isNoWikiTag(name) {
		t.inNoWiki = false
	}
	t.emitToken(startPos, Token{Type: XMLEndTag, Name: name})
}

func (t *Tokenizer) scanStartTag() {
	i := t.pos + 1
	nameStart := i
	for i < len(t.buf) && isTagNameChar(rune(t.buf[i])) {
		i++
	}
	if i == len(t.buf) && !t.closed {
		return
	}
	name := strings.ToLower(string(t.buf[nameStart:i]))

	var attrs []Attr
	selfClosing := false

	for {
		j := i
		for j < len(t.buf) && isSpaceAny(t.buf[j]) {
			j++
		}
		if j == len(t.buf) && !t.closed {
			return
		}
		if j >= len(t.buf) {
			t.addText(t.absPosOf(t.pos), string(t.buf[t.pos:]))
			t.pos = len(t.buf)
			return
		}
		if t.buf[j] == '/' {
			if j+1 >= len(t.buf) && !t.closed {
				return
			}
			if j+1 < len(t.buf) && t.buf[j+1] == '>' {
				selfClosing = true
				i = j + 2
				break
			}
			i = j + 1
			continue
		}
		if t.buf[j] == '>' {
			i = j + 1
			break
		}

		keyStart := j
		k := j
		for k < len(t.buf) && isAttrNameChar(rune(t.buf[k])) {
			k++
		}
		if k == len(t.buf) && !t.closed {
			return
		}
		if k == keyStart {
			// unexpected char inside tag; skip to guarantee progress
			i = j + 1
			continue
		}
		key := strings.ToLower(string(t.buf[keyStart:k]))

		m := k
		for m < len(t.buf) && isSpaceAny(t.buf[m]) {
			m++
		}
		if m == len(t.buf) && !t.closed {
			return
		}

		if m < len(t.buf) && t.buf[m] == '=' {
			m++
			for m < len(t.buf) && isSpaceAny(t.buf[m]) {
				m++
			}
			if m == len(t.buf) && !t.closed {
				return
			}
			if m >= len(t.buf) {
				t.addText(t.absPosOf(t.pos), string(t.buf[t.pos:]))
				t.pos = len(t.buf)
				return
			}
			var val string
			var consumed int
			var ok bool
			if t.buf[m] == '"' || t.buf[m] == '\'' {
				val, consumed, ok = t.scanQuotedAttrValue(m)
			} else {
				val, consumed, ok = t.scanUnquotedAttrValue(m)
			}
			if !ok {
				return
			}
			attrs = append(attrs, Attr{Key: key, Val: val})
			i = m + consumed
		} else {
			attrs = append(attrs, Attr{Key: key, Val: key})
			i = m
		}
	}

	startPos := t.absPosOf(t.pos)
	t.pos = i

	if !isValidTag(name) || selfClosing {
		t.emitToken(startPos, Token{Type: XMLEmptyTag, Name: name, Attrs: attrs, SelfClosing: true})
		return
	}
	t.emitToken(startPos, Token{Type: XMLStartTag, Name: name, Attrs: attrs})
	if isNoWikiTag(name) {
		t.inNoWiki = true
	}
}

func (t *Tokenizer) scanQuotedAttrValue(m int) (string, int, bool) {
	quote := t.buf[m]
	i := m + 1
	var val strings.Builder
	for i < len(t.buf) {
		c := t.buf[i]
		if c == quote {
			return val.String(), i + 1 - m, true
		}
		if c == '&' {
			text, n := decodeEntityAt(t.buf, i, t.closed)
			if n == 0 {
				return "", 0, false
			}
			val.WriteString(text)
			i += n
			continue
		}
		val.WriteByte(c)
		i++
	}
	if !t.closed {
		return "", 0, false
	}
	return val.String(), i - m, true
}

func (t *Tokenizer) scanUnquotedAttrValue(m int) (string, int, bool) {
	i := m
	var val strings.Builder
	for i < len(t.buf) {
		c := t.buf[i]
		if isSpaceAny(c) || c == '/' || c == '>' {
			break
		}
		if c == '&' {
			text, n := decodeEntityAt(t.buf, i, t.closed)
			if n == 0 {
				return "", 0, false
			}
			val.WriteString(text)
			i += n
			continue
		}
		val.WriteByte(c)
		i++
	}
	if i == len(t.buf) && !t.closed {
		return "", 0, false
	}
	return val.String(), i - m, true
}

// --- character classes ---------------------------------------------------

func isSpaceAny(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

func isSpaceNonNL(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\f'
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isItemizeChar(b byte) bool {
	return b == '*' || b == '#' || b == ':' || b == ';'
}

func isTagNameChar(r rune) bool {
	return xid.Continue(r) || r == '-' || r == ':'
}

func isAttrNameChar(r rune) bool {
	return xid.Continue(r) || r == '-' || r == ':'
}
