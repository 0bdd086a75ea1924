package wikitext

import (
	"bufio"
	"io"
)

// DefaultMaxDepth is the default bound on parse-stack depth (§3).
const DefaultMaxDepth = 100

// parseStateFn is one of the ~20 parse states driving the pushdown
// automaton (§4.2). It returns true if ev was consumed, false if the
// current frame popped itself and ev must be re-dispatched to the new top.
type parseStateFn func(p *Parser, ev event) bool

// event is one (pos, token|text) item delivered by the tokenizer.
type event struct {
	pos   int
	tok   Token
	isTok bool
	text  string
}

// frame is one entry on the parser's stack: the node currently being built
// plus the parse state governing it and whatever bookkeeping that state
// needs (separator/close token types, whether it participates in the
// cross-context-close check).
type frame struct {
	node *Node
	state parseStateFn

	closeTok TokenType // relevant to specialKeywordLinkState, tableCellState
	sepTok   TokenType // relevant to specialKeywordLinkState, argState
	stop     map[TokenType]bool

	xmlContext bool // true for XMLTableKind/XMLParKind/XMLTableRowKind frames
}

// Parser is the recursive-descent tree builder described in §4.2: a
// pushdown automaton driven synchronously by a Tokenizer's callbacks.
type Parser struct {
	maxDepth  int
	stack     []*frame
	root      *Node
	tokenizer *Tokenizer

	lastPos int
	err     error

	// Diagnostic, if set, is invoked for every InvalidToken occurrence
	// (§7); the token is still appended verbatim regardless.
	Diagnostic func(InvalidTokenDiagnostic)
}

// NewParser constructs a Parser with the given maxdepth (DefaultMaxDepth if
// maxDepth <= 0).
func NewParser(maxDepth int) *Parser {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	root := NewNode(PageKind, Token{})
	p := &Parser{
		maxDepth: maxDepth,
		root:     root,
	}
	p.stack = []*frame{{node: root, state: topState}}
	p.tokenizer = NewTokenizer(p.handleToken, p.handleText)
	return p
}

func (p *Parser) top() *frame { return p.stack[len(p.stack)-1] }

func (p *Parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// Err returns the fatal error the parse has hit, if any (only
// StackOverflowError can occur, per §7).
func (p *Parser) Err() error { return p.err }

func (p *Parser) pushContext(kind NodeKind, open Token, xmlName string, state parseStateFn, xmlContext bool) (*frame, error) {
	if len(p.stack) >= p.maxDepth {
		return nil, StackOverflowError{Pos: Pos(p.lastPos), MaxDepth: p.maxDepth}
	}
	node := NewNode(kind, open)
	node.XMLName = xmlName
	p.top().node.Append(node)
	f := &frame{node: node, state: state, xmlContext: xmlContext}
	p.stack = append(p.stack, f)
	return f, nil
}

func (p *Parser) popContext() {
	if len(p.stack) > 1 {
		p.stack = p.stack[:len(p.stack)-1]
	}
}

// hasDeeperXMLMatch implements the cross-context close rule (§4.2): does
// some frame below the top participate in the xmlcontext stack and carry
// the XML name this end tag targets?
func (p *Parser) hasDeeperXMLMatch(name string) bool {
	for i := len(p.stack) - 2; i >= 0; i-- {
		f := p.stack[i]
		if f.xmlContext && f.node.XMLName == name {
			return true
		}
	}
	return false
}

func (p *Parser) handleToken(pos int, tok Token) {
	p.lastPos = pos
	p.dispatch(event{pos: pos, tok: tok, isTok: true})
}

func (p *Parser) handleText(pos int, text string) {
	p.lastPos = pos
	p.dispatch(event{pos: pos, text: text})
}

func (p *Parser) dispatch(ev event) {
	for {
		if p.err != nil {
			return
		}
		top := p.top()

		// Cross-context close: a closing tag that matches an ancestor
		// deeper than the current top unconditionally pops the top frame
		// (whatever kind it is) and re-dispatches, cascading until the
		// matching xml frame itself is on top to handle the real close.
		if ev.isTok && ev.tok.Type == XMLEndTag && len(p.stack) > 1 &&
			top.node.XMLName != ev.tok.Name && p.hasDeeperXMLMatch(ev.tok.Name) {
			p.popContext()
			continue
		}

		consumed := top.state(p, ev)
		if consumed {
			return
		}
		// re-dispatch: state already popped itself
	}
}

// FeedText appends chunk to the tokenizer input, driving the parse forward.
func (p *Parser) FeedText(chunk string) error {
	p.tokenizer.Feed(chunk)
	return p.err
}

// FeedFile is a convenience loop feeding a stream line-by-line.
func (p *Parser) FeedFile(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		if err := p.FeedText(scanner.Text() + "\n"); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return p.err
}

// Close flushes the tokenizer's pending text and pops every remaining
// context, finalising the tree.
func (p *Parser) Close() error {
	p.tokenizer.Close()
	for len(p.stack) > 1 && p.err == nil {
		p.popContext()
	}
	return p.err
}

// GetRoot returns the Page node at the root of the tree.
func (p *Parser) GetRoot() *Node { return p.root }

// --- parse states ----------------------------------------------------

func topState(p *Parser, ev event) bool {
	f := p.top()
	if ev.isTok && ev.tok.Type == Extension {
		f.node.Append(ev.tok)
		f.state = parState
		return true
	}
	f.state = parState
	return parState(p, ev)
}

func parState(p *Parser, ev event) bool {
	if ev.isTok {
		switch ev.tok.Type {
		case PAR, HR:
			p.top().node.Append(ev.tok)
			return true
		case Itemize:
			if _, err := p.pushContext(ItemizeKind, ev.tok, "", itemizeState, false); err != nil {
				p.fail(err)
			}
			return true
		case Headline:
			if _, err := p.pushContext(HeadlineKind, ev.tok, "", headlineState, false); err != nil {
				p.fail(err)
			}
			return true
		case PRE:
			if _, err := p.pushContext(PreKind, ev.tok, "", preState, false); err != nil {
				p.fail(err)
			}
			return true
		case TableOpen:
			if _, err := p.pushContext(TableKind, ev.tok, "", tableState, false); err != nil {
				p.fail(err)
			}
			return true
		}
	}
	return baseState(p, ev)
}

func baseState(p *Parser, ev event) bool {
	if !ev.isTok {
		p.top().node.AppendString(ev.text)
		return true
	}
	tok := ev.tok
	switch tok.Type {
	case SpecialOpen:
		p.openBracketed(SpecialKind, tok, SpecialClose, BAR)
	case KeywordOpen:
		p.openBracketed(KeywordKind, tok, KeywordClose, BAR)
	case LinkOpen:
		p.openBracketed(LinkKind, tok, LinkClose, BLANK)
	case QUOTE2, QUOTE3, QUOTE5:
		if _, err := p.pushContext(SpanKind, tok, "", spanState, false); err != nil {
			p.fail(err)
		}
	case CommentOpen:
		if _, err := p.pushContext(CommentKind, tok, "", commentState, false); err != nil {
			p.fail(err)
		}
	case XMLStartTag:
		p.openXML(tok)
	case BLANK:
		// Outside of a Link's argument separator position (handled in
		// argState before falling through here), a blank run is ordinary
		// page text: its literal whitespace is preserved so the text
		// walker's whitespace-collapsing rule (§4.3) applies to it.
		p.top().node.AppendString(tok.Marker())
	default:
		// XMLEmptyTag and every other unhandled singleton token is
		// appended verbatim as a child (§7 InvalidToken: nothing is lost).
		if p.Diagnostic != nil {
			p.Diagnostic(InvalidTokenDiagnostic{
				Pos:   Pos(ev.pos),
				State: p.top().node.Kind.String(),
				Token: tok,
			})
		}
		p.top().node.Append(tok)
	}
	return true
}

func (p *Parser) openBracketed(kind NodeKind, open Token, closeTok, sepTok TokenType) {
	f, err := p.pushContext(kind, open, "", specialKeywordLinkState, false)
	if err != nil {
		p.fail(err)
		return
	}
	f.closeTok = closeTok
	f.sepTok = sepTok
}

func specialKeywordLinkState(p *Parser, ev event) bool {
	f := p.top()
	if ev.isTok && ev.tok.Type == f.closeTok {
		p.popContext()
		return true
	}
	argFrame, err := p.pushContext(ArgKind, Token{}, "", argState, false)
	if err != nil {
		p.fail(err)
		return true
	}
	argFrame.sepTok = f.sepTok
	argFrame.stop = map[TokenType]bool{f.closeTok: true}
	return false
}

func argState(p *Parser, ev event) bool {
	f := p.top()
	if ev.isTok {
		if ev.tok.Type == f.sepTok {
			p.popContext()
			return true
		}
		if f.stop[ev.tok.Type] {
			p.popContext()
			return false
		}
	}
	return baseState(p, ev)
}

func spanState(p *Parser, ev event) bool {
	f := p.top()
	if ev.isTok {
		if f.node.Open.SameSpan(ev.tok) {
			p.popContext()
			return true
		}
		if ev.tok.Type == EOL {
			p.popContext()
			return false
		}
	}
	return baseState(p, ev)
}

func commentState(p *Parser, ev event) bool {
	if ev.isTok {
		if ev.tok.Type == CommentClose {
			p.popContext()
			return true
		}
		p.top().node.Append(ev.tok)
		return true
	}
	p.top().node.AppendString(ev.text)
	return true
}

func itemizeState(p *Parser, ev event) bool {
	if ev.isTok && ev.tok.Type == EOL {
		p.popContext()
		return true
	}
	return baseState(p, ev)
}

func preState(p *Parser, ev event) bool {
	if ev.isTok && ev.tok.Type == EOL {
		p.popContext()
		return true
	}
	return baseState(p, ev)
}

func headlineState(p *Parser, ev event) bool {
	f := p.top()
	if ev.isTok {
		if ev.tok.Type == EOL {
			p.popContext()
			return true
		}
		if ev.tok.Type == Headline && ev.tok.Depth == f.node.Open.Depth {
			p.popContext()
			return true
		}
	}
	return baseState(p, ev)
}

func (p *Parser) openXML(tok Token) {
	switch {
	case isTableTag(tok.Name):
		if _, err := p.pushContext(XMLTableKind, tok, tok.Name, xmlTableState, true); err != nil {
			p.fail(err)
		}
	case isParTag(tok.Name):
		if _, err := p.pushContext(XMLParKind, tok, tok.Name, xmlParState, true); err != nil {
			p.fail(err)
		}
	default:
		if _, err := p.pushContext(XMLKind, tok, tok.Name, xmlState, false); err != nil {
			p.fail(err)
		}
	}
}

func xmlState(p *Parser, ev event) bool {
	f := p.top()
	if ev.isTok && ev.tok.Type == XMLEndTag && ev.tok.Name == f.node.XMLName {
		p.popContext()
		return true
	}
	return baseState(p, ev)
}

func xmlParState(p *Parser, ev event) bool {
	f := p.top()
	if ev.isTok {
		if ev.tok.Type == XMLEndTag && ev.tok.Name == f.node.XMLName {
			p.popContext()
			return true
		}
		switch ev.tok.Type {
		case TableOpen, TableClose, TableCaption, TableRow, TableHeader, TableHeaderSep, TableData, TableDataSep:
			p.popContext()
			return false
		}
	}
	return baseState(p, ev)
}

func xmlTableState(p *Parser, ev event) bool {
	f := p.top()
	if ev.isTok {
		if ev.tok.Type == XMLEndTag && ev.tok.Name == f.node.XMLName {
			p.popContext()
			return true
		}
		if ev.tok.Type == XMLStartTag && isTableRowTag(ev.tok.Name) {
			if _, err := p.pushContext(XMLTableRowKind, ev.tok, ev.tok.Name, xmlTableRowState, true); err != nil {
				p.fail(err)
			}
			return true
		}
	}
	return baseState(p, ev)
}

func xmlTableRowState(p *Parser, ev event) bool {
	f := p.top()
	if ev.isTok {
		if ev.tok.Type == XMLEndTag && ev.tok.Name == f.node.XMLName {
			p.popContext()
			return true
		}
		if ev.tok.Type == XMLStartTag && isTableRowTag(ev.tok.Name) {
			// a second <tr> while one is already open: close this row first
			p.popContext()
			return false
		}
	}
	return baseState(p, ev)
}

func tableState(p *Parser, ev event) bool {
	if ev.isTok {
		switch ev.tok.Type {
		case TableClose:
			p.popContext()
			return true
		case EOL:
			// end of a "{|" line with no attributes: nothing to collect
			p.top().node.Append(ev.tok)
			return true
		case TableCaption:
			if _, err := p.pushContext(TableCaptionKind, ev.tok, "", tableCaptionState, false); err != nil {
				p.fail(err)
			}
			return true
		case TableRow:
			if _, err := p.pushContext(TableRowKind, ev.tok, "", tableRowState, false); err != nil {
				p.fail(err)
			}
			return true
		case TableHeader, TableHeaderSep, TableData, TableDataSep:
			// no row opened yet: synthesize one and re-dispatch into it
			if _, err := p.pushContext(TableRowKind, Token{}, "", tableRowState, false); err != nil {
				p.fail(err)
			}
			return false
		}
	}
	// table attribute content before the first row
	argFrame, err := p.pushContext(ArgKind, Token{}, "", argState, false)
	if err != nil {
		p.fail(err)
		return true
	}
	argFrame.stop = map[TokenType]bool{
		TableClose: true, TableCaption: true, TableRow: true,
		TableHeader: true, TableHeaderSep: true, TableData: true, TableDataSep: true,
	}
	return false
}

func tableCaptionState(p *Parser, ev event) bool {
	if ev.isTok {
		switch ev.tok.Type {
		case EOL:
			p.popContext()
			return true
		case TableClose, TableCaption, TableRow, TableHeader, TableHeaderSep, TableData, TableDataSep:
			p.popContext()
			return false
		}
	}
	return baseState(p, ev)
}

func tableRowState(p *Parser, ev event) bool {
	if ev.isTok {
		switch ev.tok.Type {
		case EOL:
			// the end of a "|-" line: the row stays open for the cell lines
			// that follow, until the next row/caption/table-close delimiter
			p.top().node.Append(ev.tok)
			return true
		case TableHeader, TableHeaderSep:
			f, err := p.pushContext(TableHeaderKind, ev.tok, "", tableCellState, false)
			if err != nil {
				p.fail(err)
				return true
			}
			f.closeTok = TableHeaderSep
			return true
		case TableData, TableDataSep:
			f, err := p.pushContext(TableDataKind, ev.tok, "", tableCellState, false)
			if err != nil {
				p.fail(err)
				return true
			}
			f.closeTok = TableDataSep
			return true
		case TableClose, TableCaption, TableRow:
			p.popContext()
			return false
		}
	}
	return baseState(p, ev)
}

func tableCellState(p *Parser, ev event) bool {
	f := p.top()
	if ev.isTok {
		switch ev.tok.Type {
		case EOL:
			p.popContext()
			return true
		case f.closeTok, TableClose, TableCaption, TableRow, TableHeader, TableData:
			p.popContext()
			return false
		}
	}
	return baseState(p, ev)
}
