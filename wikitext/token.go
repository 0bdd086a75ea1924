// Package wikitext implements a streaming tokenizer and recursive-descent
// parser for MediaWiki wikitext. The tree walkers that extract plain text,
// links and categories from the resulting tree are in wikitext/walk.
package wikitext

import "fmt"

// TokenType identifies the kind of a Token. Singleton structural tokens are
// distinguished purely by TokenType; variable tokens carry a payload on the
// rest of the Token struct (Depth, Bullets, Name, Attrs, SelfClosing).
type TokenType int

const (
	EOL TokenType = iota + 1
	BLANK
	BAR
	QUOTE2
	QUOTE3
	QUOTE5
	CommentOpen
	CommentClose
	SpecialOpen
	SpecialClose
	KeywordOpen
	KeywordClose
	LinkOpen
	LinkClose
	TableOpen
	TableClose
	TableRow
	TableCaption
	TableHeader
	TableHeaderSep
	TableData
	TableDataSep
	HR
	PAR
	PRE

	// Variable-width tokens; payload lives on Token.
	Headline
	Itemize
	Extension
	XMLStartTag
	XMLEndTag
	XMLEmptyTag
)

var tokenTypeNames = map[TokenType]string{
	EOL:            "EOL",
	BLANK:          "BLANK",
	BAR:            "BAR",
	QUOTE2:         "QUOTE2",
	QUOTE3:         "QUOTE3",
	QUOTE5:         "QUOTE5",
	CommentOpen:    "COMMENT_OPEN",
	CommentClose:   "COMMENT_CLOSE",
	SpecialOpen:    "SPECIAL_OPEN",
	SpecialClose:   "SPECIAL_CLOSE",
	KeywordOpen:    "KEYWORD_OPEN",
	KeywordClose:   "KEYWORD_CLOSE",
	LinkOpen:       "LINK_OPEN",
	LinkClose:      "LINK_CLOSE",
	TableOpen:      "TABLE_OPEN",
	TableClose:     "TABLE_CLOSE",
	TableRow:       "TABLE_ROW",
	TableCaption:   "TABLE_CAPTION",
	TableHeader:    "TABLE_HEADER",
	TableHeaderSep: "TABLE_HEADER_SEP",
	TableData:      "TABLE_DATA",
	TableDataSep:   "TABLE_DATA_SEP",
	HR:             "HR",
	PAR:            "PAR",
	PRE:            "PRE",
	Headline:       "HEADLINE",
	Itemize:        "ITEMIZE",
	Extension:      "EXTENSION",
	XMLStartTag:    "XML_START_TAG",
	XMLEndTag:      "XML_END_TAG",
	XMLEmptyTag:    "XML_EMPTY_TAG",
}

// init is a pure exhaustiveness check: every TokenType constant above must
// have an entry in tokenTypeNames, or this panics at program start.
func init() {
	for tt := EOL; tt <= XMLEmptyTag; tt++ {
		if _, ok := tokenTypeNames[tt]; !ok {
			panic(fmt.Sprintf("wikitext: TokenType %d has no name registered", tt))
		}
	}
}

func (tt TokenType) String() string {
	if name, ok := tokenTypeNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Attr is a single XML attribute, key lower-cased, value entity-decoded but
// otherwise verbatim.
type Attr struct {
	Key string
	Val string
}

// Token is an emitted tokenizer event: either a singleton structural token
// (distinguished by Type alone) or a variable token carrying Depth/Bullets/
// Name/Attrs/SelfClosing, depending on Type.
type Token struct {
	Type TokenType

	Depth       int    // Headline
	Bullets     string // Itemize
	Name        string // Extension, XMLStartTag, XMLEndTag, XMLEmptyTag
	Attrs       []Attr // XMLStartTag, XMLEmptyTag
	SelfClosing bool   // XMLEmptyTag

	marker string // raw marker text, used for round-tripping / byte accounting
}

// Marker returns the literal wikitext that produced the token, where that is
// fixed by the token's type (quote runs, delimiters, etc), and the scanned
// whitespace for BLANK, the one token the scanner records it for. It
// returns "" for Headline and Itemize (their width is Depth and
// len(Bullets)) and for PAR, HR, PRE, Extension and XML tag tokens.
func (t Token) Marker() string {
	if t.marker != "" {
		return t.marker
	}
	switch t.Type {
	case EOL:
		return "\n"
	case BAR:
		return "|"
	case QUOTE2:
		return "''"
	case QUOTE3:
		return "'''"
	case QUOTE5:
		return "'''''"
	case CommentOpen:
		return "<!--"
	case CommentClose:
		return "-->"
	case SpecialOpen:
		return "{{"
	case SpecialClose:
		return "}}"
	case KeywordOpen:
		return "[["
	case KeywordClose:
		return "]]"
	case LinkOpen:
		return "["
	case LinkClose:
		return "]"
	case TableOpen:
		return "{|"
	case TableClose:
		return "|}"
	case TableRow:
		return "|-"
	case TableCaption:
		return "|+"
	case TableHeader:
		return "!"
	case TableHeaderSep:
		return "!!"
	case TableData:
		return "|"
	case TableDataSep:
		return "||"
	}
	return ""
}

// SameSpan reports whether two quote tokens close one another: a Span only
// closes on the identical quote variant it opened with.
func (t Token) SameSpan(other Token) bool {
	return t.Type == other.Type
}
