package wikitext

import (
	"fmt"
	"strings"

	"github.com/alecthomas/repr"
)

// NodeKind identifies the kind of a tree Node, replacing the source's deep
// class hierarchy with a single enum plus shared fields (§9).
type NodeKind int

const (
	PageKind NodeKind = iota + 1
	ArgKind
	CommentKind
	PreKind
	ItemizeKind
	HeadlineKind
	TableKind
	TableCaptionKind
	TableRowKind
	TableHeaderKind
	TableDataKind
	SpanKind
	SpecialKind
	KeywordKind
	LinkKind
	XMLKind
	XMLParKind
	XMLTableKind
	XMLTableRowKind
	ExtensionKind
)

var nodeKindNames = map[NodeKind]string{
	PageKind:         "Page",
	ArgKind:          "Arg",
	CommentKind:      "Comment",
	PreKind:          "Pre",
	ItemizeKind:      "Itemize",
	HeadlineKind:     "Headline",
	TableKind:        "Table",
	TableCaptionKind: "TableCaption",
	TableRowKind:     "TableRow",
	TableHeaderKind:  "TableHeader",
	TableDataKind:    "TableData",
	SpanKind:         "Span",
	SpecialKind:      "Special",
	KeywordKind:      "Keyword",
	LinkKind:         "Link",
	XMLKind:          "XML",
	XMLParKind:       "XMLPar",
	XMLTableKind:     "XMLTable",
	XMLTableRowKind:  "XMLTableRow",
	ExtensionKind:    "Extension",
}

func init() {
	for k := PageKind; k <= ExtensionKind; k++ {
		if _, ok := nodeKindNames[k]; !ok {
			panic(fmt.Sprintf("wikitext: NodeKind %d has no name registered", k))
		}
	}
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Child is one element of a Node's children list: a *Node, a Token, or a
// Text run (§3, §9's "sum type").
type Child interface {
	isChild()
}

// Text is a run of plain wikitext with no markup significance. Adjacent Text
// children are always merged on insertion via Node.Append.
type Text string

func (Text) isChild() {}
func (*Node) isChild() {}
func (Token) isChild() {}

// Node is the shared representation for every tree node kind. XMLName holds
// the lower-cased tag name for XMLKind/XMLParKind/XMLTableKind/
// XMLTableRowKind nodes (empty for every other kind).
type Node struct {
	Kind     NodeKind
	Open     Token // distinguished opening token, zero Token{} if none
	XMLName  string
	Children []Child
}

// NewNode returns an empty node of the given kind, optionally remembering
// the token that opened it.
func NewNode(kind NodeKind, open Token) *Node {
	return &Node{Kind: kind, Open: open}
}

// Append adds c to n's children, merging it into a trailing Text child when
// both c and the last child are text. This is the single enforcement point
// for the "adjacent text children are concatenated" invariant (§3).
func (n *Node) Append(c Child) {
	if text, ok := c.(Text); ok {
		if text == "" {
			return
		}
		if len(n.Children) > 0 {
			if last, ok := n.Children[len(n.Children)-1].(Text); ok {
				n.Children[len(n.Children)-1] = last + text
				return
			}
		}
	}
	n.Children = append(n.Children, c)
}

// AppendString is a convenience wrapper for Append(Text(s)).
func (n *Node) AppendString(s string) {
	n.Append(Text(s))
}

// Args returns every ArgKind child, in order; used by walkers that need a
// node's argument list (Special/Keyword/Link/table cells).
func (n *Node) Args() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if child, ok := c.(*Node); ok && child.Kind == ArgKind {
			out = append(out, child)
		}
	}
	return out
}

// RedirectTarget reports the keyword target of a leading "#REDIRECT [[...]]"
// (or similar) extension at the top of the page, the accessor MediaWiki
// dump tooling commonly exposes.
func (n *Node) RedirectTarget() (target string, ok bool) {
	if n.Kind != PageKind {
		return "", false
	}
	sawExtension := false
	for _, c := range n.Children {
		switch v := c.(type) {
		case Token:
			if v.Type == Extension {
				sawExtension = true
			}
		case *Node:
			if sawExtension && v.Kind == KeywordKind {
				args := v.Args()
				if len(args) > 0 {
					return PlainText(args[0]), true
				}
				return "", false
			}
		case Text:
			if strings.TrimSpace(string(v)) != "" {
				sawExtension = false
			}
		}
	}
	return "", false
}

// PlainText concatenates a node's direct Text children, ignoring nested
// structure; used for small leaf-ish nodes like Arg where the full text
// walker would be overkill (e.g. extracting a redirect target).
func PlainText(n *Node) string {
	var sb strings.Builder
	for _, c := range n.Children {
		switch v := c.(type) {
		case Text:
			sb.WriteString(string(v))
		case *Node:
			sb.WriteString(PlainText(v))
		}
	}
	return sb.String()
}

// DebugString renders the tree using alecthomas/repr, the same
// struct-dumping idiom a convenient ad-hoc debugging dump.
func (n *Node) DebugString() string {
	return repr.String(n, repr.Indent("  "), repr.OmitEmpty(true))
}
