// Package walk implements the three tree walkers (§4.3) that extract plain
// text, links and categories from a parsed wikitext.Node tree.
package walk

import (
	"regexp"
	"strings"

	"github.com/vippsas/wikiparse/wikitext"
)

var targetIgnorePattern = regexp.MustCompile(`^(?:[-a-z]+|Category|Special):`)
var wsRun = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return wsRun.ReplaceAllString(s, " ")
}

// Text renders root's plain-text content per the text-extractor rules
// (§4.3).
func Text(root *wikitext.Node) string {
	var sb strings.Builder
	writeChildren(&sb, root)
	return sb.String()
}

func writeChildren(sb *strings.Builder, n *wikitext.Node) {
	for _, c := range n.Children {
		writeChild(sb, c)
	}
}

func writeChild(sb *strings.Builder, c wikitext.Child) {
	switch v := c.(type) {
	case wikitext.Text:
		sb.WriteString(collapseWhitespace(string(v)))
	case wikitext.Token:
		writeToken(sb, v)
	case *wikitext.Node:
		writeNode(sb, v)
	}
}

func writeToken(sb *strings.Builder, t wikitext.Token) {
	switch t.Type {
	case wikitext.PAR:
		sb.WriteString("\n")
	case wikitext.XMLEmptyTag:
		if wikitext.IsBrTag(t.Name) {
			sb.WriteString("\n")
		}
	}
	// every other singleton/variable token appended verbatim to a node
	// (BAR, EOL, table delimiters, unrecognised XMLEmptyTag, …) carries no
	// text of its own.
}

func writeNode(sb *strings.Builder, n *wikitext.Node) {
	switch n.Kind {
	case wikitext.SpecialKind, wikitext.CommentKind:
		return
	case wikitext.KeywordKind:
		writeKeyword(sb, n)
	case wikitext.LinkKind:
		writeLink(sb, n)
	case wikitext.TableHeaderKind, wikitext.TableDataKind:
		writeTableCell(sb, n)
	case wikitext.HeadlineKind, wikitext.PreKind:
		writeChildren(sb, n)
		sb.WriteString("\n")
	case wikitext.ItemizeKind:
		// the blank between the bullets and the item text is not output
		var item strings.Builder
		writeChildren(&item, n)
		sb.WriteString(strings.TrimSpace(item.String()))
		sb.WriteString("\n")
	case wikitext.TableKind:
		for _, c := range n.Children {
			if child, ok := c.(*wikitext.Node); ok && child.Kind != wikitext.ArgKind {
				writeNode(sb, child)
			}
		}
	case wikitext.XMLKind, wikitext.XMLParKind, wikitext.XMLTableKind, wikitext.XMLTableRowKind:
		writeXML(sb, n)
	default:
		writeChildren(sb, n)
	}
}

func writeKeyword(sb *strings.Builder, n *wikitext.Node) {
	args := n.Args()
	if len(args) == 0 {
		return
	}
	target := wikitext.PlainText(args[0])
	if targetIgnorePattern.MatchString(target) {
		return
	}
	last := args[len(args)-1]
	writeChildren(sb, last)
}

func writeLink(sb *strings.Builder, n *wikitext.Node) {
	args := n.Args()
	if len(args) == 0 {
		return
	}
	if len(args) == 1 {
		writeChildren(sb, args[0])
		return
	}
	for i, a := range args[1:] {
		if i > 0 {
			sb.WriteString(" ")
		}
		writeChildren(sb, a)
	}
}

func writeTableCell(sb *strings.Builder, n *wikitext.Node) {
	args := n.Args()
	if len(args) > 0 {
		writeChildren(sb, args[len(args)-1])
	} else {
		writeChildren(sb, n)
	}
	sb.WriteString("\n")
}

func writeXML(sb *strings.Builder, n *wikitext.Node) {
	if wikitext.IsNoTextTag(n.XMLName) {
		return
	}
	writeChildren(sb, n)
	if wikitext.IsParTag(n.XMLName) {
		sb.WriteString("\n")
	}
}
