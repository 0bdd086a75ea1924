package walk

import (
	"fmt"
	"strings"

	"github.com/vippsas/wikiparse/wikitext"
)

// LinkRecord is one row the link extractor emits: a Keyword ([[target|
// display]]) or a Link ([url display]).
type LinkRecord struct {
	Kind       string // "keyword" or "link"
	Target     string
	Display    string
	HasDisplay bool
}

func (r LinkRecord) String() string {
	if r.HasDisplay {
		return fmt.Sprintf("%s\t%s\t%s", r.Kind, r.Target, r.Display)
	}
	return fmt.Sprintf("%s\t%s", r.Kind, r.Target)
}

// Links walks root collecting one LinkRecord per Keyword/Link node, in
// document order (§4.3).
func Links(root *wikitext.Node) []LinkRecord {
	var out []LinkRecord
	collectLinks(root, &out)
	return out
}

func collectLinks(n *wikitext.Node, out *[]LinkRecord) {
	switch n.Kind {
	case wikitext.KeywordKind:
		if args := n.Args(); len(args) > 0 {
			rec := LinkRecord{Kind: "keyword", Target: wikitext.PlainText(args[0])}
			if len(args) > 1 {
				rec.Display = wikitext.PlainText(args[len(args)-1])
				rec.HasDisplay = true
			}
			*out = append(*out, rec)
		}
	case wikitext.LinkKind:
		if args := n.Args(); len(args) > 0 {
			rec := LinkRecord{Kind: "link", Target: wikitext.PlainText(args[0])}
			if len(args) > 1 {
				rec.Display = strings.Join(plainTextAll(args[1:]), " ")
				rec.HasDisplay = true
			}
			*out = append(*out, rec)
		}
	}
	for _, c := range n.Children {
		if child, ok := c.(*wikitext.Node); ok {
			collectLinks(child, out)
		}
	}
}

func plainTextAll(args []*wikitext.Node) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = wikitext.PlainText(a)
	}
	return out
}

// RenderLinks tab-separates each record on its own line, matching the CLI's
// -L output mode.
func RenderLinks(records []LinkRecord) string {
	var sb strings.Builder
	for _, r := range records {
		sb.WriteString(r.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
