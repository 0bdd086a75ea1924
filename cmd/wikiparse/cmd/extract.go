package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/vippsas/wikiparse/wikitext"
	"github.com/vippsas/wikiparse/wikitext/walk"
)

// renderTree renders a parsed tree according to the common -L/-C/-d mode
// flags (§6): links, categories, a debug tree dump, or (the default)
// plain text.
func renderTree(root *wikitext.Node) string {
	switch {
	case debug:
		return root.DebugString()
	case linkMode:
		var sb strings.Builder
		for _, rec := range walk.Links(root) {
			sb.WriteString(rec.String())
			sb.WriteByte('\n')
		}
		return sb.String()
	case categoryMode:
		var sb strings.Builder
		for _, cat := range walk.Categories(root) {
			sb.WriteString(cat)
			sb.WriteByte('\n')
		}
		return sb.String()
	default:
		return walk.Text(root)
	}
}

// parseWikitext feeds text through a fresh Parser and returns its root,
// per the core's external interface (§6: feed_text/close/get_root). Any
// invalid-token diagnostic the parse raises is reported on stderr; the
// token itself is still appended to the tree verbatim.
func parseWikitext(text string) (*wikitext.Node, error) {
	p := wikitext.NewParser(wikitext.DefaultMaxDepth)
	if debug {
		p.Diagnostic = func(d wikitext.InvalidTokenDiagnostic) {
			fmt.Fprintln(os.Stderr, d.String())
		}
	}
	if err := p.FeedText(text); err != nil {
		return nil, err
	}
	if err := p.Close(); err != nil {
		return nil, err
	}
	return p.GetRoot(), nil
}
