package walk

import (
	"strings"

	"github.com/vippsas/wikiparse/wikitext"
)

const categoryPrefix = "Category:"

// Categories walks root collecting the target of every Keyword node whose
// target begins with "Category:" (§4.3), in document order.
func Categories(root *wikitext.Node) []string {
	var out []string
	collectCategories(root, &out)
	return out
}

func collectCategories(n *wikitext.Node, out *[]string) {
	if n.Kind == wikitext.KeywordKind {
		if args := n.Args(); len(args) > 0 {
			target := wikitext.PlainText(args[0])
			if strings.HasPrefix(target, categoryPrefix) {
				*out = append(*out, target)
			}
		}
	}
	for _, c := range n.Children {
		if child, ok := c.(*wikitext.Node); ok {
			collectCategories(child, out)
		}
	}
}
