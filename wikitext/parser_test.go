package wikitext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseString(t *testing.T, input string) *Node {
	t.Helper()
	p := NewParser(DefaultMaxDepth)
	require.NoError(t, p.FeedText(input))
	require.NoError(t, p.Close())
	return p.GetRoot()
}

func childNodes(n *Node) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if child, ok := c.(*Node); ok {
			out = append(out, child)
		}
	}
	return out
}

func TestParserHeadline(t *testing.T) {
	root := parseString(t, "==Hello==\n")
	kids := childNodes(root)
	require.Len(t, kids, 1)
	assert.Equal(t, HeadlineKind, kids[0].Kind)
	assert.Equal(t, 2, kids[0].Open.Depth)
	assert.Equal(t, "Hello", PlainText(kids[0]))
}

func TestParserKeywordWithDisplay(t *testing.T) {
	root := parseString(t, "[[Foo|bar]]")
	kids := childNodes(root)
	require.Len(t, kids, 1)
	assert.Equal(t, KeywordKind, kids[0].Kind)
	args := kids[0].Args()
	require.Len(t, args, 2)
	assert.Equal(t, "Foo", PlainText(args[0]))
	assert.Equal(t, "bar", PlainText(args[1]))
}

func TestParserTable(t *testing.T) {
	root := parseString(t, "{|\n|a||b\n|-\n|c\n|}")
	kids := childNodes(root)
	require.Len(t, kids, 1)
	table := kids[0]
	assert.Equal(t, TableKind, table.Kind)
	rows := childNodes(table)
	require.Len(t, rows, 2)
	assert.Equal(t, TableRowKind, rows[0].Kind)
	cells0 := childNodes(rows[0])
	require.Len(t, cells0, 2)
	assert.Equal(t, "a", PlainText(cells0[0]))
	assert.Equal(t, "b", PlainText(cells0[1]))
	cells1 := childNodes(rows[1])
	require.Len(t, cells1, 1)
	assert.Equal(t, "c", PlainText(cells1[0]))
}

func TestParserSpans(t *testing.T) {
	root := parseString(t, "'''bold''' and ''it''")
	kids := root.Children
	require.Len(t, kids, 3)
	bold, ok := kids[0].(*Node)
	require.True(t, ok)
	assert.Equal(t, SpanKind, bold.Kind)
	assert.Equal(t, QUOTE3, bold.Open.Type)
	assert.Equal(t, "bold", PlainText(bold))

	middle, ok := kids[1].(Text)
	require.True(t, ok)
	assert.Equal(t, " and ", string(middle))

	it, ok := kids[2].(*Node)
	require.True(t, ok)
	assert.Equal(t, SpanKind, it.Kind)
	assert.Equal(t, QUOTE2, it.Open.Type)
	assert.Equal(t, "it", PlainText(it))
}

func TestParserItemize(t *testing.T) {
	root := parseString(t, "* one\n* two\n")
	kids := childNodes(root)
	require.Len(t, kids, 2)
	assert.Equal(t, ItemizeKind, kids[0].Kind)
	assert.Equal(t, "*", kids[0].Open.Bullets)
	assert.Equal(t, "one", strings.TrimSpace(PlainText(kids[0])))
	assert.Equal(t, "two", strings.TrimSpace(PlainText(kids[1])))
}

func TestParserSpecialThreeArgs(t *testing.T) {
	root := parseString(t, "{{a|b|c}}")
	kids := childNodes(root)
	require.Len(t, kids, 1)
	assert.Equal(t, SpecialKind, kids[0].Kind)
	args := kids[0].Args()
	require.Len(t, args, 3)
	assert.Equal(t, "a", PlainText(args[0]))
	assert.Equal(t, "b", PlainText(args[1]))
	assert.Equal(t, "c", PlainText(args[2]))
}

func TestParserNowikiSuppressesMarkup(t *testing.T) {
	root := parseString(t, "<nowiki>[[foo]]</nowiki>")
	require.Len(t, root.Children, 1)
	xml, ok := root.Children[0].(*Node)
	require.True(t, ok)
	assert.Equal(t, XMLKind, xml.Kind)
	assert.Equal(t, "nowiki", xml.XMLName)
	assert.Equal(t, "[[foo]]", PlainText(xml))
}

func TestParserRefSwallowsContent(t *testing.T) {
	root := parseString(t, "<ref>ignored</ref>visible")
	kids := root.Children
	require.Len(t, kids, 2)
	ref, ok := kids[0].(*Node)
	require.True(t, ok)
	assert.Equal(t, XMLKind, ref.Kind)
	assert.Equal(t, "ref", ref.XMLName)
	text, ok := kids[1].(Text)
	require.True(t, ok)
	assert.Equal(t, "visible", string(text))
}

func TestParserCrossContextCloseOnXMLTable(t *testing.T) {
	root := parseString(t, "<table><tr><td>''x</td></tr></table>")
	require.Len(t, root.Children, 1)
	table, ok := root.Children[0].(*Node)
	require.True(t, ok)
	assert.Equal(t, XMLTableKind, table.Kind)
	require.Len(t, table.Children, 1)
	row, ok := table.Children[0].(*Node)
	require.True(t, ok)
	assert.Equal(t, XMLTableRowKind, row.Kind)
}

func TestParserStackOverflow(t *testing.T) {
	p := NewParser(4)
	input := strings.Repeat("{{a|", 10)
	err := p.FeedText(input)
	require.Error(t, err)
	require.Equal(t, err, p.Close())
	var soErr StackOverflowError
	assert.ErrorAs(t, err, &soErr)
}

func TestParserRedirectTarget(t *testing.T) {
	root := parseString(t, "#REDIRECT [[Target Page]]\n")
	target, ok := root.RedirectTarget()
	require.True(t, ok)
	assert.Equal(t, "Target Page", target)
}
