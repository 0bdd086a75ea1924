package walk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vippsas/wikiparse/wikitext"
	"github.com/vippsas/wikiparse/wikitext/walk"
)

func parse(t *testing.T, input string) *wikitext.Node {
	t.Helper()
	p := wikitext.NewParser(wikitext.DefaultMaxDepth)
	require.NoError(t, p.FeedText(input))
	require.NoError(t, p.Close())
	return p.GetRoot()
}

func TestTextHeadline(t *testing.T) {
	root := parse(t, "==Hello==\n")
	assert.Equal(t, "Hello\n", walk.Text(root))
}

func TestTextKeyword(t *testing.T) {
	root := parse(t, "[[Foo|bar]]")
	assert.Equal(t, "bar", walk.Text(root))
}

func TestTextKeywordIgnoresCategory(t *testing.T) {
	root := parse(t, "[[Category:X]]")
	assert.Equal(t, "", walk.Text(root))
}

func TestTextTable(t *testing.T) {
	root := parse(t, "{|\n|a||b\n|-\n|c\n|}")
	assert.Equal(t, "a\nb\nc\n", walk.Text(root))
}

func TestTextSpans(t *testing.T) {
	root := parse(t, "'''bold''' and ''it''")
	assert.Equal(t, "bold and it", walk.Text(root))
}

func TestTextItemize(t *testing.T) {
	root := parse(t, "* one\n* two\n")
	assert.Equal(t, "one\ntwo\n", walk.Text(root))
}

func TestTextRefHidden(t *testing.T) {
	root := parse(t, "<ref>ignored</ref>visible")
	assert.Equal(t, "visible", walk.Text(root))
}

func TestTextBrBecomesNewline(t *testing.T) {
	root := parse(t, "a<br/>b")
	assert.Equal(t, "a\nb", walk.Text(root))
}

func TestTextCollapsesWhitespace(t *testing.T) {
	root := parse(t, "a   b\tc")
	assert.Equal(t, "a b c", walk.Text(root))
}

func TestTextIdempotentOnReparse(t *testing.T) {
	root := parse(t, "==Hi==\n[[Foo|bar]] and ''it''\n* one\n* two\n")
	once := walk.Text(root)
	reparsed := parse(t, once)
	twice := walk.Text(reparsed)
	assert.Equal(t, once, twice)
}
