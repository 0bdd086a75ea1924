package walk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vippsas/wikiparse/wikitext/walk"
)

func TestLinksKeyword(t *testing.T) {
	root := parse(t, "[[Foo|bar]]")
	records := walk.Links(root)
	require.Len(t, records, 1)
	assert.Equal(t, "keyword\tFoo\tbar", records[0].String())
}

func TestLinksKeywordNoDisplay(t *testing.T) {
	root := parse(t, "[[Foo]]")
	records := walk.Links(root)
	require.Len(t, records, 1)
	assert.Equal(t, "keyword\tFoo", records[0].String())
}

func TestLinksExternal(t *testing.T) {
	root := parse(t, "[http://example.com some site]")
	records := walk.Links(root)
	require.Len(t, records, 1)
	assert.Equal(t, "link", records[0].Kind)
	assert.Equal(t, "http://example.com", records[0].Target)
	assert.Equal(t, "some site", records[0].Display)
}

func TestLinksRenderMultipleLines(t *testing.T) {
	root := parse(t, "[[A|a]] and [[B|b]]")
	out := walk.RenderLinks(walk.Links(root))
	assert.Equal(t, "keyword\tA\ta\nkeyword\tB\tb\n", out)
}
