package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetModeFlags() {
	debug = false
	linkMode = false
	categoryMode = false
}

func TestRenderTreeDefaultIsPlainText(t *testing.T) {
	resetModeFlags()
	t.Cleanup(resetModeFlags)

	root, err := parseWikitext("[[Foo|bar]]")
	require.NoError(t, err)
	assert.Equal(t, "bar", renderTree(root))
}

func TestRenderTreeLinkMode(t *testing.T) {
	resetModeFlags()
	t.Cleanup(resetModeFlags)
	linkMode = true

	root, err := parseWikitext("[[Foo|bar]]")
	require.NoError(t, err)
	assert.Equal(t, "keyword\tFoo\tbar\n", renderTree(root))
}

func TestRenderTreeCategoryMode(t *testing.T) {
	resetModeFlags()
	t.Cleanup(resetModeFlags)
	categoryMode = true

	root, err := parseWikitext("[[Category:Foo]]")
	require.NoError(t, err)
	assert.Equal(t, "Category:Foo\n", renderTree(root))
}

func TestRenderTreeDebugModeDumpsTree(t *testing.T) {
	resetModeFlags()
	t.Cleanup(resetModeFlags)
	debug = true

	root, err := parseWikitext("==Hi==\n")
	require.NoError(t, err)
	assert.Contains(t, renderTree(root), "Headline")
}

func TestParseWikitextBuildsTreeForHeadline(t *testing.T) {
	root, err := parseWikitext("==Hello==\n")
	require.NoError(t, err)
	resetModeFlags()
	assert.Equal(t, "Hello\n", renderTree(root))
}
