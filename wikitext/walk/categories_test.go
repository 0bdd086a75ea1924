package walk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vippsas/wikiparse/wikitext/walk"
)

func TestCategoriesRetainsCategoryKeyword(t *testing.T) {
	root := parse(t, "[[Category:X]]")
	assert.Equal(t, []string{"Category:X"}, walk.Categories(root))
}

func TestCategoriesIgnoresOrdinaryKeyword(t *testing.T) {
	root := parse(t, "[[Foo|bar]]")
	assert.Empty(t, walk.Categories(root))
}

func TestCategoriesMultiple(t *testing.T) {
	root := parse(t, "text [[Category:A]] more [[Category:B|sortkey]]")
	assert.Equal(t, []string{"Category:A", "Category:B"}, walk.Categories(root))
}
