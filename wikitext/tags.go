package wikitext

// Tag classes shared between the tokenizer (to decide nowiki escaping and
// XMLEmptyTag degrading) and the parser (to pick the right subtree kind and
// apply block auto-close rules).

var validTag = map[string]struct{}{
	"nowiki": {}, "source": {}, "ref": {}, "gallery": {}, "math": {},
	"b": {}, "i": {}, "u": {}, "s": {}, "tt": {}, "small": {}, "big": {},
	"sub": {}, "sup": {}, "strike": {}, "code": {}, "kbd": {}, "var": {},
	"samp": {}, "cite": {}, "q": {}, "ins": {}, "del": {}, "strong": {},
	"em": {}, "abbr": {}, "font": {}, "center": {}, "blockquote": {},
	"address": {}, "div": {}, "span": {}, "p": {}, "pre": {}, "br": {},
	"hr": {}, "li": {}, "dd": {}, "dt": {}, "ul": {}, "ol": {}, "dl": {},
	"table": {}, "tr": {}, "td": {}, "th": {}, "caption": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"noinclude": {}, "includeonly": {}, "onlyinclude": {},
	"categorytree": {}, "timeline": {}, "poem": {}, "syntaxhighlight": {},
	"imagemap": {},
}

var parTag = map[string]struct{}{
	"p": {}, "li": {}, "dd": {}, "dt": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"div": {}, "pre": {}, "blockquote": {}, "address": {}, "center": {},
	"td": {}, "th": {},
}

var tableTag = map[string]struct{}{"table": {}}
var tableRowTag = map[string]struct{}{"tr": {}}
var noWikiTag = map[string]struct{}{"nowiki": {}, "source": {}}
var noTextTag = map[string]struct{}{"ref": {}, "gallery": {}}
var brTag = map[string]struct{}{"br": {}}

func isValidTag(name string) bool    { _, ok := validTag[name]; return ok }
func isParTag(name string) bool      { _, ok := parTag[name]; return ok }
func isTableTag(name string) bool    { _, ok := tableTag[name]; return ok }
func isTableRowTag(name string) bool { _, ok := tableRowTag[name]; return ok }
func isNoWikiTag(name string) bool   { _, ok := noWikiTag[name]; return ok }
func isNoTextTag(name string) bool   { _, ok := noTextTag[name]; return ok }
func isBrTag(name string) bool       { _, ok := brTag[name]; return ok }

// Exported forms, for use by the wikitext/walk package and other consumers
// outside this package that need to classify an XML tag name the same way
// the tokenizer and parser do.
func IsValidTag(name string) bool    { return isValidTag(name) }
func IsParTag(name string) bool      { return isParTag(name) }
func IsTableTag(name string) bool    { return isTableTag(name) }
func IsTableRowTag(name string) bool { return isTableRowTag(name) }
func IsNoWikiTag(name string) bool   { return isNoWikiTag(name) }
func IsNoTextTag(name string) bool   { return isNoTextTag(name) }
func IsBrTag(name string) bool       { return isBrTag(name) }
