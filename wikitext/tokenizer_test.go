package wikitext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokEvent struct {
	pos  int
	tok  Token
	text string
}

func tokenize(t *testing.T, input string) []tokEvent {
	t.Helper()
	var events []tokEvent
	tz := NewTokenizer(
		func(pos int, tok Token) { events = append(events, tokEvent{pos: pos, tok: tok}) },
		func(pos int, text string) { events = append(events, tokEvent{pos: pos, text: text}) },
	)
	tz.Feed(input)
	tz.Close()
	return events
}

func tokenTypes(events []tokEvent) []TokenType {
	var out []TokenType
	for _, e := range events {
		if e.tok.Type != 0 {
			out = append(out, e.tok.Type)
		}
	}
	return out
}

func TestTokenizerQuote5AtStartOfLine(t *testing.T) {
	events := tokenize(t, "'''''bold italic'''''")
	require.NotEmpty(t, events)
	assert.Equal(t, QUOTE5, events[0].tok.Type)
}

func TestTokenizerFourQuotesIsQuote3PlusLiteral(t *testing.T) {
	events := tokenize(t, "''''x")
	require.Len(t, events, 2)
	assert.Equal(t, QUOTE3, events[0].tok.Type)
	assert.Equal(t, "'x", events[1].text)
}

func TestTokenizerNowikiEscapesMarkup(t *testing.T) {
	events := tokenize(t, "<nowiki>[[foo]]</nowiki>")
	require.Len(t, events, 3)
	assert.Equal(t, XMLStartTag, events[0].tok.Type)
	assert.Equal(t, "nowiki", events[0].tok.Name)
	assert.Equal(t, "[[foo]]", events[1].text)
	assert.Equal(t, XMLEndTag, events[2].tok.Type)
	assert.Equal(t, "nowiki", events[2].tok.Name)
}

func TestTokenizerUnknownTagBecomesEmptyTag(t *testing.T) {
	events := tokenize(t, "<bogus>")
	require.Len(t, events, 1)
	assert.Equal(t, XMLEmptyTag, events[0].tok.Type)
	assert.Equal(t, "bogus", events[0].tok.Name)
}

func TestTokenizerSelfClosingBecomesEmptyTag(t *testing.T) {
	events := tokenize(t, "<br/>")
	require.Len(t, events, 1)
	assert.Equal(t, XMLEmptyTag, events[0].tok.Type)
	assert.Equal(t, "br", events[0].tok.Name)
	assert.True(t, events[0].tok.SelfClosing)
}

func TestTokenizerAttrsLowerCasedKeyValuePreserved(t *testing.T) {
	events := tokenize(t, `<div CLASS="Foo Bar">`)
	require.Len(t, events, 1)
	require.Len(t, events[0].tok.Attrs, 1)
	assert.Equal(t, "class", events[0].tok.Attrs[0].Key)
	assert.Equal(t, "Foo Bar", events[0].tok.Attrs[0].Val)
}

func TestTokenizerEntityDecoding(t *testing.T) {
	events := tokenize(t, "a&amp;b&#65;c&#x42;d")
	var text string
	for _, e := range events {
		text += e.text
	}
	assert.Equal(t, "a&bAcBd", text)
}

func TestTokenizerBadEntityFallsBackToLiteral(t *testing.T) {
	events := tokenize(t, "x&notanentity y")
	var text string
	for _, e := range events {
		if e.tok.Type == 0 {
			text += e.text
		}
	}
	assert.Contains(t, text, "&notanentity")
}

func TestTokenizerHeadlineDepth(t *testing.T) {
	events := tokenize(t, "=== Title ===\n")
	require.NotEmpty(t, events)
	assert.Equal(t, Headline, events[0].tok.Type)
	assert.Equal(t, 3, events[0].tok.Depth)
}

func TestTokenizerItemizeBullets(t *testing.T) {
	events := tokenize(t, "*#: item\n")
	require.NotEmpty(t, events)
	assert.Equal(t, Itemize, events[0].tok.Type)
	assert.Equal(t, "*#:", events[0].tok.Bullets)
}

func TestTokenizerTableDelimiters(t *testing.T) {
	events := tokenize(t, "{|\n|a||b\n|-\n!c!!d\n|}")
	types := tokenTypes(events)
	assert.Contains(t, types, TableOpen)
	assert.Contains(t, types, TableDataSep)
	assert.Contains(t, types, TableRow)
	assert.Contains(t, types, TableHeaderSep)
	assert.Contains(t, types, TableClose)
}

func TestTokenizerChunkedFeedMatchesSingleShot(t *testing.T) {
	input := "==Hi==\n[[Foo|bar]] and <ref>x</ref> end"
	whole := tokenize(t, input)

	var chunked []tokEvent
	tz := NewTokenizer(
		func(pos int, tok Token) { chunked = append(chunked, tokEvent{pos: pos, tok: tok}) },
		func(pos int, text string) { chunked = append(chunked, tokEvent{pos: pos, text: text}) },
	)
	for i := 0; i < len(input); i++ {
		tz.Feed(input[i : i+1])
	}
	tz.Close()

	require.Equal(t, len(whole), len(chunked))
	for i := range whole {
		assert.Equal(t, whole[i].pos, chunked[i].pos, "event %d position", i)
		assert.Equal(t, whole[i].tok, chunked[i].tok, "event %d token", i)
		assert.Equal(t, whole[i].text, chunked[i].text, "event %d text", i)
	}
}

// TestTokenizerByteConservation checks §8's "no byte lost" invariant for the
// subset of markers whose width does not depend on scanned tag/attribute
// text (XML tokens are not part of this input and are not checked here).
func TestTokenizerByteConservation(t *testing.T) {
	input := "==Hi==\nSome '''bold''' text with [[a|b]] and {{x|y}} and {|\n|c\n|}"
	events := tokenize(t, input)
	total := 0
	for _, e := range events {
		if e.tok.Type == 0 {
			total += len(e.text)
			continue
		}
		switch e.tok.Type {
		case Headline:
			total += e.tok.Depth
		case Itemize:
			total += len(e.tok.Bullets)
		default:
			total += len(e.tok.Marker())
		}
	}
	assert.Equal(t, len(input), total)
}
