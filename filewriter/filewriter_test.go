package filewriter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamWriterDelimitsWithFormFeed(t *testing.T) {
	var buf bytes.Buffer
	w := NewStreamWriter(&buf, false)
	require.NoError(t, w.Write(Record{PageID: 1, Title: "Foo", Body: "one"}))
	require.NoError(t, w.Write(Record{PageID: 2, Title: "Bar", Body: "two"}))
	assert.Equal(t, "one\ftwo", buf.String())
}

func TestStreamWriterEmitsTitleLineWhenRequested(t *testing.T) {
	var buf bytes.Buffer
	w := NewStreamWriter(&buf, true)
	require.NoError(t, w.Write(Record{PageID: 1, Title: "Foo", Body: "one"}))
	require.NoError(t, w.Write(Record{PageID: 2, Title: "Bar", Body: "two"}))
	assert.Equal(t, "Foo\none\fBar\ntwo", buf.String())
}

func TestPathWriterSubstitutesNameAndPageID(t *testing.T) {
	dir := t.TempDir()
	w := NewPathWriter(filepath.Join(dir, "{pageid}", "{name}.wiki"))
	require.NoError(t, w.Write(Record{PageID: 42, Title: "Hello World", Body: "body text"}))

	data, err := os.ReadFile(filepath.Join(dir, "42", "Hello World.wiki"))
	require.NoError(t, err)
	assert.Equal(t, "body text", string(data))
}

func TestPathWriterEscapesSlashesInTitle(t *testing.T) {
	dir := t.TempDir()
	w := NewPathWriter(filepath.Join(dir, "{name}.wiki"))
	require.NoError(t, w.Write(Record{PageID: 1, Title: "Talk/Subpage", Body: "x"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Talk=2FSubpage.wiki", entries[0].Name())
}

func TestQuotedPrintableNamePreservesSimpleASCII(t *testing.T) {
	assert.Equal(t, "Hello World", quotedPrintableName("Hello World"))
}

func TestQuotedPrintableNameEscapesNonASCII(t *testing.T) {
	assert.Equal(t, "Caf=C3=A9", quotedPrintableName("Café"))
}
