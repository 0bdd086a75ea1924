package cdbstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, gzip bool) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), gzip)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAddPageAndTitle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, false)
	require.NoError(t, s.AddPage(ctx, 1, "Foo"))
	title, err := s.Title(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Foo", title)
}

func TestAddContentAndRevIDs(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, false)
	ts := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, s.AddContent(ctx, 1, 100, ts, []byte("'''hi'''")))
	require.NoError(t, s.AddContent(ctx, 1, 101, ts, []byte("''bye''")))

	revs, err := s.RevIDs(ctx, 1)
	require.NoError(t, err)
	var ids []int64
	for revs.Next() {
		ids = append(ids, revs.Value())
	}
	require.NoError(t, revs.Err())
	assert.ElementsMatch(t, []int64{100, 101}, ids)

	content, err := s.Content(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "'''hi'''", string(content))
}

func TestContentRoundTripWithGzip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, true)
	ts := time.Now()
	require.NoError(t, s.AddContent(ctx, 5, 500, ts, []byte("compressed body")))
	content, err := s.Content(ctx, 500)
	require.NoError(t, err)
	assert.Equal(t, "compressed body", string(content))
}

func TestAddTextSeparateFromWiki(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, false)
	require.NoError(t, s.AddContent(ctx, 1, 100, time.Now(), []byte("'''hi'''")))
	require.NoError(t, s.AddText(ctx, 1, 100, "hi"))

	text, err := s.Text(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, "hi", text)

	wiki, err := s.Content(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "'''hi'''", string(wiki))
}

func TestPageIDs(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, false)
	require.NoError(t, s.AddPage(ctx, 1, "Foo"))
	require.NoError(t, s.AddPage(ctx, 2, "Bar"))

	it, err := s.PageIDs(ctx)
	require.NoError(t, err)
	var ids []int64
	for it.Next() {
		ids = append(ids, it.Value())
	}
	require.NoError(t, it.Err())
	assert.ElementsMatch(t, []int64{1, 2}, ids)
}
