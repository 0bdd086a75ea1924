package iostreams

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectCodec(t *testing.T) {
	assert.Equal(t, CodecGzip, DetectCodec("dump.xml.gz"))
	assert.Equal(t, CodecBzip2, DetectCodec("dump.xml.bz2"))
	assert.Equal(t, CodecNone, DetectCodec("dump.xml"))
	assert.Equal(t, CodecGzip, DetectCodec("DUMP.XML.GZ"))
}

func TestGzipRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := OpenWriter(&buf, CodecGzip)
	require.NoError(t, err)
	_, err = w.Write([]byte("hello wikitext dump"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := OpenReader(&buf, CodecGzip)
	require.NoError(t, err)
	defer r.Close()
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello wikitext dump", string(got))
}

func TestNoneCodecPassesThrough(t *testing.T) {
	r, err := OpenReader(bytes.NewBufferString("plain"), CodecNone)
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "plain", string(got))
}

func TestBzip2WriterUnsupported(t *testing.T) {
	var buf bytes.Buffer
	_, err := OpenWriter(&buf, CodecBzip2)
	assert.Error(t, err)
}
