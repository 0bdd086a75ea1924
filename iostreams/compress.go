// Package iostreams provides the compression/decompression adaptors named
// as collaborators in §1 and §6: detecting .gz/.bz2 by file extension
// and wrapping a reader/writer accordingly. Writing is gzip-only (bz2 has
// no general-purpose Go writer); reading accepts both.
package iostreams

import (
	"compress/bzip2"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Codec identifies a stream's compression, detected from a file extension
// (§6).
type Codec int

const (
	CodecNone Codec = iota
	CodecGzip
	CodecBzip2
)

// DetectCodec returns the Codec implied by name's extension.
func DetectCodec(name string) Codec {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		return CodecGzip
	case ".bz2":
		return CodecBzip2
	default:
		return CodecNone
	}
}

// OpenReader wraps r for reading according to codec. The returned
// io.ReadCloser's Close releases only the decompressor (a no-op for bz2 and
// uncompressed input); r itself is not closed, even when it is an io.Closer.
func OpenReader(r io.Reader, codec Codec) (io.ReadCloser, error) {
	switch codec {
	case CodecGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("iostreams: open gzip reader: %w", err)
		}
		return gz, nil
	case CodecBzip2:
		// compress/bzip2 is decode-only in the standard library; no
		// ecosystem library in this pack writes bz2, and the driver only
		// ever needs to *read* dumps distributed as .bz2 (§6).
		return io.NopCloser(bzip2.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}

// wrappedWriteCloser closes an inner compressing writer, then the
// underlying sink, in that order.
type wrappedWriteCloser struct {
	io.Writer
	closers []io.Closer
}

func (w *wrappedWriteCloser) Close() error {
	var firstErr error
	for _, c := range w.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// OpenWriter wraps w for writing according to codec. Close on the returned
// writer flushes and closes the compressor (and w itself, if it is an
// io.Closer), in that order.
func OpenWriter(w io.Writer, codec Codec) (io.WriteCloser, error) {
	switch codec {
	case CodecGzip:
		gz := gzip.NewWriter(w)
		closers := []io.Closer{gz}
		if c, ok := w.(io.Closer); ok {
			closers = append(closers, c)
		}
		return &wrappedWriteCloser{Writer: gz, closers: closers}, nil
	case CodecBzip2:
		return nil, fmt.Errorf("iostreams: writing .bz2 is not supported (decode-only)")
	default:
		if c, ok := w.(io.WriteCloser); ok {
			return c, nil
		}
		return &wrappedWriteCloser{Writer: w}, nil
	}
}
