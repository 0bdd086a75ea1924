// Package filewriter implements the alternative-to-a-store output named in
// §6: either every revision delimited by form-feeds in one stream, or
// one file per revision using a path template.
package filewriter

import (
	"fmt"
	"io"
	"mime/quotedprintable"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Record is one revision body the writer emits, alongside the fields a
// path template or title line may reference.
type Record struct {
	PageID int64
	Title  string
	Body   string
}

// StreamWriter writes every revision into a single output stream, with a
// '\f' form-feed between consecutive records (none before the first or
// after the last) and an optional title line before each body, per §6's
// alternative (a).
type StreamWriter struct {
	w          io.Writer
	emitTitle  bool
	wroteFirst bool
}

// NewStreamWriter wraps w. When emitTitle is set (the CLI's -T flag), each
// record is preceded by a line containing its title.
func NewStreamWriter(w io.Writer, emitTitle bool) *StreamWriter {
	return &StreamWriter{w: w, emitTitle: emitTitle}
}

func (s *StreamWriter) Write(rec Record) error {
	if s.wroteFirst {
		if _, err := io.WriteString(s.w, "\f"); err != nil {
			return err
		}
	}
	s.wroteFirst = true
	if s.emitTitle {
		if _, err := fmt.Fprintf(s.w, "%s\n", rec.Title); err != nil {
			return err
		}
	}
	_, err := io.WriteString(s.w, rec.Body)
	return err
}

// PathWriter writes one file per revision, its path built from a template
// containing "{name}" (the title, quoted-printable encoded so it is always
// a safe path component) and "{pageid}" substitutions, per §6's
// alternative (b).
type PathWriter struct {
	pattern string
}

// NewPathWriter wraps a path template such as "out/{pageid}/{name}.wiki".
func NewPathWriter(pattern string) *PathWriter {
	return &PathWriter{pattern: pattern}
}

func (p *PathWriter) pathFor(rec Record) string {
	name := quotedPrintableName(rec.Title)
	path := p.pattern
	path = strings.ReplaceAll(path, "{name}", name)
	path = strings.ReplaceAll(path, "{pageid}", strconv.FormatInt(rec.PageID, 10))
	return path
}

func (p *PathWriter) Write(rec Record) error {
	path := p.pathFor(rec)
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.WriteString(f, rec.Body)
	return err
}

// quotedPrintableName encodes title using MIME quoted-printable (§6
// names this encoding explicitly for the "{name}" path substitution), which
// escapes '=' and non-ASCII bytes; spaces inside the title are kept as they
// are, and '/' (slashes in subpage titles) is escaped separately below.
func quotedPrintableName(title string) string {
	var sb strings.Builder
	w := quotedprintable.NewWriter(&sb)
	_, _ = w.Write([]byte(title))
	_ = w.Close()
	encoded := sb.String()
	// quotedprintable escapes '=' and control bytes but leaves '/' alone;
	// '/' is the one byte quoted-printable doesn't neutralise that still
	// breaks a path substitution, so escape it the same way.
	return strings.ReplaceAll(encoded, "/", "=2F")
}
