// Package cdbstore is the embedded constant-hash-database-style content
// store backend named in §6, keyed "{pageid}:title", "{pageid}:revs",
// "{pageid}/{revid}:wiki" and "{pageid}/{revid}:text". It uses
// github.com/dgraph-io/badger/v4 (justified in DESIGN.md) for the same
// "embedded, ordered-iteration, single-writer" shape a constant-hash
// database has.
package cdbstore

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/gzip"

	"github.com/vippsas/wikiparse/store"
)

// Store wraps an open badger database. Gzip is a constructor flag (§6),
// applied to the ":wiki" content value only.
type Store struct {
	db   *badger.DB
	gzip bool
}

// Open opens (creating if necessary) a badger database at dir.
func Open(dir string, gzip bool) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("cdbstore: open %s: %w", dir, err)
	}
	return &Store{db: db, gzip: gzip}, nil
}

func titleKey(pageID int64) []byte { return []byte(fmt.Sprintf("%d:title", pageID)) }
func revsKey(pageID int64) []byte  { return []byte(fmt.Sprintf("%d:revs", pageID)) }
func wikiKey(pageID, revID int64) []byte {
	return []byte(fmt.Sprintf("%d/%d:wiki", pageID, revID))
}
func textKey(pageID, revID int64) []byte {
	return []byte(fmt.Sprintf("%d/%d:text", pageID, revID))
}

func (s *Store) AddPage(ctx context.Context, pageID int64, title string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(titleKey(pageID), []byte(title))
	})
}

// AddContent stores the revision body under "{pageid}/{revid}:wiki" and
// appends revID to the page's "{pageid}:revs" list.
func (s *Store) AddContent(ctx context.Context, pageID, revID int64, timestamp time.Time, content []byte) error {
	encoded, err := s.encode(timestamp, content)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(wikiKey(pageID, revID), encoded); err != nil {
			return err
		}
		return appendRevID(txn, pageID, revID)
	})
}

// AddText stores revID's extracted plain text under "{pageid}/{revid}:text",
// the cdb layout's complement to ":wiki" (§6); this sits outside
// store.Store because the generic interface only knows about one body per
// revision, while the cdb key space names two.
func (s *Store) AddText(ctx context.Context, pageID, revID int64, text string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(textKey(pageID, revID), []byte(text))
	})
}

func (s *Store) Text(ctx context.Context, pageID, revID int64) (string, error) {
	var out string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(textKey(pageID, revID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			out = string(val)
			return nil
		})
	})
	return out, err
}

func appendRevID(txn *badger.Txn, pageID, revID int64) error {
	var existing []string
	item, err := txn.Get(revsKey(pageID))
	switch {
	case err == nil:
		if verr := item.Value(func(val []byte) error {
			if len(val) > 0 {
				existing = strings.Split(string(val), ",")
			}
			return nil
		}); verr != nil {
			return verr
		}
	case err == badger.ErrKeyNotFound:
		// first revision for this page
	default:
		return err
	}
	existing = append(existing, strconv.FormatInt(revID, 10))
	return txn.Set(revsKey(pageID), []byte(strings.Join(existing, ",")))
}

func (s *Store) PageIDs(ctx context.Context) (store.Int64Iterator, error) {
	var ids []int64
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			pageID, ok := parseTitleKey(key)
			if ok {
				ids = append(ids, pageID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(ids), nil
}

func parseTitleKey(key string) (int64, bool) {
	suffix := ":title"
	if !strings.HasSuffix(key, suffix) {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSuffix(key, suffix), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (s *Store) RevIDs(ctx context.Context, pageID int64) (store.Int64Iterator, error) {
	var ids []int64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(revsKey(pageID))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) == 0 {
				return nil
			}
			for _, s := range strings.Split(string(val), ",") {
				id, err := strconv.ParseInt(s, 10, 64)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(ids), nil
}

func (s *Store) Title(ctx context.Context, pageID int64) (string, error) {
	var out string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(titleKey(pageID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			out = string(val)
			return nil
		})
	})
	return out, err
}

// Content returns the content for revID, searching every page that lists
// it (§6 names "{pageid}/{revid}:wiki" as the key, so callers that already
// know pageID should prefer a direct lookup; this method is the
// store.Store-required revID-only lookup and pays for a page scan).
func (s *Store) Content(ctx context.Context, revID int64) ([]byte, error) {
	var out []byte
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()
		suffix := []byte(fmt.Sprintf("/%d:wiki", revID))
		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().Key()
			if bytes.HasSuffix(key, suffix) {
				raw, err := it.Item().ValueCopy(nil)
				if err != nil {
					return err
				}
				_, content, err := s.decode(raw)
				if err != nil {
					return err
				}
				out = content
				found = true
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, badger.ErrKeyNotFound
	}
	return out, nil
}

func (s *Store) Close() error { return s.db.Close() }

// encode prepends an 8-byte unix-nanos timestamp header to content, gzipped
// as a unit when s.gzip is set.
func (s *Store) encode(timestamp time.Time, content []byte) ([]byte, error) {
	var buf bytes.Buffer
	var header [8]byte
	binary.BigEndian.PutUint64(header[:], uint64(timestamp.UnixNano()))
	buf.Write(header[:])
	buf.Write(content)

	if !s.gzip {
		return buf.Bytes(), nil
	}
	var gzBuf bytes.Buffer
	w := gzip.NewWriter(&gzBuf)
	if _, err := w.Write(buf.Bytes()); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return gzBuf.Bytes(), nil
}

func (s *Store) decode(raw []byte) (time.Time, []byte, error) {
	plain := raw
	if s.gzip {
		r, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return time.Time{}, nil, err
		}
		defer r.Close()
		plain, err = io.ReadAll(r)
		if err != nil {
			return time.Time{}, nil, err
		}
	}
	if len(plain) < 8 {
		return time.Time{}, nil, fmt.Errorf("cdbstore: malformed content record")
	}
	nanos := binary.BigEndian.Uint64(plain[:8])
	return time.Unix(0, int64(nanos)), plain[8:], nil
}

var _ store.Store = (*Store)(nil)
