// Package sqlstore is the SQL-table content store backend: MWPage(PageId,
// Title) and MWRevision(RevId, PageId, Timestamp, Content), with indices
// on Title and PageId. It supports both Postgres (via jackc/pgx) and MSSQL
// (via microsoft/go-mssqldb), dispatching schema DDL and existence checks
// on the driver type.
package sqlstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/klauspost/compress/gzip"
	mssql "github.com/microsoft/go-mssqldb"

	"github.com/vippsas/wikiparse/store"
)

// Store is the sqlstore.Store implementation. Gzip is a constructor flag
// (§6): when true, AddContent compresses before writing and Content
// decompresses on read.
type Store struct {
	db   DB
	gzip bool
}

// New wraps an already-open DB. gzip selects whether Content values are
// stored compressed.
func New(db DB, gzip bool) *Store {
	return &Store{db: db, gzip: gzip}
}

func (s *Store) isMSSQL() bool {
	_, ok := s.db.Driver().(*mssql.Driver)
	return ok
}

func (s *Store) isPostgres() bool {
	_, ok := s.db.Driver().(*stdlib.Driver)
	return ok
}

// DeploySchema creates MWPage/MWRevision and their indices if they do not
// already exist. It is idempotent, an idempotent
// CREATE TABLE IF NOT EXISTS-style migration idiom.
func (s *Store) DeploySchema(ctx context.Context) error {
	var stmts []string
	switch {
	case s.isMSSQL():
		stmts = []string{
			`IF OBJECT_ID('MWPage') IS NULL CREATE TABLE MWPage (PageId BIGINT NOT NULL PRIMARY KEY, Title NVARCHAR(512) NOT NULL)`,
			`IF NOT EXISTS (SELECT 1 FROM sys.indexes WHERE name = 'IX_MWPage_Title') CREATE INDEX IX_MWPage_Title ON MWPage(Title)`,
			`IF OBJECT_ID('MWRevision') IS NULL CREATE TABLE MWRevision (RevId BIGINT NOT NULL PRIMARY KEY, PageId BIGINT NOT NULL, Timestamp DATETIME2 NOT NULL, Content VARBINARY(MAX) NOT NULL)`,
			`IF NOT EXISTS (SELECT 1 FROM sys.indexes WHERE name = 'IX_MWRevision_PageId') CREATE INDEX IX_MWRevision_PageId ON MWRevision(PageId)`,
		}
	case s.isPostgres():
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS mwpage (pageid BIGINT NOT NULL PRIMARY KEY, title TEXT NOT NULL)`,
			`CREATE INDEX IF NOT EXISTS ix_mwpage_title ON mwpage(title)`,
			`CREATE TABLE IF NOT EXISTS mwrevision (revid BIGINT NOT NULL PRIMARY KEY, pageid BIGINT NOT NULL, timestamp TIMESTAMPTZ NOT NULL, content BYTEA NOT NULL)`,
			`CREATE INDEX IF NOT EXISTS ix_mwrevision_pageid ON mwrevision(pageid)`,
		}
	default:
		return fmt.Errorf("sqlstore: unsupported driver %T", s.db.Driver())
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) AddPage(ctx context.Context, pageID int64, title string) error {
	qs := s.dialect(
		`INSERT INTO MWPage (PageId, Title) VALUES (@p1, @p2)`,
		`INSERT INTO mwpage (pageid, title) VALUES ($1, $2) ON CONFLICT (pageid) DO UPDATE SET title = excluded.title`,
	)
	_, err := s.db.ExecContext(ctx, qs, pageID, title)
	return err
}

func (s *Store) AddContent(ctx context.Context, pageID, revID int64, timestamp time.Time, content []byte) error {
	encoded, err := s.encode(content)
	if err != nil {
		return err
	}
	qs := s.dialect(
		`INSERT INTO MWRevision (RevId, PageId, Timestamp, Content) VALUES (@p1, @p2, @p3, @p4)`,
		`INSERT INTO mwrevision (revid, pageid, timestamp, content) VALUES ($1, $2, $3, $4) ON CONFLICT (revid) DO UPDATE SET content = excluded.content`,
	)
	_, err = s.db.ExecContext(ctx, qs, revID, pageID, timestamp, encoded)
	return err
}

func (s *Store) PageIDs(ctx context.Context) (store.Int64Iterator, error) {
	qs := s.dialect(`SELECT PageId FROM MWPage`, `SELECT pageid FROM mwpage`)
	return s.queryInt64s(ctx, qs)
}

func (s *Store) RevIDs(ctx context.Context, pageID int64) (store.Int64Iterator, error) {
	qs := s.dialect(
		`SELECT RevId FROM MWRevision WHERE PageId = @p1`,
		`SELECT revid FROM mwrevision WHERE pageid = $1`,
	)
	return s.queryInt64s(ctx, qs, pageID)
}

func (s *Store) Title(ctx context.Context, pageID int64) (string, error) {
	qs := s.dialect(`SELECT Title FROM MWPage WHERE PageId = @p1`, `SELECT title FROM mwpage WHERE pageid = $1`)
	var title string
	err := s.db.QueryRowContext(ctx, qs, pageID).Scan(&title)
	return title, err
}

func (s *Store) Content(ctx context.Context, revID int64) ([]byte, error) {
	qs := s.dialect(`SELECT Content FROM MWRevision WHERE RevId = @p1`, `SELECT content FROM mwrevision WHERE revid = $1`)
	var raw []byte
	if err := s.db.QueryRowContext(ctx, qs, revID).Scan(&raw); err != nil {
		return nil, err
	}
	return s.decode(raw)
}

func (s *Store) Close() error { return nil }

func (s *Store) dialect(mssqlText, postgresText string) string {
	if s.isMSSQL() {
		return mssqlText
	}
	return postgresText
}

func (s *Store) queryInt64s(ctx context.Context, qs string, args ...interface{}) (store.Int64Iterator, error) {
	rows, err := s.db.QueryContext(ctx, qs, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vals []int64
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return store.NewSliceIterator(vals), nil
}

func (s *Store) encode(content []byte) ([]byte, error) {
	if !s.gzip {
		return content, nil
	}
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(content); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Store) decode(raw []byte) ([]byte, error) {
	if !s.gzip {
		return raw, nil
	}
	r, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

var _ store.Store = (*Store)(nil)
