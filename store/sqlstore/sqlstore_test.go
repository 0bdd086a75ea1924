package sqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"

	"github.com/jackc/pgx/v5/stdlib"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// driverOnlyDB is a DB whose only implemented behaviour is reporting a
// fixed driver.Driver; it is enough to exercise dialect selection without a
// live database connection.
type driverOnlyDB struct {
	driver driver.Driver
}

func (d driverOnlyDB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	panic("not used in this test")
}

func (d driverOnlyDB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	panic("not used in this test")
}

func (d driverOnlyDB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	panic("not used in this test")
}

func (d driverOnlyDB) Driver() driver.Driver { return d.driver }

func TestDialectSelectsMSSQL(t *testing.T) {
	s := New(driverOnlyDB{driver: &mssql.Driver{}}, false)
	assert.True(t, s.isMSSQL())
	assert.False(t, s.isPostgres())
	assert.Equal(t, "mssql", s.dialect("mssql", "postgres"))
}

func TestDialectSelectsPostgres(t *testing.T) {
	s := New(driverOnlyDB{driver: &stdlib.Driver{}}, false)
	assert.False(t, s.isMSSQL())
	assert.True(t, s.isPostgres())
	assert.Equal(t, "postgres", s.dialect("mssql", "postgres"))
}

func TestEncodeDecodeRoundTripWithGzip(t *testing.T) {
	s := New(driverOnlyDB{}, true)
	encoded, err := s.encode([]byte("hello wikitext"))
	require.NoError(t, err)
	assert.NotEqual(t, "hello wikitext", string(encoded))

	decoded, err := s.decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, "hello wikitext", string(decoded))
}

func TestEncodeDecodeRoundTripWithoutGzip(t *testing.T) {
	s := New(driverOnlyDB{}, false)
	encoded, err := s.encode([]byte("hello wikitext"))
	require.NoError(t, err)
	assert.Equal(t, "hello wikitext", string(encoded))

	decoded, err := s.decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, "hello wikitext", string(decoded))
}
