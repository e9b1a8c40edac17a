package result

import (
	"context"
	"database/sql"
	"maps"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlrow/internal/processors"
	"github.com/roach88/sqlrow/internal/row"
	"github.com/roach88/sqlrow/internal/rowerr"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE users (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			balance DECIMAL(10,2),
			active BOOLEAN,
			created_at DATETIME
		);
		INSERT INTO users (id, name, balance, active, created_at) VALUES
			(1, 'ada', '12.50', 1, '2024-01-02 03:04:05'),
			(2, 'grace', NULL, 0, NULL);
	`)
	require.NoError(t, err)
	return db
}

func query(t *testing.T, db *sql.DB, opts Options, q string, args ...any) *Result {
	t.Helper()
	rows, err := db.QueryContext(context.Background(), q, args...)
	require.NoError(t, err)
	res, err := New(rows, opts)
	require.NoError(t, err)
	return res
}

func TestResultFetch(t *testing.T) {
	db := openDB(t)
	res := query(t, db, DefaultOptions(), "SELECT id, name, balance, active, created_at FROM users ORDER BY id")

	assert.Equal(t, []string{"id", "name", "balance", "active", "created_at"}, res.Columns())

	rows, err := res.Fetch()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	v, err := first.Get("id")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	v, err = first.Get("NAME")
	require.NoError(t, err)
	assert.Equal(t, "ada", v)

	v, err = first.Get("balance")
	require.NoError(t, err)
	require.IsType(t, decimal.Decimal{}, v)
	assert.True(t, decimal.RequireFromString("12.5").Equal(v.(decimal.Decimal)))

	v, err = first.Get("active")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = first.Get("created_at")
	require.NoError(t, err)
	require.IsType(t, time.Time{}, v)
	assert.True(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC).Equal(v.(time.Time)))

	second := rows[1]
	v, err = second.Get("balance")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = second.Get(-1)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestResultDuplicateColumnNames(t *testing.T) {
	db := openDB(t)
	res := query(t, db, DefaultOptions(), "SELECT a.id, b.id FROM users a JOIN users b ON a.id = b.id ORDER BY a.id")

	r, err := res.First()
	require.NoError(t, err)

	_, err = r.Get("id")
	require.Error(t, err)
	assert.True(t, rowerr.IsAmbiguousKey(err))

	v, err := r.Get(0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	v, err = r.Get(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestResultCaseSensitive(t *testing.T) {
	db := openDB(t)
	opts := DefaultOptions()
	opts.CaseSensitive = true
	res := query(t, db, opts, "SELECT name FROM users WHERE id = ?", 1)

	r, err := res.First()
	require.NoError(t, err)

	_, err = r.Get("NAME")
	assert.True(t, rowerr.IsKeyNotFound(err))
	v, err := r.Get("name")
	require.NoError(t, err)
	assert.Equal(t, "ada", v)
}

func TestResultKeyStyle(t *testing.T) {
	db := openDB(t)
	opts := DefaultOptions()
	opts.KeyStyle = row.KeyIntegerOnly
	res := query(t, db, opts, "SELECT id, name FROM users WHERE id = ?", 2)

	r, err := res.First()
	require.NoError(t, err)
	assert.Equal(t, row.KeyIntegerOnly, r.KeyStyle())

	_, err = r.Get("name")
	assert.True(t, rowerr.IsTypeMismatch(err))

	v, err := r.Mapping().Get("name")
	require.NoError(t, err)
	assert.Equal(t, "grace", v)
}

func TestResultWithoutRegistry(t *testing.T) {
	db := openDB(t)
	res := query(t, db, Options{}, "SELECT balance FROM users WHERE id = 1")

	r, err := res.First()
	require.NoError(t, err)
	v, err := r.Get(0)
	require.NoError(t, err)
	assert.Equal(t, 12.5, v)
	assert.Equal(t, row.KeyObjectsNoWarn, r.KeyStyle())
}

func TestResultCustomRegistry(t *testing.T) {
	db := openDB(t)
	opts := DefaultOptions()
	opts.Registry = opts.Registry.With("INTEGER", processors.String)
	res := query(t, db, opts, "SELECT id FROM users ORDER BY id")

	rows, err := res.Fetch()
	require.NoError(t, err)
	v, err := rows[1].Get(0)
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}

func TestResultMappings(t *testing.T) {
	db := openDB(t)
	res := query(t, db, DefaultOptions(), "SELECT id, name FROM users ORDER BY id")

	views, err := res.Mappings()
	require.NoError(t, err)
	require.Len(t, views, 2)

	m, err := views[1].AsMap()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": int64(2), "name": "grace"}, maps.Collect(m.All()))

	_, err = views[0].Get(0)
	assert.True(t, rowerr.IsKeyNotFound(err))
}

func TestResultFirstEmpty(t *testing.T) {
	db := openDB(t)
	res := query(t, db, DefaultOptions(), "SELECT id FROM users WHERE id = 99")

	_, err := res.First()
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestResultAllStopsEarly(t *testing.T) {
	db := openDB(t)
	res := query(t, db, DefaultOptions(), "SELECT id FROM users ORDER BY id")
	defer res.Close()

	var seen int
	for r, err := range res.All() {
		require.NoError(t, err)
		require.NotNil(t, r)
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}

func TestResultProcessorError(t *testing.T) {
	db := openDB(t)
	opts := DefaultOptions()
	opts.Registry = opts.Registry.With("TEXT", processors.Int)
	res := query(t, db, opts, "SELECT name FROM users")

	_, err := res.Fetch()
	require.Error(t, err)
	assert.True(t, rowerr.IsTypeMismatch(err))
}

func TestMetadataOwnerHooks(t *testing.T) {
	meta := NewMetadata([]Column{
		{Name: "id", DatabaseType: "INTEGER"},
		{Name: "Label", DatabaseType: "TEXT", Objects: []any{"alias"}},
	}, DefaultOptions())

	assert.Equal(t, []string{"id", "Label"}, meta.Keys())
	assert.True(t, meta.HasKey("label"))
	assert.False(t, meta.HasKey("nope"))

	r, err := meta.NewRow([]any{int64(3), "x"})
	require.NoError(t, err)
	assert.Same(t, meta, r.Owner())

	v, err := r.Get("alias")
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	v, err = r.Get("LABEL")
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	cols := meta.Columns()
	cols[0].Name = "changed"
	assert.Equal(t, "id", meta.Columns()[0].Name)
}
