package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlrow/internal/result"
	"github.com/roach88/sqlrow/internal/rowerr"
)

func TestExecute_NoUnits(t *testing.T) {
	s := createTestStore(t)
	createUsers(t, s)

	res, err := s.Execute(context.Background(), "DELETE FROM users", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Units)
	assert.Equal(t, int64(2), res.RowsAffected)
	assert.Equal(t, 0, countUsers(t, s))
}

func TestExecute_SinglePositionalUnit(t *testing.T) {
	s := createTestStore(t)
	createUsers(t, s)

	res, err := s.Execute(context.Background(),
		"INSERT INTO users (id, name) VALUES (?, ?)",
		[]any{int64(3), "linus"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Units)
	assert.Equal(t, int64(1), res.RowsAffected)
	assert.Equal(t, int64(3), res.LastInsertID)
}

func TestExecute_NamedParams(t *testing.T) {
	s := createTestStore(t)
	createUsers(t, s)

	res, err := s.Execute(context.Background(),
		"UPDATE users SET name = :name WHERE id = :id",
		nil, map[string]any{"id": int64(2), "name": "hopper"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Units)
	assert.Equal(t, int64(1), res.RowsAffected)

	var name string
	require.NoError(t, s.db.QueryRow("SELECT name FROM users WHERE id = 2").Scan(&name))
	assert.Equal(t, "hopper", name)
}

func TestExecute_ManyUnits(t *testing.T) {
	s := createTestStore(t)
	createUsers(t, s)

	res, err := s.Execute(context.Background(),
		"INSERT INTO users (id, name) VALUES (?, ?)",
		[]any{[]any{int64(3), "linus"}, []any{int64(4), "ken"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Units)
	assert.Equal(t, int64(2), res.RowsAffected)
	assert.Equal(t, int64(4), res.LastInsertID)
	assert.Equal(t, 4, countUsers(t, s))
}

func TestExecute_ManyNamedUnits(t *testing.T) {
	s := createTestStore(t)
	createUsers(t, s)

	res, err := s.Execute(context.Background(),
		"INSERT INTO users (id, name) VALUES (@id, @name)",
		[]any{[]any{
			map[string]any{"id": int64(3), "name": "linus"},
			map[string]any{"id": int64(4), "name": "ken"},
		}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Units)
	assert.Equal(t, 4, countUsers(t, s))
}

func TestExecute_FailureRollsBack(t *testing.T) {
	s := createTestStore(t)
	createUsers(t, s)

	// The second unit collides with the existing primary key 1.
	_, err := s.Execute(context.Background(),
		"INSERT INTO users (id, name) VALUES (?, ?)",
		[]any{[]any{int64(3), "linus"}, []any{int64(1), "dup"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unit 1")
	assert.Equal(t, 2, countUsers(t, s))
}

func TestExecute_MixedShapesRejected(t *testing.T) {
	s := createTestStore(t)
	createUsers(t, s)

	_, err := s.Execute(context.Background(),
		"INSERT INTO users (id, name) VALUES (?, ?)",
		[]any{[]any{int64(3), "linus"}, map[string]any{"id": int64(4)}}, nil)
	require.Error(t, err)
	assert.True(t, rowerr.IsTypeMismatch(err))
	assert.Equal(t, 2, countUsers(t, s))
}

func TestQuery_ReturnsRows(t *testing.T) {
	s := createTestStore(t)
	createUsers(t, s)

	res, err := s.Query(context.Background(),
		"SELECT id, name, score FROM users WHERE id = ?",
		[]any{int64(1)}, nil, result.DefaultOptions())
	require.NoError(t, err)
	defer res.Close()

	r, err := res.First()
	require.NoError(t, err)

	name, err := r.Key("name")
	require.NoError(t, err)
	assert.Equal(t, "ada", name)

	score, err := r.Key("score")
	require.NoError(t, err)
	assert.Equal(t, 9.5, score)
}

func TestQuery_RejectsManyUnits(t *testing.T) {
	s := createTestStore(t)
	createUsers(t, s)

	_, err := s.Query(context.Background(),
		"SELECT id FROM users WHERE id = ?",
		[]any{[]any{int64(1)}, []any{int64(2)}}, nil, result.DefaultOptions())
	require.Error(t, err)
	assert.True(t, rowerr.IsTypeMismatch(err))
}

func TestQuery_BadSQL(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Query(context.Background(), "SELECT FROM nowhere", nil, nil, result.DefaultOptions())
	require.Error(t, err)
}
