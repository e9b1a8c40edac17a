package store

import (
	"context"
	"path/filepath"
	"testing"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createUsers creates and fills the users table the exec and snapshot tests
// query.
func createUsers(t *testing.T, s *Store) {
	t.Helper()
	_, err := s.db.Exec(`
		CREATE TABLE users (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			score REAL
		);
		INSERT INTO users (id, name, score) VALUES (1, 'ada', 9.5), (2, 'grace', NULL);
	`)
	if err != nil {
		t.Fatalf("create users: %v", err)
	}
}

func countUsers(t *testing.T, s *Store) int {
	t.Helper()
	var n int
	if err := s.db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		t.Fatalf("count users: %v", err)
	}
	return n
}
