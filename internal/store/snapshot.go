package store

import (
	"context"
	"fmt"

	"github.com/roach88/sqlrow/internal/row"
)

// SaveSnapshot stores rows under name, replacing any snapshot of that name.
// Each row is written as its encoded state, so restored rows keep their
// values, key map and key style but not their processors.
func (s *Store) SaveSnapshot(ctx context.Context, name string, rows []*row.Row) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM row_snapshots WHERE name = ?`, name); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	for i, r := range rows {
		state, err := r.MarshalBinary()
		if err != nil {
			return fmt.Errorf("save snapshot: row %d: %w", i, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO row_snapshots (name, seq, state, hash)
			VALUES (?, ?, ?, ?)
		`, name, i, state, hashString(r))
		if err != nil {
			return fmt.Errorf("save snapshot: row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot restores the rows saved under name, in their original order.
// Returns an empty slice (not nil) if no snapshot has that name.
func (s *Store) LoadSnapshot(ctx context.Context, name string) ([]*row.Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, state, hash
		FROM row_snapshots
		WHERE name = ?
		ORDER BY seq ASC
	`, name)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	defer rows.Close()

	out := []*row.Row{}
	for rows.Next() {
		var (
			seq   int
			state []byte
			hash  string
		)
		if err := rows.Scan(&seq, &state, &hash); err != nil {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
		r, err := row.Unmarshal(state)
		if err != nil {
			return nil, fmt.Errorf("load snapshot: row %d: %w", seq, err)
		}
		if got := hashString(r); got != hash {
			return nil, fmt.Errorf("load snapshot: row %d: hash %s, stored %s", seq, got, hash)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return out, nil
}

// ListSnapshots returns the row count of every snapshot, keyed by name.
func (s *Store) ListSnapshots(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, COUNT(*)
		FROM row_snapshots
		GROUP BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var (
			name  string
			count int
		)
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}
		out[name] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

// FindByHash returns the names of snapshots holding a row whose values hash
// equal to r's.
func (s *Store) FindByHash(ctx context.Context, r *row.Row) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT name
		FROM row_snapshots
		WHERE hash = ?
		ORDER BY name COLLATE BINARY ASC
	`, hashString(r))
	if err != nil {
		return nil, fmt.Errorf("find by hash: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("find by hash: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find by hash: %w", err)
	}
	return names, nil
}

func hashString(r *row.Row) string {
	return fmt.Sprintf("%016x", r.Hash())
}
