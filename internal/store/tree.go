package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
)

// TreeInfo identifies a registered tree root.
type TreeInfo struct {
	ID   int64
	Root string
}

// RegisterTree registers path as a tree root and returns its id.
// The match is exact: registering a subdirectory of an existing root is
// allowed and creates a nearer root for resolution.
// Returns an ALREADY_REGISTERED StoreError if path is already a root.
func (s *Store) RegisterTree(ctx context.Context, path string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO trees (root) VALUES (?)
		ON CONFLICT(root) DO NOTHING
	`, path)
	if err != nil {
		return 0, fmt.Errorf("register tree: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("register tree: rows affected: %w", err)
	}
	if n == 0 {
		return 0, newAlreadyRegistered(path)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("register tree: last insert id: %w", err)
	}
	return id, nil
}

// LookupTree returns the tree id for an exact path match.
func (s *Store) LookupTree(ctx context.Context, path string) (int64, bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM trees WHERE root = ?
	`, path).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup tree: %w", err)
	}
	return id, true, nil
}

// ResolveTree walks from path up through its ancestors (path itself
// included) and returns the first registered tree root it finds.
// The starting path is always an explicit argument; the store never reads
// the process working directory.
func (s *Store) ResolveTree(ctx context.Context, path string) (int64, string, bool, error) {
	for {
		id, ok, err := s.LookupTree(ctx, path)
		if err != nil {
			return 0, "", false, err
		}
		if ok {
			return id, path, true, nil
		}
		parent := filepath.Dir(path)
		if parent == path {
			// Reached the filesystem root with no match.
			return 0, "", false, nil
		}
		path = parent
	}
}

// UnregisterTree removes a tree root and cascades deletion of all its
// bindings, scripts and files alike, in a single transaction. Blob rows are
// never touched; orphans are left for pruning.
func (s *Store) UnregisterTree(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unregister tree: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for _, table := range []string{"tree_scripts", "tree_files"} {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE tree_id = ?", table), id); err != nil {
			return fmt.Errorf("unregister tree: cascade %s: %w", table, err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM trees WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("unregister tree: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unregister tree: rows affected: %w", err)
	}
	if n == 0 {
		return &StoreError{Code: CodeNotFound, Message: fmt.Sprintf("no tree with id %d", id)}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("unregister tree: commit: %w", err)
	}
	return nil
}

// RenameTree re-keys a tree root's stored path. It operates purely on the
// stored string: the caller is responsible for having moved the directory.
// Returns ALREADY_REGISTERED if newPath already names a root, NOT_FOUND if
// oldPath does not.
func (s *Store) RenameTree(ctx context.Context, oldPath, newPath string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("rename tree: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var taken int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM trees WHERE root = ?`, newPath).Scan(&taken)
	if err == nil {
		return newAlreadyRegistered(newPath)
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("rename tree: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE trees SET root = ? WHERE root = ?
	`, newPath, oldPath)
	if err != nil {
		return fmt.Errorf("rename tree: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rename tree: rows affected: %w", err)
	}
	if n == 0 {
		return newTreeNotFound(oldPath)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("rename tree: commit: %w", err)
	}
	return nil
}

// ListTrees returns every registered tree root, ordered by id.
// Returns an empty slice (not nil) when no trees are registered.
func (s *Store) ListTrees(ctx context.Context) ([]TreeInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, root FROM trees ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list trees: %w", err)
	}
	defer rows.Close()

	trees := []TreeInfo{}
	for rows.Next() {
		var t TreeInfo
		if err := rows.Scan(&t.ID, &t.Root); err != nil {
			return nil, fmt.Errorf("list trees: scan: %w", err)
		}
		trees = append(trees, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trees: iterate: %w", err)
	}
	return trees, nil
}
