package store

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Kind selects the binding namespace. Scripts and files share the same row
// shape but live in separate tables, so names never collide across kinds.
type Kind string

const (
	KindScript Kind = "script"
	KindFile   Kind = "file"
)

// table maps a kind to its backing table. The set is closed; anything else
// is a programming error.
func (k Kind) table() string {
	switch k {
	case KindScript:
		return "tree_scripts"
	case KindFile:
		return "tree_files"
	default:
		panic(fmt.Sprintf("store: unknown binding kind %q", string(k)))
	}
}

// BindingInfo describes one binding row for listings.
type BindingInfo struct {
	Name        string
	Description string
	BlobID      int64
}

// normalizeName folds binding names to NFC so visually identical names
// always hit the same row regardless of how the terminal encoded them.
func normalizeName(name string) string {
	return norm.NFC.String(name)
}

// AddBinding stores body and binds it to (treeID, name) within the kind's
// namespace. Put and bind happen in one transaction.
// Returns a DUPLICATE_NAME StoreError if the name is taken for that tree.
func (s *Store) AddBinding(ctx context.Context, kind Kind, treeID int64, name string, body []byte) error {
	name = normalizeName(name)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("add %s: begin tx: %w", kind, err)
	}
	defer tx.Rollback() // No-op if committed

	blobID, err := putBlobTx(ctx, tx, body)
	if err != nil {
		return fmt.Errorf("add %s: %w", kind, err)
	}

	res, err := tx.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (tree_id, blob_id, name) VALUES (?, ?, ?)
		ON CONFLICT(tree_id, name) DO NOTHING
	`, kind.table()), treeID, blobID, name)
	if err != nil {
		return fmt.Errorf("add %s: insert binding: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("add %s: rows affected: %w", kind, err)
	}
	if n == 0 {
		return newDuplicateName(kind, name)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("add %s: commit: %w", kind, err)
	}
	return nil
}

// UpdateBinding overwrites the content of the blob the binding points at.
// The blob id is unchanged, so bindings sharing the blob (in any tree)
// observe the new content too. See OverwriteBlob.
func (s *Store) UpdateBinding(ctx context.Context, kind Kind, treeID int64, name string, body []byte) error {
	name = normalizeName(name)

	blobID, err := s.bindingBlobID(ctx, kind, treeID, name)
	if err != nil {
		return err
	}
	return s.OverwriteBlob(ctx, blobID, body)
}

// RemoveBinding deletes the binding row if present and reports whether a row
// was deleted. An absent name is not an error.
func (s *Store) RemoveBinding(ctx context.Context, kind Kind, treeID int64, name string) (bool, error) {
	name = normalizeName(name)

	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		DELETE FROM %s WHERE tree_id = ? AND name = ?
	`, kind.table()), treeID, name)
	if err != nil {
		return false, fmt.Errorf("remove %s: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove %s: rows affected: %w", kind, err)
	}
	return n > 0, nil
}

// GetBinding returns the stored bytes for (treeID, name).
// Script misses return the distinguished NO_SUCH_SCRIPT code; file misses
// are plain NOT_FOUND. A tombstoned blob reads as NOT_FOUND.
func (s *Store) GetBinding(ctx context.Context, kind Kind, treeID int64, name string) ([]byte, error) {
	name = normalizeName(name)

	var body []byte
	var tombstoned bool
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT b.body, b.body IS NULL
		FROM %s t JOIN blobs b ON b.id = t.blob_id
		WHERE t.tree_id = ? AND t.name = ?
	`, kind.table()), treeID, name).Scan(&body, &tombstoned)
	if err == sql.ErrNoRows {
		return nil, newBindingMissing(kind, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %q: %w", kind, name, err)
	}
	if tombstoned {
		return nil, &StoreError{
			Code:    CodeNotFound,
			Message: fmt.Sprintf("%s content has been pruned", kind),
			Kind:    kind,
			Name:    name,
		}
	}
	if body == nil {
		body = []byte{}
	}
	return body, nil
}

// SetDescription updates only the description column.
// Returns a binding-miss StoreError if the name is absent for that tree.
func (s *Store) SetDescription(ctx context.Context, kind Kind, treeID int64, name, text string) error {
	name = normalizeName(name)

	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		UPDATE %s SET desc = ? WHERE tree_id = ? AND name = ?
	`, kind.table()), text, treeID, name)
	if err != nil {
		return fmt.Errorf("describe %s: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("describe %s: rows affected: %w", kind, err)
	}
	if n == 0 {
		return newBindingMissing(kind, name)
	}
	return nil
}

// RenameBinding re-keys a binding's name, scoped to (treeID, name).
// Returns DUPLICATE_NAME if newName is taken in that tree, or a binding-miss
// StoreError if oldName is absent.
func (s *Store) RenameBinding(ctx context.Context, kind Kind, treeID int64, oldName, newName string) error {
	oldName = normalizeName(oldName)
	newName = normalizeName(newName)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("rename %s: begin tx: %w", kind, err)
	}
	defer tx.Rollback() // No-op if committed

	var taken int64
	err = tx.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT blob_id FROM %s WHERE tree_id = ? AND name = ?
	`, kind.table()), treeID, newName).Scan(&taken)
	if err == nil {
		return newDuplicateName(kind, newName)
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("rename %s: %w", kind, err)
	}

	res, err := tx.ExecContext(ctx, fmt.Sprintf(`
		UPDATE %s SET name = ? WHERE tree_id = ? AND name = ?
	`, kind.table()), newName, treeID, oldName)
	if err != nil {
		return fmt.Errorf("rename %s: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rename %s: rows affected: %w", kind, err)
	}
	if n == 0 {
		return newBindingMissing(kind, oldName)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("rename %s: commit: %w", kind, err)
	}
	return nil
}

// CloneBindings copies every binding row of the kind from srcTree to
// dstTree, preserving blob references (no content is duplicated).
// Destination names that already exist are skipped. Returns the number of
// rows copied.
func (s *Store) CloneBindings(ctx context.Context, kind Kind, srcTree, dstTree int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %[1]s (tree_id, blob_id, name, desc)
		SELECT ?, blob_id, name, desc FROM %[1]s WHERE tree_id = ?
		ON CONFLICT(tree_id, name) DO NOTHING
	`, kind.table()), dstTree, srcTree)
	if err != nil {
		return 0, fmt.Errorf("clone %ss: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clone %ss: rows affected: %w", kind, err)
	}
	return n, nil
}

// ListBindings returns the kind's bindings for a tree, ordered by name.
// Description is the empty string when unset. Returns an empty slice (not
// nil) when the tree has no bindings.
func (s *Store) ListBindings(ctx context.Context, kind Kind, treeID int64) ([]BindingInfo, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT name, COALESCE(desc, ''), blob_id
		FROM %s WHERE tree_id = ?
		ORDER BY name ASC
	`, kind.table()), treeID)
	if err != nil {
		return nil, fmt.Errorf("list %ss: %w", kind, err)
	}
	defer rows.Close()

	bindings := []BindingInfo{}
	for rows.Next() {
		var b BindingInfo
		if err := rows.Scan(&b.Name, &b.Description, &b.BlobID); err != nil {
			return nil, fmt.Errorf("list %ss: scan: %w", kind, err)
		}
		bindings = append(bindings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %ss: iterate: %w", kind, err)
	}
	return bindings, nil
}

// bindingBlobID resolves the blob id a binding points at.
func (s *Store) bindingBlobID(ctx context.Context, kind Kind, treeID int64, name string) (int64, error) {
	var blobID int64
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT blob_id FROM %s WHERE tree_id = ? AND name = ?
	`, kind.table()), treeID, name).Scan(&blobID)
	if err == sql.ErrNoRows {
		return 0, newBindingMissing(kind, name)
	}
	if err != nil {
		return 0, fmt.Errorf("lookup %s %q: %w", kind, name, err)
	}
	return blobID, nil
}
