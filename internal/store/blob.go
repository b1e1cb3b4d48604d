package store

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"github.com/zeebo/xxh3"
)

// hashBlob computes the xxh3-128 digest used to index blob content.
// Dedup never trusts the hash alone: candidates are verified byte-for-byte.
func hashBlob(body []byte) []byte {
	sum := xxh3.Hash128(body).Bytes()
	return sum[:]
}

// PutBlob stores body and returns its blob id. If a live blob with identical
// content already exists, its id is returned and nothing is written.
func (s *Store) PutBlob(ctx context.Context, body []byte) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("put blob: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	id, err := putBlobTx(ctx, tx, body)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("put blob: commit: %w", err)
	}
	return id, nil
}

// putBlobTx is the insert-or-reuse step shared by PutBlob and AddBinding.
// Runs inside the caller's transaction.
func putBlobTx(ctx context.Context, tx *sql.Tx, body []byte) (int64, error) {
	hash := hashBlob(body)

	// Hash-indexed candidate scan; equality check guards against collisions.
	// Tombstoned rows carry a NULL hash and are never matched here, so a
	// re-put of tombstoned content allocates a fresh row.
	rows, err := tx.QueryContext(ctx, `
		SELECT id, body FROM blobs WHERE hash = ?
	`, hash)
	if err != nil {
		return 0, fmt.Errorf("put blob: query candidates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var candidate []byte
		if err := rows.Scan(&id, &candidate); err != nil {
			return 0, fmt.Errorf("put blob: scan candidate: %w", err)
		}
		if bytes.Equal(candidate, body) {
			return id, nil
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("put blob: iterate candidates: %w", err)
	}
	rows.Close()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO blobs (hash, body) VALUES (?, ?)
	`, hash, body)
	if err != nil {
		return 0, fmt.Errorf("put blob: insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("put blob: last insert id: %w", err)
	}
	return id, nil
}

// FetchBlob returns the content of the blob with the given id.
// Returns a NOT_FOUND StoreError if the id was never allocated or the blob
// has been tombstoned; IsBlobTombstoned distinguishes the two.
func (s *Store) FetchBlob(ctx context.Context, id int64) ([]byte, error) {
	var body []byte
	var tombstoned bool
	err := s.db.QueryRowContext(ctx, `
		SELECT body, body IS NULL FROM blobs WHERE id = ?
	`, id).Scan(&body, &tombstoned)
	if err == sql.ErrNoRows {
		return nil, newBlobNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch blob %d: %w", id, err)
	}
	if tombstoned {
		return nil, newBlobNotFound(id)
	}
	if body == nil {
		body = []byte{}
	}
	return body, nil
}

// OverwriteBlob replaces the content of an existing blob in place.
// The id is unchanged and the content hash is recomputed.
//
// This is a content mutation, not a re-dedup: every binding referencing the
// id (in any tree, of any kind) observes the new content.
func (s *Store) OverwriteBlob(ctx context.Context, id int64, body []byte) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE blobs SET hash = ?, body = ? WHERE id = ?
	`, hashBlob(body), body, id)
	if err != nil {
		return fmt.Errorf("overwrite blob %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("overwrite blob %d: rows affected: %w", id, err)
	}
	if n == 0 {
		return newBlobNotFound(id)
	}
	return nil
}

// TombstoneBlob nulls a blob's content while keeping its id allocated, so
// rows still pointing at the id stay referentially intact.
func (s *Store) TombstoneBlob(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE blobs SET hash = NULL, body = NULL WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("tombstone blob %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("tombstone blob %d: rows affected: %w", id, err)
	}
	if n == 0 {
		return newBlobNotFound(id)
	}
	return nil
}

// CountBlobs returns the number of blob rows, tombstoned rows included.
func (s *Store) CountBlobs(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blobs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count blobs: %w", err)
	}
	return count, nil
}

// IsBlobTombstoned reports whether the blob's content has been nulled.
// Returns a NOT_FOUND StoreError if the id was never allocated.
func (s *Store) IsBlobTombstoned(ctx context.Context, id int64) (bool, error) {
	var tombstoned bool
	err := s.db.QueryRowContext(ctx, `
		SELECT body IS NULL FROM blobs WHERE id = ?
	`, id).Scan(&tombstoned)
	if err == sql.ErrNoRows {
		return false, newBlobNotFound(id)
	}
	if err != nil {
		return false, fmt.Errorf("blob %d tombstone check: %w", id, err)
	}
	return tombstoned, nil
}
