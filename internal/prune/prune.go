// Package prune implements batch maintenance over the store: removing tree
// roots whose directories have vanished and tombstoning blobs no binding
// references anymore.
//
// Both sweeps are interactive through a per-item confirmation callback and
// never print or prompt themselves. Each sweep is idempotent: re-running it
// finds nothing left to do.
package prune

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/roach88/arbor/internal/store"
)

// previewLimit bounds the content preview attached to an OrphanBlob.
const previewLimit = 512

// StaleTree describes a registered root whose path no longer exists,
// together with its bindings for operator review.
type StaleTree struct {
	ID      int64
	Root    string
	Scripts []store.BindingInfo
	Files   []store.BindingInfo
}

// OrphanBlob describes a live blob no binding references.
type OrphanBlob struct {
	ID int64
	// Preview is a best-effort text rendering of the content, truncated.
	// Empty when the content is not valid UTF-8.
	Preview string
}

// Pruner runs maintenance sweeps over a store.
type Pruner struct {
	store *store.Store

	// statFn is swapped out in tests to fake missing directories.
	statFn func(path string) error
}

// New creates a Pruner over the given store.
func New(s *store.Store) *Pruner {
	return &Pruner{
		store: s,
		statFn: func(path string) error {
			_, err := os.Stat(path)
			return err
		},
	}
}

// StaleTrees walks every registered root and offers each one whose path no
// longer exists to confirm. Confirmed trees are unregistered with the full
// binding cascade. Returns the number of trees removed.
func (p *Pruner) StaleTrees(ctx context.Context, confirm func(StaleTree) bool) (int, error) {
	trees, err := p.store.ListTrees(ctx)
	if err != nil {
		return 0, fmt.Errorf("prune stale trees: %w", err)
	}

	removed := 0
	for _, tree := range trees {
		if err := p.statFn(tree.Root); !os.IsNotExist(err) {
			continue
		}

		scripts, err := p.store.ListBindings(ctx, store.KindScript, tree.ID)
		if err != nil {
			return removed, fmt.Errorf("prune stale trees: %w", err)
		}
		files, err := p.store.ListBindings(ctx, store.KindFile, tree.ID)
		if err != nil {
			return removed, fmt.Errorf("prune stale trees: %w", err)
		}

		if !confirm(StaleTree{ID: tree.ID, Root: tree.Root, Scripts: scripts, Files: files}) {
			continue
		}
		if err := p.store.UnregisterTree(ctx, tree.ID); err != nil {
			return removed, fmt.Errorf("prune stale trees: %w", err)
		}
		removed++
	}
	return removed, nil
}

// OrphanBlobs offers every live blob that no binding of either kind
// references to confirm, and tombstones the confirmed ones. A referenced
// blob id is never offered nor tombstoned. Returns the number of blobs
// tombstoned.
func (p *Pruner) OrphanBlobs(ctx context.Context, confirm func(OrphanBlob) bool) (int, error) {
	referenced, err := p.referencedBlobIDs(ctx)
	if err != nil {
		return 0, err
	}

	ids, err := p.liveBlobIDs(ctx)
	if err != nil {
		return 0, err
	}

	tombstoned := 0
	for _, id := range ids {
		if referenced[id] {
			continue
		}

		if !confirm(OrphanBlob{ID: id, Preview: p.preview(ctx, id)}) {
			continue
		}
		if err := p.store.TombstoneBlob(ctx, id); err != nil {
			return tombstoned, fmt.Errorf("prune orphan blobs: %w", err)
		}
		tombstoned++
	}
	return tombstoned, nil
}

// referencedBlobIDs collects the blob ids referenced by any binding,
// scripts and files alike. This is the safety set: nothing in it may ever
// be tombstoned.
func (p *Pruner) referencedBlobIDs(ctx context.Context) (map[int64]bool, error) {
	rows, err := p.store.DB().QueryContext(ctx, `
		SELECT blob_id FROM tree_scripts
		UNION
		SELECT blob_id FROM tree_files
	`)
	if err != nil {
		return nil, fmt.Errorf("prune orphan blobs: referenced set: %w", err)
	}
	defer rows.Close()

	referenced := map[int64]bool{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("prune orphan blobs: scan referenced: %w", err)
		}
		referenced[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("prune orphan blobs: iterate referenced: %w", err)
	}
	return referenced, nil
}

// liveBlobIDs returns the ids of all non-tombstoned blob rows in id order.
// Already-tombstoned rows are skipped up front, which keeps the sweep
// idempotent.
func (p *Pruner) liveBlobIDs(ctx context.Context) ([]int64, error) {
	rows, err := p.store.DB().QueryContext(ctx, `
		SELECT id FROM blobs WHERE body IS NOT NULL ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("prune orphan blobs: live set: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("prune orphan blobs: scan live: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("prune orphan blobs: iterate live: %w", err)
	}
	return ids, nil
}

// preview renders the blob content as text for operator review.
func (p *Pruner) preview(ctx context.Context, id int64) string {
	body, err := p.store.FetchBlob(ctx, id)
	if err != nil {
		return ""
	}
	if len(body) > previewLimit {
		body = body[:previewLimit]
	}
	if !utf8.Valid(body) {
		return ""
	}
	return string(body)
}
