package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/Loekiboy/loek-it-up/internal/study"
)

// SnapshotStore persists study-session snapshots for resume-after-reload.
// At most one snapshot exists per (user, list, mode); Save upserts.
type SnapshotStore interface {
	// Save stores or replaces the snapshot for its (list, mode) key.
	Save(ctx context.Context, userID uuid.UUID, snap *study.Snapshot) error

	// Get retrieves the stored snapshot.
	// Returns ErrSnapshotNotFound if none exists.
	Get(ctx context.Context, userID, listID uuid.UUID, mode study.Mode) (*study.Snapshot, error)

	// Delete removes the stored snapshot. Deleting a missing snapshot
	// is not an error; completion and abandonment both land here.
	Delete(ctx context.Context, userID, listID uuid.UUID, mode study.Mode) error
}
