package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Loekiboy/loek-it-up/internal/store"
	"github.com/Loekiboy/loek-it-up/internal/study"
)

// statsSinkAdapter binds the engines' StatsSink capability to the
// durable word-stats store.
type statsSinkAdapter struct {
	stats store.WordStatsStore
}

var _ study.StatsSink = (*statsSinkAdapter)(nil)

func (a *statsSinkAdapter) RecordAnswer(ctx context.Context, wordID uuid.UUID, correct bool) error {
	return a.stats.RecordAnswer(ctx, wordID, correct)
}

func (a *statsSinkAdapter) RecordOverride(ctx context.Context, wordID uuid.UUID) error {
	return a.stats.RecordOverride(ctx, wordID)
}

// snapshotAdapter binds the engines' SnapshotStore capability to the
// user-scoped persistent snapshot store. The engines know nothing about
// users; the adapter carries the owning user ID.
type snapshotAdapter struct {
	snaps  store.SnapshotStore
	userID uuid.UUID
}

var _ study.SnapshotStore = (*snapshotAdapter)(nil)

func (a *snapshotAdapter) Save(ctx context.Context, snap *study.Snapshot) error {
	return a.snaps.Save(ctx, a.userID, snap)
}

func (a *snapshotAdapter) Load(ctx context.Context, listID uuid.UUID, mode study.Mode) (*study.Snapshot, error) {
	snap, err := a.snaps.Get(ctx, a.userID, listID, mode)
	if err != nil {
		if errors.Is(err, store.ErrSnapshotNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return snap, nil
}

func (a *snapshotAdapter) Clear(ctx context.Context, listID uuid.UUID, mode study.Mode) error {
	return a.snaps.Delete(ctx, a.userID, listID, mode)
}
