package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Loekiboy/loek-it-up/internal/platform/logger"
	"github.com/Loekiboy/loek-it-up/internal/store"
	"github.com/Loekiboy/loek-it-up/internal/study"
)

// PostgresSnapshotStore implements the store.SnapshotStore interface
// using a PostgreSQL database as the storage backend. Snapshots are
// stored as JSONB, one row per (user, list, mode).
type PostgresSnapshotStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSnapshotStore creates a new PostgreSQL implementation of the
// SnapshotStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresSnapshotStore(db store.DBTX, logger *slog.Logger) *PostgresSnapshotStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSnapshotStore{
		db:     db,
		logger: logger.With(slog.String("component", "snapshot_store")),
	}
}

// Ensure PostgresSnapshotStore implements store.SnapshotStore interface
var _ store.SnapshotStore = (*PostgresSnapshotStore)(nil)

// Save implements store.SnapshotStore.Save
// It upserts the snapshot for its (user, list, mode) key.
func (s *PostgresSnapshotStore) Save(ctx context.Context, userID uuid.UUID, snap *study.Snapshot) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	data, err := json.Marshal(snap)
	if err != nil {
		log.Error("failed to marshal snapshot",
			slog.String("error", err.Error()),
			slog.String("list_id", snap.ListID.String()))
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	query := `
		INSERT INTO session_snapshots (user_id, list_id, mode, data, saved_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, list_id, mode) DO UPDATE
		SET data = EXCLUDED.data, saved_at = EXCLUDED.saved_at
	`
	_, err = s.db.ExecContext(ctx, query, userID, snap.ListID, string(snap.Mode), data, snap.SavedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during snapshot save",
				slog.String("list_id", snap.ListID.String()),
				slog.String("user_id", userID.String()))
			return fmt.Errorf("%w: list with ID %s not found",
				store.ErrInvalidEntity, snap.ListID)
		}

		log.Error("failed to save snapshot",
			slog.String("error", err.Error()),
			slog.String("list_id", snap.ListID.String()),
			slog.String("mode", string(snap.Mode)))
		return MapError(err)
	}

	log.Debug("snapshot saved",
		slog.String("list_id", snap.ListID.String()),
		slog.String("mode", string(snap.Mode)))
	return nil
}

// Get implements store.SnapshotStore.Get
// Returns store.ErrSnapshotNotFound if none exists.
func (s *PostgresSnapshotStore) Get(ctx context.Context, userID, listID uuid.UUID, mode study.Mode) (*study.Snapshot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT data
		FROM session_snapshots
		WHERE user_id = $1 AND list_id = $2 AND mode = $3
	`

	var data []byte
	err := s.db.QueryRowContext(ctx, query, userID, listID, string(mode)).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("snapshot not found",
				slog.String("list_id", listID.String()),
				slog.String("mode", string(mode)))
			return nil, store.ErrSnapshotNotFound
		}
		log.Error("failed to get snapshot",
			slog.String("error", err.Error()),
			slog.String("list_id", listID.String()),
			slog.String("mode", string(mode)))
		return nil, MapError(err)
	}

	var snap study.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Error("failed to unmarshal snapshot",
			slog.String("error", err.Error()),
			slog.String("list_id", listID.String()))
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &snap, nil
}

// Delete implements store.SnapshotStore.Delete
// Deleting a snapshot that does not exist is not an error.
func (s *PostgresSnapshotStore) Delete(ctx context.Context, userID, listID uuid.UUID, mode study.Mode) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM session_snapshots
		WHERE user_id = $1 AND list_id = $2 AND mode = $3
	`
	_, err := s.db.ExecContext(ctx, query, userID, listID, string(mode))
	if err != nil {
		log.Error("failed to delete snapshot",
			slog.String("error", err.Error()),
			slog.String("list_id", listID.String()),
			slog.String("mode", string(mode)))
		return MapError(err)
	}

	return nil
}
