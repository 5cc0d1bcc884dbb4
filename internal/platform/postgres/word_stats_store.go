package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Loekiboy/loek-it-up/internal/platform/logger"
	"github.com/Loekiboy/loek-it-up/internal/store"
)

// PostgresWordStatsStore implements the store.WordStatsStore interface
// using a PostgreSQL database as the storage backend. The tallies live
// on the words table itself, so recording an answer is a single UPDATE.
type PostgresWordStatsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresWordStatsStore creates a new PostgreSQL implementation of the
// WordStatsStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresWordStatsStore(db store.DBTX, logger *slog.Logger) *PostgresWordStatsStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresWordStatsStore{
		db:     db,
		logger: logger.With(slog.String("component", "word_stats_store")),
	}
}

// Ensure PostgresWordStatsStore implements store.WordStatsStore interface
var _ store.WordStatsStore = (*PostgresWordStatsStore)(nil)

// RecordAnswer implements store.WordStatsStore.RecordAnswer
// Returns store.ErrWordNotFound if the word does not exist.
func (s *PostgresWordStatsStore) RecordAnswer(ctx context.Context, wordID uuid.UUID, correct bool) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `UPDATE words SET wrong_count = wrong_count + 1 WHERE id = $1`
	if correct {
		query = `UPDATE words SET correct_count = correct_count + 1 WHERE id = $1`
	}

	result, err := s.db.ExecContext(ctx, query, wordID)
	if err != nil {
		log.Error("failed to record answer",
			slog.String("error", err.Error()),
			slog.String("word_id", wordID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrWordNotFound); err != nil {
		log.Debug("word not found for answer",
			slog.String("word_id", wordID.String()))
		return err
	}

	return nil
}

// RecordOverride implements store.WordStatsStore.RecordOverride
// It moves one tally from wrong to correct for the "accept my answer"
// dispute flow. The wrong count never goes below zero.
// Returns store.ErrWordNotFound if the word does not exist.
func (s *PostgresWordStatsStore) RecordOverride(ctx context.Context, wordID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE words
		SET correct_count = correct_count + 1,
		    wrong_count = GREATEST(wrong_count - 1, 0)
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, wordID)
	if err != nil {
		log.Error("failed to record override",
			slog.String("error", err.Error()),
			slog.String("word_id", wordID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrWordNotFound); err != nil {
		log.Debug("word not found for override",
			slog.String("word_id", wordID.String()))
		return err
	}

	log.Info("answer override recorded",
		slog.String("word_id", wordID.String()))
	return nil
}

// WithTx implements store.WordStatsStore.WithTx
// It returns a WordStatsStore bound to the given transaction.
func (s *PostgresWordStatsStore) WithTx(tx *sql.Tx) store.WordStatsStore {
	return &PostgresWordStatsStore{
		db:     tx,
		logger: s.logger,
	}
}
