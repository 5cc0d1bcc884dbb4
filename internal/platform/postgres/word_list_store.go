package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Loekiboy/loek-it-up/internal/domain"
	"github.com/Loekiboy/loek-it-up/internal/platform/logger"
	"github.com/Loekiboy/loek-it-up/internal/store"
)

// PostgresWordListStore implements the store.WordListStore interface
// using a PostgreSQL database as the storage backend. A list and its
// words are written as one aggregate; callers needing atomicity wrap
// operations in store.RunInTransaction and use WithTx.
type PostgresWordListStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresWordListStore creates a new PostgreSQL implementation of the
// WordListStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresWordListStore(db store.DBTX, logger *slog.Logger) *PostgresWordListStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresWordListStore{
		db:     db,
		logger: logger.With(slog.String("component", "word_list_store")),
	}
}

// Ensure PostgresWordListStore implements store.WordListStore interface
var _ store.WordListStore = (*PostgresWordListStore)(nil)

// Create implements store.WordListStore.Create
// It saves the list row and every word row.
// Returns store.ErrInvalidEntity if the owning user does not exist.
func (s *PostgresWordListStore) Create(ctx context.Context, list *domain.WordList) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := list.Validate(); err != nil {
		log.Warn("word list validation failed during create",
			slog.String("error", err.Error()),
			slog.String("list_id", list.ID.String()))
		return err
	}

	query := `
		INSERT INTO word_lists (id, user_id, title, lang_from, lang_to, subject, icon, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		list.ID,
		list.UserID,
		list.Title,
		list.LangFrom,
		list.LangTo,
		list.Subject,
		list.Icon,
		list.CreatedAt,
		list.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during word list creation",
				slog.String("list_id", list.ID.String()),
				slog.String("user_id", list.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, list.UserID)
		}

		log.Error("failed to create word list",
			slog.String("error", err.Error()),
			slog.String("list_id", list.ID.String()))
		return MapError(err)
	}

	if err := s.insertWords(ctx, list.ID, list.Words); err != nil {
		log.Error("failed to create words",
			slog.String("error", err.Error()),
			slog.String("list_id", list.ID.String()))
		return err
	}

	log.Info("word list created successfully",
		slog.String("list_id", list.ID.String()),
		slog.Int("word_count", len(list.Words)))
	return nil
}

// GetByID implements store.WordListStore.GetByID
// Returns store.ErrWordListNotFound if the list does not exist.
func (s *PostgresWordListStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.WordList, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, lang_from, lang_to, subject, icon, created_at, updated_at
		FROM word_lists
		WHERE id = $1
	`

	var list domain.WordList
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&list.ID,
		&list.UserID,
		&list.Title,
		&list.LangFrom,
		&list.LangTo,
		&list.Subject,
		&list.Icon,
		&list.CreatedAt,
		&list.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("word list not found", slog.String("list_id", id.String()))
			return nil, store.ErrWordListNotFound
		}
		log.Error("failed to get word list by ID",
			slog.String("error", err.Error()),
			slog.String("list_id", id.String()))
		return nil, MapError(err)
	}

	words, err := s.loadWords(ctx, id)
	if err != nil {
		log.Error("failed to load words",
			slog.String("error", err.Error()),
			slog.String("list_id", id.String()))
		return nil, err
	}
	list.Words = words

	return &list, nil
}

// ListByUser implements store.WordListStore.ListByUser
// Lists come back oldest first, words included.
func (s *PostgresWordListStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.WordList, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, lang_from, lang_to, subject, icon, created_at, updated_at
		FROM word_lists
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query word lists by user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var lists []*domain.WordList
	for rows.Next() {
		var list domain.WordList
		err := rows.Scan(
			&list.ID,
			&list.UserID,
			&list.Title,
			&list.LangFrom,
			&list.LangTo,
			&list.Subject,
			&list.Icon,
			&list.CreatedAt,
			&list.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan word list row",
				slog.String("error", err.Error()))
			return nil, err
		}
		lists = append(lists, &list)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	for _, list := range lists {
		words, err := s.loadWords(ctx, list.ID)
		if err != nil {
			log.Error("failed to load words",
				slog.String("error", err.Error()),
				slog.String("list_id", list.ID.String()))
			return nil, err
		}
		list.Words = words
	}

	if lists == nil {
		lists = []*domain.WordList{}
	}

	return lists, nil
}

// Update implements store.WordListStore.Update
// It replaces the list's metadata and word set. Existing words keep
// their lifetime stats; words absent from the new set are deleted.
// Returns store.ErrWordListNotFound if the list does not exist.
func (s *PostgresWordListStore) Update(ctx context.Context, list *domain.WordList) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := list.Validate(); err != nil {
		log.Warn("word list validation failed during update",
			slog.String("error", err.Error()),
			slog.String("list_id", list.ID.String()))
		return err
	}

	query := `
		UPDATE word_lists
		SET title = $1, lang_from = $2, lang_to = $3, subject = $4, icon = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		list.Title,
		list.LangFrom,
		list.LangTo,
		list.Subject,
		list.Icon,
		list.UpdatedAt,
		list.ID,
	)
	if err != nil {
		log.Error("failed to update word list",
			slog.String("error", err.Error()),
			slog.String("list_id", list.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrWordListNotFound); err != nil {
		log.Debug("word list not found for update",
			slog.String("list_id", list.ID.String()))
		return err
	}

	if err := s.deleteWordsExcept(ctx, list.ID, list.Words); err != nil {
		log.Error("failed to prune removed words",
			slog.String("error", err.Error()),
			slog.String("list_id", list.ID.String()))
		return err
	}

	if err := s.insertWords(ctx, list.ID, list.Words); err != nil {
		log.Error("failed to upsert words",
			slog.String("error", err.Error()),
			slog.String("list_id", list.ID.String()))
		return err
	}

	log.Info("word list updated successfully",
		slog.String("list_id", list.ID.String()),
		slog.Int("word_count", len(list.Words)))
	return nil
}

// Delete implements store.WordListStore.Delete
// Words and stored session snapshots go with the list via ON DELETE
// CASCADE. Returns store.ErrWordListNotFound if the list does not exist.
func (s *PostgresWordListStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM word_lists WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete word list",
			slog.String("error", err.Error()),
			slog.String("list_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrWordListNotFound); err != nil {
		log.Debug("word list not found for delete",
			slog.String("list_id", id.String()))
		return err
	}

	log.Info("word list deleted successfully",
		slog.String("list_id", id.String()))
	return nil
}

// WithTx implements store.WordListStore.WithTx
// It returns a WordListStore bound to the given transaction.
func (s *PostgresWordListStore) WithTx(tx *sql.Tx) store.WordListStore {
	return &PostgresWordListStore{
		db:     tx,
		logger: s.logger,
	}
}

// insertWords upserts the given words for the list. Position follows
// slice order so lists render in the order the user entered them. An
// existing word keeps its correct/wrong tallies.
func (s *PostgresWordListStore) insertWords(ctx context.Context, listID uuid.UUID, words []domain.Word) error {
	query := `
		INSERT INTO words (id, list_id, term, definition, position, correct_count, wrong_count)
		VALUES ($1, $2, $3, $4, $5, 0, 0)
		ON CONFLICT (id) DO UPDATE
		SET term = EXCLUDED.term, definition = EXCLUDED.definition, position = EXCLUDED.position
	`
	for i := range words {
		word := &words[i]
		_, err := s.db.ExecContext(ctx, query, word.ID, listID, word.Term, word.Definition, i)
		if err != nil {
			return MapError(err)
		}
	}
	return nil
}

// deleteWordsExcept removes every word of the list whose ID is not in
// the kept set.
func (s *PostgresWordListStore) deleteWordsExcept(ctx context.Context, listID uuid.UUID, kept []domain.Word) error {
	if len(kept) == 0 {
		_, err := s.db.ExecContext(ctx, `DELETE FROM words WHERE list_id = $1`, listID)
		return MapError(err)
	}

	placeholders := make([]string, 0, len(kept))
	args := make([]any, 0, len(kept)+1)
	args = append(args, listID)
	for i := range kept {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		args = append(args, kept[i].ID)
	}

	query := fmt.Sprintf(
		`DELETE FROM words WHERE list_id = $1 AND id NOT IN (%s)`,
		strings.Join(placeholders, ", "),
	)
	_, err := s.db.ExecContext(ctx, query, args...)
	return MapError(err)
}

// loadWords reads all words of a list in stored position order.
func (s *PostgresWordListStore) loadWords(ctx context.Context, listID uuid.UUID) ([]domain.Word, error) {
	query := `
		SELECT id, list_id, term, definition, correct_count, wrong_count
		FROM words
		WHERE list_id = $1
		ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, query, listID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var words []domain.Word
	for rows.Next() {
		var word domain.Word
		err := rows.Scan(
			&word.ID,
			&word.ListID,
			&word.Term,
			&word.Definition,
			&word.Stats.Correct,
			&word.Stats.Wrong,
		)
		if err != nil {
			return nil, err
		}
		words = append(words, word)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return words, nil
}
