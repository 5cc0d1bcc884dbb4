package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Loekiboy/loek-it-up/internal/domain"
	"github.com/Loekiboy/loek-it-up/internal/store"
)

// SentenceGenerator produces example sentences for vocabulary terms.
// The Gemini-backed implementation lives in platform/gemini; a nil
// generator disables enrichment.
type SentenceGenerator interface {
	// ExampleSentences returns one example sentence per term, keyed by
	// term, in the given language.
	ExampleSentences(ctx context.Context, language string, terms []string) (map[string]string, error)
}

// ListUpdate carries the editable fields of a word list. Words replace
// the stored set wholesale; words keep their IDs (and so their lifetime
// stats) when the caller passes them back unchanged.
type ListUpdate struct {
	Title    string
	LangFrom string
	LangTo   string
	Subject  string
	Icon     string
	Words    []WordEntry
}

// WordEntry is one term/definition pair in a list create or update. A
// nil ID means a new word.
type WordEntry struct {
	ID         uuid.UUID
	Term       string
	Definition string
}

// WordListService manages user-owned vocabulary lists.
type WordListService interface {
	// CreateList creates a new list with its words for the user.
	CreateList(ctx context.Context, userID uuid.UUID, update ListUpdate) (*domain.WordList, error)

	// GetList retrieves one list with words and lifetime stats.
	// Returns ErrNotOwned if the list belongs to another user.
	GetList(ctx context.Context, userID, listID uuid.UUID) (*domain.WordList, error)

	// ListLists retrieves all lists of the user.
	ListLists(ctx context.Context, userID uuid.UUID) ([]*domain.WordList, error)

	// UpdateList replaces the list's metadata and word set.
	UpdateList(ctx context.Context, userID, listID uuid.UUID, update ListUpdate) (*domain.WordList, error)

	// DeleteList removes a list, its words, and any stored snapshots.
	DeleteList(ctx context.Context, userID, listID uuid.UUID) error

	// ParseTSV parses tab-separated "term<TAB>definition" lines into
	// word entries, skipping lines without both fields.
	ParseTSV(text string) ([]WordEntry, error)

	// ExportTSV renders the list as a text document: a title/languages
	// header followed by one term<TAB>definition line per word.
	ExportTSV(ctx context.Context, userID, listID uuid.UUID) (string, error)

	// EnrichExamples generates one example sentence per term of the
	// list. Returns ErrEnrichmentDisabled when no generator is
	// configured. Sentences are returned, not persisted.
	EnrichExamples(ctx context.Context, userID, listID uuid.UUID) (map[string]string, error)
}

// WordListServiceImpl implements the WordListService interface
type WordListServiceImpl struct {
	lists     store.WordListStore
	db        *sql.DB
	generator SentenceGenerator
	logger    *slog.Logger
}

// NewWordListService creates a new WordListService. The generator may be
// nil, which disables example-sentence enrichment.
func NewWordListService(
	lists store.WordListStore,
	db *sql.DB,
	generator SentenceGenerator,
	logger *slog.Logger,
) WordListService {
	return &WordListServiceImpl{
		lists:     lists,
		db:        db,
		generator: generator,
		logger:    logger.With("component", "word_list_service"),
	}
}

var _ WordListService = (*WordListServiceImpl)(nil)

// CreateList creates a new list with its words for the user.
func (s *WordListServiceImpl) CreateList(ctx context.Context, userID uuid.UUID, update ListUpdate) (*domain.WordList, error) {
	list := domain.NewWordList(userID, update.Title, update.LangFrom, update.LangTo)
	list.Subject = update.Subject
	list.Icon = update.Icon

	for _, entry := range update.Words {
		word, err := domain.NewWord(list.ID, entry.Term, entry.Definition)
		if err != nil {
			return nil, fmt.Errorf("failed to create list: %w", err)
		}
		list.Words = append(list.Words, *word)
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.lists.WithTx(tx).Create(ctx, list)
	})
	if err != nil {
		s.logger.Error("failed to create word list",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	s.logger.Info("word list created",
		"list_id", list.ID,
		"user_id", userID,
		"word_count", len(list.Words))
	return list, nil
}

// GetList retrieves one list, enforcing ownership.
func (s *WordListServiceImpl) GetList(ctx context.Context, userID, listID uuid.UUID) (*domain.WordList, error) {
	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		if !errors.Is(err, store.ErrWordListNotFound) {
			s.logger.Error("failed to retrieve word list",
				"error", err,
				"list_id", listID)
		}
		return nil, fmt.Errorf("failed to retrieve list: %w", err)
	}

	if list.UserID != userID {
		s.logger.Warn("word list access denied",
			"list_id", listID,
			"user_id", userID)
		return nil, ErrNotOwned
	}

	return list, nil
}

// ListLists retrieves all lists of the user.
func (s *WordListServiceImpl) ListLists(ctx context.Context, userID uuid.UUID) ([]*domain.WordList, error) {
	lists, err := s.lists.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list word lists",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	return lists, nil
}

// UpdateList replaces the list's metadata and word set in one
// transaction. Words passed back with their stored IDs keep their
// lifetime stats; words left out are deleted.
func (s *WordListServiceImpl) UpdateList(ctx context.Context, userID, listID uuid.UUID, update ListUpdate) (*domain.WordList, error) {
	list, err := s.GetList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	list.Title = update.Title
	list.LangFrom = update.LangFrom
	list.LangTo = update.LangTo
	list.Subject = update.Subject
	list.Icon = update.Icon
	list.UpdatedAt = time.Now().UTC()

	words := make([]domain.Word, 0, len(update.Words))
	for _, entry := range update.Words {
		if entry.ID != uuid.Nil {
			if existing := list.WordByID(entry.ID); existing != nil {
				kept := *existing
				kept.Term = entry.Term
				kept.Definition = entry.Definition
				words = append(words, kept)
				continue
			}
		}
		word, err := domain.NewWord(list.ID, entry.Term, entry.Definition)
		if err != nil {
			return nil, fmt.Errorf("failed to update list: %w", err)
		}
		words = append(words, *word)
	}
	list.Words = words

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.lists.WithTx(tx).Update(ctx, list)
	})
	if err != nil {
		s.logger.Error("failed to update word list",
			"error", err,
			"list_id", listID)
		return nil, fmt.Errorf("failed to update list: %w", err)
	}

	s.logger.Info("word list updated",
		"list_id", listID,
		"word_count", len(list.Words))
	return list, nil
}

// DeleteList removes a list after checking ownership.
func (s *WordListServiceImpl) DeleteList(ctx context.Context, userID, listID uuid.UUID) error {
	if _, err := s.GetList(ctx, userID, listID); err != nil {
		return err
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.lists.WithTx(tx).Delete(ctx, listID)
	})
	if err != nil {
		s.logger.Error("failed to delete word list",
			"error", err,
			"list_id", listID)
		return fmt.Errorf("failed to delete list: %w", err)
	}

	s.logger.Info("word list deleted", "list_id", listID)
	return nil
}

// ParseTSV parses tab-separated term/definition lines. Lines without a
// tab or with an empty field are skipped, matching the original
// trainer's tolerant import.
func (s *WordListServiceImpl) ParseTSV(text string) ([]WordEntry, error) {
	var entries []WordEntry
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) < 2 {
			continue
		}
		term := strings.TrimSpace(parts[0])
		definition := strings.TrimSpace(parts[1])
		if term == "" || definition == "" {
			continue
		}
		entries = append(entries, WordEntry{Term: term, Definition: definition})
	}

	if len(entries) == 0 {
		return nil, ErrEmptyImport
	}
	return entries, nil
}

// ExportTSV renders the list in the trainer's export format: a
// "Titel:"/"Talen:" header block, a blank line, then the word pairs.
func (s *WordListServiceImpl) ExportTSV(ctx context.Context, userID, listID uuid.UUID) (string, error) {
	list, err := s.GetList(ctx, userID, listID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Titel:\t%s\n", list.Title)
	fmt.Fprintf(&b, "Talen:\t%s -> %s\n\n", list.LangFrom, list.LangTo)
	for i := range list.Words {
		fmt.Fprintf(&b, "%s\t%s\n", list.Words[i].Term, list.Words[i].Definition)
	}
	return b.String(), nil
}

// EnrichExamples generates example sentences for every term of the list.
func (s *WordListServiceImpl) EnrichExamples(ctx context.Context, userID, listID uuid.UUID) (map[string]string, error) {
	if s.generator == nil {
		return nil, ErrEnrichmentDisabled
	}

	list, err := s.GetList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	terms := make([]string, len(list.Words))
	for i := range list.Words {
		terms[i] = list.Words[i].Term
	}

	sentences, err := s.generator.ExampleSentences(ctx, list.LangFrom, terms)
	if err != nil {
		s.logger.Error("example sentence generation failed",
			"error", err,
			"list_id", listID)
		return nil, NewServiceError("enrich_examples", "sentence generation failed", err)
	}

	s.logger.Info("example sentences generated",
		"list_id", listID,
		"sentence_count", len(sentences))
	return sentences, nil
}
