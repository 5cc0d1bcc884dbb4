package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/Loekiboy/loek-it-up/internal/domain"
)

// WordListStore defines the interface for word list persistence. A list
// and its words are read and written as one aggregate.
type WordListStore interface {
	// Create saves a new word list together with its words.
	// Returns validation errors from the domain WordList if data is
	// invalid.
	Create(ctx context.Context, list *domain.WordList) error

	// GetByID retrieves a word list with all its words.
	// Returns ErrWordListNotFound if the list does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WordList, error)

	// ListByUser retrieves all word lists owned by the user, words
	// included, ordered by creation time.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.WordList, error)

	// Update replaces the list's metadata and word set. Words missing
	// from the given list are deleted; their lifetime stats go with
	// them. Returns ErrWordListNotFound if the list does not exist.
	Update(ctx context.Context, list *domain.WordList) error

	// Delete removes a word list and, via cascade, its words and any
	// stored session snapshots.
	// Returns ErrWordListNotFound if the list does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a WordListStore bound to the provided transaction.
	WithTx(tx *sql.Tx) WordListStore
}

// WordStatsStore records graded attempts against a word's lifetime
// tallies. It is the durable backend behind the study engines' stats
// sink.
type WordStatsStore interface {
	// RecordAnswer increments the word's lifetime correct or wrong
	// tally. Returns ErrWordNotFound if the word does not exist.
	RecordAnswer(ctx context.Context, wordID uuid.UUID, correct bool) error

	// RecordOverride moves one wrong tally to correct, for the "accept
	// my answer" dispute flow. Returns ErrWordNotFound if the word does
	// not exist.
	RecordOverride(ctx context.Context, wordID uuid.UUID) error

	// WithTx returns a WordStatsStore bound to the provided transaction.
	WithTx(tx *sql.Tx) WordStatsStore
}
