package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Word-specific validation errors
var (
	// ErrWordIDEmpty is returned when a word ID is empty or nil.
	ErrWordIDEmpty = errors.New("word ID cannot be empty")

	// ErrWordTermEmpty is returned when a word's term is empty.
	ErrWordTermEmpty = errors.New("word term cannot be empty")

	// ErrWordDefinitionEmpty is returned when a word's definition is empty.
	ErrWordDefinitionEmpty = errors.New("word definition cannot be empty")
)

// WordStats holds the lifetime answer tally for a word. The counters
// accumulate across all study sessions and are never reset; the only
// operation that decrements one is the explicit answer override, which
// moves a single tally from wrong to correct.
type WordStats struct {
	Correct int `json:"correct"`
	Wrong   int `json:"wrong"`
}

// Word is a single term/definition pair inside a word list.
type Word struct {
	ID         uuid.UUID `json:"id"`
	ListID     uuid.UUID `json:"list_id"`
	Term       string    `json:"term"`
	Definition string    `json:"definition"`
	Stats      WordStats `json:"stats"`
}

// NewWord creates a new Word belonging to the given list.
// Returns an error if validation fails.
func NewWord(listID uuid.UUID, term, definition string) (*Word, error) {
	word := &Word{
		ID:         uuid.New(),
		ListID:     listID,
		Term:       term,
		Definition: definition,
	}

	if err := word.Validate(); err != nil {
		return nil, err
	}

	return word, nil
}

// Validate checks if the Word has valid data.
func (w *Word) Validate() error {
	if w.ID == uuid.Nil {
		return ErrWordIDEmpty
	}

	if w.Term == "" {
		return ErrWordTermEmpty
	}

	if w.Definition == "" {
		return ErrWordDefinitionEmpty
	}

	return nil
}
