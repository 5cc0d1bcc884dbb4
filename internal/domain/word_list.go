package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// WordList-specific validation errors
var (
	// ErrListIDEmpty is returned when a list ID is empty or nil.
	ErrListIDEmpty = errors.New("list ID cannot be empty")

	// ErrListUserIDEmpty is returned when a list's user ID is empty or nil.
	ErrListUserIDEmpty = errors.New("list user ID cannot be empty")

	// ErrListTitleEmpty is returned when a list's title is empty.
	ErrListTitleEmpty = errors.New("list title cannot be empty")

	// ErrListLanguagesEmpty is returned when either language of a list is empty.
	ErrListLanguagesEmpty = errors.New("list languages cannot be empty")

	// ErrListNoWords is returned when a list is saved without any words.
	ErrListNoWords = errors.New("list must contain at least one word")
)

// WordList is a user-owned bilingual vocabulary list. LangFrom is the
// language of the terms, LangTo the language of the definitions.
type WordList struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	LangFrom  string    `json:"lang_from"`
	LangTo    string    `json:"lang_to"`
	Subject   string    `json:"subject,omitempty"`
	Icon      string    `json:"icon,omitempty"`
	Words     []Word    `json:"words"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewWordList creates a new WordList for the given user.
// Words are added separately; Validate is intentionally not called here
// so a list can be assembled incrementally before its first save.
func NewWordList(userID uuid.UUID, title, langFrom, langTo string) *WordList {
	now := time.Now().UTC()
	return &WordList{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		LangFrom:  langFrom,
		LangTo:    langTo,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks if the WordList has valid data, including every word.
func (l *WordList) Validate() error {
	if l.ID == uuid.Nil {
		return ErrListIDEmpty
	}

	if l.UserID == uuid.Nil {
		return ErrListUserIDEmpty
	}

	if l.Title == "" {
		return ErrListTitleEmpty
	}

	if l.LangFrom == "" || l.LangTo == "" {
		return ErrListLanguagesEmpty
	}

	if len(l.Words) == 0 {
		return ErrListNoWords
	}

	for i := range l.Words {
		if err := l.Words[i].Validate(); err != nil {
			return err
		}
	}

	return nil
}

// WordByID returns the word with the given ID, or nil if absent.
func (l *WordList) WordByID(id uuid.UUID) *Word {
	for i := range l.Words {
		if l.Words[i].ID == id {
			return &l.Words[i]
		}
	}
	return nil
}
