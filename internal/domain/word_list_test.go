package domain

import (
	"testing"

	"github.com/google/uuid"
)

func validList(t *testing.T) *WordList {
	t.Helper()

	list := NewWordList(uuid.New(), "Unit 3", "nl", "en")
	word, err := NewWord(list.ID, "huis", "house")
	if err != nil {
		t.Fatalf("Failed to build word: %v", err)
	}
	list.Words = append(list.Words, *word)
	return list
}

func TestNewWordList(t *testing.T) {
	userID := uuid.New()
	list := NewWordList(userID, "Unit 3", "nl", "en")

	if list.ID == uuid.Nil {
		t.Error("Expected non-nil UUID")
	}
	if list.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, list.UserID)
	}
	if list.CreatedAt.IsZero() || list.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be set")
	}

	// A brand-new list has no words yet; validation only applies at save
	// time.
	if err := list.Validate(); err != ErrListNoWords {
		t.Errorf("Expected %v, got %v", ErrListNoWords, err)
	}
}

func TestWordListValidate(t *testing.T) {
	if err := validList(t).Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*WordList)
		want   error
	}{
		{"empty ID", func(l *WordList) { l.ID = uuid.Nil }, ErrListIDEmpty},
		{"empty user ID", func(l *WordList) { l.UserID = uuid.Nil }, ErrListUserIDEmpty},
		{"empty title", func(l *WordList) { l.Title = "" }, ErrListTitleEmpty},
		{"empty source language", func(l *WordList) { l.LangFrom = "" }, ErrListLanguagesEmpty},
		{"empty target language", func(l *WordList) { l.LangTo = "" }, ErrListLanguagesEmpty},
		{"no words", func(l *WordList) { l.Words = nil }, ErrListNoWords},
		{"invalid word", func(l *WordList) { l.Words[0].Term = "" }, ErrWordTermEmpty},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			list := validList(t)
			tc.mutate(list)
			if err := list.Validate(); err != tc.want {
				t.Errorf("Expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestWordListWordByID(t *testing.T) {
	list := validList(t)

	if got := list.WordByID(list.Words[0].ID); got == nil || got.Term != "huis" {
		t.Errorf("Expected to find word, got %v", got)
	}
	if got := list.WordByID(uuid.New()); got != nil {
		t.Errorf("Expected nil for unknown ID, got %v", got)
	}
}
