package api

import (
	"github.com/google/uuid"

	"github.com/Loekiboy/loek-it-up/internal/study"
	"github.com/Loekiboy/loek-it-up/internal/study/match"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// Token is the JWT access token used for API authorization
	Token string `json:"token"`
}

// WordEntryRequest is one term/definition pair in a list create or
// update. ID is set when the caller wants a stored word, and its
// lifetime stats, to survive the edit.
type WordEntryRequest struct {
	ID         uuid.UUID `json:"id,omitempty"`
	Term       string    `json:"term"       validate:"required"`
	Definition string    `json:"definition" validate:"required"`
}

// WordListRequest defines the payload for list create and update.
type WordListRequest struct {
	Title    string             `json:"title"     validate:"required"`
	LangFrom string             `json:"lang_from" validate:"required"`
	LangTo   string             `json:"lang_to"   validate:"required"`
	Subject  string             `json:"subject,omitempty"`
	Icon     string             `json:"icon,omitempty"`
	Words    []WordEntryRequest `json:"words"     validate:"required,min=1,dive"`
}

// ImportRequest defines the payload for the TSV import endpoint. Text
// holds tab-separated term/definition lines as pasted by the user.
type ImportRequest struct {
	Title    string `json:"title"     validate:"required"`
	LangFrom string `json:"lang_from" validate:"required"`
	LangTo   string `json:"lang_to"   validate:"required"`
	Subject  string `json:"subject,omitempty"`
	Icon     string `json:"icon,omitempty"`
	Text     string `json:"text"      validate:"required"`
}

// EnrichResponse carries the generated example sentences, keyed by term.
type EnrichResponse struct {
	Sentences map[string]string `json:"sentences"`
}

// StartSessionRequest defines the payload for starting a study session.
type StartSessionRequest struct {
	ListID uuid.UUID  `json:"list_id" validate:"required"`
	Mode   study.Mode `json:"mode"    validate:"required"`

	// WordIDs restricts the session to a subset of the list.
	WordIDs []uuid.UUID `json:"word_ids,omitempty"`

	Direction study.Direction `json:"direction,omitempty"`
	Match     *match.Options  `json:"match,omitempty"`

	// Stages narrows the staged-learning progression (steps mode only).
	Stages []study.Stage `json:"stages,omitempty"`
}

// ResumeSessionRequest defines the payload for resuming a saved session.
type ResumeSessionRequest struct {
	ListID uuid.UUID  `json:"list_id" validate:"required"`
	Mode   study.Mode `json:"mode"    validate:"required"`
}

// AnswerRequest defines the payload for submitting a typed answer.
type AnswerRequest struct {
	Answer string `json:"answer"`
}

// MarkRequest defines the payload for grading a flashcard.
type MarkRequest struct {
	Known bool `json:"known"`
}

// PickRequest defines the payload for selecting a matching-game card.
type PickRequest struct {
	CardID uuid.UUID `json:"card_id" validate:"required"`
}

// OverrideRequest defines the payload for accepting a wrong answer as
// correct after the fact.
type OverrideRequest struct {
	WordID uuid.UUID `json:"word_id" validate:"required"`
}
