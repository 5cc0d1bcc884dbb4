package study

import (
	"context"

	"github.com/google/uuid"
)

// FlashcardsEngine drives the swipe-through flashcard mode: each card
// is shown once per pass and the user marks it known or unknown. When
// the deck drains, the unknown pile is reshuffled into a fresh deck for
// another pass; the session completes once a pass ends with no unknown
// cards. There is no mastery threshold and no review sub-phase; this
// mode is deliberately lower-friction than the graded drills.
type FlashcardsEngine struct {
	s *Session

	// Deck, correct pile, and wrong pile always partition the selected
	// words within one pass-cycle.
	deck    []Word
	correct []Word
	wrong   []Word

	currentQA *qa
	completed bool
}

// NewFlashcards starts a flashcard session over the selected words.
func NewFlashcards(listID uuid.UUID, words []Word, settings Settings, deps Deps) (*FlashcardsEngine, error) {
	s, err := newSession(listID, ModeFlashcards, words, settings, deps)
	if err != nil {
		return nil, err
	}

	return &FlashcardsEngine{
		s:    s,
		deck: append([]Word(nil), s.Words...),
	}, nil
}

// Completed reports whether the final pass has drained.
func (e *FlashcardsEngine) Completed() bool { return e.completed }

// Summary returns the completion summary.
func (e *FlashcardsEngine) Summary() *Summary { return e.s.summary(OutcomeFinished) }

// Session exposes the shared session state, read-only by convention.
func (e *FlashcardsEngine) Session() *Session { return e.s }

// CurrentCard returns the top card of the deck. Both sides are included
// since flipping is a presentation concern.
func (e *FlashcardsEngine) CurrentCard(ctx context.Context) (*QuestionView, error) {
	if e.completed {
		return nil, ErrSessionComplete
	}

	w := &e.deck[0]
	if e.currentQA == nil {
		q := e.s.questionFor(w)
		e.currentQA = &q
	}

	return &QuestionView{
		WordID:  w.ID,
		Stage:   StageFlash,
		Prompt:  e.currentQA.Prompt,
		Answer:  e.currentQA.Answer,
		Learned: len(e.correct),
		Total:   len(e.s.Words),
	}, nil
}

// Mark moves the top card to the known or unknown pile and advances the
// deck, starting a fresh pass over the unknown pile when it drains.
func (e *FlashcardsEngine) Mark(ctx context.Context, known bool) (*GradeResult, error) {
	if e.completed {
		return nil, ErrSessionComplete
	}

	w := e.deck[0]
	e.deck = e.deck[1:]
	e.currentQA = nil

	e.s.recordAnswer(ctx, w.ID, known)
	if known {
		e.correct = append(e.correct, w)
	} else {
		e.wrong = append(e.wrong, w)
	}

	if len(e.deck) == 0 {
		if len(e.wrong) > 0 {
			// Unknown cards become the next pass; the correct pile is
			// carried so the partition over the selection holds.
			e.deck = e.wrong
			e.wrong = nil
			e.s.rng.Shuffle(len(e.deck), func(i, j int) {
				e.deck[i], e.deck[j] = e.deck[j], e.deck[i]
			})
		} else {
			e.completed = true
			e.s.clearSnapshot(ctx)
		}
	}

	if !e.completed {
		e.s.saveSnapshot(ctx, e.buildSnapshot())
	}

	delay := e.s.Settings.AdvanceDelayCorrect
	if !known {
		delay = e.s.Settings.AdvanceDelayWrong
	}
	return &GradeResult{Correct: known, AdvanceDelay: delay}, nil
}

// Override reclassifies the most recent unknown mark on the word as
// known: the card moves from the unknown to the known pile.
func (e *FlashcardsEngine) Override(ctx context.Context, wordID uuid.UUID) error {
	if e.completed {
		return ErrSessionComplete
	}

	for i := range e.wrong {
		if e.wrong[i].ID == wordID {
			w := e.wrong[i]
			e.wrong = append(e.wrong[:i], e.wrong[i+1:]...)
			e.correct = append(e.correct, w)
			e.s.recordOverride(ctx, wordID)

			if len(e.deck) == 0 && len(e.wrong) == 0 {
				e.completed = true
				e.s.clearSnapshot(ctx)
			} else {
				e.s.saveSnapshot(ctx, e.buildSnapshot())
			}
			return nil
		}
	}
	return ErrUnknownWord
}
