package study

import (
	"context"

	"github.com/google/uuid"
)

// ExamEngine drives the test-like mode: one free-typed question per
// word in a single linear pass. Answers are graded and recorded
// immediately, but the outcome is withheld: the emitted grade result
// says only that the answer was saved, and the full right/wrong
// breakdown is deferred to the completion summary.
type ExamEngine struct {
	s *Session

	index     int
	currentQA *qa
	items     []ExamItem
	completed bool
}

// NewExam starts an exam over the selected words.
func NewExam(listID uuid.UUID, words []Word, settings Settings, deps Deps) (*ExamEngine, error) {
	s, err := newSession(listID, ModeExam, words, settings, deps)
	if err != nil {
		return nil, err
	}

	return &ExamEngine{
		s:     s,
		items: make([]ExamItem, 0, len(s.Words)),
	}, nil
}

// Completed reports whether the single pass has finished.
func (e *ExamEngine) Completed() bool { return e.completed }

// Summary returns the completion summary including the deferred
// per-question breakdown.
func (e *ExamEngine) Summary() *Summary {
	sum := e.s.summary(OutcomeFinished)
	sum.ExamItems = e.items
	return sum
}

// Session exposes the shared session state, read-only by convention.
func (e *ExamEngine) Session() *Session { return e.s }

// CurrentQuestion returns the question at the exam cursor.
func (e *ExamEngine) CurrentQuestion(ctx context.Context) (*QuestionView, error) {
	if e.completed {
		return nil, ErrSessionComplete
	}

	w := &e.s.Words[e.index]
	if e.currentQA == nil {
		q := e.s.questionFor(w)
		e.currentQA = &q
	}

	return &QuestionView{
		WordID:  w.ID,
		Stage:   StageTyping,
		Prompt:  e.currentQA.Prompt,
		Learned: e.index,
		Total:   len(e.s.Words),
	}, nil
}

// SubmitAnswer grades and records the answer, then advances the cursor.
// The returned result is deferred: it carries no correctness outcome.
func (e *ExamEngine) SubmitAnswer(ctx context.Context, input string) (*GradeResult, error) {
	if e.completed {
		return nil, ErrSessionComplete
	}
	if _, err := e.CurrentQuestion(ctx); err != nil {
		return nil, err
	}

	w := e.s.Words[e.index]
	correct := e.s.checkAnswer(input, e.currentQA.Answer)
	e.s.recordAnswer(ctx, w.ID, correct)

	e.items = append(e.items, ExamItem{
		WordID:        w.ID,
		Prompt:        e.currentQA.Prompt,
		Given:         input,
		CorrectAnswer: e.currentQA.Answer,
		Correct:       correct,
	})

	e.index++
	e.currentQA = nil
	if e.index >= len(e.s.Words) {
		e.completed = true
		e.s.clearSnapshot(ctx)
	} else {
		e.s.saveSnapshot(ctx, e.buildSnapshot())
	}

	return &GradeResult{
		Deferred:     true,
		AdvanceDelay: e.s.Settings.AdvanceDelayCorrect,
	}, nil
}

// Override rewrites an already-saved exam answer as correct. A word
// that is not in the session yields ErrUnknownWord; a word whose saved
// answer is already correct, or which has not been answered yet, yields
// ErrInvalidEvent since there is nothing wrong to rewrite.
func (e *ExamEngine) Override(ctx context.Context, wordID uuid.UUID) error {
	if e.s.wordByID(wordID) == nil {
		return ErrUnknownWord
	}

	for i := range e.items {
		if e.items[i].WordID == wordID && !e.items[i].Correct {
			e.items[i].Correct = true
			e.s.recordOverride(ctx, wordID)
			if !e.completed {
				e.s.saveSnapshot(ctx, e.buildSnapshot())
			}
			return nil
		}
	}
	return ErrInvalidEvent
}
