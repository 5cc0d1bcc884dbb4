package study

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// typingProgress tracks one word through the typing drill.
type typingProgress struct {
	// NeedsExtraCorrect is how many further correct answers the word
	// owes. Zero at start, so a single correct answer completes it;
	// any miss raises it to two.
	NeedsExtraCorrect int  `json:"needs_extra_correct"`
	Completed         bool `json:"completed"`
	Cooldown          int  `json:"cooldown"`
}

// TypingEngine drives the typing drill: every word repeats until typed
// correctly, with missed words owing two consecutive-across-rounds
// correct answers and sitting out a cooldown so they are not asked
// back-to-back. Missed words are drilled once more in a terminal
// review pass.
type TypingEngine struct {
	s *Session

	progress map[uuid.UUID]*typingProgress

	currentID   uuid.UUID
	currentQA   qa
	currentView *QuestionView

	wrongIDs []uuid.UUID
	wrongSet map[uuid.UUID]bool

	review         *reviewPhase
	completedCount int
	completed      bool
}

// NewTyping starts a typing drill over the selected words.
func NewTyping(listID uuid.UUID, words []Word, settings Settings, deps Deps) (*TypingEngine, error) {
	s, err := newSession(listID, ModeTyping, words, settings, deps)
	if err != nil {
		return nil, err
	}

	e := &TypingEngine{
		s:        s,
		progress: make(map[uuid.UUID]*typingProgress, len(s.Words)),
		wrongSet: make(map[uuid.UUID]bool),
	}
	for _, w := range s.Words {
		e.progress[w.ID] = &typingProgress{}
	}
	return e, nil
}

// Completed reports whether the drill and any review pass are done.
func (e *TypingEngine) Completed() bool { return e.completed }

// Summary returns the completion summary.
func (e *TypingEngine) Summary() *Summary { return e.s.summary(OutcomeFinished) }

// Session exposes the shared session state, read-only by convention.
func (e *TypingEngine) Session() *Session { return e.s }

// CurrentQuestion returns the question currently being asked, selecting
// the next word if none is pending.
func (e *TypingEngine) CurrentQuestion(ctx context.Context) (*QuestionView, error) {
	if e.completed {
		return nil, ErrSessionComplete
	}

	if e.review != nil {
		view, err := e.review.question(e.s, e.completedCount, len(e.s.Words))
		if err != nil || e.review.done() {
			e.finish(ctx)
			return nil, ErrSessionComplete
		}
		return view, nil
	}

	if e.currentView != nil {
		return e.currentView, nil
	}

	if err := e.selectNext(); err != nil {
		return nil, err
	}
	return e.currentView, nil
}

// SubmitAnswer grades a typed answer for the current word.
func (e *TypingEngine) SubmitAnswer(ctx context.Context, input string) (*GradeResult, error) {
	if e.completed {
		return nil, ErrSessionComplete
	}

	if e.review != nil {
		res, err := e.review.submit(ctx, e.s, input)
		if err != nil {
			return nil, err
		}
		if e.review.done() {
			e.finish(ctx)
		} else {
			e.snapshot(ctx)
		}
		return res, nil
	}

	if _, err := e.CurrentQuestion(ctx); err != nil {
		return nil, err
	}

	p := e.progress[e.currentID]
	correct := e.s.checkAnswer(input, e.currentQA.Answer)
	e.s.recordAnswer(ctx, e.currentID, correct)
	res := e.s.gradeFor(correct, input, e.currentQA.Answer)

	if correct {
		e.applyCorrect(p)
	} else {
		e.applyWrong(e.currentID, p)
	}

	e.invalidateCurrent()
	e.afterMutation(ctx)
	return res, nil
}

// Override forces the word to count as just answered correctly.
func (e *TypingEngine) Override(ctx context.Context, wordID uuid.UUID) error {
	if e.completed {
		return ErrSessionComplete
	}

	if e.review != nil {
		if e.s.wordByID(wordID) == nil {
			return ErrUnknownWord
		}
		e.s.recordOverride(ctx, wordID)
		e.review.forceCorrect(wordID)
		if e.review.done() {
			e.finish(ctx)
		} else {
			e.snapshot(ctx)
		}
		return nil
	}

	p := e.progress[wordID]
	if p == nil {
		return ErrUnknownWord
	}

	e.s.recordOverride(ctx, wordID)
	if !p.Completed {
		e.applyCorrect(p)
	}
	if e.currentID == wordID {
		e.invalidateCurrent()
	}
	e.afterMutation(ctx)
	return nil
}

func (e *TypingEngine) applyCorrect(p *typingProgress) {
	if p.NeedsExtraCorrect > 0 {
		p.NeedsExtraCorrect--
	}
	if p.NeedsExtraCorrect == 0 {
		p.Completed = true
		e.completedCount++
	}
}

// applyWrong raises the requirement to two correct answers and parks
// the word on a cooldown. Small pools get a longer cooldown so a
// missed word is not re-presented almost immediately.
func (e *TypingEngine) applyWrong(id uuid.UUID, p *typingProgress) {
	if !e.wrongSet[id] {
		e.wrongSet[id] = true
		e.wrongIDs = append(e.wrongIDs, id)
	}

	p.NeedsExtraCorrect = typingExtraCorrect
	cooldown := typingCooldown
	if len(e.s.Words) < typingSmallPool {
		cooldown = typingCooldownSmallPool
	}
	if cooldown > p.Cooldown {
		p.Cooldown = cooldown
	}
}

func (e *TypingEngine) afterMutation(ctx context.Context) {
	if e.review == nil && e.completedCount >= len(e.s.Words) {
		if len(e.wrongIDs) == 0 {
			e.finish(ctx)
			return
		}
		e.review = newReviewPhase(e.s, e.wrongIDs)
	}
	e.snapshot(ctx)
}

func (e *TypingEngine) finish(ctx context.Context) {
	e.completed = true
	e.s.clearSnapshot(ctx)
}

func (e *TypingEngine) invalidateCurrent() {
	e.currentID = uuid.Nil
	e.currentView = nil
}

// selectNext picks the first incomplete, not-cooled-down word in the
// original shuffle order. When every pending word is cooling down, all
// cooldowns tick down one round and selection retries; cooldowns are
// bounded, so this terminates.
func (e *TypingEngine) selectNext() error {
	if e.completedCount >= len(e.s.Words) {
		return ErrSessionComplete
	}

	pending := 0
	for i := range e.s.Words {
		if p := e.progress[e.s.Words[i].ID]; p != nil && !p.Completed {
			pending++
		}
	}
	if pending == 0 {
		return ErrSessionComplete
	}

	var chosen *Word
	for chosen == nil {
		for i := range e.s.Words {
			p := e.progress[e.s.Words[i].ID]
			if p == nil {
				e.s.log.Warn("word without progress in typing drill",
					slog.String("word_id", e.s.Words[i].ID.String()))
				continue
			}
			if !p.Completed && p.Cooldown == 0 {
				chosen = &e.s.Words[i]
				break
			}
		}
		if chosen == nil {
			e.reduceCooldowns()
		}
	}

	// Every presentation counts as a round for the waiting words.
	e.reduceCooldowns()

	p := e.progress[chosen.ID]
	e.currentID = chosen.ID
	e.currentQA = e.s.questionFor(chosen)
	e.currentView = &QuestionView{
		WordID:           chosen.ID,
		Stage:            StageTyping,
		Prompt:           e.currentQA.Prompt,
		RemainingCorrect: p.NeedsExtraCorrect,
		Learned:          e.completedCount,
		Total:            len(e.s.Words),
	}
	return nil
}

func (e *TypingEngine) reduceCooldowns() {
	for _, p := range e.progress {
		if p.Cooldown > 0 {
			p.Cooldown--
		}
	}
}

func (e *TypingEngine) snapshot(ctx context.Context) {
	if e.completed {
		return
	}
	e.s.saveSnapshot(ctx, e.buildSnapshot())
}
