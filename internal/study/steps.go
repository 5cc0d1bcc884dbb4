package study

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Loekiboy/loek-it-up/internal/study/textdiff"
)

// stepsProgress tracks one word's position in the staged progression.
type stepsProgress struct {
	Phase           Stage `json:"phase"`
	Done            bool  `json:"done"`
	TypingRemaining int   `json:"typing_remaining"`
	TypingCooldown  int   `json:"typing_cooldown"`
	StageFails      int   `json:"stage_fails"`
}

// StepsEngine drives the staged learning mode: every word moves through
// the enabled stages in order (flash → copy → choice → hint → typing by
// default), scheduled through a bounded active-slot window with a
// round-robin pointer, and wrongly answered words are drilled again in
// a terminal review sub-phase.
type StepsEngine struct {
	s *Session

	stages   []Stage
	progress map[uuid.UUID]*stepsProgress

	// slots is the active window of up to four word IDs, admitted in
	// shuffle order; slotIndex is the round-robin pointer and
	// roundVisits counts visits since the window last changed.
	slots         []uuid.UUID
	nextWordIndex int
	slotIndex     int
	roundVisits   int

	currentID   uuid.UUID
	currentQA   qa
	currentView *QuestionView

	// wrongIDs is the ordered set of words that failed any graded
	// stage; wrongSet guards against double insertion.
	wrongIDs []uuid.UUID
	wrongSet map[uuid.UUID]bool

	review    *reviewPhase
	learned   int
	completed bool
}

// NewSteps starts a staged learning session over the selected words.
func NewSteps(listID uuid.UUID, words []Word, settings Settings, deps Deps) (*StepsEngine, error) {
	s, err := newSession(listID, ModeSteps, words, settings, deps)
	if err != nil {
		return nil, err
	}

	stages := s.Settings.Stages
	if len(stages) == 0 {
		return nil, ErrNoStages
	}
	for _, st := range stages {
		if !validStage(st) {
			return nil, fmt.Errorf("%w: unknown stage %q", ErrNoStages, st)
		}
	}

	e := &StepsEngine{
		s:        s,
		stages:   stages,
		progress: make(map[uuid.UUID]*stepsProgress, len(s.Words)),
		wrongSet: make(map[uuid.UUID]bool),
	}

	for _, w := range s.Words {
		e.progress[w.ID] = &stepsProgress{
			Phase:           stages[0],
			TypingRemaining: 1,
		}
	}

	e.fillSlots()
	return e, nil
}

func validStage(st Stage) bool {
	for _, known := range AllStages {
		if st == known {
			return true
		}
	}
	return false
}

// Completed reports whether every word is done and any review pass has
// finished.
func (e *StepsEngine) Completed() bool { return e.completed }

// Summary returns the completion summary.
func (e *StepsEngine) Summary() *Summary { return e.s.summary(OutcomeFinished) }

// Session exposes the shared session state, read-only by convention.
func (e *StepsEngine) Session() *Session { return e.s }

// CurrentQuestion returns the descriptor for the question currently
// being asked, selecting the next word if none is pending.
func (e *StepsEngine) CurrentQuestion(ctx context.Context) (*QuestionView, error) {
	if e.completed {
		return nil, ErrSessionComplete
	}

	if e.review != nil {
		view, err := e.review.question(e.s, e.learned, len(e.s.Words))
		if err != nil || e.review.done() {
			// Nothing reviewable left (possibly after dropping stale
			// queue entries): the session is over.
			e.finish(ctx)
			return nil, ErrSessionComplete
		}
		return view, nil
	}

	if e.currentView != nil {
		return e.currentView, nil
	}

	if err := e.selectNext(ctx); err != nil {
		return nil, err
	}
	return e.currentView, nil
}

// Flip acknowledges the flash stage for the current word and advances
// it to the next enabled stage. There is no correctness check.
func (e *StepsEngine) Flip(ctx context.Context) error {
	if e.completed || e.review != nil {
		return ErrInvalidEvent
	}
	if _, err := e.CurrentQuestion(ctx); err != nil {
		return err
	}

	p := e.progress[e.currentID]
	if p == nil || p.Phase != StageFlash {
		return ErrInvalidEvent
	}

	e.advanceStage(e.currentID, p)
	e.invalidateCurrent()
	e.afterMutation(ctx)
	return nil
}

// SubmitAnswer grades the current question. For the choice stage the
// input is the selected option text; for copy, hint, and typing it is
// the typed answer.
func (e *StepsEngine) SubmitAnswer(ctx context.Context, input string) (*GradeResult, error) {
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
	if p.Phase == StageFlash {
		return nil, ErrInvalidEvent
	}

	correct := e.s.checkAnswer(input, e.currentQA.Answer)
	e.s.recordAnswer(ctx, e.currentID, correct)
	res := e.s.gradeFor(correct, input, e.currentQA.Answer)
	if p.Phase == StageChoice {
		// Choice feedback highlights the right option; no typo diff.
		res.Diff = nil
	}

	if correct {
		e.applyCorrect(e.currentID, p)
	} else {
		e.applyWrong(e.currentID, p)
	}

	e.invalidateCurrent()
	e.afterMutation(ctx)
	return res, nil
}

// Override forces the engine to treat the word as if it had just been
// answered correctly, for the "accept my answer" dispute flow.
func (e *StepsEngine) Override(ctx context.Context, wordID uuid.UUID) error {
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
	if !p.Done {
		e.applyCorrect(wordID, p)
	}
	if e.currentID == wordID {
		e.invalidateCurrent()
	}
	e.afterMutation(ctx)
	return nil
}

// applyCorrect advances the word after a correct answer.
func (e *StepsEngine) applyCorrect(id uuid.UUID, p *stepsProgress) {
	if p.Phase == StageTyping {
		if p.TypingRemaining > 0 {
			p.TypingRemaining--
		}
		if p.TypingRemaining > 0 {
			return // still owes correct answers, stage unchanged
		}
	}
	e.advanceStage(id, p)
}

// applyWrong records the miss: the word joins the review set and stays
// on its stage. Typing misses raise the consecutive-correct requirement
// and start a cooldown so the scheduler does not re-present the word
// immediately; repeated non-typing misses can force-advance when a cap
// is configured.
func (e *StepsEngine) applyWrong(id uuid.UUID, p *stepsProgress) {
	e.addWrong(id)

	if p.Phase == StageTyping {
		p.TypingRemaining = typingExtraCorrect
		p.TypingCooldown = stepsTypingCooldown
		return
	}

	p.StageFails++
	if max := e.s.Settings.MaxStageFails; max > 0 && p.StageFails >= max {
		e.s.log.Debug("force-advancing word after repeated stage failures",
			slog.String("word_id", id.String()),
			slog.String("stage", string(p.Phase)))
		p.StageFails = 0
		e.advanceStage(id, p)
	}
}

// advanceStage moves the word to the next enabled stage, or marks it
// done past the last one. Stage transitions are strictly forward.
func (e *StepsEngine) advanceStage(id uuid.UUID, p *stepsProgress) {
	idx := -1
	for i, st := range e.stages {
		if st == p.Phase {
			idx = i
			break
		}
	}
	if idx < 0 {
		// A phase outside the configured list is a programming error.
		panic(fmt.Sprintf("study: word %s in unknown stage %q", id, p.Phase))
	}

	p.StageFails = 0
	if idx+1 < len(e.stages) {
		p.Phase = e.stages[idx+1]
		return
	}

	p.Phase = StageDone
	p.Done = true
	e.learned++
}

// addWrong appends the word to the review set once.
func (e *StepsEngine) addWrong(id uuid.UUID) {
	if e.wrongSet[id] {
		return
	}
	e.wrongSet[id] = true
	e.wrongIDs = append(e.wrongIDs, id)
}

// afterMutation handles the all-done transition and snapshots.
func (e *StepsEngine) afterMutation(ctx context.Context) {
	if e.review == nil && e.learned >= len(e.s.Words) {
		if len(e.wrongIDs) == 0 {
			e.finish(ctx)
			return
		}
		e.review = newReviewPhase(e.s, e.wrongIDs)
	}
	e.snapshot(ctx)
}

func (e *StepsEngine) finish(ctx context.Context) {
	e.completed = true
	e.s.clearSnapshot(ctx)
}

func (e *StepsEngine) invalidateCurrent() {
	e.currentID = uuid.Nil
	e.currentView = nil
}

// fillSlots admits unseen words from the pool until the window holds
// four words or the pool is exhausted.
func (e *StepsEngine) fillSlots() {
	for len(e.slots) < activeSlotCount && e.nextWordIndex < len(e.s.Words) {
		e.slots = append(e.slots, e.s.Words[e.nextWordIndex].ID)
		e.nextWordIndex++
	}
}

// compactSlots drops finished words from the window, refills it, and
// resets the round-robin pointer.
func (e *StepsEngine) compactSlots() {
	kept := e.slots[:0]
	for _, id := range e.slots {
		if p := e.progress[id]; p != nil && !p.Done {
			kept = append(kept, id)
		}
	}
	e.slots = kept
	e.fillSlots()
	e.slotIndex = 0
	e.roundVisits = 0
}

// selectNext picks the next word via the round-robin window and builds
// its question view.
func (e *StepsEngine) selectNext(ctx context.Context) error {
	if e.learned >= len(e.s.Words) {
		// All words done; afterMutation has already routed to review
		// or completion, so reaching here means completion raced a
		// stale caller.
		return ErrSessionComplete
	}

	if len(e.slots) == 0 {
		e.fillSlots()
	}
	if e.roundVisits >= len(e.slots) {
		e.compactSlots()
	}

	id, ok := e.nextActiveID()
	if !ok {
		e.compactSlots()
		if id, ok = e.nextActiveID(); !ok {
			// Every remaining word is cooling down; release them.
			for _, p := range e.progress {
				p.TypingCooldown = 0
			}
			if id, ok = e.nextActiveID(); !ok {
				return ErrSessionComplete
			}
		}
	}

	w := e.s.wordByID(id)
	if w == nil {
		// Stale reference after data mutation: retire it and move on.
		e.s.log.Warn("dropping unresolvable word from steps rotation",
			slog.String("word_id", id.String()))
		if p := e.progress[id]; p != nil && !p.Done {
			p.Done = true
			e.learned++
		}
		return e.selectNext(ctx)
	}

	e.currentID = id
	e.currentQA = e.s.questionFor(w)
	e.currentView = e.buildView(w)
	return nil
}

// nextActiveID cycles the window once looking for a selectable word,
// decrementing typing cooldowns as it skips over them.
func (e *StepsEngine) nextActiveID() (uuid.UUID, bool) {
	total := len(e.slots)
	if total == 0 {
		return uuid.Nil, false
	}

	for tries := 0; tries < total; tries++ {
		idx := e.slotIndex % total
		id := e.slots[idx]
		e.slotIndex = (idx + 1) % total
		e.roundVisits++

		p := e.progress[id]
		if p == nil || p.Done {
			continue
		}
		if p.Phase == StageTyping && p.TypingCooldown > 0 {
			p.TypingCooldown--
			continue
		}
		return id, true
	}

	return uuid.Nil, false
}

// buildView renders the question for the current word and stage.
func (e *StepsEngine) buildView(w *Word) *QuestionView {
	p := e.progress[w.ID]
	view := &QuestionView{
		WordID:  w.ID,
		Stage:   p.Phase,
		Prompt:  e.currentQA.Prompt,
		Learned: e.learned,
		Total:   len(e.s.Words),
	}

	switch p.Phase {
	case StageFlash, StageCopy:
		view.Answer = e.currentQA.Answer
	case StageChoice:
		view.Options = e.choiceOptions(w)
	case StageHint:
		view.Hint = HintPattern(e.currentQA.Answer)
	case StageTyping:
		if p.TypingRemaining > 1 {
			view.RemainingCorrect = p.TypingRemaining
		}
	}

	return view
}

// choiceOptions builds the four multiple-choice options: the correct
// answer plus the three most plausible distractors drawn from the other
// words' opposite-field values, shuffled.
func (e *StepsEngine) choiceOptions(w *Word) []string {
	candidates := make([]string, 0, len(e.s.Words)-1)
	for i := range e.s.Words {
		other := &e.s.Words[i]
		if other.ID == w.ID {
			continue
		}
		if e.currentQA.TermToDef {
			candidates = append(candidates, other.Definition)
		} else {
			candidates = append(candidates, other.Term)
		}
	}

	options := append(
		textdiff.PickSimilar(e.currentQA.Answer, candidates, 3),
		e.currentQA.Answer,
	)
	e.s.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

func (e *StepsEngine) snapshot(ctx context.Context) {
	if e.completed {
		return
	}
	e.s.saveSnapshot(ctx, e.buildSnapshot())
}
