package study

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Snapshot is the JSON-serializable image of a running session, written
// best-effort after every state change and used only for
// resume-after-reload. Exactly one of the mode sub-snapshots is set.
type Snapshot struct {
	ListID   uuid.UUID `json:"list_id"`
	Mode     Mode      `json:"mode"`
	Settings Settings  `json:"settings"`
	Words    []Word    `json:"words"`

	CorrectCount int                       `json:"correct_count"`
	WrongCount   int                       `json:"wrong_count"`
	Results      map[uuid.UUID]*WordResult `json:"results"`

	Steps      *StepsSnapshot      `json:"steps,omitempty"`
	Typing     *TypingSnapshot     `json:"typing,omitempty"`
	Flashcards *FlashcardsSnapshot `json:"flashcards,omitempty"`
	Exam       *ExamSnapshot       `json:"exam,omitempty"`
	Connect    *ConnectSnapshot    `json:"connect,omitempty"`

	SavedAt time.Time `json:"saved_at"`
}

// StepsSnapshot is the staged-learning engine state.
type StepsSnapshot struct {
	Progress      map[uuid.UUID]*stepsProgress `json:"progress"`
	Slots         []uuid.UUID                  `json:"slots"`
	NextWordIndex int                          `json:"next_word_index"`
	SlotIndex     int                          `json:"slot_index"`
	RoundVisits   int                          `json:"round_visits"`
	WrongIDs      []uuid.UUID                  `json:"wrong_ids"`
	Learned       int                          `json:"learned"`
	Review        *reviewPhase                 `json:"review,omitempty"`
}

// TypingSnapshot is the typing-drill engine state.
type TypingSnapshot struct {
	Progress       map[uuid.UUID]*typingProgress `json:"progress"`
	WrongIDs       []uuid.UUID                   `json:"wrong_ids"`
	CompletedCount int                           `json:"completed_count"`
	Review         *reviewPhase                  `json:"review,omitempty"`
}

// FlashcardsSnapshot is the swipe-deck engine state.
type FlashcardsSnapshot struct {
	Deck    []Word `json:"deck"`
	Correct []Word `json:"correct"`
	Wrong   []Word `json:"wrong"`
}

// ExamSnapshot is the exam engine state.
type ExamSnapshot struct {
	Index int        `json:"index"`
	Items []ExamItem `json:"items"`
}

// ConnectSnapshot is the matching-game engine state.
type ConnectSnapshot struct {
	Cards     []ConnectCard `json:"cards"`
	FirstPick uuid.UUID     `json:"first_pick"`
	Remaining int           `json:"remaining"`
	Matched   int           `json:"matched"`
	Mistakes  int           `json:"mistakes"`
}

// base builds the mode-independent part of a snapshot.
func (s *Session) base() *Snapshot {
	return &Snapshot{
		ListID:       s.ListID,
		Mode:         s.Mode,
		Settings:     s.Settings,
		Words:        s.Words,
		CorrectCount: s.CorrectCount,
		WrongCount:   s.WrongCount,
		Results:      s.Results,
		SavedAt:      time.Now().UTC(),
	}
}

// validate checks that a snapshot can be resumed for the given list and
// mode. A mismatched snapshot is a stale leftover, not corruption.
func (snap *Snapshot) validate(listID uuid.UUID, mode Mode) error {
	if snap == nil {
		return fmt.Errorf("%w: no snapshot", ErrResumeMismatch)
	}
	if snap.ListID != listID || snap.Mode != mode {
		return ErrResumeMismatch
	}
	if len(snap.Words) == 0 {
		return fmt.Errorf("%w: snapshot has no words", ErrResumeMismatch)
	}
	return nil
}

func (e *StepsEngine) buildSnapshot() *Snapshot {
	snap := e.s.base()
	snap.Steps = &StepsSnapshot{
		Progress:      e.progress,
		Slots:         e.slots,
		NextWordIndex: e.nextWordIndex,
		SlotIndex:     e.slotIndex,
		RoundVisits:   e.roundVisits,
		WrongIDs:      e.wrongIDs,
		Learned:       e.learned,
		Review:        e.review,
	}
	return snap
}

// ResumeSteps rebuilds a staged-learning engine from a snapshot.
func ResumeSteps(listID uuid.UUID, snap *Snapshot, deps Deps) (*StepsEngine, error) {
	if err := snap.validate(listID, ModeSteps); err != nil {
		return nil, err
	}
	if snap.Steps == nil {
		return nil, fmt.Errorf("%w: missing steps state", ErrResumeMismatch)
	}

	s := restoreSession(snap, deps)
	st := snap.Steps

	e := &StepsEngine{
		s:             s,
		stages:        s.Settings.Stages,
		progress:      st.Progress,
		slots:         st.Slots,
		nextWordIndex: st.NextWordIndex,
		slotIndex:     st.SlotIndex,
		roundVisits:   st.RoundVisits,
		wrongIDs:      st.WrongIDs,
		wrongSet:      make(map[uuid.UUID]bool, len(st.WrongIDs)),
		review:        st.Review,
		learned:       st.Learned,
	}
	if e.progress == nil {
		return nil, fmt.Errorf("%w: missing steps progress", ErrResumeMismatch)
	}
	for _, id := range e.wrongIDs {
		e.wrongSet[id] = true
	}
	if e.review != nil && e.review.Reviewed == nil {
		e.review.Reviewed = make(map[uuid.UUID]bool)
	}
	return e, nil
}

func (e *TypingEngine) buildSnapshot() *Snapshot {
	snap := e.s.base()
	snap.Typing = &TypingSnapshot{
		Progress:       e.progress,
		WrongIDs:       e.wrongIDs,
		CompletedCount: e.completedCount,
		Review:         e.review,
	}
	return snap
}

// ResumeTyping rebuilds a typing drill from a snapshot.
func ResumeTyping(listID uuid.UUID, snap *Snapshot, deps Deps) (*TypingEngine, error) {
	if err := snap.validate(listID, ModeTyping); err != nil {
		return nil, err
	}
	if snap.Typing == nil || snap.Typing.Progress == nil {
		return nil, fmt.Errorf("%w: missing typing state", ErrResumeMismatch)
	}

	s := restoreSession(snap, deps)
	st := snap.Typing

	e := &TypingEngine{
		s:              s,
		progress:       st.Progress,
		wrongIDs:       st.WrongIDs,
		wrongSet:       make(map[uuid.UUID]bool, len(st.WrongIDs)),
		completedCount: st.CompletedCount,
		review:         st.Review,
	}
	for _, id := range e.wrongIDs {
		e.wrongSet[id] = true
	}
	if e.review != nil && e.review.Reviewed == nil {
		e.review.Reviewed = make(map[uuid.UUID]bool)
	}
	return e, nil
}

func (e *FlashcardsEngine) buildSnapshot() *Snapshot {
	snap := e.s.base()
	snap.Flashcards = &FlashcardsSnapshot{
		Deck:    e.deck,
		Correct: e.correct,
		Wrong:   e.wrong,
	}
	return snap
}

// ResumeFlashcards rebuilds a flashcard session from a snapshot.
func ResumeFlashcards(listID uuid.UUID, snap *Snapshot, deps Deps) (*FlashcardsEngine, error) {
	if err := snap.validate(listID, ModeFlashcards); err != nil {
		return nil, err
	}
	if snap.Flashcards == nil || len(snap.Flashcards.Deck) == 0 {
		return nil, fmt.Errorf("%w: missing flashcards state", ErrResumeMismatch)
	}

	return &FlashcardsEngine{
		s:       restoreSession(snap, deps),
		deck:    snap.Flashcards.Deck,
		correct: snap.Flashcards.Correct,
		wrong:   snap.Flashcards.Wrong,
	}, nil
}

func (e *ExamEngine) buildSnapshot() *Snapshot {
	snap := e.s.base()
	snap.Exam = &ExamSnapshot{
		Index: e.index,
		Items: e.items,
	}
	return snap
}

// ResumeExam rebuilds an exam from a snapshot.
func ResumeExam(listID uuid.UUID, snap *Snapshot, deps Deps) (*ExamEngine, error) {
	if err := snap.validate(listID, ModeExam); err != nil {
		return nil, err
	}
	if snap.Exam == nil || snap.Exam.Index >= len(snap.Words) {
		return nil, fmt.Errorf("%w: missing exam state", ErrResumeMismatch)
	}

	return &ExamEngine{
		s:     restoreSession(snap, deps),
		index: snap.Exam.Index,
		items: snap.Exam.Items,
	}, nil
}

func (e *ConnectEngine) buildSnapshot() *Snapshot {
	snap := e.s.base()
	snap.Connect = &ConnectSnapshot{
		Cards:     e.cards,
		FirstPick: e.firstPick,
		Remaining: e.remaining,
		Matched:   e.matched,
		Mistakes:  e.mistakes,
	}
	return snap
}

// ResumeConnect rebuilds a matching game from a snapshot.
func ResumeConnect(listID uuid.UUID, snap *Snapshot, deps Deps) (*ConnectEngine, error) {
	if err := snap.validate(listID, ModeConnect); err != nil {
		return nil, err
	}
	if snap.Connect == nil || len(snap.Connect.Cards) == 0 {
		return nil, fmt.Errorf("%w: missing connect state", ErrResumeMismatch)
	}

	return &ConnectEngine{
		s:         restoreSession(snap, deps),
		cards:     snap.Connect.Cards,
		firstPick: snap.Connect.FirstPick,
		remaining: snap.Connect.Remaining,
		matched:   snap.Connect.Matched,
		mistakes:  snap.Connect.Mistakes,
	}, nil
}
