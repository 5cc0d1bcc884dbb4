package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Loekiboy/loek-it-up/internal/config"
	"github.com/Loekiboy/loek-it-up/internal/store"
	"github.com/Loekiboy/loek-it-up/internal/study"
	"github.com/Loekiboy/loek-it-up/internal/study/match"
)

// StartOptions selects and configures a new study session.
type StartOptions struct {
	// WordIDs restricts the session to a subset of the list. Empty means
	// the whole list.
	WordIDs []uuid.UUID

	Direction study.Direction
	Match     match.Options

	// Stages narrows the staged-learning progression (steps mode only).
	Stages []study.Stage
}

// SessionState is the renderable state returned when a session starts or
// resumes.
type SessionState struct {
	ListID uuid.UUID  `json:"list_id"`
	Mode   study.Mode `json:"mode"`

	// Question is the current prompt (absent in connect mode).
	Question *study.QuestionView `json:"question,omitempty"`

	// Board, Remaining and Mistakes describe the matching game.
	Board     []study.ConnectCard `json:"board,omitempty"`
	Remaining int                 `json:"remaining_seconds,omitempty"`
	Mistakes  int                 `json:"mistakes,omitempty"`

	Completed bool `json:"completed"`
}

// activeSession is the one session slot of the service. Exactly one of
// the engine fields is set, matching mode.
type activeSession struct {
	userID uuid.UUID
	listID uuid.UUID
	mode   study.Mode

	steps      *study.StepsEngine
	typing     *study.TypingEngine
	flashcards *study.FlashcardsEngine
	exam       *study.ExamEngine
	connect    *study.ConnectEngine

	// stop terminates the connect countdown goroutine.
	stop chan struct{}
}

func (a *activeSession) completed() bool {
	switch a.mode {
	case study.ModeSteps:
		return a.steps.Completed()
	case study.ModeTyping:
		return a.typing.Completed()
	case study.ModeFlashcards:
		return a.flashcards.Completed()
	case study.ModeExam:
		return a.exam.Completed()
	case study.ModeConnect:
		return a.connect.Completed()
	}
	return false
}

func (a *activeSession) summary() *study.Summary {
	switch a.mode {
	case study.ModeSteps:
		return a.steps.Summary()
	case study.ModeTyping:
		return a.typing.Summary()
	case study.ModeFlashcards:
		return a.flashcards.Summary()
	case study.ModeExam:
		return a.exam.Summary()
	case study.ModeConnect:
		return a.connect.Summary()
	}
	return nil
}

// StudyService drives study sessions against the persistent stores. The
// service holds a single session slot guarded by a mutex: starting a new
// session replaces the previous one, matching the one-drill-at-a-time
// shape of the original trainer.
type StudyService struct {
	lists  store.WordListStore
	stats  store.WordStatsStore
	snaps  store.SnapshotStore
	cfg    config.StudyConfig
	logger *slog.Logger

	mu     sync.Mutex
	active *activeSession
}

// NewStudyService creates a new StudyService.
func NewStudyService(
	lists store.WordListStore,
	stats store.WordStatsStore,
	snaps store.SnapshotStore,
	cfg config.StudyConfig,
	logger *slog.Logger,
) *StudyService {
	if lists == nil || stats == nil || snaps == nil {
		panic("stores cannot be nil")
	}

	return &StudyService{
		lists:  lists,
		stats:  stats,
		snaps:  snaps,
		cfg:    cfg,
		logger: logger.With("component", "study_service"),
	}
}

// settings merges the configured engine tunables with the per-session
// options.
func (s *StudyService) settings(opts StartOptions) study.Settings {
	return study.Settings{
		Direction:           opts.Direction,
		Match:               opts.Match,
		Stages:              opts.Stages,
		MaxStageFails:       s.cfg.MaxStageFails,
		AdvanceDelayCorrect: time.Duration(s.cfg.AdvanceDelayCorrectMS) * time.Millisecond,
		AdvanceDelayWrong:   time.Duration(s.cfg.AdvanceDelayWrongMS) * time.Millisecond,
		ConnectLockout:      time.Duration(s.cfg.ConnectLockoutMS) * time.Millisecond,
	}
}

// deps builds the engine collaborators bound to the owning user.
func (s *StudyService) deps(userID uuid.UUID) study.Deps {
	return study.Deps{
		Sink:      &statsSinkAdapter{stats: s.stats},
		Snapshots: &snapshotAdapter{snaps: s.snaps, userID: userID},
		Logger:    s.logger,
	}
}

// selectWords resolves the session word pool from the list, honoring an
// optional subset.
func (s *StudyService) selectWords(ctx context.Context, userID, listID uuid.UUID, ids []uuid.UUID) ([]study.Word, error) {
	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to load list: %w", err)
	}
	if list.UserID != userID {
		return nil, ErrNotOwned
	}

	if len(ids) == 0 {
		words := make([]study.Word, len(list.Words))
		for i := range list.Words {
			words[i] = study.Word{
				ID:         list.Words[i].ID,
				Term:       list.Words[i].Term,
				Definition: list.Words[i].Definition,
			}
		}
		return words, nil
	}

	words := make([]study.Word, 0, len(ids))
	for _, id := range ids {
		w := list.WordByID(id)
		if w == nil {
			return nil, fmt.Errorf("%w: %s", study.ErrUnknownWord, id)
		}
		words = append(words, study.Word{ID: w.ID, Term: w.Term, Definition: w.Definition})
	}
	return words, nil
}

// Start begins a new session in the given mode, replacing any session
// already in the slot.
func (s *StudyService) Start(ctx context.Context, userID, listID uuid.UUID, mode study.Mode, opts StartOptions) (*SessionState, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown study mode %q", mode)
	}

	words, err := s.selectWords(ctx, userID, listID, opts.WordIDs)
	if err != nil {
		return nil, err
	}

	settings := s.settings(opts)
	deps := s.deps(userID)

	a := &activeSession{userID: userID, listID: listID, mode: mode}
	switch mode {
	case study.ModeSteps:
		a.steps, err = study.NewSteps(listID, words, settings, deps)
	case study.ModeTyping:
		a.typing, err = study.NewTyping(listID, words, settings, deps)
	case study.ModeFlashcards:
		a.flashcards, err = study.NewFlashcards(listID, words, settings, deps)
	case study.ModeExam:
		a.exam, err = study.NewExam(listID, words, settings, deps)
	case study.ModeConnect:
		a.connect, err = study.NewConnect(listID, words, settings, deps)
	}
	if err != nil {
		return nil, NewServiceError("start_session", "engine start failed", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(a)

	s.logger.Info("study session started",
		"list_id", listID,
		"mode", mode,
		"word_count", len(words))

	return s.stateLocked(ctx, a)
}

// Resume rebuilds a session from its stored snapshot.
// Returns store.ErrSnapshotNotFound when nothing is stored, and
// study.ErrResumeMismatch when the snapshot does not fit the request.
func (s *StudyService) Resume(ctx context.Context, userID, listID uuid.UUID, mode study.Mode) (*SessionState, error) {
	// Ownership gate before touching the snapshot.
	if _, err := s.selectWords(ctx, userID, listID, nil); err != nil {
		return nil, err
	}

	snap, err := s.snaps.Get(ctx, userID, listID, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	deps := s.deps(userID)
	a := &activeSession{userID: userID, listID: listID, mode: mode}
	switch mode {
	case study.ModeSteps:
		a.steps, err = study.ResumeSteps(listID, snap, deps)
	case study.ModeTyping:
		a.typing, err = study.ResumeTyping(listID, snap, deps)
	case study.ModeFlashcards:
		a.flashcards, err = study.ResumeFlashcards(listID, snap, deps)
	case study.ModeExam:
		a.exam, err = study.ResumeExam(listID, snap, deps)
	case study.ModeConnect:
		a.connect, err = study.ResumeConnect(listID, snap, deps)
	default:
		return nil, fmt.Errorf("unknown study mode %q", mode)
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(a)

	s.logger.Info("study session resumed",
		"list_id", listID,
		"mode", mode)

	return s.stateLocked(ctx, a)
}

// replaceLocked installs a new active session, tearing down the previous
// one. Caller holds the mutex.
func (s *StudyService) replaceLocked(a *activeSession) {
	if s.active != nil && s.active.stop != nil {
		close(s.active.stop)
	}

	s.active = a
	if a.mode == study.ModeConnect {
		a.stop = make(chan struct{})
		go s.runCountdown(a)
	}
}

// runCountdown drives the connect countdown with a wall-clock ticker.
// It exits when the game completes or the session is replaced.
func (s *StudyService) runCountdown(a *activeSession) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-a.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.active != a || a.connect.Completed() {
				s.mu.Unlock()
				return
			}
			a.connect.Tick(context.Background())
			s.mu.Unlock()
		}
	}
}

// sessionFor returns the active session after checking ownership. Caller
// holds the mutex.
func (s *StudyService) sessionFor(userID uuid.UUID) (*activeSession, error) {
	if s.active == nil {
		return nil, ErrNoActiveSession
	}
	if s.active.userID != userID {
		return nil, ErrNotOwned
	}
	return s.active, nil
}

// stateLocked renders the current session state. Caller holds the mutex.
func (s *StudyService) stateLocked(ctx context.Context, a *activeSession) (*SessionState, error) {
	state := &SessionState{
		ListID:    a.listID,
		Mode:      a.mode,
		Completed: a.completed(),
	}

	if state.Completed {
		return state, nil
	}

	var err error
	switch a.mode {
	case study.ModeSteps:
		state.Question, err = a.steps.CurrentQuestion(ctx)
	case study.ModeTyping:
		state.Question, err = a.typing.CurrentQuestion(ctx)
	case study.ModeFlashcards:
		state.Question, err = a.flashcards.CurrentCard(ctx)
	case study.ModeExam:
		state.Question, err = a.exam.CurrentQuestion(ctx)
	case study.ModeConnect:
		state.Board = a.connect.Board()
		state.Remaining = a.connect.Remaining()
		state.Mistakes = a.connect.Mistakes()
	}
	if err != nil {
		return nil, err
	}
	return state, nil
}

// State reports the current session state for the user.
func (s *StudyService) State(ctx context.Context, userID uuid.UUID) (*SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.sessionFor(userID)
	if err != nil {
		return nil, err
	}
	return s.stateLocked(ctx, a)
}

// SubmitAnswer grades a typed answer in the steps, typing, or exam
// session.
func (s *StudyService) SubmitAnswer(ctx context.Context, userID uuid.UUID, input string) (*study.GradeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.sessionFor(userID)
	if err != nil {
		return nil, err
	}

	switch a.mode {
	case study.ModeSteps:
		return a.steps.SubmitAnswer(ctx, input)
	case study.ModeTyping:
		return a.typing.SubmitAnswer(ctx, input)
	case study.ModeExam:
		return a.exam.SubmitAnswer(ctx, input)
	}
	return nil, ErrWrongSessionMode
}

// Flip reveals the back of the current flash card (steps mode).
func (s *StudyService) Flip(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.sessionFor(userID)
	if err != nil {
		return err
	}
	if a.mode != study.ModeSteps {
		return ErrWrongSessionMode
	}
	return a.steps.Flip(ctx)
}

// Mark grades the current flashcard as known or unknown.
func (s *StudyService) Mark(ctx context.Context, userID uuid.UUID, known bool) (*study.GradeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.sessionFor(userID)
	if err != nil {
		return nil, err
	}
	if a.mode != study.ModeFlashcards {
		return nil, ErrWrongSessionMode
	}
	return a.flashcards.Mark(ctx, known)
}

// Pick selects a card on the matching board. After a mismatch the board
// unlocks itself once the configured lockout elapses.
func (s *StudyService) Pick(ctx context.Context, userID uuid.UUID, cardID uuid.UUID) (*study.PickResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.sessionFor(userID)
	if err != nil {
		return nil, err
	}
	if a.mode != study.ModeConnect {
		return nil, ErrWrongSessionMode
	}

	res, err := a.connect.Pick(ctx, cardID)
	if err != nil {
		return nil, err
	}

	if res.Mismatch {
		time.AfterFunc(res.LockFor, func() {
			s.mu.Lock()
			if s.active == a {
				a.connect.Unlock()
			}
			s.mu.Unlock()
		})
	}
	return res, nil
}

// Override accepts a previously wrong answer as correct.
func (s *StudyService) Override(ctx context.Context, userID, wordID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.sessionFor(userID)
	if err != nil {
		return err
	}

	switch a.mode {
	case study.ModeSteps:
		return a.steps.Override(ctx, wordID)
	case study.ModeTyping:
		return a.typing.Override(ctx, wordID)
	case study.ModeFlashcards:
		return a.flashcards.Override(ctx, wordID)
	case study.ModeExam:
		return a.exam.Override(ctx, wordID)
	}
	return ErrWrongSessionMode
}

// Summary returns the completion summary of the active session.
func (s *StudyService) Summary(ctx context.Context, userID uuid.UUID) (*study.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.sessionFor(userID)
	if err != nil {
		return nil, err
	}
	if !a.completed() {
		return nil, study.ErrInvalidEvent
	}
	return a.summary(), nil
}

// Exit abandons the active session. The last stored snapshot survives so
// the session can be resumed later; a completed session has already
// cleared it.
func (s *StudyService) Exit(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.sessionFor(userID)
	if err != nil {
		return err
	}

	if a.stop != nil {
		close(a.stop)
	}
	s.active = nil

	s.logger.Info("study session exited",
		"list_id", a.listID,
		"mode", a.mode)
	return nil
}

// DiscardSnapshot drops the stored snapshot for a list and mode, for the
// "start over" flow.
func (s *StudyService) DiscardSnapshot(ctx context.Context, userID, listID uuid.UUID, mode study.Mode) error {
	if err := s.snaps.Delete(ctx, userID, listID, mode); err != nil {
		return fmt.Errorf("failed to discard snapshot: %w", err)
	}
	return nil
}
