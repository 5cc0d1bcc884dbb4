// Package study implements the study-session engines: staged learning,
// typing drill, flashcards, exam, and the matching game. Engines are
// pure request/response state machines. They advance only in response
// to submitted answers or picks and emit question and grade descriptors
// for the caller to render. Persistence and stats recording are
// injected collaborator interfaces; the engines tolerate their absence.
package study

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/Loekiboy/loek-it-up/internal/study/match"
)

// Mode identifies a study mode.
type Mode string

const (
	ModeSteps      Mode = "steps"
	ModeTyping     Mode = "typing"
	ModeFlashcards Mode = "flashcards"
	ModeExam       Mode = "exam"
	ModeConnect    Mode = "connect"
)

// Valid reports whether m is a known study mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeSteps, ModeTyping, ModeFlashcards, ModeExam, ModeConnect:
		return true
	}
	return false
}

// Direction controls which word field is the prompt and which is the
// expected answer. DirectionMixed is re-decided per question.
type Direction string

const (
	DirectionTermToDef Direction = "term-def"
	DirectionDefToTerm Direction = "def-term"
	DirectionMixed     Direction = "mixed"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	switch d {
	case DirectionTermToDef, DirectionDefToTerm, DirectionMixed:
		return true
	}
	return false
}

// Stage is one question-type step in the staged-learning progression.
type Stage string

const (
	StageFlash  Stage = "flash"
	StageCopy   Stage = "copy"
	StageChoice Stage = "choice"
	StageHint   Stage = "hint"
	StageTyping Stage = "typing"
	StageDone   Stage = "done"
)

// AllStages is the full staged-learning progression in order.
var AllStages = []Stage{StageFlash, StageCopy, StageChoice, StageHint, StageTyping}

// Session-level errors.
var (
	// ErrEmptySelection is returned when a session is started with no
	// words; no partial session is created.
	ErrEmptySelection = errors.New("no words selected for session")

	// ErrSessionComplete is returned when an event arrives after the
	// session has already reached its terminal state.
	ErrSessionComplete = errors.New("session already complete")

	// ErrInvalidEvent is returned when an event does not apply to the
	// current question (e.g. a flip outside the flash stage).
	ErrInvalidEvent = errors.New("event not valid for current question")

	// ErrUnknownWord is returned when a referenced word ID does not
	// resolve in the session's working set.
	ErrUnknownWord = errors.New("word not in session")

	// ErrNoStages is returned when a staged session is configured with
	// an empty stage list.
	ErrNoStages = errors.New("at least one stage must be enabled")

	// ErrResumeMismatch is returned when a snapshot does not belong to
	// the list or mode it is being resumed into.
	ErrResumeMismatch = errors.New("snapshot does not match session")
)

// StatsSink durably records graded attempts against a word's lifetime
// stats. Engines call it after every graded attempt, in every mode; a
// failing sink is logged and never blocks the session.
type StatsSink interface {
	// RecordAnswer increments the word's lifetime correct or wrong tally.
	RecordAnswer(ctx context.Context, wordID uuid.UUID, correct bool) error

	// RecordOverride moves the word's most recent wrong tally to
	// correct, for the "accept my answer as correct" dispute flow.
	RecordOverride(ctx context.Context, wordID uuid.UUID) error
}

// SnapshotStore persists session snapshots for resume-after-reload,
// keyed by list and mode. It is never consulted for correctness logic.
type SnapshotStore interface {
	Save(ctx context.Context, snap *Snapshot) error
	Load(ctx context.Context, listID uuid.UUID, mode Mode) (*Snapshot, error)
	Clear(ctx context.Context, listID uuid.UUID, mode Mode) error
}

// NopStatsSink discards all recorded answers.
type NopStatsSink struct{}

func (NopStatsSink) RecordAnswer(context.Context, uuid.UUID, bool) error { return nil }
func (NopStatsSink) RecordOverride(context.Context, uuid.UUID) error     { return nil }

// NopSnapshotStore never persists and never finds a snapshot.
type NopSnapshotStore struct{}

func (NopSnapshotStore) Save(context.Context, *Snapshot) error { return nil }
func (NopSnapshotStore) Load(context.Context, uuid.UUID, Mode) (*Snapshot, error) {
	return nil, nil
}
func (NopSnapshotStore) Clear(context.Context, uuid.UUID, Mode) error { return nil }

// Word is the engine's view of a vocabulary word: the identity and the
// two sides of the card. Lifetime stats live with the collaborator that
// owns the word pool.
type Word struct {
	ID         uuid.UUID `json:"id"`
	Term       string    `json:"term"`
	Definition string    `json:"definition"`
}

// Settings configures a session: mode-independent direction and
// leniency flags plus the tunable engine policies.
type Settings struct {
	Direction Direction     `json:"direction"`
	Match     match.Options `json:"match"`

	// Stages is the enabled staged-learning progression, in order.
	// Empty means all stages.
	Stages []Stage `json:"stages,omitempty"`

	// MaxStageFails caps how many times a word may fail a non-typing
	// stage before it is force-advanced. Zero means unlimited.
	MaxStageFails int `json:"max_stage_fails,omitempty"`

	// AdvanceDelayCorrect and AdvanceDelayWrong are UX pacing hints
	// echoed back in every grade result. They have no engine effect.
	AdvanceDelayCorrect time.Duration `json:"advance_delay_correct,omitempty"`
	AdvanceDelayWrong   time.Duration `json:"advance_delay_wrong,omitempty"`

	// ConnectLockout is how long the matching board stays locked after
	// a mismatched pair, also echoed to the caller.
	ConnectLockout time.Duration `json:"connect_lockout,omitempty"`
}

// Engine policy constants. Cooldowns are measured in drill rounds, not
// wall time.
const (
	activeSlotCount = 4

	stepsTypingCooldown = 3
	typingExtraCorrect  = 2

	typingCooldown          = 4
	typingCooldownSmallPool = 8
	typingSmallPool         = 4

	connectMaxWords       = 8
	connectMinSeconds     = 45
	connectSecondsPerWord = 12
)

// withDefaults fills in zero-valued tunables.
func (s Settings) withDefaults() Settings {
	if s.Direction == "" {
		s.Direction = DirectionTermToDef
	}
	if len(s.Stages) == 0 {
		s.Stages = append([]Stage(nil), AllStages...)
	}
	if s.AdvanceDelayCorrect == 0 {
		s.AdvanceDelayCorrect = 600 * time.Millisecond
	}
	if s.AdvanceDelayWrong == 0 {
		s.AdvanceDelayWrong = 900 * time.Millisecond
	}
	if s.ConnectLockout == 0 {
		s.ConnectLockout = 450 * time.Millisecond
	}
	return s
}

// Deps are the collaborators injected into every engine. Zero values
// are replaced with no-op implementations, a default logger, and a
// time-seeded random source.
type Deps struct {
	Sink      StatsSink
	Snapshots SnapshotStore
	Logger    *slog.Logger
	Rand      *rand.Rand
}

func (d Deps) withDefaults(component string) Deps {
	if d.Sink == nil {
		d.Sink = NopStatsSink{}
	}
	if d.Snapshots == nil {
		d.Snapshots = NopSnapshotStore{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	d.Logger = d.Logger.With(slog.String("component", component))
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return d
}

// WordResult is the per-word tally of one session.
type WordResult struct {
	Correct int `json:"correct"`
	Wrong   int `json:"wrong"`
}

// Session is the shared mutable state of one practice run: the shuffled
// working set, the leniency configuration, and the session-scoped
// counters every engine feeds.
type Session struct {
	ListID   uuid.UUID
	Mode     Mode
	Settings Settings

	// Words is the shuffled working set, a permutation of the selected
	// subset fixed at session start.
	Words []Word

	CorrectCount int
	WrongCount   int
	Results      map[uuid.UUID]*WordResult

	sink  StatsSink
	snaps SnapshotStore
	log   *slog.Logger
	rng   *rand.Rand
}

// newSession shuffles the selected words into a fresh session.
// Returns ErrEmptySelection for an empty subset.
func newSession(listID uuid.UUID, mode Mode, words []Word, settings Settings, deps Deps) (*Session, error) {
	if len(words) == 0 {
		return nil, ErrEmptySelection
	}

	deps = deps.withDefaults(string(mode) + "_engine")

	shuffled := append([]Word(nil), words...)
	deps.Rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return &Session{
		ListID:   listID,
		Mode:     mode,
		Settings: settings.withDefaults(),
		Words:    shuffled,
		Results:  make(map[uuid.UUID]*WordResult, len(shuffled)),
		sink:     deps.Sink,
		snaps:    deps.Snapshots,
		log:      deps.Logger,
		rng:      deps.Rand,
	}, nil
}

// restoreSession rebuilds a session from snapshot data, preserving the
// stored word order.
func restoreSession(snap *Snapshot, deps Deps) *Session {
	deps = deps.withDefaults(string(snap.Mode) + "_engine")

	results := snap.Results
	if results == nil {
		results = make(map[uuid.UUID]*WordResult, len(snap.Words))
	}

	return &Session{
		ListID:       snap.ListID,
		Mode:         snap.Mode,
		Settings:     snap.Settings.withDefaults(),
		Words:        snap.Words,
		CorrectCount: snap.CorrectCount,
		WrongCount:   snap.WrongCount,
		Results:      results,
		sink:         deps.Sink,
		snaps:        deps.Snapshots,
		log:          deps.Logger,
		rng:          deps.Rand,
	}
}

// wordByID resolves a word in the working set, or nil.
func (s *Session) wordByID(id uuid.UUID) *Word {
	for i := range s.Words {
		if s.Words[i].ID == id {
			return &s.Words[i]
		}
	}
	return nil
}

// recordAnswer applies one graded attempt to the session counters and
// forwards it to the stats sink. Sink failures are logged and ignored:
// the drill is never blocked on persistence.
func (s *Session) recordAnswer(ctx context.Context, wordID uuid.UUID, correct bool) {
	if correct {
		s.CorrectCount++
	} else {
		s.WrongCount++
	}

	r := s.Results[wordID]
	if r == nil {
		r = &WordResult{}
		s.Results[wordID] = r
	}
	if correct {
		r.Correct++
	} else {
		r.Wrong++
	}

	if err := s.sink.RecordAnswer(ctx, wordID, correct); err != nil {
		s.log.Warn("stats sink write failed",
			slog.String("word_id", wordID.String()),
			slog.String("error", err.Error()))
	}
}

// recordOverride rewrites the most recent wrong attempt for the word as
// correct, in the session counters and in the durable stats.
func (s *Session) recordOverride(ctx context.Context, wordID uuid.UUID) {
	if s.WrongCount > 0 {
		s.WrongCount--
	}
	s.CorrectCount++

	r := s.Results[wordID]
	if r == nil {
		r = &WordResult{}
		s.Results[wordID] = r
	}
	if r.Wrong > 0 {
		r.Wrong--
	}
	r.Correct++

	if err := s.sink.RecordOverride(ctx, wordID); err != nil {
		s.log.Warn("stats override write failed",
			slog.String("word_id", wordID.String()),
			slog.String("error", err.Error()))
	}
}

// saveSnapshot persists the snapshot best-effort.
func (s *Session) saveSnapshot(ctx context.Context, snap *Snapshot) {
	if err := s.snaps.Save(ctx, snap); err != nil {
		s.log.Warn("session snapshot save failed",
			slog.String("list_id", s.ListID.String()),
			slog.String("error", err.Error()))
	}
}

// clearSnapshot drops the stored snapshot best-effort, on completion.
func (s *Session) clearSnapshot(ctx context.Context) {
	if err := s.snaps.Clear(ctx, s.ListID, s.Mode); err != nil {
		s.log.Warn("session snapshot clear failed",
			slog.String("list_id", s.ListID.String()),
			slog.String("error", err.Error()))
	}
}

// qa is one concrete prompt/answer pairing of a word under the session
// direction. For DirectionMixed it is re-rolled at presentation time
// and must be kept until the word is graded.
type qa struct {
	Prompt    string `json:"prompt"`
	Answer    string `json:"answer"`
	TermToDef bool   `json:"term_to_def"`
}

// questionFor rolls the prompt/answer orientation for one presentation.
func (s *Session) questionFor(w *Word) qa {
	termToDef := true
	switch s.Settings.Direction {
	case DirectionDefToTerm:
		termToDef = false
	case DirectionMixed:
		termToDef = s.rng.Intn(2) == 0
	}

	if termToDef {
		return qa{Prompt: w.Term, Answer: w.Definition, TermToDef: true}
	}
	return qa{Prompt: w.Definition, Answer: w.Term, TermToDef: false}
}

// checkAnswer grades input against the expected answer under the
// session leniency flags.
func (s *Session) checkAnswer(input, answer string) bool {
	return match.Check(input, answer, s.Settings.Match)
}
