package study

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ConnectCard is one face-down/face-up card on the matching board:
// either the term side or the definition side of a word.
type ConnectCard struct {
	ID      uuid.UUID `json:"id"`
	WordID  uuid.UUID `json:"word_id"`
	Text    string    `json:"text"`
	IsTerm  bool      `json:"is_term"`
	Matched bool      `json:"matched"`
}

// PickResult describes the effect of selecting a card.
type PickResult struct {
	// Ignored picks happened while the board was locked or targeted an
	// already-matched or already-selected card; they have no effect.
	Ignored bool `json:"ignored"`

	// Selected means this was the first card of a pair.
	Selected bool `json:"selected"`

	// Matched/Mismatch report the outcome of a second pick.
	Matched  bool `json:"matched"`
	Mismatch bool `json:"mismatch"`

	// LockFor is how long the board stays locked after a mismatch; the
	// caller must call Unlock after its animation delay.
	LockFor time.Duration `json:"lock_for,omitempty"`

	// Won is set on the pick that matched the final pair.
	Won bool `json:"won"`

	RemainingPairs int `json:"remaining_pairs"`
}

// ConnectEngine drives the timed pair-matching game: up to eight words
// contribute a term card and a definition card each, and the player
// clears the board by selecting matching pairs before the countdown
// runs out. A mismatch costs a counted mistake and a short board
// lockout, nothing more; there is no review sub-phase.
type ConnectEngine struct {
	s *Session

	cards     []ConnectCard
	firstPick uuid.UUID // card ID of the pending first selection

	locked    bool
	remaining int // seconds on the countdown
	matched   int // matched pairs
	mistakes  int

	outcome   Outcome
	completed bool
}

// NewConnect starts a matching game over the selected words. Selections
// larger than eight words play with the first eight after the shuffle.
func NewConnect(listID uuid.UUID, words []Word, settings Settings, deps Deps) (*ConnectEngine, error) {
	s, err := newSession(listID, ModeConnect, words, settings, deps)
	if err != nil {
		return nil, err
	}

	if len(s.Words) > connectMaxWords {
		s.Words = s.Words[:connectMaxWords]
	}

	e := &ConnectEngine{
		s:         s,
		remaining: connectDuration(len(s.Words)),
	}

	e.cards = make([]ConnectCard, 0, 2*len(s.Words))
	for _, w := range s.Words {
		e.cards = append(e.cards,
			ConnectCard{ID: uuid.New(), WordID: w.ID, Text: w.Term, IsTerm: true},
			ConnectCard{ID: uuid.New(), WordID: w.ID, Text: w.Definition},
		)
	}
	s.rng.Shuffle(len(e.cards), func(i, j int) {
		e.cards[i], e.cards[j] = e.cards[j], e.cards[i]
	})

	return e, nil
}

// connectDuration is the countdown in seconds for a board of n words.
func connectDuration(n int) int {
	d := connectSecondsPerWord * n
	if d < connectMinSeconds {
		return connectMinSeconds
	}
	return d
}

// Completed reports whether the game ended, by win or by timeout.
func (e *ConnectEngine) Completed() bool { return e.completed }

// Summary returns the completion summary; Outcome distinguishes a
// cleared board from a timeout.
func (e *ConnectEngine) Summary() *Summary { return e.s.summary(e.outcome) }

// Session exposes the shared session state, read-only by convention.
func (e *ConnectEngine) Session() *Session { return e.s }

// Board returns the current card layout.
func (e *ConnectEngine) Board() []ConnectCard {
	return append([]ConnectCard(nil), e.cards...)
}

// Remaining returns the seconds left on the countdown.
func (e *ConnectEngine) Remaining() int { return e.remaining }

// Mistakes returns the mismatch tally.
func (e *ConnectEngine) Mistakes() int { return e.mistakes }

// Locked reports whether the board is in its post-mismatch lockout.
func (e *ConnectEngine) Locked() bool { return e.locked }

// Tick advances the countdown by one second. Reaching zero before the
// board is cleared ends the game in a timeout, regardless of progress.
func (e *ConnectEngine) Tick(ctx context.Context) {
	if e.completed {
		return
	}

	e.remaining--
	if e.remaining <= 0 {
		e.remaining = 0
		e.outcome = OutcomeTimeout
		e.completed = true
		e.s.clearSnapshot(ctx)
	}
}

// Unlock clears the post-mismatch lockout. Called by the driver after
// the mismatch animation delay.
func (e *ConnectEngine) Unlock() { e.locked = false }

// Pick selects a card. The first pick of a pair marks the selection;
// the second either locks both cards as matched or flags a mismatch and
// locks the board for the configured delay. Picks during the lockout,
// or on matched or already-selected cards, are ignored rather than
// treated as errors; rapid double clicks are expected input.
func (e *ConnectEngine) Pick(ctx context.Context, cardID uuid.UUID) (*PickResult, error) {
	if e.completed {
		return nil, ErrSessionComplete
	}
	if e.locked {
		return &PickResult{Ignored: true, RemainingPairs: e.remainingPairs()}, nil
	}

	card := e.cardByID(cardID)
	if card == nil {
		return nil, ErrUnknownWord
	}
	if card.Matched || card.ID == e.firstPick {
		return &PickResult{Ignored: true, RemainingPairs: e.remainingPairs()}, nil
	}

	if e.firstPick == uuid.Nil {
		e.firstPick = card.ID
		return &PickResult{Selected: true, RemainingPairs: e.remainingPairs()}, nil
	}

	first := e.cardByID(e.firstPick)
	e.firstPick = uuid.Nil

	if first != nil && first.WordID == card.WordID {
		first.Matched = true
		card.Matched = true
		e.matched++
		e.s.recordAnswer(ctx, card.WordID, true)

		res := &PickResult{Matched: true, RemainingPairs: e.remainingPairs()}
		if e.matched >= len(e.s.Words) {
			e.outcome = OutcomeFinished
			e.completed = true
			e.s.clearSnapshot(ctx)
			res.Won = true
		} else {
			e.s.saveSnapshot(ctx, e.buildSnapshot())
		}
		return res, nil
	}

	e.mistakes++
	e.locked = true
	if first != nil {
		e.s.recordAnswer(ctx, first.WordID, false)
	}
	e.s.saveSnapshot(ctx, e.buildSnapshot())

	return &PickResult{
		Mismatch:       true,
		LockFor:        e.s.Settings.ConnectLockout,
		RemainingPairs: e.remainingPairs(),
	}, nil
}

func (e *ConnectEngine) remainingPairs() int {
	return len(e.s.Words) - e.matched
}

func (e *ConnectEngine) cardByID(id uuid.UUID) *ConnectCard {
	for i := range e.cards {
		if e.cards[i].ID == id {
			return &e.cards[i]
		}
	}
	return nil
}
