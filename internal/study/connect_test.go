package study

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pairByWord groups the board cards per word ID.
func pairByWord(t *testing.T, e *ConnectEngine) map[uuid.UUID][]uuid.UUID {
	t.Helper()
	pairs := make(map[uuid.UUID][]uuid.UUID)
	for _, c := range e.Board() {
		pairs[c.WordID] = append(pairs[c.WordID], c.ID)
	}
	for wordID, cards := range pairs {
		require.Len(t, cards, 2, "word %s should have a term and a definition card", wordID)
	}
	return pairs
}

func TestNewConnectBoard(t *testing.T) {
	t.Parallel()

	words := testWords(3)
	e, err := NewConnect(uuid.New(), words, Settings{}, testDeps(53))
	require.NoError(t, err)

	board := e.Board()
	assert.Len(t, board, 6)
	pairByWord(t, e)
	assert.Equal(t, 45, e.Remaining(), "small boards get the minimum countdown")
	assert.Zero(t, e.Mistakes())
	assert.False(t, e.Locked())
}

func TestNewConnectTruncatesLargeSelections(t *testing.T) {
	t.Parallel()

	e, err := NewConnect(uuid.New(), testWords(12), Settings{}, testDeps(59))
	require.NoError(t, err)

	assert.Len(t, e.Board(), 16, "the board caps at eight words")
	assert.Equal(t, 8*12, e.Remaining())
}

func TestConnectDuration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 45, connectDuration(1))
	assert.Equal(t, 45, connectDuration(3))
	assert.Equal(t, 48, connectDuration(4))
	assert.Equal(t, 96, connectDuration(8))
}

func TestConnectPlay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	words := testWords(2)
	e, err := NewConnect(uuid.New(), words, Settings{}, testDeps(61))
	require.NoError(t, err)

	pairs := pairByWord(t, e)
	var a, b []uuid.UUID
	for _, cards := range pairs {
		if a == nil {
			a = cards
		} else {
			b = cards
		}
	}

	_, err = e.Pick(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUnknownWord)

	res, err := e.Pick(ctx, a[0])
	require.NoError(t, err)
	assert.True(t, res.Selected)
	assert.Equal(t, 2, res.RemainingPairs)

	// Re-picking the pending selection is a no-op, not a mismatch.
	res, err = e.Pick(ctx, a[0])
	require.NoError(t, err)
	assert.True(t, res.Ignored)

	// Pairing it with the other word's card is a mismatch: the board
	// locks and the mistake is tallied.
	res, err = e.Pick(ctx, b[0])
	require.NoError(t, err)
	assert.True(t, res.Mismatch)
	assert.Equal(t, e.Session().Settings.ConnectLockout, res.LockFor)
	assert.True(t, e.Locked())
	assert.Equal(t, 1, e.Mistakes())

	res, err = e.Pick(ctx, a[0])
	require.NoError(t, err)
	assert.True(t, res.Ignored, "picks during the lockout are dropped")

	e.Unlock()
	require.False(t, e.Locked())

	res, err = e.Pick(ctx, a[0])
	require.NoError(t, err)
	require.True(t, res.Selected)
	res, err = e.Pick(ctx, a[1])
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.False(t, res.Won)
	assert.Equal(t, 1, res.RemainingPairs)

	res, err = e.Pick(ctx, a[0])
	require.NoError(t, err)
	assert.True(t, res.Ignored, "matched cards are out of play")

	res, err = e.Pick(ctx, b[0])
	require.NoError(t, err)
	require.True(t, res.Selected)
	res, err = e.Pick(ctx, b[1])
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.True(t, res.Won)
	assert.Zero(t, res.RemainingPairs)

	require.True(t, e.Completed())
	_, err = e.Pick(ctx, b[0])
	assert.ErrorIs(t, err, ErrSessionComplete)

	sum := e.Summary()
	assert.Equal(t, ModeConnect, sum.Mode)
	assert.Equal(t, OutcomeFinished, sum.Outcome)
	assert.Equal(t, 2, sum.CorrectCount)
	assert.Equal(t, 1, sum.WrongCount)
}

func TestConnectTimeout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	words := testWords(1)
	e, err := NewConnect(uuid.New(), words, Settings{}, testDeps(67))
	require.NoError(t, err)

	for i := 0; i < 45; i++ {
		assert.False(t, e.Completed())
		e.Tick(ctx)
	}

	require.True(t, e.Completed())
	assert.Zero(t, e.Remaining())
	assert.Equal(t, OutcomeTimeout, e.Summary().Outcome)

	// Further ticks are no-ops.
	e.Tick(ctx)
	assert.Zero(t, e.Remaining())
}
