package study

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFlashcardsValidation(t *testing.T) {
	t.Parallel()

	_, err := NewFlashcards(uuid.New(), nil, Settings{}, testDeps(1))
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestFlashcardsAllKnown(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	words := testWords(3)
	e, err := NewFlashcards(uuid.New(), words, Settings{}, testDeps(31))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		card, err := e.CurrentCard(ctx)
		require.NoError(t, err)
		assert.Equal(t, StageFlash, card.Stage)
		assert.NotEmpty(t, card.Answer, "both card sides are emitted; flipping is presentation")
		assert.Equal(t, i, card.Learned)

		res, err := e.Mark(ctx, true)
		require.NoError(t, err)
		assert.True(t, res.Correct)
	}

	require.True(t, e.Completed())
	_, err = e.CurrentCard(ctx)
	assert.ErrorIs(t, err, ErrSessionComplete)

	sum := e.Summary()
	assert.Equal(t, ModeFlashcards, sum.Mode)
	assert.Equal(t, 3, sum.CorrectCount)
	assert.Equal(t, 10.0, sum.Grade)
}

func TestFlashcardsUnknownPileReplays(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	words := testWords(3)
	e, err := NewFlashcards(uuid.New(), words, Settings{}, testDeps(37))
	require.NoError(t, err)

	card, err := e.CurrentCard(ctx)
	require.NoError(t, err)
	unknownID := card.WordID

	_, err = e.Mark(ctx, false)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = e.Mark(ctx, true)
		require.NoError(t, err)
	}

	// The pass ended with one unknown card, so a fresh pass starts over
	// just that card.
	require.False(t, e.Completed())
	card, err = e.CurrentCard(ctx)
	require.NoError(t, err)
	assert.Equal(t, unknownID, card.WordID)

	_, err = e.Mark(ctx, true)
	require.NoError(t, err)
	require.True(t, e.Completed())

	sum := e.Summary()
	assert.Equal(t, 3, sum.CorrectCount)
	assert.Equal(t, 1, sum.WrongCount)
	assert.Equal(t, 75.0, sum.Accuracy)
	assert.Equal(t, 7.8, sum.Grade)
}

func TestFlashcardsOverride(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	words := testWords(2)
	sink := &recordingSink{}
	deps := testDeps(41)
	deps.Sink = sink

	e, err := NewFlashcards(uuid.New(), words, Settings{}, deps)
	require.NoError(t, err)

	assert.ErrorIs(t, e.Override(ctx, uuid.New()), ErrUnknownWord)

	card, err := e.CurrentCard(ctx)
	require.NoError(t, err)
	unknownID := card.WordID
	_, err = e.Mark(ctx, false)
	require.NoError(t, err)

	// Reclassifying the swipe moves the card off the unknown pile.
	require.NoError(t, e.Override(ctx, unknownID))
	assert.Equal(t, 1, sink.overrides)

	_, err = e.Mark(ctx, true)
	require.NoError(t, err)
	assert.True(t, e.Completed(), "no unknown cards left, so no second pass")

	sum := e.Summary()
	assert.Equal(t, 2, sum.CorrectCount)
	assert.Equal(t, 0, sum.WrongCount)
}
