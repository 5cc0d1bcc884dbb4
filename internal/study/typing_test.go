package study

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTypingValidation(t *testing.T) {
	t.Parallel()

	_, err := NewTyping(uuid.New(), nil, Settings{}, testDeps(1))
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestTypingHappyPath(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	words := testWords(4)
	sink := &recordingSink{}
	deps := testDeps(13)
	deps.Sink = sink

	e, err := NewTyping(uuid.New(), words, Settings{}, deps)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		view, err := e.CurrentQuestion(ctx)
		require.NoError(t, err)
		assert.Equal(t, StageTyping, view.Stage)
		assert.Equal(t, i, view.Learned)
		assert.Zero(t, view.RemainingCorrect)

		res, err := e.SubmitAnswer(ctx, answerFor(t, words, view))
		require.NoError(t, err)
		assert.True(t, res.Correct)
	}

	require.True(t, e.Completed())
	assert.Equal(t, []bool{true, true, true, true}, sink.answers)

	sum := e.Summary()
	assert.Equal(t, ModeTyping, sum.Mode)
	assert.Equal(t, 100.0, sum.Accuracy)
	assert.Equal(t, 10.0, sum.Grade)
}

func TestTypingMissRequiresTwoCorrect(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	words := testWords(1)
	e, err := NewTyping(uuid.New(), words, Settings{}, testDeps(17))
	require.NoError(t, err)

	view, err := e.CurrentQuestion(ctx)
	require.NoError(t, err)
	answer := answerFor(t, words, view)

	res, err := e.SubmitAnswer(ctx, "entirely wrong")
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Equal(t, answer, res.CorrectAnswer)

	// The miss raises the requirement to two correct answers across
	// rounds.
	view, err = e.CurrentQuestion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, view.RemainingCorrect)

	_, err = e.SubmitAnswer(ctx, answer)
	require.NoError(t, err)
	view, err = e.CurrentQuestion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, view.RemainingCorrect)

	_, err = e.SubmitAnswer(ctx, answer)
	require.NoError(t, err)

	// The missed word gets one more drill in the review pass.
	view, err = e.CurrentQuestion(ctx)
	require.NoError(t, err)
	assert.True(t, view.Review)

	_, err = e.SubmitAnswer(ctx, answer)
	require.NoError(t, err)
	require.True(t, e.Completed())

	sum := e.Summary()
	assert.Equal(t, 3, sum.CorrectCount)
	assert.Equal(t, 1, sum.WrongCount)
	assert.Equal(t, 75.0, sum.Accuracy)
}

func TestTypingWrongReviewAnswerRequeues(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	words := testWords(1)
	e, err := NewTyping(uuid.New(), words, Settings{}, testDeps(19))
	require.NoError(t, err)

	view, err := e.CurrentQuestion(ctx)
	require.NoError(t, err)
	answer := answerFor(t, words, view)

	_, err = e.SubmitAnswer(ctx, "entirely wrong")
	require.NoError(t, err)
	_, err = e.SubmitAnswer(ctx, answer)
	require.NoError(t, err)
	_, err = e.SubmitAnswer(ctx, answer)
	require.NoError(t, err)

	view, err = e.CurrentQuestion(ctx)
	require.NoError(t, err)
	require.True(t, view.Review)

	// A wrong review answer puts the word back at the end of the queue.
	res, err := e.SubmitAnswer(ctx, "still wrong")
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.False(t, e.Completed())

	view, err = e.CurrentQuestion(ctx)
	require.NoError(t, err)
	assert.True(t, view.Review)

	_, err = e.SubmitAnswer(ctx, answer)
	require.NoError(t, err)
	assert.True(t, e.Completed())
}

func TestTypingOverride(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	words := testWords(1)
	e, err := NewTyping(uuid.New(), words, Settings{}, testDeps(23))
	require.NoError(t, err)

	assert.ErrorIs(t, e.Override(ctx, uuid.New()), ErrUnknownWord)

	view, err := e.CurrentQuestion(ctx)
	require.NoError(t, err)
	_, err = e.SubmitAnswer(ctx, "entirely wrong")
	require.NoError(t, err)

	require.NoError(t, e.Override(ctx, view.WordID))
	require.NoError(t, e.Override(ctx, view.WordID))

	reviewView, err := e.CurrentQuestion(ctx)
	require.NoError(t, err)
	require.True(t, reviewView.Review)

	require.NoError(t, e.Override(ctx, view.WordID))
	assert.True(t, e.Completed())

	_, err = e.SubmitAnswer(ctx, "late")
	assert.ErrorIs(t, err, ErrSessionComplete)
}

func TestTypingInterleavesAfterMiss(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	words := testWords(5)
	e, err := NewTyping(uuid.New(), words, Settings{}, testDeps(29))
	require.NoError(t, err)

	view, err := e.CurrentQuestion(ctx)
	require.NoError(t, err)
	missedID := view.WordID

	_, err = e.SubmitAnswer(ctx, "entirely wrong")
	require.NoError(t, err)

	// The missed word sits out its cooldown; the next question must be a
	// different word.
	view, err = e.CurrentQuestion(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, missedID, view.WordID)

	driveToCompletion(t, e, words, 40)
	assert.True(t, e.Completed())
	assert.Equal(t, 1, e.Summary().WrongCount)
}
