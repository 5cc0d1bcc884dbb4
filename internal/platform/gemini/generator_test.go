package gemini

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Loekiboy/loek-it-up/internal/config"
	"github.com/Loekiboy/loek-it-up/internal/generation"
)

func TestNewGeneratorValidation(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewGenerator(context.Background(), nil, config.LLMConfig{GeminiAPIKey: "key"})
	require.Error(t, err)

	_, err = NewGenerator(context.Background(), logger, config.LLMConfig{})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("Dutch", []string{"huis", "fiets"})

	assert.Contains(t, prompt, "Dutch")
	assert.Contains(t, prompt, "- huis")
	assert.Contains(t, prompt, "- fiets")
	assert.Contains(t, prompt, "JSON object")
}

func TestParseSentences(t *testing.T) {
	terms := []string{"huis", "fiets"}

	sentences, err := parseSentences(
		`{"huis": "Ik woon in een huis.", "fiets": "De fiets is rood."}`, terms)
	require.NoError(t, err)
	assert.Equal(t, "Ik woon in een huis.", sentences["huis"])
	assert.Equal(t, "De fiets is rood.", sentences["fiets"])
}

func TestParseSentencesStripsCodeFences(t *testing.T) {
	sentences, err := parseSentences(
		"```json\n{\"huis\": \"Ik woon in een huis.\"}\n```", []string{"huis"})
	require.NoError(t, err)
	assert.Equal(t, "Ik woon in een huis.", sentences["huis"])
}

func TestParseSentencesIgnoresExtraKeys(t *testing.T) {
	sentences, err := parseSentences(
		`{"huis": "Ik woon in een huis.", "note": "here you go!"}`, []string{"huis"})
	require.NoError(t, err)
	assert.Len(t, sentences, 1)
}

func TestParseSentencesErrors(t *testing.T) {
	_, err := parseSentences("not json at all", []string{"huis"})
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)

	// Valid JSON but none of the requested terms present.
	_, err = parseSentences(`{"kat": "De kat slaapt."}`, []string{"huis"})
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)

	// Empty sentence for the only term.
	_, err = parseSentences(`{"huis": "   "}`, []string{"huis"})
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)
}
