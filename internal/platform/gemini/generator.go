package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/Loekiboy/loek-it-up/internal/config"
	"github.com/Loekiboy/loek-it-up/internal/generation"
)

// defaultModel is used when the configuration does not name one.
const defaultModel = "gemini-2.0-flash"

// retry tuning for transient API failures
const (
	maxRetries       = 3
	baseDelaySeconds = 2
)

// Generator implements the generation.Generator interface using the
// Gemini API.
type Generator struct {
	logger *slog.Logger
	client *genai.Client
	model  string
}

var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a new Gemini-backed sentence generator.
//
// Parameters:
//   - ctx: Context for the operation, which can be used for cancellation
//   - logger: A structured logger for operation logging
//   - cfg: LLM configuration containing the API key and model name
//
// Returns:
//   - A properly initialized Generator or an error if initialization fails
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	model := cfg.ModelName
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &Generator{
		logger: logger.With(slog.String("component", "gemini_generator")),
		client: client,
		model:  model,
	}, nil
}

// ExampleSentences returns one example sentence per term, keyed by term,
// written in the given language.
func (g *Generator) ExampleSentences(
	ctx context.Context,
	language string,
	terms []string,
) (map[string]string, error) {
	if len(terms) == 0 {
		return nil, generation.ErrNoTerms
	}

	prompt := buildPrompt(language, terms)
	text, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	sentences, err := parseSentences(text, terms)
	if err != nil {
		g.logger.ErrorContext(ctx, "failed to parse Gemini response",
			"error", err,
			"response_length", len(text))
		return nil, err
	}

	g.logger.InfoContext(ctx, "example sentences generated",
		"term_count", len(terms),
		"sentence_count", len(sentences))
	return sentences, nil
}

// buildPrompt renders the instruction for the model: a strict JSON
// object mapping each term to one sentence.
func buildPrompt(language string, terms []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write one short example sentence in %s for each of the following vocabulary terms.\n", language)
	b.WriteString("Respond with only a JSON object mapping each term exactly as given to its sentence.\n")
	b.WriteString("Do not add commentary, markdown, or any keys beyond the terms.\n\nTerms:\n")
	for _, term := range terms {
		fmt.Fprintf(&b, "- %s\n", term)
	}
	return b.String()
}

// parseSentences decodes the model output into a term-to-sentence map.
// Markdown code fences are tolerated; terms the model skipped are simply
// absent from the result, but a response with no usable term at all is
// an error.
func parseSentences(text string, terms []string) (map[string]string, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var raw map[string]string
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v",
			generation.ErrInvalidResponse, err)
	}

	sentences := make(map[string]string, len(terms))
	for _, term := range terms {
		if sentence, ok := raw[term]; ok && strings.TrimSpace(sentence) != "" {
			sentences[term] = strings.TrimSpace(sentence)
		}
	}

	if len(sentences) == 0 {
		return nil, fmt.Errorf("%w: no sentences for the requested terms",
			generation.ErrInvalidResponse)
	}
	return sentences, nil
}

// callWithRetry makes a Gemini API call with exponential backoff and
// jitter. Permanent errors (blocked content, malformed responses) are
// returned immediately; transient API errors retry up to maxRetries
// times.
func (g *Generator) callWithRetry(ctx context.Context, prompt string) (string, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		g.logger.DebugContext(ctx, "making Gemini API call",
			"attempt", attemptNum,
			"max_attempts", maxRetries+1)

		text, transient, err := g.generate(ctx, prompt)
		if err == nil {
			return text, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", err)

		if !transient {
			return "", err
		}
		if attempt >= maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				generation.ErrTransientFailure, maxRetries)
		}

		// delay = baseDelay * 2^attempt * (0.5 + rand(0, 0.5))
		backoff := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rng.Float64()*0.5) * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// generate performs a single API call and classifies any failure as
// transient or permanent.
func (g *Generator) generate(ctx context.Context, prompt string) (string, bool, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", true, fmt.Errorf("gemini API call: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", false, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", false, fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}

	text := resp.Text()
	if text == "" {
		return "", false, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}
	return text, false, nil
}
