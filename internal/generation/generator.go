package generation

import (
	"context"
)

// Generator defines the interface for generating example sentences for
// vocabulary terms. This interface serves as a boundary between the
// application core and external AI/LLM services.
type Generator interface {
	// ExampleSentences returns one example sentence per term, keyed by
	// term, written in the given language.
	//
	// Parameters:
	//   - ctx: Context for the operation, which can be used for cancellation
	//   - language: The language the sentences should be written in
	//   - terms: The vocabulary terms to generate sentences for
	//
	// Returns:
	//   - A map from term to example sentence
	//   - An error if the generation fails for any reason (see errors.go for specific types)
	ExampleSentences(ctx context.Context, language string, terms []string) (map[string]string, error)
}
