// Package gemini implements the generation.Generator interface using
// Google's Gemini API to produce example sentences for vocabulary terms.
package gemini
