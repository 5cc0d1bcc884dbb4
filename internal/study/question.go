package study

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Loekiboy/loek-it-up/internal/study/textdiff"
)

// QuestionView is the descriptor emitted at every "show next question"
// step. The engine is agnostic to how it is rendered.
type QuestionView struct {
	WordID uuid.UUID `json:"word_id"`
	Stage  Stage     `json:"stage"`
	Prompt string    `json:"prompt"`

	// Answer is populated only for stages that show it up front:
	// flash (card back) and copy (the text to copy).
	Answer string `json:"answer,omitempty"`

	// Options are the shuffled multiple-choice options (choice stage).
	Options []string `json:"options,omitempty"`

	// Hint is the masked-pattern hint (hint stage).
	Hint string `json:"hint,omitempty"`

	// RemainingCorrect is how many further correct typed answers the
	// word still needs (typing stages), when more than one.
	RemainingCorrect int `json:"remaining_correct,omitempty"`

	// Review marks questions asked during the wrong-word review
	// sub-phase.
	Review bool `json:"review,omitempty"`

	// Learned/Total report session progress for a progress bar.
	Learned int `json:"learned"`
	Total   int `json:"total"`
}

// GradeResult is the descriptor emitted at every grading step.
type GradeResult struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer,omitempty"`

	// Diff is the word/char alignment between the given and correct
	// answers, populated for wrong typed answers.
	Diff []textdiff.WordOp `json:"diff,omitempty"`

	// AdvanceDelay is the suggested pause before auto-advancing.
	AdvanceDelay time.Duration `json:"advance_delay"`

	// Deferred marks grades whose outcome is withheld until the
	// completion summary (exam mode): Correct and CorrectAnswer are
	// zeroed in the emitted result.
	Deferred bool `json:"deferred,omitempty"`
}

// HintPattern renders the masked hint for an answer: each
// whitespace-delimited token keeps its first character, with one filler
// dot per remaining character ("apple pie" → "a.... p..").
func HintPattern(answer string) string {
	tokens := strings.Fields(answer)
	masked := make([]string, len(tokens))
	for i, tok := range tokens {
		runes := []rune(tok)
		masked[i] = string(runes[0]) + strings.Repeat(".", len(runes)-1)
	}
	return strings.Join(masked, " ")
}

// gradeFor builds the standard grade result for a typed answer,
// attaching the diff alignment when wrong.
func (s *Session) gradeFor(correct bool, given, answer string) *GradeResult {
	res := &GradeResult{
		Correct:       correct,
		CorrectAnswer: answer,
		AdvanceDelay:  s.Settings.AdvanceDelayCorrect,
	}
	if !correct {
		res.AdvanceDelay = s.Settings.AdvanceDelayWrong
		res.Diff = textdiff.AlignWords(given, answer)
	}
	return res
}
