package study

import (
	"math"

	"github.com/google/uuid"
)

// Outcome is the terminal state of a session.
type Outcome string

const (
	// OutcomeFinished is the ordinary completion of a drill.
	OutcomeFinished Outcome = "finished"

	// OutcomeTimeout is a matching game that ran out of time.
	OutcomeTimeout Outcome = "timeout"
)

// ExamItem is one deferred-feedback exam answer, revealed only in the
// completion summary.
type ExamItem struct {
	WordID        uuid.UUID `json:"word_id"`
	Prompt        string    `json:"prompt"`
	Given         string    `json:"given"`
	CorrectAnswer string    `json:"correct_answer"`
	Correct       bool      `json:"correct"`
}

// Summary is emitted to the completion consumer at session end.
type Summary struct {
	Mode         Mode                      `json:"mode"`
	Outcome      Outcome                   `json:"outcome"`
	CorrectCount int                       `json:"correct_count"`
	WrongCount   int                       `json:"wrong_count"`
	PerWord      map[uuid.UUID]*WordResult `json:"per_word"`
	Accuracy     float64                   `json:"accuracy_percent"`
	Grade        float64                   `json:"grade"`

	// ExamItems carries the deferred right/wrong breakdown (exam mode).
	ExamItems []ExamItem `json:"exam_items,omitempty"`
}

// accuracyPercent is correct/(correct+wrong) as a percentage. A session
// with no graded answers counts as fully accurate, matching the
// original trainer's completion screen.
func accuracyPercent(correct, wrong int) float64 {
	total := correct + wrong
	if total == 0 {
		return 100
	}
	return float64(correct) / float64(total) * 100
}

// gradeFromAccuracy maps an accuracy fraction onto the 10-point school
// scale: 1 at 0%, 10 at 100%, rounded to one decimal.
func gradeFromAccuracy(accuracyPct float64) float64 {
	grade := 1 + accuracyPct/100*9
	if grade < 1 {
		grade = 1
	}
	if grade > 10 {
		grade = 10
	}
	return math.Round(grade*10) / 10
}

// summary builds the completion summary from the session counters.
func (s *Session) summary(outcome Outcome) *Summary {
	acc := accuracyPercent(s.CorrectCount, s.WrongCount)
	return &Summary{
		Mode:         s.Mode,
		Outcome:      outcome,
		CorrectCount: s.CorrectCount,
		WrongCount:   s.WrongCount,
		PerWord:      s.Results,
		Accuracy:     acc,
		Grade:        gradeFromAccuracy(acc),
	}
}
