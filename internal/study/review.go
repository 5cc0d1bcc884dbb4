package study

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// reviewPhase is the terminal cleanup pass shared by the steps and
// typing engines: a typing-only drill over the unique wrongly-answered
// words. A wrong answer re-appends the word to the end of the queue, so
// it is retried later in the same pass; a word is review-complete the
// first time it is answered correctly. The phase ends once every
// distinct originally-wrong word has been answered correctly once.
type reviewPhase struct {
	Queue     []uuid.UUID        `json:"queue"`
	Need      int                `json:"need"`
	Reviewed  map[uuid.UUID]bool `json:"reviewed"`
	CurrentQA *qa                `json:"current_qa,omitempty"`
}

// newReviewPhase shuffles the unique wrong word IDs into a review queue.
func newReviewPhase(s *Session, wrongIDs []uuid.UUID) *reviewPhase {
	queue := append([]uuid.UUID(nil), wrongIDs...)
	s.rng.Shuffle(len(queue), func(i, j int) {
		queue[i], queue[j] = queue[j], queue[i]
	})

	return &reviewPhase{
		Queue:    queue,
		Need:     len(wrongIDs),
		Reviewed: make(map[uuid.UUID]bool, len(wrongIDs)),
	}
}

// done reports whether every originally-wrong word has been reviewed.
func (r *reviewPhase) done() bool {
	return len(r.Reviewed) >= r.Need
}

// question returns the view for the head of the review queue, skipping
// and dropping entries that no longer resolve in the session.
func (r *reviewPhase) question(s *Session, learned, total int) (*QuestionView, error) {
	for len(r.Queue) > 0 {
		w := s.wordByID(r.Queue[0])
		if w != nil {
			if r.CurrentQA == nil {
				q := s.questionFor(w)
				r.CurrentQA = &q
			}
			return &QuestionView{
				WordID:  w.ID,
				Stage:   StageTyping,
				Prompt:  r.CurrentQA.Prompt,
				Review:  true,
				Learned: learned,
				Total:   total,
			}, nil
		}

		// Stale queue entry after data mutation: drop and continue.
		s.log.Warn("dropping unresolvable word from review queue",
			slog.String("word_id", r.Queue[0].String()))
		if !r.Reviewed[r.Queue[0]] {
			r.Need--
		}
		r.Queue = r.Queue[1:]
		r.CurrentQA = nil
	}

	return nil, ErrSessionComplete
}

// submit grades a typed review answer for the queue head. Correct
// answers retire the word; wrong ones requeue it at the back.
func (r *reviewPhase) submit(ctx context.Context, s *Session, input string) (*GradeResult, error) {
	if len(r.Queue) == 0 {
		return nil, ErrSessionComplete
	}

	id := r.Queue[0]
	if r.CurrentQA == nil {
		w := s.wordByID(id)
		if w == nil {
			return nil, ErrUnknownWord
		}
		q := s.questionFor(w)
		r.CurrentQA = &q
	}

	correct := s.checkAnswer(input, r.CurrentQA.Answer)
	s.recordAnswer(ctx, id, correct)

	res := s.gradeFor(correct, input, r.CurrentQA.Answer)

	r.Queue = r.Queue[1:]
	if correct {
		r.Reviewed[id] = true
	} else {
		r.Queue = append(r.Queue, id)
	}
	r.CurrentQA = nil

	return res, nil
}

// forceCorrect retires a word as if it had just been answered
// correctly, for the answer-override flow.
func (r *reviewPhase) forceCorrect(id uuid.UUID) {
	if r.Reviewed[id] {
		return
	}
	r.Reviewed[id] = true

	// Remove the pending occurrence, wherever the requeuing left it.
	for i, queued := range r.Queue {
		if queued == id {
			r.Queue = append(r.Queue[:i], r.Queue[i+1:]...)
			if i == 0 {
				r.CurrentQA = nil
			}
			break
		}
	}
}
