package quiz

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// Question is a single multiple-choice question as served by a question source.
type Question struct {
	ID          int      `json:"id"`
	Prompt      string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answerIndex"`
}

// ErrInvalidQuestion is returned by Validate for questions the engine cannot present.
var ErrInvalidQuestion = errors.New("invalid question")

// Validate checks that the question has a prompt, at least two options,
// and an answer index that points into Options.
func (q Question) Validate() error {
	if q.Prompt == "" {
		return fmt.Errorf("%w %d: empty prompt", ErrInvalidQuestion, q.ID)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w %d: need at least 2 options, got %d", ErrInvalidQuestion, q.ID, len(q.Options))
	}
	if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Options) {
		return fmt.Errorf("%w %d: answer index %d out of range", ErrInvalidQuestion, q.ID, q.AnswerIndex)
	}
	return nil
}

// AssignIDs gives questions stable identities for saved answers. When every
// ID is positive and unique the slice is returned unchanged; otherwise all
// questions are renumbered 1..n by position.
func AssignIDs(qs []Question) []Question {
	seen := make(map[int]struct{}, len(qs))
	unique := true
	for _, q := range qs {
		if _, dup := seen[q.ID]; dup || q.ID <= 0 {
			unique = false
			break
		}
		seen[q.ID] = struct{}{}
	}
	if unique {
		return qs
	}
	out := make([]Question, len(qs))
	for i, q := range qs {
		q.ID = i + 1
		out[i] = q
	}
	return out
}

// SessionQuestion is a Question prepared for one session: its options are
// shuffled once and the answer index is remapped into the shuffled order.
type SessionQuestion struct {
	Question            Question
	ShuffledOptions     []string
	ShuffledAnswerIndex int

	// perm[i] is the original index of ShuffledOptions[i].
	perm []int

	// SelectedIndex is the chosen shuffled option, or -1 until answered.
	SelectedIndex int
	Revealed      bool
}

// NewSessionQuestion shuffles q's options with rng. A nil rng uses the
// package-level source.
func NewSessionQuestion(q Question, rng *rand.Rand) SessionQuestion {
	n := len(q.Options)
	var perm []int
	if rng != nil {
		perm = rng.Perm(n)
	} else {
		perm = rand.Perm(n)
	}

	shuffled := make([]string, n)
	answer := -1
	for i, orig := range perm {
		shuffled[i] = q.Options[orig]
		if orig == q.AnswerIndex {
			answer = i
		}
	}

	return SessionQuestion{
		Question:            q,
		ShuffledOptions:     shuffled,
		ShuffledAnswerIndex: answer,
		perm:                perm,
		SelectedIndex:       -1,
	}
}

// IsCorrect reports whether the question was revealed with the right option.
func (sq SessionQuestion) IsCorrect() bool {
	return sq.Revealed && sq.SelectedIndex >= 0 && sq.SelectedIndex == sq.ShuffledAnswerIndex
}

// OriginalIndex maps a shuffled option index back to the original order.
// Returns -1 when shuffled is out of range.
func (sq SessionQuestion) OriginalIndex(shuffled int) int {
	if shuffled < 0 || shuffled >= len(sq.perm) {
		return -1
	}
	return sq.perm[shuffled]
}

// ShuffledIndex maps an original option index into the shuffled order.
// Returns -1 when original is out of range.
func (sq SessionQuestion) ShuffledIndex(original int) int {
	for i, orig := range sq.perm {
		if orig == original {
			return i
		}
	}
	return -1
}

// Clone returns a copy that shares no slices with sq.
func (sq SessionQuestion) Clone() SessionQuestion {
	out := sq
	out.Question.Options = append([]string(nil), sq.Question.Options...)
	out.ShuffledOptions = append([]string(nil), sq.ShuffledOptions...)
	out.perm = append([]int(nil), sq.perm...)
	return out
}
