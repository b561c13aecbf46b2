package app

import (
	"strings"
	"time"

	"quizpad-service/internal/domain"
)

// DefaultParticipant is recorded when the taker leaves their name blank.
const DefaultParticipant = "Anonymous"

// Direction moves an attempt to the next or previous question.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// Attempt walks a taker through a quiz one question at a time.
// It is not safe for concurrent use; a single connection or request owns it.
type Attempt struct {
	quiz      domain.Quiz
	index     int
	answers   []*int
	submitted bool
	result    domain.Result
}

// NewAttempt starts at the first question with every answer unset.
func NewAttempt(quiz domain.Quiz) *Attempt {
	return &Attempt{
		quiz:    quiz,
		answers: make([]*int, len(quiz.Questions)),
	}
}

func (a *Attempt) Quiz() domain.Quiz { return a.quiz }

func (a *Attempt) Index() int { return a.index }

// Submitted reports whether the attempt reached its terminal state.
func (a *Attempt) Submitted() bool { return a.submitted }

// Result returns the recorded result once the attempt is submitted.
func (a *Attempt) Result() (domain.Result, bool) {
	return a.result, a.submitted
}

// Advance moves one question forward or backward.
func (a *Attempt) Advance(direction Direction) error {
	if a.submitted {
		return domain.ErrAlreadySubmitted
	}
	if direction != Forward && direction != Backward {
		return domain.ErrOutOfRange
	}
	next := a.index + int(direction)
	if next < 0 || next >= len(a.quiz.Questions) {
		return domain.ErrOutOfRange
	}
	a.index = next
	return nil
}

// Select records the chosen option for a question, replacing any earlier choice.
// The option index is not range checked here; see CheckOption.
func (a *Attempt) Select(question, option int) error {
	if a.submitted {
		return domain.ErrAlreadySubmitted
	}
	if question < 0 || question >= len(a.answers) {
		return domain.ErrQuestionNotFound
	}
	choice := option
	a.answers[question] = &choice
	return nil
}

// Answers returns a copy of the current selections; nil means unanswered.
func (a *Attempt) Answers() []*int {
	out := make([]*int, len(a.answers))
	for i, answer := range a.answers {
		if answer != nil {
			v := *answer
			out[i] = &v
		}
	}
	return out
}

// Unanswered lists the indices of questions without a selection.
func (a *Attempt) Unanswered() []int {
	var missing []int
	for i, answer := range a.answers {
		if answer == nil {
			missing = append(missing, i)
		}
	}
	return missing
}

// Current describes the question being presented.
func (a *Attempt) Current() domain.QuestionView {
	question := a.quiz.Questions[a.index]
	last := len(a.quiz.Questions) - 1
	options := make([]string, len(question.Options))
	copy(options, question.Options)

	var selected *int
	if answer := a.answers[a.index]; answer != nil {
		v := *answer
		selected = &v
	}
	return domain.QuestionView{
		QuizID:    a.quiz.ID,
		Title:     a.quiz.Title,
		Index:     a.index,
		Total:     len(a.quiz.Questions),
		Text:      question.Text,
		Options:   options,
		Selected:  selected,
		HasPrev:   a.index > 0,
		HasNext:   a.index < last,
		CanSubmit: a.index == last,
	}
}

// grade builds the result without changing state, so a failed store write
// leaves the attempt open for another try.
func (a *Attempt) grade(participant string, now time.Time) (domain.Result, error) {
	if a.submitted {
		return domain.Result{}, domain.ErrAlreadySubmitted
	}
	if missing := a.Unanswered(); len(missing) > 0 {
		return domain.Result{}, &domain.MissingAnswersError{Unanswered: missing}
	}

	answers := make([]int, len(a.answers))
	for i, answer := range a.answers {
		answers[i] = *answer
	}
	score := Score(a.quiz.Questions, answers)
	total := len(a.quiz.Questions)

	participant = strings.TrimSpace(participant)
	if participant == "" {
		participant = DefaultParticipant
	}
	return domain.Result{
		QuizID:      a.quiz.ID,
		Participant: participant,
		Score:       score,
		Total:       total,
		Percent:     Percent(score, total),
		Date:        now,
	}, nil
}

func (a *Attempt) finish(result domain.Result) {
	a.result = result
	a.submitted = true
}

// CheckOption verifies that option is a valid choice for the given question.
func CheckOption(quiz domain.Quiz, question, option int) error {
	if question < 0 || question >= len(quiz.Questions) {
		return domain.ErrQuestionNotFound
	}
	if option < 0 || option >= len(quiz.Questions[question].Options) {
		return domain.ErrInvalidOption
	}
	return nil
}
