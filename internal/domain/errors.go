package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrQuizNotFound indicates the quiz id is missing or unknown.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates a question index outside the quiz.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrInvalidOption indicates a selected option outside the question's options.
	ErrInvalidOption = errors.New("option out of range")
	// ErrOutOfRange is returned when navigation would leave the question sequence.
	ErrOutOfRange = errors.New("no question in that direction")
	// ErrMissingAnswers is returned when a quiz is submitted with unanswered questions.
	ErrMissingAnswers = errors.New("please answer all questions before submitting")
	// ErrAlreadySubmitted is returned for any action on a finished attempt.
	ErrAlreadySubmitted = errors.New("attempt already submitted")

	// ErrNoQuestions is returned when saving a quiz without questions.
	ErrNoQuestions = errors.New("add at least one question")
	// ErrEmptyQuestionText is returned for a question without text.
	ErrEmptyQuestionText = errors.New("question text is required")
	// ErrEmptyOption is returned when any of the four options is blank or missing.
	ErrEmptyOption = errors.New("all four options are required")
	// ErrCorrectIndex is returned when the correct option is not an integer in [0,3].
	ErrCorrectIndex = errors.New("correct option must be a number from 0 to 3")

	// ErrMissingFields is returned when registration or login input is incomplete.
	ErrMissingFields = errors.New("all fields required")
	// ErrDuplicateUser is returned when the username or email is already registered.
	ErrDuplicateUser = errors.New("username or email already exists")
	// ErrUserNotFound is returned when no account matches the login identifier.
	ErrUserNotFound = errors.New("user not found")
	// ErrWrongPassword is returned on a password mismatch.
	ErrWrongPassword = errors.New("wrong password")
	// ErrNotLoggedIn is returned when a protected action has no valid session.
	ErrNotLoggedIn = errors.New("please log in first")
	// ErrForbidden is returned when a user acts on a quiz they did not create.
	ErrForbidden = errors.New("quiz belongs to another user")
	// ErrInvalidSort is returned for an unknown results sort order.
	ErrInvalidSort = errors.New("unknown sort order")
)

// QuestionError reports which question failed authoring validation.
type QuestionError struct {
	Index int
	Err   error
}

func (e *QuestionError) Error() string {
	return fmt.Sprintf("question %d: %v", e.Index+1, e.Err)
}

func (e *QuestionError) Unwrap() error { return e.Err }

// MissingAnswersError lists the unanswered question indices of a submit attempt.
type MissingAnswersError struct {
	Unanswered []int
}

func (e *MissingAnswersError) Error() string {
	return fmt.Sprintf("%v (%d unanswered)", ErrMissingAnswers, len(e.Unanswered))
}

func (e *MissingAnswersError) Is(target error) bool { return target == ErrMissingAnswers }
