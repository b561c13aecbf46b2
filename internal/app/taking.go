package app

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"quizpad-service/internal/domain"
)

// GetQuiz resolves a share reference. A blank or unknown id yields ErrQuizNotFound.
func (s *QuizService) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	quizID = strings.TrimSpace(quizID)
	if quizID == "" {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	quiz, err := s.quizzes.LoadQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	// Authoring never saves an empty quiz; treat a hand-edited one as missing.
	if len(quiz.Questions) == 0 {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

// StartAttempt loads the quiz and positions a new attempt at its first question.
func (s *QuizService) StartAttempt(ctx context.Context, quizID string) (*Attempt, error) {
	quiz, err := s.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return NewAttempt(quiz), nil
}

// SubmitAttempt grades the attempt and appends its result to the score list.
// With unanswered questions it returns a *domain.MissingAnswersError and the
// attempt stays open.
func (s *QuizService) SubmitAttempt(ctx context.Context, attempt *Attempt, participant string) (domain.Result, error) {
	result, err := attempt.grade(participant, s.now())
	if err != nil {
		return domain.Result{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	scores, err := s.store.Scores(ctx)
	if err != nil {
		return domain.Result{}, err
	}
	scores = append(scores, result)
	if err := s.store.PutScores(ctx, scores); err != nil {
		return domain.Result{}, err
	}
	attempt.finish(result)

	s.log.WithFields(logrus.Fields{
		"quiz_id": result.QuizID,
		"score":   result.Score,
		"total":   result.Total,
	}).Info("result recorded")
	return result, nil
}

// TakeQuiz runs a whole attempt from a list of answers (nil = unanswered).
func (s *QuizService) TakeQuiz(ctx context.Context, quizID string, answers []*int, participant string) (domain.Result, error) {
	attempt, err := s.StartAttempt(ctx, quizID)
	if err != nil {
		return domain.Result{}, err
	}
	quiz := attempt.Quiz()
	if len(answers) > len(quiz.Questions) {
		return domain.Result{}, domain.ErrQuestionNotFound
	}
	for i, answer := range answers {
		if answer == nil {
			continue
		}
		if err := CheckOption(quiz, i, *answer); err != nil {
			return domain.Result{}, err
		}
		if err := attempt.Select(i, *answer); err != nil {
			return domain.Result{}, err
		}
	}
	return s.SubmitAttempt(ctx, attempt, participant)
}
