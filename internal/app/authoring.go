package app

import (
	"context"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"quizpad-service/internal/domain"
)

// DefaultTitle is used when a quiz is saved without a title.
const DefaultTitle = "Untitled Quiz"

// SaveQuiz validates the draft and stores it as a new quiz owned by the session user.
// Any invalid question aborts the save before the store is touched.
func (s *QuizService) SaveQuiz(ctx context.Context, session domain.Session, draft domain.QuizDraft) (domain.Quiz, error) {
	questions, err := buildQuestions(draft.Questions)
	if err != nil {
		return domain.Quiz{}, err
	}
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		title = DefaultTitle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	quizzes, err := s.store.Quizzes(ctx)
	if err != nil {
		return domain.Quiz{}, err
	}

	now := s.now()
	id := newQuizID(now)
	for {
		if _, taken := quizzes[id]; !taken {
			break
		}
		id = newQuizID(now)
	}

	quiz := domain.Quiz{
		ID:        id,
		Title:     title,
		Questions: questions,
		Creator:   session.User.Username,
		CreatorID: session.User.ID,
		CreatedAt: now,
	}
	quizzes[id] = quiz
	if err := s.store.PutQuizzes(ctx, quizzes); err != nil {
		return domain.Quiz{}, err
	}

	s.log.WithFields(logrus.Fields{
		"quiz_id":   id,
		"creator":   session.User.Username,
		"questions": len(questions),
	}).Info("quiz saved")
	return quiz, nil
}

// DeleteQuiz removes a quiz created by the session user. Recorded results are kept.
func (s *QuizService) DeleteQuiz(ctx context.Context, session domain.Session, quizID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	quizzes, err := s.store.Quizzes(ctx)
	if err != nil {
		return err
	}
	quiz, ok := quizzes[quizID]
	if !ok {
		return domain.ErrQuizNotFound
	}
	if quiz.CreatorID != session.User.ID {
		return domain.ErrForbidden
	}
	delete(quizzes, quizID)
	if err := s.store.PutQuizzes(ctx, quizzes); err != nil {
		return err
	}
	s.invalidate(ctx, quizID)

	s.log.WithField("quiz_id", quizID).Info("quiz deleted")
	return nil
}

func buildQuestions(drafts []domain.QuestionDraft) ([]domain.Question, error) {
	if len(drafts) == 0 {
		return nil, domain.ErrNoQuestions
	}
	questions := make([]domain.Question, 0, len(drafts))
	for i, draft := range drafts {
		question, err := buildQuestion(draft)
		if err != nil {
			return nil, &domain.QuestionError{Index: i, Err: err}
		}
		questions = append(questions, question)
	}
	return questions, nil
}

func buildQuestion(draft domain.QuestionDraft) (domain.Question, error) {
	text := strings.TrimSpace(draft.Text)
	if text == "" {
		return domain.Question{}, domain.ErrEmptyQuestionText
	}
	if len(draft.Options) != domain.OptionsPerQuestion {
		return domain.Question{}, domain.ErrEmptyOption
	}
	options := make([]string, 0, domain.OptionsPerQuestion)
	for _, option := range draft.Options {
		option = strings.TrimSpace(option)
		if option == "" {
			return domain.Question{}, domain.ErrEmptyOption
		}
		options = append(options, option)
	}
	correct, err := strconv.Atoi(strings.TrimSpace(draft.Correct))
	if err != nil || correct < 0 || correct >= domain.OptionsPerQuestion {
		return domain.Question{}, domain.ErrCorrectIndex
	}
	return domain.Question{Text: text, Options: options, Correct: correct}, nil
}
