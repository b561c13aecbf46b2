package app

import (
	"context"

	"quizpad-service/internal/domain"
)

// Store holds the four persisted records. It is a plain get/put contract:
// callers read a whole record, change it and write it back.
type Store interface {
	Users(ctx context.Context) ([]domain.User, error)
	PutUsers(ctx context.Context, users []domain.User) error

	CurrentUser(ctx context.Context, token string) (domain.SessionUser, bool, error)
	PutCurrentUser(ctx context.Context, token string, user domain.SessionUser) error
	ClearCurrentUser(ctx context.Context, token string) error

	Quizzes(ctx context.Context) (map[string]domain.Quiz, error)
	PutQuizzes(ctx context.Context, quizzes map[string]domain.Quiz) error

	Scores(ctx context.Context) ([]domain.Result, error)
	PutScores(ctx context.Context, scores []domain.Result) error
}

// QuizLoader resolves a single quiz by id (directly from the store or through a cache).
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizInvalidator is implemented by loaders that cache quizzes.
type QuizInvalidator interface {
	Invalidate(ctx context.Context, quizID string)
}

type storeLoader struct {
	store Store
}

// NewStoreLoader returns a QuizLoader that reads the quiz map on every call.
func NewStoreLoader(store Store) QuizLoader {
	return storeLoader{store: store}
}

func (l storeLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	quizzes, err := l.store.Quizzes(ctx)
	if err != nil {
		return domain.Quiz{}, err
	}
	quiz, ok := quizzes[quizID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}
