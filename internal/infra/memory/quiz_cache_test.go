package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizpad-service/internal/domain"
)

func TestQuizCacheCaches(t *testing.T) {
	loader := &countingLoader{quizzes: map[string]domain.Quiz{"quiz-1": sampleQuiz()}}
	cache := NewQuizCache(loader, time.Minute)

	if _, err := cache.LoadQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("load quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := cache.LoadQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("load quiz 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestQuizCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{quizzes: map[string]domain.Quiz{"quiz-1": sampleQuiz()}}
	cache := NewQuizCache(loader, time.Minute)

	if _, err := cache.LoadQuiz(ctx, "quiz-1"); err != nil {
		t.Fatalf("load quiz: %v", err)
	}
	delete(loader.quizzes, "quiz-1")
	cache.Invalidate(ctx, "quiz-1")

	if _, err := cache.LoadQuiz(ctx, "quiz-1"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected not found after invalidate, got %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, loader calls %d", loader.calls)
	}
}

func TestQuizCacheExpires(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{quizzes: map[string]domain.Quiz{"quiz-1": sampleQuiz()}}
	cache := NewQuizCache(loader, time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.clock = func() time.Time { return now }

	_, _ = cache.LoadQuiz(ctx, "quiz-1")
	now = now.Add(2 * time.Minute)
	_, _ = cache.LoadQuiz(ctx, "quiz-1")
	if loader.calls != 2 {
		t.Fatalf("expected expired entry to reload, loader calls %d", loader.calls)
	}
}

type countingLoader struct {
	quizzes map[string]domain.Quiz
	calls   int
}

func (l *countingLoader) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	l.calls++
	if quiz, ok := l.quizzes[quizID]; ok {
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:    "quiz-1",
		Title: "Arithmetic",
		Questions: []domain.Question{
			{Text: "What is 2 + 2?", Options: []string{"3", "4", "5", "22"}, Correct: 1},
		},
	}
}
