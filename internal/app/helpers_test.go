package app_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"quizpad-service/internal/app"
	"quizpad-service/internal/domain"
	"quizpad-service/internal/infra/memory"
	"quizpad-service/internal/infra/records"
)

type fixture struct {
	service *app.QuizService
	store   *records.Store
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: records.New(memory.NewKV(), ""),
		now:   time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC),
	}
	if err := f.store.EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("ensure defaults: %v", err)
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	f.service = app.NewQuizService(f.store, nil,
		app.WithLogger(logger),
		app.WithBaseURL("http://quiz.test/"),
		// each call moves the clock one minute so results get distinct dates
		app.WithClock(func() time.Time {
			f.now = f.now.Add(time.Minute)
			return f.now
		}),
	)
	return f
}

func (f *fixture) register(t *testing.T, username string) domain.Session {
	t.Helper()
	session, err := f.service.Register(context.Background(), username, username+"@x.com", "pw")
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return session
}

// saveQuiz stores a quiz whose questions have the given correct indices.
func (f *fixture) saveQuiz(t *testing.T, session domain.Session, title string, correct ...string) domain.Quiz {
	t.Helper()
	draft := domain.QuizDraft{Title: title}
	for i, c := range correct {
		draft.Questions = append(draft.Questions, domain.QuestionDraft{
			Text:    "Question " + string(rune('A'+i)),
			Options: []string{"w", "x", "y", "z"},
			Correct: c,
		})
	}
	quiz, err := f.service.SaveQuiz(context.Background(), session, draft)
	if err != nil {
		t.Fatalf("save quiz: %v", err)
	}
	return quiz
}

func (f *fixture) scores(t *testing.T) []domain.Result {
	t.Helper()
	scores, err := f.store.Scores(context.Background())
	if err != nil {
		t.Fatalf("scores: %v", err)
	}
	return scores
}

func intp(v int) *int { return &v }
