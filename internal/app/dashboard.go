package app

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
	"quizpad-service/internal/domain"
)

// ResultRow is a result joined with the title of its quiz.
type ResultRow struct {
	domain.Result
	QuizTitle string `json:"quizTitle"`
}

// MyQuizzes lists the quizzes created by the session user, oldest first.
func (s *QuizService) MyQuizzes(ctx context.Context, session domain.Session) ([]domain.Quiz, error) {
	quizzes, err := s.store.Quizzes(ctx)
	if err != nil {
		return nil, err
	}
	return ownedQuizzes(quizzes, session.User.ID), nil
}

// Results returns the results of the session user's quizzes, filtered and sorted.
func (s *QuizService) Results(ctx context.Context, session domain.Session, filter ResultsFilter) ([]ResultRow, error) {
	var (
		quizzes map[string]domain.Quiz
		scores  []domain.Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		quizzes, err = s.store.Quizzes(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		scores, err = s.store.Scores(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	mine := ownedQuizzes(quizzes, session.User.ID)
	owned := make(map[string]struct{}, len(mine))
	for _, q := range mine {
		owned[q.ID] = struct{}{}
	}

	results := AggregateResults(scores, owned, filter)
	rows := make([]ResultRow, 0, len(results))
	for _, r := range results {
		title := r.QuizID
		if q, ok := quizzes[r.QuizID]; ok {
			title = q.Title
		}
		rows = append(rows, ResultRow{Result: r, QuizTitle: title})
	}
	return rows, nil
}

func ownedQuizzes(quizzes map[string]domain.Quiz, userID string) []domain.Quiz {
	mine := make([]domain.Quiz, 0)
	for _, q := range quizzes {
		if q.CreatorID == userID {
			mine = append(mine, q)
		}
	}
	sort.Slice(mine, func(i, j int) bool {
		if !mine[i].CreatedAt.Equal(mine[j].CreatedAt) {
			return mine[i].CreatedAt.Before(mine[j].CreatedAt)
		}
		return mine[i].ID < mine[j].ID
	})
	return mine
}
