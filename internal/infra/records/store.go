package records

import (
	"context"
	"encoding/json"
	"fmt"

	"quizpad-service/internal/domain"
)

// DefaultPrefix matches the key names the browser client used.
const DefaultPrefix = "qp_"

const (
	usersKey   = "users"
	currentKey = "current:"
	quizzesKey = "quizzes"
	scoresKey  = "scores"
)

// KV is the raw key-value backend (memory, Redis, Postgres or SQLite).
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store keeps each record as one JSON value under a prefixed key.
type Store struct {
	kv     KV
	prefix string
}

func New(kv KV, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{kv: kv, prefix: prefix}
}

// EnsureDefaults writes empty users, quizzes and scores records when absent.
func (s *Store) EnsureDefaults(ctx context.Context) error {
	defaults := map[string]any{
		usersKey:   []domain.User{},
		quizzesKey: map[string]domain.Quiz{},
		scoresKey:  []domain.Result{},
	}
	for key, value := range defaults {
		_, ok, err := s.kv.Get(ctx, s.key(key))
		if err != nil {
			return fmt.Errorf("read %s: %w", key, err)
		}
		if ok {
			continue
		}
		if err := s.put(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Users(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if _, err := s.get(ctx, usersKey, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) PutUsers(ctx context.Context, users []domain.User) error {
	return s.put(ctx, usersKey, users)
}

func (s *Store) CurrentUser(ctx context.Context, token string) (domain.SessionUser, bool, error) {
	var user domain.SessionUser
	ok, err := s.get(ctx, currentKey+token, &user)
	if err != nil {
		return domain.SessionUser{}, false, err
	}
	return user, ok, nil
}

func (s *Store) PutCurrentUser(ctx context.Context, token string, user domain.SessionUser) error {
	return s.put(ctx, currentKey+token, user)
}

func (s *Store) ClearCurrentUser(ctx context.Context, token string) error {
	if err := s.kv.Delete(ctx, s.key(currentKey+token)); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Store) Quizzes(ctx context.Context) (map[string]domain.Quiz, error) {
	quizzes := map[string]domain.Quiz{}
	if _, err := s.get(ctx, quizzesKey, &quizzes); err != nil {
		return nil, err
	}
	if quizzes == nil {
		quizzes = map[string]domain.Quiz{}
	}
	return quizzes, nil
}

func (s *Store) PutQuizzes(ctx context.Context, quizzes map[string]domain.Quiz) error {
	return s.put(ctx, quizzesKey, quizzes)
}

func (s *Store) Scores(ctx context.Context) ([]domain.Result, error) {
	scores := []domain.Result{}
	if _, err := s.get(ctx, scoresKey, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

func (s *Store) PutScores(ctx context.Context, scores []domain.Result) error {
	return s.put(ctx, scoresKey, scores)
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

// get decodes the record into dst and reports whether it existed.
func (s *Store) get(ctx context.Context, name string, dst any) (bool, error) {
	raw, ok, err := s.kv.Get(ctx, s.key(name))
	if err != nil {
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}

func (s *Store) put(ctx context.Context, name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := s.kv.Set(ctx, s.key(name), raw); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
