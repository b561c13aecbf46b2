package app

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"quizpad-service/internal/domain"
)

// Register creates an account and logs it in.
func (s *QuizService) Register(ctx context.Context, username, email, password string) (domain.Session, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return domain.Session{}, domain.ErrMissingFields
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.Users(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	for _, u := range users {
		if u.Username == username || u.Email == email {
			return domain.Session{}, domain.ErrDuplicateUser
		}
	}

	user := domain.User{
		ID:       uuid.NewString(),
		Username: username,
		Email:    email,
		Password: password,
	}
	// The session goes in first so that a failed write never leaves an
	// account behind that the caller was told does not exist.
	session, err := s.openSession(ctx, user)
	if err != nil {
		return domain.Session{}, err
	}
	users = append(users, user)
	if err := s.store.PutUsers(ctx, users); err != nil {
		if clearErr := s.store.ClearCurrentUser(ctx, session.Token); clearErr != nil {
			s.log.WithError(clearErr).Warn("drop session of failed registration")
		}
		return domain.Session{}, err
	}

	s.log.WithField("username", username).Info("user registered")
	return session, nil
}

// Login matches identifier against username or email and opens a session.
func (s *QuizService) Login(ctx context.Context, identifier, password string) (domain.Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return domain.Session{}, domain.ErrMissingFields
	}

	users, err := s.store.Users(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	for _, u := range users {
		if u.Email != identifier && u.Username != identifier {
			continue
		}
		if u.Password != password {
			return domain.Session{}, domain.ErrWrongPassword
		}
		return s.openSession(ctx, u)
	}
	return domain.Session{}, domain.ErrUserNotFound
}

// Logout clears the session record.
func (s *QuizService) Logout(ctx context.Context, session domain.Session) error {
	return s.store.ClearCurrentUser(ctx, session.Token)
}

// Authenticate resolves a session token to the logged-in user.
func (s *QuizService) Authenticate(ctx context.Context, token string) (domain.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Session{}, domain.ErrNotLoggedIn
	}
	user, ok, err := s.store.CurrentUser(ctx, token)
	if err != nil {
		return domain.Session{}, err
	}
	if !ok {
		return domain.Session{}, domain.ErrNotLoggedIn
	}
	return domain.Session{Token: token, User: user}, nil
}

func (s *QuizService) openSession(ctx context.Context, user domain.User) (domain.Session, error) {
	session := domain.Session{
		Token: uuid.NewString(),
		User: domain.SessionUser{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
	}
	if err := s.store.PutCurrentUser(ctx, session.Token, session.User); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}
