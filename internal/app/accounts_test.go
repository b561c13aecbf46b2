package app_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"quizpad-service/internal/app"
	"quizpad-service/internal/domain"
	"quizpad-service/internal/infra/records"
)

func TestRegisterRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	session, err := f.service.Register(ctx, "alice", "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if session.Token == "" || session.User.Username != "alice" || session.User.ID == "" {
		t.Fatalf("expected logged-in session, got %+v", session)
	}

	if _, err := f.service.Register(ctx, "alice2", "a@x.com", "pw2"); !errors.Is(err, domain.ErrDuplicateUser) {
		t.Fatalf("expected duplicate email rejected, got %v", err)
	}
	if _, err := f.service.Register(ctx, "alice", "other@x.com", "pw2"); !errors.Is(err, domain.ErrDuplicateUser) {
		t.Fatalf("expected duplicate username rejected, got %v", err)
	}
	users, _ := f.store.Users(ctx)
	if len(users) != 1 {
		t.Fatalf("expected a single account, got %d", len(users))
	}
}

func TestRegisterRequiresAllFields(t *testing.T) {
	f := newFixture(t)
	for _, in := range [][3]string{{"", "a@x.com", "pw"}, {"alice", " ", "pw"}, {"alice", "a@x.com", ""}} {
		if _, err := f.service.Register(context.Background(), in[0], in[1], in[2]); !errors.Is(err, domain.ErrMissingFields) {
			t.Fatalf("input %v: expected missing fields, got %v", in, err)
		}
	}
}

func TestLoginByUsernameOrEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	registered, _ := f.service.Register(ctx, "alice", "a@x.com", "pw1")

	for _, identifier := range []string{"alice", "a@x.com", "  alice "} {
		session, err := f.service.Login(ctx, identifier, "pw1")
		if err != nil {
			t.Fatalf("login %q: %v", identifier, err)
		}
		if session.User.ID != registered.User.ID || session.Token == registered.Token {
			t.Fatalf("unexpected session %+v", session)
		}
	}

	if _, err := f.service.Login(ctx, "alice", "nope"); !errors.Is(err, domain.ErrWrongPassword) {
		t.Fatalf("expected wrong password, got %v", err)
	}
	if _, err := f.service.Login(ctx, "bob", "pw1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	session, _ := f.service.Register(ctx, "alice", "a@x.com", "pw1")

	got, err := f.service.Authenticate(ctx, session.Token)
	if err != nil || got.User != session.User {
		t.Fatalf("authenticate: %+v err=%v", got, err)
	}
	if err := f.service.Logout(ctx, session); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := f.service.Authenticate(ctx, session.Token); !errors.Is(err, domain.ErrNotLoggedIn) {
		t.Fatalf("expected not logged in, got %v", err)
	}
	if _, err := f.service.Authenticate(ctx, ""); !errors.Is(err, domain.ErrNotLoggedIn) {
		t.Fatalf("expected not logged in for empty token, got %v", err)
	}
}

var errWriteFailed = errors.New("write failed")

// flakyStore fails the chosen writes and remembers issued session tokens.
type flakyStore struct {
	*records.Store
	failSession bool
	failUsers   bool
	tokens      []string
}

func (s *flakyStore) PutCurrentUser(ctx context.Context, token string, user domain.SessionUser) error {
	if s.failSession {
		return errWriteFailed
	}
	s.tokens = append(s.tokens, token)
	return s.Store.PutCurrentUser(ctx, token, user)
}

func (s *flakyStore) PutUsers(ctx context.Context, users []domain.User) error {
	if s.failUsers {
		return errWriteFailed
	}
	return s.Store.PutUsers(ctx, users)
}

func TestRegisterFailureLeavesNoAccount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := &flakyStore{Store: f.store, failSession: true}
	service := app.NewQuizService(store, nil, app.WithLogger(logger))
	if _, err := service.Register(ctx, "alice", "a@x.com", "pw"); !errors.Is(err, errWriteFailed) {
		t.Fatalf("expected session write failure, got %v", err)
	}
	users, err := f.store.Users(ctx)
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected no account after failed session write, got %+v", users)
	}

	store.failSession, store.failUsers = false, true
	if _, err := service.Register(ctx, "alice", "a@x.com", "pw"); !errors.Is(err, errWriteFailed) {
		t.Fatalf("expected users write failure, got %v", err)
	}
	if len(store.tokens) != 1 {
		t.Fatalf("expected one session issued, got %d", len(store.tokens))
	}
	if _, ok, err := f.store.CurrentUser(ctx, store.tokens[0]); err != nil || ok {
		t.Fatalf("expected session dropped, got ok=%v err=%v", ok, err)
	}

	store.failUsers = false
	if _, err := service.Register(ctx, "alice", "a@x.com", "pw"); err != nil {
		t.Fatalf("register after failures: %v", err)
	}
}
