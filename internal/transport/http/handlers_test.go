package http

import (
	"net/http"
	"testing"

	"quizpad-service/internal/domain"
)

func TestAccountFlow(t *testing.T) {
	server := newTestServer(t)
	session := registerUser(t, server, "alice")
	if session.Token == "" || session.User.Username != "alice" {
		t.Fatalf("unexpected session %+v", session)
	}

	var me domain.SessionUser
	if status := call(t, server, http.MethodGet, "/api/me", session.Token, nil, &me); status != http.StatusOK {
		t.Fatalf("me: status %d", status)
	}
	if me.ID != session.User.ID {
		t.Fatalf("expected user %s, got %s", session.User.ID, me.ID)
	}

	var dup errorResponse
	status := call(t, server, http.MethodPost, "/api/register", "", registerRequest{
		Username: "other", Email: "alice@x.com", Password: "pw",
	}, &dup)
	if status != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", status)
	}

	if status := call(t, server, http.MethodPost, "/api/logout", session.Token, nil, nil); status != http.StatusNoContent {
		t.Fatalf("logout: status %d", status)
	}
	if status := call(t, server, http.MethodGet, "/api/me", session.Token, nil, nil); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", status)
	}

	var login sessionResponse
	status = call(t, server, http.MethodPost, "/api/login", "", loginRequest{Identifier: "alice@x.com", Password: "pw"}, &login)
	if status != http.StatusOK || login.User.Username != "alice" {
		t.Fatalf("login by email: status %d session %+v", status, login)
	}
	status = call(t, server, http.MethodPost, "/api/login", "", loginRequest{Identifier: "alice", Password: "nope"}, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", status)
	}
}

func TestCreateQuizValidation(t *testing.T) {
	server := newTestServer(t)
	session := registerUser(t, server, "alice")

	body := map[string]any{
		"title": "Broken",
		"questions": []map[string]any{
			{"text": "ok", "options": []string{"a", "b", "c", "d"}, "correct": 0},
			{"text": "bad", "options": []string{"a", "b", "c", "d"}, "correct": "B"},
		},
	}
	var errResp errorResponse
	status := call(t, server, http.MethodPost, "/api/quizzes", session.Token, body, &errResp)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if errResp.Question == nil || *errResp.Question != 1 {
		t.Fatalf("expected question index 1 in error, got %+v", errResp)
	}

	var list quizzesResponse
	call(t, server, http.MethodGet, "/api/quizzes", session.Token, nil, &list)
	if len(list.Quizzes) != 0 {
		t.Fatalf("expected nothing saved, got %d quizzes", len(list.Quizzes))
	}

	if status := call(t, server, http.MethodPost, "/api/quizzes", "", body, nil); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", status)
	}
}

func TestTakeAndResults(t *testing.T) {
	server := newTestServer(t)
	alice := registerUser(t, server, "alice")
	quiz := createQuiz(t, server, alice.Token, "Basics")
	if quiz.Link != "http://quiz.test/take?id="+quiz.ID {
		t.Fatalf("unexpected link %q", quiz.Link)
	}

	var public publicQuizResponse
	if status := call(t, server, http.MethodGet, "/api/take?id="+quiz.ID, "", nil, &public); status != http.StatusOK {
		t.Fatalf("get take: status %d", status)
	}
	if len(public.Questions) != 2 || public.Title != "Basics" {
		t.Fatalf("unexpected public quiz %+v", public)
	}

	one, two := 1, 0
	var missing errorResponse
	status := call(t, server, http.MethodPost, "/api/take?id="+quiz.ID, "", takeRequest{
		Participant: "Bob",
		Answers:     []*int{&one, nil},
	}, &missing)
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", status)
	}
	if len(missing.Unanswered) != 1 || missing.Unanswered[0] != 1 {
		t.Fatalf("expected unanswered [1], got %v", missing.Unanswered)
	}

	var result domain.Result
	status = call(t, server, http.MethodPost, "/api/take?id="+quiz.ID, "", takeRequest{
		Participant: "Bob",
		Answers:     []*int{&one, &two},
	}, &result)
	if status != http.StatusCreated {
		t.Fatalf("submit: status %d", status)
	}
	if result.Score != 1 || result.Total != 2 || result.Percent != 50 || result.Participant != "Bob" {
		t.Fatalf("unexpected result %+v", result)
	}

	var results resultsResponse
	if status := call(t, server, http.MethodGet, "/api/results?sort=score-desc&quiz="+quiz.ID, alice.Token, nil, &results); status != http.StatusOK {
		t.Fatalf("results: status %d", status)
	}
	if len(results.Results) != 1 || results.Results[0].QuizTitle != "Basics" {
		t.Fatalf("unexpected results %+v", results.Results)
	}

	if status := call(t, server, http.MethodGet, "/api/results?sort=bogus", alice.Token, nil, nil); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown sort, got %d", status)
	}
}

func TestTakeUnknownQuiz(t *testing.T) {
	server := newTestServer(t)
	var errResp errorResponse
	if status := call(t, server, http.MethodGet, "/api/take?id=nope", "", nil, &errResp); status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if errResp.Error != domain.ErrQuizNotFound.Error() {
		t.Fatalf("expected %q, got %q", domain.ErrQuizNotFound.Error(), errResp.Error)
	}
	if status := call(t, server, http.MethodGet, "/api/take", "", nil, nil); status != http.StatusNotFound {
		t.Fatalf("expected 404 for missing id, got %d", status)
	}
}

func TestDeleteQuizKeepsResults(t *testing.T) {
	server := newTestServer(t)
	alice := registerUser(t, server, "alice")
	bob := registerUser(t, server, "bob")
	quiz := createQuiz(t, server, alice.Token, "Basics")

	one, two := 1, 2
	call(t, server, http.MethodPost, "/api/take?id="+quiz.ID, "", takeRequest{Answers: []*int{&one, &two}}, nil)

	if status := call(t, server, http.MethodDelete, "/api/quizzes/"+quiz.ID, bob.Token, nil, nil); status != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d", status)
	}
	if status := call(t, server, http.MethodDelete, "/api/quizzes/"+quiz.ID, alice.Token, nil, nil); status != http.StatusNoContent {
		t.Fatalf("delete: status %d", status)
	}
	if status := call(t, server, http.MethodGet, "/api/take?id="+quiz.ID, "", nil, nil); status != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", status)
	}
	if status := call(t, server, http.MethodDelete, "/api/quizzes/"+quiz.ID, alice.Token, nil, nil); status != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", status)
	}
}
