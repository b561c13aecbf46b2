package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"quizpad-service/internal/app"
	"quizpad-service/internal/infra/memory"
	"quizpad-service/internal/infra/records"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := records.New(memory.NewKV(), "")
	if err := store.EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("ensure defaults: %v", err)
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	service := app.NewQuizService(store, memory.NewQuizCache(app.NewStoreLoader(store), time.Minute),
		app.WithLogger(logger),
		app.WithBaseURL("http://quiz.test"),
	)
	server := httptest.NewServer(NewRouter(service, logger))
	t.Cleanup(server.Close)
	return server
}

// call sends a JSON request and decodes the JSON reply into out when out is non-nil.
func call(t *testing.T, server *httptest.Server, method, path, token string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func registerUser(t *testing.T, server *httptest.Server, username string) sessionResponse {
	t.Helper()
	var session sessionResponse
	status := call(t, server, http.MethodPost, "/api/register", "", registerRequest{
		Username: username,
		Email:    username + "@x.com",
		Password: "pw",
	}, &session)
	if status != http.StatusCreated {
		t.Fatalf("register %s: status %d", username, status)
	}
	return session
}

// createQuiz stores a two question quiz whose answers are 1 then 2.
func createQuiz(t *testing.T, server *httptest.Server, token, title string) quizResponse {
	t.Helper()
	body := map[string]any{
		"title": title,
		"questions": []map[string]any{
			{"text": "2+2?", "options": []string{"3", "4", "5", "6"}, "correct": 1},
			{"text": "Capital of France?", "options": []string{"Rome", "Berlin", "Paris", "Madrid"}, "correct": "2"},
		},
	}
	var quiz quizResponse
	if status := call(t, server, http.MethodPost, "/api/quizzes", token, body, &quiz); status != http.StatusCreated {
		t.Fatalf("create quiz: status %d", status)
	}
	return quiz
}
