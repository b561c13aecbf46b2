package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"quizpad-service/internal/domain"
)

type sessionKey struct{}

// sessionToken reads "Authorization: Bearer <token>" or X-Session-Token.
func sessionToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return strings.TrimSpace(r.Header.Get("X-Session-Token"))
}

func withSession(ctx context.Context, session domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

func sessionFrom(ctx context.Context) domain.Session {
	session, _ := ctx.Value(sessionKey{}).(domain.Session)
	return session
}

func requestLogger(log logrus.FieldLogger, r *http.Request) logrus.FieldLogger {
	return log.WithFields(logrus.Fields{
		"request_id": middleware.GetReqID(r.Context()),
		"method":     r.Method,
		"path":       r.URL.Path,
	})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotLoggedIn),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrWrongPassword):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrDuplicateUser),
		errors.Is(err, domain.ErrAlreadySubmitted):
		return http.StatusConflict
	case errors.Is(err, domain.ErrMissingAnswers):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNoQuestions),
		errors.Is(err, domain.ErrEmptyQuestionText),
		errors.Is(err, domain.ErrEmptyOption),
		errors.Is(err, domain.ErrCorrectIndex),
		errors.Is(err, domain.ErrMissingFields),
		errors.Is(err, domain.ErrInvalidSort),
		errors.Is(err, domain.ErrInvalidOption),
		errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrOutOfRange):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func errorBody(err error) errorResponse {
	body := errorResponse{Error: err.Error()}
	var qerr *domain.QuestionError
	if errors.As(err, &qerr) {
		index := qerr.Index
		body.Question = &index
	}
	var missing *domain.MissingAnswersError
	if errors.As(err, &missing) {
		body.Error = domain.ErrMissingAnswers.Error()
		body.Unanswered = missing.Unanswered
	}
	return body
}

func writeServiceError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
		writeJSON(w, status, errorResponse{Error: "request failed"})
		return
	}
	writeJSON(w, status, errorBody(err))
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
