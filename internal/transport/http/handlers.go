package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"quizpad-service/internal/app"
	"quizpad-service/internal/domain"
)

// API exposes the quiz use cases as JSON endpoints.
type API struct {
	service *app.QuizService
	log     logrus.FieldLogger
}

func NewAPI(service *app.QuizService, log logrus.FieldLogger) *API {
	return &API{service: service, log: log}
}

// RequireSession resolves the session token and passes the session on through the
// request context; handlers hand it explicitly to the service.
func (a *API) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := a.service.Authenticate(r.Context(), sessionToken(r))
		if err != nil {
			writeServiceError(w, requestLogger(a.log, r), err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), session)))
	})
}

func (a *API) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var request registerRequest
	if err := decodeJSON(r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	session, err := a.service.Register(r.Context(), request.Username, request.Email, request.Password)
	if err != nil {
		writeServiceError(w, requestLogger(a.log, r), err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{Token: session.Token, User: session.User})
}

func (a *API) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var request loginRequest
	if err := decodeJSON(r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	session, err := a.service.Login(r.Context(), request.Identifier, request.Password)
	if err != nil {
		writeServiceError(w, requestLogger(a.log, r), err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Token: session.Token, User: session.User})
}

func (a *API) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := a.service.Logout(r.Context(), sessionFrom(r.Context())); err != nil {
		writeServiceError(w, requestLogger(a.log, r), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) HandleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r.Context()).User)
}

func (a *API) HandleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	var request createQuizRequest
	if err := decodeJSON(r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	quiz, err := a.service.SaveQuiz(r.Context(), sessionFrom(r.Context()), request.draft())
	if err != nil {
		writeServiceError(w, requestLogger(a.log, r), err)
		return
	}
	writeJSON(w, http.StatusCreated, a.toQuizResponse(quiz))
}

func (a *API) HandleMyQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := a.service.MyQuizzes(r.Context(), sessionFrom(r.Context()))
	if err != nil {
		writeServiceError(w, requestLogger(a.log, r), err)
		return
	}
	response := quizzesResponse{Quizzes: make([]quizResponse, 0, len(quizzes))}
	for _, quiz := range quizzes {
		response.Quizzes = append(response.Quizzes, a.toQuizResponse(quiz))
	}
	writeJSON(w, http.StatusOK, response)
}

func (a *API) HandleDeleteQuiz(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "id")
	if err := a.service.DeleteQuiz(r.Context(), sessionFrom(r.Context()), quizID); err != nil {
		writeServiceError(w, requestLogger(a.log, r), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) HandleResults(w http.ResponseWriter, r *http.Request) {
	order, err := app.ParseSortOrder(r.URL.Query().Get("sort"))
	if err != nil {
		writeServiceError(w, requestLogger(a.log, r), err)
		return
	}
	rows, err := a.service.Results(r.Context(), sessionFrom(r.Context()), app.ResultsFilter{
		QuizID: strings.TrimSpace(r.URL.Query().Get("quiz")),
		Sort:   order,
	})
	if err != nil {
		writeServiceError(w, requestLogger(a.log, r), err)
		return
	}
	writeJSON(w, http.StatusOK, resultsResponse{Results: rows})
}

// HandleTakeQuiz serves the quiz behind a share link without its answers.
func (a *API) HandleTakeQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := a.service.GetQuiz(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		writeServiceError(w, requestLogger(a.log, r), err)
		return
	}
	response := publicQuizResponse{
		ID:        quiz.ID,
		Title:     quiz.Title,
		Questions: make([]publicQuestion, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		response.Questions = append(response.Questions, publicQuestion{Text: q.Text, Options: q.Options})
	}
	writeJSON(w, http.StatusOK, response)
}

// HandleSubmitQuiz takes a whole attempt in one request.
func (a *API) HandleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	var request takeRequest
	if err := decodeJSON(r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	result, err := a.service.TakeQuiz(r.Context(), r.URL.Query().Get("id"), request.Answers, request.Participant)
	if err != nil {
		writeServiceError(w, requestLogger(a.log, r), err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (a *API) toQuizResponse(quiz domain.Quiz) quizResponse {
	return quizResponse{
		ID:        quiz.ID,
		Title:     quiz.Title,
		Questions: quiz.Questions,
		Creator:   quiz.Creator,
		CreatedAt: quiz.CreatedAt,
		Link:      a.service.ShareLink(quiz.ID),
	}
}
