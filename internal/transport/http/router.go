package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"quizpad-service/internal/app"
)

// NewRouter mounts the JSON API, the live taking socket and the health check.
func NewRouter(service *app.QuizService, log logrus.FieldLogger) http.Handler {
	api := NewAPI(service, log)
	ws := NewWSHandler(service, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ws/take", ws.ServeWS)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", api.HandleRegister)
		r.Post("/login", api.HandleLogin)
		r.Get("/take", api.HandleTakeQuiz)
		r.Post("/take", api.HandleSubmitQuiz)

		r.Group(func(r chi.Router) {
			r.Use(api.RequireSession)
			r.Post("/logout", api.HandleLogout)
			r.Get("/me", api.HandleMe)
			r.Post("/quizzes", api.HandleCreateQuiz)
			r.Get("/quizzes", api.HandleMyQuizzes)
			r.Delete("/quizzes/{id}", api.HandleDeleteQuiz)
			r.Get("/results", api.HandleResults)
		})
	})
	return r
}
