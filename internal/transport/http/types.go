package http

import (
	"encoding/json"
	"time"

	"quizpad-service/internal/app"
	"quizpad-service/internal/domain"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type sessionResponse struct {
	Token string             `json:"token"`
	User  domain.SessionUser `json:"user"`
}

// correctField accepts the correct option as a JSON number or string; the
// raw text is validated by authoring so that "B" or "" can be reported.
type correctField string

func (c *correctField) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = correctField(s)
		return nil
	}
	*c = correctField(b)
	return nil
}

type questionRequest struct {
	Text    string       `json:"text"`
	Options []string     `json:"options"`
	Correct correctField `json:"correct"`
}

type createQuizRequest struct {
	Title     string            `json:"title"`
	Questions []questionRequest `json:"questions"`
}

func (r createQuizRequest) draft() domain.QuizDraft {
	draft := domain.QuizDraft{Title: r.Title}
	for _, q := range r.Questions {
		draft.Questions = append(draft.Questions, domain.QuestionDraft{
			Text:    q.Text,
			Options: q.Options,
			Correct: string(q.Correct),
		})
	}
	return draft
}

type quizResponse struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Questions []domain.Question `json:"questions"`
	Creator   string            `json:"creator"`
	CreatedAt time.Time         `json:"createdAt"`
	Link      string            `json:"link"`
}

type quizzesResponse struct {
	Quizzes []quizResponse `json:"quizzes"`
}

type resultsResponse struct {
	Results []app.ResultRow `json:"results"`
}

type publicQuestion struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// publicQuizResponse is the taker's view: correct options are withheld.
type publicQuizResponse struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Questions []publicQuestion `json:"questions"`
}

type takeRequest struct {
	Participant string `json:"participant"`
	Answers     []*int `json:"answers"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Question   *int   `json:"question,omitempty"`
	Unanswered []int  `json:"unanswered,omitempty"`
}
