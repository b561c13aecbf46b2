package domain

import "time"

// OptionsPerQuestion is the fixed number of choices every question carries.
const OptionsPerQuestion = 4

// User is a registered account. Passwords are kept as entered.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionUser is the part of a User kept for a logged-in session.
type SessionUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session binds a session token to the logged-in user.
type Session struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

// Question is a multiple-choice question with exactly four options.
type Question struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Correct int      `json:"correct"`
}

// Quiz is an ordered set of questions owned by its creator.
type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
	Creator   string     `json:"creator"`
	CreatorID string     `json:"creatorId"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Result records one completed attempt at a quiz.
type Result struct {
	QuizID      string    `json:"quizId"`
	Participant string    `json:"participant"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	Percent     int       `json:"percent"`
	Date        time.Time `json:"date"`
}

// QuestionDraft is unvalidated authoring input for a single question.
// Correct is kept raw so that a non-numeric entry can be reported.
type QuestionDraft struct {
	Text    string
	Options []string
	Correct string
}

// QuizDraft is unvalidated authoring input for a quiz.
type QuizDraft struct {
	Title     string
	Questions []QuestionDraft
}

// QuestionView is what a taker sees for the current question of an attempt.
type QuestionView struct {
	QuizID    string   `json:"quizId"`
	Title     string   `json:"title"`
	Index     int      `json:"index"`
	Total     int      `json:"total"`
	Text      string   `json:"text"`
	Options   []string `json:"options"`
	Selected  *int     `json:"selected"`
	HasPrev   bool     `json:"hasPrev"`
	HasNext   bool     `json:"hasNext"`
	CanSubmit bool     `json:"canSubmit"`
}
