package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"quizpad-service/internal/app"
	"quizpad-service/internal/domain"
)

// WSHandler drives one quiz attempt per connection.
type WSHandler struct {
	service  *app.QuizService
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, log logrus.FieldLogger) *WSHandler {
	return &WSHandler{
		service: service,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	Question int `json:"question"`
	Option   int `json:"option"`
}

type submitPayload struct {
	Participant string `json:"participant"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message    string `json:"message"`
	Unanswered []int  `json:"unanswered,omitempty"`
}

type notFoundPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and walks the quiz named by the id query parameter.
// The attempt lives only as long as the connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(h.log, r)
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()

	attempt, err := h.service.StartAttempt(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		if errors.Is(err, domain.ErrQuizNotFound) {
			_ = conn.WriteJSON(outboundMessage[notFoundPayload]{Type: "notFound", Payload: notFoundPayload{Message: err.Error()}})
			return
		}
		log.WithError(err).Error("start attempt")
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "request failed"}})
		return
	}

	if err := conn.WriteJSON(outboundMessage[domain.QuestionView]{Type: "question", Payload: attempt.Current()}); err != nil {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		reply, done := h.handle(r, log, attempt, inbound)
		if err := conn.WriteJSON(reply); err != nil {
			log.WithError(err).Debug("ws write failed")
			return
		}
		if done {
			return
		}
	}
}

// handle applies one inbound message and returns the reply. done reports that
// the attempt has been submitted and the connection can close.
func (h *WSHandler) handle(r *http.Request, log logrus.FieldLogger, attempt *app.Attempt, inbound inboundMessage) (outboundMessage[any], bool) {
	switch inbound.Type {
	case "select":
		var payload selectPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return wsError("invalid select payload"), false
		}
		if err := app.CheckOption(attempt.Quiz(), payload.Question, payload.Option); err != nil {
			return wsFailure(log, err), false
		}
		if err := attempt.Select(payload.Question, payload.Option); err != nil {
			return wsFailure(log, err), false
		}
	case "next", "prev":
		direction := app.Forward
		if inbound.Type == "prev" {
			direction = app.Backward
		}
		if err := attempt.Advance(direction); err != nil {
			return wsFailure(log, err), false
		}
	case "submit":
		var payload submitPayload
		if len(inbound.Payload) > 0 {
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				return wsError("invalid submit payload"), false
			}
		}
		result, err := h.service.SubmitAttempt(r.Context(), attempt, payload.Participant)
		if err != nil {
			return wsFailure(log, err), false
		}
		return outboundMessage[any]{Type: "result", Payload: result}, true
	default:
		return wsError("unsupported message type"), false
	}
	return outboundMessage[any]{Type: "question", Payload: attempt.Current()}, false
}

func wsError(message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
}

func wsFailure(log logrus.FieldLogger, err error) outboundMessage[any] {
	if errorStatus(err) == http.StatusInternalServerError {
		log.WithError(err).Error("ws request failed")
		return wsError("request failed")
	}
	body := errorBody(err)
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: body.Error, Unanswered: body.Unanswered}}
}
