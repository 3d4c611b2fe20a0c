package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// WSHandler runs one quiz attempt over a WebSocket: the client receives the
// questions, answers them one by one and submits once.
type WSHandler struct {
	service  *app.QuizService
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, log *zap.Logger) *WSHandler {
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

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// questionView hides the correct answer from the client.
type questionView struct {
	ID       string              `json:"id"`
	Position int                 `json:"position"`
	Type     domain.QuestionType `json:"type"`
	Prompt   string              `json:"prompt"`
	Choices  []string            `json:"choices"`
}

type quizPayload struct {
	Quiz      domain.Quiz    `json:"quiz"`
	Questions []questionView `json:"questions"`
}

type answeredPayload struct {
	QuestionID string `json:"questionId"`
	Answered   int    `json:"answered"`
	Total      int    `json:"total"`
}

type errorPayload struct {
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

// ServeWS checks the quiz before upgrading so lookup failures keep their HTTP status.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizID")
	userID := UserIDFromContext(r.Context())

	quiz, questions, err := h.service.GetQuiz(r.Context(), quizID, userID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case msg, ok := <-send:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if !ok {
					_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
					return
				}
				if err := conn.WriteJSON(msg); err != nil {
					h.log.Debug("ws write error", zap.String("quiz_id", quizID), zap.Error(err))
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	emit := func(typ string, payload any) {
		select {
		case send <- outboundMessage[any]{Type: typ, Payload: payload}:
		case <-writerDone:
		}
	}

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	known := make(map[string]bool, len(questions))
	views := make([]questionView, 0, len(questions))
	for _, q := range questions {
		known[q.ID] = true
		views = append(views, questionView{ID: q.ID, Position: q.Position, Type: q.Type, Prompt: q.Prompt, Choices: q.Choices})
	}
	emit("quiz", quizPayload{Quiz: quiz, Questions: views})

	// latest answer per question, in first-answered order
	answers := make(map[string]string, len(questions))
	var order []string

loop:
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload domain.Answer
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emit("error", errorPayload{Message: "invalid answer payload", Reason: "invalid_body"})
				continue
			}
			if !known[payload.QuestionID] {
				emit("error", errorPayload{Message: "unknown question", Reason: "unknown_question"})
				continue
			}
			if _, seen := answers[payload.QuestionID]; !seen {
				order = append(order, payload.QuestionID)
			}
			answers[payload.QuestionID] = payload.Answer
			emit("answered", answeredPayload{QuestionID: payload.QuestionID, Answered: len(answers), Total: len(questions)})
		case "submit":
			submitted := make([]domain.Answer, 0, len(order))
			for _, id := range order {
				submitted = append(submitted, domain.Answer{QuestionID: id, Answer: answers[id]})
			}
			result, graded, err := h.service.SubmitAnswers(r.Context(), quizID, userID, submitted)
			if err != nil {
				emit("error", wsError(h.log, err))
				continue
			}
			emit("result", submitResponse{Result: result, Questions: graded})
			break loop
		default:
			emit("error", errorPayload{Message: "unsupported message type", Reason: "unsupported_type"})
		}
	}

	close(send)
	<-writerDone
}

func wsError(log *zap.Logger, err error) errorPayload {
	var de *domain.Error
	if errors.As(err, &de) {
		return errorPayload{Message: de.Error(), Reason: de.Reason}
	}
	log.Error("ws request failed", zap.Error(err))
	return errorPayload{Message: "internal server error", Reason: "internal_error"}
}
