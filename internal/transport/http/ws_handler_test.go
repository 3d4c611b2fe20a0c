package http

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
)

func TestWebSocketQuizRun(t *testing.T) {
	env := newTestEnv(t)
	quiz, questions, err := env.quizzes.CreateQuiz(context.Background(), "u1", app.CreateQuizRequest{
		DictionaryID: "d1",
		QuestionType: domain.QuestionTypeTranslation,
		WordCount:    3,
	})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	conn := dialQuiz(t, env, quiz.ID, env.token(t, "u1"))
	defer conn.Close()

	msgType, payload := readNext(t, conn, "quiz")
	if msgType != "quiz" {
		t.Fatalf("expected quiz, got %s", msgType)
	}
	sent, _ := payload["questions"].([]any)
	if len(sent) != len(questions) {
		t.Fatalf("expected %d questions, got %d", len(questions), len(sent))
	}
	for _, q := range sent {
		if _, leaked := q.(map[string]any)["correctAnswer"]; leaked {
			t.Fatalf("correct answer sent to client: %v", q)
		}
	}

	// A wrong first answer is replaced by the later one.
	sendMessage(t, conn, "answer", domain.Answer{QuestionID: questions[0].ID, Answer: "wrong"})
	readNext(t, conn, "answered")
	for _, q := range questions {
		sendMessage(t, conn, "answer", domain.Answer{QuestionID: q.ID, Answer: q.CorrectAnswer})
		_, answered := readNext(t, conn, "answered")
		if answered["total"] != float64(len(questions)) {
			t.Fatalf("unexpected answered payload %v", answered)
		}
	}

	sendMessage(t, conn, "answer", domain.Answer{QuestionID: "nope", Answer: "cat"})
	_, errPayload := readNext(t, conn, "error")
	if errPayload["reason"] != "unknown_question" {
		t.Fatalf("expected unknown_question, got %v", errPayload)
	}

	sendMessage(t, conn, "submit", nil)
	_, result := readNext(t, conn, "result")
	summary, _ := result["result"].(map[string]any)
	if summary["scorePercent"] != float64(100) {
		t.Fatalf("expected perfect score, got %v", summary)
	}

	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("expected normal close, got %v", err)
	}

	if _, _, err := env.quizzes.GetResult(context.Background(), quiz.ID, "u1"); err != nil {
		t.Fatalf("quiz not completed after ws submit: %v", err)
	}
}

func TestWebSocketSubmitWithoutAnswers(t *testing.T) {
	env := newTestEnv(t)
	quiz, _, err := env.quizzes.CreateQuiz(context.Background(), "u1", app.CreateQuizRequest{
		DictionaryID: "d1",
		QuestionType: domain.QuestionTypeWriting,
		WordCount:    2,
	})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	conn := dialQuiz(t, env, quiz.ID, env.token(t, "u1"))
	defer conn.Close()
	readNext(t, conn, "quiz")

	sendMessage(t, conn, "submit", nil)
	_, payload := readNext(t, conn, "error")
	if payload["reason"] != "no_answers" {
		t.Fatalf("expected no_answers, got %v", payload)
	}

	sendMessage(t, conn, "shout", nil)
	readNext(t, conn, "error")
}

func TestWebSocketRejectsForeignQuiz(t *testing.T) {
	env := newTestEnv(t)
	quiz, _, err := env.quizzes.CreateQuiz(context.Background(), "u1", app.CreateQuizRequest{
		DictionaryID: "d1",
		QuestionType: domain.QuestionTypeTranslation,
		WordCount:    2,
	})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(env, quiz.ID, env.token(t, "u2")), nil)
	if err == nil {
		t.Fatalf("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %+v", resp)
	}
}

func dialQuiz(t *testing.T, env *testEnv, quizID, token string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(env, quizID, token), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func wsURL(env *testEnv, quizID, token string) string {
	return "ws" + strings.TrimPrefix(env.server.URL, "http") + "/ws/quizzes/" + quizID + "?token=" + token
}

func sendMessage(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func readNext(t *testing.T, conn *websocket.Conn, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s (%v)", expect, msg.Type, msg.Payload)
	}
	return msg.Type, msg.Payload
}
