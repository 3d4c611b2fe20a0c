package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
)

type QuizHandler struct {
	service *app.QuizService
	log     *zap.Logger
}

func NewQuizHandler(service *app.QuizService, log *zap.Logger) *QuizHandler {
	return &QuizHandler{service: service, log: log}
}

type quizResponse struct {
	Quiz      domain.Quiz       `json:"quiz"`
	Questions []domain.Question `json:"questions"`
}

type submitRequest struct {
	Answers []domain.Answer `json:"answers"`
}

type submitResponse struct {
	Result    domain.QuizResultSummary `json:"result"`
	Questions []domain.Question        `json:"questions"`
}

func (h *QuizHandler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{quizID}", h.get)
	r.Post("/{quizID}/submit", h.submit)
	r.Get("/{quizID}/result", h.result)
}

func (h *QuizHandler) create(w http.ResponseWriter, r *http.Request) {
	var req app.CreateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.log, domain.NewValidationError("invalid_body", "invalid request body"))
		return
	}
	quiz, questions, err := h.service.CreateQuiz(r.Context(), UserIDFromContext(r.Context()), req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, quizResponse{Quiz: quiz, Questions: questions})
}

func (h *QuizHandler) list(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.service.ListQuizzes(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if quizzes == nil {
		quizzes = []domain.Quiz{}
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func (h *QuizHandler) get(w http.ResponseWriter, r *http.Request) {
	quiz, questions, err := h.service.GetQuiz(r.Context(), chi.URLParam(r, "quizID"), UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, quizResponse{Quiz: quiz, Questions: questions})
}

func (h *QuizHandler) submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.log, domain.NewValidationError("invalid_body", "invalid request body"))
		return
	}
	result, questions, err := h.service.SubmitAnswers(r.Context(), chi.URLParam(r, "quizID"), UserIDFromContext(r.Context()), req.Answers)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{Result: result, Questions: questions})
}

func (h *QuizHandler) result(w http.ResponseWriter, r *http.Request) {
	quiz, questions, err := h.service.GetResult(r.Context(), chi.URLParam(r, "quizID"), UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, quizResponse{Quiz: quiz, Questions: questions})
}
