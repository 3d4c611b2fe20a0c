package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"vocab-quiz-service/internal/app"
)

type StatsHandler struct {
	service *app.StatisticsService
	log     *zap.Logger
}

func NewStatsHandler(service *app.StatisticsService, log *zap.Logger) *StatsHandler {
	return &StatsHandler{service: service, log: log}
}

func (h *StatsHandler) Routes(r chi.Router) {
	r.Get("/user-summary", h.userSummary)
	r.Get("/dictionary-summary", h.dictionarySummary)
}

func (h *StatsHandler) userSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.UserSummary(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *StatsHandler) dictionarySummary(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.DictionarySummary(r.Context(), UserIDFromContext(r.Context()), r.URL.Query().Get("dictionaryId"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
