package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"vocab-quiz-service/internal/app"
)

type RouterConfig struct {
	Quizzes     *app.QuizService
	Stats       *app.StatisticsService
	Auth        *Authenticator
	Log         *zap.Logger
	CORSOrigins []string
	// Gatherer serves /metrics; prometheus.DefaultGatherer when nil.
	Gatherer prometheus.Gatherer
	// RequestTimeout bounds /api handlers; defaultRequestTimeout when zero.
	RequestTimeout time.Duration
}

const defaultRequestTimeout = 10 * time.Second

// NewRouter wires the REST API, the quiz WebSocket runner, health and metrics.
func NewRouter(cfg RouterConfig) http.Handler {
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(cfg.Log), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	quizzes := NewQuizHandler(cfg.Quizzes, cfg.Log)
	stats := NewStatsHandler(cfg.Stats, cfg.Log)
	ws := NewWSHandler(cfg.Quizzes, cfg.Log)

	r.Group(func(pr chi.Router) {
		pr.Use(cfg.Auth.Middleware)
		pr.Route("/api", func(api chi.Router) {
			api.Use(middleware.Timeout(requestTimeout))
			api.Route("/quizzes", quizzes.Routes)
			api.Route("/statistics", stats.Routes)
		})
		pr.Get("/ws/quizzes/{quizID}", ws.ServeWS)
	})
	return r
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
