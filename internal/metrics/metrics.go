package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"vocab-quiz-service/internal/domain"
)

// Quiz records quiz lifecycle metrics.
type Quiz struct {
	created   *prometheus.CounterVec
	completed prometheus.Counter
	score     prometheus.Histogram
}

// NewQuiz registers the collectors on reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func NewQuiz(reg prometheus.Registerer) *Quiz {
	factory := promauto.With(reg)
	return &Quiz{
		created: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vocabquiz_quizzes_created_total",
				Help: "Quizzes created, by requested question type.",
			},
			[]string{"type"},
		),
		completed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vocabquiz_quizzes_completed_total",
				Help: "Quizzes graded.",
			},
		),
		score: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "vocabquiz_quiz_score_percent",
				Help:    "Score of graded quizzes in percent.",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
		),
	}
}

func (m *Quiz) QuizCreated(questionType domain.QuestionType) {
	m.created.WithLabelValues(string(questionType)).Inc()
}

func (m *Quiz) QuizCompleted(result domain.QuizResultSummary) {
	m.completed.Inc()
	m.score.Observe(float64(result.ScorePercent))
}
