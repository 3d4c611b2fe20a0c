package app

import (
	"context"

	"vocab-quiz-service/internal/domain"
)

// QuizRepository stores the quiz aggregate: a quiz and its questions are
// created together and completed together.
type QuizRepository interface {
	// CreateQuiz persists a new quiz with all of its questions, or nothing.
	CreateQuiz(ctx context.Context, quiz domain.Quiz, questions []domain.Question) error
	// GetQuiz returns the quiz and its questions ordered by position,
	// or domain.ErrQuizNotFound.
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, []domain.Question, error)
	// ListQuizzes returns every quiz owned by userID, in any order.
	ListQuizzes(ctx context.Context, userID string) ([]domain.Quiz, error)
	// ListQuestions returns the questions of the given quizzes, in any order.
	ListQuestions(ctx context.Context, quizIDs []string) ([]domain.Question, error)
	// CompleteQuiz writes the graded questions and the completed quiz. It must
	// fail with domain.ErrQuizCompleted when the stored quiz is already completed.
	CompleteQuiz(ctx context.Context, quiz domain.Quiz, questions []domain.Question) error
}

// WordRepository reads dictionary words.
type WordRepository interface {
	ListWords(ctx context.Context, dictionaryID string) ([]domain.Word, error)
}

// DictionaryRepository reads dictionaries and access grants.
type DictionaryRepository interface {
	// GetDictionary returns the dictionary or domain.ErrDictionaryNotFound.
	GetDictionary(ctx context.Context, dictionaryID string) (domain.Dictionary, error)
	HasAccess(ctx context.Context, userID, dictionaryID string) (bool, error)
}

// Locker serializes work on one key (in-process or across instances).
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// EventPublisher announces quiz lifecycle changes.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Metrics records quiz lifecycle counters.
type Metrics interface {
	QuizCreated(questionType domain.QuestionType)
	QuizCompleted(result domain.QuizResultSummary)
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, any) error { return nil }

type noopMetrics struct{}

func (noopMetrics) QuizCreated(domain.QuestionType) {}
func (noopMetrics) QuizCompleted(domain.QuizResultSummary) {}
