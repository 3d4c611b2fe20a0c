package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/quizgen"
)

// Routing keys for quiz lifecycle events.
const (
	EventQuizCreated   = "quiz.created"
	EventQuizCompleted = "quiz.completed"
)

// CreateQuizRequest is the input of QuizService.CreateQuiz.
type CreateQuizRequest struct {
	DictionaryID string              `json:"dictionaryId"`
	QuestionType domain.QuestionType `json:"questionType"`
	WordCount    int                 `json:"wordCount"`
}

// QuizEvent is the payload published on quiz lifecycle changes.
type QuizEvent struct {
	QuizID       string                    `json:"quizId"`
	UserID       string                    `json:"userId"`
	DictionaryID string                    `json:"dictionaryId"`
	QuestionType domain.QuestionType       `json:"questionType"`
	WordCount    int                       `json:"wordCount"`
	Result       *domain.QuizResultSummary `json:"result,omitempty"`
	OccurredAt   time.Time                 `json:"occurredAt"`
}

// Option customizes a QuizService.
type Option func(*QuizService)

// WithEvents publishes lifecycle events through p.
func WithEvents(p EventPublisher) Option {
	return func(s *QuizService) { s.events = p }
}

// WithMetrics records lifecycle metrics through m.
func WithMetrics(m Metrics) Option {
	return func(s *QuizService) { s.metrics = m }
}

// WithMinWords overrides the smallest dictionary a quiz can be built from.
func WithMinWords(n int) Option {
	return func(s *QuizService) { s.minWords = n }
}

// WithStrictAnswerCount rejects submissions that do not answer every question.
func WithStrictAnswerCount(strict bool) Option {
	return func(s *QuizService) { s.strictAnswerCount = strict }
}

// WithClock is for deterministic timestamps in tests.
func WithClock(now func() time.Time) Option {
	return func(s *QuizService) { s.now = now }
}

// WithRand is for deterministic generation in tests. The factory is called once per request.
func WithRand(newRand func() quizgen.Source) Option {
	return func(s *QuizService) { s.newRand = newRand }
}

// QuizService contains the quiz use cases: creation, fetching and grading.
type QuizService struct {
	quizzes      QuizRepository
	words        WordRepository
	dictionaries DictionaryRepository
	locks        Locker
	events       EventPublisher
	metrics      Metrics
	log          *zap.Logger

	minWords          int
	strictAnswerCount bool
	now               func() time.Time
	newRand           func() quizgen.Source
	newID             func() string
}

func NewQuizService(quizzes QuizRepository, words WordRepository, dictionaries DictionaryRepository, locks Locker, log *zap.Logger, opts ...Option) *QuizService {
	s := &QuizService{
		quizzes:      quizzes,
		words:        words,
		dictionaries: dictionaries,
		locks:        locks,
		events:       noopPublisher{},
		metrics:      noopMetrics{},
		log:          log,
		minWords:     quizgen.DefaultMinWords,
		now:          time.Now,
		newRand:      quizgen.NewSource,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateQuiz samples words from the dictionary, builds one question per word
// and stores the quiz with all of its questions in one write.
func (s *QuizService) CreateQuiz(ctx context.Context, ownerID string, req CreateQuizRequest) (domain.Quiz, []domain.Question, error) {
	if req.DictionaryID == "" || req.QuestionType == "" || req.WordCount == 0 {
		return domain.Quiz{}, nil, domain.NewValidationError("missing_fields", "missing required fields")
	}
	if !req.QuestionType.Valid() {
		return domain.Quiz{}, nil, domain.NewValidationError("invalid_question_type", "unknown question type %q", req.QuestionType)
	}
	if req.WordCount < 0 {
		return domain.Quiz{}, nil, domain.NewValidationError("invalid_word_count", "word count must be positive")
	}

	ok, err := s.dictionaries.HasAccess(ctx, ownerID, req.DictionaryID)
	if err != nil {
		return domain.Quiz{}, nil, fmt.Errorf("check dictionary access: %w", err)
	}
	if !ok {
		return domain.Quiz{}, nil, domain.ErrDictionaryNotFound
	}

	words, err := s.words.ListWords(ctx, req.DictionaryID)
	if err != nil {
		return domain.Quiz{}, nil, fmt.Errorf("list words: %w", err)
	}

	drafts, err := quizgen.NewComposer(s.newRand(), s.minWords).Compose(words, req.QuestionType, req.WordCount)
	if err != nil {
		return domain.Quiz{}, nil, err
	}

	quiz := domain.Quiz{
		ID:           s.newID(),
		UserID:       ownerID,
		DictionaryID: req.DictionaryID,
		QuestionType: req.QuestionType,
		WordCount:    len(drafts),
		CreatedAt:    s.now().UTC(),
	}

	questions := make([]domain.Question, 0, len(drafts))
	for i, d := range drafts {
		if d.CorrectAnswer == "" {
			s.log.Warn("question generated without a correct answer",
				zap.String("quiz_id", quiz.ID),
				zap.String("word_id", d.Word.ID),
				zap.String("type", string(d.Type)))
		}
		questions = append(questions, domain.Question{
			ID:            s.newID(),
			QuizID:        quiz.ID,
			WordID:        d.Word.ID,
			Position:      i,
			Type:          d.Type,
			Prompt:        d.Prompt,
			Choices:       d.Choices,
			CorrectAnswer: d.CorrectAnswer,
		})
	}

	if err := s.quizzes.CreateQuiz(ctx, quiz, questions); err != nil {
		return domain.Quiz{}, nil, fmt.Errorf("store quiz: %w", err)
	}

	s.metrics.QuizCreated(quiz.QuestionType)
	s.publish(ctx, EventQuizCreated, quiz)
	s.log.Info("quiz created",
		zap.String("quiz_id", quiz.ID),
		zap.String("user_id", ownerID),
		zap.String("dictionary_id", quiz.DictionaryID),
		zap.Int("questions", len(questions)))
	return quiz, questions, nil
}

// ListQuizzes returns the owner's quizzes, newest first.
func (s *QuizService) ListQuizzes(ctx context.Context, ownerID string) ([]domain.Quiz, error) {
	quizzes, err := s.quizzes.ListQuizzes(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	sort.SliceStable(quizzes, func(i, j int) bool {
		return quizzes[i].CreatedAt.After(quizzes[j].CreatedAt)
	})
	return quizzes, nil
}

// GetQuiz returns an open quiz with its dictionary name filled in.
// Completed quizzes are served by GetResult instead.
func (s *QuizService) GetQuiz(ctx context.Context, quizID, ownerID string) (domain.Quiz, []domain.Question, error) {
	quiz, questions, err := s.loadOwned(ctx, quizID, ownerID)
	if err != nil {
		return domain.Quiz{}, nil, err
	}
	if quiz.Completed() {
		return domain.Quiz{}, nil, domain.ErrQuizCompleted
	}

	dict, err := s.dictionaries.GetDictionary(ctx, quiz.DictionaryID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Quiz{}, nil, domain.ErrDictionaryNotFound
		}
		return domain.Quiz{}, nil, fmt.Errorf("get dictionary: %w", err)
	}
	quiz.DictionaryName = dict.Name
	return quiz, questions, nil
}

// SubmitAnswers grades an open quiz exactly once. The read-grade-write runs under
// a per-quiz lock and the repository refuses to complete a quiz twice.
func (s *QuizService) SubmitAnswers(ctx context.Context, quizID, ownerID string, answers []domain.Answer) (domain.QuizResultSummary, []domain.Question, error) {
	if len(answers) == 0 {
		return domain.QuizResultSummary{}, nil, domain.ErrNoAnswers
	}

	unlock, err := s.locks.Lock(ctx, "quiz:"+quizID)
	if err != nil {
		return domain.QuizResultSummary{}, nil, fmt.Errorf("lock quiz: %w", err)
	}
	defer unlock()

	quiz, questions, err := s.loadOwned(ctx, quizID, ownerID)
	if err != nil {
		return domain.QuizResultSummary{}, nil, err
	}
	if quiz.Completed() {
		return domain.QuizResultSummary{}, nil, domain.ErrQuizCompleted
	}
	if s.strictAnswerCount && len(answers) != len(questions) {
		return domain.QuizResultSummary{}, nil, domain.NewValidationError("answer_count_mismatch",
			"expected %d answers, got %d", len(questions), len(answers))
	}

	graded, result := Grade(questions, answers)
	completedAt := s.now().UTC()
	quiz.CompletedAt = &completedAt
	quiz.Result = &result

	if err := s.quizzes.CompleteQuiz(ctx, quiz, graded); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.QuizResultSummary{}, nil, err
		}
		return domain.QuizResultSummary{}, nil, fmt.Errorf("store graded quiz: %w", err)
	}

	s.metrics.QuizCompleted(result)
	s.publish(ctx, EventQuizCompleted, quiz)
	s.log.Info("quiz completed",
		zap.String("quiz_id", quiz.ID),
		zap.String("user_id", ownerID),
		zap.Int("score_percent", result.ScorePercent))
	return result, graded, nil
}

// GetResult returns a completed quiz with its graded questions.
func (s *QuizService) GetResult(ctx context.Context, quizID, ownerID string) (domain.Quiz, []domain.Question, error) {
	quiz, questions, err := s.loadOwned(ctx, quizID, ownerID)
	if err != nil {
		return domain.Quiz{}, nil, err
	}
	if !quiz.Completed() || quiz.Result == nil {
		return domain.Quiz{}, nil, domain.ErrQuizNotCompleted
	}
	return quiz, questions, nil
}

// loadOwned hides quizzes of other users behind the same not-found error.
func (s *QuizService) loadOwned(ctx context.Context, quizID, ownerID string) (domain.Quiz, []domain.Question, error) {
	quiz, questions, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Quiz{}, nil, domain.ErrQuizNotFound
		}
		return domain.Quiz{}, nil, fmt.Errorf("get quiz: %w", err)
	}
	if quiz.UserID != ownerID {
		return domain.Quiz{}, nil, domain.ErrQuizNotFound
	}
	return quiz, questions, nil
}

func (s *QuizService) publish(ctx context.Context, routingKey string, quiz domain.Quiz) {
	event := QuizEvent{
		QuizID:       quiz.ID,
		UserID:       quiz.UserID,
		DictionaryID: quiz.DictionaryID,
		QuestionType: quiz.QuestionType,
		WordCount:    quiz.WordCount,
		Result:       quiz.Result,
		OccurredAt:   s.now().UTC(),
	}
	if err := s.events.Publish(ctx, routingKey, event); err != nil {
		s.log.Warn("publish event failed", zap.String("routing_key", routingKey), zap.String("quiz_id", quiz.ID), zap.Error(err))
	}
}
