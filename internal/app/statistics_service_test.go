package app_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/infra/memory"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// outcome of one graded question: word, answered, correct.
type outcome struct {
	wordID   string
	answered bool
	correct  bool
}

func TestUserSummaryAveragesAndPerfectScores(t *testing.T) {
	store := memory.NewStore()
	storeGraded(t, store, "qa", "u1", "d1", base, 100, outcome{"w1", true, true}, outcome{"w2", true, true})
	storeGraded(t, store, "qb", "u1", "d1", base.Add(time.Hour), 50, outcome{"w1", true, true}, outcome{"w3", true, false})
	storeOpen(t, store, "qc", "u1", "d1", base.Add(2*time.Hour))

	summary, err := newStats(store).UserSummary(context.Background(), "u1")
	if err != nil {
		t.Fatalf("user summary: %v", err)
	}

	want := domain.UserSummary{
		UserID:              "u1",
		TotalQuizzes:        2,
		PerfectScores:       1,
		TotalMistakes:       1,
		MostMissedWordIDs:   []string{"w3"},
		AverageScorePercent: 75,
	}
	if !reflect.DeepEqual(summary, want) {
		t.Fatalf("expected %+v, got %+v", want, summary)
	}
}

func TestUserSummaryMostMissed(t *testing.T) {
	store := memory.NewStore()
	storeGraded(t, store, "q1", "u1", "d1", base, 0,
		outcome{"w1", true, false}, outcome{"w2", false, false}, outcome{"w3", true, false},
		outcome{"", true, false}, outcome{"w4", true, false}, outcome{"w5", true, false})
	storeGraded(t, store, "q2", "u1", "d1", base.Add(time.Hour), 0,
		outcome{"w6", true, false}, outcome{"w5", true, false}, outcome{"w3", false, false})
	// another user's misses never count
	storeGraded(t, store, "q3", "u2", "d1", base, 0, outcome{"w9", true, false}, outcome{"w9", true, false})

	summary, err := newStats(store).UserSummary(context.Background(), "u1")
	if err != nil {
		t.Fatalf("user summary: %v", err)
	}

	// empty word ids still count as mistakes
	if summary.TotalMistakes != 9 {
		t.Fatalf("expected 9 mistakes, got %d", summary.TotalMistakes)
	}
	if want := []string{"w3", "w5", "w1", "w2", "w4"}; !reflect.DeepEqual(summary.MostMissedWordIDs, want) {
		t.Fatalf("expected most missed %v, got %v", want, summary.MostMissedWordIDs)
	}
	if summary.AverageScorePercent != 0 {
		t.Fatalf("expected 0 average, got %d", summary.AverageScorePercent)
	}
}

func TestUserSummaryWithoutQuizzes(t *testing.T) {
	summary, err := newStats(memory.NewStore()).UserSummary(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("user summary: %v", err)
	}
	if summary.TotalQuizzes != 0 {
		t.Fatalf("expected no quizzes, got %d", summary.TotalQuizzes)
	}
	if summary.MostMissedWordIDs == nil || len(summary.MostMissedWordIDs) != 0 {
		t.Fatalf("expected empty non-nil most missed, got %#v", summary.MostMissedWordIDs)
	}
}

func TestDictionarySummary(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	for _, w := range []domain.Word{
		{ID: "w1", DictionaryID: "d1", CreatedBy: "u1", IsLearned: true},
		{ID: "w2", DictionaryID: "d1", CreatedBy: "u1"},
		{ID: "w3", DictionaryID: "d1", CreatedBy: "u1"},
		{ID: "w4", DictionaryID: "d1", CreatedBy: "u2", IsLearned: true},
		{ID: "w5", DictionaryID: "d2", CreatedBy: "u1", IsLearned: true},
	} {
		if err := store.SaveWord(ctx, w); err != nil {
			t.Fatalf("save word: %v", err)
		}
	}
	storeGraded(t, store, "qa", "u1", "d1", base, 100, outcome{"w1", true, true})
	storeGraded(t, store, "qb", "u1", "d1", base.Add(time.Hour), 33, outcome{"w2", true, false})
	storeGraded(t, store, "qc", "u1", "d2", base, 0, outcome{"w5", true, false})
	storeOpen(t, store, "qd", "u1", "d1", base)

	stats, err := newStats(store).DictionarySummary(ctx, "u1", "d1")
	if err != nil {
		t.Fatalf("dictionary summary: %v", err)
	}

	want := domain.DictionaryStats{
		DictionaryID:      "d1",
		TotalWords:        3,
		LearnedWords:      1,
		PercentageLearned: 33,
		QuizzesTaken:      2,
		AverageQuizScore:  67,
	}
	if stats != want {
		t.Fatalf("expected %+v, got %+v", want, stats)
	}
}

func TestDictionarySummaryEmptyAndMissing(t *testing.T) {
	service := newStats(memory.NewStore())

	stats, err := service.DictionarySummary(context.Background(), "u1", "empty")
	if err != nil {
		t.Fatalf("dictionary summary: %v", err)
	}
	if stats != (domain.DictionaryStats{DictionaryID: "empty"}) {
		t.Fatalf("expected zero stats, got %+v", stats)
	}

	if _, err := service.DictionarySummary(context.Background(), "u1", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func newStats(store *memory.Store) *app.StatisticsService {
	return app.NewStatisticsService(store, store, zap.NewNop())
}

func storeOpen(t *testing.T, store *memory.Store, id, userID, dictionaryID string, createdAt time.Time) {
	t.Helper()
	quiz := domain.Quiz{ID: id, UserID: userID, DictionaryID: dictionaryID, QuestionType: domain.QuestionTypeTranslation, CreatedAt: createdAt}
	if err := store.CreateQuiz(context.Background(), quiz, nil); err != nil {
		t.Fatalf("create quiz: %v", err)
	}
}

func storeGraded(t *testing.T, store *memory.Store, id, userID, dictionaryID string, createdAt time.Time, score int, outcomes ...outcome) {
	t.Helper()
	ctx := context.Background()

	questions := make([]domain.Question, len(outcomes))
	correct := 0
	for i, o := range outcomes {
		q := domain.Question{
			ID:            id + "-" + string(rune('a'+i)),
			QuizID:        id,
			WordID:        o.wordID,
			Position:      i,
			Type:          domain.QuestionTypeTranslation,
			CorrectAnswer: "right",
		}
		isCorrect := o.correct
		if o.answered {
			answer := "wrong"
			if o.correct {
				answer = "right"
				correct++
			}
			q.UserAnswer = &answer
			q.IsCorrect = &isCorrect
		}
		questions[i] = q
	}

	quiz := domain.Quiz{
		ID:           id,
		UserID:       userID,
		DictionaryID: dictionaryID,
		QuestionType: domain.QuestionTypeTranslation,
		WordCount:    len(outcomes),
		CreatedAt:    createdAt,
	}
	if err := store.CreateQuiz(ctx, quiz, nil); err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	completedAt := createdAt.Add(time.Minute)
	quiz.CompletedAt = &completedAt
	quiz.Result = &domain.QuizResultSummary{
		CorrectCount:   correct,
		IncorrectCount: len(outcomes) - correct,
		TotalCount:     len(outcomes),
		ScorePercent:   score,
	}
	if err := store.CompleteQuiz(ctx, quiz, questions); err != nil {
		t.Fatalf("complete quiz: %v", err)
	}
}
