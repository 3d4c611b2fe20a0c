package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"vocab-quiz-service/internal/domain"
)

func TestStoreQuizLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	quiz, questions := sampleQuiz()
	if err := store.CreateQuiz(ctx, quiz, questions); err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	got, gotQuestions, err := store.GetQuiz(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if got.ID != "quiz-1" || len(gotQuestions) != 2 {
		t.Fatalf("unexpected quiz %+v with %d questions", got, len(gotQuestions))
	}

	now := time.Now()
	got.CompletedAt = &now
	got.Result = &domain.QuizResultSummary{CorrectCount: 1, IncorrectCount: 1, TotalCount: 2, ScorePercent: 50}
	if err := store.CompleteQuiz(ctx, got, gotQuestions); err != nil {
		t.Fatalf("complete quiz: %v", err)
	}

	if err := store.CompleteQuiz(ctx, got, gotQuestions); !errors.Is(err, domain.ErrQuizCompleted) {
		t.Fatalf("expected second completion to conflict, got %v", err)
	}
}

func TestStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	quiz, questions := sampleQuiz()
	_ = store.CreateQuiz(ctx, quiz, questions)

	_, got, _ := store.GetQuiz(ctx, "quiz-1")
	got[0].Prompt = "mutated"

	_, again, _ := store.GetQuiz(ctx, "quiz-1")
	if again[0].Prompt != "猫" {
		t.Fatalf("store leaked internal slice, prompt %q", again[0].Prompt)
	}
}

func TestStoreGetQuizNotFound(t *testing.T) {
	_, _, err := NewStore().GetQuiz(context.Background(), "missing")
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStoreWordsAndAccess(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	_ = store.SaveDictionary(ctx, domain.Dictionary{ID: "d1", Name: "Japanese"})
	_ = store.GrantAccess(ctx, "u1", "d1")
	_ = store.SaveWord(ctx, domain.Word{ID: "w1", DictionaryID: "d1", Writing: "猫", Translation: "cat"})
	_ = store.SaveWord(ctx, domain.Word{ID: "w2", DictionaryID: "d2", Writing: "犬", Translation: "dog"})
	_ = store.SaveWord(ctx, domain.Word{ID: "w1", DictionaryID: "d1", Writing: "猫", Translation: "kitty"})

	words, _ := store.ListWords(ctx, "d1")
	if len(words) != 1 || words[0].Translation != "kitty" {
		t.Fatalf("expected replaced word, got %+v", words)
	}

	if ok, _ := store.HasAccess(ctx, "u1", "d1"); !ok {
		t.Fatalf("expected access")
	}
	if ok, _ := store.HasAccess(ctx, "u2", "d1"); ok {
		t.Fatalf("unexpected access for u2")
	}
	if _, err := store.GetDictionary(ctx, "d2"); !errors.Is(err, domain.ErrDictionaryNotFound) {
		t.Fatalf("expected dictionary not found, got %v", err)
	}
}

func sampleQuiz() (domain.Quiz, []domain.Question) {
	quiz := domain.Quiz{
		ID:           "quiz-1",
		UserID:       "u1",
		DictionaryID: "d1",
		QuestionType: domain.QuestionTypeTranslation,
		WordCount:    2,
		CreatedAt:    time.Now(),
	}
	questions := []domain.Question{
		{ID: "q1", QuizID: "quiz-1", WordID: "w1", Position: 0, Type: domain.QuestionTypeTranslation, Prompt: "猫", Choices: []string{"cat", "dog"}, CorrectAnswer: "cat"},
		{ID: "q2", QuizID: "quiz-1", WordID: "w2", Position: 1, Type: domain.QuestionTypeTranslation, Prompt: "犬", Choices: []string{"dog", "cat"}, CorrectAnswer: "dog"},
	}
	return quiz, questions
}
