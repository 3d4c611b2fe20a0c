package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMatchesKindAndReason(t *testing.T) {
	wrapped := fmt.Errorf("submit: %w", ErrQuizCompleted)

	if !errors.Is(wrapped, ErrConflict) {
		t.Fatalf("expected conflict kind to match")
	}
	if !errors.Is(wrapped, ErrQuizCompleted) {
		t.Fatalf("expected specific reason to match")
	}
	if errors.Is(wrapped, ErrQuizNotCompleted) {
		t.Fatalf("different reason must not match")
	}
	if errors.Is(wrapped, ErrValidation) {
		t.Fatalf("different kind must not match")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("dictionary_too_small", "dictionary must have at least %d words", 2)
	if err.Error() != "dictionary must have at least 2 words" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation kind")
	}
}

func TestQuestionTypeValid(t *testing.T) {
	for _, qt := range []QuestionType{QuestionTypeTranslation, QuestionTypeWriting, QuestionTypePronunciation, QuestionTypeMixed} {
		if !qt.Valid() {
			t.Fatalf("expected %q valid", qt)
		}
	}
	if QuestionType("spelling").Valid() {
		t.Fatalf("unexpected valid type")
	}
}
