package domain

import "fmt"

// Kind classifies an Error for callers that only care about the category.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
)

// Error is a caller-visible rejection with a short machine-checkable reason.
type Error struct {
	Kind    Kind
	Reason  string
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}

// Is matches on kind, and on reason too when the target carries one,
// so errors.Is(err, ErrConflict) and errors.Is(err, ErrQuizCompleted) both work.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

var (
	// ErrValidation matches any validation failure.
	ErrValidation = &Error{Kind: KindValidation}
	// ErrNotFound matches any not-found failure.
	ErrNotFound = &Error{Kind: KindNotFound}
	// ErrConflict matches any lifecycle violation.
	ErrConflict = &Error{Kind: KindConflict}

	// ErrQuizNotFound is returned when a quiz is absent or owned by someone else.
	ErrQuizNotFound = &Error{Kind: KindNotFound, Reason: "quiz_not_found", Message: "quiz not found"}
	// ErrDictionaryNotFound is returned when a dictionary is absent or not accessible.
	ErrDictionaryNotFound = &Error{Kind: KindNotFound, Reason: "dictionary_not_found", Message: "dictionary not found"}
	// ErrQuizCompleted is returned when submitting or fetching an already completed quiz.
	ErrQuizCompleted = &Error{Kind: KindConflict, Reason: "quiz_already_completed", Message: "quiz already completed"}
	// ErrQuizNotCompleted is returned when asking for the result of an open quiz.
	ErrQuizNotCompleted = &Error{Kind: KindConflict, Reason: "quiz_not_completed", Message: "quiz not yet completed"}
	// ErrNoAnswers is returned when a submission carries no answers.
	ErrNoAnswers = &Error{Kind: KindValidation, Reason: "no_answers", Message: "no answers provided"}
)

// NewValidationError builds a validation error with a formatted message.
func NewValidationError(reason, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Reason: reason, Message: fmt.Sprintf(format, args...)}
}
