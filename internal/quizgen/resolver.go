package quizgen

import "vocab-quiz-service/internal/domain"

var concreteTypes = []domain.QuestionType{
	domain.QuestionTypeTranslation,
	domain.QuestionTypeWriting,
	domain.QuestionTypePronunciation,
}

// Resolution is the concrete question derived from one word.
type Resolution struct {
	Type          domain.QuestionType
	Prompt        string
	CorrectAnswer string
}

// AnswerFor maps a question type to the word attribute being asked for.
func AnswerFor(w domain.Word, t domain.QuestionType) string {
	switch t {
	case domain.QuestionTypeTranslation:
		return w.Translation
	case domain.QuestionTypeWriting:
		return w.Writing
	case domain.QuestionTypePronunciation:
		return w.Pronunciation
	}
	return ""
}

// PromptFor maps a question type to the word attribute shown to the user.
// It never returns the same attribute as AnswerFor.
func PromptFor(w domain.Word, t domain.QuestionType) string {
	switch t {
	case domain.QuestionTypeTranslation:
		return w.Writing
	case domain.QuestionTypeWriting, domain.QuestionTypePronunciation:
		return w.Translation
	}
	return ""
}

// Resolve decides the concrete type for a word. Mixed picks uniformly among the
// concrete types. An empty answer falls back to translation or writing in random
// order; when both are empty the candidate type is kept with an empty answer.
func Resolve(rnd Source, w domain.Word, requested domain.QuestionType) Resolution {
	candidate := requested
	if requested == domain.QuestionTypeMixed {
		candidate = concreteTypes[rnd.Intn(len(concreteTypes))]
	}

	answer := AnswerFor(w, candidate)
	if answer == "" {
		fallbacks := make([]domain.QuestionType, 0, 2)
		for _, t := range []domain.QuestionType{domain.QuestionTypeTranslation, domain.QuestionTypeWriting} {
			if t != candidate {
				fallbacks = append(fallbacks, t)
			}
		}
		rnd.Shuffle(len(fallbacks), func(i, j int) { fallbacks[i], fallbacks[j] = fallbacks[j], fallbacks[i] })
		for _, t := range fallbacks {
			if alt := AnswerFor(w, t); alt != "" {
				candidate, answer = t, alt
				break
			}
		}
	}

	return Resolution{
		Type:          candidate,
		Prompt:        PromptFor(w, candidate),
		CorrectAnswer: answer,
	}
}
