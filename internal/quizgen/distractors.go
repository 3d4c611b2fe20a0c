package quizgen

import "vocab-quiz-service/internal/domain"

// MaxDistractors caps the wrong answers offered per question.
const MaxDistractors = 3

// Choices builds the shuffled choice list for one question: the correct answer
// plus up to MaxDistractors distinct, non-empty answers drawn from the pool.
// Fewer distractors are returned when the pool cannot supply them.
func Choices(rnd Source, correct string, pool []domain.Word, t domain.QuestionType) []string {
	seen := map[string]struct{}{correct: {}}
	candidates := make([]string, 0, len(pool))
	for _, w := range pool {
		a := AnswerFor(w, t)
		if a == "" {
			continue
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		candidates = append(candidates, a)
	}

	rnd.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	if len(candidates) > MaxDistractors {
		candidates = candidates[:MaxDistractors]
	}

	choices := append(candidates, correct)
	rnd.Shuffle(len(choices), func(i, j int) { choices[i], choices[j] = choices[j], choices[i] })
	return choices
}
