package quizgen

import "vocab-quiz-service/internal/domain"

// Draft is a generated question before it gets identifiers.
type Draft struct {
	Word domain.Word
	Resolution
	Choices []string
}

// Composer wires sampling, type resolution and distractor generation.
type Composer struct {
	MinWords int
	Rand     Source
}

// NewComposer returns a composer with the given minimum pool size.
func NewComposer(rnd Source, minWords int) *Composer {
	if minWords <= 0 {
		minWords = DefaultMinWords
	}
	return &Composer{MinWords: minWords, Rand: rnd}
}

// Compose samples wordCount words from pool and builds one draft per word,
// in sampling order. Distractors are drawn from the whole pool.
func (c *Composer) Compose(pool []domain.Word, questionType domain.QuestionType, wordCount int) ([]Draft, error) {
	if !questionType.Valid() {
		return nil, domain.NewValidationError("invalid_question_type", "unknown question type %q", questionType)
	}

	words, err := Sample(c.Rand, pool, wordCount, c.MinWords)
	if err != nil {
		return nil, err
	}

	drafts := make([]Draft, 0, len(words))
	for _, w := range words {
		res := Resolve(c.Rand, w, questionType)
		drafts = append(drafts, Draft{
			Word:       w,
			Resolution: res,
			Choices:    Choices(c.Rand, res.CorrectAnswer, pool, res.Type),
		})
	}
	return drafts, nil
}
