// Package quizgen turns dictionary words into multiple-choice questions.
//
// Everything here is pure: callers pass the word pool and a random Source,
// and nothing is persisted. Tests drive the Source deterministically.
package quizgen

import (
	"math/rand"
	"time"

	"vocab-quiz-service/internal/domain"
)

// DefaultMinWords is the smallest dictionary a quiz can be generated from.
const DefaultMinWords = 2

// Source is the randomness used for sampling, type coin flips and shuffles.
// *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewSource returns a time-seeded PRNG. It is not safe for concurrent use;
// build one per request.
func NewSource() Source {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Sample picks min(n, len(pool)) distinct words uniformly without replacement.
// The size precondition is checked before any randomness is consumed.
func Sample(rnd Source, pool []domain.Word, n, minWords int) ([]domain.Word, error) {
	if len(pool) < minWords {
		return nil, domain.NewValidationError("dictionary_too_small", "dictionary must have at least %d words", minWords)
	}
	if n <= 0 {
		return nil, domain.NewValidationError("invalid_word_count", "word count must be positive")
	}

	picked := make([]domain.Word, len(pool))
	copy(picked, pool)

	k := n
	if k > len(picked) {
		k = len(picked)
	}
	// partial Fisher-Yates: the first k slots end up a uniform sample
	for i := 0; i < k; i++ {
		j := i + rnd.Intn(len(picked)-i)
		picked[i], picked[j] = picked[j], picked[i]
	}
	return picked[:k], nil
}
