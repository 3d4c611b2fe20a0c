package app

import (
	"math"

	"vocab-quiz-service/internal/domain"
)

// Grade marks every question against the submitted answers and summarizes the
// attempt. The first answer for a question wins; unanswered questions and
// questions with an empty correct answer count as incorrect. Comparison is
// exact and case-sensitive.
func Grade(questions []domain.Question, answers []domain.Answer) ([]domain.Question, domain.QuizResultSummary) {
	submitted := make(map[string]string, len(answers))
	for _, a := range answers {
		if _, dup := submitted[a.QuestionID]; !dup {
			submitted[a.QuestionID] = a.Answer
		}
	}

	graded := make([]domain.Question, len(questions))
	correct := 0
	for i, q := range questions {
		q.UserAnswer = nil
		answer, answered := submitted[q.ID]
		if answered {
			q.UserAnswer = &answer
		}
		isCorrect := answered && q.CorrectAnswer != "" && answer == q.CorrectAnswer
		q.IsCorrect = &isCorrect
		if isCorrect {
			correct++
		}
		graded[i] = q
	}

	total := len(questions)
	return graded, domain.QuizResultSummary{
		CorrectCount:   correct,
		IncorrectCount: total - correct,
		TotalCount:     total,
		ScorePercent:   percent(correct, total),
	}
}

// percent is round(part/total*100), 0 for an empty total.
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}
