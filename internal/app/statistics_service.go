package app

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"vocab-quiz-service/internal/domain"
)

const mostMissedLimit = 5

// StatisticsService derives progress metrics by rescanning stored quizzes and words.
type StatisticsService struct {
	quizzes QuizRepository
	words   WordRepository
	log     *zap.Logger
}

func NewStatisticsService(quizzes QuizRepository, words WordRepository, log *zap.Logger) *StatisticsService {
	return &StatisticsService{quizzes: quizzes, words: words, log: log}
}

// UserSummary aggregates every completed quiz of the owner.
func (s *StatisticsService) UserSummary(ctx context.Context, ownerID string) (domain.UserSummary, error) {
	completed, err := s.completedQuizzes(ctx, ownerID, "")
	if err != nil {
		return domain.UserSummary{}, err
	}

	summary := domain.UserSummary{
		UserID:            ownerID,
		TotalQuizzes:      len(completed),
		MostMissedWordIDs: []string{},
	}
	if len(completed) == 0 {
		return summary, nil
	}

	ids := make([]string, len(completed))
	totalScore := 0
	for i, q := range completed {
		ids[i] = q.ID
		totalScore += q.Result.ScorePercent
		if q.Result.ScorePercent == 100 {
			summary.PerfectScores++
		}
	}
	summary.AverageScorePercent = percent(totalScore, len(completed)*100)

	questions, err := s.quizzes.ListQuestions(ctx, ids)
	if err != nil {
		return domain.UserSummary{}, fmt.Errorf("list questions: %w", err)
	}
	orderQuestions(questions, ids)

	misses := map[string]int{}
	var firstSeen []string
	for _, q := range questions {
		if q.IsCorrect != nil && *q.IsCorrect {
			continue
		}
		summary.TotalMistakes++
		if q.WordID == "" {
			continue
		}
		if _, ok := misses[q.WordID]; !ok {
			firstSeen = append(firstSeen, q.WordID)
		}
		misses[q.WordID]++
	}

	sort.SliceStable(firstSeen, func(i, j int) bool {
		return misses[firstSeen[i]] > misses[firstSeen[j]]
	})
	if len(firstSeen) > mostMissedLimit {
		firstSeen = firstSeen[:mostMissedLimit]
	}
	if firstSeen != nil {
		summary.MostMissedWordIDs = firstSeen
	}
	return summary, nil
}

// DictionarySummary reports word progress and quiz scores for one dictionary.
// Only words created by the owner are counted.
func (s *StatisticsService) DictionarySummary(ctx context.Context, ownerID, dictionaryID string) (domain.DictionaryStats, error) {
	if dictionaryID == "" {
		return domain.DictionaryStats{}, domain.NewValidationError("missing_dictionary_id", "missing or invalid dictionaryId")
	}

	words, err := s.words.ListWords(ctx, dictionaryID)
	if err != nil {
		return domain.DictionaryStats{}, fmt.Errorf("list words: %w", err)
	}

	stats := domain.DictionaryStats{DictionaryID: dictionaryID}
	for _, w := range words {
		if w.CreatedBy != ownerID {
			continue
		}
		stats.TotalWords++
		if w.IsLearned {
			stats.LearnedWords++
		}
	}
	stats.PercentageLearned = percent(stats.LearnedWords, stats.TotalWords)

	completed, err := s.completedQuizzes(ctx, ownerID, dictionaryID)
	if err != nil {
		return domain.DictionaryStats{}, err
	}
	totalScore := 0
	for _, q := range completed {
		totalScore += q.Result.ScorePercent
	}
	stats.QuizzesTaken = len(completed)
	stats.AverageQuizScore = percent(totalScore, stats.QuizzesTaken*100)
	return stats, nil
}

// completedQuizzes returns graded quizzes oldest first, optionally limited to one dictionary.
func (s *StatisticsService) completedQuizzes(ctx context.Context, ownerID, dictionaryID string) ([]domain.Quiz, error) {
	quizzes, err := s.quizzes.ListQuizzes(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	completed := quizzes[:0]
	for _, q := range quizzes {
		if q.Result == nil || q.UserID != ownerID {
			continue
		}
		if dictionaryID != "" && q.DictionaryID != dictionaryID {
			continue
		}
		completed = append(completed, q)
	}
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].CreatedAt.Before(completed[j].CreatedAt)
	})
	return completed, nil
}

// orderQuestions sorts questions by the order of their quiz in quizIDs, then by position,
// so first-seen tie breaks do not depend on the storage backend.
func orderQuestions(questions []domain.Question, quizIDs []string) {
	rank := make(map[string]int, len(quizIDs))
	for i, id := range quizIDs {
		rank[id] = i
	}
	sort.SliceStable(questions, func(i, j int) bool {
		ri, rj := rank[questions[i].QuizID], rank[questions[j].QuizID]
		if ri != rj {
			return ri < rj
		}
		return questions[i].Position < questions[j].Position
	})
}
