package domain

import "time"

// QuestionType selects which attribute of a word a question asks for.
type QuestionType string

const (
	QuestionTypeTranslation   QuestionType = "translation"
	QuestionTypeWriting       QuestionType = "writing"
	QuestionTypePronunciation QuestionType = "pronunciation"
	QuestionTypeMixed         QuestionType = "mixed"
)

// Valid reports whether t is one of the known question types, mixed included.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeTranslation, QuestionTypeWriting, QuestionTypePronunciation, QuestionTypeMixed:
		return true
	}
	return false
}

// Dictionary is a user-owned collection of words for one language pair.
type Dictionary struct {
	ID             string    `json:"id" yaml:"id"`
	Name           string    `json:"name" yaml:"name"`
	SourceLanguage string    `json:"sourceLanguage" yaml:"sourceLanguage"`
	TargetLanguage string    `json:"targetLanguage" yaml:"targetLanguage"`
	Description    string    `json:"description,omitempty" yaml:"description"`
	CreatedBy      string    `json:"createdBy" yaml:"createdBy"`
	CreatedAt      time.Time `json:"createdAt" yaml:"createdAt"`
}

// UserDictionary grants a user access to a dictionary.
type UserDictionary struct {
	UserID       string `json:"userId" yaml:"userId"`
	DictionaryID string `json:"dictionaryId" yaml:"dictionaryId"`
}

// Word is one vocabulary entry.
type Word struct {
	ID            string    `json:"id" yaml:"id"`
	DictionaryID  string    `json:"dictionaryId" yaml:"dictionaryId"`
	CreatedBy     string    `json:"createdBy" yaml:"createdBy"`
	Writing       string    `json:"writing" yaml:"writing"`
	Translation   string    `json:"translation" yaml:"translation"`
	Pronunciation string    `json:"pronunciation,omitempty" yaml:"pronunciation"`
	Description   string    `json:"description,omitempty" yaml:"description"`
	WordClass     string    `json:"wordClass,omitempty" yaml:"wordClass"`
	CategoryID    string    `json:"categoryId,omitempty" yaml:"categoryId"`
	IsStarred     bool      `json:"isStarred" yaml:"isStarred"`
	IsLearned     bool      `json:"isLearned" yaml:"isLearned"`
	CreatedAt     time.Time `json:"createdAt" yaml:"createdAt"`
}

// QuizResultSummary is derived at grading time and stored on the quiz.
type QuizResultSummary struct {
	CorrectCount   int `json:"correctCount"`
	IncorrectCount int `json:"incorrectCount"`
	TotalCount     int `json:"totalCount"`
	ScorePercent   int `json:"scorePercent"`
}

// Quiz is one attempt over a sample of a dictionary's words.
// A quiz without CompletedAt is open; once completed it never changes again.
type Quiz struct {
	ID             string             `json:"id"`
	UserID         string             `json:"userId"`
	DictionaryID   string             `json:"dictionaryId"`
	DictionaryName string             `json:"dictionaryName,omitempty"`
	QuestionType   QuestionType       `json:"questionType"`
	WordCount      int                `json:"wordCount"`
	CreatedAt      time.Time          `json:"createdAt"`
	CompletedAt    *time.Time         `json:"completedAt,omitempty"`
	Result         *QuizResultSummary `json:"result,omitempty"`
}

// Completed reports whether the quiz has been graded.
func (q Quiz) Completed() bool {
	return q.CompletedAt != nil
}

// Question is one multiple-choice item of a quiz. Type is always concrete.
type Question struct {
	ID            string       `json:"id"`
	QuizID        string       `json:"quizId"`
	WordID        string       `json:"wordId"`
	Position      int          `json:"position"`
	Type          QuestionType `json:"type"`
	Prompt        string       `json:"prompt"`
	Choices       []string     `json:"choices"`
	CorrectAnswer string       `json:"correctAnswer"`
	UserAnswer    *string      `json:"userAnswer,omitempty"`
	IsCorrect     *bool        `json:"isCorrect,omitempty"`
}

// Answer is one submitted answer.
type Answer struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

// UserSummary aggregates a user's completed quizzes.
type UserSummary struct {
	UserID              string   `json:"userId"`
	TotalQuizzes        int      `json:"totalQuizzes"`
	PerfectScores       int      `json:"perfectScores"`
	TotalMistakes       int      `json:"totalMistakes"`
	MostMissedWordIDs   []string `json:"mostMissedWordIds"`
	AverageScorePercent int      `json:"averageScorePercent"`
}

// DictionaryStats aggregates a user's progress in one dictionary.
type DictionaryStats struct {
	DictionaryID      string `json:"dictionaryId"`
	TotalWords        int    `json:"totalWords"`
	LearnedWords      int    `json:"learnedWords"`
	PercentageLearned int    `json:"percentageLearned"`
	QuizzesTaken      int    `json:"quizzesTaken"`
	AverageQuizScore  int    `json:"averageQuizScore"`
}
