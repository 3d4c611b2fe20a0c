package memory

import (
	"context"
	"sync"

	"vocab-quiz-service/internal/domain"
)

// Store is an in-memory implementation of the quiz, word and dictionary repositories.
// Every method runs under one mutex, so CreateQuiz and CompleteQuiz are atomic.
type Store struct {
	mu           sync.RWMutex
	dictionaries map[string]domain.Dictionary
	access       map[string]map[string]struct{} // userID -> dictionaryIDs
	words        []domain.Word
	quizzes      map[string]domain.Quiz
	questions    map[string][]domain.Question // quizID -> questions by position
}

func NewStore() *Store {
	return &Store{
		dictionaries: make(map[string]domain.Dictionary),
		access:       make(map[string]map[string]struct{}),
		quizzes:      make(map[string]domain.Quiz),
		questions:    make(map[string][]domain.Question),
	}
}

func (s *Store) SaveDictionary(_ context.Context, d domain.Dictionary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dictionaries[d.ID] = d
	return nil
}

func (s *Store) GrantAccess(_ context.Context, userID, dictionaryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	dicts, ok := s.access[userID]
	if !ok {
		dicts = make(map[string]struct{})
		s.access[userID] = dicts
	}
	dicts[dictionaryID] = struct{}{}
	return nil
}

// SaveWord inserts or replaces a word, keeping insertion order.
func (s *Store) SaveWord(_ context.Context, w domain.Word) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.words {
		if s.words[i].ID == w.ID {
			s.words[i] = w
			return nil
		}
	}
	s.words = append(s.words, w)
	return nil
}

func (s *Store) GetDictionary(_ context.Context, dictionaryID string) (domain.Dictionary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.dictionaries[dictionaryID]
	if !ok {
		return domain.Dictionary{}, domain.ErrDictionaryNotFound
	}
	return d, nil
}

func (s *Store) HasAccess(_ context.Context, userID, dictionaryID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.access[userID][dictionaryID]
	return ok, nil
}

func (s *Store) ListWords(_ context.Context, dictionaryID string) ([]domain.Word, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Word
	for _, w := range s.words {
		if w.DictionaryID == dictionaryID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *Store) CreateQuiz(_ context.Context, quiz domain.Quiz, questions []domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[quiz.ID] = quiz
	s.questions[quiz.ID] = cloneQuestions(questions)
	return nil
}

func (s *Store) GetQuiz(_ context.Context, quizID string) (domain.Quiz, []domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return domain.Quiz{}, nil, domain.ErrQuizNotFound
	}
	return quiz, cloneQuestions(s.questions[quizID]), nil
}

func (s *Store) ListQuizzes(_ context.Context, userID string) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Quiz
	for _, q := range s.quizzes {
		if q.UserID == userID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *Store) ListQuestions(_ context.Context, quizIDs []string) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Question
	for _, id := range quizIDs {
		out = append(out, s.questions[id]...)
	}
	return cloneQuestions(out), nil
}

func (s *Store) CompleteQuiz(_ context.Context, quiz domain.Quiz, questions []domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.quizzes[quiz.ID]
	if !ok {
		return domain.ErrQuizNotFound
	}
	if stored.Completed() {
		return domain.ErrQuizCompleted
	}
	s.quizzes[quiz.ID] = quiz
	s.questions[quiz.ID] = cloneQuestions(questions)
	return nil
}

func cloneQuestions(in []domain.Question) []domain.Question {
	if in == nil {
		return nil
	}
	out := make([]domain.Question, len(in))
	copy(out, in)
	return out
}
