package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"vocab-quiz-service/internal/domain"
)

// Store is the Postgres source of truth for dictionaries, words and quizzes.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const dictionaryColumns = `id, name, source_language, target_language, description, created_by, created_at`

func (s *Store) GetDictionary(ctx context.Context, dictionaryID string) (domain.Dictionary, error) {
	var d domain.Dictionary
	err := s.pool.QueryRow(ctx, `SELECT `+dictionaryColumns+` FROM dictionaries WHERE id=$1`, dictionaryID).
		Scan(&d.ID, &d.Name, &d.SourceLanguage, &d.TargetLanguage, &d.Description, &d.CreatedBy, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Dictionary{}, domain.ErrDictionaryNotFound
	}
	if err != nil {
		return domain.Dictionary{}, fmt.Errorf("load dictionary: %w", err)
	}
	return d, nil
}

func (s *Store) HasAccess(ctx context.Context, userID, dictionaryID string) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_dictionaries WHERE user_id=$1 AND dictionary_id=$2)`,
		userID, dictionaryID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check access: %w", err)
	}
	return ok, nil
}

func (s *Store) ListWords(ctx context.Context, dictionaryID string) ([]domain.Word, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, dictionary_id, created_by, writing, translation, pronunciation, description,
		       word_class, category_id, is_starred, is_learned, created_at
		FROM words WHERE dictionary_id=$1 ORDER BY created_at, id`, dictionaryID)
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	defer rows.Close()

	var words []domain.Word
	for rows.Next() {
		var w domain.Word
		if err := rows.Scan(&w.ID, &w.DictionaryID, &w.CreatedBy, &w.Writing, &w.Translation,
			&w.Pronunciation, &w.Description, &w.WordClass, &w.CategoryID,
			&w.IsStarred, &w.IsLearned, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

// CreateQuiz inserts the quiz and all questions in one transaction.
func (s *Store) CreateQuiz(ctx context.Context, quiz domain.Quiz, questions []domain.Question) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO quizzes (id, user_id, dictionary_id, question_type, word_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		quiz.ID, quiz.UserID, quiz.DictionaryID, string(quiz.QuestionType), quiz.WordCount, quiz.CreatedAt); err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}

	batch := &pgx.Batch{}
	for _, q := range questions {
		batch.Queue(`
			INSERT INTO questions (id, quiz_id, word_id, position, question_type, prompt, choices, correct_answer)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			q.ID, q.QuizID, q.WordID, q.Position, string(q.Type), q.Prompt, q.Choices, q.CorrectAnswer)
	}
	if err := execBatch(ctx, tx, batch); err != nil {
		return fmt.Errorf("insert questions: %w", err)
	}
	return tx.Commit(ctx)
}

const quizColumns = `id, user_id, dictionary_id, question_type, word_count, created_at, completed_at,
	correct_count, incorrect_count, total_count, score_percent`

func (s *Store) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, []domain.Question, error) {
	quiz, err := scanQuiz(s.pool.QueryRow(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE id=$1`, quizID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, nil, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, nil, fmt.Errorf("load quiz: %w", err)
	}

	questions, err := s.ListQuestions(ctx, []string{quizID})
	if err != nil {
		return domain.Quiz{}, nil, err
	}
	return quiz, questions, nil
}

func (s *Store) ListQuizzes(ctx context.Context, userID string) ([]domain.Quiz, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []domain.Quiz
	for rows.Next() {
		quiz, err := scanQuiz(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, rows.Err()
}

// ListQuestions returns questions grouped by quiz, in position order.
func (s *Store) ListQuestions(ctx context.Context, quizIDs []string) ([]domain.Question, error) {
	if len(quizIDs) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, quiz_id, word_id, position, question_type, prompt, choices, correct_answer, user_answer, is_correct
		FROM questions WHERE quiz_id = ANY($1) ORDER BY quiz_id, position`, quizIDs)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var (
			q     domain.Question
			qType string
		)
		if err := rows.Scan(&q.ID, &q.QuizID, &q.WordID, &q.Position, &qType, &q.Prompt,
			&q.Choices, &q.CorrectAnswer, &q.UserAnswer, &q.IsCorrect); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.Type = domain.QuestionType(qType)
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// CompleteQuiz stores the graded quiz. The quiz row is only updated while
// completed_at is still NULL, so a second grading attempt fails with
// domain.ErrQuizCompleted instead of overwriting the first.
func (s *Store) CompleteQuiz(ctx context.Context, quiz domain.Quiz, questions []domain.Question) error {
	if quiz.CompletedAt == nil || quiz.Result == nil {
		return fmt.Errorf("complete quiz %s: missing result", quiz.ID)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE quizzes
		SET completed_at=$2, correct_count=$3, incorrect_count=$4, total_count=$5, score_percent=$6
		WHERE id=$1 AND completed_at IS NULL`,
		quiz.ID, *quiz.CompletedAt, quiz.Result.CorrectCount, quiz.Result.IncorrectCount,
		quiz.Result.TotalCount, quiz.Result.ScorePercent)
	if err != nil {
		return fmt.Errorf("update quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM quizzes WHERE id=$1)`, quiz.ID).Scan(&exists); err != nil {
			return fmt.Errorf("check quiz: %w", err)
		}
		if !exists {
			return domain.ErrQuizNotFound
		}
		return domain.ErrQuizCompleted
	}

	batch := &pgx.Batch{}
	for _, q := range questions {
		batch.Queue(`UPDATE questions SET user_answer=$3, is_correct=$4 WHERE id=$1 AND quiz_id=$2`,
			q.ID, quiz.ID, q.UserAnswer, q.IsCorrect)
	}
	if err := execBatch(ctx, tx, batch); err != nil {
		return fmt.Errorf("update questions: %w", err)
	}
	return tx.Commit(ctx)
}

// SaveDictionary upserts a dictionary.
func (s *Store) SaveDictionary(ctx context.Context, d domain.Dictionary) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO dictionaries (`+dictionaryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name=EXCLUDED.name, source_language=EXCLUDED.source_language,
			target_language=EXCLUDED.target_language, description=EXCLUDED.description`,
		d.ID, d.Name, d.SourceLanguage, d.TargetLanguage, d.Description, d.CreatedBy, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("save dictionary: %w", err)
	}
	return nil
}

func (s *Store) GrantAccess(ctx context.Context, userID, dictionaryID string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_dictionaries (user_id, dictionary_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, userID, dictionaryID)
	if err != nil {
		return fmt.Errorf("grant access: %w", err)
	}
	return nil
}

// SaveWord upserts a word.
func (s *Store) SaveWord(ctx context.Context, w domain.Word) error {
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO words (id, dictionary_id, created_by, writing, translation, pronunciation, description,
		                   word_class, category_id, is_starred, is_learned, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			writing=EXCLUDED.writing, translation=EXCLUDED.translation,
			pronunciation=EXCLUDED.pronunciation, description=EXCLUDED.description,
			word_class=EXCLUDED.word_class, category_id=EXCLUDED.category_id,
			is_starred=EXCLUDED.is_starred, is_learned=EXCLUDED.is_learned`,
		w.ID, w.DictionaryID, w.CreatedBy, w.Writing, w.Translation, w.Pronunciation, w.Description,
		w.WordClass, w.CategoryID, w.IsStarred, w.IsLearned, w.CreatedAt)
	if err != nil {
		return fmt.Errorf("save word: %w", err)
	}
	return nil
}

func scanQuiz(row pgx.Row) (domain.Quiz, error) {
	var (
		q                                  domain.Quiz
		qType                              string
		correct, incorrect, total, percent *int
	)
	if err := row.Scan(&q.ID, &q.UserID, &q.DictionaryID, &qType, &q.WordCount, &q.CreatedAt,
		&q.CompletedAt, &correct, &incorrect, &total, &percent); err != nil {
		return domain.Quiz{}, err
	}
	q.QuestionType = domain.QuestionType(qType)
	if q.CompletedAt != nil && correct != nil && incorrect != nil && total != nil && percent != nil {
		q.Result = &domain.QuizResultSummary{
			CorrectCount:   *correct,
			IncorrectCount: *incorrect,
			TotalCount:     *total,
			ScorePercent:   *percent,
		}
	}
	return q, nil
}

func execBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return err
		}
	}
	return br.Close()
}
