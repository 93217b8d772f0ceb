package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sharecircle/internal/domain"
)

// QuestionRepositoryPG implements QuestionRepository using PostgreSQL.
type QuestionRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new question repo.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepositoryPG {
	return &QuestionRepositoryPG{pool: pool}
}

// Create inserts a new question.
func (r *QuestionRepositoryPG) Create(ctx context.Context, question *domain.Question) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO questions (id, item_id, user_id, text, asked_at)
VALUES ($1, $2, $3, $4, $5);
`, question.ID, question.ItemID, question.UserID, question.Text, question.AskedAt)
	return err
}

// GetByID returns a question by id.
func (r *QuestionRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, item_id, user_id, text, answer, asked_at, answered_at
FROM questions
WHERE id = $1;
`, id)

	var q domain.Question
	err := row.Scan(&q.ID, &q.ItemID, &q.UserID, &q.Text, &q.Answer, &q.AskedAt, &q.AnsweredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFoundError("question not found")
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// Answer records the donor's answer.
func (r *QuestionRepositoryPG) Answer(ctx context.Context, id, answer string, answeredAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE questions SET answer = $2, answered_at = $3 WHERE id = $1;
`, id, answer, answeredAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundError("question not found")
	}
	return nil
}

// ListByItem returns the item's Q&A thread, newest first.
func (r *QuestionRepositoryPG) ListByItem(ctx context.Context, itemID string) ([]domain.QuestionDetail, error) {
	rows, err := r.pool.Query(ctx, `
SELECT q.id, q.item_id, q.user_id, q.text, q.answer, q.asked_at, q.answered_at, u.name
FROM questions q
JOIN users u ON u.id = q.user_id
WHERE q.item_id = $1
ORDER BY q.asked_at DESC;
`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []domain.QuestionDetail
	for rows.Next() {
		var q domain.QuestionDetail
		if err := rows.Scan(&q.ID, &q.ItemID, &q.UserID, &q.Text, &q.Answer, &q.AskedAt, &q.AnsweredAt, &q.UserName); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return questions, nil
}
