package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sandevgo/recall/internal/core"
)

type QuestionsRepo struct {
	db *sqlx.DB
}

func NewQuestionsRepo(db *sqlx.DB) *QuestionsRepo {
	return &QuestionsRepo{db: db}
}

type questionRow struct {
	ID               string    `db:"id"`
	ImageURL         string    `db:"image_url"`
	ImageDescription string    `db:"image_description"`
	Answer           string    `db:"answer"`
	CreatedAt        time.Time `db:"created_at"`
}

// ListQuestions returns the whole catalogue in a stable order.
func (r *QuestionsRepo) ListQuestions(ctx context.Context) ([]core.Question, error) {
	var rows []questionRow
	query := `SELECT id, image_url, image_description, answer, created_at FROM questions ORDER BY created_at, id`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}

	questions := make([]core.Question, 0, len(rows))
	for _, row := range rows {
		questions = append(questions, core.Question{
			ID:               row.ID,
			ImageURL:         row.ImageURL,
			ImageDescription: row.ImageDescription,
			Answer:           row.Answer,
			CreatedAt:        row.CreatedAt,
		})
	}
	return questions, nil
}

// UpsertQuestions inserts new questions and overwrites existing ones by id.
func (r *QuestionsRepo) UpsertQuestions(ctx context.Context, questions []core.Question) (int, error) {
	if len(questions) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(`
		INSERT INTO questions (id, image_url, image_description, answer)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			image_url = excluded.image_url,
			image_description = excluded.image_description,
			answer = excluded.answer`))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, q := range questions {
		if _, err := stmt.ExecContext(ctx, q.ID, q.ImageURL, q.ImageDescription, q.Answer); err != nil {
			return 0, fmt.Errorf("failed to upsert question %s: %w", q.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(questions), nil
}

func (r *QuestionsRepo) CountQuestions(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM questions`); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return n, nil
}
