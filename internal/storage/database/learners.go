package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sandevgo/recall/internal/backlog"
	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/pkg/log"
)

type LearnersRepo struct {
	db *sqlx.DB
}

func NewLearnersRepo(db *sqlx.DB) *LearnersRepo {
	return &LearnersRepo{db: db}
}

type learnerRow struct {
	Head         int    `db:"head"`
	TotalCorrect int    `db:"total_correct"`
	TotalWrong   int    `db:"total_wrong"`
	Weakness     string `db:"weakness"`
	Version      int64  `db:"version"`
}

type itemRow struct {
	Slot           int           `db:"slot"`
	ItemID         string        `db:"item_id"`
	Content        string        `db:"content"`
	MemoryStrength int           `db:"memory_strength"`
	CorrectCount   int           `db:"correct_count"`
	IncorrectCount int           `db:"incorrect_count"`
	NextSlot       sql.NullInt64 `db:"next_slot"`
}

// Load reads and validates a learner's state. A chain that is not a full
// permutation is reported as backlog.ErrStateCorrupted.
func (r *LearnersRepo) Load(ctx context.Context, learnerID string) (backlog.State, int64, error) {
	var lr learnerRow
	err := r.db.GetContext(ctx, &lr, r.db.Rebind(
		`SELECT head, total_correct, total_wrong, weakness, version FROM learners WHERE id = ?`), learnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return backlog.State{}, 0, core.ErrNotFound
	}
	if err != nil {
		return backlog.State{}, 0, fmt.Errorf("failed to load learner: %w", err)
	}

	var rows []itemRow
	err = r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT slot, item_id, content, memory_strength, correct_count, incorrect_count, next_slot
		FROM backlog_items WHERE learner_id = ? ORDER BY slot`), learnerID)
	if err != nil {
		return backlog.State{}, 0, fmt.Errorf("failed to load backlog: %w", err)
	}

	st := backlog.State{
		Items:        make([]backlog.Item, len(rows)),
		Head:         lr.Head,
		TotalCorrect: lr.TotalCorrect,
		TotalWrong:   lr.TotalWrong,
	}
	if err := json.Unmarshal([]byte(lr.Weakness), &st.Weakness); err != nil {
		return backlog.State{}, 0, fmt.Errorf("%w: weakness list: %v", backlog.ErrStateCorrupted, err)
	}

	for i, row := range rows {
		if row.Slot != i {
			return backlog.State{}, 0, fmt.Errorf("%w: missing slot %d", backlog.ErrStateCorrupted, i)
		}
		next := backlog.NoNext
		if row.NextSlot.Valid {
			next = int(row.NextSlot.Int64)
		}
		var content json.RawMessage
		if row.Content != "" {
			content = json.RawMessage(row.Content)
		}
		st.Items[i] = backlog.Item{
			ID:             row.ItemID,
			Content:        content,
			MemoryStrength: row.MemoryStrength,
			CorrectCount:   row.CorrectCount,
			IncorrectCount: row.IncorrectCount,
			Next:           next,
		}
	}

	if err := backlog.Validate(st); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("stored backlog is corrupted")
		return backlog.State{}, 0, err
	}

	return st, lr.Version, nil
}

// Save writes the full state if the stored version still equals version and
// adds outcomes to the learner's records in the same transaction.
// Version 0 creates the learner. Returns the new version or core.ErrConflict.
func (r *LearnersRepo) Save(ctx context.Context, learnerID string, st backlog.State, version int64, outcomes ...core.Outcome) (int64, error) {
	weakness, err := json.Marshal(st.Weakness)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal weakness list: %w", err)
	}
	if st.Weakness == nil {
		weakness = []byte("[]")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var res sql.Result
	if version == 0 {
		res, err = tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO learners (id, head, total_correct, total_wrong, weakness, version)
			VALUES (?, ?, ?, ?, ?, 1)
			ON CONFLICT (id) DO NOTHING`),
			learnerID, st.Head, st.TotalCorrect, st.TotalWrong, string(weakness))
	} else {
		res, err = tx.ExecContext(ctx, tx.Rebind(`
			UPDATE learners
			SET head = ?, total_correct = ?, total_wrong = ?, weakness = ?,
				version = version + 1, updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND version = ?`),
			st.Head, st.TotalCorrect, st.TotalWrong, string(weakness), learnerID, version)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to write learner: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, core.ErrConflict
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM backlog_items WHERE learner_id = ?`), learnerID); err != nil {
		return 0, fmt.Errorf("failed to clear backlog: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(`
		INSERT INTO backlog_items
			(learner_id, slot, item_id, content, memory_strength, correct_count, incorrect_count, next_slot)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare backlog insert: %w", err)
	}
	defer stmt.Close()

	for slot, it := range st.Items {
		var next sql.NullInt64
		if it.Next != backlog.NoNext {
			next = sql.NullInt64{Int64: int64(it.Next), Valid: true}
		}
		_, err := stmt.ExecContext(ctx, learnerID, slot, it.ID, string(it.Content),
			it.MemoryStrength, it.CorrectCount, it.IncorrectCount, next)
		if err != nil {
			return 0, fmt.Errorf("failed to insert backlog slot %d: %w", slot, err)
		}
	}

	for _, o := range outcomes {
		if err := addRecord(ctx, tx, learnerID, o); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return version + 1, nil
}

func addRecord(ctx context.Context, tx *sqlx.Tx, learnerID string, o core.Outcome) error {
	correct, incorrect := 0, 1
	if o.Correct {
		correct, incorrect = 1, 0
	}
	_, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO records (learner_id, question_id, correct_count, incorrect_count)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (learner_id, question_id) DO UPDATE
		SET correct_count = records.correct_count + excluded.correct_count,
			incorrect_count = records.incorrect_count + excluded.incorrect_count,
			updated_at = CURRENT_TIMESTAMP`),
		learnerID, o.QuestionID, correct, incorrect)
	if err != nil {
		return fmt.Errorf("failed to record answer to %s: %w", o.QuestionID, err)
	}
	return nil
}

// ListRecords returns the lifetime counts for every question the learner has
// answered, ordered by question id.
func (r *LearnersRepo) ListRecords(ctx context.Context, learnerID string) ([]core.Record, error) {
	var records []core.Record
	err := r.db.SelectContext(ctx, &records, r.db.Rebind(`
		SELECT question_id, correct_count, incorrect_count
		FROM records WHERE learner_id = ? ORDER BY question_id`), learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

func (r *LearnersRepo) ListLearners(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT id FROM learners ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list learners: %w", err)
	}
	return ids, nil
}
