package core

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/sandevgo/recall/internal/backlog"
)

const (
	AppName          = "Recall"
	AppUserAgent     = "Recall/0.1"
	AppRepositoryURL = "https://github.com/sandevgo/recall"
	AppVersion       = "0.1.0"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict reports a stale version on save; the caller reloads and retries.
	ErrConflict = errors.New("version conflict")
)

// Question is one card of the catalogue: a picture and the expected answer.
type Question struct {
	ID               string    `json:"id"`
	ImageURL         string    `json:"imageUrl"`
	ImageDescription string    `json:"imageDescription"`
	Answer           string    `json:"answer"`
	CreatedAt        time.Time `json:"-"`
}

// Source wraps the question as schedulable backlog content.
func (q Question) Source() (backlog.Source, error) {
	content, err := json.Marshal(q)
	if err != nil {
		return backlog.Source{}, err
	}
	return backlog.Source{ID: q.ID, Content: content}, nil
}

// QuestionFromContent decodes content produced by Question.Source.
func QuestionFromContent(content json.RawMessage) (Question, error) {
	var q Question
	err := json.Unmarshal(content, &q)
	return q, err
}

// Outcome is one graded answer to be counted in the lifetime records.
type Outcome struct {
	QuestionID string
	Correct    bool
}

// Record counts every answer a learner gave to one question since enrolment.
type Record struct {
	QuestionID string `db:"question_id" json:"questionId"`
	Correct    int    `db:"correct_count" json:"correct"`
	Incorrect  int    `db:"incorrect_count" json:"incorrect"`
}

// Progress is the learner-facing summary.
type Progress struct {
	Correct     int                     `json:"correct"`
	Wrong       int                     `json:"wrong"`
	NeedImprove []backlog.WeaknessEntry `json:"needImprove"`
	Records     []Record                `json:"records"`
}

func ProgressOf(st backlog.State, records []Record) Progress {
	weak := make([]backlog.WeaknessEntry, len(st.Weakness))
	copy(weak, st.Weakness)
	if records == nil {
		records = []Record{}
	}
	return Progress{
		Correct:     st.TotalCorrect,
		Wrong:       st.TotalWrong,
		NeedImprove: weak,
		Records:     records,
	}
}

// Subscription binds a learner to a chat that receives the daily digest.
type Subscription struct {
	LearnerID string
	ChatID    int64
}
