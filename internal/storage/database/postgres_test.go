package database

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/sandevgo/recall/internal/backlog"
	"github.com/sandevgo/recall/internal/config"
	"github.com/sandevgo/recall/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getPostgresDSN skips unless a disposable database is provided.
func getPostgresDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("RECALL_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("RECALL_TEST_POSTGRES_DSN not set")
	}
	return dsn
}

func TestPostgres_LearnersRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := NewDB(ctx, config.DriverPostgres, getPostgresDSN(t))
	require.NoError(t, err)
	defer db.Close()

	questions := NewQuestionsRepo(db)
	learners := NewLearnersRepo(db)

	qs := []core.Question{
		{ID: uuid.NewString(), Answer: "elk"},
		{ID: uuid.NewString(), Answer: "ibis"},
		{ID: uuid.NewString(), Answer: "newt"},
	}
	_, err = questions.UpsertQuestions(ctx, qs)
	require.NoError(t, err)

	pool := make([]backlog.Source, 0, len(qs))
	for _, q := range qs {
		src, err := q.Source()
		require.NoError(t, err)
		pool = append(pool, src)
	}

	s := backlog.NewScheduler()
	st, err := s.Reset(backlog.State{}, pool)
	require.NoError(t, err)
	st, _, err = s.Answer(st, false)
	require.NoError(t, err)

	id := "pg-" + uuid.NewString()
	v, err := learners.Save(ctx, id, st, 0, core.Outcome{QuestionID: qs[0].ID, Correct: false})
	require.NoError(t, err)

	loaded, version, err := learners.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, v, version)
	assert.Equal(t, st.Order(), loaded.Order())
	assert.Equal(t, 1, loaded.TotalWrong)

	_, err = learners.Save(ctx, id, st, 0)
	assert.ErrorIs(t, err, core.ErrConflict)

	records, err := learners.ListRecords(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []core.Record{{QuestionID: qs[0].ID, Incorrect: 1}}, records)
}

func TestPostgres_LargeMemoryStrength(t *testing.T) {
	db, err := NewDB(context.Background(), config.DriverPostgres, getPostgresDSN(t))
	require.NoError(t, err)
	defer db.Close()

	roundTripStrongItems(t, NewLearnersRepo(db), "pg-strong-"+uuid.NewString())
}
