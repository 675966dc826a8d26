package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sandevgo/recall/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type memRepo struct {
	questions []core.Question
}

func (m *memRepo) ListQuestions(context.Context) ([]core.Question, error) {
	return m.questions, nil
}

func (m *memRepo) UpsertQuestions(_ context.Context, qs []core.Question) (int, error) {
	m.questions = append(m.questions, qs...)
	return len(qs), nil
}

func (m *memRepo) CountQuestions(context.Context) (int, error) {
	return len(m.questions), nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImport_CSV(t *testing.T) {
	path := writeFile(t, "questions.csv", `id,image,description,answer
q1,https://img/1.png,a cat,cat
,https://img/2.png,a dog,dog
q3,https://img/3.png,nothing,
q1,https://img/4.png,again,cat
`)
	repo := &memRepo{}

	res, err := NewImporter(repo, DefaultOptions()).Import(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0], "Row 4")
	assert.Contains(t, res.Errors[1], "duplicate")

	require.Len(t, repo.questions, 2)
	assert.Equal(t, "q1", repo.questions[0].ID)
	assert.Equal(t, "a cat", repo.questions[0].ImageDescription)
	assert.NotEmpty(t, repo.questions[1].ID)
	assert.Equal(t, "dog", repo.questions[1].Answer)
}

func TestImport_JSON(t *testing.T) {
	path := writeFile(t, "questions.json", `[
		{"id": "a", "imageUrl": "https://img/a.png", "answer": "apple"},
		{"imageDescription": "yellow fruit", "answer": " banana "},
		{"id": "c"}
	]`)
	repo := &memRepo{}

	res, err := NewImporter(repo, DefaultOptions()).Import(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, []string{"Item 3: missing answer"}, res.Errors)
	assert.Equal(t, "banana", repo.questions[1].Answer)
}

func TestImport_Excel(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"id", "image", "description", "answer"},
		{"x1", "https://img/x.png", "an owl", "owl"},
		{"", "", "a fox", "fox"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "questions.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	repo := &memRepo{}
	res, err := NewImporter(repo, DefaultOptions()).Import(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Imported)
	assert.Empty(t, res.Errors)
	assert.Equal(t, "x1", repo.questions[0].ID)
	assert.Equal(t, "fox", repo.questions[1].Answer)
}

func TestImport_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, "questions.txt", "cat")

	_, err := NewImporter(&memRepo{}, DefaultOptions()).Import(context.Background(), path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
