package importer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/pkg/log"
	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// Options controls tabular imports. Columns are fixed: A id (optional),
// B image URL, C image description, D answer.
type Options struct {
	Sheet      string // xlsx sheet; empty means the first one
	SkipHeader bool
}

func DefaultOptions() Options {
	return Options{SkipHeader: true}
}

type Result struct {
	Total    int
	Imported int
	Skipped  int
	Errors   []string
}

type Importer struct {
	repo core.QuestionRepository
	opts Options
}

func NewImporter(repo core.QuestionRepository, opts Options) *Importer {
	return &Importer{repo: repo, opts: opts}
}

// Import reads questions from an .xlsx, .csv or .json file and upserts them.
func (i *Importer) Import(ctx context.Context, path string) (*Result, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = i.readExcel(path)
	case ".csv":
		rows, err = readCSV(path)
	case ".json":
		return i.importJSON(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	if i.opts.SkipHeader && len(rows) > 0 {
		rows = rows[1:]
	}

	first := 1
	if i.opts.SkipHeader {
		first = 2
	}

	records := make([]record, 0, len(rows))
	for n, row := range rows {
		records = append(records, fromRow(row, first+n))
	}
	return i.store(ctx, records)
}

func (i *Importer) readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := i.opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (i *Importer) importJSON(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON file: %w", err)
	}

	var questions []core.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	records := make([]record, 0, len(questions))
	for n, q := range questions {
		records = append(records, record{question: q, where: fmt.Sprintf("Item %d", n+1)})
	}
	return i.store(ctx, records)
}

type record struct {
	question core.Question
	where    string
}

func fromRow(row []string, line int) record {
	cell := func(idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}
	return record{
		question: core.Question{
			ID:               cell(0),
			ImageURL:         cell(1),
			ImageDescription: cell(2),
			Answer:           cell(3),
		},
		where: fmt.Sprintf("Row %d", line),
	}
}

func (i *Importer) store(ctx context.Context, records []record) (*Result, error) {
	res := &Result{Errors: make([]string, 0)}
	seen := make(map[string]struct{}, len(records))
	valid := make([]core.Question, 0, len(records))

	for _, r := range records {
		res.Total++
		q, where := r.question, r.where

		q.Answer = strings.TrimSpace(q.Answer)
		if q.Answer == "" {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("%s: missing answer", where))
			continue
		}

		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if _, dup := seen[q.ID]; dup {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("%s: duplicate id %s", where, q.ID))
			continue
		}
		seen[q.ID] = struct{}{}

		valid = append(valid, q)
	}

	imported, err := i.repo.UpsertQuestions(ctx, valid)
	if err != nil {
		return nil, err
	}
	res.Imported = imported

	log.FromCtx(ctx).Info().
		Int("total", res.Total).
		Int("imported", res.Imported).
		Int("skipped", res.Skipped).
		Msg("questions imported")
	return res, nil
}
