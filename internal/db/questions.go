package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/questions"
	"github.com/jonathan/interview-coach/internal/types"
)

// seedBatchSize is the number of inserts sent per batch when seeding.
const seedBatchSize = 50

// QuestionBank samples stored questions.
type QuestionBank struct {
	pool *pgxpool.Pool
}

var _ interview.QuestionBank = (*QuestionBank)(nil)

// Sample returns up to n random questions with the given category and difficulty.
func (b *QuestionBank) Sample(ctx context.Context, category, difficulty string, n int) ([]types.Question, error) {
	rows, err := b.pool.Query(ctx,
		`SELECT id, text, category FROM questions
		 WHERE category = $1 AND difficulty = $2
		 ORDER BY random()
		 LIMIT $3`,
		types.CanonicalTag(category), types.CanonicalTag(difficulty), n,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sample questions: %w", err)
	}
	defer rows.Close()

	var out []types.Question
	for rows.Next() {
		var q types.Question
		if err := rows.Scan(&q.ID, &q.Text, &q.Category); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// Count returns the number of stored questions.
func (b *QuestionBank) Count(ctx context.Context) (int, error) {
	var n int
	if err := b.pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return n, nil
}

// Seed inserts seed questions, skipping any whose id or text already exists.
// Batches run concurrently, at most parallel at a time. It returns the number
// of rows inserted.
func (b *QuestionBank) Seed(ctx context.Context, seed []questions.SeedQuestion, parallel int) (int, error) {
	if parallel <= 0 {
		parallel = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	chunks := chunk(seed, seedBatchSize)
	inserted := make([]int64, len(chunks))
	for i, c := range chunks {
		g.Go(func() error {
			n, err := b.insertBatch(ctx, c)
			inserted[i] = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var total int64
	for _, n := range inserted {
		total += n
	}
	return int(total), nil
}

func (b *QuestionBank) insertBatch(ctx context.Context, qs []questions.SeedQuestion) (int64, error) {
	batch := &pgx.Batch{}
	for _, q := range qs {
		tags := q.Tags
		if tags == nil {
			tags = []string{}
		}
		batch.Queue(
			`INSERT INTO questions (id, text, category, difficulty, tags)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT DO NOTHING`,
			q.ID, q.Text, q.Category, q.Difficulty, tags,
		)
	}

	br := b.pool.SendBatch(ctx, batch)
	defer func() { _ = br.Close() }()

	var n int64
	for _, q := range qs {
		tag, err := br.Exec()
		if err != nil {
			return n, fmt.Errorf("failed to insert question %s: %w", q.ID, err)
		}
		n += tag.RowsAffected()
	}
	return n, nil
}

func chunk[T any](items []T, size int) [][]T {
	var out [][]T
	for size < len(items) {
		items, out = items[size:], append(out, items[:size:size])
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}
