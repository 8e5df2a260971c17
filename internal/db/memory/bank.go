package memory

import (
	"context"
	"math/rand/v2"

	"github.com/jonathan/interview-coach/internal/questions"
	"github.com/jonathan/interview-coach/internal/types"
)

// Bank samples from a fixed set of seed questions.
type Bank struct {
	questions []questions.SeedQuestion
}

// NewBank creates a Bank over seed.
func NewBank(seed []questions.SeedQuestion) *Bank {
	return &Bank{questions: append([]questions.SeedQuestion(nil), seed...)}
}

// Sample returns up to n random questions matching category and difficulty.
func (b *Bank) Sample(_ context.Context, category, difficulty string, n int) ([]types.Question, error) {
	category = types.CanonicalTag(category)
	difficulty = types.CanonicalTag(difficulty)

	var matched []types.Question
	for _, q := range b.questions {
		if q.Category == category && q.Difficulty == difficulty {
			matched = append(matched, q.Question())
		}
	}
	rand.Shuffle(len(matched), func(i, j int) {
		matched[i], matched[j] = matched[j], matched[i]
	})
	if n >= 0 && len(matched) > n {
		matched = matched[:n]
	}
	return matched, nil
}
