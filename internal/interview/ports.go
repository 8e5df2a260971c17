package interview

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/interview-coach/internal/questions"
	"github.com/jonathan/interview-coach/internal/types"
)

// SessionStore persists sessions. Save is a compare-and-swap: it writes next
// only while the stored session still has expectedIndex as its cursor and
// expectedResponses responses, otherwise it returns ErrConflict.
type SessionStore interface {
	Create(ctx context.Context, session *types.Session) error
	FindByID(ctx context.Context, id uuid.UUID) (*types.Session, error)
	Save(ctx context.Context, next *types.Session, expectedIndex, expectedResponses int) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Session, error)
}

// QuestionBank samples stored questions by category and difficulty.
type QuestionBank interface {
	Sample(ctx context.Context, category, difficulty string, n int) ([]types.Question, error)
}

// QuestionSource generates tailored questions. It may return none.
type QuestionSource interface {
	Generate(ctx context.Context, req questions.Request) []types.Question
}

// ResponseScorer scores an answer. It always produces a result.
type ResponseScorer interface {
	Evaluate(ctx context.Context, question, answer string) types.EvaluationResult
}

// Transcriber turns recorded audio into answer text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}
