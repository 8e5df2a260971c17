package evaluation

import (
	"context"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/logging"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/schemas"
	"github.com/jonathan/interview-coach/internal/types"
)

const (
	evaluationTemperature = 0.3
	evaluationMaxTokens   = 500
)

// modelEvaluation is the JSON shape the evaluation prompt asks for.
type modelEvaluation struct {
	Score        float64  `json:"score"`
	Feedback     string   `json:"feedback"`
	Improvements []string `json:"improvements"`
}

// Evaluator scores answers with a language model and falls back to Heuristic
// on any model failure. A nil client means heuristic-only scoring.
type Evaluator struct {
	client  llm.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewEvaluator creates an Evaluator. timeout bounds each model call; zero disables the bound.
func NewEvaluator(client llm.Client, timeout time.Duration, logger *zap.Logger) *Evaluator {
	logger = logging.OrNop(logger)
	if client != nil {
		logger = logging.WithModel(logger, string(client.Provider()), client.GetModel(llm.TierLite))
	}
	return &Evaluator{client: client, timeout: timeout, logger: logger}
}

// Evaluate always returns a result; it never surfaces an error.
func (e *Evaluator) Evaluate(ctx context.Context, question, answer string) types.EvaluationResult {
	if strings.TrimSpace(question) == "" {
		return types.NoEvaluation()
	}
	// A placeholder for untranscribed audio has nothing for a model to grade.
	if e.client == nil || types.IsVoiceUnavailable(answer) {
		return Heuristic(question, answer)
	}

	result, err := e.evaluateWithModel(ctx, question, answer)
	if err != nil {
		e.logger.Warn("model evaluation failed, using heuristic",
			zap.Error(err),
			zap.String("question", logging.Truncate(question, 80)),
		)
		return Heuristic(question, answer)
	}
	return result
}

func (e *Evaluator) evaluateWithModel(ctx context.Context, question, answer string) (types.EvaluationResult, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	reply, err := e.client.Complete(ctx, llm.CompletionRequest{
		Tier:   llm.TierLite,
		System: prompts.MustGet(prompts.Evaluation, "evaluate-system"),
		User: prompts.Render(prompts.Evaluation, "evaluate-user", map[string]string{
			"Question": question,
			"Answer":   answer,
		}),
		Temperature: evaluationTemperature,
		MaxTokens:   evaluationMaxTokens,
		JSON:        true,
	})
	if err != nil {
		return types.EvaluationResult{}, err
	}

	return ParseModelEvaluation(reply)
}

// ParseModelEvaluation decodes and validates a model evaluation reply.
// The score is rounded and clamped into 0..100; a missing feedback falls back
// to the band text for that score.
func ParseModelEvaluation(reply string) (types.EvaluationResult, error) {
	cleaned := llm.CleanJSONBlock(reply)
	if err := schemas.Validate(schemas.Evaluation, cleaned); err != nil {
		return types.EvaluationResult{}, &llm.ParseError{Message: "evaluation reply rejected", Content: cleaned, Cause: err}
	}

	var decoded modelEvaluation
	if err := llm.DecodeJSON(cleaned, &decoded); err != nil {
		return types.EvaluationResult{}, err
	}

	score := clampScore(decoded.Score)
	feedback := strings.TrimSpace(decoded.Feedback)
	if feedback == "" {
		feedback = bandFor(score).feedback
	}
	improvements := make([]string, 0, len(decoded.Improvements))
	for _, imp := range decoded.Improvements {
		if imp = strings.TrimSpace(imp); imp != "" {
			improvements = append(improvements, imp)
		}
	}

	return types.EvaluationResult{
		Score:        score,
		Feedback:     feedback,
		Improvements: improvements,
	}, nil
}

func clampScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Max(0, math.Min(100, math.Round(v))))
}
