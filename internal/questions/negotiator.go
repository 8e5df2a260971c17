package questions

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/logging"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/schemas"
	"github.com/jonathan/interview-coach/internal/types"
)

// DefaultCount is the number of questions in a session.
const DefaultCount = 5

// maxResumeRunes caps how much resume text goes into the generation prompt.
const maxResumeRunes = 6000

// attempt describes one model call in the negotiation chain.
type attempt struct {
	name        string
	tier        llm.ModelTier
	systemKey   string
	userKey     string
	temperature float32
	maxTokens   int32
}

var attempts = []attempt{
	{name: "primary", tier: llm.TierStandard, systemKey: "generate-system", userKey: "generate-user", temperature: 0.9, maxTokens: 1500},
	{name: "secondary", tier: llm.TierLite, systemKey: "generate-fallback-system", userKey: "generate-fallback-user", temperature: 0.7, maxTokens: 1000},
}

// Request carries the session parameters used to tailor questions.
type Request struct {
	JobRole    string
	Difficulty string
	Type       string
	ResumeText string
}

// Negotiator obtains a question set from the primary model, then the
// secondary model, then the static bank. It never fails.
type Negotiator struct {
	client  llm.Client
	bank    *StaticBank
	count   int
	timeout time.Duration
	logger  *zap.Logger
}

// NewNegotiator creates a Negotiator. A nil client goes straight to the static bank.
func NewNegotiator(client llm.Client, bank *StaticBank, count int, timeout time.Duration, logger *zap.Logger) *Negotiator {
	if count <= 0 {
		count = DefaultCount
	}
	logger = logging.OrNop(logger)
	if client != nil {
		logger = logger.With(zap.String(logging.FieldProvider, string(client.Provider())))
	}
	return &Negotiator{client: client, bank: bank, count: count, timeout: timeout, logger: logger}
}

// Generate returns the questions for a new session.
func (n *Negotiator) Generate(ctx context.Context, req Request) []types.Question {
	if strings.TrimSpace(req.JobRole) == "" {
		req.JobRole = DefaultRole
	}
	if n.client == nil {
		return n.fromBank(req)
	}

	reply, err := n.ask(ctx, req)
	if err != nil {
		n.logger.Warn("question generation failed, using static bank", zap.Error(err))
		return n.fromBank(req)
	}

	questions, err := ParseQuestions(reply, req.Type, n.count)
	if err != nil {
		n.logger.Warn("question reply unusable, using static bank",
			zap.Error(err),
			zap.String("reply", logging.Truncate(reply, 200)),
		)
		return n.fromBank(req)
	}
	return questions
}

// ask walks the attempt chain and returns the first successful reply.
func (n *Negotiator) ask(ctx context.Context, req Request) (string, error) {
	data := n.promptData(req)

	var lastErr error
	for _, a := range attempts {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		reply, err := n.call(ctx, a, data)
		if err == nil {
			n.logger.Debug("questions generated", zap.String("attempt", a.name), zap.String(logging.FieldModel, n.client.GetModel(a.tier)))
			return reply, nil
		}
		n.logger.Warn("question model call failed", zap.String("attempt", a.name), zap.Error(err))
		lastErr = err
	}
	return "", lastErr
}

func (n *Negotiator) call(ctx context.Context, a attempt, data map[string]string) (string, error) {
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}
	return n.client.Complete(ctx, llm.CompletionRequest{
		Tier:        a.tier,
		System:      prompts.Render(prompts.Questions, a.systemKey, data),
		User:        prompts.Render(prompts.Questions, a.userKey, data),
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
		JSON:        true,
	})
}

func (n *Negotiator) promptData(req Request) map[string]string {
	resumeContext := ""
	if resume := strings.TrimSpace(req.ResumeText); resume != "" {
		if runes := []rune(resume); len(runes) > maxResumeRunes {
			resume = string(runes[:maxResumeRunes])
		}
		resumeContext = prompts.Render(prompts.Questions, "resume-context", map[string]string{"Resume": resume})
	}
	return map[string]string{
		"Count":         strconv.Itoa(n.count),
		"JobRole":       req.JobRole,
		"Difficulty":    req.Difficulty,
		"Type":          req.Type,
		"Category":      strings.ToLower(req.Type),
		"ResumeContext": resumeContext,
	}
}

func (n *Negotiator) fromBank(req Request) []types.Question {
	if n.bank == nil {
		return nil
	}
	return n.bank.Pick(req.JobRole, n.count)
}

type generatedQuestions struct {
	Questions []struct {
		Text     string `json:"text"`
		Category string `json:"category"`
	} `json:"questions"`
}

// ParseQuestions decodes a model reply into at most limit questions with
// synthetic ids ai_0, ai_1, ... A missing category becomes defaultCategory.
func ParseQuestions(reply, defaultCategory string, limit int) ([]types.Question, error) {
	cleaned := llm.CleanJSONBlock(reply)
	if err := schemas.Validate(schemas.Questions, cleaned); err != nil {
		return nil, &llm.ParseError{Message: "question reply rejected", Content: cleaned, Cause: err}
	}

	var decoded generatedQuestions
	if err := llm.DecodeJSON(cleaned, &decoded); err != nil {
		return nil, err
	}

	out := make([]types.Question, 0, len(decoded.Questions))
	for _, q := range decoded.Questions {
		text := strings.TrimSpace(q.Text)
		if text == "" {
			continue
		}
		category := strings.TrimSpace(q.Category)
		if category == "" {
			category = defaultCategory
		}
		out = append(out, types.Question{
			ID:       fmt.Sprintf("ai_%d", len(out)),
			Text:     text,
			Category: category,
		})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	if len(out) == 0 {
		return nil, &llm.ParseError{Message: "reply contained no usable questions", Content: cleaned}
	}
	return out, nil
}
