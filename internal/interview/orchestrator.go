// Package interview runs interview sessions: it builds the question set,
// scores each answer and advances the session until every question has a
// response.
package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/evaluation"
	"github.com/jonathan/interview-coach/internal/logging"
	"github.com/jonathan/interview-coach/internal/questions"
	"github.com/jonathan/interview-coach/internal/types"
)

// DefaultHistoryLimit bounds History when the caller passes no limit.
const DefaultHistoryLimit = 20

// Deps are the collaborators of an Orchestrator. Store is required. A nil
// Questions skips generation, a nil Bank disables the sampling fallback, a
// nil Scorer scores with the heuristic and a nil Transcriber makes every
// voice answer unavailable.
type Deps struct {
	Store       SessionStore
	Bank        QuestionBank
	Questions   QuestionSource
	Scorer      ResponseScorer
	Transcriber Transcriber
	Logger      *zap.Logger

	// QuestionCount is the bank sample size, questions.DefaultCount when zero.
	QuestionCount int
	// Now defaults to time.Now.
	Now func() time.Time
}

// CurrentQuestion is the question a session is waiting on.
type CurrentQuestion struct {
	Question types.Question `json:"question"`
	Index    int            `json:"current_index"`
	Total    int            `json:"total_questions"`
}

// Orchestrator drives the session state machine. It holds no per-session
// state; concurrent writers are arbitrated by SessionStore.Save.
type Orchestrator struct {
	store       SessionStore
	bank        QuestionBank
	source      QuestionSource
	scorer      ResponseScorer
	transcriber Transcriber
	count       int
	now         func() time.Time
	logger      *zap.Logger
}

// New creates an Orchestrator.
func New(deps Deps) (*Orchestrator, error) {
	if deps.Store == nil {
		return nil, errors.New("interview: session store is required")
	}
	o := &Orchestrator{
		store:       deps.Store,
		bank:        deps.Bank,
		source:      deps.Questions,
		scorer:      deps.Scorer,
		transcriber: deps.Transcriber,
		count:       deps.QuestionCount,
		now:         deps.Now,
		logger:      logging.OrNop(deps.Logger),
	}
	if o.count <= 0 {
		o.count = questions.DefaultCount
	}
	if o.now == nil {
		o.now = time.Now
	}
	return o, nil
}

// Start validates req, builds the question set and persists a new session
// positioned at the first question.
func (o *Orchestrator) Start(ctx context.Context, userID uuid.UUID, req types.StartRequest) (*types.Session, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}
	if req.JobRole == "" {
		req.JobRole = questions.DefaultRole
	}

	var qs []types.Question
	if o.source != nil {
		qs = o.source.Generate(ctx, questions.Request{
			JobRole:    req.JobRole,
			Difficulty: req.Difficulty,
			Type:       req.Type,
			ResumeText: req.ResumeText,
		})
	}

	if len(qs) == 0 && o.bank != nil {
		o.logger.Info("no generated questions, sampling bank",
			zap.String("type", req.Type),
			zap.String("difficulty", req.Difficulty),
		)
		sampled, err := o.bank.Sample(ctx, req.Type, req.Difficulty, o.count)
		if err != nil {
			return nil, fmt.Errorf("failed to sample question bank: %w", err)
		}
		qs = sampled
	}

	if len(qs) == 0 {
		return nil, fmt.Errorf("%w: no questions for %s/%s", ErrNotFound, req.Type, req.Difficulty)
	}

	session := types.NewSession(userID, req, qs, o.now().UTC())
	if err := o.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	o.logger.Info("interview started",
		zap.String(logging.FieldSession, session.ID.String()),
		zap.Int("questions", len(qs)),
		zap.Bool("resume", req.ResumeText != ""),
	)
	return session, nil
}

// CurrentQuestion returns the question at the session cursor. Completed
// sessions have none and report ErrNotFound.
func (o *Orchestrator) CurrentQuestion(ctx context.Context, id uuid.UUID) (*CurrentQuestion, error) {
	session, err := o.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	q, ok := session.CurrentQuestion()
	if !ok {
		return nil, fmt.Errorf("%w: session %s has no current question", ErrNotFound, id)
	}
	return &CurrentQuestion{
		Question: q,
		Index:    session.CurrentQuestionIndex,
		Total:    len(session.Questions),
	}, nil
}

// Answer is the outcome of submitting an answer.
type Answer struct {
	Session *types.Session
	// Recorded is the response appended by this call, nil when blank text
	// left the session unchanged.
	Recorded *types.Response
}

// AcceptAnswer scores text against the current question, records it and
// advances the session. Blank text leaves the session unchanged. The skip
// sentinel is recorded without scoring.
func (o *Orchestrator) AcceptAnswer(ctx context.Context, id uuid.UUID, text string) (*types.Session, error) {
	answer, err := o.SubmitAnswer(ctx, id, text)
	if err != nil {
		return nil, err
	}
	return answer.Session, nil
}

// SubmitAnswer is AcceptAnswer reporting which response, if any, was recorded.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, id uuid.UUID, text string) (*Answer, error) {
	session, err := o.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return o.accept(ctx, session, text)
}

// AcceptVoiceAnswer transcribes audio and records the transcript as the
// answer. When transcription fails the voice-unavailable sentinel is
// recorded instead.
func (o *Orchestrator) AcceptVoiceAnswer(ctx context.Context, id uuid.UUID, audio []byte, mimeType string) (*types.Session, error) {
	answer, err := o.SubmitVoiceAnswer(ctx, id, audio, mimeType)
	if err != nil {
		return nil, err
	}
	return answer.Session, nil
}

// SubmitVoiceAnswer is AcceptVoiceAnswer reporting the recorded response.
func (o *Orchestrator) SubmitVoiceAnswer(ctx context.Context, id uuid.UUID, audio []byte, mimeType string) (*Answer, error) {
	session, err := o.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Completed() {
		return nil, fmt.Errorf("%w: session %s has no current question", ErrNotFound, id)
	}

	text := types.VoiceUnavailableSentinel
	if o.transcriber != nil {
		transcript, err := o.transcriber.Transcribe(ctx, audio, mimeType)
		switch {
		case err != nil:
			o.logger.Warn("transcription failed, recording placeholder",
				zap.String(logging.FieldSession, id.String()),
				zap.Error(err),
			)
		case strings.TrimSpace(transcript) == "":
			o.logger.Warn("empty transcript, recording placeholder",
				zap.String(logging.FieldSession, id.String()),
			)
		default:
			text = transcript
		}
	}
	return o.accept(ctx, session, text)
}

func (o *Orchestrator) accept(ctx context.Context, session *types.Session, text string) (*Answer, error) {
	if strings.TrimSpace(text) == "" {
		return &Answer{Session: session}, nil
	}
	q, ok := session.CurrentQuestion()
	if !ok {
		return nil, fmt.Errorf("%w: session %s has no current question", ErrNotFound, session.ID)
	}

	var result types.EvaluationResult
	if text == types.SkipSentinel {
		result = types.SkippedEvaluation()
	} else {
		result = o.score(ctx, q.Text, text)
	}

	next := session.Advance(types.Response{
		QuestionID:   q.ID,
		ResponseText: text,
		Evaluation:   result,
		Timestamp:    o.now().UTC(),
	}, o.now().UTC())

	if err := o.store.Save(ctx, next, session.CurrentQuestionIndex, len(session.Responses)); err != nil {
		return nil, err
	}

	o.logger.Debug("answer recorded",
		zap.String(logging.FieldSession, session.ID.String()),
		zap.Int("question_index", session.CurrentQuestionIndex),
		zap.Int("score", result.Score),
		zap.Bool("completed", next.Completed()),
	)
	recorded := next.Responses[len(next.Responses)-1]
	return &Answer{Session: next, Recorded: &recorded}, nil
}

func (o *Orchestrator) score(ctx context.Context, question, answer string) types.EvaluationResult {
	if o.scorer == nil {
		if strings.TrimSpace(question) == "" {
			return types.NoEvaluation()
		}
		return evaluation.Heuristic(question, answer)
	}
	return o.scorer.Evaluate(ctx, question, answer)
}

// Finish ends a session early. Every unanswered question is recorded as
// skipped in a single save, leaving the session completed. Finishing a
// completed session returns it unchanged.
func (o *Orchestrator) Finish(ctx context.Context, id uuid.UUID) (*types.Session, error) {
	session, err := o.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Completed() {
		return session, nil
	}

	now := o.now().UTC()
	next := session
	for {
		q, ok := next.CurrentQuestion()
		if !ok {
			break
		}
		next = next.Advance(types.Response{
			QuestionID:   q.ID,
			ResponseText: types.SkipSentinel,
			Evaluation:   types.SkippedEvaluation(),
			Timestamp:    now,
		}, now)
	}

	if err := o.store.Save(ctx, next, session.CurrentQuestionIndex, len(session.Responses)); err != nil {
		return nil, err
	}
	o.logger.Info("interview finished early",
		zap.String(logging.FieldSession, id.String()),
		zap.Int("skipped", len(next.Responses)-len(session.Responses)),
	)
	return next, nil
}

// Summary returns the full session.
func (o *Orchestrator) Summary(ctx context.Context, id uuid.UUID) (*types.Session, error) {
	return o.store.FindByID(ctx, id)
}

// History lists the user's sessions, newest first.
func (o *Orchestrator) History(ctx context.Context, userID uuid.UUID, limit int) ([]types.SessionSummary, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	sessions, err := o.store.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	out := make([]types.SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Summary())
	}
	return out, nil
}
