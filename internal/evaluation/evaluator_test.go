package evaluation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/llm/llmtest"
	"github.com/jonathan/interview-coach/internal/types"
)

const question = "Explain how you would design a scalable REST API for a social media platform."

func TestEvaluator_UsesModelReply(t *testing.T) {
	client := &llmtest.Client{Completions: []llmtest.Reply{{
		Text: "```json\n{\"score\": 82.6, \"feedback\": \"Solid.\", \"improvements\": [\"Mention caching\", \" \"]}\n```",
	}}}
	e := NewEvaluator(client, time.Second, nil)

	result := e.Evaluate(context.Background(), question, "I would shard by user id.")
	assert.Equal(t, 83, result.Score)
	assert.Equal(t, "Solid.", result.Feedback)
	assert.Equal(t, []string{"Mention caching"}, result.Improvements)

	require.Len(t, client.Requests, 1)
	req := client.Requests[0]
	assert.Equal(t, llm.TierLite, req.Tier)
	assert.InDelta(t, 0.3, req.Temperature, 0.0001)
	assert.Equal(t, int32(500), req.MaxTokens)
	assert.True(t, req.JSON)
	assert.Contains(t, req.User, `Question: "`+question+`"`)
	assert.Contains(t, req.User, `Candidate's Answer: "I would shard by user id."`)
}

func TestEvaluator_FallsBackToHeuristic(t *testing.T) {
	answer := "Testing and debugging matter. Security too."
	want := Heuristic(question, answer)

	tests := []struct {
		name  string
		reply llmtest.Reply
	}{
		{name: "call failure", reply: llmtest.Reply{Err: &llm.APICallError{Provider: "fake", Message: "503"}}},
		{name: "not JSON", reply: llmtest.Reply{Text: "Great answer, 9/10"}},
		{name: "missing score", reply: llmtest.Reply{Text: `{"feedback": "ok"}`}},
		{name: "score wrong type", reply: llmtest.Reply{Text: `{"score": "ninety"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			client := &llmtest.Client{Completions: []llmtest.Reply{tt.reply}}
			e := NewEvaluator(client, time.Second, zap.New(core))

			assert.Equal(t, want, e.Evaluate(context.Background(), question, answer))
			assert.Equal(t, 1, logs.FilterMessage("model evaluation failed, using heuristic").Len())
		})
	}
}

func TestEvaluator_TimeoutFallsBack(t *testing.T) {
	client := &llmtest.Client{
		Completions: []llmtest.Reply{{Text: `{"score": 99}`}},
		Block:       make(chan struct{}),
	}
	e := NewEvaluator(client, 10*time.Millisecond, nil)

	result := e.Evaluate(context.Background(), question, "short")
	assert.Equal(t, Heuristic(question, "short"), result)
}

func TestEvaluator_NoQuestionText(t *testing.T) {
	client := &llmtest.Client{}
	e := NewEvaluator(client, time.Second, nil)

	assert.Equal(t, types.NoEvaluation(), e.Evaluate(context.Background(), "  ", "answer"))
	assert.Zero(t, client.CompletionCalls())
}

func TestEvaluator_VoiceSentinelSkipsModel(t *testing.T) {
	client := &llmtest.Client{Completions: []llmtest.Reply{{Text: `{"score": 10}`}}}
	e := NewEvaluator(client, time.Second, nil)

	result := e.Evaluate(context.Background(), question, types.VoiceUnavailableSentinel)
	assert.Equal(t, VoiceScore, result.Score)
	assert.Zero(t, client.CompletionCalls())
}

func TestEvaluator_NilClient(t *testing.T) {
	e := NewEvaluator(nil, 0, nil)
	assert.Equal(t, Heuristic(question, strongAnswer), e.Evaluate(context.Background(), question, strongAnswer))
}

func TestParseModelEvaluation(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  types.EvaluationResult
	}{
		{
			name:  "clamped high",
			reply: `{"score": 140, "feedback": "wow", "improvements": []}`,
			want:  types.EvaluationResult{Score: 100, Feedback: "wow", Improvements: []string{}},
		},
		{
			name:  "clamped low",
			reply: `{"score": -3, "feedback": "bad"}`,
			want:  types.EvaluationResult{Score: 0, Feedback: "bad", Improvements: []string{}},
		},
		{
			name:  "missing feedback uses band text",
			reply: `Sure! {"score": 72}`,
			want:  types.EvaluationResult{Score: 72, Feedback: bands[2].feedback, Improvements: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseModelEvaluation(tt.reply)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseModelEvaluation_Malformed(t *testing.T) {
	_, err := ParseModelEvaluation(`{"feedback": "no score"}`)
	var parseErr *llm.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.True(t, llm.IsUpstream(err))
}
