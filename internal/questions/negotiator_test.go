package questions

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/llm/llmtest"
)

const fiveQuestions = `{"questions": [
	{"text": "Q1", "category": "technical"},
	{"text": "Q2"},
	{"text": "Q3", "category": "technical"},
	{"text": "Q4", "category": "technical"},
	{"text": "Q5", "category": "technical"}
]}`

var unavailable = &llm.APICallError{Provider: "fake", StatusCode: 503, Message: "unavailable"}

func newBank(t *testing.T) *StaticBank {
	t.Helper()
	bank, err := DefaultStaticBank()
	require.NoError(t, err)
	return bank
}

func baseRequest() Request {
	return Request{JobRole: "Frontend Developer", Difficulty: "Mid", Type: "Technical"}
}

func TestNegotiator_PrimarySucceeds(t *testing.T) {
	client := &llmtest.Client{Completions: []llmtest.Reply{{Text: "```json\n" + fiveQuestions + "\n```"}}}
	n := NewNegotiator(client, newBank(t), 5, time.Second, nil)

	qs := n.Generate(context.Background(), baseRequest())
	require.Len(t, qs, 5)
	assert.Equal(t, "ai_0", qs[0].ID)
	assert.Equal(t, "Q1", qs[0].Text)
	assert.Equal(t, "Technical", qs[1].Category, "missing category defaults to the session type")

	require.Len(t, client.Requests, 1)
	req := client.Requests[0]
	assert.Equal(t, llm.TierStandard, req.Tier)
	assert.InDelta(t, 0.9, req.Temperature, 0.0001)
	assert.Equal(t, int32(1500), req.MaxTokens)
	assert.Contains(t, req.System, "Generate exactly 5 interview questions for a Frontend Developer position (Mid difficulty, Technical type).")
	assert.NotContains(t, req.System, "based on this resume")
}

func TestNegotiator_SecondaryAfterPrimaryFailure(t *testing.T) {
	client := &llmtest.Client{Completions: []llmtest.Reply{
		{Err: unavailable},
		{Text: fiveQuestions},
	}}
	n := NewNegotiator(client, newBank(t), 5, time.Second, nil)

	qs := n.Generate(context.Background(), baseRequest())
	require.Len(t, qs, 5)
	assert.Equal(t, "ai_4", qs[4].ID)

	require.Len(t, client.Requests, 2)
	assert.Equal(t, llm.TierLite, client.Requests[1].Tier)
	assert.InDelta(t, 0.7, client.Requests[1].Temperature, 0.0001)
	assert.Equal(t, int32(1000), client.Requests[1].MaxTokens)
}

func TestNegotiator_BothCallsFailUsesBank(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	client := &llmtest.Client{Completions: []llmtest.Reply{{Err: unavailable}}}
	n := NewNegotiator(client, newBank(t), 5, time.Second, zap.New(core))

	qs := n.Generate(context.Background(), baseRequest())
	require.Len(t, qs, 5)
	for _, q := range qs {
		assert.True(t, strings.HasPrefix(q.ID, "fe-"), q.ID)
	}
	assert.Equal(t, 2, client.CompletionCalls())
	assert.Equal(t, 1, logs.FilterMessage("question generation failed, using static bank").Len())
}

func TestNegotiator_MalformedReplyUsesBankWithoutSecondary(t *testing.T) {
	client := &llmtest.Client{Completions: []llmtest.Reply{{Text: "Sorry, I can't do that."}}}
	n := NewNegotiator(client, newBank(t), 5, time.Second, nil)

	qs := n.Generate(context.Background(), Request{Difficulty: "Mid", Type: "Technical"})
	require.Len(t, qs, 5)
	for _, q := range qs {
		assert.True(t, strings.HasPrefix(q.ID, "se-"), "empty role falls back to %s", DefaultRole)
	}
	assert.Equal(t, 1, client.CompletionCalls())
}

func TestNegotiator_TimeoutUsesBank(t *testing.T) {
	client := &llmtest.Client{
		Completions: []llmtest.Reply{{Text: fiveQuestions}},
		Block:       make(chan struct{}),
	}
	n := NewNegotiator(client, newBank(t), 5, 10*time.Millisecond, nil)

	qs := n.Generate(context.Background(), baseRequest())
	require.Len(t, qs, 5)
	assert.True(t, strings.HasPrefix(qs[0].ID, "fe-"))
}

func TestNegotiator_ResumeInPrompt(t *testing.T) {
	client := &llmtest.Client{Completions: []llmtest.Reply{{Text: fiveQuestions}}}
	n := NewNegotiator(client, newBank(t), 5, time.Second, nil)

	req := baseRequest()
	req.ResumeText = "Go developer, 5 years of experience with Kubernetes."
	n.Generate(context.Background(), req)

	require.Len(t, client.Requests, 1)
	assert.Contains(t, client.Requests[0].System, " based on this resume: Go developer, 5 years of experience with Kubernetes.")
}

func TestNegotiator_NilClient(t *testing.T) {
	n := NewNegotiator(nil, newBank(t), 3, 0, nil)
	assert.Len(t, n.Generate(context.Background(), baseRequest()), 3)
}

func TestNegotiator_NilBankAndFailure(t *testing.T) {
	client := &llmtest.Client{Completions: []llmtest.Reply{{Err: unavailable}}}
	n := NewNegotiator(client, nil, 5, time.Second, nil)
	assert.Empty(t, n.Generate(context.Background(), baseRequest()))
}

func TestParseQuestions(t *testing.T) {
	t.Run("preamble and limit", func(t *testing.T) {
		qs, err := ParseQuestions("Here you go:\n"+fiveQuestions, "Behavioral", 3)
		require.NoError(t, err)
		require.Len(t, qs, 3)
		assert.Equal(t, "Behavioral", qs[1].Category)
	})

	t.Run("bracket in prose before object", func(t *testing.T) {
		reply := `Here are the [5] questions you asked for: {"questions": [{"text": "Describe a system you designed.", "category": "technical"}]}`
		qs, err := ParseQuestions(reply, "Technical", 5)
		require.NoError(t, err)
		require.Len(t, qs, 1)
		assert.Equal(t, "Describe a system you designed.", qs[0].Text)
	})

	t.Run("blank texts are skipped", func(t *testing.T) {
		qs, err := ParseQuestions(`{"questions":[{"text":"  "},{"text":"Real"}]}`, "Technical", 5)
		require.NoError(t, err)
		require.Len(t, qs, 1)
		assert.Equal(t, "ai_0", qs[0].ID)
	})

	t.Run("schema mismatch", func(t *testing.T) {
		_, err := ParseQuestions(`{"items":[]}`, "Technical", 5)
		var parseErr *llm.ParseError
		require.True(t, errors.As(err, &parseErr))
	})

	t.Run("only blank texts", func(t *testing.T) {
		_, err := ParseQuestions(`{"questions":[{"text":" "}]}`, "Technical", 5)
		assert.Error(t, err)
	})
}
