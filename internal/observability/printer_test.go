package observability

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/interview-coach/internal/types"
)

func assertBoxed(t *testing.T, out string) {
	t.Helper()
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), "line %q", line)
	}
}

func TestPrintQuestion(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintQuestion(1, 5, types.Question{
		Text:     strings.Repeat("Describe a distributed system you designed. ", 4),
		Category: "Technical",
	})

	out := buf.String()
	assert.Contains(t, out, "QUESTION 2 OF 5 · TECHNICAL")
	assert.Contains(t, out, "Describe a distributed")
	assertBoxed(t, out)
}

func TestPrintEvaluation(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintEvaluation(types.EvaluationResult{
		Score:        82,
		Feedback:     "Strong answer.",
		Improvements: []string{"Quantify impact"},
	})

	out := buf.String()
	assert.Contains(t, out, "Score: 82/100")
	assert.Contains(t, out, "• Quantify impact")
	assertBoxed(t, out)
}

func TestPrintSession(t *testing.T) {
	session := &types.Session{
		Type:       "Technical",
		Difficulty: "Mid",
		Status:     types.StatusCompleted,
		Questions:  make([]types.Question, 2),
		Responses: []types.Response{
			{ResponseText: "answer", Evaluation: types.EvaluationResult{Score: 80}},
			{ResponseText: types.SkipSentinel, Evaluation: types.SkippedEvaluation()},
		},
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintSession(session)

	out := buf.String()
	assert.Contains(t, out, "SESSION SUMMARY")
	assert.NotContains(t, out, "IN PROGRESS")
	assert.Contains(t, out, "Q1   80")
	assert.Contains(t, out, "Q2    -")
	assert.Contains(t, out, "Average score: 40.0")
	assertBoxed(t, out)

	buf.Reset()
	NewPrinter(&buf).PrintSession(nil)
	assert.Empty(t, buf.String())
}

func TestPrintResume(t *testing.T) {
	skills := make([]string, 10)
	for i := range skills {
		skills[i] = "Skill"
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintResume(&types.ParsedResume{Skills: skills})

	out := buf.String()
	assert.Contains(t, out, "... and 2 more")
	assert.Contains(t, out, "(none found)")
	assertBoxed(t, out)
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"short"}, wrap("short", 10))
	assert.Equal(t, []string{"hello", "world"}, wrap("hello world", 8))
	assert.Equal(t, []string{"abcdefgh", "ij"}, wrap("abcdefghij", 8))
}
