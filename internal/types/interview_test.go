package types

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuestions(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{ID: uuid.NewString(), Text: "question", Category: "Technical"}
	}
	return qs
}

func TestStartRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request StartRequest
		wantErr bool
	}{
		{
			name:    "valid request",
			request: StartRequest{Type: "technical", Difficulty: "mid"},
		},
		{
			name:    "valid request with role",
			request: StartRequest{Type: "Behavioral", Difficulty: "SENIOR", JobRole: "Frontend Developer"},
		},
		{
			name:    "missing type",
			request: StartRequest{Difficulty: "Mid"},
			wantErr: true,
		},
		{
			name:    "unknown difficulty",
			request: StartRequest{Type: "Technical", Difficulty: "Expert"},
			wantErr: true,
		},
		{
			name:    "blank difficulty",
			request: StartRequest{Type: "Technical", Difficulty: "   "},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.request
			req.Normalize()
			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCanonicalTag(t *testing.T) {
	assert.Equal(t, "Technical", CanonicalTag("technical"))
	assert.Equal(t, "Technical", CanonicalTag("  TECHNICAL "))
	assert.Equal(t, "Mid", CanonicalTag("mid"))
	assert.Equal(t, "System Design", CanonicalTag("system   design"))
	assert.Equal(t, "", CanonicalTag("  "))
}

func TestSession_Advance(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewSession(uuid.New(), StartRequest{Type: "Technical", Difficulty: "Mid"}, sampleQuestions(2), now)

	require.Equal(t, StatusOngoing, s.Status)
	require.Equal(t, 0, s.CurrentQuestionIndex)

	first := s.Advance(Response{QuestionID: s.Questions[0].ID, ResponseText: "a"}, now.Add(time.Minute))
	assert.Equal(t, 1, first.CurrentQuestionIndex)
	assert.Equal(t, StatusOngoing, first.Status)
	assert.Len(t, first.Responses, 1)

	// original value untouched
	assert.Equal(t, 0, s.CurrentQuestionIndex)
	assert.Empty(t, s.Responses)

	second := first.Advance(Response{QuestionID: s.Questions[1].ID, ResponseText: "b"}, now.Add(2*time.Minute))
	assert.Equal(t, 2, second.CurrentQuestionIndex)
	assert.Equal(t, StatusCompleted, second.Status)
	assert.Len(t, second.Responses, second.CurrentQuestionIndex)

	_, ok := second.CurrentQuestion()
	assert.False(t, ok)
}

func TestSession_CloneIsDeep(t *testing.T) {
	s := NewSession(uuid.New(), StartRequest{Type: "Technical", Difficulty: "Mid"}, sampleQuestions(1), time.Now())
	s.Responses = append(s.Responses, Response{Evaluation: EvaluationResult{Improvements: []string{"x"}}})

	c := s.Clone()
	c.Questions[0].Text = "changed"
	c.Responses[0].Evaluation.Improvements[0] = "y"

	assert.Equal(t, "question", s.Questions[0].Text)
	assert.Equal(t, "x", s.Responses[0].Evaluation.Improvements[0])
}

func TestSession_AverageScore(t *testing.T) {
	s := &Session{}
	assert.Zero(t, s.AverageScore())

	s.Responses = []Response{
		{Evaluation: EvaluationResult{Score: 60}},
		{Evaluation: EvaluationResult{Score: 90}},
	}
	assert.InDelta(t, 75.0, s.AverageScore(), 0.001)

	summary := s.Summary()
	assert.Equal(t, 2, summary.AnsweredCount)
	assert.InDelta(t, 75.0, summary.AverageScore, 0.001)
}

func TestIsVoiceUnavailable(t *testing.T) {
	assert.True(t, IsVoiceUnavailable(VoiceUnavailableSentinel))
	assert.True(t, IsVoiceUnavailable("Voice response submitted - transcription unavailable"))
	assert.False(t, IsVoiceUnavailable("I used voice"))
}
