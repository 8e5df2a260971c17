package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/db/memory"
	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/llm/llmtest"
	"github.com/jonathan/interview-coach/internal/questions"
	"github.com/jonathan/interview-coach/internal/transcription"
	"github.com/jonathan/interview-coach/internal/types"
)

type fixedQuestions []types.Question

func (f fixedQuestions) Generate(context.Context, questions.Request) []types.Question {
	return f
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:        8080,
			CORSOrigins: []string{"*"},
			RateLimit:   config.RateLimitConfig{Enabled: false},
		},
		Auth:      config.AuthConfig{Disabled: true},
		Interview: config.InterviewConfig{QuestionCount: 2, HistoryLimit: 20},
	}
}

func newTestServer(t *testing.T, cfg *config.Config, deps Deps) *Server {
	t.Helper()
	if deps.Interviews == nil {
		client := &llmtest.Client{
			Completions:    []llmtest.Reply{{Err: &llm.APICallError{Provider: "fake", Message: "down"}}},
			Transcriptions: []llmtest.Reply{{Text: "I would use a queue."}},
		}
		o, err := interview.New(interview.Deps{
			Store: memory.NewStore(),
			Questions: fixedQuestions{
				{ID: "ai_0", Text: "How would you design a job queue?", Category: "Technical"},
				{ID: "ai_1", Text: "Tell me about a conflict.", Category: "Behavioral"},
			},
			Transcriber: transcription.NewAdapter(client, time.Second, nil),
		})
		require.NoError(t, err)
		deps.Interviews = o
	}
	s, err := New(cfg, deps)
	require.NoError(t, err)
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func do(t *testing.T, h http.Handler, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func startSession(t *testing.T, h http.Handler) types.Session {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/interviews/start", map[string]string{"type": "Technical", "difficulty": "Mid"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var session types.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	return session
}

func multipartBody(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestNew_RequiresSecretWhenAuthEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.Auth = config.AuthConfig{ExpirationHours: 1}
	o, err := interview.New(interview.Deps{Store: memory.NewStore()})
	require.NoError(t, err)

	_, err = New(cfg, Deps{Interviews: o})
	assert.Error(t, err)

	_, err = New(cfg, Deps{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, testConfig(), Deps{})
	rec := do(t, s.Handler(), http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	s = newTestServer(t, testConfig(), Deps{Health: pinger{err: errors.New("down")}})
	rec = do(t, s.Handler(), http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestInterviewFlow(t *testing.T) {
	h := newTestServer(t, testConfig(), Deps{}).Handler()
	session := startSession(t, h)
	assert.Equal(t, LocalUserID, session.UserID)
	base := "/interviews/" + session.ID.String()

	rec := do(t, h, http.MethodGet, base+"/next", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var current interview.CurrentQuestion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &current))
	assert.Equal(t, "ai_0", current.Question.ID)
	assert.Equal(t, 2, current.Total)

	rec = do(t, h, http.MethodPost, base+"/answer", types.AnswerRequest{ResponseText: "For example, I built a queue with retries."}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var answer answerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &answer))
	assert.True(t, answer.Success)
	assert.Equal(t, 1, answer.CurrentQuestionIndex)
	require.NotNil(t, answer.Evaluation)

	body, contentType := multipartBody(t, "audio", "answer.webm", "audio/webm", []byte("audio-bytes"))
	rec = do(t, h, http.MethodPost, base+"/answer-voice", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "voice answer without a file")

	req := httptest.NewRequest(http.MethodPost, base+"/answer-voice", body)
	req.Header.Set("Content-Type", contentType)
	voice := httptest.NewRecorder()
	h.ServeHTTP(voice, req)
	require.Equal(t, http.StatusOK, voice.Code, voice.Body.String())
	require.NoError(t, json.Unmarshal(voice.Body.Bytes(), &answer))
	assert.Equal(t, types.StatusCompleted, answer.Status)
	assert.Equal(t, 2, answer.CurrentQuestionIndex)

	rec = do(t, h, http.MethodGet, base+"/next", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, base+"/summary", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary types.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	require.Len(t, summary.Responses, 2)
	assert.Equal(t, "I would use a queue.", summary.Responses[1].ResponseText)

	rec = do(t, h, http.MethodGet, "/interviews/history", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history struct {
		Sessions []types.SessionSummary `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history.Sessions, 1)
	assert.Equal(t, 2, history.Sessions[0].AnsweredCount)
}

func TestBlankAnswer(t *testing.T) {
	h := newTestServer(t, testConfig(), Deps{}).Handler()
	session := startSession(t, h)
	base := "/interviews/" + session.ID.String()

	rec := do(t, h, http.MethodPost, base+"/answer", types.AnswerRequest{ResponseText: "  "}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var answer answerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &answer))
	assert.Equal(t, 0, answer.CurrentQuestionIndex)
	assert.Equal(t, types.StatusOngoing, answer.Status)
	assert.Nil(t, answer.Evaluation)

	rec = do(t, h, http.MethodPost, base+"/finish", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, base+"/answer", types.AnswerRequest{}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	answer = answerResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &answer))
	assert.Equal(t, types.StatusCompleted, answer.Status)
	assert.Nil(t, answer.Evaluation)
}

func TestFinish(t *testing.T) {
	h := newTestServer(t, testConfig(), Deps{}).Handler()
	session := startSession(t, h)

	rec := do(t, h, http.MethodPost, "/interviews/"+session.ID.String()+"/finish", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var finished types.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &finished))
	assert.Equal(t, types.StatusCompleted, finished.Status)
	assert.Len(t, finished.Responses, 2)
}

func TestErrors(t *testing.T) {
	h := newTestServer(t, testConfig(), Deps{}).Handler()

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"invalid difficulty", http.MethodPost, "/interviews/start", map[string]string{"type": "Technical", "difficulty": "Expert"}, http.StatusBadRequest},
		{"empty body", http.MethodPost, "/interviews/start", nil, http.StatusBadRequest},
		{"bad id", http.MethodGet, "/interviews/not-a-uuid/next", nil, http.StatusBadRequest},
		{"unknown session", http.MethodGet, "/interviews/" + uuid.NewString() + "/next", nil, http.StatusNotFound},
		{"unknown session answer", http.MethodPost, "/interviews/" + uuid.NewString() + "/answer", types.AnswerRequest{ResponseText: "x"}, http.StatusNotFound},
		{"bad history limit", http.MethodGet, "/interviews/history?limit=0", nil, http.StatusBadRequest},
		{"wrong method", http.MethodGet, "/interviews/start", nil, http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body, nil)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestParseResume(t *testing.T) {
	h := newTestServer(t, testConfig(), Deps{}).Handler()

	body, contentType := multipartBody(t, "resume", "cv.txt", "", []byte("Python and Docker, 4 years of experience\nB.S. Computer Science"))
	req := httptest.NewRequest(http.MethodPost, "/interviews/parse-resume", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var parsed types.ParsedResume
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	assert.Equal(t, []string{"Docker", "Python"}, parsed.Skills)
	assert.Equal(t, []string{"4 years of experience"}, parsed.Experience)

	body, contentType = multipartBody(t, "resume", "photo.png", "image/png", []byte{0x89, 'P', 'N', 'G'})
	req = httptest.NewRequest(http.MethodPost, "/interviews/parse-resume", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	cfg := testConfig()
	cfg.Auth = config.AuthConfig{JWTSecret: "test-secret", ExpirationHours: 1}
	s := newTestServer(t, cfg, Deps{})
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/interviews/history", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	userID := uuid.New()
	token, err := s.jwtService.GenerateToken(userID)
	require.NoError(t, err)
	header := http.Header{"Authorization": {"Bearer " + token}}

	rec = do(t, h, http.MethodPost, "/interviews/start", map[string]string{"type": "Technical", "difficulty": "Entry"}, header)
	require.Equal(t, http.StatusCreated, rec.Code)
	var session types.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Equal(t, userID, session.UserID)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1, AnswerRPS: 0.001, AnswerBurst: 1}
	h := newTestServer(t, cfg, Deps{}).Handler()

	rec := do(t, h, http.MethodGet, "/interviews/history", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/interviews/history", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	rec = do(t, h, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS(t *testing.T) {
	cfg := testConfig()
	cfg.Server.CORSOrigins = []string{"https://app.example.com"}
	h := newTestServer(t, cfg, Deps{}).Handler()

	rec := do(t, h, http.MethodOptions, "/interviews/start", nil, http.Header{"Origin": {"https://app.example.com"}})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(t, h, http.MethodOptions, "/interviews/start", nil, http.Header{"Origin": {"https://evil.example.com"}})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
