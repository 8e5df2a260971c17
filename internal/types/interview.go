// Package types provides type definitions for structured data used throughout the interview coach.
package types

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of an interview session.
type SessionStatus string

const (
	// StatusOngoing marks a session that still has unanswered questions.
	StatusOngoing SessionStatus = "ongoing"
	// StatusCompleted marks a session whose every question has a response.
	StatusCompleted SessionStatus = "completed"
)

// Difficulty levels accepted when starting a session.
const (
	DifficultyEntry  = "Entry"
	DifficultyMid    = "Mid"
	DifficultySenior = "Senior"
)

const (
	// SkipSentinel is the answer text a client submits to skip a question.
	SkipSentinel = "Question skipped by user"
	// VoiceUnavailableSentinel is the answer text recorded when a voice answer
	// could not be transcribed.
	VoiceUnavailableSentinel = "Voice response submitted - transcription unavailable due to API limits"
	// voiceUnavailableMarker is matched as a substring so client-side variants still count.
	voiceUnavailableMarker = "Voice response submitted - transcription unavailable"
)

// IsVoiceUnavailable reports whether an answer carries the voice-unavailable marker.
func IsVoiceUnavailable(answer string) bool {
	return strings.Contains(answer, voiceUnavailableMarker)
}

// Question is a single interview prompt. Questions are immutable once a session is created.
type Question struct {
	ID       string `json:"question_id" yaml:"id"`
	Text     string `json:"text" yaml:"text"`
	Category string `json:"category,omitempty" yaml:"category"`
}

// EvaluationResult is the scored feedback attached to a response.
type EvaluationResult struct {
	Score        int      `json:"score"`
	Feedback     string   `json:"feedback"`
	Improvements []string `json:"improvements"`
}

// SkippedEvaluation is recorded for skipped questions.
func SkippedEvaluation() EvaluationResult {
	return EvaluationResult{Score: 0, Feedback: "Question skipped", Improvements: []string{}}
}

// NoEvaluation is recorded when there is no question text to evaluate against.
func NoEvaluation() EvaluationResult {
	return EvaluationResult{Score: 0, Feedback: "No evaluation available", Improvements: []string{}}
}

// Response is a candidate answer together with its evaluation.
type Response struct {
	QuestionID   string           `json:"question_id"`
	ResponseText string           `json:"response_text"`
	Evaluation   EvaluationResult `json:"evaluation"`
	Timestamp    time.Time        `json:"timestamp"`
}

// Session is an interview session. Values handed out by the orchestrator are
// never mutated in place; every transition produces a new Session.
type Session struct {
	ID                   uuid.UUID     `json:"id"`
	UserID               uuid.UUID     `json:"user_id"`
	Type                 string        `json:"type"`
	Difficulty           string        `json:"difficulty"`
	JobRole              string        `json:"job_role,omitempty"`
	ResumeText           string        `json:"resume_text,omitempty"`
	Status               SessionStatus `json:"status"`
	Questions            []Question    `json:"questions"`
	Responses            []Response    `json:"responses"`
	CurrentQuestionIndex int           `json:"current_question_index"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

// NewSession builds an ongoing session positioned at the first question.
func NewSession(userID uuid.UUID, req StartRequest, questions []Question, now time.Time) *Session {
	return &Session{
		ID:         uuid.New(),
		UserID:     userID,
		Type:       req.Type,
		Difficulty: req.Difficulty,
		JobRole:    req.JobRole,
		ResumeText: req.ResumeText,
		Status:     StatusOngoing,
		Questions:  append([]Question(nil), questions...),
		Responses:  []Response{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Questions = append([]Question(nil), s.Questions...)
	c.Responses = make([]Response, len(s.Responses))
	for i, r := range s.Responses {
		r.Evaluation.Improvements = append([]string(nil), r.Evaluation.Improvements...)
		c.Responses[i] = r
	}
	return &c
}

// Completed reports whether every question has been answered.
func (s *Session) Completed() bool {
	return s.Status == StatusCompleted
}

// CurrentQuestion returns the question at the cursor, or false when the session is completed.
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.Completed() || s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.CurrentQuestionIndex], true
}

// Advance returns a copy of the session with resp appended and the cursor moved
// forward. Answering the final question leaves the cursor at len(Questions)
// and marks the session completed.
func (s *Session) Advance(resp Response, now time.Time) *Session {
	next := s.Clone()
	next.Responses = append(next.Responses, resp)
	next.CurrentQuestionIndex++
	if next.CurrentQuestionIndex >= len(next.Questions) {
		next.CurrentQuestionIndex = len(next.Questions)
		next.Status = StatusCompleted
	}
	next.UpdatedAt = now
	return next
}

// AverageScore is the mean evaluation score across responses, or 0 when there are none.
func (s *Session) AverageScore() float64 {
	if len(s.Responses) == 0 {
		return 0
	}
	total := 0
	for _, r := range s.Responses {
		total += r.Evaluation.Score
	}
	return float64(total) / float64(len(s.Responses))
}

// Summary projects the session into its history entry.
func (s *Session) Summary() SessionSummary {
	return SessionSummary{
		ID:             s.ID,
		Type:           s.Type,
		Difficulty:     s.Difficulty,
		JobRole:        s.JobRole,
		Status:         s.Status,
		QuestionCount:  len(s.Questions),
		AnsweredCount:  len(s.Responses),
		AverageScore:   s.AverageScore(),
		CreatedAt:      s.CreatedAt,
		LastActivityAt: s.UpdatedAt,
	}
}

// SessionSummary is a lightweight history entry for a session.
type SessionSummary struct {
	ID             uuid.UUID     `json:"id"`
	Type           string        `json:"type"`
	Difficulty     string        `json:"difficulty"`
	JobRole        string        `json:"job_role,omitempty"`
	Status         SessionStatus `json:"status"`
	QuestionCount  int           `json:"question_count"`
	AnsweredCount  int           `json:"answered_count"`
	AverageScore   float64       `json:"average_score"`
	CreatedAt      time.Time     `json:"created_at"`
	LastActivityAt time.Time     `json:"last_activity_at"`
}

// StartRequest represents a request to start a new interview session.
type StartRequest struct {
	Type       string `json:"type" validate:"required,max=64"`
	Difficulty string `json:"difficulty" validate:"required,oneof=Entry Mid Senior"`
	JobRole    string `json:"job_role,omitempty" validate:"max=128"`
	ResumeText string `json:"resume_text,omitempty" validate:"max=50000"`
}

// Normalize trims fields and canonicalizes the type and difficulty tags.
func (r *StartRequest) Normalize() {
	r.Type = CanonicalTag(r.Type)
	r.Difficulty = CanonicalTag(r.Difficulty)
	r.JobRole = strings.TrimSpace(r.JobRole)
	r.ResumeText = strings.TrimSpace(r.ResumeText)
}

// Validate validates the StartRequest using the validator.
func (r *StartRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// AnswerRequest carries a text answer for the current question.
type AnswerRequest struct {
	ResponseText string `json:"response_text"`
}
