package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/types"
)

const sessionColumns = `id, user_id, type, difficulty, job_role, resume_text, status,
	questions, responses, current_question_index, created_at, updated_at`

// SessionStore persists interview sessions. Questions and responses are
// stored as JSONB documents on the session row.
type SessionStore struct {
	pool *pgxpool.Pool
}

var _ interview.SessionStore = (*SessionStore)(nil)

// Create inserts a new session.
func (s *SessionStore) Create(ctx context.Context, session *types.Session) error {
	questionsJSON, err := json.Marshal(session.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}
	responsesJSON, err := marshalResponses(session.Responses)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO interview_sessions (`+sessionColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		session.ID, session.UserID, session.Type, session.Difficulty, session.JobRole,
		session.ResumeText, string(session.Status), questionsJSON, responsesJSON,
		session.CurrentQuestionIndex, session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindByID loads a session, returning interview.ErrNotFound when absent.
func (s *SessionStore) FindByID(ctx context.Context, id uuid.UUID) (*types.Session, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM interview_sessions WHERE id = $1`, id)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: session %s", interview.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// Save writes the mutable columns of next, conditional on the stored cursor
// and response count still matching. A lost race returns interview.ErrConflict.
func (s *SessionStore) Save(ctx context.Context, next *types.Session, expectedIndex, expectedResponses int) error {
	responsesJSON, err := marshalResponses(next.Responses)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE interview_sessions
		 SET status = $2, responses = $3, current_question_index = $4, updated_at = $5
		 WHERE id = $1 AND current_question_index = $6 AND jsonb_array_length(responses) = $7`,
		next.ID, string(next.Status), responsesJSON, next.CurrentQuestionIndex, next.UpdatedAt,
		expectedIndex, expectedResponses,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM interview_sessions WHERE id = $1)`, next.ID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: session %s", interview.ErrNotFound, next.ID)
	}
	return fmt.Errorf("%w: session %s", interview.ErrConflict, next.ID)
}

// ListByUser returns up to limit of the user's sessions, newest first.
func (s *SessionStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Session, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+sessionColumns+` FROM interview_sessions
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*types.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func scanSession(row pgx.Row) (*types.Session, error) {
	var (
		session                      types.Session
		status                       string
		questionsJSON, responsesJSON []byte
		createdAt, updatedAt         time.Time
	)
	err := row.Scan(
		&session.ID, &session.UserID, &session.Type, &session.Difficulty, &session.JobRole,
		&session.ResumeText, &status, &questionsJSON, &responsesJSON,
		&session.CurrentQuestionIndex, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	session.Status = types.SessionStatus(status)
	session.CreatedAt = createdAt.UTC()
	session.UpdatedAt = updatedAt.UTC()

	if err := json.Unmarshal(questionsJSON, &session.Questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions: %w", err)
	}
	if err := json.Unmarshal(responsesJSON, &session.Responses); err != nil {
		return nil, fmt.Errorf("failed to unmarshal responses: %w", err)
	}
	if session.Responses == nil {
		session.Responses = []types.Response{}
	}
	return &session, nil
}

func marshalResponses(responses []types.Response) ([]byte, error) {
	if responses == nil {
		responses = []types.Response{}
	}
	b, err := json.Marshal(responses)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal responses: %w", err)
	}
	return b, nil
}
