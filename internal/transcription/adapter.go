// Package transcription turns recorded voice answers into text.
package transcription

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/logging"
	"github.com/jonathan/interview-coach/internal/prompts"
)

// DefaultMIMEType is assumed when the upload does not declare one.
const DefaultMIMEType = "audio/mpeg"

var (
	// ErrEmptyAudio is returned for an upload with no bytes.
	ErrEmptyAudio = errors.New("audio is empty")
	// ErrEmptyTranscript is returned when the speech service hears nothing.
	ErrEmptyTranscript = errors.New("transcript is empty")
	// ErrNoClient is returned when no speech service is configured.
	ErrNoClient = errors.New("no transcription client configured")
)

// Adapter wraps the speech capability of an llm.Client.
type Adapter struct {
	client  llm.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewAdapter creates an Adapter. timeout bounds each call; zero disables the bound.
func NewAdapter(client llm.Client, timeout time.Duration, logger *zap.Logger) *Adapter {
	logger = logging.OrNop(logger)
	if client != nil {
		logger = logging.WithModel(logger, string(client.Provider()), client.GetModel(llm.TierAdvanced))
	}
	return &Adapter{client: client, timeout: timeout, logger: logger}
}

// Transcribe returns the trimmed transcript of audio. Failures are returned
// to the caller, which decides how to degrade.
func (a *Adapter) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}
	if a.client == nil {
		return "", ErrNoClient
	}
	if strings.TrimSpace(mimeType) == "" {
		mimeType = DefaultMIMEType
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := a.client.Transcribe(ctx, audio, mimeType, prompts.MustGet(prompts.Transcription, "transcribe"))
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyTranscript
	}

	a.logger.Debug("audio transcribed",
		zap.Int("audio_bytes", len(audio)),
		zap.String("mime_type", mimeType),
		zap.Duration("took", time.Since(start)),
		zap.String("preview", logging.Truncate(text, 100)),
	)
	return text, nil
}
