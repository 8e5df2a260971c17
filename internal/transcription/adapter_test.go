package transcription

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/llm/llmtest"
)

func TestAdapter_Transcribe(t *testing.T) {
	client := &llmtest.Client{Transcriptions: []llmtest.Reply{{Text: "  I would use a queue.\n"}}}
	a := NewAdapter(client, time.Second, nil)

	text, err := a.Transcribe(context.Background(), []byte{1, 2, 3}, "")
	require.NoError(t, err)
	assert.Equal(t, "I would use a queue.", text)
	require.Len(t, client.Transcribed, 1)
	assert.Equal(t, []byte{1, 2, 3}, client.Transcribed[0])
}

func TestAdapter_Errors(t *testing.T) {
	tests := []struct {
		name    string
		client  llm.Client
		audio   []byte
		wantErr error
	}{
		{
			name:    "empty audio",
			client:  &llmtest.Client{},
			audio:   nil,
			wantErr: ErrEmptyAudio,
		},
		{
			name:    "no client",
			client:  nil,
			audio:   []byte("x"),
			wantErr: ErrNoClient,
		},
		{
			name:    "blank transcript",
			client:  &llmtest.Client{Transcriptions: []llmtest.Reply{{Text: "   "}}},
			audio:   []byte("x"),
			wantErr: ErrEmptyTranscript,
		},
		{
			name:    "provider unsupported",
			client:  &llmtest.Client{Transcriptions: []llmtest.Reply{{Err: llm.ErrUnsupported}}},
			audio:   []byte("x"),
			wantErr: llm.ErrUnsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAdapter(tt.client, time.Second, nil)
			_, err := a.Transcribe(context.Background(), tt.audio, "audio/webm")
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestAdapter_Timeout(t *testing.T) {
	client := &llmtest.Client{
		Transcriptions: []llmtest.Reply{{Text: "late"}},
		Block:          make(chan struct{}),
	}
	a := NewAdapter(client, 10*time.Millisecond, nil)

	_, err := a.Transcribe(context.Background(), []byte("x"), "audio/mpeg")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
