// Package llmtest provides a scriptable llm.Client for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/jonathan/interview-coach/internal/llm"
)

// Reply is one scripted outcome for a call.
type Reply struct {
	Text string
	Err  error
}

// Client is an in-memory llm.Client. Calls consume scripted replies in
// order; once the script is exhausted the last reply repeats.
type Client struct {
	mu sync.Mutex

	Completions    []Reply
	Transcriptions []Reply

	// Block, when set, makes every call wait until the channel is closed
	// or the context ends.
	Block chan struct{}

	Requests    []llm.CompletionRequest
	Transcribed [][]byte
}

var _ llm.Client = (*Client)(nil)

// Complete returns the next scripted completion.
func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	c.mu.Lock()
	c.Requests = append(c.Requests, req)
	reply := next(&c.Completions)
	c.mu.Unlock()

	if err := c.wait(ctx); err != nil {
		return "", err
	}
	return reply.Text, reply.Err
}

// Transcribe returns the next scripted transcription.
func (c *Client) Transcribe(ctx context.Context, audio []byte, _, _ string) (string, error) {
	c.mu.Lock()
	c.Transcribed = append(c.Transcribed, audio)
	reply := next(&c.Transcriptions)
	c.mu.Unlock()

	if err := c.wait(ctx); err != nil {
		return "", err
	}
	return reply.Text, reply.Err
}

// Provider returns a fixed test provider name.
func (c *Client) Provider() llm.Provider { return "fake" }

// GetModel returns the tier name.
func (c *Client) GetModel(tier llm.ModelTier) string { return string(tier) }

// Close does nothing.
func (c *Client) Close() error { return nil }

// CompletionCalls returns how many completions were requested.
func (c *Client) CompletionCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Requests)
}

func (c *Client) wait(ctx context.Context) error {
	if c.Block == nil {
		return nil
	}
	select {
	case <-c.Block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func next(script *[]Reply) Reply {
	s := *script
	switch len(s) {
	case 0:
		return Reply{Err: &llm.APICallError{Provider: "fake", Message: "no scripted reply"}}
	case 1:
		return s[0]
	default:
		*script = s[1:]
		return s[0]
	}
}
