// Package ai talks to hosted chat-completion providers.
package ai

import (
	"context"
	"time"
)

// CompletionRequest is a single-turn exchange: one system instruction and
// one user prompt.
type CompletionRequest struct {
	System string
	Prompt string
}

// Completer returns the text of the first choice, or "" when the provider
// sent none.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Options are the sampling parameters shared by every provider. A zero
// Temperature is sent as zero; callers own its default.
type Options struct {
	Model       string
	Temperature float32
	MaxTokens   int
	TopP        float32
	Timeout     time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxTokens <= 0 {
		o.MaxTokens = 1024
	}
	if o.TopP == 0 {
		o.TopP = 1
	}
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
	return o
}
