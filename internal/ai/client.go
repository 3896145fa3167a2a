package ai

import "context"

// Message is one turn of a chat completion.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options tune a single completion request.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Client is the interface for AI providers. The responder is the only
// consumer; it sends a system prompt plus one user turn and expects plain
// text back.
type Client interface {
	Complete(ctx context.Context, messages []Message, opts Options) (string, error)
}
