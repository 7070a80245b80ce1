package ai

import "context"

// DefaultMaxTokens is the completion token ceiling used when a Request leaves it unset.
const DefaultMaxTokens = 16000

// Request is a single system+user prompt completion.
type Request struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Completer returns the text body of one completion for a request.
// Callers that expect structured data decode the text with DecodeJSON.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a plain function to Completer.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

func maxTokens(req Request) int {
	if req.MaxTokens <= 0 {
		return DefaultMaxTokens
	}
	return req.MaxTokens
}
