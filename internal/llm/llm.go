package llm

import "context"

// Request carries one generation request to a provider.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// Client abstracts text-generation providers. Implementations perform
// exactly one call per request and honor ctx cancellation, so callers bound
// latency with a context deadline.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}
