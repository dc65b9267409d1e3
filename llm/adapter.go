package llm

import "context"

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// CompletionRequest describes one chat-completion call.
type CompletionRequest struct {
	SystemPrompt string
	Messages     []Message
	Model        string
}

// StreamHandler receives streamed completion output. OnChunk is invoked
// once per delta, strictly in arrival order, never concurrently for one
// request. OnComplete is invoked exactly once with the full
// concatenation on clean completion; it is never called after a
// mid-stream error.
type StreamHandler struct {
	OnChunk    func(content string)
	OnComplete func(full string)
}

// Completer is the interface for chat-completion providers.
type Completer interface {
	// Complete sends a blocking request and returns the first choice's
	// text content.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// Stream sends a streaming request, delivering deltas through the
	// handler.
	Stream(ctx context.Context, req CompletionRequest, handler StreamHandler) error

	// ListModelIDs returns the model identifiers the provider
	// currently advertises.
	ListModelIDs(ctx context.Context) ([]string, error)
}
