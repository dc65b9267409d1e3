package llm

import (
	"context"
	"errors"
	"fmt"
	"io"

	"reposcope/logging"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Completer against any OpenAI-compatible
// chat-completions endpoint.
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a client. baseURL overrides the default
// endpoint when non-empty.
func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
	}
}

// Complete implements Completer.Complete.
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: toOpenAIMessages(req),
	})
	if err != nil {
		return "", classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", ErrEmptyResponse
	}

	return content, nil
}

// Stream implements Completer.Stream. Deltas are delivered strictly in
// arrival order; a mid-stream error is surfaced and OnComplete is not
// called for that request. Individual events without choices are
// skipped, not fatal to the stream.
func (c *OpenAIClient) Stream(ctx context.Context, req CompletionRequest, handler StreamHandler) error {
	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: toOpenAIMessages(req),
		Stream:   true,
	})
	if err != nil {
		return classifyError(err)
	}
	defer stream.Close()

	var full []byte
	for {
		response, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			if handler.OnComplete != nil {
				handler.OnComplete(string(full))
			}
			return nil
		}
		if err != nil {
			return classifyError(err)
		}

		if len(response.Choices) == 0 {
			logging.Warn("skipping stream event without choices", "model", req.Model)
			continue
		}

		content := response.Choices[0].Delta.Content
		if content == "" {
			continue
		}

		full = append(full, content...)
		if handler.OnChunk != nil {
			handler.OnChunk(content)
		}
	}
}

// ListModelIDs implements Completer.ListModelIDs.
func (c *OpenAIClient) ListModelIDs(ctx context.Context) ([]string, error) {
	resp, err := c.client.ListModels(ctx)
	if err != nil {
		return nil, classifyError(err)
	}

	ids := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func toOpenAIMessages(req CompletionRequest) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	return messages
}

// classifyError maps go-openai errors onto the package taxonomy so the
// resilience layer can decide retry-ability.
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &APIError{StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error()}
	}

	return fmt.Errorf("completion request failed: %w", err)
}
