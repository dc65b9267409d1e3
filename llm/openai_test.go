package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAIClient("test-key", srv.URL+"/v1")
}

func TestCompleteReturnsFirstChoice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"choices": [
				{"message": {"role": "assistant", "content": "first"}},
				{"message": {"role": "assistant", "content": "second"}}
			]
		}`)
	})

	content, err := client.Complete(context.Background(), CompletionRequest{
		Model:    "gpt-4o",
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if content != "first" {
		t.Errorf("Complete() = %q, want %q", content, "first")
	}
}

func TestCompleteMalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices": []}`)
	})

	_, err := client.Complete(context.Background(), CompletionRequest{Model: "gpt-4o"})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("Expected ErrMalformedResponse, got %v", err)
	}
}

func TestCompleteEmptyContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices": [{"message": {"role": "assistant", "content": ""}}]}`)
	})

	_, err := client.Complete(context.Background(), CompletionRequest{Model: "gpt-4o"})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("Expected ErrEmptyResponse, got %v", err)
	}
}

func TestCompleteStatusClassification(t *testing.T) {
	tests := []struct {
		status    int
		auth      bool
		rateLimit bool
		retryable bool
	}{
		{401, true, false, false},
		{403, true, false, false},
		{429, false, true, true},
		{500, false, false, true},
		{503, false, false, true},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("status_%d", test.status), func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(test.status)
				fmt.Fprint(w, `{"error": {"message": "nope", "type": "test"}}`)
			})

			_, err := client.Complete(context.Background(), CompletionRequest{Model: "gpt-4o"})
			if err == nil {
				t.Fatal("Expected error")
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Expected *APIError, got %T: %v", err, err)
			}
			if apiErr.StatusCode != test.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, test.status)
			}
			if IsAuthError(err) != test.auth {
				t.Errorf("IsAuthError = %v, want %v", IsAuthError(err), test.auth)
			}
			if IsRateLimited(err) != test.rateLimit {
				t.Errorf("IsRateLimited = %v, want %v", IsRateLimited(err), test.rateLimit)
			}
			if IsRetryable(err) != test.retryable {
				t.Errorf("IsRetryable = %v, want %v", IsRetryable(err), test.retryable)
			}
		})
	}
}

func streamEvent(content string) string {
	return fmt.Sprintf("data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", content)
}

func TestStreamDeliversChunksInOrder(t *testing.T) {
	chunks := []string{"def ", "foo():\n", "    pass"}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, chunk := range chunks {
			fmt.Fprint(w, streamEvent(chunk))
			flusher.Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
		flusher.Flush()
	})

	var received []string
	var complete []string

	err := client.Stream(context.Background(), CompletionRequest{
		Model:    "gpt-4o",
		Messages: []Message{{Role: "user", Content: "write foo"}},
	}, StreamHandler{
		OnChunk:    func(content string) { received = append(received, content) },
		OnComplete: func(full string) { complete = append(complete, full) },
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !reflect.DeepEqual(received, chunks) {
		t.Errorf("OnChunk received %v, want %v", received, chunks)
	}
	if len(complete) != 1 {
		t.Fatalf("OnComplete fired %d times, want exactly once", len(complete))
	}
	if complete[0] != "def foo():\n    pass" {
		t.Errorf("OnComplete got %q, want %q", complete[0], "def foo():\n    pass")
	}
}

func TestStreamSkipsEventsWithoutChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[]}\n\n")
		fmt.Fprint(w, streamEvent("ok"))
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	var received []string
	err := client.Stream(context.Background(), CompletionRequest{Model: "gpt-4o"}, StreamHandler{
		OnChunk: func(content string) { received = append(received, content) },
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(received, []string{"ok"}) {
		t.Errorf("Received %v, want [ok]", received)
	}
}

func TestStreamErrorSuppressesOnComplete(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error": {"message": "boom", "type": "server_error"}}`)
	})

	completed := false
	err := client.Stream(context.Background(), CompletionRequest{Model: "gpt-4o"}, StreamHandler{
		OnComplete: func(string) { completed = true },
	})
	if err == nil {
		t.Fatal("Expected error")
	}
	if completed {
		t.Error("OnComplete must not fire after a stream error")
	}
}

func TestListModelIDs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data": [{"id": "gpt-4o"}, {"id": "gpt-4o-mini"}]}`)
	})

	ids, err := client.ListModelIDs(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"gpt-4o", "gpt-4o-mini"}) {
		t.Errorf("ListModelIDs() = %v", ids)
	}
}

func TestSystemPromptPrepended(t *testing.T) {
	req := CompletionRequest{
		SystemPrompt: "be terse",
		Messages:     []Message{{Role: "user", Content: "hi"}},
		Model:        "gpt-4o",
	}

	messages := toOpenAIMessages(req)
	if len(messages) != 2 {
		t.Fatalf("Got %d messages, want 2", len(messages))
	}
	if messages[0].Role != "system" || messages[0].Content != "be terse" {
		t.Errorf("First message = %+v, want system prompt", messages[0])
	}
}
