// Package resilience wraps a completion client with retry, ordered
// model fallback and a TTL-cached connectivity check, masking upstream
// model failures from callers where possible.
package resilience

import (
	"context"
	"fmt"
	"time"

	"reposcope/llm"
	"reposcope/logging"

	"github.com/google/uuid"
)

// Options configures the resilient client.
type Options struct {
	RetryCount      int           // attempts for the preferred model (default 2)
	RetryDelay      time.Duration // fixed inter-attempt delay (default 1s)
	ConnectivityTTL time.Duration // connectivity cache lifetime (default 60s)
}

// Client wraps an llm.Completer with retry and fallback behavior.
type Client struct {
	completer llm.Completer
	opts      Options

	// injectable for tests
	sleep func(time.Duration)
	now   func() time.Time

	conn *connectivityCache
}

// New creates a resilient client around completer.
func New(completer llm.Completer, opts Options) *Client {
	if opts.RetryCount <= 0 {
		opts.RetryCount = 2
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}
	if opts.ConnectivityTTL <= 0 {
		opts.ConnectivityTTL = 60 * time.Second
	}
	c := &Client{
		completer: completer,
		opts:      opts,
		sleep:     time.Sleep,
		now:       time.Now,
	}
	c.conn = &connectivityCache{ttl: opts.ConnectivityTTL}
	return c
}

// Complete issues a blocking completion with retry and fallback: the
// preferred model (req.Model) is attempted RetryCount times with a
// fixed delay; on exhaustion each distinct fallback model is tried once
// in priority order, skipping the preferred model. The first success
// short-circuits. If every attempt fails, the LAST error observed is
// returned, as it is the most diagnostic.
func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest, fallbacks []string) (string, error) {
	if err := c.shortCircuit(); err != nil {
		return "", err
	}

	var lastErr error

	for attempt := 1; attempt <= c.opts.RetryCount; attempt++ {
		content, err := c.attempt(ctx, req, req.Model, attempt)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if !llm.IsRetryable(err) {
			return "", err
		}
		if attempt < c.opts.RetryCount {
			c.sleep(c.opts.RetryDelay)
		}
	}

	for _, model := range fallbacks {
		if model == req.Model {
			continue
		}
		fallbackReq := req
		fallbackReq.Model = model

		content, err := c.attempt(ctx, fallbackReq, model, 1)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if !llm.IsRetryable(err) {
			return "", err
		}
	}

	return "", lastErr
}

// Stream issues a streaming completion. Fallback applies only while no
// chunk has been delivered; once output reaches the handler a failure
// is surfaced rather than restarted, so callers never see duplicated
// prefixes.
func (c *Client) Stream(ctx context.Context, req llm.CompletionRequest, fallbacks []string, handler llm.StreamHandler) error {
	if err := c.shortCircuit(); err != nil {
		return err
	}

	models := make([]string, 0, len(fallbacks)+1)
	models = append(models, req.Model)
	for _, m := range fallbacks {
		if m != req.Model {
			models = append(models, m)
		}
	}

	var lastErr error
	for _, model := range models {
		delivered := false
		wrapped := llm.StreamHandler{
			OnChunk: func(content string) {
				delivered = true
				if handler.OnChunk != nil {
					handler.OnChunk(content)
				}
			},
			OnComplete: handler.OnComplete,
		}

		streamReq := req
		streamReq.Model = model

		requestID := uuid.NewString()
		err := c.completer.Stream(ctx, streamReq, wrapped)
		if err == nil {
			return nil
		}
		lastErr = err
		logging.Warn("stream attempt failed",
			"request_id", requestID, "model", model, "error", err)

		if delivered || !llm.IsRetryable(err) {
			return err
		}
	}

	return lastErr
}

func (c *Client) attempt(ctx context.Context, req llm.CompletionRequest, model string, attempt int) (string, error) {
	requestID := uuid.NewString()
	content, err := c.completer.Complete(ctx, req)
	if err != nil {
		logging.Warn("completion attempt failed",
			"request_id", requestID, "model", model, "attempt", attempt, "error", err)
		return "", err
	}
	logging.Debug("completion succeeded",
		"request_id", requestID, "model", model, "attempt", attempt)
	return content, nil
}

// shortCircuit fails fast on a fresh cached connectivity ERROR so a
// known-dead endpoint does not cost a request.
func (c *Client) shortCircuit() error {
	status, ok := c.conn.get(c.now())
	if ok && status.State == StateError {
		return fmt.Errorf("completion endpoint unavailable: %s", status.Message)
	}
	return nil
}
