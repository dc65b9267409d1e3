package resilience

import (
	"context"
	"time"

	"reposcope/llm"
	"reposcope/logging"
)

// StatusState is the outcome of a connectivity check.
type StatusState string

const (
	StateOK    StatusState = "ok"
	StateError StatusState = "error"
)

// Status is the cached result of a connectivity check.
type Status struct {
	State     StatusState `json:"state"`
	Message   string      `json:"message,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// connectivityCache holds the last check result for a fixed TTL.
// Last-writer-wins, no locking: overlapping refreshes are tolerated.
type connectivityCache struct {
	ttl    time.Duration
	cached *Status
}

func (cc *connectivityCache) get(now time.Time) (Status, bool) {
	if cc.cached == nil {
		return Status{}, false
	}
	if now.Sub(cc.cached.Timestamp) > cc.ttl {
		return Status{}, false
	}
	return *cc.cached, true
}

func (cc *connectivityCache) put(status Status) {
	cc.cached = &status
}

// CheckConnectivity verifies the completion endpoint is reachable and
// still advertises at least one of the models this system depends on.
// Results are cached for the configured TTL; force bypasses the cache.
// Total model unavailability is the only ERROR outcome: OK is reported
// while at least one fallback model remains available.
func (c *Client) CheckConnectivity(ctx context.Context, force bool) Status {
	now := c.now()
	if !force {
		if status, ok := c.conn.get(now); ok {
			return status
		}
	}

	status := c.probe(ctx, now)
	c.conn.put(status)
	return status
}

func (c *Client) probe(ctx context.Context, now time.Time) Status {
	ids, err := c.completer.ListModelIDs(ctx)
	if err != nil {
		logging.Warn("connectivity check failed", "error", err)
		return Status{
			State:     StateError,
			Message:   err.Error(),
			Timestamp: now,
		}
	}

	available := make(map[string]bool, len(ids))
	for _, id := range ids {
		available[id] = true
	}

	for _, model := range llm.RequiredModels() {
		if available[model] {
			return Status{State: StateOK, Timestamp: now}
		}
	}

	return Status{
		State:     StateError,
		Message:   "provider advertises none of the required models",
		Timestamp: now,
	}
}
