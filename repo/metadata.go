package repo

import (
	"context"

	"reposcope/logging"

	"github.com/google/go-github/v68/github"
)

// Metadata holds descriptive repository metadata from the host API.
type Metadata struct {
	Description string
	Stars       int
	Forks       int
}

// FetchMetadata fetches description and star/fork counts from the host
// metadata API. Any failure degrades to zero values so a broken or
// rate-limited API never blocks code availability.
func FetchMetadata(ctx context.Context, token string, ref Ref) Metadata {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	r, _, err := client.Repositories.Get(ctx, ref.Owner, ref.Name)
	if err != nil {
		logging.Warn("metadata fetch failed, degrading to defaults",
			"repo", ref.Key(), "error", err)
		return Metadata{}
	}

	return Metadata{
		Description: r.GetDescription(),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
	}
}
