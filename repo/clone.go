//go:build !headless

package repo

import (
	"context"

	"reposcope/logging"

	"github.com/go-git/go-billy/v5/memfs"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage/memory"
)

// Clone clones a repository shallowly (single branch, depth 1) into an
// in-memory filesystem namespace keyed by owner/name. Re-cloning the
// same owner/name is idempotent. Metadata fetch failures degrade to
// empty description and zero counts and never block code availability.
func (s *Store) Clone(ctx context.Context, rawURL string, onProgress ProgressFunc) (*RemoteRepository, error) {
	ref, err := ParseRepoURL(rawURL)
	if err != nil {
		return nil, err
	}

	prog := &monotonicProgress{fn: onProgress}
	prog.report(5, "validated")

	key := ref.Key()
	if _, exists := s.namespaces[key]; exists {
		logging.Info("namespace already cloned, reusing", "repo", key)
	} else {
		fs := memfs.New()
		_, err := git.CloneContext(ctx, memory.NewStorage(), fs, &git.CloneOptions{
			URL:          ref.CloneURL(),
			Depth:        1,
			SingleBranch: true,
		})
		if err != nil {
			return nil, &CloneError{URL: ref.CloneURL(), Err: err}
		}
		s.namespaces[key] = fs
	}
	prog.report(70, "cloned")

	meta := FetchMetadata(ctx, s.token, ref)
	prog.report(85, "metadata")

	stats, err := s.Analyze(key)
	if err == nil {
		logging.Info("post-clone analysis complete",
			"repo", key,
			"files", stats.FileCount,
			"extensions", len(stats.ByExtension))
	}
	prog.finish("ready")

	return &RemoteRepository{
		Owner:       ref.Owner,
		Name:        ref.Name,
		URL:         rawURL,
		Description: meta.Description,
		StarCount:   meta.Stars,
		ForkCount:   meta.Forks,
		Cloned:      true,
	}, nil
}
