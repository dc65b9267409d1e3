//go:build headless

package repo

import "context"

// Clone is unavailable on headless builds, which omit the in-memory
// filesystem clone implementation entirely.
func (s *Store) Clone(ctx context.Context, rawURL string, onProgress ProgressFunc) (*RemoteRepository, error) {
	if _, err := ParseRepoURL(rawURL); err != nil {
		return nil, err
	}
	return nil, ErrUnsupported
}
