package repo

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"reposcope/logging"

	"github.com/go-git/go-billy/v5"
)

// RemoteRepository holds the identity and metadata of the active
// repository. It is created once per successful clone and replaced
// wholesale when a new URL is loaded.
type RemoteRepository struct {
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
	StarCount   int    `json:"star_count"`
	ForkCount   int    `json:"fork_count"`
	Cloned      bool   `json:"cloned"`
}

// CloneStats summarizes the post-clone analysis of a namespace.
type CloneStats struct {
	FileCount   int            `json:"file_count"`
	ByExtension map[string]int `json:"by_extension"`
}

// ProgressFunc receives clone progress updates. Percent is
// monotonically non-decreasing and reaches 100 only after post-clone
// analysis completes.
type ProgressFunc func(percent int, stage string)

// Store clones repositories into isolated in-memory filesystem
// namespaces keyed by owner/name and exposes read primitives over them.
type Store struct {
	namespaces map[string]billy.Filesystem
	token      string
}

// NewStore creates a Store. token is an optional bearer token for the
// host metadata API.
func NewStore(token string) *Store {
	return &Store{
		namespaces: make(map[string]billy.Filesystem),
		token:      token,
	}
}

// Namespace returns the filesystem for an owner/name key, or nil.
func (s *Store) Namespace(key string) billy.Filesystem {
	return s.namespaces[key]
}

// AddNamespace registers an existing filesystem under an owner/name
// key, as if it had been cloned. Used for local fixtures.
func (s *Store) AddNamespace(key string, fs billy.Filesystem) {
	s.namespaces[key] = fs
}

// ReadFile reads a file from a cloned namespace. A missing path fails
// with ErrNotFound, distinct from generic I/O errors, so callers can
// treat "missing" as "this is a new file".
func (s *Store) ReadFile(key, filePath string) (string, error) {
	fs, ok := s.namespaces[key]
	if !ok {
		return "", ErrNoRepository
	}

	f, err := fs.Open(normalizePath(filePath))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, filePath)
		}
		return "", fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	return string(data), nil
}

// Stat stats a path in a cloned namespace.
func (s *Store) Stat(key, filePath string) (os.FileInfo, error) {
	fs, ok := s.namespaces[key]
	if !ok {
		return nil, ErrNoRepository
	}

	info, err := fs.Stat(normalizePath(filePath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, filePath)
		}
		return nil, err
	}
	return info, nil
}

// List lists directory entries in a cloned namespace.
func (s *Store) List(key, dir string) ([]os.FileInfo, error) {
	fs, ok := s.namespaces[key]
	if !ok {
		return nil, ErrNoRepository
	}

	entries, err := fs.ReadDir(normalizePath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
		}
		return nil, err
	}
	return entries, nil
}

// Analyze walks a namespace and produces file count and extension
// histogram. Unreadable entries are logged and skipped.
func (s *Store) Analyze(key string) (*CloneStats, error) {
	fs, ok := s.namespaces[key]
	if !ok {
		return nil, ErrNoRepository
	}

	stats := &CloneStats{ByExtension: make(map[string]int)}
	s.analyzeDir(fs, "/", stats)
	return stats, nil
}

func (s *Store) analyzeDir(fs billy.Filesystem, dir string, stats *CloneStats) {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		logging.Warn("skipping unreadable directory", "dir", dir, "error", err)
		return
	}

	for _, entry := range entries {
		if entry.Name() == ".git" {
			continue
		}
		full := path.Join(dir, entry.Name())
		if entry.IsDir() {
			s.analyzeDir(fs, full, stats)
			continue
		}
		stats.FileCount++
		ext := strings.ToLower(path.Ext(entry.Name()))
		if ext == "" {
			ext = "(none)"
		}
		stats.ByExtension[ext]++
	}
}

// normalizePath maps repository-relative paths onto the namespace root.
func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// monotonicProgress wraps a ProgressFunc so reported percentages never
// decrease, and stay below 100 until explicitly finished.
type monotonicProgress struct {
	fn   ProgressFunc
	last int
}

func (m *monotonicProgress) report(percent int, stage string) {
	if m.fn == nil {
		return
	}
	if percent > 99 {
		percent = 99
	}
	if percent < m.last {
		percent = m.last
	}
	m.last = percent
	m.fn(percent, stage)
}

func (m *monotonicProgress) finish(stage string) {
	if m.fn == nil {
		return
	}
	m.last = 100
	m.fn(100, stage)
}
