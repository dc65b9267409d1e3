// Package engine composes the repository store, indexer, selector,
// context assembler and resilient completion client into the named
// workflows exposed to callers. An Engine is an explicitly constructed
// handle; it keeps no module-level state.
package engine

import (
	"context"
	"fmt"

	"reposcope/config"
	"reposcope/indexer"
	"reposcope/llm"
	"reposcope/logging"
	"reposcope/repo"
	"reposcope/repocontext"
	"reposcope/resilience"
	"reposcope/selector"
)

// ErrNoRepository is returned by operations that require a loaded
// repository before one was loaded.
var ErrNoRepository = repo.ErrNoRepository

// Completions is the slice of the resilience layer the engine depends
// on. Narrowed to an interface so workflows are testable without a
// network.
type Completions interface {
	Complete(ctx context.Context, req llm.CompletionRequest, fallbacks []string) (string, error)
	Stream(ctx context.Context, req llm.CompletionRequest, fallbacks []string, handler llm.StreamHandler) error
	CheckConnectivity(ctx context.Context, force bool) resilience.Status
}

// Engine drives repository-aware analysis, generation and editing
// workflows over a single active repository. Loading a new repository
// replaces the cached tree and metadata wholesale; the caches are
// last-writer-wins with no locking.
type Engine struct {
	cfg       *config.Config
	store     *repo.Store
	completer Completions

	active *repo.RemoteRepository
	tree   *indexer.FileTreeNode
}

// New constructs an engine from configuration, wiring the OpenAI
// completion client through the resilience layer.
func New(cfg *config.Config) *Engine {
	client := llm.NewOpenAIClient(cfg.APIKey, cfg.BaseURL)
	resilient := resilience.New(client, resilience.Options{
		RetryCount:      cfg.RetryCount,
		RetryDelay:      cfg.RetryDelay,
		ConnectivityTTL: cfg.ConnectivityTTL,
	})
	return NewWithCompletions(cfg, resilient)
}

// NewWithCompletions constructs an engine with an explicit completion
// service.
func NewWithCompletions(cfg *config.Config, completer Completions) *Engine {
	return &Engine{
		cfg:       cfg,
		store:     repo.NewStore(cfg.GitHubToken),
		completer: completer,
	}
}

// LoadRepository clones a repository and indexes it, replacing any
// previously active repository.
func (e *Engine) LoadRepository(ctx context.Context, url string, onProgress repo.ProgressFunc) (*repo.RemoteRepository, error) {
	meta, err := e.store.Clone(ctx, url, onProgress)
	if err != nil {
		return nil, err
	}

	fs := e.store.Namespace(meta.Owner + "/" + meta.Name)
	if fs == nil {
		return nil, fmt.Errorf("namespace missing after clone: %s/%s", meta.Owner, meta.Name)
	}

	tree := indexer.BuildTree(fs)

	// Replace, never merge: one active repository per engine.
	e.active = meta
	e.tree = tree

	stats := indexer.ComputeStats(tree)
	logging.Info("repository loaded",
		"repo", meta.Owner+"/"+meta.Name, "files", stats.TotalFiles)

	return meta, nil
}

// Repository returns the active repository metadata.
func (e *Engine) Repository() (*repo.RemoteRepository, error) {
	if e.active == nil {
		return nil, ErrNoRepository
	}
	return e.active, nil
}

// Tree returns the indexed file tree of the active repository.
func (e *Engine) Tree() (*indexer.FileTreeNode, error) {
	if e.tree == nil {
		return nil, ErrNoRepository
	}
	return e.tree, nil
}

// File reads one file from the active repository. Missing paths fail
// with repo.ErrNotFound.
func (e *Engine) File(path string) (string, error) {
	if e.active == nil {
		return "", ErrNoRepository
	}
	return e.store.ReadFile(e.activeKey(), path)
}

// CheckConnectivity reports cached or fresh endpoint connectivity.
func (e *Engine) CheckConnectivity(ctx context.Context, force bool) resilience.Status {
	return e.completer.CheckConnectivity(ctx, force)
}

func (e *Engine) activeKey() string {
	return e.active.Owner + "/" + e.active.Name
}

// budget returns the configured context budget.
func (e *Engine) budget() repocontext.Budget {
	return repocontext.Budget{
		MaxSelectedFiles:       e.cfg.MaxSelectedFiles,
		MaxCharsPerFile:        e.cfg.MaxCharsPerFile,
		MaxTreeEntriesPerLevel: e.cfg.MaxTreeEntriesPerLevel,
	}
}

// buildContext assembles the bounded context block for the active
// repository. When paths is empty the relevance selector picks them.
func (e *Engine) buildContext(paths []string) (string, error) {
	if e.active == nil || e.tree == nil {
		return "", ErrNoRepository
	}

	if len(paths) == 0 {
		paths = selector.Select(indexer.FileList(e.tree), e.cfg.MaxSelectedFiles)
	}

	return repocontext.Assemble(e.active, e.tree, paths, e.File, e.budget()), nil
}

// treeContext renders metadata plus the file tree only, for tree-only
// queries like search.
func (e *Engine) treeContext() (string, error) {
	if e.active == nil || e.tree == nil {
		return "", ErrNoRepository
	}
	return repocontext.Assemble(e.active, e.tree, nil, e.File, e.budget()), nil
}
