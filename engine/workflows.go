package engine

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"reposcope/agent"
	"reposcope/indexer"
	"reposcope/llm"
	"reposcope/logging"
	"reposcope/repo"
)

// Analyze answers a question about the repository using a bounded
// context of the given paths, or a selector-chosen subset when paths is
// empty.
func (e *Engine) Analyze(ctx context.Context, paths []string, question string) (string, error) {
	repoContext, err := e.buildContext(paths)
	if err != nil {
		return "", err
	}

	return e.completer.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: analyzeSystemPrompt,
		Messages:     []llm.Message{{Role: "user", Content: analyzePrompt(repoContext, question)}},
		Model:        e.cfg.Model,
	}, llm.FallbackChain(llm.TaskAnalyze))
}

// AnalyzeStream is Analyze with streamed output.
func (e *Engine) AnalyzeStream(ctx context.Context, paths []string, question string, handler llm.StreamHandler) error {
	repoContext, err := e.buildContext(paths)
	if err != nil {
		return err
	}

	return e.completer.Stream(ctx, llm.CompletionRequest{
		SystemPrompt: analyzeSystemPrompt,
		Messages:     []llm.Message{{Role: "user", Content: analyzePrompt(repoContext, question)}},
		Model:        e.cfg.Model,
	}, llm.FallbackChain(llm.TaskAnalyze), handler)
}

// Generate produces free-form code from a prompt, optionally targeting
// a language. It does not require a loaded repository.
func (e *Engine) Generate(ctx context.Context, prompt, language string) (string, error) {
	content, err := e.completer.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: generateSystemPrompt,
		Messages:     []llm.Message{{Role: "user", Content: generatePrompt(prompt, language)}},
		Model:        e.cfg.Model,
	}, llm.FallbackChain(llm.TaskGenerate))
	if err != nil {
		return "", err
	}
	return stripSingleFence(content), nil
}

// Edit asks for the full replacement body of one file and returns it as
// a proposed modification. A missing file is treated as new.
func (e *Engine) Edit(ctx context.Context, filePath, instruction string) (*agent.FileModification, error) {
	if e.active == nil {
		return nil, ErrNoRepository
	}

	original, err := e.File(filePath)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		original = ""
	}

	content, err := e.completer.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: editSystemPrompt,
		Messages:     []llm.Message{{Role: "user", Content: editPrompt(filePath, original, instruction)}},
		Model:        e.cfg.Model,
	}, llm.FallbackChain(llm.TaskEdit))
	if err != nil {
		return nil, err
	}

	return &agent.FileModification{
		Path:            filePath,
		OriginalContent: original,
		NewContent:      stripSingleFence(content),
	}, nil
}

// Create produces content for a new file, using up to three existing
// files with the same extension as a style reference.
func (e *Engine) Create(ctx context.Context, filePath, description string) (*agent.FileModification, error) {
	if e.active == nil || e.tree == nil {
		return nil, ErrNoRepository
	}

	styleReference := e.styleReference(filePath)

	content, err := e.completer.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: generateSystemPrompt,
		Messages:     []llm.Message{{Role: "user", Content: createPrompt(filePath, description, styleReference)}},
		Model:        e.cfg.Model,
	}, llm.FallbackChain(llm.TaskGenerate))
	if err != nil {
		return nil, err
	}

	return &agent.FileModification{
		Path:       filePath,
		NewContent: stripSingleFence(content),
	}, nil
}

// Solve runs the two-stage workflow: a planning completion, then an
// implementation completion seeded with the plan, parsed into proposed
// file modifications.
func (e *Engine) Solve(ctx context.Context, problem string) (*agent.AgentResponse, error) {
	repoContext, err := e.buildContext(nil)
	if err != nil {
		return nil, err
	}

	plan, err := e.completer.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: analyzeSystemPrompt,
		Messages:     []llm.Message{{Role: "user", Content: planPrompt(repoContext, problem)}},
		Model:        e.cfg.Model,
	}, llm.FallbackChain(llm.TaskAgent))
	if err != nil {
		return nil, err
	}

	return e.implement(ctx, repoContext, problem, plan)
}

// AutonomousModify runs the three-stage workflow: search for relevant
// files with a tree-only query, plan against their content, then
// implement.
func (e *Engine) AutonomousModify(ctx context.Context, instruction string) (*agent.AgentResponse, error) {
	relevant, err := e.Search(ctx, instruction)
	if err != nil {
		return nil, err
	}

	repoContext, err := e.buildContext(relevant)
	if err != nil {
		return nil, err
	}

	plan, err := e.completer.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: analyzeSystemPrompt,
		Messages:     []llm.Message{{Role: "user", Content: planPrompt(repoContext, instruction)}},
		Model:        e.cfg.Model,
	}, llm.FallbackChain(llm.TaskAgent))
	if err != nil {
		return nil, err
	}

	return e.implement(ctx, repoContext, instruction, plan)
}

func (e *Engine) implement(ctx context.Context, repoContext, task, plan string) (*agent.AgentResponse, error) {
	content, err := e.completer.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: agentSystemPrompt,
		Messages:     []llm.Message{{Role: "user", Content: implementPrompt(repoContext, task, plan)}},
		Model:        e.cfg.Model,
	}, llm.FallbackChain(llm.TaskAgent))
	if err != nil {
		return nil, err
	}

	response := agent.ParseMultiFile(content)

	// Attach original content so callers can diff before accepting.
	for i := range response.Files {
		original, err := e.File(response.Files[i].Path)
		if err == nil {
			response.Files[i].OriginalContent = original
		}
		logging.Debug("proposed modification",
			"summary", agent.Summarize(response.Files[i]).String())
	}

	return &response, nil
}

// Search asks the model to rank candidate paths by described
// functionality over a tree-only context. The result is a best-effort
// path list; extraction never fails.
func (e *Engine) Search(ctx context.Context, description string) ([]string, error) {
	treeContext, err := e.treeContext()
	if err != nil {
		return nil, err
	}

	content, err := e.completer.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: searchSystemPrompt,
		Messages:     []llm.Message{{Role: "user", Content: searchPrompt(treeContext, description)}},
		Model:        e.cfg.Model,
	}, llm.FallbackChain(llm.TaskSearch))
	if err != nil {
		return nil, err
	}

	return agent.ExtractPathList(content), nil
}

// GenerateWithTests produces an implementation and its tests from one
// completion, split by fixed labels.
func (e *Engine) GenerateWithTests(ctx context.Context, prompt, language string) (implementation, tests string, err error) {
	content, err := e.completer.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: generateWithTestsSystemPrompt,
		Messages:     []llm.Message{{Role: "user", Content: generatePrompt(prompt, language)}},
		Model:        e.cfg.Model,
	}, llm.FallbackChain(llm.TaskGenerate))
	if err != nil {
		return "", "", err
	}

	implementation, tests = agent.SplitImplementationAndTests(content)
	return implementation, tests, nil
}

// styleReference collects up to three same-extension files, truncated,
// as a style reference for Create.
func (e *Engine) styleReference(filePath string) string {
	ext := strings.ToLower(path.Ext(filePath))
	if ext == "" {
		return ""
	}

	var b strings.Builder
	count := 0
	for _, candidate := range indexer.FileList(e.tree) {
		if strings.ToLower(path.Ext(candidate)) != ext || candidate == filePath {
			continue
		}
		content, err := e.File(candidate)
		if err != nil {
			continue
		}
		if len(content) > e.cfg.MaxCharsPerFile {
			content = content[:e.cfg.MaxCharsPerFile]
		}
		b.WriteString(fmt.Sprintf("\n### %s\n```\n%s\n```\n", candidate, content))
		count++
		if count >= 3 {
			break
		}
	}
	return b.String()
}

// stripSingleFence unwraps a response that is one fenced code block.
func stripSingleFence(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	newline := strings.Index(s, "\n")
	if newline < 0 {
		return s
	}
	s = s[newline+1:]
	if close := strings.LastIndex(s, "\n```"); close >= 0 {
		s = s[:close]
	}
	return s
}
