package llm

// TaskType names a category of completion work. Each task type carries
// its own ordered model fallback chain.
type TaskType string

const (
	TaskAnalyze  TaskType = "analyze"
	TaskGenerate TaskType = "generate"
	TaskEdit     TaskType = "edit"
	TaskAgent    TaskType = "agent"
	TaskSearch   TaskType = "search"
)

// DefaultModel is the always-available default that terminates every
// fallback chain.
const DefaultModel = "gpt-4o-mini"

var fallbackChains = map[TaskType][]string{
	TaskAnalyze:  {"gpt-4o", "gpt-4-turbo", DefaultModel},
	TaskGenerate: {"gpt-4o", "gpt-4-turbo", DefaultModel},
	TaskEdit:     {"gpt-4o", DefaultModel},
	TaskAgent:    {"gpt-4o", "gpt-4-turbo", DefaultModel},
	TaskSearch:   {DefaultModel},
}

// FallbackChain returns the ordered model identifiers to try for a
// task type after the preferred model exhausts its retries. The chain
// always ends with DefaultModel.
func FallbackChain(task TaskType) []string {
	chain, ok := fallbackChains[task]
	if !ok {
		return []string{DefaultModel}
	}
	out := make([]string, len(chain))
	copy(out, chain)
	return out
}

// RequiredModels returns the distinct set of models named by any
// fallback chain, used by the connectivity check.
func RequiredModels() []string {
	seen := make(map[string]bool)
	var models []string
	for _, task := range []TaskType{TaskAnalyze, TaskGenerate, TaskEdit, TaskAgent, TaskSearch} {
		for _, m := range fallbackChains[task] {
			if !seen[m] {
				seen[m] = true
				models = append(models, m)
			}
		}
	}
	return models
}
