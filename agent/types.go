package agent

// FileModification is a proposed change to one file. Modifications are
// returned to the caller for review and never applied to the store
// automatically.
type FileModification struct {
	Path            string `json:"path"`
	OriginalContent string `json:"original_content,omitempty"`
	NewContent      string `json:"new_content"`
}

// AgentResponse is the structured form recovered from free-text model
// output.
type AgentResponse struct {
	Explanation string             `json:"explanation"`
	Files       []FileModification `json:"files"`
}
