package agent

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ChangeSummary describes how a proposed modification differs from the
// original content.
type ChangeSummary struct {
	Path         string `json:"path"`
	IsNewFile    bool   `json:"is_new_file"`
	AddedLines   int    `json:"added_lines"`
	RemovedLines int    `json:"removed_lines"`
}

// Summarize computes a line-level change summary for a proposed
// modification, so callers can present the scale of a change before
// accepting it.
func Summarize(mod FileModification) ChangeSummary {
	summary := ChangeSummary{Path: mod.Path}

	if mod.OriginalContent == "" {
		summary.IsNewFile = true
		summary.AddedLines = countLines(mod.NewContent)
		return summary
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(mod.OriginalContent, mod.NewContent)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			summary.AddedLines += countLines(d.Text)
		case diffmatchpatch.DiffDelete:
			summary.RemovedLines += countLines(d.Text)
		}
	}

	return summary
}

func (s ChangeSummary) String() string {
	if s.IsNewFile {
		return fmt.Sprintf("%s (new file, +%d)", s.Path, s.AddedLines)
	}
	return fmt.Sprintf("%s (+%d -%d)", s.Path, s.AddedLines, s.RemovedLines)
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	return len(strings.Split(strings.TrimSuffix(text, "\n"), "\n"))
}
