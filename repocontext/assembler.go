// Package repocontext assembles repository metadata, a rendered file
// tree and selected file contents into one bounded text block for LLM
// consumption.
package repocontext

import (
	"fmt"
	"sort"
	"strings"

	"reposcope/indexer"
	"reposcope/logging"
	"reposcope/repo"
)

// TruncationMarker is appended to file sections cut at the budget.
const TruncationMarker = "\n... [truncated]"

// Budget caps the assembled context size. The caps are enforced at
// assembly time and never exceeded.
type Budget struct {
	MaxSelectedFiles       int
	MaxCharsPerFile        int
	MaxTreeEntriesPerLevel int
}

// DefaultBudget returns the standard context budget.
func DefaultBudget() Budget {
	return Budget{
		MaxSelectedFiles:       10,
		MaxCharsPerFile:        1000,
		MaxTreeEntriesPerLevel: 10,
	}
}

// ReadFileFunc fetches file content by repository-relative path.
type ReadFileFunc func(path string) (string, error)

// Assemble produces the bounded context block: repository metadata,
// an indented tree rendering, then one section per selected file.
// An unreadable file is omitted and logged; partial context beats
// aborting the request.
func Assemble(meta *repo.RemoteRepository, tree *indexer.FileTreeNode, selected []string, read ReadFileFunc, budget Budget) string {
	var b strings.Builder

	b.WriteString(renderMetadata(meta, tree))
	b.WriteString("\n## File Tree\n\n")
	b.WriteString(RenderTree(tree, budget.MaxTreeEntriesPerLevel))

	if len(selected) == 0 {
		return b.String()
	}
	b.WriteString("\n## Selected Files\n")

	if len(selected) > budget.MaxSelectedFiles {
		selected = selected[:budget.MaxSelectedFiles]
	}

	for _, filePath := range selected {
		content, err := read(filePath)
		if err != nil {
			logging.Warn("omitting unreadable file from context", "path", filePath, "error", err)
			continue
		}
		b.WriteString(renderFileSection(filePath, content, budget.MaxCharsPerFile))
	}

	return b.String()
}

func renderMetadata(meta *repo.RemoteRepository, tree *indexer.FileTreeNode) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# Repository: %s/%s\n", meta.Owner, meta.Name))
	if meta.Description != "" {
		b.WriteString(fmt.Sprintf("Description: %s\n", meta.Description))
	}
	b.WriteString(fmt.Sprintf("Stars: %d | Forks: %d\n", meta.StarCount, meta.ForkCount))

	stats := indexer.ComputeStats(tree)
	b.WriteString(fmt.Sprintf("Files: %d\n", stats.TotalFiles))

	// Top languages by file count, alphabetical tiebreak
	type langCount struct {
		lang  string
		count int
	}
	var langs []langCount
	for lang, count := range stats.LanguageBreakdown {
		if lang == "No Extension" || lang == "Other" {
			continue
		}
		langs = append(langs, langCount{lang, count})
	}
	sort.Slice(langs, func(i, j int) bool {
		if langs[i].count != langs[j].count {
			return langs[i].count > langs[j].count
		}
		return langs[i].lang < langs[j].lang
	})
	if len(langs) > 0 {
		var parts []string
		for i, lc := range langs {
			if i >= 3 {
				break
			}
			parts = append(parts, fmt.Sprintf("%s (%d)", lc.lang, lc.count))
		}
		b.WriteString("Languages: " + strings.Join(parts, ", ") + "\n")
	}

	return b.String()
}

// RenderTree renders the tree with two-space indentation. Directories
// sort before files, then alphabetically. Each directory shows at most
// maxPerLevel children followed by a collapse marker.
func RenderTree(root *indexer.FileTreeNode, maxPerLevel int) string {
	if maxPerLevel <= 0 {
		maxPerLevel = DefaultBudget().MaxTreeEntriesPerLevel
	}

	var b strings.Builder
	renderChildren(&b, root, 0, maxPerLevel)
	return b.String()
}

func renderChildren(b *strings.Builder, node *indexer.FileTreeNode, depth, maxPerLevel int) {
	children := make([]*indexer.FileTreeNode, len(node.Children))
	copy(children, node.Children)

	sort.SliceStable(children, func(i, j int) bool {
		if children[i].IsDir() != children[j].IsDir() {
			return children[i].IsDir()
		}
		return strings.ToLower(children[i].Name) < strings.ToLower(children[j].Name)
	})

	indent := strings.Repeat("  ", depth)
	for i, child := range children {
		if i >= maxPerLevel {
			b.WriteString(fmt.Sprintf("%s... %d more items\n", indent, len(children)-maxPerLevel))
			return
		}
		if child.IsDir() {
			b.WriteString(fmt.Sprintf("%s%s/\n", indent, child.Name))
			renderChildren(b, child, depth+1, maxPerLevel)
		} else {
			b.WriteString(fmt.Sprintf("%s%s\n", indent, child.Name))
		}
	}
}

// renderFileSection renders one file section, truncating content at
// maxChars with an explicit marker.
func renderFileSection(path, content string, maxChars int) string {
	if maxChars > 0 && len(content) > maxChars {
		content = content[:maxChars] + TruncationMarker
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("\n### %s\n", path))
	b.WriteString("```\n")
	b.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n")
	return b.String()
}
