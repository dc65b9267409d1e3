package indexer

import (
	"path"
	"strings"
)

// TreeStats represents aggregate statistics about an indexed tree.
type TreeStats struct {
	TotalFiles        int            `json:"total_files"`
	TotalDirs         int            `json:"total_dirs"`
	LanguageBreakdown map[string]int `json:"language_breakdown"`
	ExtensionCounts   map[string]int `json:"extension_counts"`
}

// ComputeStats walks the tree and aggregates file counts, language
// breakdown and per-extension counts.
func ComputeStats(root *FileTreeNode) TreeStats {
	stats := TreeStats{
		LanguageBreakdown: make(map[string]int),
		ExtensionCounts:   make(map[string]int),
	}

	var visit func(n *FileTreeNode)
	visit = func(n *FileTreeNode) {
		if n.IsDir() {
			if n.Path != "" {
				stats.TotalDirs++
			}
			for _, child := range n.Children {
				visit(child)
			}
			return
		}
		stats.TotalFiles++
		ext := strings.ToLower(path.Ext(n.Name))
		if ext != "" {
			stats.ExtensionCounts[ext]++
		}
		stats.LanguageBreakdown[LanguageForExtension(ext)]++
	}
	visit(root)

	return stats
}

// DominantSourceExtension returns the most common extension among
// recognized source-code files, or "" when the tree has none. Ties
// break alphabetically so the result is deterministic.
func (s TreeStats) DominantSourceExtension() string {
	best := ""
	bestCount := 0
	for ext, count := range s.ExtensionCounts {
		if !IsSourceExtension(ext) {
			continue
		}
		if count > bestCount || (count == bestCount && (best == "" || ext < best)) {
			best = ext
			bestCount = count
		}
	}
	return best
}

var languageByExt = map[string]string{
	".go":    "Go",
	".js":    "JavaScript",
	".ts":    "TypeScript",
	".jsx":   "React",
	".tsx":   "React",
	".py":    "Python",
	".java":  "Java",
	".c":     "C",
	".cpp":   "C++",
	".cc":    "C++",
	".h":     "C/C++",
	".hpp":   "C++",
	".cs":    "C#",
	".php":   "PHP",
	".rb":    "Ruby",
	".rs":    "Rust",
	".swift": "Swift",
	".kt":    "Kotlin",
	".scala": "Scala",
	".hs":    "Haskell",
	".dart":  "Dart",
	".lua":   "Lua",
	".sh":    "Shell",
	".html":  "HTML",
	".css":   "CSS",
	".scss":  "SCSS",
	".xml":   "XML",
	".json":  "JSON",
	".yaml":  "YAML",
	".yml":   "YAML",
	".toml":  "TOML",
	".md":    "Markdown",
	".txt":   "Text",
	".sql":   "SQL",
}

// LanguageForExtension maps a file extension to a language label.
func LanguageForExtension(ext string) string {
	if lang, ok := languageByExt[strings.ToLower(ext)]; ok {
		return lang
	}
	if ext == "" {
		return "No Extension"
	}
	return "Other"
}

var sourceExts = map[string]bool{
	".go": true, ".js": true, ".ts": true, ".jsx": true, ".tsx": true,
	".py": true, ".java": true, ".c": true, ".cpp": true, ".cc": true,
	".h": true, ".hpp": true, ".cs": true, ".php": true, ".rb": true,
	".rs": true, ".swift": true, ".kt": true, ".scala": true,
	".hs": true, ".dart": true, ".lua": true, ".sh": true,
}

// IsSourceExtension reports whether ext belongs to a source language.
func IsSourceExtension(ext string) bool {
	return sourceExts[strings.ToLower(ext)]
}
