// Package selector ranks repository files for inclusion in an LLM
// context. Selection is a pure, deterministic heuristic: no network or
// model call, same input and budget always produce the same output.
package selector

import (
	"path"
	"strings"

	"reposcope/indexer"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultBudget is the default number of files selected.
const DefaultBudget = 10

// canonicalPatterns is the fixed, ordered list of canonical file name
// patterns. All matches of pattern i precede any match of pattern i+1.
var canonicalPatterns = []string{
	"readme*",
	"package.json",
	"go.mod",
	"cargo.toml",
	"pyproject.toml",
	"requirements.txt",
	"gemfile",
	"pom.xml",
	"build.gradle",
	"composer.json",
	"makefile",
	"main.*",
	"index.*",
	"app.*",
}

// Select returns an ordered, deduplicated subset of files of length at
// most budget:
//  1. files matching the canonical-name patterns, in pattern order;
//  2. files of the dominant source-language extension;
//  3. leftover files in original traversal order.
func Select(files []string, budget int) []string {
	if budget <= 0 {
		budget = DefaultBudget
	}

	selected := make([]string, 0, budget)
	seen := make(map[string]bool)

	take := func(file string) bool {
		if seen[file] || len(selected) >= budget {
			return len(selected) < budget
		}
		seen[file] = true
		selected = append(selected, file)
		return len(selected) < budget
	}

	// Pass 1: canonical names, pattern order outermost so every match
	// of pattern i precedes any match of pattern i+1.
	for _, pattern := range canonicalPatterns {
		for _, file := range files {
			base := strings.ToLower(path.Base(file))
			ok, err := doublestar.Match(pattern, base)
			if err != nil || !ok {
				continue
			}
			if !take(file) {
				return selected
			}
		}
	}

	// Pass 2: dominant source-language extension.
	dominant := dominantSourceExtension(files)
	if dominant != "" {
		for _, file := range files {
			if strings.ToLower(path.Ext(file)) != dominant {
				continue
			}
			if !take(file) {
				return selected
			}
		}
	}

	// Pass 3: leftovers in traversal order.
	for _, file := range files {
		if !take(file) {
			return selected
		}
	}

	return selected
}

// dominantSourceExtension finds the most common source-code extension
// in the list, breaking ties alphabetically for determinism.
func dominantSourceExtension(files []string) string {
	counts := make(map[string]int)
	for _, file := range files {
		ext := strings.ToLower(path.Ext(file))
		if indexer.IsSourceExtension(ext) {
			counts[ext]++
		}
	}

	best := ""
	bestCount := 0
	for ext, count := range counts {
		if count > bestCount || (count == bestCount && (best == "" || ext < best)) {
			best = ext
			bestCount = count
		}
	}
	return best
}
