// Package agent recovers structured file edits from free-text model
// output. The text is expected, not guaranteed, to follow the marker
// protocol, so parsing is tolerant regex scanning rather than a strict
// grammar: partial recovery always beats failure, and no parse function
// in this package returns an error.
package agent

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	explanationRe = regexp.MustCompile(`(?is)EXPLANATION:\s*`)
	fileMarkerRe  = regexp.MustCompile(`\[FILE:\s*([^\]\n]+)\]`)
	fenceOpenRe   = regexp.MustCompile("```[^\n]*\n")
)

// ParseMultiFile recovers an explanation and file modifications from
// model output. Missing explanation degrades to an empty string,
// missing file markers to an empty list. Literal marker-like text or
// unbalanced fences inside generated code can misfire the scan; that
// fragility is inherent to the protocol.
func ParseMultiFile(text string) AgentResponse {
	resp := AgentResponse{}

	markers := fileMarkerRe.FindAllStringSubmatchIndex(text, -1)

	resp.Explanation = parseExplanation(text, markers)

	for i, marker := range markers {
		path := strings.TrimSpace(text[marker[2]:marker[3]])
		if path == "" {
			continue
		}

		sectionEnd := len(text)
		if i+1 < len(markers) {
			sectionEnd = markers[i+1][0]
		}
		section := text[marker[1]:sectionEnd]

		content, ok := extractFencedBlock(section)
		if !ok {
			continue
		}

		resp.Files = append(resp.Files, FileModification{
			Path:       path,
			NewContent: content,
		})
	}

	return resp
}

func parseExplanation(text string, markers [][]int) string {
	end := len(text)
	if len(markers) > 0 {
		end = markers[0][0]
	}

	head := text[:end]
	loc := explanationRe.FindStringIndex(head)
	if loc == nil {
		return ""
	}
	return strings.TrimSpace(head[loc[1]:])
}

// extractFencedBlock returns the content of the first fenced code block
// in section. A missing closing fence is tolerated: everything up to
// the end of the section is taken.
func extractFencedBlock(section string) (string, bool) {
	open := fenceOpenRe.FindStringIndex(section)
	if open == nil {
		return "", false
	}

	rest := section[open[1]:]
	if close := strings.Index(rest, "\n```"); close >= 0 {
		return rest[:close], true
	}

	// Unbalanced fence: take the remainder, trimmed of trailing noise.
	return strings.TrimRight(rest, "`\n "), true
}

var pathTokenRe = regexp.MustCompile(`[A-Za-z0-9_][A-Za-z0-9_./-]*\.[A-Za-z0-9]{1,10}`)

// ExtractPathList recovers a best-effort list of file paths from model
// output ranking candidate files. It first attempts to parse a JSON
// string array anywhere in the text, then falls back to scanning for
// path-like tokens. It never fails; worst case is an empty list.
func ExtractPathList(text string) []string {
	if paths := parseJSONPathArray(text); len(paths) > 0 {
		return paths
	}

	var paths []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		for _, token := range pathTokenRe.FindAllString(line, -1) {
			token = strings.Trim(token, ".")
			if token == "" || seen[token] {
				continue
			}
			seen[token] = true
			paths = append(paths, token)
		}
	}
	return paths
}

func parseJSONPathArray(text string) []string {
	start := strings.Index(text, "[")
	if start < 0 {
		return nil
	}
	end := strings.LastIndex(text, "]")
	if end <= start {
		return nil
	}

	var raw []string
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil
	}

	var paths []string
	seen := make(map[string]bool)
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		paths = append(paths, p)
	}
	return paths
}

const (
	implementationLabel = "=== IMPLEMENTATION ==="
	testsLabel          = "=== TESTS ==="
)

// SplitImplementationAndTests splits a response into implementation and
// tests sections by fixed labels. Missing labels degrade gracefully:
// without both labels the whole text is treated as implementation.
func SplitImplementationAndTests(text string) (implementation, tests string) {
	implIdx := strings.Index(text, implementationLabel)
	testsIdx := strings.Index(text, testsLabel)

	switch {
	case implIdx >= 0 && testsIdx > implIdx:
		implementation = text[implIdx+len(implementationLabel) : testsIdx]
		tests = text[testsIdx+len(testsLabel):]
	case testsIdx >= 0:
		implementation = text[:testsIdx]
		tests = text[testsIdx+len(testsLabel):]
	default:
		implementation = text
	}

	return strings.TrimSpace(stripFences(implementation)), strings.TrimSpace(stripFences(tests))
}

// stripFences removes a single surrounding fenced block if the section
// is wrapped in one.
func stripFences(section string) string {
	s := strings.TrimSpace(section)
	open := fenceOpenRe.FindStringIndex(s)
	if open == nil || open[0] != 0 {
		return s
	}
	s = s[open[1]:]
	if close := strings.LastIndex(s, "\n```"); close >= 0 {
		s = s[:close]
	}
	return s
}
