package agent

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestParseMultiFileRoundTrip(t *testing.T) {
	explanation := "Add a greeting helper and wire it into main."
	files := []FileModification{
		{Path: "greet.go", NewContent: "package main\n\nfunc greet() string {\n\treturn \"hi\"\n}"},
		{Path: "main.go", NewContent: "package main\n\nfunc main() {\n\tprintln(greet())\n}"},
	}

	var b strings.Builder
	b.WriteString("EXPLANATION:\n")
	b.WriteString(explanation)
	b.WriteString("\n\n")
	for _, f := range files {
		fmt.Fprintf(&b, "[FILE: %s]\n```go\n%s\n```\n\n", f.Path, f.NewContent)
	}

	got := ParseMultiFile(b.String())

	if got.Explanation != explanation {
		t.Errorf("Explanation = %q, want %q", got.Explanation, explanation)
	}
	if len(got.Files) != len(files) {
		t.Fatalf("Parsed %d files, want %d", len(got.Files), len(files))
	}
	for i, want := range files {
		if got.Files[i].Path != want.Path {
			t.Errorf("File %d path = %q, want %q", i, got.Files[i].Path, want.Path)
		}
		if got.Files[i].NewContent != want.NewContent {
			t.Errorf("File %d content = %q, want %q", i, got.Files[i].NewContent, want.NewContent)
		}
	}
}

func TestParseMultiFileNoMarkers(t *testing.T) {
	got := ParseMultiFile("Just some prose with no structure at all.")

	if got.Explanation != "" {
		t.Errorf("Explanation = %q, want empty", got.Explanation)
	}
	if len(got.Files) != 0 {
		t.Errorf("Files = %v, want empty", got.Files)
	}
}

func TestParseMultiFileMissingExplanation(t *testing.T) {
	text := "[FILE: a.txt]\n```\nhello\n```\n"

	got := ParseMultiFile(text)

	if got.Explanation != "" {
		t.Errorf("Explanation = %q, want empty", got.Explanation)
	}
	if len(got.Files) != 1 || got.Files[0].NewContent != "hello" {
		t.Errorf("Files = %+v", got.Files)
	}
}

func TestParseMultiFileUnclosedFence(t *testing.T) {
	text := "EXPLANATION:\nfix\n\n[FILE: a.txt]\n```\nline one\nline two"

	got := ParseMultiFile(text)

	if len(got.Files) != 1 {
		t.Fatalf("Parsed %d files, want 1", len(got.Files))
	}
	if got.Files[0].NewContent != "line one\nline two" {
		t.Errorf("Content = %q", got.Files[0].NewContent)
	}
}

func TestParseMultiFileMarkerWithoutFence(t *testing.T) {
	// Marker with no code block at all contributes nothing
	text := "EXPLANATION:\nnote\n\n[FILE: ghost.txt]\nno fence here"

	got := ParseMultiFile(text)

	if len(got.Files) != 0 {
		t.Errorf("Files = %+v, want empty", got.Files)
	}
	if got.Explanation != "note" {
		t.Errorf("Explanation = %q", got.Explanation)
	}
}

func TestParseMultiFileCaseInsensitiveLabel(t *testing.T) {
	text := "explanation: lower case label\n\n[FILE: a.txt]\n```\nx\n```"

	got := ParseMultiFile(text)
	if got.Explanation != "lower case label" {
		t.Errorf("Explanation = %q", got.Explanation)
	}
}

func TestExtractPathListJSON(t *testing.T) {
	text := "Here are the candidates:\n[\"src/main.go\", \"internal/api/handler.go\", \"src/main.go\"]"

	got := ExtractPathList(text)
	want := []string{"src/main.go", "internal/api/handler.go"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractPathList() = %v, want %v", got, want)
	}
}

func TestExtractPathListRegexFallback(t *testing.T) {
	text := `The most relevant files are:
1. src/server.go - the HTTP entry point
2. internal/auth/middleware.go handles tokens`

	got := ExtractPathList(text)

	if len(got) < 2 {
		t.Fatalf("ExtractPathList() = %v, want at least 2 paths", got)
	}
	if got[0] != "src/server.go" {
		t.Errorf("First path = %q", got[0])
	}
	if got[1] != "internal/auth/middleware.go" {
		t.Errorf("Second path = %q", got[1])
	}
}

func TestExtractPathListEmpty(t *testing.T) {
	if got := ExtractPathList("no paths here"); len(got) != 0 {
		t.Errorf("ExtractPathList() = %v, want empty", got)
	}
}

func TestSplitImplementationAndTests(t *testing.T) {
	text := "=== IMPLEMENTATION ===\n```go\nfunc Add(a, b int) int { return a + b }\n```\n\n=== TESTS ===\n```go\nfunc TestAdd(t *testing.T) {}\n```"

	implementation, tests := SplitImplementationAndTests(text)

	if implementation != "func Add(a, b int) int { return a + b }" {
		t.Errorf("implementation = %q", implementation)
	}
	if tests != "func TestAdd(t *testing.T) {}" {
		t.Errorf("tests = %q", tests)
	}
}

func TestSplitImplementationAndTestsMissingLabels(t *testing.T) {
	implementation, tests := SplitImplementationAndTests("just code")

	if implementation != "just code" {
		t.Errorf("implementation = %q", implementation)
	}
	if tests != "" {
		t.Errorf("tests = %q, want empty", tests)
	}
}
