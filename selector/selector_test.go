package selector

import (
	"reflect"
	"testing"
)

func TestSelectCanonicalThenDominant(t *testing.T) {
	// readme matches first, main.py matches an entry-point pattern,
	// then the dominant .py extension fills the remaining slot.
	files := []string{"readme.md", "main.py", "utils.py", "image.png"}

	got := Select(files, 3)
	want := []string{"readme.md", "main.py", "utils.py"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Select() = %v, want %v", got, want)
	}
}

func TestSelectDeterministic(t *testing.T) {
	files := []string{
		"src/app.ts", "readme.md", "package.json", "src/index.ts",
		"docs/guide.md", "test/app_test.ts", "assets/logo.svg",
	}

	first := Select(files, 5)
	for i := 0; i < 10; i++ {
		got := Select(files, 5)
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("Run %d returned %v, first run returned %v", i, got, first)
		}
	}
}

func TestSelectNoDuplicates(t *testing.T) {
	// main.go matches both a canonical pattern and the dominant
	// extension pass; it must appear once.
	files := []string{"main.go", "util.go", "readme.md"}

	got := Select(files, 10)

	seen := make(map[string]int)
	for _, f := range got {
		seen[f]++
	}
	for f, count := range seen {
		if count > 1 {
			t.Errorf("File %s selected %d times", f, count)
		}
	}
}

func TestSelectBudgetRespected(t *testing.T) {
	files := []string{
		"readme.md", "go.mod", "main.go", "a.go", "b.go", "c.go", "d.go",
	}

	for budget := 1; budget <= len(files)+2; budget++ {
		got := Select(files, budget)
		if len(got) > budget {
			t.Errorf("Budget %d: got %d files", budget, len(got))
		}
	}
}

func TestSelectPatternOrder(t *testing.T) {
	// All matches of an earlier pattern precede any match of a later
	// one: readme before go.mod before main.go.
	files := []string{"main.go", "go.mod", "readme.md"}

	got := Select(files, 3)
	want := []string{"readme.md", "go.mod", "main.go"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Select() = %v, want %v", got, want)
	}
}

func TestSelectLeftoverFill(t *testing.T) {
	// No canonical matches, no source extensions: traversal order wins.
	files := []string{"data.csv", "notes.txt", "chart.svg"}

	got := Select(files, 2)
	want := []string{"data.csv", "notes.txt"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Select() = %v, want %v", got, want)
	}
}

func TestSelectEmptyInput(t *testing.T) {
	if got := Select(nil, 5); len(got) != 0 {
		t.Errorf("Select(nil) = %v, want empty", got)
	}
}
