package engine

import (
	"fmt"
	"strings"
)

const analyzeSystemPrompt = `You are a senior software engineer analyzing a repository.
Answer precisely, referencing concrete files and symbols from the provided context.
When the context is truncated, say what you can and cannot conclude.`

const generateSystemPrompt = `You are a senior software engineer writing production-quality code.
Return only the requested code inside a single fenced code block, no prose before or after.`

const editSystemPrompt = `You are a senior software engineer editing one file.
Return the COMPLETE replacement body of the file inside a single fenced code block.
Do not omit unchanged sections and do not add commentary outside the block.`

const agentSystemPrompt = `You are an autonomous coding agent. Respond in EXACTLY this format:

EXPLANATION:
<one short paragraph describing the change>

[FILE: path/to/file]
` + "```" + `
<full new content of the file>
` + "```" + `

Repeat the [FILE: ...] block for every file you create or modify.
Always return complete file contents, never fragments.`

const searchSystemPrompt = `You rank repository files by relevance to a described functionality.
Respond with a JSON array of file paths, most relevant first, and nothing else.`

const generateWithTestsSystemPrompt = `You are a senior software engineer.
Respond in EXACTLY this format:

=== IMPLEMENTATION ===
` + "```" + `
<implementation code>
` + "```" + `

=== TESTS ===
` + "```" + `
<test code>
` + "```"

func analyzePrompt(repoContext, question string) string {
	var b strings.Builder
	b.WriteString(repoContext)
	b.WriteString("\n---\n\n")
	if question == "" {
		b.WriteString("Analyze this repository: its purpose, architecture, and notable design decisions.")
	} else {
		b.WriteString(question)
	}
	return b.String()
}

func generatePrompt(prompt, language string) string {
	if language == "" {
		return prompt
	}
	return fmt.Sprintf("Target language: %s\n\n%s", language, prompt)
}

func editPrompt(path, content, instruction string) string {
	return fmt.Sprintf("File: %s\n\nCurrent content:\n```\n%s\n```\n\nInstruction: %s", path, content, instruction)
}

func createPrompt(path, description, styleReference string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Create a new file at %s.\n\nPurpose: %s\n", path, description))
	if styleReference != "" {
		b.WriteString("\nMatch the conventions of these existing files from the same repository:\n")
		b.WriteString(styleReference)
	}
	b.WriteString("\nReturn only the file content in a single fenced code block.")
	return b.String()
}

func planPrompt(repoContext, problem string) string {
	return fmt.Sprintf(`%s
---

Task: %s

Write a short, numbered implementation plan. List each file to create or
modify and what changes it needs. Do not write code yet.`, repoContext, problem)
}

func implementPrompt(repoContext, problem, plan string) string {
	return fmt.Sprintf(`%s
---

Task: %s

Plan:
%s

Implement the plan now, following the response format exactly.`, repoContext, problem, plan)
}

func searchPrompt(treeContext, description string) string {
	return fmt.Sprintf(`%s
---

Which files most likely implement the following functionality?

%s`, treeContext, description)
}
