package generator

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write multiple-choice quiz modules.

Rules:
- Every question tests one fact or idea about the requested topic and stands on its own.
- Each question has exactly the requested number of options, and exactly one is correct.
- Distractors must be plausible and reflect common misconceptions, never jokes.
- Do not make "all of the above" or "none of the above" an option.
- Options within a question must be distinct.
- answerIndex is the zero-based position of the correct option.
- Vary where the correct option sits across questions.
- Do not repeat a question, and do not ask anything from the "avoid" list.`

// buildUserMessage renders the request for one module.
func buildUserMessage(in Input, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", in.Topic)
	if in.Level != "" {
		fmt.Fprintf(&b, "Level: %s\n", in.Level)
	}
	fmt.Fprintf(&b, "Number of questions: %d\n", in.Count)
	fmt.Fprintf(&b, "Options per question: %d\n", cfg.Options)

	b.WriteString("\nAvoid these questions:\n")
	b.WriteString(numberedList(in.Avoid, cfg.MaxAvoid))

	return b.String()
}

// numberedList keeps the last max entries. An empty list renders as "None".
func numberedList(items []string, max int) string {
	if len(items) == 0 {
		return "None"
	}
	if max > 0 && len(items) > max {
		items = items[len(items)-max:]
	}

	var b strings.Builder
	for i, s := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	return strings.TrimRight(b.String(), "\n")
}
