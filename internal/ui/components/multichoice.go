package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mcqquiz/internal/quiz"
	"github.com/abhisek/mcqquiz/internal/ui/theme"
)

// MultiChoice renders one session question. Before the answer is revealed
// the cursor row is highlighted; afterwards the correct option is green and
// a wrong pick is red.
type MultiChoice struct {
	Question quiz.SessionQuestion
	Cursor   int
}

// NewMultiChoice creates a view for q with the cursor on the first option.
func NewMultiChoice(q quiz.SessionQuestion) MultiChoice {
	return MultiChoice{Question: q}
}

// MoveCursor moves the cursor by delta, clamped to the option range.
func (m MultiChoice) MoveCursor(delta int) MultiChoice {
	m.Cursor = min(max(m.Cursor+delta, 0), max(len(m.Question.ShuffledOptions)-1, 0))
	return m
}

// View renders the prompt and its options.
func (m MultiChoice) View(width int) string {
	q := m.Question

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Width(max(width-4, 10)).
		Render(q.Question.Prompt))
	b.WriteString("\n\n")

	for i, opt := range q.ShuffledOptions {
		prefix := "  "
		if i == m.Cursor && !q.Revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		var style lipgloss.Style
		switch {
		case q.Revealed && i == q.ShuffledAnswerIndex:
			style = theme.Correct
			line += "  ✓"
		case q.Revealed && i == q.SelectedIndex:
			style = theme.Incorrect
			line += "  ✗"
		case q.Revealed:
			style = theme.Dimmed
		case i == m.Cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line) + "\n")
	}

	return b.String()
}
