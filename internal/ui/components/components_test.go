package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mcqquiz/internal/quiz"
	"github.com/abhisek/mcqquiz/internal/ui/theme"
)

func TestMenuSkipsDisabledItems(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "off", Disabled: true},
		{Label: "a"},
		{Label: "skip me", Disabled: true},
		{Label: "b"},
	})
	assert.Equal(t, 1, m.Selected)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 3, m.Selected)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 3, m.Selected)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 1, m.Selected)
}

func TestMenuEnterRunsAction(t *testing.T) {
	ran := false
	m := NewMenu([]MenuItem{{Label: "go", Action: func() tea.Cmd {
		ran = true
		return nil
	}}})

	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.True(t, ran)
}

func TestMultiChoiceCursorClamps(t *testing.T) {
	mc := NewMultiChoice(quiz.SessionQuestion{ShuffledOptions: []string{"a", "b", "c"}, SelectedIndex: -1})

	mc = mc.MoveCursor(5)
	assert.Equal(t, 2, mc.Cursor)
	mc = mc.MoveCursor(-10)
	assert.Equal(t, 0, mc.Cursor)
}

func TestMultiChoiceMarksRevealedAnswer(t *testing.T) {
	q := quiz.SessionQuestion{
		Question:            quiz.Question{Prompt: "Pick one"},
		ShuffledOptions:     []string{"wrong", "right"},
		ShuffledAnswerIndex: 1,
		SelectedIndex:       0,
		Revealed:            true,
	}
	view := NewMultiChoice(q).View(60)

	lines := strings.Split(view, "\n")
	var wrong, right string
	for _, l := range lines {
		switch {
		case strings.Contains(l, "wrong"):
			wrong = l
		case strings.Contains(l, "right"):
			right = l
		}
	}
	require.NotEmpty(t, wrong)
	require.NotEmpty(t, right)
	assert.Contains(t, wrong, "✗")
	assert.Contains(t, right, "✓")
	assert.Contains(t, view, "Pick one")
}

func TestProgressBarFill(t *testing.T) {
	tests := []struct {
		percent float64
		want    any
	}{
		{0.9, theme.Success},
		{0.6, theme.Secondary},
		{0.2, theme.Accent},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewProgressBar("", tt.percent, false, 20).fill())
	}

	assert.Equal(t, 1.0, NewProgressBar("", 3, false, 20).Percent)
	assert.Contains(t, NewProgressBar("Score", 0.5, true, 40).View(), "50%")
}
