package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mcqquiz/internal/engine"
	"github.com/abhisek/mcqquiz/internal/ui/components"
	"github.com/abhisek/mcqquiz/internal/ui/layout"
	"github.com/abhisek/mcqquiz/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	if s.state.QuitDialogVisible {
		return renderQuitDialog(width)
	}

	switch s.state.Mode() {
	case engine.ModeClosing:
		return centered(width, theme.Subtitle, "\n\n\n  Saving and closing...")
	case engine.ModeResults:
		return s.renderResults(width)
	case engine.ModeLoading, engine.ModeNotStarted:
		return centered(width, theme.Hint, "\n\n\n  Loading...")
	case engine.ModeModuleSelect:
		return s.renderModules(width, height)
	case engine.ModeEmpty:
		return centered(width, theme.Warning, "\n\n\n  No questions available.\n\n  Press Esc to go back.")
	}
	return s.renderQuestion(width, height)
}

func (s *QuizScreen) renderModules(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("  Choose a module"))
	b.WriteString("\n\n")

	barWidth := min(width-8, 60)
	for i, m := range s.state.ModuleOptions {
		prefix := "    "
		style := theme.Unselected
		if i == s.moduleIndex {
			prefix = "  ▸ "
			style = theme.Selected
		}
		b.WriteString(style.Render(prefix + m.Title))
		b.WriteString("\n")

		if m.Progress != nil {
			status := fmt.Sprintf("%d/%d correct", m.Progress.Correct, m.Progress.Total)
			if m.Progress.Completed {
				status += ", completed"
			}
			bar := components.NewProgressBar("", m.Progress.Percent(), true, barWidth)
			b.WriteString("      " + bar.View() + "  " + theme.Hint.Render(status))
			b.WriteString("\n")
		} else if m.Description != "" && !layout.IsCompactHeight(height) {
			b.WriteString(theme.Hint.Render("      " + m.Description))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (s *QuizScreen) renderQuestion(width, height int) string {
	st := s.state
	cur, ok := st.Current()
	if !ok {
		return ""
	}

	var b strings.Builder

	info := theme.Subtitle.Render(fmt.Sprintf("  Question %d of %d", st.CurrentIndex+1, len(st.Questions)))
	if st.SkippedAnswers > 0 {
		info += theme.Hint.Render(fmt.Sprintf("   skipped %d", st.SkippedAnswers))
	}
	b.WriteString(info)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n")
	if !layout.IsCompactHeight(height) {
		b.WriteString("\n")
	}

	mc := components.NewMultiChoice(cur)
	mc.Cursor = s.cursor
	b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(mc.View(width - 2)))
	b.WriteString("\n")

	switch {
	case st.AdvanceTimerVisible:
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  Next in %ds  (Enter or S to continue)", st.RemainingSeconds)))
	case cur.Revealed && st.IsLastPage():
		b.WriteString(theme.Hint.Render("  Press E to see your results"))
	}
	return b.String()
}

func (s *QuizScreen) renderResults(width int) string {
	st := s.state
	total := len(st.Questions)

	var b strings.Builder
	b.WriteString("\n")
	heading := "Test ended"
	if st.Completed {
		heading = "Quiz complete!"
	}
	b.WriteString(centered(width, theme.Title, heading))
	b.WriteString("\n\n")

	score := fmt.Sprintf("%d / %d correct", st.CorrectAnswers, total)
	b.WriteString(centered(width, theme.Correct, score))
	b.WriteString("\n")
	b.WriteString(centered(width, theme.Body, fmt.Sprintf("Skipped: %d   Longest streak: %d", st.SkippedAnswers, st.LongestStreak)))
	b.WriteString("\n\n")

	percent := 0.0
	if total > 0 {
		percent = float64(st.CorrectAnswers) / float64(total)
	}
	bar := components.NewProgressBar("Score", percent, true, min(width-8, 60))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n")
	return b.String()
}

func renderQuitDialog(width int) string {
	body := theme.Title.Render("Leave this quiz?") + "\n" +
		theme.Hint.Render("Your answers so far will be saved.") + "\n\n" +
		theme.Correct.Render("[Y] Quit") + "    " + theme.Body.Render("[N] Keep going")
	return "\n\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Dialog.Render(body))
}

func centered(width int, style lipgloss.Style, text string) string {
	return style.Width(width).Align(lipgloss.Center).Render(text)
}
