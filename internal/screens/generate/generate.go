// Package generate is the screen for creating a question module with an
// LLM provider.
package generate

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mcqquiz/internal/generator"
	"github.com/abhisek/mcqquiz/internal/router"
	"github.com/abhisek/mcqquiz/internal/screen"
	"github.com/abhisek/mcqquiz/internal/source"
	"github.com/abhisek/mcqquiz/internal/store"
	"github.com/abhisek/mcqquiz/internal/ui/components"
	"github.com/abhisek/mcqquiz/internal/ui/layout"
	"github.com/abhisek/mcqquiz/internal/ui/theme"
)

// DefaultCount is the number of questions requested per module.
const DefaultCount = 10

// Generator creates and saves a module.
type Generator interface {
	Generate(ctx context.Context, in generator.Input) (*store.LocalModule, error)
}

var _ Generator = (*generator.Generator)(nil)

// generatedMsg reports the outcome of a generation request.
type generatedMsg struct {
	Module *store.LocalModule
	Err    error
}

// PlayFunc builds the screen that plays the module at reference.
type PlayFunc func(reference string) screen.Screen

// GenerateScreen asks for a topic and generates a module for it.
type GenerateScreen struct {
	ctx     context.Context
	gen     Generator
	play    PlayFunc
	input   components.TextInput
	running bool
	result  *store.LocalModule
	err     error
}

var _ screen.Screen = (*GenerateScreen)(nil)
var _ screen.KeyHintProvider = (*GenerateScreen)(nil)

// New creates a GenerateScreen. When play is non-nil a freshly generated
// module can be started right away.
func New(ctx context.Context, gen Generator, play PlayFunc) *GenerateScreen {
	return &GenerateScreen{
		ctx:   ctx,
		gen:   gen,
		play:  play,
		input: components.NewTextInput("e.g. Go concurrency", 120),
	}
}

func (g *GenerateScreen) Init() tea.Cmd {
	return g.input.Init()
}

func (g *GenerateScreen) Title() string {
	return "Generate module"
}

func (g *GenerateScreen) KeyHints() []layout.KeyHint {
	if g.running {
		return nil
	}
	if g.canPlay() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Play it now"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Generate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (g *GenerateScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case generatedMsg:
		g.running = false
		g.result = msg.Module
		g.err = msg.Err
		if msg.Err == nil {
			g.input.Reset()
		}
		return g, nil

	case tea.KeyPressMsg:
		if g.running {
			return g, nil
		}
		if msg.String() == "enter" {
			if g.canPlay() {
				next := g.play(source.LocalReference(g.result.ID))
				return g, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
			}
			return g, g.submit()
		}
	}

	var cmd tea.Cmd
	g.input, cmd = g.input.Update(msg)
	return g, cmd
}

// canPlay reports whether Enter starts the last generated module, which is
// the case until a new topic is typed.
func (g *GenerateScreen) canPlay() bool {
	return g.play != nil && g.result != nil && g.input.Value() == ""
}

func (g *GenerateScreen) submit() tea.Cmd {
	topic := g.input.Value()
	if topic == "" {
		return nil
	}
	g.running = true
	g.result = nil
	g.err = nil

	ctx, gen := g.ctx, g.gen
	return func() tea.Msg {
		mod, err := gen.Generate(ctx, generator.Input{Topic: topic, Count: DefaultCount})
		return generatedMsg{Module: mod, Err: err}
	}
}

func (g *GenerateScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Width(width).Render("Generate a module"))
	b.WriteString("\n\n")

	prompt := lipgloss.NewStyle().Width(min(width-8, 70)).Render("Topic: " + g.input.View())
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, prompt))
	b.WriteString("\n\n")

	var status string
	switch {
	case g.running:
		status = theme.Hint.Render("Generating questions...")
	case g.err != nil:
		status = theme.Incorrect.Render(fmt.Sprintf("Error: %v", g.err))
	case g.result != nil:
		status = theme.Correct.Render(fmt.Sprintf("Saved %q with %d questions. It is now in the module list.",
			g.result.Title, len(g.result.Questions)))
		if g.canPlay() {
			status += "\n" + theme.Hint.Render("Press Enter to play it now, or type another topic.")
		}
	}
	if status != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, status))
	}
	return b.String()
}
