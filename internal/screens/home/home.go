package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mcqquiz/internal/router"
	"github.com/abhisek/mcqquiz/internal/screen"
	"github.com/abhisek/mcqquiz/internal/screens/generate"
	"github.com/abhisek/mcqquiz/internal/screens/quiz"
	"github.com/abhisek/mcqquiz/internal/ui/components"
	"github.com/abhisek/mcqquiz/internal/ui/layout"
	"github.com/abhisek/mcqquiz/internal/ui/theme"
)

// Session is what the home screen needs from the engine.
type Session interface {
	quiz.Session
	ToggleSound()
}

// Options configures the home screen.
type Options struct {
	Session    Session
	Generator  generate.Generator
	CloseDelay time.Duration
}

// soundToggledMsg rebuilds the menu after the sound setting changes.
type soundToggledMsg struct{}

// HomeScreen is the main menu.
type HomeScreen struct {
	ctx  context.Context
	opts Options
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(ctx context.Context, opts Options) *HomeScreen {
	h := &HomeScreen{ctx: ctx, opts: opts}
	h.menu = components.NewMenu(h.items())
	return h
}

func (h *HomeScreen) items() []components.MenuItem {
	sound := "off"
	if h.opts.Session.State().SoundEnabled {
		sound = "on"
	}

	items := []components.MenuItem{
		{Label: "Start quiz", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: quiz.New(h.ctx, h.opts.Session, h.opts.CloseDelay)}
			}
		}},
		{Label: fmt.Sprintf("Sound: %s", sound), Action: func() tea.Cmd {
			h.opts.Session.ToggleSound()
			return func() tea.Msg { return soundToggledMsg{} }
		}},
		{Label: "Generate module", Detail: "needs an LLM provider", Disabled: h.opts.Generator == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: generate.New(h.ctx, h.opts.Generator, h.playModule)}
			}
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	if h.opts.Generator != nil {
		items[2].Detail = ""
	}
	return items
}

// playModule opens a quiz that goes straight into the module at reference.
func (h *HomeScreen) playModule(reference string) screen.Screen {
	return quiz.New(h.ctx, h.opts.Session, h.opts.CloseDelay).StartWith(reference)
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(soundToggledMsg); ok {
		selected := h.menu.Selected
		h.menu = components.NewMenu(h.items())
		h.menu.Selected = selected
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	if !layout.IsCompactHeight(height + layout.HeaderHeight + layout.FooterHeight) {
		b.WriteString("\n\n")
	}
	b.WriteString(theme.Title.Width(width).Render("MCQ Quiz"))
	b.WriteString("\n")
	if !layout.IsCompactWidth(width) {
		b.WriteString(theme.Subtitle.Width(width).Render("Pick a module and answer at your own pace"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	menu := theme.Card.Render(strings.TrimRight(h.menu.View(), "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, menu))
	return b.String()
}

func (h *HomeScreen) Title() string {
	return "Home"
}
