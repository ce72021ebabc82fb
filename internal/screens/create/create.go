// Package create is the screen that generates a new deck from notes and files.
package create

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/flashai/internal/cardgen"
	"github.com/abhisek/flashai/internal/deck"
	"github.com/abhisek/flashai/internal/library"
	"github.com/abhisek/flashai/internal/llm"
	"github.com/abhisek/flashai/internal/router"
	"github.com/abhisek/flashai/internal/screen"
	"github.com/abhisek/flashai/internal/screens/study"
	"github.com/abhisek/flashai/internal/ui/components"
	"github.com/abhisek/flashai/internal/ui/layout"
	"github.com/abhisek/flashai/internal/ui/theme"
)

const (
	notesLimit   = 20000
	filesLimit   = 2000
	tickInterval = 100 * time.Millisecond
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type tickMsg time.Time

type generatedMsg struct {
	Deck deck.Deck
	Err  error
}

// Deps are the collaborators a create screen needs.
type Deps struct {
	Library *library.Service
	Study   study.Deps
	Log     *zap.Logger

	// LoadFile reads a file into a blob. Defaults to cardgen.LoadFile.
	LoadFile func(path string) (cardgen.FileBlob, error)
}

// CreateScreen implements screen.Screen for deck generation.
type CreateScreen struct {
	deps       Deps
	notes      components.TextInput
	files      components.TextInput
	generating bool
	frame      int
	errMsg     string
}

var _ screen.Screen = (*CreateScreen)(nil)
var _ screen.KeyHintProvider = (*CreateScreen)(nil)
var _ screen.BackHandler = (*CreateScreen)(nil)

// New creates a create screen with the notes input focused.
func New(deps Deps) *CreateScreen {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.LoadFile == nil {
		deps.LoadFile = cardgen.LoadFile
	}
	return &CreateScreen{
		deps:  deps,
		notes: components.NewTextInput("Notes", "Paste or type what you want to learn", notesLimit),
		files: components.NewTextInput("Files", "notes.md, slides.pdf, diagram.png", filesLimit),
	}
}

func (c *CreateScreen) Init() tea.Cmd {
	return c.notes.Focus()
}

func (c *CreateScreen) Title() string {
	return "New Deck"
}

// HandlesBack keeps the screen up while a deck is being generated.
func (c *CreateScreen) HandlesBack() bool { return c.generating }

func (c *CreateScreen) KeyHints() []layout.KeyHint {
	if c.generating {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch field"},
		{Key: "Enter", Description: "Generate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (c *CreateScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if !c.generating {
			return c, nil
		}
		c.frame = (c.frame + 1) % len(spinnerFrames)
		return c, tick()

	case generatedMsg:
		c.generating = false
		if msg.Err != nil {
			c.deps.Log.Warn("deck creation failed", zap.Error(msg.Err))
			c.errMsg = describe(msg.Err)
			return c, nil
		}
		next := study.New(c.deps.Study, msg.Deck.ID, true)
		return c, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: next}
		}

	case tea.KeyMsg:
		if c.generating {
			return c, nil
		}
		switch msg.String() {
		case "tab", "shift+tab":
			return c, c.switchField()
		case "enter":
			return c, c.generate()
		}
	}

	var cmd tea.Cmd
	if c.notes.Focused() {
		c.notes, cmd = c.notes.Update(msg)
	} else {
		c.files, cmd = c.files.Update(msg)
	}
	return c, cmd
}

func (c *CreateScreen) switchField() tea.Cmd {
	if c.notes.Focused() {
		c.notes.Blur()
		return c.files.Focus()
	}
	c.files.Blur()
	return c.notes.Focus()
}

func (c *CreateScreen) generate() tea.Cmd {
	text := strings.TrimSpace(c.notes.Value())
	paths := c.files.List()
	if text == "" && len(paths) == 0 {
		c.errMsg = "Add some notes or at least one file to generate from."
		return nil
	}

	c.errMsg = ""
	c.generating = true
	c.frame = 0

	lib, load := c.deps.Library, c.deps.LoadFile
	run := func() tea.Msg {
		input := cardgen.Input{Text: text}
		for _, p := range paths {
			blob, err := load(p)
			if err != nil {
				return generatedMsg{Err: err}
			}
			input.Files = append(input.Files, blob)
		}
		d, err := lib.Generate(context.Background(), input)
		return generatedMsg{Deck: d, Err: err}
	}
	return tea.Batch(run, tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// describe turns a creation error into one actionable message.
func describe(err error) string {
	var (
		rateLimit *llm.RateLimitError
		rejected  *llm.RejectedError
	)
	switch {
	case errors.Is(err, cardgen.ErrEmptyInput):
		return "Nothing to generate from. Add notes, or a text, image or PDF file."
	case errors.Is(err, library.ErrNoGenerator):
		return "No AI provider is configured. Set GEMINI_API_KEY (or another provider key) and restart."
	case errors.As(err, &rateLimit):
		return "The AI provider is rate limiting requests. Wait a moment and try again."
	case errors.As(err, &rejected):
		return "The AI provider refused the request. Check your API key and model in the config."
	case errors.Is(err, library.ErrPersistence):
		return "The deck was generated but could not be saved. Try again."
	case errors.Is(err, library.ErrGeneration):
		return "Could not generate flashcards. Check your connection and API key, then try again."
	default:
		return fmt.Sprintf("Could not read your files: %v", err)
	}
}

func (c *CreateScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Create a deck"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(cw).Render("Cards are generated from your notes and files"))
	b.WriteString("\n\n")

	field := lipgloss.NewStyle().Width(cw).Padding(0, 2)
	b.WriteString(field.Render(c.notes.View()))
	b.WriteString("\n\n")
	b.WriteString(field.Render(c.files.View()))
	b.WriteString("\n")
	b.WriteString(field.Inherit(theme.Hint).Render("Comma-separated paths. Text, images and PDFs are supported."))
	b.WriteString("\n\n")

	switch {
	case c.generating:
		b.WriteString(lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Foreground(theme.Accent).
			Render(spinnerFrames[c.frame] + " Generating flashcards..."))
	case c.errMsg != "":
		b.WriteString(lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Foreground(theme.Error).
			Render(c.errMsg))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}
