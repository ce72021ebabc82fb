package app

import (
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/flashai/internal/library"
	"github.com/abhisek/flashai/internal/router"
	"github.com/abhisek/flashai/internal/screen"
	"github.com/abhisek/flashai/internal/screens/home"
	"github.com/abhisek/flashai/internal/screens/welcome"
	"github.com/abhisek/flashai/internal/spacedrep"
	"github.com/abhisek/flashai/internal/ui/layout"
)

// Deps holds everything the TUI needs.
type Deps struct {
	Library *library.Service
	Home    home.Deps
	Log     *zap.Logger
	Now     func() time.Time

	// SkipSplash starts on the library screen.
	SkipSplash bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	library *library.Service
	log     *zap.Logger
	now     func() time.Time
	width   int
	height  int
}

// newAppModel creates a new AppModel with the welcome screen in front of the library.
func newAppModel(deps Deps) AppModel {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	homeFactory := func() screen.Screen { return home.New(deps.Home) }
	var initial screen.Screen = welcome.New(homeFactory)
	if deps.SkipSplash {
		initial = homeFactory()
	}

	return AppModel{
		router:  router.New(initial),
		library: deps.Library,
		log:     deps.Log,
		now:     deps.Now,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.closeActive()
			return m, tea.Quit
		case "esc":
			if bh, ok := m.router.Active().(screen.BackHandler); ok && bh.HandlesBack() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// closeActive lets the active screen save its state before the program exits.
func (m AppModel) closeActive() {
	c, ok := m.router.Active().(screen.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		m.log.Error("saving on quit failed", zap.Error(err))
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	v.SetContent(m.render())
	return v
}

// render draws the header, the active screen and the footer.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	decks, due := m.libraryCounts()
	header := layout.RenderHeader(title, decks, due, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(hp.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) libraryCounts() (decks, due int) {
	if m.library == nil {
		return 0, 0
	}
	now := m.now()
	lib := m.library.Decks()
	for _, d := range lib {
		due += spacedrep.CountDue(d.Cards, now)
	}
	return len(lib), due
}

// Run starts the Bubble Tea program.
func Run(deps Deps) error {
	p := tea.NewProgram(newAppModel(deps))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
