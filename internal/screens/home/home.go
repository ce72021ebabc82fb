// Package home is the library screen: the deck list and its actions.
package home

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/flashai/internal/deck"
	"github.com/abhisek/flashai/internal/library"
	"github.com/abhisek/flashai/internal/router"
	"github.com/abhisek/flashai/internal/screen"
	"github.com/abhisek/flashai/internal/screens/create"
	"github.com/abhisek/flashai/internal/screens/history"
	"github.com/abhisek/flashai/internal/screens/study"
	"github.com/abhisek/flashai/internal/spacedrep"
	"github.com/abhisek/flashai/internal/ui/components"
	"github.com/abhisek/flashai/internal/ui/layout"
)

// Deps are the collaborators the library screen needs.
type Deps struct {
	Library *library.Service
	Study   study.Deps
	Create  create.Deps

	// StudyAll makes enter study the whole deck instead of the due cards.
	StudyAll bool
	Log      *zap.Logger
	Now      func() time.Time
}

// deckRow is one deck as listed on the screen.
type deckRow struct {
	ID        string
	Name      string
	Cards     int
	Due       int
	CreatedAt time.Time
}

// HomeScreen lists the decks in the library.
type HomeScreen struct {
	deps     Deps
	rows     []deckRow
	menu     components.Menu
	cta      components.Button
	deleting *deckRow
	errMsg   string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Refresher = (*HomeScreen)(nil)

// New creates the library screen.
func New(deps Deps) *HomeScreen {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	h := &HomeScreen{deps: deps}
	h.cta = components.NewButton("Create Deck", h.openCreate)
	h.reload()
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

// Refresh reloads the decks, e.g. after a study session changed due dates.
func (h *HomeScreen) Refresh() tea.Cmd {
	h.reload()
	return nil
}

func (h *HomeScreen) Title() string {
	return "Library"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.deleting != nil {
		return []layout.KeyHint{
			{Key: "y", Description: "Delete"},
			{Key: "n", Description: "Cancel"},
		}
	}
	if len(h.rows) == 0 {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Create deck"},
			{Key: "q", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Study"},
		{Key: "a", Description: "Study all"},
		{Key: "n", Description: "New"},
		{Key: "d", Description: "Delete"},
		{Key: "s", Description: "History"},
		{Key: "q", Description: "Quit"},
	}
}

func (h *HomeScreen) reload() {
	now := h.deps.Now()
	decks := h.deps.Library.Decks()

	h.rows = make([]deckRow, 0, len(decks))
	items := make([]components.MenuItem, 0, len(decks))
	for _, d := range decks {
		h.rows = append(h.rows, rowFor(d, now))
		id := d.ID
		items = append(items, components.MenuItem{
			Label: d.Name,
			Action: func() tea.Cmd {
				return h.openStudy(id, h.deps.StudyAll)
			},
		})
	}

	h.menu.SetItems(items)
}

func rowFor(d deck.Deck, now time.Time) deckRow {
	return deckRow{
		ID:        d.ID,
		Name:      d.Name,
		Cards:     len(d.Cards),
		Due:       spacedrep.CountDue(d.Cards, now),
		CreatedAt: d.CreatedAt,
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return h, nil
	}
	key := kmsg.String()

	if h.deleting != nil {
		return h, h.confirmDelete(key)
	}

	switch key {
	case "q":
		return h, tea.Quit
	case "n":
		return h, h.openCreate()
	case "s":
		return h, h.openHistory()
	}

	if len(h.rows) == 0 {
		var cmd tea.Cmd
		h.cta, cmd = h.cta.Update(msg)
		return h, cmd
	}

	switch key {
	case "a":
		return h, h.openStudy(h.selected().ID, true)
	case "d":
		row := h.selected()
		h.deleting = &row
		h.errMsg = ""
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) confirmDelete(key string) tea.Cmd {
	row := h.deleting
	h.deleting = nil
	if key != "y" {
		return nil
	}
	if err := h.deps.Library.Delete(context.Background(), row.ID); err != nil {
		h.deps.Log.Warn("delete deck failed", zap.String("deck_id", row.ID), zap.Error(err))
		h.errMsg = "Could not delete \"" + row.Name + "\". Try again."
		return nil
	}
	h.deps.Log.Info("deck deleted", zap.String("deck_id", row.ID))
	h.reload()
	return nil
}

func (h *HomeScreen) selected() deckRow {
	return h.rows[h.menu.Selected]
}

func (h *HomeScreen) openStudy(deckID string, all bool) tea.Cmd {
	next := study.New(h.deps.Study, deckID, all)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}

func (h *HomeScreen) openCreate() tea.Cmd {
	next := create.New(h.deps.Create)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}

func (h *HomeScreen) openHistory() tea.Cmd {
	lib := h.deps.Library
	next := history.New(h.deps.Study.Events, func(id string) string {
		d, _ := lib.Deck(id)
		return d.Name
	})
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}
