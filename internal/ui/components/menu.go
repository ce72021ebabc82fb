package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// MenuItem is one selectable row.
type MenuItem struct {
	Label  string
	Action func() tea.Cmd
}

// Menu tracks the selected row of a vertical list. Screens draw the rows
// themselves through View's render function.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	return Menu{Items: items}
}

// SetItems replaces the rows, keeping the selection on the same index or the
// last row when the list got shorter.
func (m *Menu) SetItems(items []MenuItem) {
	m.Items = items
	m.Selected = max(0, min(m.Selected, len(items)-1))
}

// Update moves the selection with the arrow keys, j/k, home and end, and runs
// the selected item's action on enter.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	k, ok := msg.(tea.KeyPressMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch k.String() {
	case "up", "k":
		m.Selected = max(0, m.Selected-1)
	case "down", "j":
		m.Selected = min(len(m.Items)-1, m.Selected+1)
	case "home", "g":
		m.Selected = 0
	case "end", "G":
		m.Selected = len(m.Items) - 1
	case "enter":
		if a := m.Items[m.Selected].Action; a != nil {
			return m, a()
		}
	}
	return m, nil
}

// View joins one rendered block per item.
func (m Menu) View(render func(i int, selected bool) string) string {
	rows := make([]string, len(m.Items))
	for i := range m.Items {
		rows[i] = render(i, i == m.Selected)
	}
	return strings.Join(rows, "\n")
}
