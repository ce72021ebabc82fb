package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/flashai/internal/ui/theme"
)

// Button is a single call to action, pressed with enter.
type Button struct {
	Label   string
	OnPress func() tea.Cmd
}

func NewButton(label string, onPress func() tea.Cmd) Button {
	return Button{Label: label, OnPress: onPress}
}

// Update returns the button's command when msg is enter.
func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok && k.String() == "enter" && b.OnPress != nil {
		return b, b.OnPress()
	}
	return b, nil
}

func (b Button) View() string {
	return theme.Button.Render("+ " + b.Label)
}
