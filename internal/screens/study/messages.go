package study

import "github.com/abhisek/flashai/internal/deck"

// queueReadyMsg is sent when the study queue has been built.
type queueReadyMsg struct {
	Cards []deck.Card
	Err   error
}
