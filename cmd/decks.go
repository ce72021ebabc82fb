package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashai/internal/deck"
	"github.com/abhisek/flashai/internal/spacedrep"
)

var decksCmd = &cobra.Command{
	Use:   "decks",
	Short: "List decks with card and due counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		lib, err := e.library(cmd.Context(), nil)
		if err != nil {
			return err
		}

		printDecks(cmd.OutOrStdout(), lib.Decks(), time.Now())
		return nil
	},
}

func printDecks(w io.Writer, decks []deck.Deck, now time.Time) {
	if len(decks) == 0 {
		fmt.Fprintln(w, "No decks yet. Create one with `flashai generate` or in the app.")
		return
	}
	t := newTable([]int{2, 3}, "ID", "Name", "Cards", "Due", "Created", "Next review")
	for _, d := range decks {
		next := "-"
		if at, ok := spacedrep.NextDue(d.Cards); ok {
			next = at.Local().Format("2006-01-02 15:04")
		}
		t.Row(d.ID, truncate(d.Name, 28), itoa(len(d.Cards)), itoa(spacedrep.CountDue(d.Cards, now)),
			d.CreatedAt.Local().Format("2006-01-02"), next)
	}
	printTable(w, "", t)
}
