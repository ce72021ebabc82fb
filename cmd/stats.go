package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashai/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show study statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		deckID, _ := cmd.Flags().GetString("deck")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		totals, err := e.store.EventRepo().StudyTotals(cmd.Context(), deckID)
		if err != nil {
			return fmt.Errorf("query study totals: %w", err)
		}

		printStudyTotals(cmd.OutOrStdout(), totals)
		return nil
	},
}

func printStudyTotals(w io.Writer, totals store.StudyTotals) {
	if totals.Batches == 0 {
		fmt.Fprintln(w, "No study sessions recorded yet.")
		return
	}
	t := newTable([]int{1}).Rows(
		[]string{"Sessions", itoa(totals.Sessions)},
		[]string{"Batches", itoa(totals.Batches)},
		[]string{"Cards reviewed", itoa(totals.Cards)},
		[]string{"Correct", itoa(totals.Correct)},
		[]string{"To review", itoa(totals.ToReview)},
		[]string{"Accuracy", fmt.Sprintf("%.0f%%", totals.Accuracy()*100)},
	)
	printTable(w, "Study statistics", t)
}

func init() {
	statsCmd.Flags().String("deck", "", "Only count sessions of this deck ID")
}
