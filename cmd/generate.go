package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashai/internal/cardgen"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a deck from notes and files without opening the app",
	Example: `  flashai generate --text "The mitochondria is the powerhouse of the cell"
  flashai generate --file lecture.pdf --file diagram.png`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		files, _ := cmd.Flags().GetStringSlice("file")
		if text == "-" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			text = string(data)
		}

		input := cardgen.Input{Text: text}
		for _, p := range files {
			blob, err := cardgen.LoadFile(p)
			if err != nil {
				return err
			}
			if cardgen.Classify(blob.MIMEType) == cardgen.KindIgnored {
				fmt.Fprintf(os.Stderr, "Skipping %s: unsupported type %s\n", p, blob.MIMEType)
			}
			input.Files = append(input.Files, blob)
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		provider, err := e.provider(ctx)
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}
		lib, err := e.library(ctx, cardgen.New(provider, cardgen.DefaultConfig(), e.log.Zap()))
		if err != nil {
			return err
		}

		fmt.Println("Generating flashcards...")
		d, err := lib.Generate(ctx, input)
		if errors.Is(err, cardgen.ErrEmptyInput) {
			return errors.New("nothing to generate from: pass --text or a text, image or PDF --file")
		}
		if err != nil {
			return err
		}

		fmt.Printf("Created %q (%s) with %d cards\n\n", d.Name, d.ID, len(d.Cards))
		for i, c := range d.Cards {
			fmt.Printf("%3d. %s\n     %s\n", i+1, c.Front, c.Back)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("text", "t", "", "Notes to generate from (- reads stdin)")
	generateCmd.Flags().StringSliceP("file", "f", nil, "File to include (text, image or PDF); repeatable")
}
