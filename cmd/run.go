package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashai/internal/app"
	"github.com/abhisek/flashai/internal/cardgen"
	"github.com/abhisek/flashai/internal/screens/create"
	"github.com/abhisek/flashai/internal/screens/home"
	"github.com/abhisek/flashai/internal/screens/study"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	zlog := e.log.Zap()

	var gen cardgen.Generator
	provider, err := e.provider(ctx)
	if err != nil {
		e.log.Warn("LLM provider not configured", "error", err)
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Deck generation will be unavailable.")
	} else {
		gen = cardgen.New(provider, cardgen.DefaultConfig(), zlog)
	}

	lib, err := e.library(ctx, gen)
	if err != nil {
		return err
	}

	studyDeps := study.Deps{
		Library: lib,
		Events:  e.store.EventRepo(),
		Options: e.cfg.Study.SessionOptions(),
		Log:     zlog,
	}
	skipSplash, _ := cmd.Flags().GetBool("no-splash")

	e.log.Info("starting TUI", "decks", len(lib.Decks()), "provider", e.cfg.LLM.Provider)
	return app.Run(app.Deps{
		Library: lib,
		Home: home.Deps{
			Library:  lib,
			Study:    studyDeps,
			Create:   create.Deps{Library: lib, Study: studyDeps, Log: zlog},
			StudyAll: e.cfg.Study.StudyAll,
			Log:      zlog,
		},
		Log:        zlog,
		SkipSplash: skipSplash,
	})
}
