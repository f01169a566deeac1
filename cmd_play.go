// cmd_play.go
//
// `riddler play` (also the root command): the terminal game.
// Responsibilities:
//   - Pick the save slot (file, or memory with --no-save).
//   - Detect a TTY for colour and the spinner.
//   - Run the console until the player quits or input ends.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/robalobadob/riddler/assets"
	"github.com/robalobadob/riddler/internal/console"
	"github.com/robalobadob/riddler/internal/store"
)

var playFlags struct {
	noSave bool
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal (default command)",
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&playFlags.noSave, "no-save", false, "keep the game in memory only")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st store.Store = store.NewFile(cfg.SaveFile)
	if playFlags.noSave {
		st = store.NewMemory()
	}
	a, err := newApp(ctx, cfg, st)
	if err != nil {
		return err
	}
	defer a.Close()

	fd := os.Stdout.Fd()
	con := console.New(a.ctrl, cmd.InOrStdin(), cmd.OutOrStdout(), console.Options{
		Title:       assets.Title(),
		Interactive: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	})
	if err := con.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
