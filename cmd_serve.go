// cmd_serve.go
//
// `riddler serve`: the game as a local JSON API.
// Responsibilities:
//   - Wire the controller, file slot and ledger into httpserver.
//   - Run ListenAndServe and graceful shutdown side by side in an errgroup.
//   - Stop on SIGINT/SIGTERM.

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/riddler/internal/httpserver"
	"github.com/robalobadob/riddler/internal/store"
)

var serveFlags struct {
	port string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the game as a local JSON API",
	Long: `Starts an HTTP server on PORT (default 5175) that drives one game through
GET /state and POST /intents. Solve records are served from GET /records
when the ledger is enabled.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.port, "port", "", "listen port (overrides PORT)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if serveFlags.port != "" {
		cfg.Port = serveFlags.port
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, store.NewFile(cfg.SaveFile))
	if err != nil {
		return err
	}
	defer a.Close()

	opts := httpserver.Options{Origin: cfg.Origin, Timeout: cfg.Timeout + 30*time.Second}
	if a.ledger != nil {
		opts.Ledger = a.ledger
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpserver.New(a.ctrl, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("starting riddler server")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
