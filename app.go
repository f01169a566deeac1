// app.go
//
// Wiring shared by play and serve.
// Responsibilities:
//   - Build prompts, the completion backend and instructions from config.
//   - Open the records ledger when enabled; run without it if it fails.
//   - Assemble guardian + controller.

package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/riddler/assets"
	"github.com/robalobadob/riddler/internal/config"
	"github.com/robalobadob/riddler/internal/controller"
	"github.com/robalobadob/riddler/internal/guardian"
	"github.com/robalobadob/riddler/internal/records"
	"github.com/robalobadob/riddler/internal/store"
)

// app is the wired game shared by play and serve.
type app struct {
	ctrl   *controller.Controller
	ledger *records.Store // nil when disabled or unavailable
}

// newApp builds the controller over st. The records ledger is best effort:
// if it cannot be opened the game runs without it.
func newApp(ctx context.Context, c config.Config, st store.Store) (*app, error) {
	p, err := c.Prompts()
	if err != nil {
		return nil, err
	}
	comp, err := c.Completer(ctx, p)
	if err != nil {
		return nil, errors.Wrap(err, "completion backend")
	}
	lines, err := assets.Instructions()
	if err != nil {
		return nil, errors.Wrap(err, "instructions")
	}

	a := &app{}
	opts := []controller.Option{controller.WithInstructions(lines)}
	if c.RecordsEnabled() {
		ledger, err := records.Open(c.RecordsDB)
		if err != nil {
			log.Warn().Err(err).Str("path", c.RecordsDB).Msg("records ledger unavailable")
		} else {
			a.ledger = ledger
			opts = append(opts, controller.WithRecorder(ledger))
		}
	}

	a.ctrl = controller.New(guardian.New(comp, st, p), opts...)
	log.Debug().
		Str("provider", c.Provider).
		Bool("records", a.ledger != nil).
		Msg("game ready")
	return a, nil
}

func (a *app) Close() error {
	if a.ledger == nil {
		return nil
	}
	return a.ledger.Close()
}
