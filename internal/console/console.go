// internal/console/console.go
//
// Terminal front end for the riddle game.
// Responsibilities:
//   - Render the title, menus, riddles, hints, judgements and insights.
//   - Read the player's choices with go-input and turn them into intents.
//   - Show a spinner while the guardian is being consulted (terminals only).
//
// The console never mutates the session itself; every action goes through
// controller.Dispatch and the console renders the returned Result.
package console

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	input "github.com/tcnksm/go-input"

	"github.com/robalobadob/riddler/internal/controller"
	"github.com/robalobadob/riddler/internal/game"
	"github.com/robalobadob/riddler/internal/guardian"
	"github.com/robalobadob/riddler/internal/store"
)

// ErrInputClosed means the player's input reached EOF or was interrupted.
var ErrInputClosed = errors.New("input closed")

var mainMenu = []string{"Start New Game", "Continue Saved Game", "View Instructions", "Quit"}

// Options configures a Console.
type Options struct {
	Title       string
	Interactive bool // output is a terminal; enables the spinner
}

// Console drives one controller from a reader/writer pair.
type Console struct {
	ctrl  *controller.Controller
	in    *eofReader
	out   io.Writer
	ui    *input.UI
	st    styles
	opts  Options
	spinT time.Duration
}

func New(ctrl *controller.Controller, in io.Reader, out io.Writer, opts Options) *Console {
	r := &eofReader{r: in}
	return &Console{
		ctrl:  ctrl,
		in:    r,
		out:   out,
		ui:    &input.UI{Reader: r, Writer: out},
		st:    newStyles(out),
		opts:  opts,
		spinT: 100 * time.Millisecond,
	}
}

// Run plays until the player quits or input ends. Guardian and save errors
// are shown and play continues; only context cancellation and unexpected
// errors end Run with an error.
func (c *Console) Run(ctx context.Context) error {
	if c.opts.Title != "" {
		c.println(c.st.title.Render(c.opts.Title))
	}
	for c.ctrl.State() != controller.StateQuit {
		if err := ctx.Err(); err != nil {
			return err
		}
		in, err := c.next()
		if errors.Is(err, ErrInputClosed) {
			in = controller.Quit()
		} else if err != nil {
			return err
		}
		res, err := c.dispatch(ctx, in)
		if err := c.report(err); err != nil {
			return err
		}
		c.render(res)
	}
	return nil
}

// next asks the question for the current state and returns the chosen intent.
func (c *Console) next() (controller.Intent, error) {
	switch c.ctrl.State() {
	case controller.StateMainMenu:
		i, err := c.choose("Main Menu", mainMenu)
		if err != nil {
			return controller.Intent{}, err
		}
		return []controller.Intent{
			controller.Start(), controller.Continue(), controller.Instructions(), controller.Quit(),
		}[i], nil

	case controller.StateDifficultySelect:
		items := make([]string, 0, len(game.Difficulties)+1)
		for _, d := range game.Difficulties {
			items = append(items, d.Description())
		}
		i, err := c.choose("Select Difficulty", append(items, "Back"))
		if err != nil {
			return controller.Intent{}, err
		}
		if i == len(game.Difficulties) {
			return controller.Back(), nil
		}
		return controller.ChooseDifficulty(int(game.Difficulties[i])), nil

	case controller.StateActiveRiddle:
		for {
			ans, err := c.ask(`Your answer ("hint" for a hint, "riddle" to repeat)`)
			if err != nil {
				return controller.Intent{}, err
			}
			if strings.TrimSpace(ans) != "" {
				return controller.Answer(ans), nil
			}
		}

	case controller.StateSolved:
		yes, err := c.confirm("The guardian's insight did not arrive. Ask again?")
		if err != nil || !yes {
			return controller.Quit(), err
		}
		return controller.RetryInsight(), nil

	case controller.StatePlayAgain:
		yes, err := c.confirm("Play again?")
		if err != nil {
			return controller.Intent{}, err
		}
		return controller.PlayAgain(yes), nil

	default:
		if _, err := c.ask("Press Enter to return to the main menu"); err != nil {
			return controller.Intent{}, err
		}
		return controller.Back(), nil
	}
}

// guardianBound reports whether in may trigger a completion call.
func guardianBound(in controller.Intent) bool {
	switch in.Kind {
	case controller.IntentDifficulty, controller.IntentInsight:
		return true
	case controller.IntentAnswer:
		return !strings.EqualFold(strings.TrimSpace(in.Text), "riddle")
	}
	return false
}

func (c *Console) dispatch(ctx context.Context, in controller.Intent) (controller.Result, error) {
	if c.opts.Interactive && guardianBound(in) {
		sp := startSpinner(c.out, "The guardian ponders...", c.spinT)
		defer sp.Stop()
	}
	return c.ctrl.Dispatch(ctx, in)
}

// report shows recoverable errors and returns the rest.
func (c *Console) report(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, guardian.ErrGuardianUnavailable):
		log.Debug().Err(err).Msg("guardian call failed")
		c.println(c.st.failure.Render("The guardian is silent: " + err.Error()))
		c.println(c.st.muted.Render("Try again in a moment."))
	case errors.Is(err, store.ErrCorruptSave):
		c.println(c.st.failure.Render("The saved game cannot be read: " + err.Error()))
	case errors.Is(err, controller.ErrInvalidIntent):
		c.println(c.st.warning.Render("That is not possible right now."))
	default:
		return err
	}
	return nil
}

func (c *Console) render(res controller.Result) {
	switch res.Kind {
	case controller.KindRiddle:
		c.println(c.st.heading.Render("The Ancient Guardian speaks:"))
		c.println(c.st.guardian.Render(res.Text))
	case controller.KindRiddleRepeat:
		c.println(c.st.guardian.Render(res.Text))
	case controller.KindHint:
		c.println(c.st.hint.Render("Hint: " + res.Text))
		c.printf("Hints used: %d\n", res.Session.HintsUsed)
	case controller.KindJudgement:
		if res.Correct {
			c.renderSolved(res)
			break
		}
		c.println(c.st.failure.Render("That is not correct. Try again!"))
		c.printf("Attempts: %d\n", res.Session.Attempts)
	case controller.KindInsight:
		c.renderSolved(res)
		c.println(c.st.heading.Render("The guardian shares an insight:"))
		c.println(c.st.guardian.Render(res.Text))
	case controller.KindInstructions:
		c.println(c.st.heading.Render("How to Play"))
		c.println(res.Text)
	case controller.KindNoSavedGame:
		c.println(c.st.warning.Render("No saved game found."))
	case controller.KindFarewell:
		c.println(c.st.score.Render(fmt.Sprintf("Final score: %d", res.Session.Score)))
		c.println("Farewell, seeker.")
	}
	if res.SaveErr != nil {
		c.println(c.st.warning.Render("Progress not saved: " + res.SaveErr.Error()))
	}
}

func (c *Console) renderSolved(res controller.Result) {
	c.println(c.st.success.Render(fmt.Sprintf("Correct! You earned %d points.", res.Points)))
	c.println(c.st.score.Render(fmt.Sprintf("Total score: %d", res.Session.Score)))
}

// choose lists items numbered from 1 and returns the zero-based pick.
func (c *Console) choose(title string, items []string) (int, error) {
	c.println(c.st.heading.Render(title))
	for i, it := range items {
		c.printf("  %d. %s\n", i+1, it)
	}
	for {
		ans, err := c.ask(fmt.Sprintf("Choose 1-%d", len(items)))
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(ans))
		if err == nil && n >= 1 && n <= len(items) {
			return n - 1, nil
		}
		c.println(c.st.warning.Render("Please enter a number from the list."))
	}
}

func (c *Console) confirm(query string) (bool, error) {
	for {
		ans, err := c.ask(query + " [y/n]")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(ans)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		c.println(c.st.warning.Render("please enter 'y' or 'n'"))
	}
}

func (c *Console) ask(query string) (string, error) {
	ans, err := c.ui.Ask(query, &input.Options{HideOrder: true})
	if (ans == "" && c.in.eof) || errors.Is(err, input.ErrInterrupted) {
		return "", ErrInputClosed
	}
	if err != nil && !errors.Is(err, input.ErrEmpty) {
		return "", errors.Wrap(err, "failed to get user input")
	}
	return ans, nil
}

func (c *Console) println(s string) { _, _ = fmt.Fprintln(c.out, s) }

func (c *Console) printf(format string, args ...any) { _, _ = fmt.Fprintf(c.out, format, args...) }

// eofReader remembers that the underlying reader is exhausted.
type eofReader struct {
	r   io.Reader
	eof bool
}

func (e *eofReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if errors.Is(err, io.EOF) {
		e.eof = true
	}
	return n, err
}
