// Package interactive provides a readline-based line console. It is the
// UI for legacy builds and for `replicant console`.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"

	"github.com/kannan/replicant/internal/app"
	"github.com/kannan/replicant/internal/console"
	"github.com/kannan/replicant/internal/logger"
	"github.com/kannan/replicant/internal/session"
)

const (
	selectPrompt  = "replicant> "
	confirmPrompt = "proceed> "
)

// LineReader is the subset of *readline.Instance the console uses.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// Options configure a console or printer.
type Options struct {
	NoColor bool
}

// Console drives a session from a line reader and prints new transcript
// text as it appears.
type Console struct {
	sess    *session.Session
	rl      LineReader
	printer *Printer
}

// New creates a console writing to w.
func New(sess *session.Session, rl LineReader, w io.Writer, opts Options) *Console {
	return &Console{
		sess:    sess,
		rl:      rl,
		printer: NewPrinter(sess.Transcript(), w, opts),
	}
}

// Run prints the welcome message and handles lines until EOF.
func (c *Console) Run(ctx context.Context) error {
	c.sess.Welcome()
	c.printer.Flush()

	for {
		if ctx.Err() != nil {
			return nil
		}

		if c.sess.State() == session.Confirm {
			c.rl.SetPrompt(confirmPrompt)
		} else {
			c.rl.SetPrompt(selectPrompt)
		}

		line, err := c.rl.Readline()
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case err != nil:
			return fmt.Errorf("failed to read input: %w", err)
		}

		c.submit(ctx, line)
	}
}

// submit runs one submission, streaming transcript output while it runs.
// An interrupt signal during the submission cancels the running module.
func (c *Console) submit(ctx context.Context, line string) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	c.printer.Follow(func() {
		if err := c.sess.Submit(ctx, line); err != nil {
			logger.Debug("submission failed", "error", err)
		}
	})
}

// Run starts the line console on the terminal.
func Run(rt *app.Runtime) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          selectPrompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to start console: %w", err)
	}
	defer rl.Close()

	if title := rt.Config.UI.Title; title != "" {
		console.SetTitle(title)
	}

	fmt.Fprint(rl.Stdout(), color.GreenString(app.GetBanner()))
	fmt.Fprintln(rl.Stdout())

	c := New(rt.Session, rl, rl.Stdout(), Options{NoColor: color.NoColor})
	return c.Run(context.Background())
}
