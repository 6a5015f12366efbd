package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kannan/replicant/internal/interactive"
	"github.com/kannan/replicant/internal/module"
	"github.com/kannan/replicant/internal/session"
)

var showCmd = &cobra.Command{
	Use:   "show <module>",
	Short: "Show a module's source without running it",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var runCmd = &cobra.Command{
	Use:   "run <module>",
	Short: "Inspect a module and run it after confirmation",
	Long: `Show a module's source, then read the answer from stdin. The module
runs only when the answer is the confirm word ("yes" by default).

Examples:
  replicant run cleanup
  echo yes | replicant run cleanup
  replicant run cleanup --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

var runYes bool

func init() {
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "answer the confirmation with the confirm word")
}

func runShow(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	prog, err := rt.Session.Catalog().Inspect(args[0])
	if err != nil {
		if errors.Is(err, module.ErrUnknownModule) {
			return fmt.Errorf("%w (available: %s)", err, strings.Join(rt.Session.Modules(), ", "))
		}
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), prog.Source)
	if !strings.HasSuffix(prog.Source, "\n") {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}

func runRun(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	sess := rt.Session
	p := interactive.NewPrinter(rt.Transcript, cmd.OutOrStdout(), interactive.Options{NoColor: true})
	p.Seek()

	var submitErr error
	p.Follow(func() { submitErr = sess.Submit(ctx, args[0]) })
	if submitErr != nil {
		return submitErr
	}
	if sess.State() != session.Confirm {
		return fmt.Errorf("%w: %s", module.ErrUnknownModule, args[0])
	}

	answer := cfg.ConfirmWord
	if !runYes {
		answer, err = readAnswer(cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	p.Follow(func() { submitErr = sess.Submit(ctx, answer) })
	return submitErr
}

// readAnswer reads one line. End of input counts as an empty answer.
func readAnswer(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
