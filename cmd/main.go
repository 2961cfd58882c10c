package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Alias1177/CrashSignal/internal/api/openai"
	"github.com/Alias1177/CrashSignal/internal/checker"
	"github.com/Alias1177/CrashSignal/internal/commentary"
	"github.com/Alias1177/CrashSignal/internal/config"
	"github.com/Alias1177/CrashSignal/internal/render"
	"github.com/Alias1177/CrashSignal/internal/signal"
	"github.com/Alias1177/CrashSignal/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// exitRejected is the exit code for input that could not be parsed.
const exitRejected = 2

type rejectedError struct {
	err error
}

func (e *rejectedError) Error() string { return e.err.Error() }

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}
	config.SetupLogger(cfg.LogLevel)

	root := newRootCmd(commentary.NewClient(openai.Factory(cfg)))
	if err := root.ExecuteContext(context.Background()); err != nil {
		var rej *rejectedError
		if errors.As(err, &rej) {
			os.Exit(exitRejected)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(explainer models.Explainer) *cobra.Command {
	root := &cobra.Command{
		Use:           "crashsignal",
		Short:         "Risk-averse crash game signal checker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCheckCmd(explainer))
	return root
}

func newCheckCmd(explainer models.Explainer) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "check [multipliers...]",
		Short: "Check the betting signal for a multiplier history (most recent last)",
		Long: "Reads the multiplier history from arguments, --file or stdin, separated by commas and/or spaces.\n" +
			render.Caption,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd.InOrStdin(), file, args)
			if err != nil {
				return err
			}

			svc := checker.New(signal.Default(), explainer)
			out, err := svc.Check(cmd.Context(), checker.SourceCLI, raw)
			w := cmd.OutOrStdout()
			if err != nil {
				fmt.Fprintln(w, render.Text([]render.Block{render.Rejection(err)}))
				return &rejectedError{err: err}
			}

			fmt.Fprintln(w, render.Text(render.Outcome(out)))
			fmt.Fprintln(w, "\n---\n"+render.Caption)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the history from a file ('-' for stdin)")
	return cmd
}

func readInput(stdin io.Reader, file string, args []string) (string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case file == "" || file == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file, err)
		}
		return string(data), nil
	}
}
