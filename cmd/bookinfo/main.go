package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lepinkainen/humanlog"
	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-bookinfo/internal/faults"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	root := newRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		reportError(os.Stderr, err)
		os.Exit(faults.ExitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "bookinfo",
		Short:         "Extract book information given a PDF file of a book",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogging(cmd.ErrOrStderr(), verbose)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every extraction attempt and lookup")

	root.AddCommand(extractCmd(), versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}

// initLogging sends logs to w (stderr in practice) so stdout carries only the record.
func initLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := humanlog.NewHandler(w, &humanlog.Options{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func reportError(w io.Writer, err error) {
	if cat := faults.Category(err); cat != "unknown" {
		fmt.Fprintf(w, "error: %s: %v\n", cat, err)
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}
