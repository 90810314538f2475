// Command keyer pulls mattes from green and blue screen images.
//
// Each subcommand reads one image, runs the keying pipeline with the
// parameters given on the command line and writes a PNG with the result.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/gogpu/matte"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "keyer",
		Short:         "Chroma key, despill and alpha extraction for screen footage stills",
		Version:       matte.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			matte.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "Log pipeline stages and timings")

	root.AddCommand(newChromaCmd(), newDespillCmd(), newExtractCmd(), newRunCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
