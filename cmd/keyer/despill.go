package main

import (
	"github.com/spf13/cobra"

	"github.com/gogpu/matte"
)

func newDespillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "despill INPUT OUTPUT",
		Short: "Suppress green or blue spill without keying",
		Args:  cobra.ExactArgs(2),
		RunE:  runDespill,
	}

	addDespillFlags(cmd, matte.ScreenGreen.String())
	return cmd
}

func runDespill(cmd *cobra.Command, args []string) error {
	p := matte.DefaultParams()
	p.Mode = matte.ModeDespill
	if err := readDespillFlags(cmd, &p); err != nil {
		return err
	}

	return task{input: args[0], output: args[1], params: p}.run(cmd)
}
