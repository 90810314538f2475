package main

import (
	"github.com/spf13/cobra"

	"github.com/gogpu/matte"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run INPUT OUTPUT",
		Short: "Process an image with a saved parameter preset",
		Long: `Run applies a YAML preset holding a full parameter snapshot, as saved
by an interactive session. Fields missing from the preset keep their defaults.`,
		Args: cobra.ExactArgs(2),
		RunE: runPreset,
	}

	f := cmd.Flags()
	f.String("preset", "", "YAML parameter preset")
	addMatteFlags(cmd)
	f.String("eraser", "", "Eraser mask image (black clears alpha)")
	f.Bool("crop", false, "Crop the result to the bounding box of its visible pixels")
	f.String("view", "", "Flatten over a backdrop (checker, black, white, alpha)")
	_ = cmd.MarkFlagRequired("preset")
	return cmd
}

func runPreset(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	preset, _ := f.GetString("preset")
	p, err := matte.LoadParams(preset)
	if err != nil {
		return err
	}

	t := task{input: args[0], output: args[1], params: p}
	t.readMatteFlags(cmd)
	t.eraser, _ = f.GetString("eraser")
	t.crop, _ = f.GetBool("crop")
	t.view, _ = f.GetString("view")
	return t.run(cmd)
}
