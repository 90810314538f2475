package main

import (
	"github.com/spf13/cobra"

	"github.com/gogpu/matte"
)

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract INPUT OUTPUT",
		Short: "Recover partial alpha from a screen's darkening",
		Args:  cobra.ExactArgs(2),
		RunE:  runExtract,
	}

	def := matte.DefaultParams()
	f := cmd.Flags()
	f.StringP("color", "c", def.KeyColor.Hex(), "Backing color in hex; picks the green or blue channel")
	addExtractFlags(cmd)
	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	hex, _ := f.GetString("color")
	key, err := matte.ParseKeyColor(hex)
	if err != nil {
		return err
	}

	p := matte.DefaultParams()
	p.Mode = matte.ModeAlphaExtract
	p.AlphaEnabled = true
	p.KeyColor = key
	readExtractFlags(cmd, &p)

	return task{input: args[0], output: args[1], params: p}.run(cmd)
}
