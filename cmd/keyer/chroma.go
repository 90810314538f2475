package main

import (
	"github.com/spf13/cobra"

	"github.com/gogpu/matte"
)

func newChromaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chroma INPUT OUTPUT",
		Short: "Key out a backing color by Lab distance",
		Args:  cobra.ExactArgs(2),
		RunE:  runChroma,
	}

	def := matte.DefaultParams()
	f := cmd.Flags()
	f.StringP("color", "c", def.KeyColor.Hex(), "Key color in hex (e.g. #00FF00 or #0000FF)")
	f.Float64("lower", def.Lower, "Lower tolerance: distances below are fully transparent")
	f.Float64("upper", def.Upper, "Upper tolerance: distances above are fully opaque")
	f.Float64("highlights", def.Highlights, "Highlights adjustment (0-100+)")
	f.Float64("shadows", def.Shadows, "Shadows adjustment (0-100+)")
	addMatteFlags(cmd)
	f.Bool("mask-only", false, "Write the grayscale mask instead of the keyed image")
	f.Bool("invert", false, "Invert the final mask")
	f.Bool("despill", false, "Suppress spill on the backing color's channel after keying")
	f.Bool("alpha-extract", false, "Recover partial alpha from backing-dominant pixels after keying")
	addDespillFlags(cmd, "")
	addExtractFlags(cmd)
	return cmd
}

func runChroma(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	hex, _ := f.GetString("color")
	key, err := matte.ParseKeyColor(hex)
	if err != nil {
		return err
	}

	p := matte.DefaultParams()
	p.Mode = matte.ModeChroma
	p.ApplyChroma = true
	p.KeyColor = key
	p.DespillScreen = key.Screen()
	p.Lower, _ = f.GetFloat64("lower")
	p.Upper, _ = f.GetFloat64("upper")
	p.Highlights, _ = f.GetFloat64("highlights")
	p.Shadows, _ = f.GetFloat64("shadows")
	p.MaskOnly, _ = f.GetBool("mask-only")
	p.Invert, _ = f.GetBool("invert")
	p.ApplyDespill, _ = f.GetBool("despill")
	p.ApplyAlpha, _ = f.GetBool("alpha-extract")
	if err := readDespillFlags(cmd, &p); err != nil {
		return err
	}
	readExtractFlags(cmd, &p)

	t := task{input: args[0], output: args[1], params: p}
	t.readMatteFlags(cmd)
	return t.run(cmd)
}
