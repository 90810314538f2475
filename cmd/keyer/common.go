package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/matte"
)

// task is one input image processed into one output image.
type task struct {
	input  string
	output string
	params matte.Params

	garbage string
	core    string
	eraser  string

	crop bool
	view string
}

func (t task) run(cmd *cobra.Command) error {
	if err := t.params.Validate(); err != nil {
		return err
	}
	var view matte.View
	if t.view != "" {
		v, err := matte.ParseView(t.view)
		if err != nil {
			return err
		}
		view = v
	}

	src, err := matte.Load(t.input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	mattes, err := t.loadMattes()
	if err != nil {
		return err
	}

	p := matte.NewPipeline()
	defer p.Close()

	out, err := p.Process(cmd.Context(), src, t.params, mattes)
	if err != nil {
		return fmt.Errorf("processing: %w", err)
	}

	if t.crop {
		bbox := out.AlphaBounds()
		if bbox.Empty() {
			return matte.ErrFullyTransparent
		}
		out = out.Crop(bbox)
		matte.Logger().Info("keyer: cropped", "bounds", bbox.String())
	}
	if t.view != "" {
		out = matte.Compose(out, view)
	}

	if err := out.SavePNG(t.output); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Processed %dx%d (%s)\n", src.Width(), src.Height(), t.params.Mode)
	fmt.Fprintf(cmd.OutOrStdout(), "Output: %s (%dx%d)\n", t.output, out.Width(), out.Height())
	return nil
}

func (t task) loadMattes() (matte.Mattes, error) {
	var m matte.Mattes
	for _, in := range []struct {
		path string
		role matte.Role
		dst  **matte.Matte
	}{
		{t.garbage, matte.RoleGarbage, &m.Garbage},
		{t.core, matte.RoleCore, &m.Core},
		{t.eraser, matte.RoleEraser, &m.Eraser},
	} {
		if in.path == "" {
			continue
		}
		mt, err := matte.LoadMatte(in.path, in.role)
		if err != nil {
			return matte.Mattes{}, fmt.Errorf("reading %s matte: %w", in.role, err)
		}
		*in.dst = mt
	}
	return m, nil
}

// addMatteFlags registers the garbage and core matte paths.
func addMatteFlags(cmd *cobra.Command) {
	cmd.Flags().String("garbage-matte", "", "Garbage matte image (white removes from the result)")
	cmd.Flags().String("core-matte", "", "Core matte image (white keeps in the result)")
}

func (t *task) readMatteFlags(cmd *cobra.Command) {
	t.garbage, _ = cmd.Flags().GetString("garbage-matte")
	t.core, _ = cmd.Flags().GetString("core-matte")
}

// addDespillFlags registers the despill parameters. An empty screen default
// leaves the screen to the caller.
func addDespillFlags(cmd *cobra.Command, screen string) {
	usage := "Screen color (green, blue)"
	if screen == "" {
		usage += "; defaults to the channel the key color leans to"
	}
	f := cmd.Flags()
	f.StringP("key-color", "k", screen, usage)
	f.StringP("method", "m", matte.DefaultParams().DespillMethod.String(),
		"Spill limit (average, double_red, double_average, limit)")
	f.BoolP("preserve-luminance", "p", false, "Add the removed luminance back to all channels")
}

func readDespillFlags(cmd *cobra.Command, p *matte.Params) error {
	f := cmd.Flags()
	if name, _ := f.GetString("key-color"); name != "" {
		screen, err := matte.ParseScreen(name)
		if err != nil {
			return err
		}
		p.DespillScreen = screen
	}
	methodName, _ := f.GetString("method")
	method, err := matte.ParseDespillMethod(methodName)
	if err != nil {
		return err
	}
	p.DespillMethod = method
	p.PreserveLuma, _ = f.GetBool("preserve-luminance")
	return nil
}

// addExtractFlags registers the alpha extraction parameters.
func addExtractFlags(cmd *cobra.Command) {
	def := matte.DefaultParams()
	f := cmd.Flags()
	f.Float64("brightness", def.Brightness, "Screen channel value of clean backing (0-255)")
	f.Float64("softness", def.Softness, "Alpha falloff softness (0-100)")
}

func readExtractFlags(cmd *cobra.Command, p *matte.Params) {
	p.Brightness, _ = cmd.Flags().GetFloat64("brightness")
	p.Softness, _ = cmd.Flags().GetFloat64("softness")
}
