package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tinge/internal/cluster"
	"github.com/jmylchreest/tinge/internal/palette"
)

// inputOptions are the flags shared by commands that read a palette.
type inputOptions struct {
	file string
}

func (o *inputOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.file, "file", "", "read colours from a text or JSON palette file (- for stdin)")
}

// load reads the palette from positional arguments and/or --file.
// File colours come first.
func (o *inputOptions) load(a *app, args []string) (*palette.Palette, error) {
	p := &palette.Palette{}

	if o.file != "" {
		a.logger.Debug("loading palette file", "path", o.file)
		loaded, err := palette.Load(o.file)
		if err != nil {
			return nil, fmt.Errorf("failed to load palette: %w", err)
		}
		p.Inputs = append(p.Inputs, loaded.Inputs...)
		p.Colours = append(p.Colours, loaded.Colours...)
	}

	if len(args) > 0 {
		fromArgs, err := palette.FromStrings(args)
		if err != nil {
			return nil, err
		}
		p.Inputs = append(p.Inputs, fromArgs.Inputs...)
		p.Colours = append(p.Colours, fromArgs.Colours...)
	}

	if p.Len() == 0 {
		return nil, fmt.Errorf("%w: pass colours as arguments or use --file", cluster.ErrEmptyInput)
	}
	return p, nil
}

// buildEngine builds the clustering engine and logs how long it took.
func buildEngine(a *app, p *palette.Palette) (*cluster.Engine, error) {
	start := time.Now()
	engine, err := cluster.NewEngine(p.Colours)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("built dendrogram",
		"colours", p.Len(),
		"pairs", p.Len()*(p.Len()-1)/2,
		"max_distance", engine.Matrix().Max(),
		"elapsed", time.Since(start))
	return engine, nil
}
