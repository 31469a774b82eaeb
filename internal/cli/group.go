package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/tinge/internal/cluster"
	"github.com/jmylchreest/tinge/internal/colour"
	"github.com/jmylchreest/tinge/internal/config"
	"github.com/jmylchreest/tinge/internal/palette"
)

type groupOptions struct {
	input     inputOptions
	threshold float64
	format    string
	preview   string
	width     int
	output    string
}

func newGroupCmd(a *app) *cobra.Command {
	o := &groupOptions{}

	cmd := &cobra.Command{
		Use:   "group [colour...]",
		Short: "Group similar colours and pick one representative per group",
		Long: `Group colours whose CIEDE2000 difference is within the threshold.

Each group's representative is its member with the lowest HSL hue; a single
colour represents itself.

Colours may be given as #rgb, #rrggbb, #rrggbbaa, rgb(r, g, b) or r,g,b.

Examples:
  # Group three colours at the default threshold (10)
  tinge group "#FF0000" "#FE0101" "#0000FF"

  # Stricter grouping, JSON output
  tinge group -t 5 -f json "#FF0000" "#FE0101" "#0000FF"

  # Reduce a palette file to its representatives
  tinge group --file palette.txt -f hex -o reduced.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(a, cmd, args)
		},
	}

	o.input.register(cmd)
	cmd.Flags().Float64VarP(&o.threshold, "threshold", "t", config.DefaultThreshold, "maximum CIEDE2000 difference within a group")
	cmd.Flags().StringVarP(&o.format, "format", "f", config.FormatText, "output format (text, json, hex)")
	cmd.Flags().StringVar(&o.preview, "preview", config.PreviewAuto, "show colour swatches (auto, always, never)")
	cmd.Flags().IntVar(&o.width, "width", 8, "swatch width in characters")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

// resolve merges explicitly set flags over the loaded configuration.
func (o *groupOptions) resolve(flags *pflag.FlagSet, cfg *config.Config) (*config.Config, error) {
	resolved := *cfg
	if flags.Changed("threshold") {
		resolved.Threshold = o.threshold
	}
	if flags.Changed("format") {
		resolved.Format = strings.ToLower(o.format)
	}
	if flags.Changed("preview") {
		resolved.Preview = strings.ToLower(o.preview)
	}
	if flags.Changed("width") {
		resolved.Width = o.width
	}
	if err := resolved.Validate(); err != nil {
		return nil, err
	}
	return &resolved, nil
}

func (o *groupOptions) run(a *app, cmd *cobra.Command, args []string) error {
	cfg, err := o.resolve(cmd.Flags(), a.cfg)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	p, err := o.input.load(a, args)
	if err != nil {
		return err
	}

	engine, err := buildEngine(a, p)
	if err != nil {
		return err
	}

	grouping, err := engine.Cut(cfg.Threshold)
	if err != nil {
		return err
	}
	a.logger.Debug("cut dendrogram", "threshold", cfg.Threshold, "groups", grouping.Len())

	return writeOutput(cmd, o.output, a, func(w io.Writer) error {
		preview := o.output == "" && previewEnabled(cfg.Preview, w)
		return formatGrouping(w, p, grouping, cfg.Format, preview, cfg.Width)
	})
}

// writeOutput sends the formatted result to the output file or stdout.
func writeOutput(cmd *cobra.Command, path string, a *app, write func(io.Writer) error) error {
	if path == "" {
		return write(cmd.OutOrStdout())
	}

	f, err := os.Create(path) // #nosec G304 - User-specified output path
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	a.logger.Info("wrote output", "path", path)
	return nil
}

// groupJSON is the JSON form of one group.
type groupJSON struct {
	Representative string   `json:"representative"`
	Colours        []string `json:"colours"`
	Indices        []int    `json:"indices"`
	Height         float64  `json:"height"`
}

// groupingJSON is the JSON form of a grouping.
type groupingJSON struct {
	Threshold float64     `json:"threshold"`
	Count     int         `json:"count"`
	Groups    []groupJSON `json:"groups"`
}

func formatGrouping(w io.Writer, p *palette.Palette, g *cluster.Grouping, format string, preview bool, width int) error {
	switch format {
	case config.FormatJSON:
		out := groupingJSON{
			Threshold: g.Threshold,
			Count:     g.Len(),
			Groups:    make([]groupJSON, len(g.Groups)),
		}
		for i, grp := range g.Groups {
			out.Groups[i] = groupJSON{
				Representative: p.Label(grp.Representative),
				Colours:        p.Labels(grp.Members),
				Indices:        grp.Members,
				Height:         grp.Height,
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)

	case config.FormatHex:
		for _, grp := range g.Groups {
			if _, err := fmt.Fprintln(w, p.Colours[grp.Representative].Hex()); err != nil {
				return err
			}
		}
		return nil

	case config.FormatText:
		var b strings.Builder
		fmt.Fprintf(&b, "%d groups from %d colours (threshold %g)\n", g.Len(), p.Len(), g.Threshold)
		for i, grp := range g.Groups {
			fmt.Fprintf(&b, "\nGroup %d", i+1)
			if len(grp.Members) > 1 {
				fmt.Fprintf(&b, " (%d colours, max ΔE %.2f)", len(grp.Members), grp.Height)
			}
			b.WriteString("\n ")
			for _, idx := range grp.Members {
				b.WriteString(" ")
				b.WriteString(swatch(p, idx, preview, width))
				if idx == grp.Representative {
					b.WriteString("*")
				}
			}
			b.WriteString("\n")
		}
		_, err := io.WriteString(w, b.String())
		return err

	default:
		return fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(config.Formats(), ", "))
	}
}

// swatch renders colour idx as its label, optionally on an ANSI swatch.
func swatch(p *palette.Palette, idx int, preview bool, width int) string {
	label := p.Label(idx)
	if !preview {
		return label
	}
	return colour.ColourPreviewWithText(p.Colours[idx], label, max(width, len(label)))
}
