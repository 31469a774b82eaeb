package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tinge/internal/cluster"
	"github.com/jmylchreest/tinge/internal/config"
	"github.com/jmylchreest/tinge/internal/palette"
)

type pairsOptions struct {
	input   inputOptions
	format  string
	limit   int
	preview string
	width   int
}

func newPairsCmd(a *app) *cobra.Command {
	o := &pairsOptions{}

	cmd := &cobra.Command{
		Use:   "pairs [colour...]",
		Short: "List every pair of colours by CIEDE2000 difference",
		Long: `List every pair of colours ordered from most to least similar.

Useful for choosing a threshold for the group command: pairs below the
threshold are candidates for merging.

Examples:
  tinge pairs "#FF0000" "#FE0101" "#0000FF"
  tinge pairs --file palette.json --limit 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(a, cmd, args)
		},
	}

	o.input.register(cmd)
	cmd.Flags().StringVarP(&o.format, "format", "f", config.FormatText, "output format (text, json)")
	cmd.Flags().IntVarP(&o.limit, "limit", "n", 0, "show only the N closest pairs (0 for all)")
	cmd.Flags().StringVar(&o.preview, "preview", "", "show colour swatches (auto, always, never)")
	cmd.Flags().IntVar(&o.width, "width", 0, "swatch width in characters")

	return cmd
}

type pairJSON struct {
	A        string  `json:"a"`
	B        string  `json:"b"`
	I        int     `json:"i"`
	J        int     `json:"j"`
	Distance float64 `json:"distance"`
}

func (o *pairsOptions) run(a *app, cmd *cobra.Command, args []string) error {
	if o.limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", o.limit)
	}
	if o.preview != "" && !slices.Contains(config.PreviewModes(), strings.ToLower(o.preview)) {
		return fmt.Errorf("invalid preview mode: %s (valid: %s)", o.preview, strings.Join(config.PreviewModes(), ", "))
	}

	p, err := o.input.load(a, args)
	if err != nil {
		return err
	}
	engine, err := buildEngine(a, p)
	if err != nil {
		return err
	}

	pairs := engine.Pairs()
	if o.limit > 0 && o.limit < len(pairs) {
		pairs = pairs[:o.limit]
	}

	w := cmd.OutOrStdout()
	switch strings.ToLower(o.format) {
	case config.FormatJSON:
		out := make([]pairJSON, len(pairs))
		for i, pr := range pairs {
			out[i] = pairJSON{A: p.Label(pr.I), B: p.Label(pr.J), I: pr.I, J: pr.J, Distance: pr.Distance}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case config.FormatText:
		previewMode := a.cfg.Preview
		if o.preview != "" {
			previewMode = strings.ToLower(o.preview)
		}
		width := a.cfg.Width
		if o.width > 0 {
			width = o.width
		}
		_, err := io.WriteString(w, renderPairs(p, pairs, previewEnabled(previewMode, w), width))
		return err
	default:
		return fmt.Errorf("unsupported format for pairs: %s (supported: text, json)", o.format)
	}
}

func renderPairs(p *palette.Palette, pairs []cluster.Pair, preview bool, width int) string {
	table := NewTable([]string{"A", "B", "DELTA-E"})
	for _, pr := range pairs {
		table.AddRow([]string{
			swatch(p, pr.I, preview, width),
			swatch(p, pr.J, preview, width),
			fmt.Sprintf("%.2f", pr.Distance),
		})
	}
	return table.Render()
}
