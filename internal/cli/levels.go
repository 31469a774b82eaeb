package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tinge/internal/config"
)

func newLevelsCmd(a *app) *cobra.Command {
	var (
		input  inputOptions
		format string
	)

	cmd := &cobra.Command{
		Use:   "levels [colour...]",
		Short: "Show the thresholds at which the grouping changes",
		Long: `Show every distinct merge height of the clustering tree and how many
groups a cut at that threshold produces. Any threshold between two listed
values gives the same groups as the lower one.

Examples:
  tinge levels "#FF0000" "#FE0101" "#0000FF"
  tinge levels --file palette.txt -f json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := input.load(a, args)
			if err != nil {
				return err
			}
			engine, err := buildEngine(a, p)
			if err != nil {
				return err
			}

			levels := engine.Levels()
			w := cmd.OutOrStdout()

			switch strings.ToLower(format) {
			case config.FormatJSON:
				type levelJSON struct {
					Threshold float64 `json:"threshold"`
					Groups    int     `json:"groups"`
				}
				out := make([]levelJSON, len(levels))
				for i, l := range levels {
					out[i] = levelJSON{Threshold: l.Threshold, Groups: l.Groups}
				}
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			case config.FormatText:
				table := NewTable([]string{"THRESHOLD", "GROUPS"})
				for _, l := range levels {
					table.AddRow([]string{fmt.Sprintf("%.4f", l.Threshold), strconv.Itoa(l.Groups)})
				}
				_, err := io.WriteString(w, table.Render())
				return err
			default:
				return fmt.Errorf("unsupported format for levels: %s (supported: text, json)", format)
			}
		},
	}

	input.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", config.FormatText, "output format (text, json)")

	return cmd
}
