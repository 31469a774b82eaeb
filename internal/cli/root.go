// Package cli provides the command-line interface for tinge.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/tinge/internal/config"
	"github.com/jmylchreest/tinge/internal/version"
)

// app carries state shared by every subcommand once the root command has
// parsed global flags.
type app struct {
	configPath string
	verbose    bool
	quiet      bool

	cfg    *config.Config
	logger hclog.Logger
}

// NewRootCmd builds the tinge command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "tinge",
		Short: "Group near-duplicate palette colours",
		Long: `Tinge groups the colours of an extracted palette into perceptually distinct
clusters, so near-duplicate colours collapse into one representative swatch.

Colours are compared with the CIEDE2000 colour difference and grouped with
complete-linkage hierarchical clustering. The tree is cut at a threshold: any
two colours in the same group differ by at most that many delta-E units.`,
		Version:      version.Short(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: $TINGE_CONFIG or <user config dir>/tinge/config.yaml)")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(
		newGroupCmd(a),
		newPairsCmd(a),
		newLevelsCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	if a.verbose && a.quiet {
		return fmt.Errorf("--verbose and --quiet cannot be used together")
	}

	level := hclog.Info
	switch {
	case a.verbose:
		level = hclog.Debug
	case a.quiet:
		level = hclog.Error
	}
	a.logger = hclog.New(&hclog.LoggerOptions{
		Name:   "tinge",
		Output: cmd.ErrOrStderr(),
		Level:  level,
	})

	path := a.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.cfg = cfg
	a.logger.Debug("configuration loaded", "sources", cfg.Source, "threshold", cfg.Threshold, "format", cfg.Format)

	return nil
}

// previewEnabled resolves the preview mode for the given writer.
func previewEnabled(mode string, w io.Writer) bool {
	switch mode {
	case config.PreviewAlways:
		return true
	case config.PreviewNever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) // #nosec G115 - file descriptors fit in int
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
