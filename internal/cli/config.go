package cli

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/asyncflock/internal/config"
	"github.com/mrz1836/asyncflock/internal/dispatch"
	"github.com/mrz1836/asyncflock/internal/errors"
)

// AddConfigCommand adds the config command group to the root command.
func AddConfigCommand(root *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect flockctl configuration",
	}

	var format string
	show := &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective configuration after merging built-in defaults,
~/.flockctl/config.yaml, --config and FLOCK_* environment variables.

Examples:
  flockctl config show            # YAML
  flockctl config show -o json    # JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.OutOrStdout(), a.cfg, format)
		},
	}
	show.Flags().StringVarP(&format, "output", "o", "yaml", "output format (yaml or json)")

	cmd.AddCommand(show)
	root.AddCommand(cmd)
}

// effectiveConfig is what config show prints: the loaded values plus the
// dispatch strategy an empty pool.strategy resolves to.
type effectiveConfig struct {
	config.Config `yaml:",inline"`

	DefaultStrategy string `yaml:"default_strategy" json:"default_strategy"`
}

func runConfigShow(w io.Writer, cfg *config.Config, format string) error {
	out := effectiveConfig{Config: *cfg, DefaultStrategy: dispatch.DefaultStrategy}

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return errors.Wrap(err, "failed to encode config")
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	default:
		return fmt.Errorf("%w: %q must be yaml or json", errors.ErrInvalidOutputFormat, format)
	}
}
