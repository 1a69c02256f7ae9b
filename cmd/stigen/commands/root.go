// Package commands holds the cobra commands of the stigen binary.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/stigen/internal/logger"
)

// NewRootCmd returns the stigen command tree bound to a fresh configuration.
func NewRootCmd() *cobra.Command {
	v := newViper()
	var configFile string

	root := &cobra.Command{
		Use:   "stigen",
		Short: "Generate query units of single table inheritance subtypes",
		Long: `stigen reads a schema declaring single table inheritance trees and
generates one query unit per subtype. Each unit derives from the query unit of
its ancestor and restricts every select, update and delete to the rows of its
own discriminator value.

Available commands:
  generate - Render the query units of a schema
  inspect  - Print the inheritance hierarchy of a schema
  version  - Show version information

Examples:
  stigen generate -s schema.yaml -t build/      # Write PHP units to build/
  stigen generate -s schema.yaml -r go          # Print Go units to stdout
  stigen generate -s schema.yaml -t out --watch # Regenerate on schema changes
  stigen inspect -s schema.yaml                 # Show ancestor chains`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := readConfig(v, configFile); err != nil {
				return err
			}
			if err := logger.Initialize(v.GetBool("log.json"), v.GetBool("log.verbose")); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Cleanup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default: ./stigen.yaml)")
	flags.Bool("json", false, "Write logs and version information as JSON")
	flags.BoolP("verbose", "v", false, "Enable debug logs")
	_ = v.BindPFlag("log.json", flags.Lookup("json"))
	_ = v.BindPFlag("log.verbose", flags.Lookup("verbose"))

	root.AddCommand(newGenerateCmd(v))
	root.AddCommand(newInspectCmd(v))
	root.AddCommand(newVersionCmd())
	return root
}
