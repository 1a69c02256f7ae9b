package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syssam/stigen/compiler/gen"
	"github.com/syssam/stigen/compiler/load"
)

func newInspectCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the inheritance hierarchy of a schema",
		Long: `Print every single table inheritance tree of the schema. Subtypes are
listed ancestors first, each with its discriminator value, its query unit and
the chain of query units it derives from.

Examples:
  stigen inspect -s schema.yaml
  stigen inspect -s schema.yaml -r go`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(v, cmd.Flags(), "schema", "renderer")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(v)
			if err != nil {
				return err
			}
			return runInspect(cmd.OutOrStdout(), c)
		},
	}
	cmd.Flags().StringP("schema", "s", "", "Schema file (.yaml, .yml or .xml)")
	cmd.Flags().StringP("renderer", "r", "php", "Naming of the listed query units: php or go")
	return cmd
}

func runInspect(out io.Writer, c *Config) error {
	if c.Schema == "" {
		return gen.NewConfigError("Schema", nil, "no schema file given: use --schema or the schema config key")
	}
	r, err := newRenderer(c.Renderer)
	if err != nil {
		return err
	}
	db, err := load.LoadFile(c.Schema)
	if err != nil {
		return err
	}
	namer := r.Namer()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, t := range db.InheritanceTables() {
		h, err := gen.NewHierarchy(t, namer)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s (%s)\n", t.Name, t.ChildrenColumn().Name)
		for _, inh := range h.Order() {
			chain, err := h.Chain(inh)
			if err != nil {
				return err
			}
			classes := make([]string, len(chain))
			for i, a := range chain {
				classes[i] = a.Class
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", inh.Key, namer.SubtypeQueryClass(inh), strings.Join(classes, " -> "))
		}
	}
	return tw.Flush()
}
