package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/syssam/stigen/compiler/gen"
	"github.com/syssam/stigen/compiler/load"
	"github.com/syssam/stigen/internal/logger"
)

func newGenerateCmd(v *viper.Viper) *cobra.Command {
	var watchSchema bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render the query units of a schema",
		Long: `Render one query unit per single table inheritance subtype of the schema.

Units are written under the target directory, one directory per namespace
segment. Existing files are kept unless --overwrite is set; --watch implies
--overwrite. Without a target the units are printed to stdout.

Examples:
  stigen generate -s schema.yaml -t build/
  stigen generate -s schema.xml -r go -t internal/ --overwrite
  STIGEN_TIMESTAMP=true stigen generate -s schema.yaml -t build/`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(v, cmd.Flags(), "schema", "renderer", "target", "overwrite", "timestamp", "version", "header", "workers")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(v)
			if err != nil {
				return err
			}
			if !watchSchema {
				return runGenerate(cmd.Context(), cmd.OutOrStdout(), c)
			}
			if err := prepareWatch(c); err != nil {
				return err
			}
			if err := runGenerate(cmd.Context(), cmd.OutOrStdout(), c); err != nil {
				return err
			}
			return watch(cmd.Context(), c.Schema, func() error {
				return runGenerate(cmd.Context(), cmd.OutOrStdout(), c)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringP("schema", "s", "", "Schema file (.yaml, .yml or .xml)")
	flags.StringP("renderer", "r", "php", "Target language: php or go")
	flags.StringP("target", "t", "", "Output directory (default: stdout)")
	flags.Bool("overwrite", false, "Replace existing files")
	flags.Bool("timestamp", false, "Add the generation time to the file header")
	flags.String("version", "", "Generator version written in the file header")
	flags.String("header", "", "Extra header comment of generated files")
	flags.Int("workers", 0, "Parallel renders and writes (default: GOMAXPROCS)")
	flags.BoolVarP(&watchSchema, "watch", "w", false, "Regenerate when the schema file changes")
	return cmd
}

// prepareWatch checks c for watch mode. Watch mode rewrites existing files,
// otherwise every regeneration after the first would be skipped.
func prepareWatch(c *Config) error {
	if c.Target == "" {
		return gen.NewConfigError("Target", nil, "--watch needs a target directory")
	}
	if !c.Overwrite {
		logger.Logger.Infow("watch mode overwrites existing files", logger.FieldFile, c.Target)
		c.Overwrite = true
	}
	return nil
}

// bindFlags binds the named flags to the viper keys of the same name. It runs
// once the command is selected since several commands share key names.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, names ...string) error {
	for _, name := range names {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// runGenerate renders the units of the configured schema, then writes them
// under the target directory or prints them to out.
func runGenerate(ctx context.Context, out io.Writer, c *Config) error {
	if c.Schema == "" {
		return gen.NewConfigError("Schema", nil, "no schema file given: use --schema or the schema config key")
	}
	r, err := newRenderer(c.Renderer)
	if err != nil {
		return err
	}
	gc, err := c.GenConfig()
	if err != nil {
		return err
	}
	db, err := load.LoadFile(c.Schema)
	if err != nil {
		return err
	}
	outs, err := gen.NewGenerator(gc, r).GenerateAll(ctx, db)
	if err != nil {
		return err
	}

	if gc.Target == "" {
		for _, o := range outs {
			if _, err := fmt.Fprintf(out, "%s\n", o.Source); err != nil {
				return err
			}
		}
		return nil
	}

	w, err := gen.NewWriter(gc, r)
	if err != nil {
		return err
	}
	if err := w.WriteAll(ctx, outs); err != nil {
		return err
	}
	m := w.Metrics()
	logger.Logger.Infow("files written",
		logger.FieldFile, gc.Target,
		logger.FieldCount, m.FilesWritten,
		logger.FieldSkipped, m.FilesSkipped,
		logger.FieldSize, m.TotalBytes)
	return nil
}
