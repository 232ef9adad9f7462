package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pthm/tagview"
)

// placeholder stands in for components whose Go types the command line
// cannot construct. It accepts every argument and renders a marker comment.
type placeholder struct {
	tagview.Base
	tagview.InnerContent
	tagview.Splice
}

func (p *placeholder) BindArgument(string, any) (bool, error) {
	return true, nil
}

func (p *placeholder) Compile(context.Context, *tagview.Compiler) (string, error) {
	return "<!-- " + p.Name() + " -->", nil
}

type placeholders struct{}

func (placeholders) New(string) (tagview.Component, bool) {
	return &placeholder{}, true
}

// load builds a compiler from the config file. Components come from the
// manifest the config names and are rendered by placeholders.
func (o *rootOptions) load() (*tagview.Config, *tagview.Compiler, error) {
	cfg, err := tagview.LoadConfig(o.config)
	if err != nil {
		return nil, nil, err
	}
	logger := o.logger()

	reg := tagview.NewRegistry(tagview.WithLogger(logger))
	m, err := cfg.LoadManifest()
	if err != nil {
		return nil, nil, err
	}
	if m != nil {
		if err := reg.ApplyManifest(m, nil); err != nil {
			return nil, nil, err
		}
	}

	opts, err := cfg.Options()
	if err != nil {
		return nil, nil, err
	}
	opts = append(opts, tagview.WithLogger(logger))
	factory := tagview.NewFactory(reg, tagview.WithContainer(placeholders{}), tagview.WithLogger(logger))
	return cfg, tagview.NewCompiler(factory, opts...), nil
}

func newCompileCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "compile VIEW...",
		Short: "Print the compiled template source of views",
		Long: `Compile prints the html/template source views compile to. Components
render as marker comments. Nothing is written to the cache directory.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, compiler, err := opts.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, name := range args {
				v, err := compiler.Loader().Get(name)
				if err != nil {
					return err
				}
				src, err := compiler.CompileSource(cmd.Context(), v.Name, v.Source)
				if err != nil {
					return err
				}
				if len(args) > 1 {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintln(out, heading("== "+name))
				}
				fmt.Fprintln(out, src)
			}
			return nil
		},
	}
}

func newCacheCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the compiled template cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, compiler, err := opts.load()
			if err != nil {
				return err
			}
			if cfg.CacheDir == "" {
				return fmt.Errorf("%s sets no cache_dir", opts.config)
			}
			if err := compiler.ClearCache(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", cfg.Path(cfg.CacheDir))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "prune VIEW...",
		Short: "Remove compiled files the given views no longer compile to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, compiler, err := opts.load()
			if err != nil {
				return err
			}
			if cfg.CacheDir == "" {
				return fmt.Errorf("%s sets no cache_dir", opts.config)
			}
			removed, err := compiler.PruneCache(args...)
			for _, file := range removed {
				fmt.Fprintf(cmd.OutOrStdout(), "removing %s\n", file)
			}
			return err
		},
	})

	return cmd
}

func newComponentsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "components",
		Short: "List the components of the manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, compiler, err := opts.load()
			if err != nil {
				return err
			}
			records := compiler.Factory().Registry().Records()
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					rec.Name,
					string(rec.RenderMode()),
					strconv.Itoa(rec.Priority),
					strings.Join(rec.Tags, ","),
					rec.Class,
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), table([]string{"NAME", "RENDER", "PRIORITY", "TAGS", "CLASS"}, rows))
			return nil
		},
	}
}
