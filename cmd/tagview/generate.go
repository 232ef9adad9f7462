package main

import (
	"github.com/spf13/cobra"

	"github.com/pthm/tagview/lib/generator"
)

func newGenerateCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "generate [packages]",
		Short: "Generate argument binders and descriptors for components",
		Long: `Generate writes a *_tv.go file next to every source file declaring a
type marked with //tagview:component.`,
		Example: `  tagview generate ./...
  tagview generate ./components/alert
  tagview generate --dry-run ./...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := generator.New(generator.Options{DryRun: dryRun, Out: cmd.OutOrStdout()})
			return gen.Generate(patterns(args)...)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be generated without writing files")
	return cmd
}

func newCleanCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "clean [packages]",
		Short: "Remove generated files (*" + generator.Suffix + ")",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := generator.New(generator.Options{DryRun: dryRun, Out: cmd.OutOrStdout()})
			return gen.Clean(patterns(args)...)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be removed without removing files")
	return cmd
}

func patterns(args []string) []string {
	if len(args) == 0 {
		return []string{"./..."}
	}
	return args
}
