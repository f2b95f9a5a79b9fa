package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/shelf/pkg/commands/options"
	"tableflip.dev/shelf/pkg/runner/remove"
	"tableflip.dev/shelf/pkg/store"
)

func addRemove(topLevel *cobra.Command) {
	so := &options.ScopeOptions{}

	cmd := &cobra.Command{
		Use:     "remove <category>",
		Aliases: []string{"rm", "delete"},
		Short:   "Remove a category or subcategory",
		Example: `
shelf remove Stems
shelf rm 7b0c059e --shared
`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return categoryCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			r := remove.Remove{
				Target:      args[0],
				Scope:       so.Scope(),
				Persistence: p,
			}
			return r.Do(cmd.Context())
		},
	}

	options.AddScopeArgs(cmd, so)
	topLevel.AddCommand(cmd)
}
