package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/shelf/pkg/commands/options"
	"tableflip.dev/shelf/pkg/runner/rename"
	"tableflip.dev/shelf/pkg/store"
)

func addRename(topLevel *cobra.Command) {
	so := &options.ScopeOptions{}

	cmd := &cobra.Command{
		Use:   "rename <category> <new-name>",
		Short: "Rename a category",
		Example: `
shelf rename Audio Sound
shelf rename 7b0c059e Sound --shared
`,
		Args: cobra.ExactArgs(2),
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
			r := rename.Rename{
				Target:      args[0],
				NewName:     args[1],
				Scope:       so.Scope(),
				Persistence: p,
			}
			return r.Do(cmd.Context())
		},
	}

	options.AddScopeArgs(cmd, so)
	topLevel.AddCommand(cmd)
}
