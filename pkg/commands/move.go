package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/shelf/pkg/commands/options"
	"tableflip.dev/shelf/pkg/runner/move"
	"tableflip.dev/shelf/pkg/store"
)

func addMove(topLevel *cobra.Command) {
	so := &options.ScopeOptions{}
	to := &options.TargetOptions{}

	cmd := &cobra.Command{
		Use:   "move <category>",
		Short: "Move a category under another parent",
		Long: `Move a category (and its whole subtree) under another parent,
or to the root when --to is omitted. Moves that would create a cycle are
rejected.`,
		Example: `
shelf move Stems --to Audio
shelf move Stems
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
			m := move.Move{
				Target:      args[0],
				To:          to.To,
				Scope:       so.Scope(),
				Persistence: p,
			}
			return m.Do(cmd.Context())
		},
	}

	options.AddScopeArgs(cmd, so)
	options.AddToArg(cmd, to)
	_ = cmd.RegisterFlagCompletionFunc("to", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return categoryCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}
